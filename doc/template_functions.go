package main

import (
	"strings"
)

var templateFunctions = map[string]any{
	"line": func(ch string) string {
		return strings.Repeat(ch, 80)
	},
	"yesNo": func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	},
	"oneLine": func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	},
}
