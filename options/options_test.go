package options

import (
	"errors"
	"strings"
	"testing"

	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func element(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	assert.NilError(t, err)
	for n := range dom.Elements(doc) {
		if _, ok := dom.Attr(n, "data-component"); ok {
			return n
		}
	}
	t.Fatal("no marked element found")
	return nil
}

func TestExtract(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected string
		found    bool
	}{
		{
			name:     "payload",
			body:     `<div data-component="a"><script type="text/data">{"x": 1}</script></div>`,
			expected: `{"x": 1}`,
			found:    true,
		},
		{
			name: "no payload",
			body: `<div data-component="a"><p>hello</p></div>`,
		},
		{
			name: "executable script ignored",
			body: `<div data-component="a"><script>var x = 1;</script></div>`,
		},
		{
			name: "nested component payload ignored",
			body: `<div data-component="a"><div data-component="b"><script type="text/data">{"y": 2}</script></div></div>`,
		},
		{
			name:     "first payload wins",
			body:     `<div data-component="a"><script type="text/data">{"x": 1}</script><script type="text/data">{"x": 2}</script></div>`,
			expected: `{"x": 1}`,
			found:    true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, ok := Extract(element(t, c.body), "data-component")
			assert.Equal(t, ok, c.found)
			assert.Equal(t, raw, c.expected)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("json with whitespace", func(t *testing.T) {
		actual, err := Parse("{\n\t\"title\":   \"A  title\",\n  \"nested\": {\"a\": true}\n}")
		assert.NilError(t, err)
		assert.Equal(t, actual["title"], "A title")
		assert.DeepEqual(t, actual["nested"], map[string]any{"a": true})
	})
	t.Run("object literal", func(t *testing.T) {
		actual, err := Parse("{collapseOthers: false}")
		assert.NilError(t, err)
		assert.DeepEqual(t, actual, map[string]any{"collapseOthers": false})
	})
	t.Run("empty", func(t *testing.T) {
		actual, err := Parse("   \n ")
		assert.NilError(t, err)
		assert.Assert(t, actual == nil)
	})
	for _, raw := range []string{`{"title": "x"`, `[1, 2, 3]`, `"just a string"`} {
		t.Run("malformed "+raw, func(t *testing.T) {
			_, err := Parse(raw)
			var malformed *MalformedOptionsError
			assert.Assert(t, errors.As(err, &malformed), "error: %v", err)
			assert.Equal(t, malformed.Raw, raw)
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := map[string]any{
		"zoom":   15,
		"center": map[string]any{"lat": 51.5, "lng": -0.08},
		"tags":   []any{"a", "b"},
	}
	payload := map[string]any{
		"center": map[string]any{"lat": 40.0},
		"tags":   []any{"c"},
	}

	merged := Merge(defaults, payload)
	assert.DeepEqual(t, merged, map[string]any{
		"zoom":   15,
		"center": map[string]any{"lat": 40.0, "lng": -0.08},
		"tags":   []any{"c"},
	})

	t.Run("repeatable", func(t *testing.T) {
		assert.DeepEqual(t, Merge(defaults, payload), merged)
	})

	t.Run("defaults untouched", func(t *testing.T) {
		merged["center"].(map[string]any)["lat"] = 0.0
		merged["tags"].([]any)[0] = "z"
		assert.Equal(t, defaults["center"].(map[string]any)["lat"], 51.5)
		assert.DeepEqual(t, defaults["tags"], []any{"a", "b"})
	})

	t.Run("nil overrides copy defaults", func(t *testing.T) {
		copied := Merge(defaults, nil)
		assert.DeepEqual(t, copied, defaults)
		copied["center"].(map[string]any)["lng"] = 1.0
		copied["tags"].([]any)[1] = "y"
		assert.Equal(t, defaults["center"].(map[string]any)["lng"], -0.08)
		assert.DeepEqual(t, defaults["tags"], []any{"a", "b"})
	})

	t.Run("scalar replaces map", func(t *testing.T) {
		actual := Merge(defaults, map[string]any{"center": "here"})
		assert.Equal(t, actual["center"], "here")
	})
}

func TestResolve(t *testing.T) {
	el := element(t, `<div data-component="a"><script type="text/data">{"b": {"c": "three"}}</script></div>`)
	defaults := map[string]any{"a": 1, "b": map[string]any{"d": 4}}
	actual, err := Resolve(el, "data-component", defaults)
	assert.NilError(t, err)
	assert.DeepEqual(t, actual, map[string]any{"a": 1, "b": map[string]any{"c": "three", "d": 4}})

	bad := element(t, `<div data-component="a"><script type="text/data">{"b": </script></div>`)
	_, err = Resolve(bad, "data-component", defaults)
	assert.Assert(t, is.ErrorType(err, &MalformedOptionsError{}))
}

type center struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type mapConfig struct {
	Center      center   `yaml:"center"`
	Zoom        int      `yaml:"zoom"`
	Scrollwheel bool     `yaml:"scrollwheel"`
	Labels      []string `yaml:"labels"`
}

func defaultMapConfig() mapConfig {
	return mapConfig{
		Center: center{Lat: 51.5115543, Lng: -0.0816882},
		Zoom:   15,
		Labels: []string{"one", "two"},
	}
}

func TestLoad(t *testing.T) {
	t.Run("nil payload keeps defaults", func(t *testing.T) {
		config := defaultMapConfig()
		assert.NilError(t, Load(nil, &config))
		assert.DeepEqual(t, config, defaultMapConfig())
	})
	t.Run("nested merge", func(t *testing.T) {
		payload, err := Parse(`{"center": {"lat": 40.7}, "scrollwheel": true, "labels": ["three"]}`)
		assert.NilError(t, err)
		config := defaultMapConfig()
		assert.NilError(t, Load(payload, &config))
		assert.DeepEqual(t, config, mapConfig{
			Center:      center{Lat: 40.7, Lng: -0.0816882},
			Zoom:        15,
			Scrollwheel: true,
			Labels:      []string{"three"},
		})
	})
	t.Run("unknown key", func(t *testing.T) {
		payload, err := Parse(`{"zoooom": 3}`)
		assert.NilError(t, err)
		config := defaultMapConfig()
		err = Load(payload, &config)
		assert.Assert(t, is.ErrorType(err, &MalformedOptionsError{}))
		assert.DeepEqual(t, config, defaultMapConfig())
	})
	t.Run("null replacing a default", func(t *testing.T) {
		payload, err := Parse(`{"scrollwheel": null, "center": {lat: }}`)
		assert.NilError(t, err)
		config := defaultMapConfig()
		err = Load(payload, &config)
		assert.Assert(t, is.ErrorType(err, &MalformedOptionsError{}))
		assert.ErrorContains(t, err, "null value for center.lat, scrollwheel")
		assert.DeepEqual(t, config, defaultMapConfig())
	})
	t.Run("not a pointer", func(t *testing.T) {
		assert.ErrorContains(t, Load(nil, defaultMapConfig()), "non-nil pointer")
	})
}
