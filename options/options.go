// Package options resolves the per-element configuration of a component: an
// optional `<script type="text/data">` block inside the element holds an
// object literal that is merged over the component's defaults.
package options

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The script type marking an embedded options payload.
const PayloadType = "text/data"

var whitespace = regexp.MustCompile(`\s+`)

// MalformedOptionsError is returned when an options payload cannot be parsed,
// or does not fit the component's configuration.
type MalformedOptionsError struct {
	Raw string // The payload text, as found in the document.
	Err error
}

func (e *MalformedOptionsError) Error() string {
	return fmt.Sprintf("malformed options %q: %v", e.Raw, e.Err)
}

func (e *MalformedOptionsError) Unwrap() error {
	return e.Err
}

// Extract the raw payload text for the given element.  Only the first
// payload block is used; blocks belonging to nested elements carrying the
// marker attribute are ignored.  An empty marker disables that check.
func Extract(element *html.Node, marker string) (string, bool) {
	var found *html.Node
	dom.Walk(element, func(n *html.Node) (bool, bool) {
		if marker != "" {
			if _, nested := dom.Attr(n, marker); nested {
				return true, false
			}
		}
		if n.DataAtom == atom.Script {
			if typ, _ := dom.Attr(n, "type"); strings.EqualFold(strings.TrimSpace(typ), PayloadType) {
				found = n
				return false, false
			}
		}
		return true, true
	})
	if found == nil {
		return "", false
	}
	return dom.Text(found), true
}

// Parse a raw payload.  Runs of whitespace are collapsed before parsing; both
// JSON and YAML flow mappings are accepted.  An empty payload returns a nil
// map, meaning the defaults apply unchanged.  YAML null semantics apply, so
// `{a: }` parses as `{a: null}`; [Load] rejects such nulls where the default
// is set.
func Parse(raw string) (map[string]any, error) {
	text := whitespace.ReplaceAllString(strings.TrimSpace(raw), " ")
	if text == "" {
		return nil, nil
	}
	var value any
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return nil, &MalformedOptionsError{Raw: raw, Err: err}
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, &MalformedOptionsError{
			Raw: raw,
			Err: fmt.Errorf("expected an object, got %T", value),
		}
	}
}

// Merge overrides on top of defaults, returning a new map.  Nested maps are
// merged recursively; any other value in overrides replaces the default
// wholesale.  The result shares no maps or slices with either input.
func Merge(defaults, overrides map[string]any) map[string]any {
	result := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		result[k] = clone(v)
	}
	for k, v := range overrides {
		if sub, ok := v.(map[string]any); ok {
			if base, ok := result[k].(map[string]any); ok {
				result[k] = Merge(base, sub)
				continue
			}
		}
		result[k] = clone(v)
	}
	return result
}

func clone(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return Merge(v, nil)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = clone(v[i])
		}
		return out
	default:
		return v
	}
}

// Resolve the options for an element against untyped defaults.
func Resolve(element *html.Node, marker string, defaults map[string]any) (map[string]any, error) {
	var payload map[string]any
	if raw, ok := Extract(element, marker); ok {
		var err error
		if payload, err = Parse(raw); err != nil {
			return nil, err
		}
	}
	return Merge(defaults, payload), nil
}

// Load a parsed payload into a typed configuration.  The value pointed to by
// into holds the defaults on entry; on success it is replaced with the merged
// configuration.  Keys that do not match the configuration are rejected, as
// are null values for keys that have a default.
func Load(payload map[string]any, into any) error {
	target := reflect.ValueOf(into)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("options target must be a non-nil pointer, got %T", into)
	}

	defaults, err := toMap(into)
	if err != nil {
		return fmt.Errorf("failed to convert defaults: %w", err)
	}
	if nulls := nullOverrides(defaults, payload, ""); len(nulls) > 0 {
		return &MalformedOptionsError{
			Raw: flowText(payload),
			Err: fmt.Errorf("null value for %s", strings.Join(nulls, ", ")),
		}
	}
	merged, err := yaml.Marshal(Merge(defaults, payload))
	if err != nil {
		return fmt.Errorf("failed to encode merged options: %w", err)
	}

	fresh := reflect.New(target.Elem().Type())
	decoder := yaml.NewDecoder(bytes.NewReader(merged), yaml.DisallowUnknownField())
	if err := decoder.Decode(fresh.Interface()); err != nil {
		return &MalformedOptionsError{Raw: flowText(payload), Err: err}
	}
	target.Elem().Set(fresh.Elem())
	return nil
}

// The keys in payload set to null where the default has a value, sorted.
func nullOverrides(defaults, payload map[string]any, prefix string) []string {
	var result []string
	for key, value := range payload {
		def, ok := defaults[key]
		if !ok || def == nil {
			continue
		}
		switch value := value.(type) {
		case nil:
			result = append(result, prefix+key)
		case map[string]any:
			if sub, ok := def.(map[string]any); ok {
				result = append(result, nullOverrides(sub, value, prefix+key+".")...)
			}
		}
	}
	slices.Sort(result)
	return result
}

func flowText(payload map[string]any) string {
	raw, _ := yaml.MarshalWithOptions(payload, yaml.Flow(true))
	return strings.TrimSpace(string(raw))
}

func toMap(value any) (map[string]any, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
