// The `accordion` component expands and collapses content panels.  Each
// `.accordion__title` element toggles the `.accordion__content` element that
// immediately follows it; collapsed panels carry the `hidden` attribute.
package accordion

import (
	"context"
	"fmt"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
)

const (
	activeClass  = "is-active"
	titleClass   = "accordion__title"
	contentClass = "accordion__content"
)

// Configuration for the component.
type Configuration struct {
	// Whether expanding a panel collapses every other panel; defaults to true.
	CollapseOthers bool `yaml:"collapseOthers"`
}

// Accordion component
type Accordion struct {
	config Configuration
	ui     components.UI
}

func (a *Accordion) IsSingleton() bool {
	return false
}

func (a *Accordion) UI() components.UI {
	return a.ui
}

func (a *Accordion) Initialize(ctx context.Context, element *html.Node) error {
	a.ui = components.UI{
		"el":       {element},
		"toggles":  dom.FindByClass(element, titleClass),
		"contents": dom.FindByClass(element, contentClass),
	}
	return nil
}

// Toggle the panel at the given index, as clicking its title would.
func (a *Accordion) Toggle(index int) error {
	toggles := a.ui["toggles"]
	if index < 0 || index >= len(toggles) {
		return fmt.Errorf("accordion panel %d out of range (%d panels)", index, len(toggles))
	}
	toggle := toggles[index]
	wasActive := dom.HasClass(toggle, activeClass)
	target := content(toggle)

	if a.config.CollapseOthers {
		collapse(toggles, a.ui["contents"])
	} else {
		collapse([]*html.Node{toggle}, []*html.Node{target})
	}
	if !wasActive {
		dom.AddClass(toggle, activeClass)
		if target != nil {
			dom.RemoveAttr(target, "hidden")
		}
	}
	return nil
}

// Expanded reports whether the panel at the given index is expanded.
func (a *Accordion) Expanded(index int) bool {
	toggles := a.ui["toggles"]
	return index >= 0 && index < len(toggles) && dom.HasClass(toggles[index], activeClass)
}

// The content panel for a title, if it directly follows it.
func content(toggle *html.Node) *html.Node {
	next := dom.NextElement(toggle)
	if !dom.HasClass(next, contentClass) {
		return nil
	}
	return next
}

func collapse(toggles, contents []*html.Node) {
	for _, toggle := range toggles {
		dom.RemoveClass(toggle, activeClass)
	}
	for _, c := range contents {
		if c != nil {
			dom.SetAttr(c, "hidden", "")
		}
	}
}

// New creates an accordion.
func New(ctx context.Context, app *components.App, load func(any) error) (components.Component, error) {
	a := &Accordion{config: Configuration{CollapseOthers: true}}
	if err := load(&a.config); err != nil {
		return nil, err
	}
	return a, nil
}

func init() {
	components.Register("accordion", New)
}
