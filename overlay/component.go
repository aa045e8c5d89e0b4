// The `overlay` component is a page-wide modal backdrop.  Only one overlay may
// exist per page.  Other components show or hide it, and may subscribe to the
// `overlay-shown` and `overlay-hidden` events it publishes.
package overlay

import (
	"context"
	"strconv"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
)

const (
	EventShown  = "overlay-shown"
	EventHidden = "overlay-hidden"
)

// Configuration for the component.
type Configuration struct{}

// Overlay component
type Overlay struct {
	config  Configuration
	app     *components.App
	ui      components.UI
	element *html.Node // Set by Initialize.
}

func (o *Overlay) IsSingleton() bool {
	return true
}

func (o *Overlay) UI() components.UI {
	return o.ui
}

func (o *Overlay) Initialize(ctx context.Context, element *html.Node) error {
	o.element = element
	o.ui = components.UI{"el": {element}}
	dom.SetAttr(element, "data-animation-speed", strconv.Itoa(o.app.Config.AnimationSpeed))
	return nil
}

// Visible reports whether the overlay is showing.  An overlay that was never
// initialized is not visible.
func (o *Overlay) Visible() bool {
	if o.element == nil {
		return false
	}
	_, hidden := dom.Attr(o.element, "hidden")
	return !hidden
}

// Show the overlay.  This does nothing before the overlay is initialized.
func (o *Overlay) Show(ctx context.Context) {
	if o.element == nil {
		return
	}
	dom.RemoveAttr(o.element, "hidden")
	o.app.Events.Publish(ctx, components.Event{Name: EventShown, Source: o})
}

// Hide the overlay.  This does nothing before the overlay is initialized.
func (o *Overlay) Hide(ctx context.Context) {
	if o.element == nil {
		return
	}
	dom.SetAttr(o.element, "hidden", "")
	o.app.Events.Publish(ctx, components.Event{Name: EventHidden, Source: o})
}

// Click handles a click on the overlay itself, which dismisses it.
func (o *Overlay) Click(ctx context.Context) {
	o.Hide(ctx)
}

// New creates an overlay.
func New(ctx context.Context, app *components.App, load func(any) error) (components.Component, error) {
	o := &Overlay{app: app}
	if err := load(&o.config); err != nil {
		return nil, err
	}
	return o, nil
}

func init() {
	components.Register("overlay", New)
}
