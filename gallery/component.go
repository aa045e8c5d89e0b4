// The `gallery` component shows the content of a gallery item in a shared
// display panel.  The panel is placed after the last item of the row holding
// the selected item, so it opens underneath that row.
//
// Markup: `.gallery__item` elements each holding a `.gallery__content`
// element, plus one `.gallery__display` wrapping a
// `.gallery__display-container` that receives a copy of the content.
package gallery

import (
	"context"
	"fmt"
	"slices"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
)

const (
	activeClass    = "is-active"
	imageClass     = "gallery--image"
	itemClass      = "gallery__item"
	contentClass   = "gallery__content"
	displayClass   = "gallery__display"
	containerClass = "gallery__display-container"
)

// Configuration for the component.
type Configuration struct {
	// Number of items per row in the layout; defaults to 3.
	ItemsPerRow int `yaml:"itemsPerRow"`
}

type state struct {
	currentInsertPos int
	currentIndex     int
	current          *html.Node // The active item, if the display is open.
}

// Gallery component
type Gallery struct {
	config  Configuration
	ui      components.UI
	isImage bool
	state   state
}

func (g *Gallery) IsSingleton() bool {
	return false
}

func (g *Gallery) UI() components.UI {
	return g.ui
}

func (g *Gallery) Initialize(ctx context.Context, element *html.Node) error {
	if g.config.ItemsPerRow < 1 {
		return fmt.Errorf("itemsPerRow must be positive, got %d", g.config.ItemsPerRow)
	}
	g.ui = components.UI{
		"el":        {element},
		"items":     dom.FindByClass(element, itemClass),
		"display":   dom.FindByClass(element, displayClass),
		"container": dom.FindByClass(element, containerClass),
	}
	if len(g.ui["items"]) > 0 && (len(g.ui["display"]) == 0 || len(g.ui["container"]) == 0) {
		return fmt.Errorf("gallery has items but no display")
	}
	g.isImage = dom.HasClass(element, imageClass)
	return nil
}

// IsImageGallery reports whether the gallery is marked as an image gallery.
func (g *Gallery) IsImageGallery() bool {
	return g.isImage
}

// Current returns the index of the item being displayed, if any.
func (g *Gallery) Current() (int, bool) {
	if g.state.current == nil {
		return 0, false
	}
	return g.state.currentIndex, true
}

// InsertPosition returns the index of the item the display is placed after.
func (g *Gallery) InsertPosition() int {
	return g.state.currentInsertPos
}

// Show the item at the given index, as clicking it would.  Showing the item
// already displayed closes the display instead.
func (g *Gallery) Show(index int) error {
	items := g.ui["items"]
	if index < 0 || index >= len(items) {
		return fmt.Errorf("gallery item %d out of range (%d items)", index, len(items))
	}
	item := items[index]
	wasOpen := g.state.current != nil
	wasActive := dom.HasClass(item, activeClass)
	insertPos := g.insertPos(index)
	moveRow := !wasOpen || wasActive || insertPos != g.state.currentInsertPos

	g.state.currentInsertPos = insertPos
	g.state.currentIndex = index
	g.clearActive()

	if !moveRow {
		g.activate(item)
		g.populate(item)
		return nil
	}
	g.hide()
	dom.Empty(g.container())
	if wasActive {
		g.resetState()
		return nil
	}
	g.populate(item)
	dom.InsertAfter(items[insertPos], g.display())
	dom.RemoveAttr(g.display(), "hidden")
	g.activate(item)
	return nil
}

// Next shows the item after the current one, wrapping around.
func (g *Gallery) Next() error {
	return g.Show(g.wrap(g.state.currentIndex + 1))
}

// Previous shows the item before the current one, wrapping around.
func (g *Gallery) Previous() error {
	return g.Show(g.wrap(g.state.currentIndex - 1))
}

// Close the display.
func (g *Gallery) Close() {
	g.clearActive()
	g.hide()
	if container := g.container(); container != nil {
		dom.Empty(container)
	}
	g.resetState()
}

// Resize updates the number of items per row, moving an open display below
// the row now holding the active item.
func (g *Gallery) Resize(itemsPerRow int) error {
	if itemsPerRow < 1 {
		return fmt.Errorf("itemsPerRow must be positive, got %d", itemsPerRow)
	}
	g.config.ItemsPerRow = itemsPerRow
	if g.state.current == nil {
		return nil
	}
	items := g.ui["items"]
	index := slices.Index(items, g.state.current)
	g.state.currentInsertPos = g.insertPos(index)
	dom.InsertAfter(items[g.state.currentInsertPos], g.display())
	return nil
}

// The index of the last item in the row of the given item.
func (g *Gallery) insertPos(index int) int {
	perRow := g.config.ItemsPerRow
	row := index / perRow
	last := (row+1)*perRow - 1
	return min(last, len(g.ui["items"])-1)
}

func (g *Gallery) wrap(index int) int {
	count := len(g.ui["items"])
	if count == 0 {
		return 0
	}
	return (index%count + count) % count
}

func (g *Gallery) display() *html.Node {
	if list := g.ui["display"]; len(list) > 0 {
		return list[0]
	}
	return nil
}

func (g *Gallery) container() *html.Node {
	if list := g.ui["container"]; len(list) > 0 {
		return list[0]
	}
	return nil
}

func (g *Gallery) hide() {
	if display := g.display(); display != nil {
		dom.SetAttr(display, "hidden", "")
	}
}

func (g *Gallery) populate(item *html.Node) {
	container := g.container()
	dom.Empty(container)
	content := dom.FindByClass(item, contentClass)
	if len(content) == 0 {
		return
	}
	for c := content[0].FirstChild; c != nil; c = c.NextSibling {
		container.AppendChild(dom.Clone(c))
	}
}

func (g *Gallery) activate(item *html.Node) {
	dom.AddClass(item, activeClass)
	g.state.current = item
}

func (g *Gallery) clearActive() {
	for _, item := range g.ui["items"] {
		dom.RemoveClass(item, activeClass)
	}
	g.state.current = nil
}

func (g *Gallery) resetState() {
	g.state.currentInsertPos = 0
	g.state.currentIndex = 0
}

// New creates a gallery.
func New(ctx context.Context, app *components.App, load func(any) error) (components.Component, error) {
	g := &Gallery{config: Configuration{ItemsPerRow: 3}}
	if err := load(&g.config); err != nil {
		return nil, err
	}
	return g, nil
}

func init() {
	components.Register("gallery", New)
}
