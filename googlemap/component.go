// The `googleMap` component prepares a map for the client side map loader.
// The resolved settings are written onto the `.map__container` element as
// `data-*` attributes.
package googlemap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/dom"
	"golang.org/x/net/html"
)

const containerClass = "map__container"

// Map coordinates.
type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Configuration for the component.
type Configuration struct {
	// Initial center of the map, also used for the marker.
	Center LatLng `yaml:"center"`
	// Whether the scroll wheel zooms the map; defaults to false.
	Scrollwheel bool `yaml:"scrollwheel"`
	// Initial zoom level; defaults to 15.
	Zoom int `yaml:"zoom"`
	// Title of the map marker.
	MarkerTitle string `yaml:"markerTitle"`
}

// Map component
type Map struct {
	config Configuration
	ui     components.UI
}

func (m *Map) IsSingleton() bool {
	return false
}

func (m *Map) UI() components.UI {
	return m.ui
}

// Configuration returns the resolved map settings.
func (m *Map) Configuration() Configuration {
	return m.config
}

func (m *Map) Initialize(ctx context.Context, element *html.Node) error {
	containers := dom.FindByClass(element, containerClass)
	if len(containers) == 0 {
		return fmt.Errorf("map has no .%s element", containerClass)
	}
	m.ui = components.UI{"el": {element}, "container": containers[:1]}

	container := containers[0]
	dom.SetAttr(container, "data-lat", strconv.FormatFloat(m.config.Center.Lat, 'f', -1, 64))
	dom.SetAttr(container, "data-lng", strconv.FormatFloat(m.config.Center.Lng, 'f', -1, 64))
	dom.SetAttr(container, "data-zoom", strconv.Itoa(m.config.Zoom))
	dom.SetAttr(container, "data-scrollwheel", strconv.FormatBool(m.config.Scrollwheel))
	dom.SetAttr(container, "data-marker-title", m.config.MarkerTitle)
	return nil
}

// New creates a map.
func New(ctx context.Context, app *components.App, load func(any) error) (components.Component, error) {
	m := &Map{config: Configuration{
		Center:      LatLng{Lat: 51.5115543, Lng: -0.0816882},
		Zoom:        15,
		MarkerTitle: "Default marker title",
	}}
	if err := load(&m.config); err != nil {
		return nil, err
	}
	if m.config.Zoom < 0 {
		return nil, fmt.Errorf("invalid zoom level %d", m.config.Zoom)
	}
	return m, nil
}

func init() {
	components.Register("googleMap", New)
}
