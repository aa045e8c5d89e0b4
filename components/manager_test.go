package components

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mook/pagewire/config"
	"github.com/mook/pagewire/dom"
	"github.com/mook/pagewire/options"
	"golang.org/x/net/html"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type testConfig struct {
	Title  string `yaml:"title"`
	Nested struct {
		A int `yaml:"a"`
		B int `yaml:"b"`
	} `yaml:"nested"`
}

type testComponent struct {
	singleton bool
	config    testConfig
	id        string
	inits     int
	log       *[]string
}

func (c *testComponent) Initialize(ctx context.Context, element *html.Node) error {
	c.inits++
	c.id, _ = dom.Attr(element, "id")
	*c.log = append(*c.log, "init:"+c.id)
	if _, fails := dom.Attr(element, "data-fail"); fails {
		return fmt.Errorf("broken element")
	}
	return nil
}

func (c *testComponent) IsSingleton() bool {
	return c.singleton
}

func testFactories(log *[]string) *Factories {
	factories := NewFactories()
	create := func(singleton bool) Factory {
		return func(ctx context.Context, app *App, load func(any) error) (Component, error) {
			c := &testComponent{singleton: singleton, log: log}
			c.config.Title = "default"
			c.config.Nested.B = 2
			if err := load(&c.config); err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	factories.Register("overlay", create(true))
	factories.Register("gallery", create(false))
	factories.Register("accordion", create(false))
	return factories
}

func setup(t *testing.T, body string) (*App, *html.Node, *[]string) {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader("<html><body>" + body + "</body></html>"))
	assert.NilError(t, err)
	log := &[]string{}
	app := New(config.Default(), WithFactories(testFactories(log)))
	app.Events.Subscribe(EventReady, func(ctx context.Context, event Event) {
		*log = append(*log, "ready")
	})
	return app, doc, log
}

func TestRunSingleton(t *testing.T) {
	app, doc, log := setup(t, `
		<div id="o1" data-component="overlay"></div>
		<div id="o2" data-component="overlay"></div>
		<div id="o3" data-component="overlay"></div>`)
	report, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)

	instance, ok := SingletonOf[*testComponent](app.Instances, "overlay")
	assert.Assert(t, ok)
	assert.Equal(t, instance.id, "o1")
	assert.Equal(t, instance.inits, 1)
	assert.Equal(t, report.Count(OutcomeInitialized), 1)
	assert.Equal(t, report.Count(OutcomeSkipped), 2)

	diagnostics := report.Diagnostics()
	assert.Equal(t, len(diagnostics), 2)
	for _, d := range diagnostics {
		assert.Assert(t, is.ErrorType(d, &DuplicateSingletonError{}))
	}
	assert.DeepEqual(t, *log, []string{"init:o1", "ready"})
}

func TestRunNonSingletonOrder(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="g1" data-component="gallery">
			<div id="g2" data-component="gallery"></div>
		</div>
		<section><div id="g3" data-component="gallery"></div></section>`)
	_, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)

	entry, ok := app.Instances.Get("gallery")
	assert.Assert(t, ok)
	assert.Assert(t, !entry.IsSingleton())
	var ids []string
	for _, instance := range ListOf[*testComponent](app.Instances, "gallery") {
		ids = append(ids, instance.id)
	}
	assert.DeepEqual(t, ids, []string{"g1", "g2", "g3"})
}

func TestRunMixedPage(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="o1" data-component="overlay"></div>
		<div id="g1" data-component="gallery"></div>
		<div id="o2" data-component="overlay"></div>`)
	report, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)

	_, ok := app.Instances.Singleton("overlay")
	assert.Assert(t, ok)
	assert.Equal(t, len(app.Instances.List("gallery")), 1)
	assert.Equal(t, len(report.Diagnostics()), 1)
	assert.DeepEqual(t, app.Instances.Names(), []string{"gallery", "overlay"})
}

func TestRunOptions(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="a1" data-component="accordion">
			<script type="text/data">
				{ "title": "custom",
				  "nested": { "a": 1 } }
			</script>
		</div>
		<div id="a2" data-component="accordion"></div>`)
	_, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)

	instances := ListOf[*testComponent](app.Instances, "accordion")
	assert.Equal(t, len(instances), 2)
	assert.Equal(t, instances[0].config.Title, "custom")
	assert.Equal(t, instances[0].config.Nested.A, 1)
	assert.Equal(t, instances[0].config.Nested.B, 2)
	assert.Equal(t, instances[1].config.Title, "default")
	assert.Equal(t, instances[1].config.Nested.A, 0)
}

func TestRunMalformedOptions(t *testing.T) {
	app, doc, log := setup(t, `
		<div id="a1" data-component="accordion"><script type="text/data">{"title": "x"</script></div>
		<div id="a2" data-component="accordion"></div>`)
	report, err := app.Run(t.Context(), doc)

	var malformed *options.MalformedOptionsError
	assert.Assert(t, errors.As(err, &malformed), "error: %v", err)
	assert.Equal(t, malformed.Raw, `{"title": "x"`)
	assert.Equal(t, report.Elements[0].Outcome, OutcomeFailed)
	assert.Equal(t, report.Elements[1].Outcome, OutcomeInitialized)
	assert.Equal(t, len(app.Instances.List("accordion")), 1)
	assert.DeepEqual(t, *log, []string{"init:a2", "ready"})
}

func TestRunUnknownOptionKey(t *testing.T) {
	app, doc, _ := setup(t, `<div id="a1" data-component="accordion"><script type="text/data">{"colour": "red"}</script></div>`)
	_, err := app.Run(t.Context(), doc)
	var malformed *options.MalformedOptionsError
	assert.Assert(t, errors.As(err, &malformed), "error: %v", err)
	assert.Assert(t, !app.Instances.Has("accordion"))
}

func TestRunUnknownComponent(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="x" data-component="carousel"></div>
		<div id="g1" data-component="gallery"></div>`)
	report, err := app.Run(t.Context(), doc)

	var unknown *UnknownComponentError
	assert.Assert(t, errors.As(err, &unknown), "error: %v", err)
	assert.Equal(t, unknown.Name, "carousel")
	assert.Assert(t, !app.Instances.Has("carousel"))
	assert.Equal(t, len(app.Instances.List("gallery")), 1)
	assert.Equal(t, report.Count(OutcomeFailed), 1)
}

func TestRunInitializeFailure(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="g1" data-component="gallery" data-fail></div>
		<div id="g2" data-component="gallery"></div>`)
	report, err := app.Run(t.Context(), doc)
	assert.ErrorContains(t, err, "broken element")
	assert.Equal(t, report.Elements[0].Outcome, OutcomeFailed)
	assert.Equal(t, report.Elements[1].Outcome, OutcomeInitialized)
}

func TestReadyOnce(t *testing.T) {
	app, doc, log := setup(t, `<div id="g1" data-component="gallery"></div>`)
	_, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)

	_, err = app.Run(t.Context(), doc)
	assert.ErrorIs(t, err, ErrAlreadyRun)
	assert.DeepEqual(t, *log, []string{"init:g1", "ready"})
}

func TestReadyEmptyPage(t *testing.T) {
	app, doc, log := setup(t, `<p>nothing here</p>`)
	report, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)
	assert.Equal(t, len(report.Elements), 0)
	assert.DeepEqual(t, *log, []string{"ready"})
}

// A component looking up a sibling once the page is ready.
type watcher struct {
	app     *App
	overlay Component
}

func (w *watcher) Initialize(ctx context.Context, element *html.Node) error {
	w.overlay, _ = w.app.Instances.Singleton("overlay")
	w.app.Events.Subscribe(EventReady, func(ctx context.Context, event Event) {
		w.overlay, _ = w.app.Instances.Singleton("overlay")
	})
	return nil
}

func (w *watcher) IsSingleton() bool {
	return true
}

func TestReadySiblingLookup(t *testing.T) {
	app, doc, _ := setup(t, `
		<div id="w" data-component="watcher"></div>
		<div id="o1" data-component="overlay"></div>`)
	var w *watcher
	app.factories.Register("watcher", func(ctx context.Context, app *App, load func(any) error) (Component, error) {
		w = &watcher{app: app}
		return w, load(&struct{}{})
	})
	_, err := app.Run(t.Context(), doc)
	assert.NilError(t, err)
	assert.Assert(t, w.overlay != nil)
}

func TestCustomMarker(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<div id="g1" data-module="gallery"></div><div data-component="gallery"></div>`))
	assert.NilError(t, err)
	settings := config.Default()
	settings.Marker = "data-module"
	app := New(settings, WithFactories(testFactories(&[]string{})))
	_, err = app.Run(t.Context(), doc)
	assert.NilError(t, err)
	assert.Equal(t, len(app.Instances.List("gallery")), 1)
}
