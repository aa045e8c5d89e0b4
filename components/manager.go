package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mook/pagewire/config"
	"github.com/mook/pagewire/dom"
	"github.com/mook/pagewire/options"
	"golang.org/x/net/html"
)

// App initializes the components of one page and owns their instances.
type App struct {
	Config    config.Settings // Shared settings; read-only for components.
	Instances *Instances
	Events    *Bus

	factories *Factories
	ran       bool
}

// Option customizes an App.
type Option func(*App)

// WithFactories makes the App use the given factories instead of the default
// registry.
func WithFactories(factories *Factories) Option {
	return func(a *App) {
		a.factories = factories
	}
}

// New creates an App for a single page.
func New(settings config.Settings, opts ...Option) *App {
	if settings.Marker == "" {
		settings.Marker = config.DefaultMarker
	}
	app := &App{
		Config:    settings,
		Instances: NewInstances(),
		Events:    NewBus(),
		factories: registry,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Outcome of processing a single element.
type Outcome int

const (
	OutcomeInitialized = Outcome(iota)
	OutcomeSkipped     // Duplicate singleton; not initialized.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInitialized:
		return "initialized"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ElementResult describes what happened to one marked element.
type ElementResult struct {
	Name    string
	Element *html.Node
	Outcome Outcome
	Err     error // Set unless the element was initialized.
}

// Report of an initialization pass, in document order.
type Report struct {
	Elements []ElementResult
}

// Count the elements with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	count := 0
	for _, result := range r.Elements {
		if result.Outcome == outcome {
			count++
		}
	}
	return count
}

// Diagnostics returns the warnings raised during the pass.
func (r *Report) Diagnostics() []error {
	var result []error
	for _, element := range r.Elements {
		if element.Outcome == OutcomeSkipped {
			result = append(result, element.Err)
		}
	}
	return result
}

// Run the initialization pass over the document: every element carrying the
// marker attribute is initialized in document order, after which the ready
// event is published.  A failing element does not stop the pass; the
// returned error joins all element failures.  An App runs only once.
func (a *App) Run(ctx context.Context, doc *html.Node) (*Report, error) {
	if a.ran {
		return nil, ErrAlreadyRun
	}
	a.ran = true

	// Collect first; components may modify the tree while initializing.
	var marked []*html.Node
	for n := range dom.Elements(doc) {
		if _, ok := dom.Attr(n, a.Config.Marker); ok {
			marked = append(marked, n)
		}
	}
	slog.DebugContext(ctx, "found component elements", "count", len(marked))

	report := &Report{}
	var errs []error
	for _, element := range marked {
		result := a.initElement(ctx, element)
		report.Elements = append(report.Elements, result)
		switch result.Outcome {
		case OutcomeSkipped:
			slog.WarnContext(ctx, "skipping component", "component", result.Name, "error", result.Err)
		case OutcomeFailed:
			slog.ErrorContext(ctx, "failed to initialize component", "component", result.Name, "error", result.Err)
			errs = append(errs, result.Err)
		default:
			slog.DebugContext(ctx, "initialized component", "component", result.Name)
		}
	}

	a.Events.Publish(ctx, Event{Name: EventReady, Data: report})
	return report, errors.Join(errs...)
}

func (a *App) initElement(ctx context.Context, element *html.Node) ElementResult {
	name, _ := dom.Attr(element, a.Config.Marker)
	result := ElementResult{Name: strings.TrimSpace(name), Element: element}
	fail := func(err error) ElementResult {
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	var payload map[string]any
	if raw, ok := options.Extract(element, a.Config.Marker); ok {
		var err error
		if payload, err = options.Parse(raw); err != nil {
			return fail(fmt.Errorf("component %q: %w", result.Name, err))
		}
	}

	factory, ok := a.factories.Lookup(result.Name)
	if !ok {
		return fail(&UnknownComponentError{Name: result.Name})
	}
	instance, err := factory(ctx, a, func(into any) error {
		return options.Load(payload, into)
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create component %q: %w", result.Name, err))
	}
	if instance == nil {
		return fail(fmt.Errorf("factory for component %q returned no instance", result.Name))
	}

	// Registration happens before initialization, so that a duplicate
	// singleton is never initialized.
	if a.Instances.Register(result.Name, instance) == RejectedDuplicate {
		result.Outcome = OutcomeSkipped
		result.Err = &DuplicateSingletonError{Name: result.Name}
		return result
	}
	if err := instance.Initialize(ctx, element); err != nil {
		return fail(fmt.Errorf("failed to initialize component %q: %w", result.Name, err))
	}
	result.Outcome = OutcomeInitialized
	return result
}
