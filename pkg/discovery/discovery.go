// Package discovery finds clonebox containers in a document and builds a
// controller for each of them.
package discovery

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/config"
	"github.com/goliatone/go-clonebox/pkg/dom"
)

// DefaultMarker selects containers that opt into clonebox.
const DefaultMarker = clonebox.DefaultMarker

// Option customises discovery.
type Option func(*options)

type options struct {
	marker     string
	base       []config.Overrides
	file       *config.File
	logger     zerolog.Logger
	controller []clonebox.Option
}

// WithMarker overrides the activation selector.
func WithMarker(selector string) Option {
	return func(o *options) {
		if selector != "" {
			o.marker = selector
		}
	}
}

// WithOverrides layers overrides under every container's own attributes.
func WithOverrides(overrides ...config.Overrides) Option {
	return func(o *options) {
		o.base = append(o.base, overrides...)
	}
}

// WithFile applies an override document: its defaults, then the entry whose
// key matches the container id.
func WithFile(file *config.File) Option {
	return func(o *options) {
		o.file = file
	}
}

// WithLogger sets the logger used for discovery and handed to controllers.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithControllerOptions forwards options to every controller.
func WithControllerOptions(opts ...clonebox.Option) Option {
	return func(o *options) {
		o.controller = append(o.controller, opts...)
	}
}

// Discover builds a controller for every container under root matching the
// marker. Containers that fail to initialise are skipped and their errors
// joined into the returned error; the successful controllers are still
// returned.
func Discover(root *html.Node, opts ...Option) ([]*clonebox.Controller, error) {
	o := options{marker: DefaultMarker, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}

	marker, err := dom.Compile(o.marker)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	containers := marker.All(root)
	if marker.Match(root) {
		containers = append([]*html.Node{root}, containers...)
	}

	var (
		controllers []*clonebox.Controller
		errs        []error
	)
	for i, container := range containers {
		ctrl, err := build(container, o)
		if err != nil {
			o.logger.Warn().Err(err).Int("container", i).Msg("clonebox container skipped")
			errs = append(errs, fmt.Errorf("discovery: container %d (%s): %w", i, describe(container), err))
			continue
		}
		controllers = append(controllers, ctrl)
	}
	o.logger.Debug().Int("found", len(containers)).Int("initialised", len(controllers)).Msg("clonebox discovery finished")
	return controllers, errors.Join(errs...)
}

func build(container *html.Node, o options) (*clonebox.Controller, error) {
	attrs, err := config.FromAttributes(container)
	if err != nil {
		return nil, err
	}

	layers := append([]config.Overrides{}, o.base...)
	layers = append(layers, o.file.For(dom.AttrOr(container, "id", ""))...)
	layers = append(layers, attrs)

	cfg, err := config.Resolve(layers...)
	if err != nil {
		return nil, err
	}

	ctrlOpts := append([]clonebox.Option{
		clonebox.WithLogger(o.logger),
		clonebox.WithNestedMarker(o.marker),
	}, o.controller...)
	return clonebox.New(container, cfg, ctrlOpts...)
}

func describe(n *html.Node) string {
	if id := dom.AttrOr(n, "id", ""); id != "" {
		return "#" + id
	}
	return "<" + n.Data + ">"
}
