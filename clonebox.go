// Package clonebox is the top-level entry point: aliases for the controller
// types plus ProcessHTML for one-shot batch edits of a document.
package clonebox

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	pkgclonebox "github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/discovery"
	"github.com/goliatone/go-clonebox/pkg/dom"
	"github.com/goliatone/go-clonebox/pkg/wiring"
)

// Config aliases the controller configuration for callers that only import
// the root package.
type Config = pkgclonebox.Config

// Controller aliases the per-container controller.
type Controller = pkgclonebox.Controller

// Mutation aliases a journalled transition.
type Mutation = pkgclonebox.Mutation

// Option aliases controller options.
type Option = pkgclonebox.Option

// ErrBoxNotFound is returned by ProcessHTML when the requested box matches no
// initialised container.
var ErrBoxNotFound = errors.New("clonebox: box not found")

var documentPattern = regexp.MustCompile(`(?i)<(!doctype|html|head|body)[\s>]`)

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return pkgclonebox.DefaultConfig()
}

// New binds a controller to container.
func New(container *html.Node, cfg Config, options ...Option) (*Controller, error) {
	return pkgclonebox.New(container, cfg, options...)
}

// Discover initialises every marked container below root.
func Discover(root *html.Node, options ...discovery.Option) ([]*Controller, error) {
	return discovery.Discover(root, options...)
}

// Result is the outcome of ProcessHTML.
type Result struct {
	HTML      string
	Mutations []Mutation
	Boxes     int
	// Skipped joins the errors of containers that could not be initialised.
	Skipped error
}

// ProcessHTML parses markup, initialises its containers, runs commands
// ("add", "del=N", "reset") against the box named by ref and renders the
// result. An empty ref targets every box. Fragments come back as fragments;
// full documents are rendered whole.
func ProcessHTML(markup, ref string, commands []string, options ...discovery.Option) (Result, error) {
	cmds, err := wiring.ParseCommands(commands)
	if err != nil {
		return Result{}, err
	}

	root, err := dom.ParseString(markup)
	if err != nil {
		return Result{}, err
	}

	boxes, skipped := discovery.Discover(root, options...)
	result := Result{Boxes: len(boxes), Skipped: skipped}

	targets := boxes
	if ref != "" {
		_, ctrl, ok := discovery.Find(boxes, ref)
		if !ok {
			return result, fmt.Errorf("%w: %q", ErrBoxNotFound, ref)
		}
		targets = []*Controller{ctrl}
	}

	for _, ctrl := range targets {
		for _, cmd := range cmds {
			m, err := wiring.Apply(ctrl, cmd)
			if err != nil {
				return result, err
			}
			result.Mutations = append(result.Mutations, m)
		}
	}

	result.HTML, err = Render(root, markup)
	return result, err
}

// Render serialises root the way source was written: a full document when
// source carried a doctype or html/head/body tags, the body contents
// otherwise.
func Render(root *html.Node, source string) (string, error) {
	if documentPattern.MatchString(source) {
		return dom.Render(root)
	}
	body := dom.MustCompile("body").First(root)
	if body == nil {
		return dom.Render(root)
	}
	return dom.RenderInner(body)
}
