package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/discovery"
)

var (
	// ErrDocumentNotFound is returned for unknown document ids.
	ErrDocumentNotFound = errors.New("server: document not found")
	// ErrBoxNotFound is returned when a box reference matches no container.
	ErrBoxNotFound = errors.New("server: box not found")
)

// document is one uploaded page. mu serialises every operation on the tree,
// including reads, since controllers mutate it in place.
type document struct {
	mu      sync.Mutex
	id      string
	root    *html.Node
	boxes   []*clonebox.Controller
	created time.Time
}

func (d *document) box(ref string) (*clonebox.Controller, error) {
	_, ctrl, ok := discovery.Find(d.boxes, ref)
	if !ok {
		return nil, ErrBoxNotFound
	}
	return ctrl, nil
}

type store struct {
	mu    sync.RWMutex
	items map[string]*document
	max   int
	order []string
}

func newStore(max int) *store {
	return &store{items: make(map[string]*document), max: max}
}

func (s *store) put(root *html.Node, boxes []*clonebox.Controller) *document {
	doc := &document{
		id:      uuid.NewString(),
		root:    root,
		boxes:   boxes,
		created: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[doc.id] = doc
	s.order = append(s.order, doc.id)
	for s.max > 0 && len(s.order) > s.max {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
	return doc
}

func (s *store) get(id string) (*document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.items[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func (s *store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
