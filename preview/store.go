// Package preview keeps scoped styles of block instances being edited and
// serves them to editor front ends over HTTP and websocket.
//
// Every instance owns exactly one style text. Each change of its CSS fully
// replaces that text, and the text is gone when the instance is removed or
// all its CSS fields become blank.
package preview

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blockcss/compile"
	"blockcss/render"
)

type EventKind string

const (
	EventUpdate EventKind = "update"
	EventRemove EventKind = "remove"
)

// Event notifies subscribers about style text change of a single instance.
type Event struct {
	Kind       EventKind `json:"kind"`
	InstanceID string    `json:"instance_id"`
	CSS        string    `json:"css,omitempty"`
}

// Style is emitted style text of an instance.
type Style struct {
	InstanceID string `json:"instance_id"`
	CSS        string `json:"css"`
}

// Instance is what store knows about a block instance.
type Instance struct {
	Variants render.VariantSet `json:"variants"`
	CSS      string            `json:"css"`
}

// ValidID reports whether instance id is a UUID in canonical textual form.
// Ids end up inside attribute selectors, so no other forms are accepted.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// Store is safe for concurrent use.
type Store struct {
	r         *render.Renderer
	attribute string
	buffer    int
	log       *zap.Logger

	mu        sync.Mutex
	instances map[string]*Instance
	subs      map[chan Event]struct{}
}

// NewStore creates store compiling instance CSS against [attribute="id"]
// selectors. Each subscriber gets channel with buffer events.
func NewStore(r *render.Renderer, attribute string, buffer int, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Store{
		r:         r,
		attribute: attribute,
		buffer:    buffer,
		log:       log.Named("preview"),
		instances: make(map[string]*Instance),
		subs:      make(map[chan Event]struct{}),
	}
}

// Register makes instance known without any CSS. Registering existing
// instance changes nothing.
func (s *Store) Register(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[id]; !ok {
		s.instances[id] = &Instance{}
	}
}

func hasCSS(vs render.VariantSet) bool {
	for _, css := range []string{vs.All, vs.Mobile, vs.Tablet, vs.Desktop} {
		if len(strings.TrimSpace(css)) > 0 {
			return true
		}
	}
	return false
}

// Update recompiles instance CSS and replaces its style text. It returns new
// text and whether instance has style text at all.
func (s *Store) Update(id string, vs render.VariantSet) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// compiled under lock so that concurrent updates of the same instance
	// land in order
	var css string
	if hasCSS(vs) {
		css = s.r.Rules(vs, compile.NewAttributeScope(s.attribute, id))
	}

	inst, ok := s.instances[id]
	if !ok {
		inst = &Instance{}
		s.instances[id] = inst
	}
	had := len(inst.CSS) > 0
	inst.Variants, inst.CSS = vs, css

	switch {
	case len(css) > 0:
		s.publish(Event{Kind: EventUpdate, InstanceID: id, CSS: css})
	case had:
		s.publish(Event{Kind: EventRemove, InstanceID: id})
	}
	return css, len(css) > 0
}

// Remove forgets instance. It reports whether instance was known.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return false
	}
	delete(s.instances, id)
	if len(inst.CSS) > 0 {
		s.publish(Event{Kind: EventRemove, InstanceID: id})
	}
	return true
}

// Get returns copy of instance state.
func (s *Store) Get(id string) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Snapshot returns all emitted style texts ordered by instance id.
func (s *Store) Snapshot() []Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() []Style {
	styles := make([]Style, 0, len(s.instances))
	for id, inst := range s.instances {
		if len(inst.CSS) > 0 {
			styles = append(styles, Style{InstanceID: id, CSS: inst.CSS})
		}
	}
	slices.SortFunc(styles, func(a, b Style) int { return strings.Compare(a.InstanceID, b.InstanceID) })
	return styles
}

// Subscribe returns current styles and channel receiving all later changes.
// Both are taken atomically so no change is lost in between. Call cancel to
// stop receiving, channel is closed then.
func (s *Store) Subscribe() ([]Style, <-chan Event, func()) {
	ch := make(chan Event, s.buffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	current := s.snapshot()
	s.mu.Unlock()

	var once sync.Once
	return current, ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// publish must be called with lock held. Slow subscribers lose events
// instead of blocking editors.
func (s *Store) publish(ev Event) {
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Debug("Subscriber is too slow, event dropped", zap.String("instance", ev.InstanceID), zap.String("kind", string(ev.Kind)))
		}
	}
}
