package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository"
)

// fallbackPersona keeps chat working when no personas can be loaded from
// the profile source.
var fallbackPersona = domain.Persona{
	ID:         1,
	Nickname:   "AI助手",
	Age:        25,
	City:       "北京",
	Occupation: "AI助手",
	Bio:        "我是你的AI聊天伙伴，随时准备和你聊天",
	Avatar:     "/placeholder-user.jpg",
	Interests:  []string{"聊天", "帮助"},
	AIScore:    95,
	AIBacked:   true,
}

// Registry holds the selectable conversational personas. It is populated
// once at startup and read concurrently by every chat session.
type Registry struct {
	source repository.PersonaSource

	mu    sync.RWMutex
	order []uint
	byID  map[uint]domain.Persona
}

func NewRegistry(source repository.PersonaSource) *Registry {
	return &Registry{source: source, byID: make(map[uint]domain.Persona)}
}

// Load fetches personas from the source. On failure or an empty result the
// built-in fallback persona is installed so chat stays available.
func (r *Registry) Load(ctx context.Context) error {
	personas, err := r.source.ListPersonas(ctx)
	if err != nil {
		r.install([]domain.Persona{fallbackPersona})
		return fmt.Errorf("failed to load personas: %w", err)
	}
	if len(personas) == 0 {
		r.install([]domain.Persona{fallbackPersona})
		return nil
	}
	r.install(personas)
	return nil
}

func (r *Registry) install(personas []domain.Persona) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = r.order[:0]
	r.byID = make(map[uint]domain.Persona, len(personas))
	for _, p := range personas {
		r.order = append(r.order, p.ID)
		r.byID[p.ID] = p
	}
}

// List returns the personas in load order.
func (r *Registry) List() []domain.Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return []domain.Persona{fallbackPersona}
	}
	personas := make([]domain.Persona, 0, len(r.order))
	for _, id := range r.order {
		personas = append(personas, r.byID[id])
	}
	return personas
}

func (r *Registry) Get(id uint) (domain.Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	return p, ok
}

// Default returns the persona new sessions start with.
func (r *Registry) Default() domain.Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return fallbackPersona
	}
	return r.byID[r.order[0]]
}
