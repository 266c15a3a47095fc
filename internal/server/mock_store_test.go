package server

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

// mockStore is an in-memory store.Store for session tests.
type mockStore struct {
	mu         sync.Mutex
	identities map[string]model.Identity
	cards      map[string]model.Card
	templates  map[string]model.QuizTemplate
	attempts   []model.QuizAttempt

	failSave bool
}

func newMockStore() *mockStore {
	return &mockStore{
		identities: make(map[string]model.Identity),
		cards:      make(map[string]model.Card),
		templates:  make(map[string]model.QuizTemplate),
	}
}

func (m *mockStore) Identities() store.Identities { return mockIdentities{m} }
func (m *mockStore) Cards() store.Cards           { return mockCards{m} }
func (m *mockStore) Templates() store.Templates   { return mockTemplates{m} }
func (m *mockStore) Attempts() store.Attempts     { return mockAttempts{m} }
func (m *mockStore) Close() error                 { return nil }

type mockIdentities struct{ m *mockStore }

func (s mockIdentities) FindByUsername(_ context.Context, username string) (*model.Identity, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	i, ok := s.m.identities[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &i, nil
}

func (s mockIdentities) Add(_ context.Context, i *model.Identity) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.identities[i.Username]; ok {
		return store.ErrDuplicate
	}
	s.m.identities[i.Username] = *i
	return nil
}

func (s mockIdentities) Update(_ context.Context, i *model.Identity) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.identities[i.Username]; !ok {
		return store.ErrNotFound
	}
	s.m.identities[i.Username] = *i
	return nil
}

func (s mockIdentities) Remove(_ context.Context, username string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.identities[username]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.identities, username)
	return nil
}

func (s mockIdentities) ListByRole(_ context.Context, role model.Role) ([]model.Identity, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var list []model.Identity
	for _, i := range s.m.identities {
		if i.Role == role {
			list = append(list, i)
		}
	}
	sort.Slice(list, func(a, b int) bool { return list[a].Username < list[b].Username })
	return list, nil
}

type mockCards struct{ m *mockStore }

func (s mockCards) Get(_ context.Context, id string) (*model.Card, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.cards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s mockCards) Add(_ context.Context, c *model.Card) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.cards[c.ID]; ok {
		return store.ErrDuplicate
	}
	s.m.cards[c.ID] = *c
	return nil
}

func (s mockCards) Update(_ context.Context, c *model.Card) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.cards[c.ID]; !ok {
		return store.ErrNotFound
	}
	s.m.cards[c.ID] = *c
	return nil
}

func (s mockCards) Remove(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.cards[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.cards, id)
	return nil
}

func (s mockCards) List(_ context.Context) ([]model.Card, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var list []model.Card
	for _, c := range s.m.cards {
		list = append(list, c)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].ID < list[b].ID })
	return list, nil
}

type mockTemplates struct{ m *mockStore }

func (s mockTemplates) Get(_ context.Context, id string) (*model.QuizTemplate, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.templates[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s mockTemplates) Add(_ context.Context, t *model.QuizTemplate) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.templates[t.ID]; ok {
		return store.ErrDuplicate
	}
	s.m.templates[t.ID] = *t
	return nil
}

func (s mockTemplates) Update(_ context.Context, t *model.QuizTemplate) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.templates[t.ID]; !ok {
		return store.ErrNotFound
	}
	s.m.templates[t.ID] = *t
	return nil
}

func (s mockTemplates) Remove(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.templates[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.m.templates, id)
	return nil
}

func (s mockTemplates) List(_ context.Context) ([]model.QuizTemplate, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var list []model.QuizTemplate
	for _, t := range s.m.templates {
		list = append(list, t)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].ID < list[b].ID })
	return list, nil
}

type mockAttempts struct{ m *mockStore }

func (s mockAttempts) Save(_ context.Context, a *model.QuizAttempt) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failSave {
		return errors.New("storage write failed")
	}
	s.m.attempts = append(s.m.attempts, *a)
	return nil
}

func (s mockAttempts) ListFor(_ context.Context, username string) ([]model.QuizAttempt, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var list []model.QuizAttempt
	for _, a := range s.m.attempts {
		if a.Username == username {
			list = append(list, a)
		}
	}
	return list, nil
}
