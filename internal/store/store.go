// Package store persists identities, flashcards, quiz templates and quiz
// attempts. The sqlite implementation serializes writes through a single
// writer goroutine; reads run concurrently.
package store

import (
	"context"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
)

// Identities is the account store.
type Identities interface {
	// FindByUsername returns ErrNotFound for unknown usernames.
	FindByUsername(ctx context.Context, username string) (*model.Identity, error)
	Add(ctx context.Context, identity *model.Identity) error
	Update(ctx context.Context, identity *model.Identity) error
	Remove(ctx context.Context, username string) error
	ListByRole(ctx context.Context, role model.Role) ([]model.Identity, error)
}

// Cards is the flashcard store.
type Cards interface {
	Get(ctx context.Context, id string) (*model.Card, error)
	Add(ctx context.Context, card *model.Card) error
	Update(ctx context.Context, card *model.Card) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Card, error)
}

// Templates is the quiz template store.
type Templates interface {
	Get(ctx context.Context, id string) (*model.QuizTemplate, error)
	Add(ctx context.Context, t *model.QuizTemplate) error
	Update(ctx context.Context, t *model.QuizTemplate) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.QuizTemplate, error)
}

// Attempts is the quiz result store. Attempts are written once and never
// mutated.
type Attempts interface {
	Save(ctx context.Context, attempt *model.QuizAttempt) error
	ListFor(ctx context.Context, username string) ([]model.QuizAttempt, error)
}

// Store groups the four collaborator stores behind one handle.
type Store interface {
	Identities() Identities
	Cards() Cards
	Templates() Templates
	Attempts() Attempts
	Close() error
}
