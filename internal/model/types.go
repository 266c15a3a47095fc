// Package model defines the domain types shared by the server, the client
// and the stores.
package model

import "time"

// Role tags an identity with its single authorization level.
type Role uint8

const (
	RoleStudent Role = iota
	RoleTeacher
	RoleAdmin
)

// String returns the lowercase name of the role.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleTeacher:
		return "teacher"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	return r <= RoleAdmin
}

// Identity is an account as stored by the identity store. The store is the
// source of truth; a connection only holds a transient snapshot after login.
type Identity struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Deactivated  bool

	// Online is transient connection state, never persisted.
	Online bool
}

// Snapshot returns a copy of the identity safe to put on the wire.
// The credential hash never leaves the server.
func (i *Identity) Snapshot() Identity {
	c := *i
	c.PasswordHash = ""
	return c
}

// Card is a single vocabulary flashcard. Phrase is the prompt shown to the
// student, Term the expected answer.
type Card struct {
	ID     string
	Phrase string
	Term   string
	Level  uint32
	Points uint32
}

// Censored returns a copy of the card with the answer removed. Everything
// else (phrase, level, points) is preserved so the client can render the
// question.
func (c Card) Censored() Card {
	c.Term = ""
	return c
}

// QuizTemplate is a named, ordered list of card ids assembled by a teacher.
type QuizTemplate struct {
	ID        string
	Name      string
	CreatedBy string
	CardIDs   []string
}

// AttemptItem is the graded outcome for one position of a quiz.
type AttemptItem struct {
	Submitted string
	Correct   string
	Earned    uint32
	Max       uint32
}

// QuizAttempt is one graded quiz run. It is written once by grading and
// never mutated afterwards.
type QuizAttempt struct {
	ID          string
	Username    string
	Items       []AttemptItem
	TotalPoints uint32
	TotalMax    uint32
	StartedAt   time.Time
	EndedAt     time.Time
}
