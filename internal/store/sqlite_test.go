package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainer.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Identities().Add(context.Background(), &model.Identity{
		Username: "grace", PasswordHash: "h", Role: model.RoleStudent,
	}))
	require.NoError(t, s.Close())

	// Reopening runs the migrations again and keeps the data.
	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Identities().FindByUsername(context.Background(), "grace")
	require.NoError(t, err)
	require.Equal(t, "grace", got.Username)
}

func TestIdentityLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ident := model.Identity{
		Username:     "turing",
		PasswordHash: "$2a$10$fake",
		FirstName:    "Alan",
		LastName:     "Turing",
		Role:         model.RoleTeacher,
	}
	require.NoError(t, s.Identities().Add(ctx, &ident))

	got, err := s.Identities().FindByUsername(ctx, "turing")
	require.NoError(t, err)
	require.Equal(t, ident.PasswordHash, got.PasswordHash)
	require.Equal(t, model.RoleTeacher, got.Role)
	require.False(t, got.Deactivated)

	got.Deactivated = true
	require.NoError(t, s.Identities().Update(ctx, got))
	got, err = s.Identities().FindByUsername(ctx, "turing")
	require.NoError(t, err)
	require.True(t, got.Deactivated)

	require.NoError(t, s.Identities().Remove(ctx, "turing"))
	_, err = s.Identities().FindByUsername(ctx, "turing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIdentityDuplicateUsername(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Identities().Add(ctx, &model.Identity{Username: "grace", PasswordHash: "h", Role: model.RoleStudent}))
	err := s.Identities().Add(ctx, &model.Identity{Username: "grace", PasswordHash: "h2", Role: model.RoleTeacher})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestIdentityUpdateUnknown(t *testing.T) {
	s := openTestStore(t)
	err := s.Identities().Update(context.Background(), &model.Identity{Username: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
	err = s.Identities().Remove(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListByRoleFiltersAndSorts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, i := range []model.Identity{
		{Username: "zuse", PasswordHash: "h", Role: model.RoleStudent},
		{Username: "ada", PasswordHash: "h", Role: model.RoleStudent},
		{Username: "root", PasswordHash: "h", Role: model.RoleAdmin},
	} {
		require.NoError(t, s.Identities().Add(ctx, &i))
	}

	students, err := s.Identities().ListByRole(ctx, model.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "ada", students[0].Username)
	require.Equal(t, "zuse", students[1].Username)

	admins, err := s.Identities().ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestCardLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	card := model.Card{ID: "c1", Phrase: "integrated development environment", Term: "IDE", Level: 1, Points: 2}
	require.NoError(t, s.Cards().Add(ctx, &card))

	got, err := s.Cards().Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, card, *got)

	card.Points = 4
	require.NoError(t, s.Cards().Update(ctx, &card))
	got, err = s.Cards().Get(ctx, "c1")
	require.NoError(t, err)
	require.EqualValues(t, 4, got.Points)

	list, err := s.Cards().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Cards().Remove(ctx, "c1"))
	_, err = s.Cards().Get(ctx, "c1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateCardIDsKeepOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tpl := model.QuizTemplate{
		ID:        "t1",
		Name:      "acronyms",
		CreatedBy: "turing",
		CardIDs:   []string{"c3", "c1", "c2"},
	}
	require.NoError(t, s.Templates().Add(ctx, &tpl))

	got, err := s.Templates().Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, []string{"c3", "c1", "c2"}, got.CardIDs)
	require.Equal(t, "turing", got.CreatedBy)

	tpl.CardIDs = []string{"c2"}
	require.NoError(t, s.Templates().Update(ctx, &tpl))
	got, err = s.Templates().Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, []string{"c2"}, got.CardIDs)

	list, err := s.Templates().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Templates().Remove(ctx, "t1"))
	_, err = s.Templates().Get(ctx, "t1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAttemptRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	attempt := model.QuizAttempt{
		ID:       "a1",
		Username: "grace",
		Items: []model.AttemptItem{
			{Submitted: "IDE", Correct: "IDE", Earned: 2, Max: 2},
			{Submitted: "sql", Correct: "SQL", Earned: 2, Max: 4},
		},
		TotalPoints: 4,
		TotalMax:    6,
		StartedAt:   started,
		EndedAt:     started.Add(90 * time.Second),
	}
	require.NoError(t, s.Attempts().Save(ctx, &attempt))

	list, err := s.Attempts().ListFor(ctx, "grace")
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	require.Equal(t, attempt.Items, got.Items)
	require.EqualValues(t, 4, got.TotalPoints)
	require.EqualValues(t, 6, got.TotalMax)
	require.True(t, got.StartedAt.Equal(attempt.StartedAt))
	require.True(t, got.EndedAt.Equal(attempt.EndedAt))

	other, err := s.Attempts().ListFor(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestAttemptsOrderedByStart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"late", "early"} {
		offset := time.Duration(1-i) * time.Hour
		require.NoError(t, s.Attempts().Save(ctx, &model.QuizAttempt{
			ID:        id,
			Username:  "grace",
			Items:     []model.AttemptItem{},
			StartedAt: base.Add(offset),
			EndedAt:   base.Add(offset + time.Minute),
		}))
	}

	list, err := s.Attempts().ListFor(ctx, "grace")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "early", list[0].ID)
	require.Equal(t, "late", list[1].ID)
}

func TestCloseFailsQueuedWrites(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)

	// Hold the writer inside an op so further ops pile up in the queue.
	started := make(chan struct{})
	release := make(chan struct{})
	firstErr := make(chan error, 1)
	go func() {
		firstErr <- s.executeWrite(func(*sql.DB) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	queuedErr := make(chan error, 1)
	go func() {
		queuedErr <- s.executeWrite(func(*sql.DB) error { return nil })
	}()
	time.Sleep(50 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()
	time.Sleep(50 * time.Millisecond)
	close(release)

	// The in-flight op completes; the queued one is failed, not abandoned.
	require.NoError(t, <-firstErr)
	select {
	case err := <-queuedErr:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("queued write still blocked after Close")
	}
	require.NoError(t, <-closed)
}

func TestWritesAfterCloseFail(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "trainer.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Cards().Add(context.Background(), &model.Card{ID: "c1", Phrase: "p", Term: "t", Points: 1})
	require.ErrorIs(t, err, ErrClosed)

	// Close twice is fine.
	require.NoError(t, s.Close())
}
