package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
)

// SQLite backs all four stores with one sqlite database. Writes funnel
// through a single writer goroutine; sqlite handles concurrent reads on
// its own.
type SQLite struct {
	db      *sql.DB
	logger  logrus.FieldLogger
	writeCh chan writeOp

	shutdown chan struct{}
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type writeOp struct {
	op     func(*sql.DB) error
	result chan error
}

// Open opens (creating if necessary) the database at path and brings the
// schema up to date.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{
		db:       db,
		logger:   logrus.StandardLogger().WithField("component", "store"),
		writeCh:  make(chan writeOp, 64),
		shutdown: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *SQLite) writeLoop() {
	defer s.wg.Done()
	for {
		// Shutdown takes priority over queued work.
		select {
		case <-s.shutdown:
			s.drainWrites()
			return
		default:
		}
		select {
		case op := <-s.writeCh:
			op.result <- op.op(s.db)
		case <-s.shutdown:
			s.drainWrites()
			return
		}
	}
}

// drainWrites fails every op still queued once shutdown has begun, so no
// caller is left blocked on its result.
func (s *SQLite) drainWrites() {
	for {
		select {
		case op := <-s.writeCh:
			op.result <- ErrClosed
		default:
			return
		}
	}
}

func (s *SQLite) executeWrite(op func(*sql.DB) error) error {
	result := make(chan error, 1)

	// The read lock spans the enqueue: Close cannot flip closed and start
	// the shutdown drain with the op still outside the queue.
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	select {
	case s.writeCh <- writeOp{op: op, result: result}:
		s.mu.RUnlock()
	case <-time.After(30 * time.Second):
		s.mu.RUnlock()
		return errors.New("write operation timeout")
	}

	// Every enqueued op gets a result, from the writer or from the drain.
	return <-result
}

// Close drains the writer goroutine and closes the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.shutdown)
	s.wg.Wait()
	return errors.Wrap(s.db.Close(), "close database")
}

func (s *SQLite) Identities() Identities { return identities{s} }
func (s *SQLite) Cards() Cards           { return cards{s} }
func (s *SQLite) Templates() Templates   { return templates{s} }
func (s *SQLite) Attempts() Attempts     { return attempts{s} }

func mapWriteErr(err error, context string) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return ErrDuplicate
	}
	return errors.Wrap(err, context)
}

// identities

type identities struct{ s *SQLite }

func (st identities) FindByUsername(ctx context.Context, username string) (*model.Identity, error) {
	row := st.s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, first_name, last_name, role, deactivated
		FROM identities WHERE username = ?`, username)

	var i model.Identity
	var role int
	err := row.Scan(&i.Username, &i.PasswordHash, &i.FirstName, &i.LastName, &role, &i.Deactivated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "query identity")
	}
	i.Role = model.Role(role)
	return &i, nil
}

func (st identities) Add(ctx context.Context, identity *model.Identity) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO identities (username, password_hash, first_name, last_name, role, deactivated)
			VALUES (?, ?, ?, ?, ?, ?)`,
			identity.Username, identity.PasswordHash, identity.FirstName,
			identity.LastName, int(identity.Role), identity.Deactivated)
		return mapWriteErr(err, "insert identity")
	})
}

func (st identities) Update(ctx context.Context, identity *model.Identity) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE identities
			SET password_hash = ?, first_name = ?, last_name = ?, role = ?, deactivated = ?
			WHERE username = ?`,
			identity.PasswordHash, identity.FirstName, identity.LastName,
			int(identity.Role), identity.Deactivated, identity.Username)
		if err != nil {
			return errors.Wrap(err, "update identity")
		}
		return requireRow(res)
	})
}

func (st identities) Remove(ctx context.Context, username string) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM identities WHERE username = ?`, username)
		if err != nil {
			return errors.Wrap(err, "delete identity")
		}
		return requireRow(res)
	})
}

func (st identities) ListByRole(ctx context.Context, role model.Role) ([]model.Identity, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		SELECT username, password_hash, first_name, last_name, role, deactivated
		FROM identities WHERE role = ? ORDER BY username`, int(role))
	if err != nil {
		return nil, errors.Wrap(err, "query identities")
	}
	defer func() { _ = rows.Close() }()

	var list []model.Identity
	for rows.Next() {
		var i model.Identity
		var r int
		if err := rows.Scan(&i.Username, &i.PasswordHash, &i.FirstName, &i.LastName, &r, &i.Deactivated); err != nil {
			return nil, errors.Wrap(err, "scan identity")
		}
		i.Role = model.Role(r)
		list = append(list, i)
	}
	return list, errors.Wrap(rows.Err(), "iterate identities")
}

// cards

type cards struct{ s *SQLite }

func (st cards) Get(ctx context.Context, id string) (*model.Card, error) {
	row := st.s.db.QueryRowContext(ctx, `
		SELECT id, phrase, term, level, points FROM cards WHERE id = ?`, id)
	var c model.Card
	err := row.Scan(&c.ID, &c.Phrase, &c.Term, &c.Level, &c.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "query card")
	}
	return &c, nil
}

func (st cards) Add(ctx context.Context, card *model.Card) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO cards (id, phrase, term, level, points) VALUES (?, ?, ?, ?, ?)`,
			card.ID, card.Phrase, card.Term, card.Level, card.Points)
		return mapWriteErr(err, "insert card")
	})
}

func (st cards) Update(ctx context.Context, card *model.Card) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE cards SET phrase = ?, term = ?, level = ?, points = ? WHERE id = ?`,
			card.Phrase, card.Term, card.Level, card.Points, card.ID)
		if err != nil {
			return errors.Wrap(err, "update card")
		}
		return requireRow(res)
	})
}

func (st cards) Remove(ctx context.Context, id string) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
		if err != nil {
			return errors.Wrap(err, "delete card")
		}
		return requireRow(res)
	})
}

func (st cards) List(ctx context.Context) ([]model.Card, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		SELECT id, phrase, term, level, points FROM cards ORDER BY level, phrase`)
	if err != nil {
		return nil, errors.Wrap(err, "query cards")
	}
	defer func() { _ = rows.Close() }()

	var list []model.Card
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.Phrase, &c.Term, &c.Level, &c.Points); err != nil {
			return nil, errors.Wrap(err, "scan card")
		}
		list = append(list, c)
	}
	return list, errors.Wrap(rows.Err(), "iterate cards")
}

// templates

type templates struct{ s *SQLite }

func (st templates) Get(ctx context.Context, id string) (*model.QuizTemplate, error) {
	row := st.s.db.QueryRowContext(ctx, `
		SELECT id, name, created_by, card_ids FROM quiz_templates WHERE id = ?`, id)
	return scanTemplate(row.Scan)
}

func scanTemplate(scan func(...any) error) (*model.QuizTemplate, error) {
	var t model.QuizTemplate
	var cardIDs string
	err := scan(&t.ID, &t.Name, &t.CreatedBy, &cardIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan template")
	}
	if err := json.Unmarshal([]byte(cardIDs), &t.CardIDs); err != nil {
		return nil, errors.Wrap(err, "unmarshal card ids")
	}
	return &t, nil
}

func (st templates) Add(ctx context.Context, t *model.QuizTemplate) error {
	cardIDs, err := json.Marshal(t.CardIDs)
	if err != nil {
		return errors.Wrap(err, "marshal card ids")
	}
	return st.s.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO quiz_templates (id, name, created_by, card_ids) VALUES (?, ?, ?, ?)`,
			t.ID, t.Name, t.CreatedBy, string(cardIDs))
		return mapWriteErr(err, "insert template")
	})
}

func (st templates) Update(ctx context.Context, t *model.QuizTemplate) error {
	cardIDs, err := json.Marshal(t.CardIDs)
	if err != nil {
		return errors.Wrap(err, "marshal card ids")
	}
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE quiz_templates SET name = ?, card_ids = ? WHERE id = ?`,
			t.Name, string(cardIDs), t.ID)
		if err != nil {
			return errors.Wrap(err, "update template")
		}
		return requireRow(res)
	})
}

func (st templates) Remove(ctx context.Context, id string) error {
	return st.s.executeWrite(func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM quiz_templates WHERE id = ?`, id)
		if err != nil {
			return errors.Wrap(err, "delete template")
		}
		return requireRow(res)
	})
}

func (st templates) List(ctx context.Context) ([]model.QuizTemplate, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		SELECT id, name, created_by, card_ids FROM quiz_templates ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "query templates")
	}
	defer func() { _ = rows.Close() }()

	var list []model.QuizTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, errors.Wrap(rows.Err(), "iterate templates")
}

// attempts

type attempts struct{ s *SQLite }

func (st attempts) Save(ctx context.Context, attempt *model.QuizAttempt) error {
	items, err := json.Marshal(attempt.Items)
	if err != nil {
		return errors.Wrap(err, "marshal attempt items")
	}
	return st.s.executeWrite(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO quiz_attempts (id, username, items, total_points, total_max, started_at, ended_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			attempt.ID, attempt.Username, string(items),
			attempt.TotalPoints, attempt.TotalMax, attempt.StartedAt, attempt.EndedAt)
		return mapWriteErr(err, "insert attempt")
	})
}

func (st attempts) ListFor(ctx context.Context, username string) ([]model.QuizAttempt, error) {
	rows, err := st.s.db.QueryContext(ctx, `
		SELECT id, username, items, total_points, total_max, started_at, ended_at
		FROM quiz_attempts WHERE username = ? ORDER BY started_at`, username)
	if err != nil {
		return nil, errors.Wrap(err, "query attempts")
	}
	defer func() { _ = rows.Close() }()

	var list []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		var items string
		if err := rows.Scan(&a.ID, &a.Username, &items, &a.TotalPoints, &a.TotalMax, &a.StartedAt, &a.EndedAt); err != nil {
			return nil, errors.Wrap(err, "scan attempt")
		}
		if err := json.Unmarshal([]byte(items), &a.Items); err != nil {
			return nil, errors.Wrap(err, "unmarshal attempt items")
		}
		list = append(list, a)
	}
	return list, errors.Wrap(rows.Err(), "iterate attempts")
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
