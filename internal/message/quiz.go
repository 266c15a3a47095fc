package message

import (
	"time"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// StartQuiz begins a quiz for the student bound to this connection. An
// empty TemplateID requests a randomized quiz drawn from the whole card
// pool.
type StartQuiz struct {
	request
	TemplateID string
}

func (*StartQuiz) WireID() uint32 { return IDStartQuiz }

func (m *StartQuiz) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.TemplateID)
}

func (m *StartQuiz) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.TemplateID, err = r.String()
	return err
}

// QuizStarted answers StartQuiz. Items are censored: terms are blanked so
// the answers never cross the wire.
type QuizStarted struct {
	response
	Result
	Items     []model.Card
	StartedAt time.Time
}

func (*QuizStarted) WireID() uint32 { return IDQuizStarted }

func (m *QuizStarted) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeCards(w, m.Items)
	w.Time(m.StartedAt)
}

func (m *QuizStarted) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	if m.Items, err = decodeCards(r); err != nil {
		return err
	}
	m.StartedAt, err = r.Time()
	return err
}

// SubmitQuiz hands in answers for the active quiz, one term per position of
// the answer key, in order.
type SubmitQuiz struct {
	request
	Terms []string
}

func (*SubmitQuiz) WireID() uint32 { return IDSubmitQuiz }

func (m *SubmitQuiz) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.Count(len(m.Terms))
	for _, t := range m.Terms {
		w.String(t)
	}
}

func (m *SubmitQuiz) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	n, err := r.Count(2)
	if err != nil {
		return err
	}
	m.Terms = make([]string, 0, n)
	for range n {
		t, err := r.String()
		if err != nil {
			return err
		}
		m.Terms = append(m.Terms, t)
	}
	return nil
}

// QuizGraded answers SubmitQuiz with the graded attempt, now carrying the
// revealed correct terms.
type QuizGraded struct {
	response
	Result
	Attempt model.QuizAttempt
}

func (*QuizGraded) WireID() uint32 { return IDQuizGraded }

func (m *QuizGraded) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeAttempt(w, m.Attempt)
}

func (m *QuizGraded) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	m.Attempt, err = decodeAttempt(r)
	return err
}

// GetStats requests past quiz attempts. Students may only request their
// own (empty Username); teachers name a student.
type GetStats struct {
	request
	Username string
}

func (*GetStats) WireID() uint32 { return IDGetStats }

func (m *GetStats) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.Username)
}

func (m *GetStats) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Username, err = r.String()
	return err
}

// StatsResult answers GetStats.
type StatsResult struct {
	response
	Result
	Attempts []model.QuizAttempt
}

func (*StatsResult) WireID() uint32 { return IDStatsResult }

func (m *StatsResult) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	w.Count(len(m.Attempts))
	for _, a := range m.Attempts {
		encodeAttempt(w, a)
	}
}

func (m *StatsResult) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	n, err := r.Count(28)
	if err != nil {
		return err
	}
	m.Attempts = make([]model.QuizAttempt, 0, n)
	for range n {
		a, err := decodeAttempt(r)
		if err != nil {
			return err
		}
		m.Attempts = append(m.Attempts, a)
	}
	return nil
}
