package message

import (
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Shared field codecs for domain types. Layouts are append-only; the field
// order here is part of the wire contract.

// identity: username, firstName, lastName, role u8, deactivated, online.
// The credential hash is never encoded.
func encodeIdentity(w *wire.Writer, i model.Identity) {
	w.String(i.Username)
	w.String(i.FirstName)
	w.String(i.LastName)
	w.Uint8(uint8(i.Role))
	w.Bool(i.Deactivated)
	w.Bool(i.Online)
}

func decodeIdentity(r *wire.Reader) (model.Identity, error) {
	var i model.Identity
	var err error
	if i.Username, err = r.String(); err != nil {
		return i, err
	}
	if i.FirstName, err = r.String(); err != nil {
		return i, err
	}
	if i.LastName, err = r.String(); err != nil {
		return i, err
	}
	role, err := r.Uint8()
	if err != nil {
		return i, err
	}
	i.Role = model.Role(role)
	if i.Deactivated, err = r.Bool(); err != nil {
		return i, err
	}
	if i.Online, err = r.Bool(); err != nil {
		return i, err
	}
	return i, nil
}

func encodeIdentities(w *wire.Writer, list []model.Identity) {
	w.Count(len(list))
	for _, i := range list {
		encodeIdentity(w, i)
	}
}

func decodeIdentities(r *wire.Reader) ([]model.Identity, error) {
	n, err := r.Count(8)
	if err != nil {
		return nil, err
	}
	list := make([]model.Identity, 0, n)
	for range n {
		i, err := decodeIdentity(r)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, nil
}

// card: id, phrase, term, level u32, points u32.
func encodeCard(w *wire.Writer, c model.Card) {
	w.String(c.ID)
	w.String(c.Phrase)
	w.String(c.Term)
	w.Uint32(c.Level)
	w.Uint32(c.Points)
}

func decodeCard(r *wire.Reader) (model.Card, error) {
	var c model.Card
	var err error
	if c.ID, err = r.String(); err != nil {
		return c, err
	}
	if c.Phrase, err = r.String(); err != nil {
		return c, err
	}
	if c.Term, err = r.String(); err != nil {
		return c, err
	}
	if c.Level, err = r.Uint32(); err != nil {
		return c, err
	}
	if c.Points, err = r.Uint32(); err != nil {
		return c, err
	}
	return c, nil
}

func encodeCards(w *wire.Writer, cards []model.Card) {
	w.Count(len(cards))
	for _, c := range cards {
		encodeCard(w, c)
	}
}

func decodeCards(r *wire.Reader) ([]model.Card, error) {
	n, err := r.Count(14)
	if err != nil {
		return nil, err
	}
	cards := make([]model.Card, 0, n)
	for range n {
		c, err := decodeCard(r)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// template: id, name, createdBy, card id array.
func encodeTemplate(w *wire.Writer, t model.QuizTemplate) {
	w.String(t.ID)
	w.String(t.Name)
	w.String(t.CreatedBy)
	w.Count(len(t.CardIDs))
	for _, id := range t.CardIDs {
		w.String(id)
	}
}

func decodeTemplate(r *wire.Reader) (model.QuizTemplate, error) {
	var t model.QuizTemplate
	var err error
	if t.ID, err = r.String(); err != nil {
		return t, err
	}
	if t.Name, err = r.String(); err != nil {
		return t, err
	}
	if t.CreatedBy, err = r.String(); err != nil {
		return t, err
	}
	n, err := r.Count(2)
	if err != nil {
		return t, err
	}
	t.CardIDs = make([]string, 0, n)
	for range n {
		id, err := r.String()
		if err != nil {
			return t, err
		}
		t.CardIDs = append(t.CardIDs, id)
	}
	return t, nil
}

// attempt: id, username, item array (submitted, correct, earned u32,
// max u32), totals, startedAt, endedAt.
func encodeAttempt(w *wire.Writer, a model.QuizAttempt) {
	w.String(a.ID)
	w.String(a.Username)
	w.Count(len(a.Items))
	for _, it := range a.Items {
		w.String(it.Submitted)
		w.String(it.Correct)
		w.Uint32(it.Earned)
		w.Uint32(it.Max)
	}
	w.Uint32(a.TotalPoints)
	w.Uint32(a.TotalMax)
	w.Time(a.StartedAt)
	w.Time(a.EndedAt)
}

func decodeAttempt(r *wire.Reader) (model.QuizAttempt, error) {
	var a model.QuizAttempt
	var err error
	if a.ID, err = r.String(); err != nil {
		return a, err
	}
	if a.Username, err = r.String(); err != nil {
		return a, err
	}
	n, err := r.Count(12)
	if err != nil {
		return a, err
	}
	a.Items = make([]model.AttemptItem, 0, n)
	for range n {
		var it model.AttemptItem
		if it.Submitted, err = r.String(); err != nil {
			return a, err
		}
		if it.Correct, err = r.String(); err != nil {
			return a, err
		}
		if it.Earned, err = r.Uint32(); err != nil {
			return a, err
		}
		if it.Max, err = r.Uint32(); err != nil {
			return a, err
		}
		a.Items = append(a.Items, it)
	}
	if a.TotalPoints, err = r.Uint32(); err != nil {
		return a, err
	}
	if a.TotalMax, err = r.Uint32(); err != nil {
		return a, err
	}
	if a.StartedAt, err = r.Time(); err != nil {
		return a, err
	}
	if a.EndedAt, err = r.Time(); err != nil {
		return a, err
	}
	return a, nil
}
