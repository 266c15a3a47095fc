package message

import (
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// CreateCard adds a flashcard. Teacher only. The server assigns the id.
type CreateCard struct {
	request
	Card model.Card
}

func (*CreateCard) WireID() uint32 { return IDCreateCard }

func (m *CreateCard) Encode(w *wire.Writer) {
	m.encodeHead(w)
	encodeCard(w, m.Card)
}

func (m *CreateCard) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Card, err = decodeCard(r)
	return err
}

// UpdateCard replaces the card with the same id. Teacher only.
type UpdateCard struct {
	request
	Card model.Card
}

func (*UpdateCard) WireID() uint32 { return IDUpdateCard }

func (m *UpdateCard) Encode(w *wire.Writer) {
	m.encodeHead(w)
	encodeCard(w, m.Card)
}

func (m *UpdateCard) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Card, err = decodeCard(r)
	return err
}

// DeleteCard removes a flashcard by id. Teacher only.
type DeleteCard struct {
	request
	ID string
}

func (*DeleteCard) WireID() uint32 { return IDDeleteCard }

func (m *DeleteCard) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.ID)
}

func (m *DeleteCard) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.ID, err = r.String()
	return err
}

// ListCards requests all flashcards. Teacher only.
type ListCards struct {
	request
}

func (*ListCards) WireID() uint32 { return IDListCards }

func (m *ListCards) Encode(w *wire.Writer) { m.encodeHead(w) }

func (m *ListCards) Decode(r *wire.Reader) error { return m.decodeHead(r) }

// CardList answers ListCards.
type CardList struct {
	response
	Result
	Cards []model.Card
}

func (*CardList) WireID() uint32 { return IDCardList }

func (m *CardList) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeCards(w, m.Cards)
}

func (m *CardList) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	m.Cards, err = decodeCards(r)
	return err
}

// CreateTemplate adds a quiz template. Teacher only. The server assigns
// the id and the creator.
type CreateTemplate struct {
	request
	Template model.QuizTemplate
}

func (*CreateTemplate) WireID() uint32 { return IDCreateTemplate }

func (m *CreateTemplate) Encode(w *wire.Writer) {
	m.encodeHead(w)
	encodeTemplate(w, m.Template)
}

func (m *CreateTemplate) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Template, err = decodeTemplate(r)
	return err
}

// UpdateTemplate replaces the template with the same id. Teacher only.
type UpdateTemplate struct {
	request
	Template model.QuizTemplate
}

func (*UpdateTemplate) WireID() uint32 { return IDUpdateTemplate }

func (m *UpdateTemplate) Encode(w *wire.Writer) {
	m.encodeHead(w)
	encodeTemplate(w, m.Template)
}

func (m *UpdateTemplate) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Template, err = decodeTemplate(r)
	return err
}

// DeleteTemplate removes a template by id. Teacher only.
type DeleteTemplate struct {
	request
	ID string
}

func (*DeleteTemplate) WireID() uint32 { return IDDeleteTemplate }

func (m *DeleteTemplate) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.ID)
}

func (m *DeleteTemplate) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.ID, err = r.String()
	return err
}

// ListTemplates requests all quiz templates. Teacher only.
type ListTemplates struct {
	request
}

func (*ListTemplates) WireID() uint32 { return IDListTemplates }

func (m *ListTemplates) Encode(w *wire.Writer) { m.encodeHead(w) }

func (m *ListTemplates) Decode(r *wire.Reader) error { return m.decodeHead(r) }

// TemplateList answers ListTemplates.
type TemplateList struct {
	response
	Result
	Templates []model.QuizTemplate
}

func (*TemplateList) WireID() uint32 { return IDTemplateList }

func (m *TemplateList) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	w.Count(len(m.Templates))
	for _, t := range m.Templates {
		encodeTemplate(w, t)
	}
}

func (m *TemplateList) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	n, err := r.Count(10)
	if err != nil {
		return err
	}
	m.Templates = make([]model.QuizTemplate, 0, n)
	for range n {
		t, err := decodeTemplate(r)
		if err != nil {
			return err
		}
		m.Templates = append(m.Templates, t)
	}
	return nil
}
