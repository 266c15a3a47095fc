package server

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

func (s *session) handleListStudents(req *message.ListStudents) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.StudentList{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	students, err := s.srv.store.Identities().ListByRole(ctx, model.RoleStudent)
	if err != nil {
		s.logger.WithError(err).Error("student listing failed")
		return s.deny(req, &message.StudentList{}, msgStorageUnavailable)
	}
	list := make([]model.Identity, 0, len(students))
	for i := range students {
		snap := students[i].Snapshot()
		snap.Online = s.srv.isOnline(snap.Username)
		list = append(list, snap)
	}
	return s.reply(req, &message.StudentList{
		Result:   message.Result{OK: true},
		Students: list,
	})
}

func (s *session) handleCreateCard(req *message.CreateCard) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	card := req.Card
	card.ID = uuid.New().String()
	if err := card.Validate(); err != nil {
		return s.deny(req, &message.Ack{}, err.Error())
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Cards().Add(ctx, &card); err != nil {
		s.logger.WithError(err).Error("card creation failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true, Message: card.ID}})
}

func (s *session) handleUpdateCard(req *message.UpdateCard) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	if req.Card.ID == "" {
		return s.deny(req, &message.Ack{}, "card id required")
	}
	if err := req.Card.Validate(); err != nil {
		return s.deny(req, &message.Ack{}, err.Error())
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Cards().Update(ctx, &req.Card); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.deny(req, &message.Ack{}, "card not found")
		}
		s.logger.WithError(err).Error("card update failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

func (s *session) handleDeleteCard(req *message.DeleteCard) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	if req.ID == "" {
		return s.deny(req, &message.Ack{}, "card id required")
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Cards().Remove(ctx, req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.deny(req, &message.Ack{}, "card not found")
		}
		s.logger.WithError(err).Error("card deletion failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

func (s *session) handleListCards(req *message.ListCards) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.CardList{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	list, err := s.srv.store.Cards().List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("card listing failed")
		return s.deny(req, &message.CardList{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.CardList{
		Result: message.Result{OK: true},
		Cards:  list,
	})
}

// validateTemplateCards checks that every referenced card exists.
func (s *session) validateTemplateCards(t *model.QuizTemplate) (string, error) {
	ctx, cancel := s.opCtx()
	defer cancel()
	for _, id := range t.CardIDs {
		if _, err := s.srv.store.Cards().Get(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return "unknown card id " + id, nil
			}
			return "", err
		}
	}
	return "", nil
}

func (s *session) handleCreateTemplate(req *message.CreateTemplate) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	tpl := req.Template
	tpl.ID = uuid.New().String()
	tpl.CreatedBy = s.username()
	if err := tpl.Validate(); err != nil {
		return s.deny(req, &message.Ack{}, err.Error())
	}
	if reason, err := s.validateTemplateCards(&tpl); err != nil {
		s.logger.WithError(err).Error("template card check failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	} else if reason != "" {
		return s.deny(req, &message.Ack{}, reason)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Templates().Add(ctx, &tpl); err != nil {
		s.logger.WithError(err).Error("template creation failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true, Message: tpl.ID}})
}

func (s *session) handleUpdateTemplate(req *message.UpdateTemplate) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	if req.Template.ID == "" {
		return s.deny(req, &message.Ack{}, "template id required")
	}
	if err := req.Template.Validate(); err != nil {
		return s.deny(req, &message.Ack{}, err.Error())
	}
	if reason, err := s.validateTemplateCards(&req.Template); err != nil {
		s.logger.WithError(err).Error("template card check failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	} else if reason != "" {
		return s.deny(req, &message.Ack{}, reason)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Templates().Update(ctx, &req.Template); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.deny(req, &message.Ack{}, msgTemplateNotFound)
		}
		s.logger.WithError(err).Error("template update failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

func (s *session) handleDeleteTemplate(req *message.DeleteTemplate) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	if req.ID == "" {
		return s.deny(req, &message.Ack{}, "template id required")
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Templates().Remove(ctx, req.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.deny(req, &message.Ack{}, msgTemplateNotFound)
		}
		s.logger.WithError(err).Error("template deletion failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

func (s *session) handleListTemplates(req *message.ListTemplates) error {
	if s.role() != stateTeacher {
		return s.deny(req, &message.TemplateList{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	list, err := s.srv.store.Templates().List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("template listing failed")
		return s.deny(req, &message.TemplateList{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.TemplateList{
		Result:    message.Result{OK: true},
		Templates: list,
	})
}
