package server

import (
	"github.com/pkg/errors"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/auth"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

func (s *session) handleListTeachers(req *message.ListTeachers) error {
	if s.role() != stateAdmin {
		return s.deny(req, &message.TeacherList{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	teachers, err := s.srv.store.Identities().ListByRole(ctx, model.RoleTeacher)
	if err != nil {
		s.logger.WithError(err).Error("teacher listing failed")
		return s.deny(req, &message.TeacherList{}, msgStorageUnavailable)
	}
	list := make([]model.Identity, 0, len(teachers))
	for i := range teachers {
		snap := teachers[i].Snapshot()
		snap.Online = s.srv.isOnline(snap.Username)
		list = append(list, snap)
	}
	return s.reply(req, &message.TeacherList{
		Result:   message.Result{OK: true},
		Teachers: list,
	})
}

func (s *session) handleCreateTeacher(req *message.CreateTeacher) error {
	if s.role() != stateAdmin {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	if !model.IsValidUsername(req.Username) {
		return s.deny(req, &message.Ack{}, model.ErrInvalidUsername.Error())
	}
	if req.Password == "" {
		return s.deny(req, &message.Ack{}, "password required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("password hashing failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	teacher := &model.Identity{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleTeacher,
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Identities().Add(ctx, teacher); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.deny(req, &message.Ack{}, "username already taken")
		}
		s.logger.WithError(err).Error("teacher creation failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

// lookupTeacher fetches the named identity and confirms it is a teacher.
// The returned text is non-empty when the caller should deny.
func (s *session) lookupTeacher(username string) (*model.Identity, string) {
	ctx, cancel := s.opCtx()
	defer cancel()
	ident, err := s.srv.store.Identities().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "teacher not found"
		}
		s.logger.WithError(err).Error("identity lookup failed")
		return nil, msgStorageUnavailable
	}
	if ident.Role != model.RoleTeacher {
		return nil, "account is not a teacher"
	}
	return ident, ""
}

func (s *session) handleToggleTeacher(req *message.ToggleTeacher) error {
	if s.role() != stateAdmin {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	teacher, reason := s.lookupTeacher(req.Username)
	if reason != "" {
		return s.deny(req, &message.Ack{}, reason)
	}

	teacher.Deactivated = !teacher.Deactivated
	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Identities().Update(ctx, teacher); err != nil {
		s.logger.WithError(err).Error("teacher toggle failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	s.srv.setSessionsDeactivated(teacher.Username, teacher.Deactivated)
	if teacher.Deactivated {
		s.srv.notifyUser(teacher.Username, "your account has been deactivated")
	}
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}

func (s *session) handleDeleteTeacher(req *message.DeleteTeacher) error {
	if s.role() != stateAdmin {
		return s.deny(req, &message.Ack{}, msgUnauthorized)
	}
	teacher, reason := s.lookupTeacher(req.Username)
	if reason != "" {
		return s.deny(req, &message.Ack{}, reason)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Identities().Remove(ctx, teacher.Username); err != nil {
		s.logger.WithError(err).Error("teacher deletion failed")
		return s.deny(req, &message.Ack{}, msgStorageUnavailable)
	}
	s.srv.setSessionsDeactivated(teacher.Username, true)
	s.srv.notifyUser(teacher.Username, "your account has been removed")
	return s.reply(req, &message.Ack{Result: message.Result{OK: true}})
}
