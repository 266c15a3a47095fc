package server

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/auth"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

// roleState is the authorization mode of one connection. A connection
// starts unauthenticated and transitions exactly once, on successful
// login; there is no way back.
type roleState uint8

const (
	stateUnauthenticated roleState = iota
	stateStudent
	stateTeacher
	stateAdmin
)

// transport is the outbound half of a connection as the session sees it.
type transport interface {
	Send(m message.Message) error
	Close()
}

// session is the per-connection state: the current role, the identity
// bound at login, and the active quiz if any. Handlers run on the
// connection's read loop, one at a time; the mutex only covers the fields
// other goroutines peek at (username for notices, state transitions).
type session struct {
	srv    *Server
	out    transport
	logger logrus.FieldLogger

	mu          sync.Mutex
	state       roleState
	identity    *model.Identity
	deactivated bool

	quiz *activeQuiz
}

func newSession(srv *Server, out transport) *session {
	return &session{
		srv:    srv,
		out:    out,
		logger: srv.logger,
	}
}

func (s *session) username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Username
}

func (s *session) role() roleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) boundIdentity() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// setDeactivated flags or unflags this live session. A flagged session
// keeps its connection but every further request is denied.
func (s *session) setDeactivated(deactivated bool) {
	s.mu.Lock()
	s.deactivated = deactivated
	s.mu.Unlock()
}

func (s *session) isDeactivated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deactivated
}

// HandleMessage dispatches one inbound message against the current role.
// Every request gets an explicit response; authorization and validation
// failures are failure responses, never dropped connections.
func (s *session) HandleMessage(m message.Message) error {
	if s.isDeactivated() {
		if req, ok := m.(message.Correlated); ok {
			if resp := failerFor(m); resp != nil {
				return s.deny(req, resp, msgAccountDeactivated)
			}
		}
		return nil
	}
	switch req := m.(type) {
	case *message.Login:
		return s.handleLogin(req)
	case *message.GetOwnAccount:
		return s.handleGetOwnAccount(req)
	case *message.StartQuiz:
		return s.handleStartQuiz(req)
	case *message.SubmitQuiz:
		return s.handleSubmitQuiz(req)
	case *message.GetStats:
		return s.handleGetStats(req)
	case *message.ListStudents:
		return s.handleListStudents(req)
	case *message.CreateCard:
		return s.handleCreateCard(req)
	case *message.UpdateCard:
		return s.handleUpdateCard(req)
	case *message.DeleteCard:
		return s.handleDeleteCard(req)
	case *message.ListCards:
		return s.handleListCards(req)
	case *message.CreateTemplate:
		return s.handleCreateTemplate(req)
	case *message.UpdateTemplate:
		return s.handleUpdateTemplate(req)
	case *message.DeleteTemplate:
		return s.handleDeleteTemplate(req)
	case *message.ListTemplates:
		return s.handleListTemplates(req)
	case *message.ListTeachers:
		return s.handleListTeachers(req)
	case *message.CreateTeacher:
		return s.handleCreateTeacher(req)
	case *message.ToggleTeacher:
		return s.handleToggleTeacher(req)
	case *message.DeleteTeacher:
		return s.handleDeleteTeacher(req)
	default:
		return errors.Errorf("unexpected message %T", m)
	}
}

// failer is any response able to carry a failure outcome.
type failer interface {
	message.Correlated
	Fail(text string)
}

// failerFor returns the empty response matching a request, for denials
// issued before dispatch.
func failerFor(m message.Message) failer {
	switch m.(type) {
	case *message.Login:
		return &message.LoginResult{}
	case *message.GetOwnAccount:
		return &message.AccountResult{}
	case *message.StartQuiz:
		return &message.QuizStarted{}
	case *message.SubmitQuiz:
		return &message.QuizGraded{}
	case *message.GetStats:
		return &message.StatsResult{}
	case *message.ListStudents:
		return &message.StudentList{}
	case *message.ListCards:
		return &message.CardList{}
	case *message.ListTemplates:
		return &message.TemplateList{}
	case *message.ListTeachers:
		return &message.TeacherList{}
	case *message.CreateCard, *message.UpdateCard, *message.DeleteCard,
		*message.CreateTemplate, *message.UpdateTemplate, *message.DeleteTemplate,
		*message.CreateTeacher, *message.ToggleTeacher, *message.DeleteTeacher:
		return &message.Ack{}
	default:
		return nil
	}
}

// reply correlates resp to req and sends it.
func (s *session) reply(req message.Correlated, resp message.Correlated) error {
	resp.SetRequestID(req.RequestID())
	return s.out.Send(resp)
}

// deny sends resp as a failure carrying text.
func (s *session) deny(req message.Correlated, resp failer, text string) error {
	resp.Fail(text)
	return s.reply(req, resp)
}

// opCtx bounds one store operation triggered by a handler, using the
// configured call timeout.
func (s *session) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.srv.cfg.Protocol.CallTimeout)
}

func (s *session) handleLogin(req *message.Login) error {
	if s.role() != stateUnauthenticated {
		return s.deny(req, &message.LoginResult{}, msgAlreadyAuthenticated)
	}
	if !model.IsValidUsername(req.Username) {
		return s.deny(req, &message.LoginResult{}, msgInvalidCredentials)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	ident, err := s.srv.store.Identities().FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.deny(req, &message.LoginResult{}, msgInvalidCredentials)
		}
		s.logger.WithError(err).Error("identity lookup failed")
		return s.deny(req, &message.LoginResult{}, msgStorageUnavailable)
	}
	if ident.Deactivated {
		return s.deny(req, &message.LoginResult{}, msgAccountDeactivated)
	}
	if !auth.CheckPassword(ident.PasswordHash, req.Password) {
		return s.deny(req, &message.LoginResult{}, msgInvalidCredentials)
	}

	var next roleState
	switch ident.Role {
	case model.RoleStudent:
		next = stateStudent
	case model.RoleTeacher:
		next = stateTeacher
	case model.RoleAdmin:
		next = stateAdmin
	default:
		s.logger.WithField("user", ident.Username).Error("identity has unknown role")
		return s.deny(req, &message.LoginResult{}, msgInvalidCredentials)
	}

	s.mu.Lock()
	s.state = next
	s.identity = ident
	s.mu.Unlock()
	s.srv.markOnline(ident.Username)
	s.logger.WithFields(logrus.Fields{
		"user": ident.Username,
		"role": ident.Role.String(),
	}).Info("login succeeded")

	snap := ident.Snapshot()
	snap.Online = true
	return s.reply(req, &message.LoginResult{
		Result:   message.Result{OK: true},
		Identity: &snap,
	})
}

func (s *session) handleGetOwnAccount(req *message.GetOwnAccount) error {
	ident := s.boundIdentity()
	if ident == nil {
		return s.deny(req, &message.AccountResult{}, msgNotAuthenticated)
	}
	snap := ident.Snapshot()
	snap.Online = true
	return s.reply(req, &message.AccountResult{
		Result:   message.Result{OK: true},
		Identity: snap,
	})
}
