package server

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/store"
)

// randomQuizSize is the answer key length for quizzes started without a
// template, capped by the card pool size.
const randomQuizSize = 10

// activeQuiz is the server-authoritative answer key for one student
// connection. Exclusively owned by that connection; no cross-connection
// synchronization needed.
type activeQuiz struct {
	key       []model.Card
	startedAt time.Time
}

func (s *session) handleStartQuiz(req *message.StartQuiz) error {
	if s.role() != stateStudent {
		return s.deny(req, &message.QuizStarted{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()

	var key []model.Card
	if req.TemplateID == "" {
		pool, err := s.srv.store.Cards().List(ctx)
		if err != nil {
			s.logger.WithError(err).Error("card listing failed")
			return s.deny(req, &message.QuizStarted{}, msgStorageUnavailable)
		}
		if len(pool) == 0 {
			return s.deny(req, &message.QuizStarted{}, msgNoCardsAvailable)
		}
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		if len(pool) > randomQuizSize {
			pool = pool[:randomQuizSize]
		}
		key = pool
	} else {
		tpl, err := s.srv.store.Templates().Get(ctx, req.TemplateID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return s.deny(req, &message.QuizStarted{}, msgTemplateNotFound)
			}
			s.logger.WithError(err).Error("template lookup failed")
			return s.deny(req, &message.QuizStarted{}, msgStorageUnavailable)
		}
		if len(tpl.CardIDs) == 0 {
			return s.deny(req, &message.QuizStarted{}, msgEmptyTemplate)
		}
		// Resolving copies each card, so later edits to the template or
		// its cards cannot alter an in-flight quiz.
		for _, id := range tpl.CardIDs {
			card, err := s.srv.store.Cards().Get(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					s.logger.WithField("card", id).Warn("template references missing card, skipping")
					continue
				}
				s.logger.WithError(err).Error("card lookup failed")
				return s.deny(req, &message.QuizStarted{}, msgStorageUnavailable)
			}
			key = append(key, *card)
		}
		if len(key) == 0 {
			return s.deny(req, &message.QuizStarted{}, msgEmptyTemplate)
		}
	}

	if s.quiz != nil {
		s.logger.WithField("user", s.username()).Debug("replacing active quiz")
	}
	s.quiz = &activeQuiz{key: key, startedAt: time.Now()}

	censored := make([]model.Card, len(key))
	for i, c := range key {
		censored[i] = c.Censored()
	}
	return s.reply(req, &message.QuizStarted{
		Result:    message.Result{OK: true},
		Items:     censored,
		StartedAt: s.quiz.startedAt,
	})
}

func (s *session) handleSubmitQuiz(req *message.SubmitQuiz) error {
	if s.role() != stateStudent {
		return s.deny(req, &message.QuizGraded{}, msgUnauthorized)
	}
	if s.quiz == nil {
		return s.deny(req, &message.QuizGraded{}, msgNoActiveQuiz)
	}
	if len(req.Terms) != len(s.quiz.key) {
		return s.deny(req, &message.QuizGraded{},
			fmt.Sprintf("expected %d answers, got %d", len(s.quiz.key), len(req.Terms)))
	}

	attempt := gradeQuiz(s.quiz.key, req.Terms, s.username(), s.quiz.startedAt, time.Now())

	ctx, cancel := s.opCtx()
	defer cancel()
	if err := s.srv.store.Attempts().Save(ctx, &attempt); err != nil {
		// The session stays active so the student can resubmit.
		s.logger.WithError(err).Error("attempt persistence failed")
		return s.deny(req, &message.QuizGraded{}, msgStorageUnavailable)
	}
	s.quiz = nil

	return s.reply(req, &message.QuizGraded{
		Result:  message.Result{OK: true},
		Attempt: attempt,
	})
}

// gradeQuiz grades terms against key position by position. An exact match
// earns full points, a case-insensitive match earns max(1, points/2), a
// blank or wrong answer earns nothing. Zero-valued key slots contribute
// nothing and are skipped.
func gradeQuiz(key []model.Card, terms []string, username string, startedAt, endedAt time.Time) model.QuizAttempt {
	attempt := model.QuizAttempt{
		ID:        uuid.New().String(),
		Username:  username,
		Items:     make([]model.AttemptItem, 0, len(key)),
		StartedAt: startedAt,
		EndedAt:   endedAt,
	}
	for i, card := range key {
		if card.Term == "" && card.Points == 0 {
			continue
		}
		submitted := strings.TrimSpace(terms[i])
		var earned uint32
		switch {
		case submitted == "":
			earned = 0
		case submitted == card.Term:
			earned = card.Points
		case strings.EqualFold(submitted, card.Term):
			earned = max(1, card.Points/2)
		default:
			earned = 0
		}
		attempt.Items = append(attempt.Items, model.AttemptItem{
			Submitted: submitted,
			Correct:   card.Term,
			Earned:    earned,
			Max:       card.Points,
		})
		attempt.TotalPoints += earned
		attempt.TotalMax += card.Points
	}
	return attempt
}

func (s *session) handleGetStats(req *message.GetStats) error {
	var target string
	switch s.role() {
	case stateStudent:
		if req.Username != "" && req.Username != s.username() {
			return s.deny(req, &message.StatsResult{}, msgUnauthorized)
		}
		target = s.username()
	case stateTeacher:
		if req.Username == "" {
			return s.deny(req, &message.StatsResult{}, "student username required")
		}
		target = req.Username
	default:
		return s.deny(req, &message.StatsResult{}, msgUnauthorized)
	}

	ctx, cancel := s.opCtx()
	defer cancel()
	attempts, err := s.srv.store.Attempts().ListFor(ctx, target)
	if err != nil {
		s.logger.WithError(err).Error("attempt listing failed")
		return s.deny(req, &message.StatsResult{}, msgStorageUnavailable)
	}
	return s.reply(req, &message.StatsResult{
		Result:   message.Result{OK: true},
		Attempts: attempts,
	})
}
