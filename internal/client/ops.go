package client

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
)

func rejected(text string) error {
	return errors.Wrap(ErrRejected, text)
}

// Login authenticates the connection and returns the identity snapshot.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	resp, err := c.call(ctx, &message.Login{Username: username, Password: password}, message.IDLoginResult)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.LoginResult)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Identity, nil
}

// OwnAccount returns the identity bound to this connection.
func (c *Client) OwnAccount(ctx context.Context) (*model.Identity, error) {
	resp, err := c.call(ctx, &message.GetOwnAccount{}, message.IDAccountResult)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.AccountResult)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return &result.Identity, nil
}

// StartQuiz starts a quiz and returns the censored items. An empty
// templateID requests a randomized quiz.
func (c *Client) StartQuiz(ctx context.Context, templateID string) ([]model.Card, time.Time, error) {
	resp, err := c.call(ctx, &message.StartQuiz{TemplateID: templateID}, message.IDQuizStarted)
	if err != nil {
		return nil, time.Time{}, err
	}
	result := resp.(*message.QuizStarted)
	if !result.OK {
		return nil, time.Time{}, rejected(result.Message)
	}
	return result.Items, result.StartedAt, nil
}

// SubmitQuiz hands in answers, one per quiz position, and returns the
// graded attempt.
func (c *Client) SubmitQuiz(ctx context.Context, terms []string) (*model.QuizAttempt, error) {
	resp, err := c.call(ctx, &message.SubmitQuiz{Terms: terms}, message.IDQuizGraded)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.QuizGraded)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return &result.Attempt, nil
}

// Stats returns past attempts. Students pass "", teachers a student
// username.
func (c *Client) Stats(ctx context.Context, username string) ([]model.QuizAttempt, error) {
	resp, err := c.call(ctx, &message.GetStats{Username: username}, message.IDStatsResult)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.StatsResult)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Attempts, nil
}

// ListStudents returns all student accounts. Teacher only.
func (c *Client) ListStudents(ctx context.Context) ([]model.Identity, error) {
	resp, err := c.call(ctx, &message.ListStudents{}, message.IDStudentList)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.StudentList)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Students, nil
}

func (c *Client) ack(ctx context.Context, req message.Correlated) (string, error) {
	resp, err := c.call(ctx, req, message.IDAck)
	if err != nil {
		return "", err
	}
	result := resp.(*message.Ack)
	if !result.OK {
		return "", rejected(result.Message)
	}
	return result.Message, nil
}

// CreateCard adds a flashcard and returns the assigned id. Teacher only.
func (c *Client) CreateCard(ctx context.Context, card model.Card) (string, error) {
	return c.ack(ctx, &message.CreateCard{Card: card})
}

// UpdateCard replaces a flashcard. Teacher only.
func (c *Client) UpdateCard(ctx context.Context, card model.Card) error {
	_, err := c.ack(ctx, &message.UpdateCard{Card: card})
	return err
}

// DeleteCard removes a flashcard. Teacher only.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	_, err := c.ack(ctx, &message.DeleteCard{ID: id})
	return err
}

// ListCards returns all flashcards. Teacher only.
func (c *Client) ListCards(ctx context.Context) ([]model.Card, error) {
	resp, err := c.call(ctx, &message.ListCards{}, message.IDCardList)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.CardList)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Cards, nil
}

// CreateTemplate adds a quiz template and returns the assigned id.
// Teacher only.
func (c *Client) CreateTemplate(ctx context.Context, t model.QuizTemplate) (string, error) {
	return c.ack(ctx, &message.CreateTemplate{Template: t})
}

// UpdateTemplate replaces a quiz template. Teacher only.
func (c *Client) UpdateTemplate(ctx context.Context, t model.QuizTemplate) error {
	_, err := c.ack(ctx, &message.UpdateTemplate{Template: t})
	return err
}

// DeleteTemplate removes a quiz template. Teacher only.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	_, err := c.ack(ctx, &message.DeleteTemplate{ID: id})
	return err
}

// ListTemplates returns all quiz templates. Teacher only.
func (c *Client) ListTemplates(ctx context.Context) ([]model.QuizTemplate, error) {
	resp, err := c.call(ctx, &message.ListTemplates{}, message.IDTemplateList)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.TemplateList)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Templates, nil
}

// ListTeachers returns all teacher accounts. Admin only.
func (c *Client) ListTeachers(ctx context.Context) ([]model.Identity, error) {
	resp, err := c.call(ctx, &message.ListTeachers{}, message.IDTeacherList)
	if err != nil {
		return nil, err
	}
	result := resp.(*message.TeacherList)
	if !result.OK {
		return nil, rejected(result.Message)
	}
	return result.Teachers, nil
}

// CreateTeacher adds a teacher account. Admin only.
func (c *Client) CreateTeacher(ctx context.Context, username, password, firstName, lastName string) error {
	_, err := c.ack(ctx, &message.CreateTeacher{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	return err
}

// ToggleTeacher flips a teacher's deactivated flag. Admin only.
func (c *Client) ToggleTeacher(ctx context.Context, username string) error {
	_, err := c.ack(ctx, &message.ToggleTeacher{Username: username})
	return err
}

// DeleteTeacher removes a teacher account. Admin only.
func (c *Client) DeleteTeacher(ctx context.Context, username string) error {
	_, err := c.ack(ctx, &message.DeleteTeacher{Username: username})
	return err
}
