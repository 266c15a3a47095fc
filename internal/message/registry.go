package message

import (
	"fmt"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Wire identifiers. Assignment order is the protocol contract: both ends
// share this package, so the registries are identical by construction.
// Never reorder or remove entries; append only.
const (
	IDLogin uint32 = iota
	IDLoginResult
	IDStartQuiz
	IDQuizStarted
	IDSubmitQuiz
	IDQuizGraded
	IDGetStats
	IDStatsResult
	IDListStudents
	IDStudentList
	IDCreateCard
	IDUpdateCard
	IDDeleteCard
	IDListCards
	IDCardList
	IDCreateTemplate
	IDUpdateTemplate
	IDDeleteTemplate
	IDListTemplates
	IDTemplateList
	IDListTeachers
	IDTeacherList
	IDCreateTeacher
	IDToggleTeacher
	IDDeleteTeacher
	IDGetOwnAccount
	IDAccountResult
	IDAck
	IDServerNotice
)

// Registry maps wire identifiers to message factories. Identifiers are
// assigned sequentially starting at 0, in registration order.
type Registry struct {
	factories []func() Message
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register assigns the next sequential wire id to the message kind produced
// by f and returns it.
func (r *Registry) Register(f func() Message) uint32 {
	id := uint32(len(r.factories))
	r.factories = append(r.factories, f)
	return id
}

// New returns a fresh message of the kind registered under id.
func (r *Registry) New(id uint32) (Message, error) {
	if int(id) >= len(r.factories) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWireID, id)
	}
	return r.factories[id](), nil
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	return len(r.factories)
}

// Decode resolves id and decodes payload into a fresh message.
func (r *Registry) Decode(id uint32, payload []byte) (Message, error) {
	m, err := r.New(id)
	if err != nil {
		return nil, err
	}
	if err := m.Decode(wire.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("decode %T: %w", m, err)
	}
	return m, nil
}

// Default is the registry shared by client and server.
var Default = NewRegistry()

func init() {
	reg := func(want uint32, f func() Message) {
		if got := Default.Register(f); got != want {
			panic(fmt.Sprintf("message registry order broken: got id %d, want %d", got, want))
		}
	}
	reg(IDLogin, func() Message { return new(Login) })
	reg(IDLoginResult, func() Message { return new(LoginResult) })
	reg(IDStartQuiz, func() Message { return new(StartQuiz) })
	reg(IDQuizStarted, func() Message { return new(QuizStarted) })
	reg(IDSubmitQuiz, func() Message { return new(SubmitQuiz) })
	reg(IDQuizGraded, func() Message { return new(QuizGraded) })
	reg(IDGetStats, func() Message { return new(GetStats) })
	reg(IDStatsResult, func() Message { return new(StatsResult) })
	reg(IDListStudents, func() Message { return new(ListStudents) })
	reg(IDStudentList, func() Message { return new(StudentList) })
	reg(IDCreateCard, func() Message { return new(CreateCard) })
	reg(IDUpdateCard, func() Message { return new(UpdateCard) })
	reg(IDDeleteCard, func() Message { return new(DeleteCard) })
	reg(IDListCards, func() Message { return new(ListCards) })
	reg(IDCardList, func() Message { return new(CardList) })
	reg(IDCreateTemplate, func() Message { return new(CreateTemplate) })
	reg(IDUpdateTemplate, func() Message { return new(UpdateTemplate) })
	reg(IDDeleteTemplate, func() Message { return new(DeleteTemplate) })
	reg(IDListTemplates, func() Message { return new(ListTemplates) })
	reg(IDTemplateList, func() Message { return new(TemplateList) })
	reg(IDListTeachers, func() Message { return new(ListTeachers) })
	reg(IDTeacherList, func() Message { return new(TeacherList) })
	reg(IDCreateTeacher, func() Message { return new(CreateTeacher) })
	reg(IDToggleTeacher, func() Message { return new(ToggleTeacher) })
	reg(IDDeleteTeacher, func() Message { return new(DeleteTeacher) })
	reg(IDGetOwnAccount, func() Message { return new(GetOwnAccount) })
	reg(IDAccountResult, func() Message { return new(AccountResult) })
	reg(IDAck, func() Message { return new(Ack) })
	reg(IDServerNotice, func() Message { return new(ServerNotice) })
}
