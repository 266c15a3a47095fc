package message

import (
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// ListStudents requests all student accounts. Teacher only.
type ListStudents struct {
	request
}

func (*ListStudents) WireID() uint32 { return IDListStudents }

func (m *ListStudents) Encode(w *wire.Writer) { m.encodeHead(w) }

func (m *ListStudents) Decode(r *wire.Reader) error { return m.decodeHead(r) }

// StudentList answers ListStudents.
type StudentList struct {
	response
	Result
	Students []model.Identity
}

func (*StudentList) WireID() uint32 { return IDStudentList }

func (m *StudentList) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeIdentities(w, m.Students)
}

func (m *StudentList) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	m.Students, err = decodeIdentities(r)
	return err
}

// ListTeachers requests all teacher accounts. Admin only.
type ListTeachers struct {
	request
}

func (*ListTeachers) WireID() uint32 { return IDListTeachers }

func (m *ListTeachers) Encode(w *wire.Writer) { m.encodeHead(w) }

func (m *ListTeachers) Decode(r *wire.Reader) error { return m.decodeHead(r) }

// TeacherList answers ListTeachers.
type TeacherList struct {
	response
	Result
	Teachers []model.Identity
}

func (*TeacherList) WireID() uint32 { return IDTeacherList }

func (m *TeacherList) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeIdentities(w, m.Teachers)
}

func (m *TeacherList) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	m.Teachers, err = decodeIdentities(r)
	return err
}

// CreateTeacher adds a teacher account. Admin only.
type CreateTeacher struct {
	request
	Username  string
	Password  string
	FirstName string
	LastName  string
}

func (*CreateTeacher) WireID() uint32 { return IDCreateTeacher }

func (m *CreateTeacher) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.Username)
	w.String(m.Password)
	w.String(m.FirstName)
	w.String(m.LastName)
}

func (m *CreateTeacher) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	if m.Username, err = r.String(); err != nil {
		return err
	}
	if m.Password, err = r.String(); err != nil {
		return err
	}
	if m.FirstName, err = r.String(); err != nil {
		return err
	}
	m.LastName, err = r.String()
	return err
}

// ToggleTeacher flips the deactivated flag of a teacher account. Admin
// only.
type ToggleTeacher struct {
	request
	Username string
}

func (*ToggleTeacher) WireID() uint32 { return IDToggleTeacher }

func (m *ToggleTeacher) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.Username)
}

func (m *ToggleTeacher) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Username, err = r.String()
	return err
}

// DeleteTeacher removes a teacher account. Admin only.
type DeleteTeacher struct {
	request
	Username string
}

func (*DeleteTeacher) WireID() uint32 { return IDDeleteTeacher }

func (m *DeleteTeacher) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.Username)
}

func (m *DeleteTeacher) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	m.Username, err = r.String()
	return err
}

// ServerNotice is a fire-and-forget push from the server, surfaced through
// the client's notification callback. Sent e.g. when an admin deactivates
// an account that is currently online.
type ServerNotice struct {
	notice
	Text string
}

func (*ServerNotice) WireID() uint32 { return IDServerNotice }

func (m *ServerNotice) Encode(w *wire.Writer) {
	w.String(m.Text)
}

func (m *ServerNotice) Decode(r *wire.Reader) error {
	var err error
	m.Text, err = r.String()
	return err
}
