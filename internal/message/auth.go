package message

import (
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/model"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Login asks the server to authenticate this connection.
type Login struct {
	request
	Username string
	Password string
}

func (*Login) WireID() uint32 { return IDLogin }

func (m *Login) Encode(w *wire.Writer) {
	m.encodeHead(w)
	w.String(m.Username)
	w.String(m.Password)
}

func (m *Login) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	var err error
	if m.Username, err = r.String(); err != nil {
		return err
	}
	m.Password, err = r.String()
	return err
}

// LoginResult reports the outcome of a Login. On success Identity carries
// the authenticated account snapshot.
type LoginResult struct {
	response
	Result
	Identity *model.Identity
}

func (*LoginResult) WireID() uint32 { return IDLoginResult }

func (m *LoginResult) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	w.Bool(m.Identity != nil)
	if m.Identity != nil {
		encodeIdentity(w, *m.Identity)
	}
}

func (m *LoginResult) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	present, err := r.Bool()
	if err != nil {
		return err
	}
	if !present {
		m.Identity = nil
		return nil
	}
	ident, err := decodeIdentity(r)
	if err != nil {
		return err
	}
	m.Identity = &ident
	return nil
}

// GetOwnAccount asks for the snapshot of the identity bound to this
// connection. Valid in any authenticated role.
type GetOwnAccount struct {
	request
}

func (*GetOwnAccount) WireID() uint32 { return IDGetOwnAccount }

func (m *GetOwnAccount) Encode(w *wire.Writer) { m.encodeHead(w) }

func (m *GetOwnAccount) Decode(r *wire.Reader) error { return m.decodeHead(r) }

// AccountResult answers GetOwnAccount.
type AccountResult struct {
	response
	Result
	Identity model.Identity
}

func (*AccountResult) WireID() uint32 { return IDAccountResult }

func (m *AccountResult) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
	encodeIdentity(w, m.Identity)
}

func (m *AccountResult) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	if err := m.Result.decode(r); err != nil {
		return err
	}
	var err error
	m.Identity, err = decodeIdentity(r)
	return err
}

// Ack is the generic response for mutations that return no data.
type Ack struct {
	response
	Result
}

func (*Ack) WireID() uint32 { return IDAck }

func (m *Ack) Encode(w *wire.Writer) {
	m.encodeHead(w)
	m.Result.encode(w)
}

func (m *Ack) Decode(r *wire.Reader) error {
	if err := m.decodeHead(r); err != nil {
		return err
	}
	return m.Result.decode(r)
}
