package message

import "errors"

// ErrUnknownWireID is returned when an incoming frame carries an identifier
// no message kind was registered under. A registry mismatch between peers
// is only detectable this way; it is fatal to the connection.
var ErrUnknownWireID = errors.New("unknown wire id")
