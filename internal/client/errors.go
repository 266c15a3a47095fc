package client

import "errors"

// ErrRejected is wrapped around the server's failure text whenever an
// operation comes back with a failure response.
var ErrRejected = errors.New("operation rejected")
