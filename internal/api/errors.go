// Package api is the typed client for the Cinephoria REST surface.
// Every response is wrapped in a {success,data} envelope; failures
// carry an error object with a message and an optional code.  The
// error types defined here let callers distinguish bad credentials,
// booking conflicts and transient transport failures without string
// matching.
package api

import "errors"

// ErrUnauthorized is returned when the server rejects the supplied
// credentials or session.  Handlers should surface this as an inline
// form error, not as a forced logout: where there was no session,
// there is nothing to tear down.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned when the requested resource does not exist
// (unknown film, room or screening).  Callers treat it as "no data".
var ErrNotFound = errors.New("not found")

// Error is a server-reported failure from the response envelope.
type Error struct {
    Code    string // optional machine-readable code
    Message string // human-readable reason
    Status  int    // HTTP status of the response
}

func (e *Error) Error() string {
    if e.Message != "" {
        return e.Message
    }
    return "request failed"
}

// IsConflict reports whether the error is a booking conflict: the
// server refused the reservation because state changed between the
// seat fetch and the confirm (typically a seat taken in between).
func IsConflict(err error) bool {
    var apiErr *Error
    if errors.As(err, &apiErr) {
        return apiErr.Status == 409
    }
    return false
}
