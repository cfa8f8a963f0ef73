package commands

import (
	"errors"
	"fmt"
	"io"

	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/session"
)

// reportFailure prints the session's error slot and maps err to an exit code.
// 401/403 are auth errors, other 4xx are user errors, everything else
// (5xx, transport) is a backend error.
func reportFailure(errOut io.Writer, s *session.Session, err error) int {
	msg := s.State().Err
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)

	var se *service.StatusError
	if errors.As(err, &se) {
		switch {
		case se.IsAuth():
			return exitcode.AuthError
		case se.IsClient():
			return exitcode.UserError
		}
	}
	return exitcode.BackendError
}

// printOK prints the success marker unless quiet.
func printOK(out io.Writer, quiet bool) {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
}
