package errors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// stackTracer is implemented by errors created using github.com/pkg/errors
// that carry a call stack.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the cause chain of the
// given error, or nil when no layer carries one.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Format implements fmt.Formatter so that %+v prints the error together with
// the stack trace attached by the most inner Wrap call. Without the plus flag
// only the error message is written.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, e.Error())
		if st := stackTrace(e); st != nil {
			st.Format(s, verb)
		}
		return
	}
	io.WriteString(s, e.Error())
}
