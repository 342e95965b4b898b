package action

import (
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
)

// Result is the uniform outcome of every guarded action. Failures of any
// kind terminate at the action boundary and are returned as data, never
// propagated as errors, so the caller can render Message without a recover
// path.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Kind is the failure taxonomy of guarded actions.
type Kind int

const (
	KindAuthorizationDenied Kind = iota
	KindValidationFailed
	KindConstraintViolation
	KindTransientBackend
)

const (
	// DeniedMessage is the localized authorization failure message; internals
	// (which check failed, whether a session existed) are never leaked.
	DeniedMessage = "you do not have permission to perform this action"

	// transientMessage is the generic retry-suggesting message for backend
	// failures; no automatic retry is performed anywhere.
	transientMessage = "something went wrong, please try again"
)

func OK(msg string) Result {
	return Result{Success: true, Message: msg}
}

func OKWithID(msg, id string) Result {
	return Result{Success: true, Message: msg, ID: id}
}

// Classify maps an error to its failure kind.
func Classify(err error) Kind {
	switch errors.Cause(err).(type) {
	case *core.PermissionError:
		return KindAuthorizationDenied
	case validator.ValidationErrors, *core.ValidationError:
		return KindValidationFailed
	case *core.ConflictError:
		return KindConstraintViolation
	default:
		return KindTransientBackend
	}
}

// Fail converts an error into a failed Result with a user-facing message.
// Backend errors collapse into a generic message; their detail stays on the
// server side.
func Fail(err error, translator ut.Translator) Result {
	return Result{Message: message(err, translator)}
}

// Resolve returns a successful Result when err is nil, a failed one otherwise.
func Resolve(err error, successMsg string, translator ut.Translator) Result {
	if err != nil {
		return Fail(err, translator)
	}
	return OK(successMsg)
}

func message(err error, translator ut.Translator) string {
	switch origErr := errors.Cause(err).(type) {
	case *core.PermissionError:
		return origErr.Error()
	case validator.ValidationErrors:
		msgs := make([]string, 0, len(origErr))
		for _, vErr := range origErr {
			msgs = append(msgs, vErr.Field()+": "+vErr.Translate(translator))
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; ")
	case *core.ValidationError:
		if len(origErr.Fields) > 0 {
			msgs := make([]string, 0, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				msgs = append(msgs, fErr.Field+": "+fErr.Error)
			}
			sort.Strings(msgs)
			return strings.Join(msgs, "; ")
		}
		return origErr.Error()
	case *core.ConflictError:
		return origErr.Error()
	default:
		return transientMessage
	}
}
