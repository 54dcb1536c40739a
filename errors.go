package aquinas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danpasecinic/aquinas/internal/container"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeBindingNotFound
	ErrCodeResolutionFailed
	ErrCodeCircularDependency
	ErrCodeMergeInconsistent
	ErrCodeDockUnavailable
	ErrCodeTypeMismatch
	ErrCodeValidationFailed
	ErrCodeModuleApplyFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeInvalidArgument:    "INVALID_ARGUMENT",
	ErrCodeBindingNotFound:    "BINDING_NOT_FOUND",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeMergeInconsistent:  "MERGE_INCONSISTENT",
	ErrCodeDockUnavailable:    "DOCK_UNAVAILABLE",
	ErrCodeTypeMismatch:       "TYPE_MISMATCH",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
	ErrCodeModuleApplyFailed:  "MODULE_APPLY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the only error type the package returns. Message always names
// what failed; Cause carries the failure underneath, so a missing
// dependency deep in the graph stays visible from the outermost Get.
type Error struct {
	Code      ErrorCode
	Message   string
	Reference string
	Cause     error
	Chain     []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Reference != "" {
		b.WriteString(fmt.Sprintf(" reference=%q:", e.Reference))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithReference(name string) *Error {
	e.Reference = name
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errInvalidArgument(message string, got any) *Error {
	return newError(
		ErrCodeInvalidArgument,
		fmt.Sprintf("%s: got %T", message, got),
		nil,
	)
}

func errInvalidReference(got any) *Error {
	return errInvalidArgument("expected a well-formed Reference", got)
}

func errBindingNotFound(name string) *Error {
	return newError(
		ErrCodeBindingNotFound,
		"no binding registered for reference",
		nil,
	).WithReference(name)
}

func errResolutionFailed(name string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		"failed to get reference",
		cause,
	).WithReference(name)
}

func errDependencyFailed(key string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve dependency for key %q", key),
		cause,
	)
}

func errCircularDependency(chain []string) *Error {
	return newError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithChain(chain)
}

func errMergeInconsistent(name string) *Error {
	return newError(
		ErrCodeMergeInconsistent,
		"missing implementation during merge",
		nil,
	).WithReference(name)
}

func errDockUnavailable(name string) *Error {
	return newError(
		ErrCodeDockUnavailable,
		"dock not available in this context",
		nil,
	).WithReference(name)
}

func errTypeMismatch(name, want string, got any) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("bound value is %T, not %s", got, want),
		nil,
	).WithReference(name)
}

func errValidationFailed(problems []string) *Error {
	return newError(
		ErrCodeValidationFailed,
		"dock validation failed: "+strings.Join(problems, "; "),
		nil,
	)
}

func errModuleApplyFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleApplyFailed,
		"failed to apply module "+moduleName,
		cause,
	)
}

// translate turns an internal resolution failure into an *Error naming the
// reference that failed.
func translate(name string, err error) error {
	var (
		notFound *container.NotFoundError
		cycle    *container.CycleError
		provider *container.ProviderError
	)

	switch {
	case errors.As(err, &notFound) && notFound.Key.Name == name:
		return errBindingNotFound(name)
	case errors.As(err, &cycle) && !errors.As(err, &provider):
		return errCircularDependency(cycle.Chain)
	case errors.As(err, &provider) && provider.Key.Name == name:
		return errResolutionFailed(name, provider.Cause)
	default:
		return errResolutionFailed(name, err)
	}
}

func hasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &Error{Code: code})
}

// IsNotFound reports whether a binding was missing anywhere in err's chain.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeBindingNotFound)
}

func IsResolutionFailed(err error) bool {
	return hasCode(err, ErrCodeResolutionFailed)
}

func IsCircularDependency(err error) bool {
	return hasCode(err, ErrCodeCircularDependency)
}

func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

func IsDockUnavailable(err error) bool {
	return hasCode(err, ErrCodeDockUnavailable)
}

func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}
