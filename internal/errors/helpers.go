package errors

import (
	"errors"
)

// Is reports whether any error in err's chain matches target. Coded errors
// match on code alone.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func coded(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode extracts the error code. Uncoded errors report CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := coded(err); ok {
		return e.Code
	}
	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]any {
	if e, ok := coded(err); ok {
		return e.Meta
	}
	return nil
}

// GetMessage extracts the outermost user-facing message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsCode reports whether err carries code
func IsCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return IsCode(err, CodeInvalidArgument)
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return IsCode(err, CodeFailedPrecondition)
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return IsCode(err, CodeUnavailable)
}

// IsDeadlineExceeded checks if an error is a deadline exceeded error
func IsDeadlineExceeded(err error) bool {
	return IsCode(err, CodeDeadlineExceeded)
}

// IsCanceled checks if an error is a canceled error
func IsCanceled(err error) bool {
	return IsCode(err, CodeCanceled)
}

// IsResourceExhausted checks if an error is a throttling error
func IsResourceExhausted(err error) bool {
	return IsCode(err, CodeResourceExhausted)
}
