package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeEmptyOrder      Code = "EMPTY_ORDER"
	CodeNotFound        Code = "NOT_FOUND"
	CodeStateConflict   Code = "STATE_CONFLICT"
	CodePersistence     Code = "PERSISTENCE_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
	CodeDependency      Code = "DEPENDENCY_ERROR"
)

// Severity classifies how a failure should be surfaced to the user.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

type Metadata struct {
	Severity       Severity
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Severity:       SeverityError,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthenticated: {
		Severity:       SeverityError,
		Retryable:      false,
		PublicMessage:  "you must be logged in to purchase books",
		DetailsAllowed: false,
	},
	CodeEmptyOrder: {
		Severity:       SeverityError,
		Retryable:      false,
		PublicMessage:  "your order is empty",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		Severity:       SeverityError,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeStateConflict: {
		Severity:       SeverityError,
		Retryable:      false,
		PublicMessage:  "state transition disallowed",
		DetailsAllowed: true,
	},
	CodePersistence: {
		Severity:       SeverityWarn,
		Retryable:      true,
		PublicMessage:  "your changes could not be saved",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Severity:       SeverityError,
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
	CodeDependency: {
		Severity:       SeverityError,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf extracts the code from any error, defaulting to CodeInternal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}
