package api

import (
	"errors"
	"net/http"
)

// ErrorKind classifies request failures.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindChain         ErrorKind = "chain"
	KindPersistence   ErrorKind = "persistence"
	KindMetadata      ErrorKind = "metadata"
	KindConflict      ErrorKind = "conflict"
	KindAuth          ErrorKind = "auth"
)

// RequestError provides structured error information for HTTP responses.
// Message is returned as "error"; the underlying error, when set, as "details".
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Details returns the text of the underlying error.
func (e *RequestError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func ConfigurationError(message string) *RequestError {
	return &RequestError{Kind: KindConfiguration, StatusCode: http.StatusInternalServerError, Message: message}
}

func ValidationError(message string) *RequestError {
	return &RequestError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: message}
}

func NotFoundError(message string) *RequestError {
	return &RequestError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}

func ConflictError(message string) *RequestError {
	return &RequestError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: message}
}

func AuthError(message string) *RequestError {
	return &RequestError{Kind: KindAuth, StatusCode: http.StatusUnauthorized, Message: message}
}

// ChainError wraps an RPC, signing or contract failure.
func ChainError(message string, err error) *RequestError {
	return &RequestError{Kind: KindChain, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// PersistenceError wraps a datastore failure.
func PersistenceError(message string, err error) *RequestError {
	return &RequestError{Kind: KindPersistence, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// MetadataError wraps a failure to publish token metadata.
func MetadataError(message string, err error) *RequestError {
	return &RequestError{Kind: KindMetadata, StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// AsRequestError converts any error into a RequestError. Unclassified errors
// become 500 chain errors carrying the given message.
func AsRequestError(err error, message string) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return ChainError(message, err)
}
