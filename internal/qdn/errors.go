package qdn

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures.
type ErrorKind int

const (
	// KindFailure covers transport, auth and decoding failures.
	KindFailure ErrorKind = iota
	// KindNotFound means nothing is stored at the requested coordinates.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// ErrNotFound matches any *StoreError of kind KindNotFound via errors.Is.
var ErrNotFound = errors.New("qdn: resource not found")

// StoreError is the error returned by every DocumentStore. Callers branch on
// Kind (or use IsNotFound) rather than on the message:
//
//	var storeErr *qdn.StoreError
//	if errors.As(err, &storeErr) && storeErr.Kind == qdn.KindFailure { ... }
type StoreError struct {
	Kind ErrorKind
	Ref  ResourceRef
	// StatusCode is the HTTP status when the store is reached over HTTP.
	StatusCode int
	Err        error
}

func (e *StoreError) Error() string {
	if e.Kind == KindNotFound {
		return fmt.Sprintf("qdn: %s not found", e.Ref)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("qdn: fetch %s (%d): %v", e.Ref, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("qdn: fetch %s: %v", e.Ref, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// NotFound builds a KindNotFound error for ref.
func NotFound(ref ResourceRef) *StoreError {
	return &StoreError{Kind: KindNotFound, Ref: ref}
}

// Failure builds a KindFailure error for ref.
func Failure(ref ResourceRef, statusCode int, err error) *StoreError {
	return &StoreError{Kind: KindFailure, Ref: ref, StatusCode: statusCode, Err: err}
}

// IsNotFound reports whether err signals an absent resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
