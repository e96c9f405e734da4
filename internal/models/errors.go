package models

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for the persistence taxonomy. Anything not matching one of
// these is an unknown store error and surfaces as a 500.
var (
	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrStoreUninitialized means the backing schema has not been provisioned
	// yet. The client gateway recovers from this with a one-shot /init retry.
	ErrStoreUninitialized = errors.New(MsgStoreUninitialized)
)

// MsgStoreUninitialized is the wire marker for ErrStoreUninitialized. The
// server puts it in the response envelope's error field so the gateway can
// distinguish a missing schema from any other 500.
const MsgStoreUninitialized = "store not initialized"

// ValidationError carries field-level detail about malformed input. It is
// detected at the boundary and never reaches persistence.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
