// Package ident holds the identifier lookup error shared by the wizard,
// extension, and subprocess layers, plus normalization of user-supplied keys.
package ident

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// ErrUnknown is matched by every UnknownError.
var ErrUnknown = errors.New(messages.IdentUnknown)

// Kinds of identifiers that can fail lookup.
const (
	KindWizard    = "wizard"
	KindExtension = "extension"
	KindOperation = "operation"
)

// UnknownError reports that an identifier does not exist in its registry.
type UnknownError struct {
	Kind       string
	Identifier string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf(messages.IdentUnknownFmt, e.Kind, e.Identifier)
}

// Unwrap lets errors.Is(err, ErrUnknown) match.
func (e *UnknownError) Unwrap() error {
	return ErrUnknown
}

// Unknown builds an UnknownError for kind and identifier.
func Unknown(kind string, identifier string) error {
	return &UnknownError{Kind: kind, Identifier: identifier}
}

// Normalize trims surrounding whitespace and applies NFC so identifiers typed
// on different terminals compare equal.
func Normalize(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}
