// Package subprocess runs one wizard operation per child process and
// implements the child side of that exchange.
package subprocess

import (
	"github.com/conn-castle/upgrade-console/internal/ident"
)

// Operation names a command the worker understands.
type Operation string

// Operations served by the worker.
const (
	OpListWizards   Operation = "list-wizards"
	OpExecuteWizard Operation = "execute-wizard"
)

// Operations returns every known operation.
func Operations() []Operation {
	return []Operation{OpListWizards, OpExecuteWizard}
}

// ParseOperation maps a wire command name onto an Operation.
func ParseOperation(name string) (Operation, error) {
	normalized := Operation(ident.Normalize(name))
	for _, op := range Operations() {
		if op == normalized {
			return op, nil
		}
	}
	return "", ident.Unknown(ident.KindOperation, name)
}
