// Package constraint checks the version ranges extensions declare against a
// target host application version.
package constraint

import (
	"fmt"

	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/version"
)

// Outcome is the result of checking one module.
type Outcome struct {
	ExtensionKey string
	Satisfied    bool
	// Message is empty when Satisfied.
	Message string
	// Warning is set when the declaration could not be parsed.
	Warning string
}

// Checker evaluates a module's constraint for HostKey.
// Unparsable declarations pass with a Warning unless Strict is set.
type Checker struct {
	HostKey string
	Strict  bool
}

// Check never fails; every problem is reported through the Outcome.
func (c Checker) Check(module extension.Module, target string) Outcome {
	outcome := Outcome{ExtensionKey: module.Key, Satisfied: true}

	raw, declared := module.Constraint(c.HostKey)
	if !declared {
		return outcome
	}
	targetVersion, err := version.Parse(target)
	if err != nil {
		outcome.Satisfied = false
		outcome.Message = fmt.Sprintf(messages.ConstraintInvalidTargetFmt, target, err)
		return outcome
	}
	declaredRange, err := Parse(raw)
	if err != nil {
		if c.Strict {
			outcome.Satisfied = false
			outcome.Message = fmt.Sprintf(messages.ConstraintUnparsableStrictFmt, module.Key, raw, err)
			return outcome
		}
		outcome.Warning = fmt.Sprintf(messages.ConstraintUnparsableWarningFmt, module.Key, raw, err)
		return outcome
	}
	if declaredRange.Contains(targetVersion) {
		return outcome
	}
	outcome.Satisfied = false
	outcome.Message = fmt.Sprintf(messages.ConstraintViolationFmt, module.Key, c.HostKey, declaredRange.String(), c.HostKey, targetVersion.String())
	return outcome
}
