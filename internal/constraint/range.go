package constraint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/version"
)

// Bound is one end of a Range.
type Bound struct {
	Version   *semver.Version
	Inclusive bool
}

// Range is a declared compatible-version interval. A nil bound is open.
type Range struct {
	Min *Bound
	Max *Bound
}

var comparatorPattern = regexp.MustCompile(`^(>=|<=|==|=|>|<)?v?(\d+(?:\.\d+){0,2}(?:-[0-9A-Za-z.\-]+)?)$`)

// Parse reads a declared constraint. Two notations are accepted:
//
//	10.4.0-11.5.99   host notation, inclusive bounds, either side may be empty
//	>=10.0,<11.0     comparator notation, comma or whitespace separated
//
// An empty string or "*" is unbounded; a 0.0.0 bound counts as absent.
func Parse(raw string) (Range, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "*" {
		return Range{}, nil
	}
	if strings.ContainsAny(trimmed, "<>=") {
		return parseComparators(trimmed)
	}
	if low, high, ok := strings.Cut(trimmed, "-"); ok && !strings.Contains(high, "-") {
		return parseHostRange(raw, low, high)
	}
	return parseComparators(trimmed)
}

func parseHostRange(raw string, low string, high string) (Range, error) {
	var r Range
	if bound, err := parseBound(raw, low); err != nil {
		return Range{}, err
	} else if bound != nil {
		r.Min = &Bound{Version: bound, Inclusive: true}
	}
	if bound, err := parseBound(raw, high); err != nil {
		return Range{}, err
	} else if bound != nil {
		r.Max = &Bound{Version: bound, Inclusive: true}
	}
	return r, r.validate(raw)
}

func parseBound(raw string, part string) (*semver.Version, error) {
	part = strings.TrimSpace(part)
	if part == "" || part == "*" {
		return nil, nil
	}
	parsed, err := version.Parse(part)
	if err != nil {
		return nil, fmt.Errorf(messages.ConstraintInvalidBoundFmt, part, raw, err)
	}
	if version.IsZero(parsed) {
		return nil, nil
	}
	return parsed, nil
}

func parseComparators(raw string) (Range, error) {
	var r Range
	for _, token := range comparatorTokens(raw) {
		match := comparatorPattern.FindStringSubmatch(token)
		if match == nil {
			return Range{}, fmt.Errorf(messages.ConstraintInvalidTokenFmt, token, raw)
		}
		parsed, err := version.Parse(match[2])
		if err != nil {
			return Range{}, fmt.Errorf(messages.ConstraintInvalidBoundFmt, match[2], raw, err)
		}
		switch match[1] {
		case ">=":
			r.raiseMin(parsed, true)
		case ">":
			r.raiseMin(parsed, false)
		case "<=":
			r.lowerMax(parsed, true)
		case "<":
			r.lowerMax(parsed, false)
		default:
			r.raiseMin(parsed, true)
			r.lowerMax(parsed, true)
		}
	}
	if r.Min != nil && version.IsZero(r.Min.Version) && r.Min.Inclusive {
		r.Min = nil
	}
	return r, r.validate(raw)
}

// comparatorTokens splits on commas and whitespace, gluing a bare operator to
// the version that follows it (">= 10.0" is one token).
func comparatorTokens(raw string) []string {
	fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	tokens := make([]string, 0, len(fields))
	pending := ""
	for _, field := range fields {
		if strings.Trim(field, "<>=") == "" {
			pending += field
			continue
		}
		tokens = append(tokens, pending+field)
		pending = ""
	}
	if pending != "" {
		tokens = append(tokens, pending)
	}
	return tokens
}

func (r *Range) raiseMin(v *semver.Version, inclusive bool) {
	if r.Min == nil {
		r.Min = &Bound{Version: v, Inclusive: inclusive}
		return
	}
	cmp := v.Compare(r.Min.Version)
	if cmp > 0 || (cmp == 0 && !inclusive) {
		r.Min = &Bound{Version: v, Inclusive: inclusive}
	}
}

func (r *Range) lowerMax(v *semver.Version, inclusive bool) {
	if r.Max == nil {
		r.Max = &Bound{Version: v, Inclusive: inclusive}
		return
	}
	cmp := v.Compare(r.Max.Version)
	if cmp < 0 || (cmp == 0 && !inclusive) {
		r.Max = &Bound{Version: v, Inclusive: inclusive}
	}
}

func (r Range) validate(raw string) error {
	if r.Min == nil || r.Max == nil {
		return nil
	}
	cmp := r.Min.Version.Compare(r.Max.Version)
	if cmp > 0 || (cmp == 0 && !(r.Min.Inclusive && r.Max.Inclusive)) {
		return fmt.Errorf(messages.ConstraintEmptyRangeFmt, raw)
	}
	return nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v *semver.Version) bool {
	if r.Min != nil {
		cmp := v.Compare(r.Min.Version)
		if cmp < 0 || (cmp == 0 && !r.Min.Inclusive) {
			return false
		}
	}
	if r.Max != nil {
		cmp := v.Compare(r.Max.Version)
		if cmp > 0 || (cmp == 0 && !r.Max.Inclusive) {
			return false
		}
	}
	return true
}

// Unbounded reports whether r accepts every version.
func (r Range) Unbounded() bool {
	return r.Min == nil && r.Max == nil
}

func (r Range) String() string {
	parts := make([]string, 0, 2)
	if r.Min != nil {
		op := ">"
		if r.Min.Inclusive {
			op = ">="
		}
		parts = append(parts, op+r.Min.Version.String())
	}
	if r.Max != nil {
		op := "<"
		if r.Max.Inclusive {
			op = "<="
		}
		parts = append(parts, op+r.Max.Version.String())
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ", ")
}
