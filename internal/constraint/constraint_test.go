package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/version"
)

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		target   string
		want     bool
	}{
		{name: "host notation inside", declared: "10.4.0-11.5.99", target: "11.5.3", want: true},
		{name: "host notation above", declared: "10.4.0-11.5.99", target: "12.0.0", want: false},
		{name: "host notation below", declared: "10.4.0-11.5.99", target: "9.5.31", want: false},
		{name: "host notation inclusive max", declared: "10.4.0-11.5.99", target: "11.5.99", want: true},
		{name: "open max", declared: "10.4.0-", target: "99.0.0", want: true},
		{name: "zero max is open", declared: "10.4.0-0.0.0", target: "13.0.0", want: true},
		{name: "open min", declared: "-11.5.99", target: "1.0.0", want: true},
		{name: "zero min is open", declared: "0.0.0-11.5.99", target: "0.1.0", want: true},
		{name: "comparators inside", declared: ">=10.0,<=11.0", target: "10.4.0", want: true},
		{name: "comparators exclusive max", declared: ">=10.0,<11.0", target: "11.0.0", want: false},
		{name: "comparators exclusive max excludes later", declared: ">=10.0,<11.0", target: "11.5.0", want: false},
		{name: "comparators spaced", declared: ">= 10.0 <= 11.0", target: "11.0.0", want: true},
		{name: "exclusive min", declared: ">10.4.0", target: "10.4.0", want: false},
		{name: "only max", declared: "<=11.5.99", target: "6.2.0", want: true},
		{name: "exact", declared: "11.5.0", target: "11.5.0", want: true},
		{name: "exact mismatch", declared: "=11.5.0", target: "11.5.1", want: false},
		{name: "wildcard", declared: "*", target: "1.2.3", want: true},
		{name: "empty", declared: "", target: "1.2.3", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.declared)
			require.NoError(t, err)
			target, err := version.Parse(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Contains(target))
		})
	}
}

// For every X <= Y the check passes iff X <= V <= Y.
func TestRangeBoundsProperty(t *testing.T) {
	versions := []string{"1.0.0", "1.5.0", "2.0.0", "2.0.1", "3.0.0", "10.0.0"}
	for _, x := range versions {
		for _, y := range versions {
			lowCmp, err := version.Compare(x, y)
			require.NoError(t, err)
			if lowCmp > 0 {
				continue
			}
			r, err := Parse(">=" + x + ",<=" + y)
			require.NoError(t, err)
			for _, v := range versions {
				target, err := version.Parse(v)
				require.NoError(t, err)
				aboveMin, _ := version.Compare(v, x)
				belowMax, _ := version.Compare(v, y)
				want := aboveMin >= 0 && belowMax <= 0
				assert.Equal(t, want, r.Contains(target), ">=%s,<=%s with %s", x, y, v)
			}
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, raw := range []string{"latest", ">=ten", "11.5.99-10.4.0", ">=11.0,<10.0", "1.0.0 ~> 2"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestRangeString(t *testing.T) {
	r, err := Parse("10.4.0-11.5.99")
	require.NoError(t, err)
	assert.Equal(t, ">=10.4.0, <=11.5.99", r.String())

	r, err = Parse(">10,<11")
	require.NoError(t, err)
	assert.Equal(t, ">10.0.0, <11.0.0", r.String())

	assert.Equal(t, "*", Range{}.String())
	assert.True(t, Range{}.Unbounded())
}

func TestCheckerViolation(t *testing.T) {
	checker := Checker{HostKey: "typo3"}
	module := extension.Module{Key: "foo", Constraints: map[string]string{"typo3": ">=10.0,<11.0"}}

	outcome := checker.Check(module, "11.5.0")
	assert.False(t, outcome.Satisfied)
	assert.Equal(t, "foo", outcome.ExtensionKey)
	assert.Contains(t, outcome.Message, `"foo"`)
	assert.Contains(t, outcome.Message, "11.5.0")
	assert.Empty(t, outcome.Warning)

	outcome = checker.Check(module, "10.4.2")
	assert.True(t, outcome.Satisfied)
	assert.Empty(t, outcome.Message)
}

func TestCheckerUndeclaredHostIsSatisfied(t *testing.T) {
	checker := Checker{HostKey: "typo3"}
	module := extension.Module{Key: "bar", Constraints: map[string]string{"php": "7.4.0-8.1.99"}}
	outcome := checker.Check(module, "11.5.0")
	assert.True(t, outcome.Satisfied)
	assert.Empty(t, outcome.Message)
}

func TestCheckerUnparsableConstraint(t *testing.T) {
	module := extension.Module{Key: "odd", Constraints: map[string]string{"typo3": "whenever"}}

	lenient := Checker{HostKey: "typo3"}.Check(module, "11.5.0")
	assert.True(t, lenient.Satisfied)
	assert.Empty(t, lenient.Message)
	assert.Contains(t, lenient.Warning, "odd")

	strict := Checker{HostKey: "typo3", Strict: true}.Check(module, "11.5.0")
	assert.False(t, strict.Satisfied)
	assert.Contains(t, strict.Message, "whenever")
}

func TestCheckerInvalidTarget(t *testing.T) {
	module := extension.Module{Key: "foo", Constraints: map[string]string{"typo3": "10.4.0-11.5.99"}}
	outcome := Checker{HostKey: "typo3"}.Check(module, "eleven")
	assert.False(t, outcome.Satisfied)
	assert.Contains(t, outcome.Message, "eleven")
}
