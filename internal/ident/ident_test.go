package ident

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownError(t *testing.T) {
	err := Unknown(KindWizard, "ghost")
	assert.EqualError(t, err, `unknown wizard identifier "ghost"`)
	assert.True(t, errors.Is(err, ErrUnknown))

	wrapped := fmt.Errorf("execute: %w", err)
	var unknown *UnknownError
	require.True(t, errors.As(wrapped, &unknown))
	assert.Equal(t, KindWizard, unknown.Kind)
	assert.Equal(t, "ghost", unknown.Identifier)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "trims", raw: "  settingsKeyRename\t", want: "settingsKeyRename"},
		{name: "keeps case", raw: "News", want: "News"},
		{name: "composes", raw: "cafe\u0301", want: "caf\u00e9"},
		{name: "empty", raw: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}
