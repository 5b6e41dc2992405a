package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		lower bool
		want  string
	}{
		{name: "trims whitespace", s: "  awe\t\n", want: "awe"},
		{name: "keeps case by default", s: " AweSome ", want: "AweSome"},
		{name: "lowers on demand", s: " Awe@Test.CD ", lower: true, want: "awe@test.cd"},
		{name: "empty", s: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lower {
				assert.Equal(t, tt.want, CleanString(tt.s, true))
			} else {
				assert.Equal(t, tt.want, CleanString(tt.s))
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(errors.New("invalid payload"),
		FieldError{Field: "email", Error: "email already exists"},
	)

	vErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.EqualError(t, vErr, "invalid payload")

	msg, ok := vErr.FieldError("email")
	assert.True(t, ok)
	assert.Equal(t, "email already exists", msg)

	_, ok = vErr.FieldError("name")
	assert.False(t, ok)

	assert.Empty(t, ValidationError{}.Error())
}

func TestIsShutdown(t *testing.T) {
	err := NewShutdownError("integrity issue")
	assert.True(t, IsShutdown(err))
	assert.True(t, IsShutdown(errors.Wrap(err, "handling request")))
	assert.False(t, IsShutdown(errors.New("boom")))
}
