package mcpkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError("package %s not found", "git")
	assert.Equal(t, "package git not found", err.Error())
	assert.True(t, IsDomainError(err))
}

func TestIsDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "domain error",
			err:  NewDomainError("binary missing"),
			want: true,
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("running tool: %w", NewDomainError("binary missing")),
			want: true,
		},
		{
			name: "validation error",
			err:  NewValidationError("Package name is required."),
			want: false,
		},
		{
			name: "protocol error",
			err:  NewProtocolError("Unknown tool.", CodeUnknownTool),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDomainError(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("%s is required.", "Token")
	assert.Equal(t, "Token is required.", err.Error())
	assert.False(t, IsDomainError(err))
}

func TestProtocolError(t *testing.T) {
	err := NewProtocolError("Unknown tool.", CodeUnknownTool)
	assert.Equal(t, "Unknown tool.", err.Error())
	assert.Equal(t, 404, err.Code)

	err = NewProtocolError("something broke", CodeInternalError)
	assert.Equal(t, 500, err.Code)
}
