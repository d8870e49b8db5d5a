package web

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"nil", nil, ""},
		{"invalid date", fmt.Errorf("sort joined: %w", view.ErrInvalidDateValue), "VIEW001"},
		{"unknown column", fmt.Errorf("sort %q: %w", "x", view.ErrUnknownColumn), "VIEW002"},
		{"view not found", ErrViewNotFound, "VIEW003"},
		{"too many views", ErrTooManyViews, "VIEW004"},
		{"invalid position", fmt.Errorf("%w: %q", ErrInvalidPosition, "x"), "VIEW005"},
		{"invalid page action", ErrInvalidPageAction, "VIEW006"},
		{"dataset not found", fmt.Errorf("%w: people", dataset.ErrNotFound), "DATA001"},
		{"invalid body", ErrInvalidBody, "DATA002"},
		{"rate limited", errRateLimited, "RATE001"},
		{"date pattern", errors.New("Invalid Date in column"), "VIEW001"},
		{"unknown", errors.New("boom"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, MapError(tt.err).Code)
		})
	}
}

func TestFormatUserError(t *testing.T) {
	assert.Empty(t, FormatUserError(nil))
	assert.Equal(t,
		"This view has expired (Code: VIEW003). Open the dataset again from the dashboard",
		FormatUserError(ErrViewNotFound))
}
