package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridName(t *testing.T) {
	all := []string{"Alice Smith", "Alice Jones", "Bob Stone", "Bob Stone ", "Carol"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"first name collision keeps full name", "Alice Smith", "Alice Smith"},
		{"same person twice is not a collision", "Bob Stone", "Bob"},
		{"single word", "Carol", "Carol"},
		{"trims whitespace", "  Dave Grey ", "Dave"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GridName(tt.in, all))
		})
	}
}
