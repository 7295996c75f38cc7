package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

func TestParsePlayArgs(t *testing.T) {
	defaults := entities.PlayOptions{Amount: 5}
	nine := 9

	tests := []struct {
		name string
		args string
		want entities.PlayOptions
	}{
		{name: "no args", args: "", want: defaults},
		{name: "difficulty", args: "hard", want: entities.PlayOptions{Amount: 5, Difficulty: "hard"}},
		{name: "type", args: "boolean", want: entities.PlayOptions{Amount: 5, Type: "boolean"}},
		{name: "true false alias", args: "tf", want: entities.PlayOptions{Amount: 5, Type: "boolean"}},
		{name: "category", args: "9", want: entities.PlayOptions{Amount: 5, CategoryID: &nine}},
		{
			name: "any order and case",
			args: "  9 MULTIPLE Easy ",
			want: entities.PlayOptions{Amount: 5, Difficulty: "easy", Type: "multiple", CategoryID: &nine},
		},
		{name: "any is ignored", args: "any any", want: defaults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePlayArgs(tt.args, defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlayArgs_Invalid(t *testing.T) {
	for _, args := range []string{"impossible", "0", "-3", "easy banana"} {
		t.Run(args, func(t *testing.T) {
			_, err := parsePlayArgs(args, entities.PlayOptions{})
			assert.ErrorIs(t, err, errInvalidPlayArgs)
		})
	}
}
