package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

func TestCallbackData_RoundTrip(t *testing.T) {
	data := buildAnswerCallback(12, 3, 1)
	assert.Equal(t, "ans:12:3:1", data)

	cd := decodeCallback(data)
	assert.Equal(t, actionAnswer, cd.Action)
	assert.Equal(t, []string{"12", "3", "1"}, cd.Params)

	p, err := parseAnswerCallback(cd)
	require.NoError(t, err)
	assert.Equal(t, answerParams{Generation: 12, QuestionNum: 3, AnswerIndex: 1}, p)
}

func TestDecodeCallback_NoParams(t *testing.T) {
	cd := decodeCallback("new")
	assert.Equal(t, actionNew, cd.Action)
	assert.Empty(t, cd.Params)
}

func TestParseAnswerCallback_Invalid(t *testing.T) {
	tests := []string{
		"ans",
		"ans:1:2",
		"ans:x:1:0",
		"ans:1:0:0",
		"ans:1:1:-1",
		"ans:1:1:a",
		"new:1:1:1",
	}

	for _, data := range tests {
		t.Run(data, func(t *testing.T) {
			_, err := parseAnswerCallback(decodeCallback(data))
			assert.ErrorIs(t, err, errInvalidCallback)
		})
	}
}

func TestOptionParams_RoundTrip(t *testing.T) {
	category := 18
	tests := []struct {
		name string
		opts entities.PlayOptions
		data string
	}{
		{name: "any", opts: entities.PlayOptions{}, data: "new::::"},
		{name: "amount only", opts: entities.PlayOptions{Amount: 10}, data: "new:10:::"},
		{
			name: "all filters",
			opts: entities.PlayOptions{Amount: 5, Difficulty: "hard", Type: "boolean", CategoryID: &category},
			data: "new:5:hard:boolean:18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildNewGameCallback(tt.opts)
			assert.Equal(t, tt.data, data)
			assert.LessOrEqual(t, len(data), 64)

			got, err := parseOptionParams(decodeCallback(data).Params)
			require.NoError(t, err)
			assert.Equal(t, tt.opts, got)
		})
	}
}

func TestParseOptionParams_Invalid(t *testing.T) {
	_, err := parseOptionParams([]string{"x"})
	assert.ErrorIs(t, err, errInvalidCallback)

	_, err = parseOptionParams([]string{"5", "", "", "cat"})
	assert.ErrorIs(t, err, errInvalidCallback)

	_, err = parseOptionParams([]string{"5", "", "", "", "extra"})
	assert.ErrorIs(t, err, errInvalidCallback)
}

func TestParseOptionParams_Short(t *testing.T) {
	got, err := parseOptionParams(nil)
	require.NoError(t, err)
	assert.Equal(t, entities.PlayOptions{}, got)
}
