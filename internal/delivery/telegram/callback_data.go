package telegram

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionAnswer = "ans"
	actionNew    = "new"
	actionRetry  = "retry"
	actionReset  = "reset"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildAnswerCallback builds callback data for answering a question.
// The generation ties the button to the quiz it was rendered for.
func buildAnswerCallback(generation uint64, questionNum, answerIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			strconv.FormatUint(generation, 10),
			strconv.Itoa(questionNum),
			strconv.Itoa(answerIndex),
		},
	}.encode()
}

type answerParams struct {
	Generation  uint64
	QuestionNum int
	AnswerIndex int
}

func parseAnswerCallback(cd callbackData) (answerParams, error) {
	if cd.Action != actionAnswer || len(cd.Params) != 3 {
		return answerParams{}, errInvalidCallback
	}

	generation, err := strconv.ParseUint(cd.Params[0], 10, 64)
	if err != nil {
		return answerParams{}, errInvalidCallback
	}
	questionNum, err := strconv.Atoi(cd.Params[1])
	if err != nil || questionNum < 1 {
		return answerParams{}, errInvalidCallback
	}
	answerIndex, err := strconv.Atoi(cd.Params[2])
	if err != nil || answerIndex < 0 {
		return answerParams{}, errInvalidCallback
	}

	return answerParams{
		Generation:  generation,
		QuestionNum: questionNum,
		AnswerIndex: answerIndex,
	}, nil
}

// buildNewGameCallback builds callback data for fetching a new game with the same filters.
func buildNewGameCallback(opts entities.PlayOptions) string {
	return callbackData{Action: actionNew, Params: optionParams(opts)}.encode()
}

// buildRetryCallback builds callback data for repeating a failed fetch.
func buildRetryCallback(opts entities.PlayOptions) string {
	return callbackData{Action: actionRetry, Params: optionParams(opts)}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

// optionParams encodes play options as amount:difficulty:type:category.
// Empty fields mean "any".
func optionParams(opts entities.PlayOptions) []string {
	category := ""
	if opts.CategoryID != nil {
		category = strconv.Itoa(*opts.CategoryID)
	}
	amount := ""
	if opts.Amount > 0 {
		amount = strconv.Itoa(opts.Amount)
	}
	return []string{amount, opts.Difficulty, opts.Type, category}
}

// parseOptionParams reverses optionParams. Missing params fall back to "any".
func parseOptionParams(params []string) (entities.PlayOptions, error) {
	var opts entities.PlayOptions
	if len(params) > 4 {
		return opts, errInvalidCallback
	}

	get := func(i int) string {
		if i < len(params) {
			return params[i]
		}
		return ""
	}

	if s := get(0); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return opts, errInvalidCallback
		}
		opts.Amount = n
	}
	opts.Difficulty = get(1)
	opts.Type = get(2)
	if s := get(3); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return opts, errInvalidCallback
		}
		opts.CategoryID = &id
	}

	return opts, nil
}
