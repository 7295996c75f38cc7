package opentdb

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// envelope is the top-level object returned by the provider.
// Pointer and slice fields let the validator tell a missing field from a zero value.
type envelope struct {
	ResponseCode *int          `json:"response_code" validate:"required"`
	Results      []rawQuestion `json:"results" validate:"required,dive"`
}

// rawQuestion is a question as received, HTML-escaped.
// Fields must be present but may be empty strings.
type rawQuestion struct {
	Category         *string  `json:"category" validate:"required"`
	Type             *string  `json:"type" validate:"required"`
	Difficulty       *string  `json:"difficulty" validate:"required"`
	Question         *string  `json:"question" validate:"required"`
	CorrectAnswer    *string  `json:"correct_answer" validate:"required"`
	IncorrectAnswers []string `json:"incorrect_answers" validate:"required"`
}

var shapeValidator = validator.New(validator.WithRequiredStructEnabled())

// parseEnvelope decodes body and checks that every required field is present.
func parseEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if err := shapeValidator.Struct(&env); err != nil {
		return nil, fmt.Errorf("validate envelope: %w", err)
	}

	return &env, nil
}
