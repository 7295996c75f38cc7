package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

var ErrInvalidOptions = errors.New("invalid quiz options")

// OptionsValidator checks play options before any request is sent.
type OptionsValidator struct {
	v *validator.Validate
}

func NewOptionsValidator() *OptionsValidator {
	return &OptionsValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns an error wrapping ErrInvalidOptions that names every offending field.
func (ov *OptionsValidator) Validate(opts entities.PlayOptions) error {
	err := ov.v.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(fields, ", "))
}
