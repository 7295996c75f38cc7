package entities

// Default number of questions per game.
const DefaultAmount = 5

// PlayOptions are the filters a user may choose when starting a game.
// Zero values mean "any".
type PlayOptions struct {
	Amount     int    `validate:"gte=0,lte=50"`
	CategoryID *int   `validate:"omitempty,gt=0"`
	Difficulty string `validate:"omitempty,oneof=easy medium hard"`
	Type       string `validate:"omitempty,oneof=multiple boolean"`
}

// AmountOrDefault returns Amount, or DefaultAmount when it is not set.
func (o PlayOptions) AmountOrDefault() int {
	if o.Amount <= 0 {
		return DefaultAmount
	}
	return o.Amount
}
