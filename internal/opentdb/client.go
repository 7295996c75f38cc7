package opentdb

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// DefaultBaseURL is the public Open Trivia Database endpoint.
const DefaultBaseURL = "https://opentdb.com/api.php"

type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuestionType string

const (
	TypeAny      QuestionType = ""
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
)

// Request describes one batch of questions. Zero values mean "any";
// Amount <= 0 requests entities.DefaultAmount questions.
type Request struct {
	Amount     int
	CategoryID *int
	Difficulty Difficulty
	Type       QuestionType
}

// Result is delivered exactly once by FetchAsync.
type Result struct {
	Questions []entities.TriviaQuestion
	Err       error
}

// Client fetches question batches from the provider. It holds no state besides
// its configuration and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient sets the transport. Timeouts configured on it surface as network errors.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues a single GET and returns the decoded questions in provider order.
// Every returned error is a *FetchError.
func (c *Client) Fetch(ctx context.Context, r Request) ([]entities.TriviaQuestion, error) {
	u, err := c.buildURL(r)
	if err != nil {
		c.logger.Error("failed to build trivia request url",
			zap.String("base_url", c.baseURL),
			zap.Error(err),
		)
		return nil, badRequestURL()
	}

	c.logger.Debug("fetching trivia questions", zap.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, badRequestURL()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("trivia request failed", zap.Error(err))
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	// The provider reports failures through response_code, including on
	// non-200 statuses, so the body is decoded regardless of the status.
	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		c.logger.Warn("trivia response has no readable body",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, emptyResults()
	}

	env, err := parseEnvelope(body)
	if err != nil {
		c.logger.Warn("trivia response has unexpected shape",
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, decodingError(err)
	}

	if code := *env.ResponseCode; code != CodeSuccess {
		c.logger.Warn("trivia provider returned non-zero response code",
			zap.Int("response_code", code),
		)
		return nil, nonZeroResponseCode(code)
	}

	questions := toTriviaQuestions(env.Results)
	if len(questions) == 0 {
		return nil, emptyResults()
	}

	c.logger.Debug("trivia questions fetched", zap.Int("count", len(questions)))

	return questions, nil
}

// FetchAsync runs Fetch in its own goroutine. The returned channel receives
// exactly one Result and is then closed; it never blocks the sender.
func (c *Client) FetchAsync(ctx context.Context, r Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		questions, err := c.Fetch(ctx, r)
		out <- Result{Questions: questions, Err: err}
	}()
	return out
}

func (c *Client) buildURL(r Request) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: c.baseURL, Err: errNotAbsolute}
	}

	amount := r.Amount
	if amount <= 0 {
		amount = entities.DefaultAmount
	}

	q := u.Query()
	q.Set("amount", strconv.Itoa(amount))
	if r.CategoryID != nil {
		q.Set("category", strconv.Itoa(*r.CategoryID))
	}
	if r.Difficulty != DifficultyAny {
		q.Set("difficulty", string(r.Difficulty))
	}
	if r.Type != TypeAny {
		q.Set("type", string(r.Type))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
