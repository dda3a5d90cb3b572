package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ListPageSize is the fixed page size used when walking the flashcard list
// endpoint.
const ListPageSize = 100

// Client talks to the flashcards API, mapping non-2xx responses into the
// typed error taxonomy.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details,omitempty"`
}

type generateRequest struct {
	SourceText string `json:"source_text"`
}

type createFlashcardsRequest struct {
	Flashcards []FlashcardInput `json:"flashcards"`
}

type createFlashcardsData struct {
	Flashcards []Flashcard `json:"flashcards"`
}

type flashcardListData struct {
	Data       []Flashcard `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// GenerateProposals asks the API to generate proposals for the given source
// text.
func (c *Client) GenerateProposals(ctx context.Context, sourceText string) (*Generation, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/api/generation/v1", generateRequest{SourceText: sourceText})
	if err != nil {
		return nil, err
	}

	var gen Generation
	if err := json.Unmarshal(body, &gen); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}
	return &gen, nil
}

// CreateFlashcard persists a single flashcard via a batch-of-one request and
// returns the created record.
func (c *Client) CreateFlashcard(ctx context.Context, input FlashcardInput) (*Flashcard, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/api/flashcard/v1", createFlashcardsRequest{
		Flashcards: []FlashcardInput{input},
	})
	if err != nil {
		return nil, err
	}

	var data createFlashcardsData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode flashcards response: %w", err)
	}
	if len(data.Flashcards) == 0 {
		return nil, &APIError{Status: http.StatusOK, Message: "server returned no created flashcard"}
	}
	return &data.Flashcards[0], nil
}

// GetExistingFlashcards pages through the list endpoint and returns every
// card's content. A failing page fetch stops the walk and returns whatever
// accumulated so far: duplicate detection degrades instead of blocking the
// save flow.
func (c *Client) GetExistingFlashcards(ctx context.Context, generationId *uuid.UUID) ([]CardContent, error) {
	var contents []CardContent

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(ListPageSize))
		q.Set("sort", "created_at")
		if generationId != nil {
			q.Set("generation_id", generationId.String())
		}

		body, err := c.doJSON(ctx, http.MethodGet, "/api/flashcard/v1?"+q.Encode(), nil)
		if err != nil {
			return contents, nil
		}

		var data flashcardListData
		if err := json.Unmarshal(body, &data); err != nil {
			return contents, nil
		}

		for _, card := range data.Data {
			contents = append(contents, CardContent{Front: card.Front, Back: card.Back})
		}

		if !data.Pagination.HasNext {
			return contents, nil
		}
	}
}

// doJSON performs one request and returns the envelope's data payload.
// Non-2xx statuses come back as typed errors.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyResponse(resp, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return env.Data, nil
}

func classifyResponse(resp *http.Response, raw []byte) error {
	var env envelope
	_ = json.Unmarshal(raw, &env)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{Message: env.Message}
	case http.StatusTooManyRequests:
		return &RateLimitError{
			RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    env.Message,
		}
	case http.StatusServiceUnavailable:
		return &ServiceUnavailableError{Message: env.Message}
	case http.StatusBadRequest:
		return &ValidationError{Message: env.Message, Details: env.Details}
	default:
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
}
