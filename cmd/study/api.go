package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// apiClient talks to the flashdeck REST API for everything except result
// reporting, which goes through the reporter package.
type apiClient struct {
	base  string
	token string
	hc    *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *apiClient) resultsURL() string {
	return c.base + "/api/study/results"
}

// deckQuery holds the card-selection parameters for a session. Zero values
// mean the filter is not applied.
type deckQuery struct {
	Source     string
	Topic      string
	Level      string
	PageFrom   int
	PageTo     int
	ChunkSize  int
	ChunkIndex int
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// login exchanges credentials for an access token and stores it on the client.
func (c *apiClient) login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("empty access token")
	}

	c.token = out.AccessToken
	return nil
}

type deckCard struct {
	ID            string  `json:"id"`
	Source        string  `json:"source"`
	PageNumber    *int    `json:"page_number"`
	ProblemNumber *string `json:"problem_number"`
	Topic         *string `json:"topic"`
	Level         *string `json:"level"`
	QuestionImage *string `json:"image_problem"`
	AnswerImage   *string `json:"image_answer"`
}

type deckPayload struct {
	Cards []deckCard `json:"cards"`
	Total int        `json:"total"`
}

// fetchDeck loads the session's cards from the server.
func (c *apiClient) fetchDeck(ctx context.Context, q deckQuery) ([]domain.Card, int, error) {
	params := url.Values{}
	params.Set("source", q.Source)
	if q.Topic != "" {
		params.Set("topic", q.Topic)
	}
	if q.Level != "" {
		params.Set("level", q.Level)
	}
	if q.PageFrom > 0 {
		params.Set("page_from", strconv.Itoa(q.PageFrom))
	}
	if q.PageTo > 0 {
		params.Set("page_to", strconv.Itoa(q.PageTo))
	}
	if q.ChunkSize > 0 {
		params.Set("chunk_size", strconv.Itoa(q.ChunkSize))
	}
	if q.ChunkIndex > 0 {
		params.Set("chunk_index", strconv.Itoa(q.ChunkIndex))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/study/cards?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var payload deckPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}

	cards := make([]domain.Card, 0, len(payload.Cards))
	for _, dc := range payload.Cards {
		id, err := uuid.Parse(dc.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid card id %q: %w", dc.ID, err)
		}
		cards = append(cards, domain.Card{
			ID:            id,
			Source:        dc.Source,
			PageNumber:    dc.PageNumber,
			ProblemNumber: dc.ProblemNumber,
			Topic:         dc.Topic,
			Level:         dc.Level,
			QuestionImage: dc.QuestionImage,
			AnswerImage:   dc.AnswerImage,
		})
	}

	return cards, payload.Total, nil
}
