// Package cardservice talks to the card service REST API on behalf of the
// board engine.
package cardservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"boardsync/internal/board"

	"github.com/google/uuid"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("card service: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("card service: %d %s", e.StatusCode, e.Message)
}

// Client implements board.CardService over HTTP.
type Client struct {
	BaseURL string
	Bearer  string
	HTTP    *http.Client
}

var _ board.CardService = (*Client)(nil)

// New creates a Client whose requests give up after timeout.
func New(baseURL, bearer string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Bearer:  bearer,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) UpdateCardColumn(ctx context.Context, cardID, columnID uuid.UUID) (board.Card, error) {
	var card board.Card
	err := c.do(ctx, http.MethodPatch, "/cards/"+cardID.String()+"/column",
		map[string]string{"column_id": columnID.String()}, &card)
	return card, err
}

func (c *Client) UpdateCardOrder(ctx context.Context, cardID uuid.UUID, order float64) (board.Card, error) {
	var card board.Card
	err := c.do(ctx, http.MethodPatch, "/cards/"+cardID.String()+"/order",
		map[string]float64{"order": order}, &card)
	return card, err
}

func (c *Client) FetchColumnsForBoard(ctx context.Context, boardID uuid.UUID) ([]board.Column, error) {
	var columns []board.Column
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID.String()+"/columns", nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.Bearer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
