package cardservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boardsync/internal/board"
	"boardsync/internal/cardservice"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UpdateCardOrder(t *testing.T) {
	cardID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cards/"+cardID.String()+"/order", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1500.0, body["order"])

		_ = json.NewEncoder(w).Encode(board.Card{ID: cardID, Order: body["order"], Status: board.StatusOpen})
	}))
	defer srv.Close()

	client := cardservice.New(srv.URL+"/", "token-1", time.Second)
	card, err := client.UpdateCardOrder(context.Background(), cardID, 1500)

	require.NoError(t, err)
	assert.Equal(t, cardID, card.ID)
	assert.Equal(t, 1500.0, card.Order)
}

func TestClient_UpdateCardColumn(t *testing.T) {
	cardID, columnID := uuid.New(), uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/"+cardID.String()+"/column", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, columnID.String(), body["column_id"])
		_ = json.NewEncoder(w).Encode(board.Card{ID: cardID, ColumnID: columnID})
	}))
	defer srv.Close()

	card, err := cardservice.New(srv.URL, "", time.Second).UpdateCardColumn(context.Background(), cardID, columnID)

	require.NoError(t, err)
	assert.Equal(t, columnID, card.ColumnID)
}

func TestClient_FetchColumnsForBoard(t *testing.T) {
	boardID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/boards/"+boardID.String()+"/columns", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"` + uuid.NewString() + `","board_id":"` + boardID.String() +
			`","title":"To do","order":1,"cards":[{"id":"` + uuid.NewString() +
			`","title":"Write docs","order":1000,"priority":"low","labels":["docs"],"assignees":[],"status":"open"}]}]`))
	}))
	defer srv.Close()

	columns, err := cardservice.New(srv.URL, "", time.Second).FetchColumnsForBoard(context.Background(), boardID)

	require.NoError(t, err)
	require.Len(t, columns, 1)
	assert.Equal(t, "To do", columns[0].Title)
	require.Len(t, columns[0].Cards, 1)
	assert.Equal(t, board.PriorityLow, columns[0].Cards[0].Priority)
	assert.Equal(t, []string{"docs"}, columns[0].Cards[0].Labels)
}

func TestClient_NonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Card not found"}`))
	}))
	defer srv.Close()

	_, err := cardservice.New(srv.URL, "", time.Second).UpdateCardOrder(context.Background(), uuid.New(), 10)

	var apiErr *cardservice.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Card not found", apiErr.Message)
}

func TestClient_TimeoutFails(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := cardservice.New(srv.URL, "", 50*time.Millisecond).UpdateCardColumn(context.Background(), uuid.New(), uuid.New())

	assert.Error(t, err)
}
