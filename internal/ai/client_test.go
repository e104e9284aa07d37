package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, Options{APIKey: "k", RetryDelay: 10 * time.Millisecond})
}

func TestAnalyzeFood(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-food", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "aGVsbG8=", body["image"])
		_, _ = w.Write([]byte(`{"foods":[{"name":"pollo","estimated_portion":"150g","confidence":0.8}],"suggestions":["add vegetables"]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).AnalyzeFood(context.Background(), "aGVsbG8=")
	require.NoError(t, err)
	require.Len(t, got.Foods, 1)
	assert.Equal(t, "pollo", got.Foods[0].Name)
	assert.Equal(t, "150g", got.Foods[0].EstimatedPortion)
	assert.Equal(t, 0.8, got.Foods[0].Confidence)
	assert.Equal(t, []string{"add vegetables"}, got.Suggestions)
}

func TestAnalyzeFood_RetriesOnceWhenOverloaded(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is Overloaded, try later"}`))
			return
		}
		_, _ = w.Write([]byte(`{"foods":[],"suggestions":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AnalyzeFood(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyzeFood_GivesUpAfterOneRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// overloaded reported inside a 200 body
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AnalyzeFood(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOverloaded)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyzeFood_OtherErrorsAreTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"image too large"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).AnalyzeFood(context.Background(), "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "image too large", apiErr.Message)
	assert.False(t, apiErr.Temporary())
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze-receipt", r.URL.Path)
		_, _ = w.Write([]byte(`{"store":" Mercadona ","date":"2026-03-02","total":12.35,"payment_method":"card","confidence":1.4,
			"items":[{"product_name":"Leche","quantity":"2","unit_price":"1.10","total_price":"2.20"},
			         {"product_name":"Pan","quantity":"1","unit_price":10.15,"total_price":10.15}]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).AnalyzeReceipt(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("12.35")))

	exp := got.Expense("u1", "2026-03-05")
	assert.Equal(t, "Mercadona", exp.Store)
	assert.Equal(t, "2026-03-02", exp.Date)
	assert.Equal(t, 1.0, exp.Confidence)
	require.Len(t, exp.Items, 2)
	assert.True(t, exp.ItemsTotal().Equal(decimal.RequireFromString("12.35")))
	assert.NoError(t, exp.Validate())
}

func TestReceiptAnalysis_ExpenseDefaults(t *testing.T) {
	r := ReceiptAnalysis{
		Store: "Shop",
		Date:  "03/02/2026",
		Items: []ReceiptItem{{ProductName: "A", TotalPrice: decimal.NewFromInt(3)}},
	}
	exp := r.Expense("u1", "2026-03-05")
	assert.Equal(t, "2026-03-05", exp.Date)
	assert.True(t, exp.Total.Equal(decimal.NewFromInt(3)))
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nutrition-chat", r.URL.Path)
		var body struct {
			Messages []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		_, _ = w.Write([]byte(`{"reply":"Eat more fiber."}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Chat(context.Background(), []Message{{Role: "user", Content: "tips?"}})
	require.NoError(t, err)
	assert.Equal(t, "Eat more fiber.", reply)
}

func TestWithOverloadRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := WithOverloadRetry(ctx, time.Hour, func(error) { cancel() }, func(context.Context) (int, error) {
		calls++
		return 0, &APIError{Status: 503, Message: "overloaded"}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithOverloadRetry_PassesThroughSuccess(t *testing.T) {
	calls := 0
	got, err := WithOverloadRetry(context.Background(), time.Hour, nil, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestAPIError(t *testing.T) {
	err := error(&APIError{Status: 500, Message: "The model is OVERLOADED"})
	assert.True(t, errors.Is(err, ErrOverloaded))
	assert.True(t, err.(*APIError).Temporary())

	plain := &APIError{Status: 401}
	assert.False(t, errors.Is(plain, ErrOverloaded))
	assert.Equal(t, "ai service returned status 401", plain.Error())
}
