// Package ai calls the serverless functions that front the vision and chat
// providers: food photo analysis, receipt parsing and the nutrition assistant.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/nutrition"
)

const (
	pathAnalyzeFood    = "/analyze-food"
	pathAnalyzeReceipt = "/analyze-receipt"
	pathNutritionChat  = "/nutrition-chat"
)

// FoodAnalysis is the vision analyzer's answer for a meal photo.
type FoodAnalysis struct {
	Foods       []nutrition.FoodInput `json:"foods"`
	Suggestions []string              `json:"suggestions"`
}

// ReceiptAnalysis is the parsed content of a receipt photo.
type ReceiptAnalysis struct {
	Store         string          `json:"store"`
	Date          string          `json:"date"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Confidence    float64         `json:"confidence"`
	Items         []ReceiptItem   `json:"items"`
}

type ReceiptItem struct {
	ProductName string          `json:"product_name"`
	Quantity    string          `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Expense converts the analysis into an unsaved expense. A missing date
// falls back to today; confidence is clamped to [0,1].
func (r ReceiptAnalysis) Expense(userID, today string) models.Expense {
	date := r.Date
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		date = today
	}
	exp := models.Expense{
		UserID:        userID,
		Store:         strings.TrimSpace(r.Store),
		Date:          date,
		Total:         r.Total,
		PaymentMethod: r.PaymentMethod,
		Confidence:    models.ClampConfidence(r.Confidence),
	}
	for _, it := range r.Items {
		exp.Items = append(exp.Items, models.ExpenseItem{
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	if exp.Total.IsZero() && len(exp.Items) > 0 {
		exp.Total = exp.ItemsTotal()
	}
	return exp
}

// Message is one turn of an assistant conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the AI functions under a base URL.
type Client struct {
	baseURL    string
	apiKey     string
	retryDelay time.Duration
	http       *http.Client
	logger     *log.Logger
}

// Options configures a Client. Zero values take defaults.
type Options struct {
	APIKey     string
	RetryDelay time.Duration
	Timeout    time.Duration
	Logger     *log.Logger
}

func NewClient(baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAIFunctionsBaseURL
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = constants.OverloadRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		retryDelay: opts.RetryDelay,
		http:       &http.Client{Timeout: opts.Timeout},
		logger:     opts.Logger,
	}
}

// AnalyzeFood sends a base64 image to the vision analyzer.
func (c *Client) AnalyzeFood(ctx context.Context, imageBase64 string) (FoodAnalysis, error) {
	return WithOverloadRetry(ctx, c.retryDelay, c.logRetry(pathAnalyzeFood), func(ctx context.Context) (FoodAnalysis, error) {
		var out FoodAnalysis
		err := c.post(ctx, pathAnalyzeFood, map[string]string{"image": imageBase64}, &out)
		return out, err
	})
}

// AnalyzeReceipt sends a base64 receipt image to the receipt parser.
func (c *Client) AnalyzeReceipt(ctx context.Context, imageBase64 string) (ReceiptAnalysis, error) {
	return WithOverloadRetry(ctx, c.retryDelay, c.logRetry(pathAnalyzeReceipt), func(ctx context.Context) (ReceiptAnalysis, error) {
		var out ReceiptAnalysis
		err := c.post(ctx, pathAnalyzeReceipt, map[string]string{"image": imageBase64}, &out)
		return out, err
	})
}

// Chat sends the conversation so far and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return WithOverloadRetry(ctx, c.retryDelay, c.logRetry(pathNutritionChat), func(ctx context.Context) (string, error) {
		var out struct {
			Reply string `json:"reply"`
		}
		if err := c.post(ctx, pathNutritionChat, map[string][]Message{"messages": messages}, &out); err != nil {
			return "", err
		}
		return out.Reply, nil
	})
}

func (c *Client) logRetry(path string) func(error) {
	return func(err error) {
		c.logger.Warn("ai service overloaded, retrying once", "endpoint", path, "delay", c.retryDelay, "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	// Functions report failures as {"error": "..."}, sometimes with a 2xx status.
	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	if res.StatusCode < 200 || res.StatusCode > 299 || eb.Error != "" {
		msg := eb.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return &APIError{Status: res.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
