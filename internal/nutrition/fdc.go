package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maticai/matic/internal/constants"
)

// Per100g holds nutrient values for 100 g of a reference food.
type Per100g struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodRecord is one database match.
type FoodRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Per100g Per100g `json:"per_100g"`
}

// Database searches a nutrition database. An empty result means no match.
type Database interface {
	Search(ctx context.Context, term string) ([]FoodRecord, error)
}

// FDCClient queries the USDA FoodData Central search API.
type FDCClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewFDCClient(baseURL, apiKey string) *FDCClient {
	if baseURL == "" {
		baseURL = constants.DefaultNutritionBaseURL
	}
	return &FDCClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type fdcSearchResponse struct {
	Foods []struct {
		FDCID         int    `json:"fdcId"`
		Description   string `json:"description"`
		FoodNutrients []struct {
			NutrientID int     `json:"nutrientId"`
			UnitName   string  `json:"unitName"`
			Value      float64 `json:"value"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

// Search returns at most the first match for term. Records without an
// energy value in kcal are skipped.
func (c *FDCClient) Search(ctx context.Context, term string) ([]FoodRecord, error) {
	q := url.Values{}
	q.Set("query", term)
	q.Set("pageSize", "1")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/foods/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching nutrition database: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("nutrition database returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload fdcSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	var records []FoodRecord
	for _, f := range payload.Foods {
		var n Per100g
		hasEnergy := false
		for _, fn := range f.FoodNutrients {
			unit := strings.ToUpper(fn.UnitName)
			switch {
			case fn.NutrientID == constants.NutrientIDEnergy && unit == constants.NutrientUnitKcal:
				n.Calories = fn.Value
				hasEnergy = true
			case fn.NutrientID == constants.NutrientIDProtein && unit == constants.NutrientUnitGram:
				n.Protein = fn.Value
			case fn.NutrientID == constants.NutrientIDCarbs && unit == constants.NutrientUnitGram:
				n.Carbs = fn.Value
			case fn.NutrientID == constants.NutrientIDFat && unit == constants.NutrientUnitGram:
				n.Fat = fn.Value
			}
		}
		if !hasEnergy {
			continue
		}
		records = append(records, FoodRecord{
			ID:      fmt.Sprintf("fdc_%d", f.FDCID),
			Name:    f.Description,
			Per100g: n,
		})
	}
	return records, nil
}
