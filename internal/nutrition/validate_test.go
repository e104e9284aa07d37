package nutrition

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestValidator_Check(t *testing.T) {
	v := NewValidator(DefaultThresholds(), nil)

	tests := []struct {
		name    string
		food    string
		values  Per100g
		wantErr bool
	}{
		{"plain food", "pizza", Per100g{Calories: 266, Protein: 11, Carbs: 33, Fat: 10}, false},
		{"negative", "pizza", Per100g{Calories: -1}, true},
		{"vegetable at limit", "Lechuga romana", Per100g{Calories: 100, Protein: 1, Carbs: 20, Fat: 1}, false},
		{"vegetable over limit", "lechuga", Per100g{Calories: 900}, true},
		{"plural vegetable", "zanahorias", Per100g{Calories: 300, Carbs: 70}, true},
		{"lean protein ok", "pechuga de pavo", Per100g{Calories: 135, Protein: 30, Carbs: 0, Fat: 1}, false},
		{"lean protein low", "atún", Per100g{Calories: 100, Protein: 5, Carbs: 0, Fat: 8}, true},
		{"lean protein carbs", "chicken", Per100g{Calories: 250, Protein: 20, Carbs: 12, Fat: 10}, true},
		{"chocolate is not cabbage", "chocolate", Per100g{Calories: 546, Protein: 5, Carbs: 61, Fat: 31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.food, tt.values)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrImplausible)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_MacroMismatchOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	v := NewValidator(DefaultThresholds(), log.New(&buf))

	err := v.Check("pizza", Per100g{Calories: 100, Protein: 20, Carbs: 20, Fat: 10})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "energy disagrees with macro arithmetic")
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.MacroTolerance = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.VegetableMaxKcal = 0
	assert.Error(t, bad.Validate())
}
