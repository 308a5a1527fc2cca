package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/spontan/internal/models"
)

func TestParse_DrinkWithOptions(t *testing.T) {
	intent, err := Parse("Aș dori un mojito mare fără gheață")

	require.NoError(t, err)
	assert.Equal(t, "Mojito", intent.Drink)
	assert.Equal(t, models.SizeLarge, intent.Options.Size)
	assert.False(t, intent.Options.Ice)
	assert.Empty(t, intent.Options.Strength)
}

func TestParse_Defaults(t *testing.T) {
	intent, err := Parse("un mojito")

	require.NoError(t, err)
	assert.Equal(t, "Mojito", intent.Drink)
	assert.Equal(t, models.SizeMedium, intent.Options.Size)
	assert.True(t, intent.Options.Ice)
	assert.Empty(t, intent.Options.Strength)
}

func TestParse_UnrecognizedDrink(t *testing.T) {
	_, err := Parse("ceva nedefinit")

	require.ErrorIs(t, err, ErrUnrecognizedDrink)
}

func TestParse_KeywordOrderWins(t *testing.T) {
	// "cuba libre" precedes "mojito" in the keyword table, so it wins no
	// matter where either phrase sits in the text.
	intent, err := Parse("un mojito sau poate un cuba libre")

	require.NoError(t, err)
	assert.Equal(t, "Cuba Libre", intent.Drink)
}

func TestParse_BilingualKeywords(t *testing.T) {
	tests := []struct {
		message string
		drink   string
	}{
		{"o bere rece", "Bere"},
		{"a cold beer please", "Bere"},
		{"un pahar de vin", "Vin"},
		{"glass of wine", "Vin"},
		{"gin tonic cu lamaie", "Gin Tonic"},
		{"gin & tonic", "Gin Tonic"},
	}

	for _, tt := range tests {
		intent, err := Parse(tt.message)
		require.NoError(t, err, "message %q", tt.message)
		assert.Equal(t, tt.drink, intent.Drink, "message %q", tt.message)
	}
}

func TestParse_SizeAndStrength(t *testing.T) {
	tests := []struct {
		message  string
		size     string
		strength string
	}{
		{"vodka mica", models.SizeSmall, ""},
		{"small whisky", models.SizeSmall, ""},
		{"whisky tare", models.SizeMedium, models.StrengthStrong},
		{"a strong margarita", models.SizeMedium, models.StrengthStrong},
		{"martini slab", models.SizeMedium, models.StrengthLight},
	}

	for _, tt := range tests {
		intent, err := Parse(tt.message)
		require.NoError(t, err, "message %q", tt.message)
		assert.Equal(t, tt.size, intent.Options.Size, "message %q", tt.message)
		assert.Equal(t, tt.strength, intent.Options.Strength, "message %q", tt.message)
	}
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse("Cosmopolitan mare tare")
	require.NoError(t, err)

	second, err := Parse("Cosmopolitan mare tare")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
