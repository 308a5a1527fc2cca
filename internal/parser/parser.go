// Package parser maps free-form chat text to a known drink and preparation
// options. It is a deliberately simple keyword matcher, no NLP involved.
package parser

import (
	"errors"
	"strings"

	"github.com/example/spontan/internal/models"
)

// ErrUnrecognizedDrink is returned when no keyword matches the message.
var ErrUnrecognizedDrink = errors.New("could not identify a drink in the message")

type keyword struct {
	phrase string
	drink  string
}

// drinkKeywords is scanned in order and the first substring hit wins, so the
// order of this table is part of the contract.
var drinkKeywords = []keyword{
	{"cuba libre", "Cuba Libre"},
	{"mojito", "Mojito"},
	{"gin tonic", "Gin Tonic"},
	{"gin & tonic", "Gin Tonic"},
	{"whisky", "Whisky"},
	{"vodka", "Vodka"},
	{"bere", "Bere"},
	{"beer", "Bere"},
	{"vin", "Vin"},
	{"wine", "Vin"},
	{"martini", "Martini"},
	{"cosmopolitan", "Cosmopolitan"},
	{"margarita", "Margarita"},
}

// Intent is the parsed result of a chat message.
type Intent struct {
	Drink   string
	Options models.OrderOptions
}

// Parse extracts a drink and options from a message. It is a pure function:
// the same input always yields the same intent.
func Parse(message string) (Intent, error) {
	lower := strings.ToLower(message)

	var drink string
	for _, kw := range drinkKeywords {
		if strings.Contains(lower, kw.phrase) {
			drink = kw.drink
			break
		}
	}
	if drink == "" {
		return Intent{}, ErrUnrecognizedDrink
	}

	options := models.OrderOptions{
		Size: models.SizeMedium,
		Ice:  true,
	}

	if strings.Contains(lower, "mare") || strings.Contains(lower, "large") {
		options.Size = models.SizeLarge
	} else if strings.Contains(lower, "mic") || strings.Contains(lower, "small") {
		options.Size = models.SizeSmall
	}

	if strings.Contains(lower, "fără gheață") || strings.Contains(lower, "no ice") {
		options.Ice = false
	}

	if strings.Contains(lower, "tare") || strings.Contains(lower, "strong") {
		options.Strength = models.StrengthStrong
	} else if strings.Contains(lower, "slab") || strings.Contains(lower, "light") {
		options.Strength = models.StrengthLight
	}

	return Intent{Drink: drink, Options: options}, nil
}
