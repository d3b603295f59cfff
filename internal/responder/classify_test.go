package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		category Category
	}{
		{"price keyword", "what is the spot price of gold?", CategoryPrice},
		{"cost keyword", "how much does gold cost", CategoryPrice},
		{"investment keyword", "should i put money into gold etfs", CategoryInvestment},
		{"purity keyword", "is 22 karat fine for jewelry", CategoryPurity},
		{"market keyword", "what factors drive the gold trend", CategoryMarket},
		{"greeting keyword", "hello there", CategoryGreeting},
		{"help keyword", "what can you do", CategoryHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, matched := Classify(tt.message)
			assert.True(t, matched)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	_, matched := Classify("tell me about mining regions in south africa")
	assert.False(t, matched)
}

func TestClassify_TieBreakPriceBeatsInvestment(t *testing.T) {
	// Matches both the price set ("price", "current") and the
	// investment set ("invest", "should i"); the first-listed
	// category must win.
	category, matched := Classify("should i invest at the current gold price?")
	assert.True(t, matched)
	assert.Equal(t, CategoryPrice, category)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	category, matched := Classify("WHAT IS THE GOLD PRICE")
	assert.True(t, matched)
	assert.Equal(t, CategoryPrice, category)
}
