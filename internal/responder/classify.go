package responder

import (
	"strings"
)

// Category is one of the closed set of message classes handled by a
// rule-based template.
type Category int

const (
	CategoryPrice Category = iota
	CategoryInvestment
	CategoryPurity
	CategoryMarket
	CategoryGreeting
	CategoryHelp
)

func (c Category) String() string {
	switch c {
	case CategoryPrice:
		return "price"
	case CategoryInvestment:
		return "investment"
	case CategoryPurity:
		return "purity"
	case CategoryMarket:
		return "market"
	case CategoryGreeting:
		return "greeting"
	case CategoryHelp:
		return "help"
	default:
		return "unknown"
	}
}

// categoryRules is the ordered match list. Earlier entries win ties:
// a message matching both a price and an investment keyword routes to
// the price template.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryPrice, []string{"price", "cost", "current", "spot", "value", "how much"}},
	{CategoryInvestment, []string{"invest", "buy", "purchase", "investment", "should i"}},
	{CategoryPurity, []string{"purity", "karat", "quality", "hallmark"}},
	{CategoryMarket, []string{"factors", "why", "market", "trend", "analysis"}},
	{CategoryGreeting, []string{"hello", "hi", "hey", "greetings"}},
	{CategoryHelp, []string{"help", "what can you do", "options"}},
}

// Classify tests the lower-cased message against the rule table in
// priority order and reports the first matching category.
func Classify(message string) (Category, bool) {
	lower := strings.ToLower(message)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category, true
			}
		}
	}
	return 0, false
}
