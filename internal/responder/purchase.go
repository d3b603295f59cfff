package responder

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// Premium percentages per gold type. Unknown types pay the coin premium.
var premiums = map[string]float64{
	"coins":        0.05,
	"bars":         0.03,
	"jewelry":      0.30,
	"digital_gold": 0.025,
}

const defaultPremium = 0.05

// Redirect targets per gold type. Unknown types go to the coin dealer.
var platforms = map[string]string{
	"jewelry":      "https://www.tanishq.co.in/",
	"bars":         "https://www.mmtc-pamp.com/",
	"coins":        "https://www.apmex.com/",
	"digital_gold": "https://paytm.com/gold",
}

const gramsPerTroyOunce = 31.1035

// EstimateCost prices a purchase request against the current spot price.
// Jewelry quantity is in grams and converted to troy ounces; every other
// type is priced directly in ounces.
func EstimateCost(goldType string, quantity, currentPrice float64) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive")
	}

	premium, ok := premiums[goldType]
	if !ok {
		premium = defaultPremium
	}

	quantityOz := quantity
	if goldType == "jewelry" {
		quantityOz = quantity / gramsPerTroyOunce
	}

	cost := quantityOz * currentPrice * (1 + premium)
	return math.Round(cost*100) / 100, nil
}

// RedirectURL returns the purchase platform for a gold type.
func RedirectURL(goldType string) string {
	if url, ok := platforms[goldType]; ok {
		return url
	}
	return platforms["coins"]
}

// QuantityUnit names the unit the quantity is expressed in for a type.
func QuantityUnit(goldType string) string {
	if goldType == "jewelry" {
		return "grams"
	}
	return "oz"
}

// NewPurchaseID derives a purchase identifier from the request time and
// the buyer's email.
func NewPurchaseID(email string, now time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(email))
	return fmt.Sprintf("GOLD_%s_%d", now.Format("20060102_150405"), h.Sum32()%10000)
}
