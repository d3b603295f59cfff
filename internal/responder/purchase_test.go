package responder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCost_Bars(t *testing.T) {
	cost, err := EstimateCost("bars", 1, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 2060.00, cost, 0.001)
}

func TestEstimateCost_JewelryQuantityIsGrams(t *testing.T) {
	// 10 grams = 10/31.1035 oz, priced with the 30% jewelry premium
	cost, err := EstimateCost("jewelry", 10, 2000)
	require.NoError(t, err)
	assert.InDelta(t, (10/31.1035)*2000*1.30, cost, 0.01)
}

func TestEstimateCost_Coins(t *testing.T) {
	cost, err := EstimateCost("coins", 2, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 4200.00, cost, 0.001)
}

func TestEstimateCost_DigitalGold(t *testing.T) {
	cost, err := EstimateCost("digital_gold", 1, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 2050.00, cost, 0.001)
}

func TestEstimateCost_UnknownTypeUsesDefaultPremium(t *testing.T) {
	cost, err := EstimateCost("nuggets", 1, 2000)
	require.NoError(t, err)
	assert.InDelta(t, 2100.00, cost, 0.001)
}

func TestEstimateCost_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := EstimateCost("bars", 0, 2000)
	assert.Error(t, err)

	_, err = EstimateCost("bars", -1, 2000)
	assert.Error(t, err)
}

func TestRedirectURL(t *testing.T) {
	assert.Equal(t, "https://www.mmtc-pamp.com/", RedirectURL("bars"))
	assert.Equal(t, "https://www.tanishq.co.in/", RedirectURL("jewelry"))
	assert.Equal(t, "https://www.apmex.com/", RedirectURL("coins"))
	assert.Equal(t, "https://paytm.com/gold", RedirectURL("digital_gold"))
	// Unknown types fall back to the coins target
	assert.Equal(t, "https://www.apmex.com/", RedirectURL("nuggets"))
}

func TestQuantityUnit(t *testing.T) {
	assert.Equal(t, "grams", QuantityUnit("jewelry"))
	assert.Equal(t, "oz", QuantityUnit("bars"))
	assert.Equal(t, "oz", QuantityUnit("nuggets"))
}

func TestNewPurchaseID_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	id := NewPurchaseID("buyer@example.com", now)
	assert.True(t, strings.HasPrefix(id, "GOLD_20240301_093000_"))
	assert.Equal(t, id, NewPurchaseID("buyer@example.com", now))
	assert.NotEqual(t, id, NewPurchaseID("other@example.com", now))
}
