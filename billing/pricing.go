package billing

import (
	"fmt"
	"strconv"

	"github.com/fikiri/go-client/api"
)

type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Toggle flips the billing period. Purely local view state, switching it
// re-derives prices from the already-fetched tiers with no network refetch.
func (p Period) Toggle() Period {
	if p == Monthly {
		return Yearly
	}
	return Monthly
}

// PriceLabel derives the display price for a tier under the selected period,
// e.g. "$39/month" or "$351/year".
func PriceLabel(tier api.Tier, period Period) string {
	if period == Yearly {
		return fmt.Sprintf("$%s/year", formatAmount(tier.AnnualPrice))
	}
	return fmt.Sprintf("$%s/month", formatAmount(tier.MonthlyPrice))
}

// AnnualSavings is the yearly amount saved by paying annually, zero floored.
func AnnualSavings(tier api.Tier) float64 {
	savings := tier.MonthlyPrice*12 - tier.AnnualPrice
	if savings < 0 {
		return 0
	}
	return savings
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
