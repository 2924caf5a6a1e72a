package simulator

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"WeekdaySentinel/internal/model"
	"WeekdaySentinel/internal/pairing"
)

// Simulator folds paired weeks through a buy-then-sell cycle.
type Simulator struct {
	Policy model.PricePolicy
}

// Default buys at the purchase day's high and sells at the sell day's low.
var Default = Simulator{Policy: model.DefaultPricePolicy}

// Simulate runs the default policy.
func Simulate(pairs map[int]model.WeeklyPair, startingBalance, taxRate float64) *model.SimulationReport {
	return Default.Simulate(pairs, startingBalance, taxRate)
}

// Simulate converts the whole balance into crypto on the purchase day and back
// to USD on the sell day of every complete week, in ascending week order.
// Tax is charged on both conversions. Incomplete weeks are skipped silently;
// weeks with a non-positive price are skipped with a diagnostic. Neither
// changes the balance.
func (s Simulator) Simulate(pairs map[int]model.WeeklyPair, startingBalance, taxRate float64) *model.SimulationReport {
	report := &model.SimulationReport{
		Weeks:           []model.WeekResult{},
		StartingBalance: startingBalance,
		FinalBalance:    startingBalance,
	}

	balance := startingBalance
	for _, week := range pairing.SortedWeeks(pairs) {
		pair := pairs[week]
		if !pair.Complete() {
			continue
		}

		purchasePrice := pair.Purchase.Price(s.Policy.Purchase)
		sellPrice := pair.Sell.Price(s.Policy.Sell)
		if err := checkPrices(purchasePrice, sellPrice); err != nil {
			log.Warn().Int("week", week).Err(err).Msg("skipping week")
			report.Diagnostics = append(report.Diagnostics, model.Diagnostic{
				TradingWeek: week,
				Reason:      "invalid price",
				Err:         err,
			})
			continue
		}

		quantity := (balance / purchasePrice) * (1 - taxRate)
		next := quantity * sellPrice * (1 - taxRate)

		outcome := model.OutcomeLoss
		if next > balance {
			outcome = model.OutcomeProfit
			report.ProfitWeeks++
		} else {
			report.LossWeeks++
		}

		report.Weeks = append(report.Weeks, model.WeekResult{
			TradingWeek: week,
			Result: model.WeeklyResult{
				PurchasePrice: purchasePrice,
				SellPrice:     sellPrice,
				TaxRate:       taxRate,
				Quantity:      quantity,
				Profit:        next - balance,
				Outcome:       outcome,
				BalanceBefore: balance,
				BalanceAfter:  next,
				PurchaseDate:  pair.Purchase.Date,
				SellDate:      pair.Sell.Date,
			},
		})
		balance = next
	}

	report.FinalBalance = balance
	return report
}

func checkPrices(purchase, sell float64) error {
	if !validPrice(purchase) {
		return fmt.Errorf("%w: purchase price %v", model.ErrInvalidPrice, purchase)
	}
	if !validPrice(sell) {
		return fmt.Errorf("%w: sell price %v", model.ErrInvalidPrice, sell)
	}
	return nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}
