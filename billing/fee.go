package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Billing policies. Flat charges every block at the same rate with no
// upper bound; DailyCap charges full 24h periods at the cap and bills the
// remainder in blocks, itself capped at one day's charge.
const (
	PolicyFlat     = "flat"
	PolicyDailyCap = "daily_cap"
)

const (
	blockMinutes = 15
	blockSeconds = blockMinutes * 60
	daySeconds   = 24 * 60 * 60
	blocksPerDay = daySeconds / blockSeconds
)

// Breakdown explains how a charge was produced. Duration fields are
// rounded to 2 decimals for display only; the fee itself is exact.
type Breakdown struct {
	EntryTime       time.Time       `json:"entry_time"`
	ExitTime        time.Time       `json:"exit_time"`
	DurationMinutes float64         `json:"duration_minutes"`
	DurationHours   float64         `json:"duration_hours"`
	Blocks          int64           `json:"fifteen_min_blocks"`
	DaysCharged     int64           `json:"days_charged,omitempty"`
	Fee             decimal.Decimal `json:"fee_amount"`
	Currency        string          `json:"currency"`
}

// Calculator prices a parking session. It is pure: identical timestamps
// always produce an identical fee.
type Calculator struct {
	policy    string
	blockRate decimal.Decimal
	dailyCap  decimal.Decimal
	currency  string
}

func NewCalculator(policy string, blockRate, dailyCap decimal.Decimal, currency string) *Calculator {
	return &Calculator{
		policy:    policy,
		blockRate: blockRate,
		dailyCap:  dailyCap,
		currency:  currency,
	}
}

// DefaultFlat is the flat-rate profile: 2.50 USD per 15-minute block.
func DefaultFlat() *Calculator {
	return NewCalculator(PolicyFlat, decimal.NewFromFloat(2.50), decimal.Zero, "USD")
}

// DefaultDailyCap is the capped profile: 2.00 EUR per block, 40.00 EUR per day.
func DefaultDailyCap() *Calculator {
	return NewCalculator(PolicyDailyCap, decimal.NewFromInt(2), decimal.NewFromInt(40), "EUR")
}

func (c *Calculator) Currency() string {
	return c.currency
}

// Quote computes the charge for a session. Rules:
//  1. billing unit is a 15-minute block, partial blocks round up
//  2. every ticket is charged at least one block
//  3. flat policy: blocks * rate; daily-cap policy: full days at the cap
//     plus the remainder in blocks, capped at one more day
//
// Exit times before the entry time are not guarded; the one-block floor
// keeps the result defined.
func (c *Calculator) Quote(entryTime, exitTime time.Time) (decimal.Decimal, *Breakdown) {
	durSeconds := int64(exitTime.Sub(entryTime) / time.Second)
	durationMinutes := float64(durSeconds) / 60
	durationHours := durationMinutes / 60

	var fee decimal.Decimal
	var blocks, days int64

	switch c.policy {
	case PolicyDailyCap:
		days = durSeconds / daySeconds
		remBlocks := ceilDiv(durSeconds%daySeconds, blockSeconds)
		if days == 0 && remBlocks < 1 {
			remBlocks = 1
		}
		blocks = days*blocksPerDay + remBlocks
		remFee := c.blockRate.Mul(decimal.NewFromInt(remBlocks))
		if remFee.GreaterThan(c.dailyCap) {
			remFee = c.dailyCap
		}
		fee = c.dailyCap.Mul(decimal.NewFromInt(days)).Add(remFee)
	default:
		blocks = ceilDiv(durSeconds, blockSeconds)
		if blocks < 1 {
			blocks = 1
		}
		fee = c.blockRate.Mul(decimal.NewFromInt(blocks))
	}

	breakdown := &Breakdown{
		EntryTime:       entryTime,
		ExitTime:        exitTime,
		DurationMinutes: round2(durationMinutes),
		DurationHours:   round2(durationHours),
		Blocks:          blocks,
		DaysCharged:     days,
		Fee:             fee,
		Currency:        c.currency,
	}
	return fee, breakdown
}

func ceilDiv(n, d int64) int64 {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
