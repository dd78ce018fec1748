package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/expensio/internal/models"
)

const rollingWindow = 30 * 24 * time.Hour

// MonthBucket is one bar of the monthly spending series
type MonthBucket struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// Summary is the full set of derived figures for a dashboard
type Summary struct {
	Total          float64                     `json:"total"`
	Remaining      float64                     `json:"remaining"`
	AvgDaily30     float64                     `json:"avg_daily_30"`
	CategoryTotals map[models.Category]float64 `json:"category_totals"`
	MonthlySeries  []MonthBucket               `json:"monthly_series"`
	BudgetPercent  float64                     `json:"budget_percent"`
}

// Compute derives all summary figures from an owner-scoped expense
// collection and a budget. It is a pure function of its inputs and is
// safe to recompute on every change.
func Compute(expenses []models.Expense, budget float64, now time.Time) Summary {
	return Summary{
		Total:          total(expenses),
		Remaining:      remaining(expenses, budget),
		AvgDaily30:     avgDaily30(expenses, now),
		CategoryTotals: categoryTotals(expenses),
		MonthlySeries:  monthlySeries(expenses),
		BudgetPercent:  budgetPercent(expenses, budget),
	}
}

func total(expenses []models.Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// remaining never goes negative; overspend clamps to zero
func remaining(expenses []models.Expense, budget float64) float64 {
	if left := budget - total(expenses); left > 0 {
		return left
	}
	return 0
}

// avgDaily30 averages the last 30 days of spending over a fixed 30-day
// divisor, rounded to two decimals
func avgDaily30(expenses []models.Expense, now time.Time) float64 {
	if len(expenses) == 0 {
		return 0
	}

	var sum float64
	for _, e := range expenses {
		if now.Sub(e.Date) <= rollingWindow {
			sum += e.Amount
		}
	}
	return math.Round(sum/30*100) / 100
}

// categoryTotals always carries every known category, zero-filled.
// Unknown category values fold into Other rather than being dropped.
func categoryTotals(expenses []models.Expense) map[models.Category]float64 {
	totals := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		totals[c] = 0
	}
	for _, e := range expenses {
		if _, known := totals[e.Category]; known {
			totals[e.Category] += e.Amount
		} else {
			totals[models.CategoryOther] += e.Amount
		}
	}
	return totals
}

// monthlySeries buckets amounts by calendar month and sorts the buckets
// by the first-of-month date. Sorting the "Jan 2006" labels as text
// would misorder across year boundaries.
func monthlySeries(expenses []models.Expense) []MonthBucket {
	grouped := make(map[time.Time]float64)
	for _, e := range expenses {
		month := time.Date(e.Date.Year(), e.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		grouped[month] += e.Amount
	}

	months := make([]time.Time, 0, len(grouped))
	for month := range grouped {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	series := make([]MonthBucket, 0, len(months))
	for _, month := range months {
		series = append(series, MonthBucket{
			Label: month.Format("Jan 2006"),
			Total: grouped[month],
		})
	}
	return series
}

// budgetPercent caps at 100 and avoids dividing by a zero budget
func budgetPercent(expenses []models.Expense, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	percent := total(expenses) / budget * 100
	if percent > 100 {
		return 100
	}
	return percent
}
