package aggregate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/rates"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

var uahUsd = rates.Snapshot{"UAH": dec("1"), "USD": dec("40")}

func TestSummarize_UsdIntoUah(t *testing.T) {
	groups := []Group{
		{Category: "Food", Kind: Spending, Currency: currency.USD, Sum: dec("100")},
		{Category: "Salary", Kind: Income, Currency: currency.USD, Sum: dec("50")},
	}

	totals := Summarize(groups, uahUsd, currency.UAH)

	assertDecimal(t, "2000", totals.Income)
	assertDecimal(t, "4000", totals.Spending)
	assertDecimal(t, "-2000", totals.Balance)
	assert.Equal(t, currency.UAH, totals.Currency)
	require.Len(t, totals.Categories, 1, "income is not broken down")
	assertDecimal(t, "4000", totals.Categories["Food"])
}

func TestSummarize_MergesCurrenciesPerCategory(t *testing.T) {
	groups := []Group{
		{Category: "Food", Kind: Spending, Currency: currency.UAH, Sum: dec("120.50")},
		{Category: "Food", Kind: Spending, Currency: currency.USD, Sum: dec("2")},
		{Category: "Rent", Kind: Spending, Currency: currency.UAH, Sum: dec("8000")},
	}

	totals := Summarize(groups, uahUsd, currency.UAH)

	assertDecimal(t, "200.50", totals.Categories["Food"])
	assertDecimal(t, "8000", totals.Categories["Rent"])
	assertDecimal(t, "8200.50", totals.Spending)
	assertDecimal(t, "0", totals.Income)
}

func TestSummarize_RoundsOnceAtTheEnd(t *testing.T) {
	snapshot := rates.Snapshot{"UAH": dec("1"), "USD": dec("3")}
	groups := []Group{
		{Category: "A", Kind: Spending, Currency: currency.UAH, Sum: dec("1")},
		{Category: "B", Kind: Spending, Currency: currency.UAH, Sum: dec("1")},
	}

	totals := Summarize(groups, snapshot, currency.USD)

	assertDecimal(t, "0.33", totals.Categories["A"])
	assertDecimal(t, "0.67", totals.Spending, "2/3 rounded, not 0.33+0.33")
}

func TestSummarize_UnknownRateCountsAsOne(t *testing.T) {
	groups := []Group{{Category: "Trip", Kind: Spending, Currency: currency.CZK, Sum: dec("10")}}

	totals := Summarize(groups, uahUsd, currency.UAH)
	assertDecimal(t, "10", totals.Spending)
}

func TestSummarize_Empty(t *testing.T) {
	totals := Summarize(nil, uahUsd, currency.EUR)
	assertDecimal(t, "0", totals.Balance)
	assert.Empty(t, totals.Categories)
	assert.Equal(t, currency.EUR, totals.Currency)
}

func TestSummarize_CurrencyInvariantUpToRounding(t *testing.T) {
	snapshot := rates.Snapshot{"UAH": dec("1"), "USD": dec("41.2"), "EUR": dec("44.5"), "CZK": dec("1.77")}
	codes := []currency.Code{currency.UAH, currency.USD, currency.EUR, currency.CZK}
	rng := rand.New(rand.NewSource(7))
	tolerance := dec("0.01")

	for round := 0; round < 50; round++ {
		var groups []Group
		for i := 0; i < 1+rng.Intn(8); i++ {
			kind := Spending
			if rng.Intn(3) == 0 {
				kind = Income
			}
			groups = append(groups, Group{
				Category: []string{"Food", "Rent", "Fun"}[rng.Intn(3)],
				Kind:     kind,
				Currency: codes[rng.Intn(len(codes))],
				Sum:      decimal.New(int64(1+rng.Intn(1_000_000)), -2),
			})
		}

		// Converting a rounded figure into a currency worth more per unit never
		// magnifies its rounding error.
		for _, from := range codes {
			for _, to := range codes {
				if snapshot.RateOrOne(from).GreaterThan(snapshot.RateOrOne(to)) {
					continue
				}
				inFrom := Summarize(groups, snapshot, from)
				inTo := Summarize(groups, snapshot, to)

				converted := Convert(inFrom.Spending, from, to, snapshot)
				diff := converted.Sub(inTo.Spending).Abs()
				assert.True(t, diff.LessThanOrEqual(tolerance), "%s->%s spending off by %s", from, to, diff)

				converted = Convert(inFrom.Balance, from, to, snapshot)
				diff = converted.Sub(inTo.Balance).Abs()
				assert.True(t, diff.LessThanOrEqual(tolerance), "%s->%s balance off by %s", from, to, diff)
			}
		}
	}
}

func TestItemized_BreakdownAndOrder(t *testing.T) {
	day := time.Date(2025, time.March, 5, 18, 0, 0, 0, time.UTC)
	rows := []Row{
		{Name: "Salary", Category: "Work", Kind: Income, Currency: currency.USD, Price: dec("50"), CreatedAt: day},
		{Name: "Lunch", Category: "Food", Kind: Spending, Currency: currency.UAH, Price: dec("300"), CreatedAt: day},
		{Name: "Laptop", Category: "Work", Kind: Spending, Currency: currency.USD, Price: dec("100"), CreatedAt: day},
		{Name: "Refund", Category: "Food", Kind: Income, Currency: currency.UAH, Price: dec("20"), CreatedAt: day},
	}

	report := Itemized(rows, uahUsd, currency.UAH)

	assertDecimal(t, "2020", report.Income)
	assertDecimal(t, "4300", report.Spending)
	assertDecimal(t, "-2280", report.Balance)

	require.Len(t, report.Categories, 2)
	work := report.Categories[0]
	assert.Equal(t, "Work", work.Name, "largest spending first")
	assertDecimal(t, "2000", work.Income)
	assertDecimal(t, "4000", work.Spending)
	assertDecimal(t, "-2000", work.Total)
	require.Len(t, work.Items, 2)
	assert.Equal(t, Item{Name: "Salary", Amount: work.Items[0].Amount, Kind: Income, Date: "05.03.2025"}, work.Items[0])
	assertDecimal(t, "2000", work.Items[0].Amount)

	food := report.Categories[1]
	assertDecimal(t, "-280", food.Total)
}

func TestItemized_RoundsEachRow(t *testing.T) {
	snapshot := rates.Snapshot{"UAH": dec("1"), "USD": dec("3")}
	rows := []Row{
		{Name: "a", Category: "X", Kind: Spending, Currency: currency.UAH, Price: dec("1")},
		{Name: "b", Category: "X", Kind: Spending, Currency: currency.UAH, Price: dec("1")},
	}

	report := Itemized(rows, snapshot, currency.USD)
	assertDecimal(t, "0.66", report.Spending)
	assertDecimal(t, "0.33", report.Categories[0].Items[1].Amount)
}

func TestItemized_TiesOrderedByName(t *testing.T) {
	rows := []Row{
		{Name: "x", Category: "Zoo", Kind: Spending, Currency: currency.UAH, Price: dec("5")},
		{Name: "y", Category: "Art", Kind: Spending, Currency: currency.UAH, Price: dec("5")},
	}

	report := Itemized(rows, uahUsd, currency.UAH)
	assert.Equal(t, "Art", report.Categories[0].Name)
	assert.Equal(t, "Zoo", report.Categories[1].Name)
}
