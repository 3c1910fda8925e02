package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finflow/finflow-server/internal/currency"
	"github.com/finflow/finflow-server/internal/rates"
)

const places = 2

type Kind string

const (
	Income   Kind = "income"
	Spending Kind = "spending"
)

// Group is the stored sum of one (category, kind, currency) combination.
type Group struct {
	Category string
	Kind     Kind
	Currency currency.Code
	Sum      decimal.Decimal
}

// Row is one stored transaction as seen by the itemized report.
type Row struct {
	Name      string
	Category  string
	Kind      Kind
	Currency  currency.Code
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Totals is the report figures in Currency. Categories holds spending only.
type Totals struct {
	Balance    decimal.Decimal
	Income     decimal.Decimal
	Spending   decimal.Decimal
	Currency   currency.Code
	Categories map[string]decimal.Decimal
}

type Item struct {
	Name   string
	Amount decimal.Decimal
	Kind   Kind
	Date   string
}

type CategoryBreakdown struct {
	Name     string
	Total    decimal.Decimal
	Income   decimal.Decimal
	Spending decimal.Decimal
	Items    []Item
}

// ItemizedTotals is the report with every converted line, categories ordered by
// spending, largest first.
type ItemizedTotals struct {
	Balance    decimal.Decimal
	Income     decimal.Decimal
	Spending   decimal.Decimal
	Currency   currency.Code
	Categories []CategoryBreakdown
}

// Convert expresses amount in from as an amount in to, at full precision.
func Convert(amount decimal.Decimal, from, to currency.Code, snapshot rates.Snapshot) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(snapshot.RateOrOne(from)).Div(snapshot.RateOrOne(to))
}

// Summarize converts grouped sums into target. Rounding happens once, on the final figures.
func Summarize(groups []Group, snapshot rates.Snapshot, target currency.Code) Totals {
	income := decimal.Zero
	spending := decimal.Zero
	categories := make(map[string]decimal.Decimal)

	for _, group := range groups {
		converted := Convert(group.Sum, group.Currency, target, snapshot)
		switch group.Kind {
		case Income:
			income = income.Add(converted)
		default:
			spending = spending.Add(converted)
			categories[group.Category] = categories[group.Category].Add(converted)
		}
	}

	for name, sum := range categories {
		categories[name] = sum.Round(places)
	}

	return Totals{
		Balance:    income.Sub(spending).Round(places),
		Income:     income.Round(places),
		Spending:   spending.Round(places),
		Currency:   target,
		Categories: categories,
	}
}

// Itemized converts and rounds every row on its own, then sums the rounded amounts.
func Itemized(rows []Row, snapshot rates.Snapshot, target currency.Code) ItemizedTotals {
	income := decimal.Zero
	spending := decimal.Zero
	byName := make(map[string]*CategoryBreakdown)
	var order []*CategoryBreakdown

	for _, row := range rows {
		converted := Convert(row.Price, row.Currency, target, snapshot).Round(places)

		category, ok := byName[row.Category]
		if !ok {
			category = &CategoryBreakdown{Name: row.Category, Income: decimal.Zero, Spending: decimal.Zero}
			byName[row.Category] = category
			order = append(order, category)
		}

		if row.Kind == Income {
			income = income.Add(converted)
			category.Income = category.Income.Add(converted)
		} else {
			spending = spending.Add(converted)
			category.Spending = category.Spending.Add(converted)
		}

		category.Items = append(category.Items, Item{
			Name:   row.Name,
			Amount: converted,
			Kind:   row.Kind,
			Date:   row.CreatedAt.Format("02.01.2006"),
		})
	}

	sort.SliceStable(order, func(i, j int) bool {
		if cmp := order[i].Spending.Cmp(order[j].Spending); cmp != 0 {
			return cmp > 0
		}
		return order[i].Name < order[j].Name
	})

	categories := make([]CategoryBreakdown, len(order))
	for i, category := range order {
		category.Total = category.Income.Sub(category.Spending)
		categories[i] = *category
	}

	return ItemizedTotals{
		Balance:    income.Sub(spending),
		Income:     income,
		Spending:   spending,
		Currency:   target,
		Categories: categories,
	}
}
