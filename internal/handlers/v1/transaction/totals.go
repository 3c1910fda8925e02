package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/aggregate"
	"github.com/finflow/finflow-server/internal/service"
)

type TotalsInput struct {
	Caller
	Start      string `query:"start" doc:"Free-form first day, defaults to the first day of the current month"`
	End        string `query:"end" doc:"Free-form last day, inclusive"`
	ToCurrency string `query:"to_currency" doc:"Target currency code or alias, defaults to UAH"`
	Itemized   bool   `query:"itemized" doc:"List every transaction under its category"`
}

type TotalsItem struct {
	Name            string `json:"name"`
	Amount          string `json:"amount" doc:"Amount in the target currency"`
	TransactionType string `json:"transaction_type" enum:"income,spending"`
	Date            string `json:"date" doc:"dd.mm.yyyy"`
}

type CategoryTotals struct {
	Name     string       `json:"name"`
	Total    string       `json:"total" doc:"Income minus spending"`
	Income   string       `json:"income"`
	Spending string       `json:"spending"`
	Items    []TotalsItem `json:"items"`
}

// TotalsBody carries categories as spending per category name, or as ordered breakdowns
// when itemized is requested.
type TotalsBody struct {
	Balance    string            `json:"balance"`
	Income     string            `json:"income"`
	Spending   string            `json:"spending"`
	Currency   string            `json:"currency"`
	Categories map[string]string `json:"categories" doc:"Spending per category, empty when nothing was spent"`
	Breakdown  []CategoryTotals  `json:"breakdown,omitempty" doc:"Itemized categories, largest spending first"`
}

type TotalsOutput struct {
	Body TotalsBody
}

type totalsCalculator interface {
	Totals(ctx context.Context, userID int64, query service.TotalsQuery) (*aggregate.Totals, error)
	ItemizedTotals(ctx context.Context, userID int64, query service.TotalsQuery) (*aggregate.ItemizedTotals, error)
}

// TotalsHandler handles GET /v1/transaction/total.
type TotalsHandler struct {
	TransactionService totalsCalculator
}

func NewTotalsHandler(svc totalsCalculator) *TotalsHandler {
	return &TotalsHandler{TransactionService: svc}
}

func (h *TotalsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transaction-totals",
		Method:      http.MethodGet,
		Path:        "/v1/transaction/total",
		Summary:     "Transaction totals",
		Description: "Sums the caller's income and spending in one currency.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *TotalsHandler) handle(ctx context.Context, input *TotalsInput) (*TotalsOutput, error) {
	query := service.TotalsQuery{Start: input.Start, End: input.End, Currency: input.ToCurrency}

	if input.Itemized {
		itemized, err := h.TransactionService.ItemizedTotals(ctx, input.UserID, query)
		if err != nil {
			return nil, serviceError(ctx, err, "failed to calculate totals")
		}
		return &TotalsOutput{Body: itemizedBody(itemized)}, nil
	}

	totals, err := h.TransactionService.Totals(ctx, input.UserID, query)
	if err != nil {
		return nil, serviceError(ctx, err, "failed to calculate totals")
	}
	body := TotalsBody{
		Balance:    totals.Balance.StringFixed(2),
		Income:     totals.Income.StringFixed(2),
		Spending:   totals.Spending.StringFixed(2),
		Currency:   totals.Currency.String(),
		Categories: make(map[string]string, len(totals.Categories)),
	}
	for name, sum := range totals.Categories {
		body.Categories[name] = sum.StringFixed(2)
	}
	return &TotalsOutput{Body: body}, nil
}

func itemizedBody(itemized *aggregate.ItemizedTotals) TotalsBody {
	body := TotalsBody{
		Balance:    itemized.Balance.StringFixed(2),
		Income:     itemized.Income.StringFixed(2),
		Spending:   itemized.Spending.StringFixed(2),
		Currency:   itemized.Currency.String(),
		Categories: make(map[string]string),
		Breakdown:  make([]CategoryTotals, len(itemized.Categories)),
	}
	for i, category := range itemized.Categories {
		if !category.Spending.IsZero() {
			body.Categories[category.Name] = category.Spending.StringFixed(2)
		}
		items := make([]TotalsItem, len(category.Items))
		for j, item := range category.Items {
			items[j] = TotalsItem{
				Name:            item.Name,
				Amount:          item.Amount.StringFixed(2),
				TransactionType: string(item.Kind),
				Date:            item.Date,
			}
		}
		body.Breakdown[i] = CategoryTotals{
			Name:     category.Name,
			Total:    category.Total.StringFixed(2),
			Income:   category.Income.StringFixed(2),
			Spending: category.Spending.StringFixed(2),
			Items:    items,
		}
	}
	return body
}
