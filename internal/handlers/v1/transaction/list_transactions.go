package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/logging"
	"github.com/finflow/finflow-server/internal/service"
)

// cursorTimeLayouts are tried in order. The second accepts timestamps without a zone, which
// are read as UTC.
var cursorTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

// ListTransactionsCursor is the position of the last item of a page.
type ListTransactionsCursor struct {
	CursorTime string `json:"cursor_time" doc:"created_at of the last item"`
	CursorID   int64  `json:"cursor_id" doc:"id of the last item"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	Caller
	Limit      int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Page size"`
	CursorTime string `query:"cursor_time" doc:"cursor_time from the previous page, requires cursor_id"`
	CursorID   int64  `query:"cursor_id" doc:"cursor_id from the previous page, requires cursor_time"`
	Start      string `query:"start" doc:"Free-form first day, inclusive"`
	End        string `query:"end" doc:"Free-form last day, inclusive"`
	CategoryID int64  `query:"category_id" doc:"Only transactions of this category"`
	Type       string `query:"type" default:"all" enum:"all,income,spending" doc:"Transaction type filter"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Items      []Transaction           `json:"items" doc:"Page of transactions, newest first"`
	NextCursor *ListTransactionsCursor `json:"next_cursor" doc:"Cursor to fetch the next page, null on the last page"`
	HasMore    bool                    `json:"has_more" doc:"Whether another page exists"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, userID int64, query service.ListQuery) (*service.TransactionPage, error)
}

// ListTransactionsHandler handles GET /v1/transaction.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transaction",
		Summary:     "List transactions",
		Description: "Returns the caller's transactions newest first using keyset pagination.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
// cursor_time and cursor_id must be given together.
func parseListTransactionsInput(input *ListTransactionsInput) (service.ListQuery, error) {
	query := service.ListQuery{
		Type:  service.TransactionType(input.Type),
		Start: input.Start,
		End:   input.End,
		Limit: input.Limit,
	}
	if input.CategoryID > 0 {
		query.CategoryID = &input.CategoryID
	}

	switch {
	case input.CursorTime == "" && input.CursorID == 0:
		return query, nil
	case input.CursorTime == "" || input.CursorID == 0:
		return service.ListQuery{}, huma.NewError(http.StatusUnprocessableEntity, "cursor_time and cursor_id must be provided together")
	}

	cursorTime, err := parseCursorTime(input.CursorTime)
	if err != nil {
		return service.ListQuery{}, huma.NewError(http.StatusUnprocessableEntity, "invalid cursor_time")
	}
	query.Cursor = &service.TransactionCursor{CreatedAt: cursorTime, ID: input.CursorID}
	return query, nil
}

func parseCursorTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range cursorTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	query, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	page, err := h.TransactionService.ListTransactions(ctx, input.UserID, query)
	if err != nil {
		return nil, serviceError(ctx, err, "failed to list transactions")
	}

	logging.AddData(ctx, "transactionCount", len(page.Items))

	resp := ListTransactionsResponseBody{
		Items:   make([]Transaction, len(page.Items)),
		HasMore: page.HasMore,
	}
	for i := range page.Items {
		resp.Items[i] = toTransaction(&page.Items[i])
	}
	if page.NextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			CursorTime: page.NextCursor.CreatedAt.Format(time.RFC3339Nano),
			CursorID:   page.NextCursor.ID,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
