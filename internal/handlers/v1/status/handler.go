package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/finflow/finflow-server/internal/logging"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type StatusOutput struct {
	Body struct {
		Status string `json:"status" enum:"ok"`
	}
}

// Handler reports whether the server can reach its database.
type Handler struct {
	Storage pinger
}

func NewHandler(storage pinger) *Handler {
	return &Handler{Storage: storage}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Service status",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	if err := h.Storage.Ping(ctx); err != nil {
		logging.AddData(ctx, "error", err.Error())
		return nil, huma.NewError(http.StatusServiceUnavailable, "database unavailable")
	}
	out := &StatusOutput{}
	out.Body.Status = "ok"
	return out, nil
}
