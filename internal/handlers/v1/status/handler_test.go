package status

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestHandler_Healthy(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(stubPinger{}).Register(api)

	resp := api.Get("/status")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestHandler_DatabaseDown(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(stubPinger{err: errors.New("dial tcp: connection refused")}).Register(api)

	resp := api.Get("/status")

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NotContains(t, resp.Body.String(), "connection refused")
}

func TestHandler_BadMethod(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(stubPinger{}).Register(api)

	resp := api.Post("/status")

	assert.NotEqual(t, http.StatusOK, resp.Code)
}
