package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, SetupLogging("debug").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("chatty").Level)
}

func TestLogData_CollectsFields(t *testing.T) {
	var out bytes.Buffer
	logger := SetupLogging("info")
	logger.Out = &out

	logData := NewLogData(logger)
	logData.AddData("userID", 7)
	stop := logData.AddTiming("rates")
	stop()
	logData.Log().Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "info", line["loglevel"])
	assert.EqualValues(t, 7, line["userID"])
	assert.Contains(t, line, "rates")
}

func TestContextHelpers_WithoutLogData(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetLogData(ctx))

	// Must not panic outside a request.
	StartTiming(ctx, "noop")()
	AddData(ctx, "key", "value")
}

func TestStartTiming_AccumulatesRepeatedStages(t *testing.T) {
	logData := NewLogData(SetupLogging("info"))
	ctx := WithLogData(context.Background(), logData)

	for i := 0; i < 2; i++ {
		stop := StartTiming(ctx, "operatorDuration")
		time.Sleep(5 * time.Millisecond)
		stop()
	}

	assert.GreaterOrEqual(t, logData.timeItems["operatorDuration"], int64(10))
}

type pingOutput struct {
	Body struct {
		HasLogData bool `json:"hasLogData"`
	}
}

func TestMiddleware_AttachesLogDataAndRequestID(t *testing.T) {
	var out bytes.Buffer
	logger := SetupLogging("info")
	logger.Out = &out

	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(logger))
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		AddData(ctx, "seen", true)
		resp := &pingOutput{}
		resp.Body.HasLogData = GetLogData(ctx) != nil
		return resp, nil
	})

	resp := api.Get("/ping")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"hasLogData":true`)
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
	assert.Contains(t, out.String(), "Handler.ping.Complete")
	assert.Contains(t, out.String(), `"seen":true`)
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	logger := SetupLogging("error")

	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(logger))
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, nil
	})

	resp := api.Get("/ping", "X-Request-ID: abc-123")
	assert.Equal(t, "abc-123", resp.Header().Get("X-Request-ID"))
}
