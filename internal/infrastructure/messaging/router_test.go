package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/logging"
)

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func echoHandler() messaging.MessageHandlerFunc {
	return func(_ context.Context, payload json.RawMessage) (any, error) {
		return map[string]any{"echo": json.RawMessage(payload)}, nil
	}
}

func TestMessageRouter_RegisterHandlerValidation(t *testing.T) {
	r := messaging.NewMessageRouter()

	require.Error(t, r.RegisterHandler("", echoHandler()))
	require.Error(t, r.RegisterHandler("x", nil))
	require.NoError(t, r.RegisterHandler("b", echoHandler()))
	require.NoError(t, r.RegisterHandler("a", echoHandler()))

	assert.Equal(t, []string{"a", "b"}, r.Actions())
}

func TestMessageRouter_Dispatch(t *testing.T) {
	r := messaging.NewMessageRouter()
	require.NoError(t, r.RegisterHandler("ping", messaging.MessageHandlerFunc(
		func(context.Context, json.RawMessage) (any, error) {
			return map[string]bool{"pong": true}, nil
		})))
	require.NoError(t, r.RegisterHandler("fail", messaging.MessageHandlerFunc(
		func(context.Context, json.RawMessage) (any, error) {
			return nil, errors.New("boom")
		})))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ok", in: `{"action":"ping"}`, want: `{"pong":true}`},
		{name: "echoes request id", in: `{"action":"ping","requestId":"r1"}`, want: `{"pong":true,"requestId":"r1"}`},
		{name: "unknown action", in: `{"action":"nope"}`, want: `{"error":"unknown action"}`},
		{name: "missing action", in: `{}`, want: `{"error":"unknown action"}`},
		{name: "handler error", in: `{"action":"fail","requestId":"r2"}`, want: `{"error":"boom","requestId":"r2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Dispatch(testCtx(), []byte(tt.in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestMessageRouter_DispatchMalformed(t *testing.T) {
	r := messaging.NewMessageRouter()

	_, err := r.Dispatch(testCtx(), []byte(`not json`))
	require.ErrorIs(t, err, messaging.ErrMalformedMessage)

	_, err = r.Dispatch(testCtx(), []byte(`["action"]`))
	require.ErrorIs(t, err, messaging.ErrMalformedMessage)
}

func TestMessageRouter_Observer(t *testing.T) {
	r := messaging.NewMessageRouter()
	require.NoError(t, r.RegisterHandler("ping", echoHandler()))

	var seen []string
	r.SetObserver(func(action string, err error) {
		if err != nil {
			action += ":" + err.Error()
		}
		seen = append(seen, action)
	})

	_, _ = r.Dispatch(testCtx(), []byte(`{"action":"ping"}`))
	_, _ = r.Dispatch(testCtx(), []byte(`{"action":"other"}`))

	assert.Equal(t, []string{"ping", "other:unknown action"}, seen)
}

func TestMessageRouter_Send(t *testing.T) {
	r := messaging.NewMessageRouter()
	require.NoError(t, r.RegisterHandler("ping", messaging.MessageHandlerFunc(
		func(_ context.Context, payload json.RawMessage) (any, error) {
			req, err := messaging.ParsePayload[struct {
				N int `json:"n"`
			}](payload)
			if err != nil {
				return nil, err
			}
			return map[string]int{"n": req.N * 2}, nil
		})))

	var resp struct {
		N int `json:"n"`
	}
	require.NoError(t, r.Send(testCtx(), map[string]any{"action": "ping", "n": 21}, &resp))
	assert.Equal(t, 42, resp.N)
}
