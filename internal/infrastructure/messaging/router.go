// Package messaging routes comet protocol messages to the use cases and
// carries them over native-messaging stdio frames.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/comet/internal/logging"
)

var (
	// ErrUnknownAction is reported when no handler is registered for an action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrMalformedMessage is returned for bytes that are not a JSON object.
	ErrMalformedMessage = errors.New("malformed message")
)

// Envelope is the part of every message the router reads itself.
type Envelope struct {
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
}

// MessageHandler handles one action. payload is the whole message object.
// A returned error is reported to the sender as {"error": "..."}.
type MessageHandler interface {
	Handle(ctx context.Context, payload json.RawMessage) (any, error)
}

// MessageHandlerFunc adapts a function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Handle calls f(ctx, payload).
func (f MessageHandlerFunc) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	return f(ctx, payload)
}

// Observer is told about every routed message.
type Observer func(action string, err error)

// MessageRouter dispatches protocol messages to registered handlers.
type MessageRouter struct {
	mu       sync.RWMutex
	handlers map[string]MessageHandler
	observer Observer
}

// NewMessageRouter creates an empty router.
func NewMessageRouter() *MessageRouter {
	return &MessageRouter{handlers: make(map[string]MessageHandler)}
}

// SetObserver installs fn to be called after each dispatch.
func (r *MessageRouter) SetObserver(fn Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// RegisterHandler registers a handler for an action.
func (r *MessageRouter) RegisterHandler(action string, handler MessageHandler) error {
	if action == "" {
		return errors.New("message action cannot be empty")
	}
	if handler == nil {
		return errors.New("message handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = handler
	return nil
}

// Actions returns the registered actions, sorted.
func (r *MessageRouter) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]string, 0, len(r.handlers))
	for a := range r.handlers {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

func (r *MessageRouter) getHandler(action string) (MessageHandler, Observer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[action]
	return h, r.observer, ok
}

// Dispatch routes one raw message and returns the JSON response. Unknown
// actions and handler errors become {"error": "..."} responses; only a
// malformed envelope or an unencodable response is returned as an error.
// A requestId on the request is echoed on object responses.
func (r *MessageRouter) Dispatch(ctx context.Context, raw []byte) ([]byte, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	ctx = logging.WithRequestID(ctx, env.RequestID)
	log := logging.FromContext(ctx).With().Str("component", "message-router").Logger()

	handler, observe, ok := r.getHandler(env.Action)
	if !ok {
		log.Warn().Str("action", env.Action).Msg("no handler registered for action")
		if observe != nil {
			observe(env.Action, ErrUnknownAction)
		}
		return encode(env.RequestID, ErrorResponse{Error: ErrUnknownAction.Error()})
	}

	log.Debug().Str("action", env.Action).Int("payload_len", len(raw)).Msg("received message")

	resp, err := handler.Handle(ctx, raw)
	if observe != nil {
		observe(env.Action, err)
	}
	if err != nil {
		log.Error().Err(err).Str("action", env.Action).Msg("message handler returned error")
		return encode(env.RequestID, ErrorResponse{Error: err.Error()})
	}
	return encode(env.RequestID, resp)
}

// Send marshals request, dispatches it, and decodes the reply into response.
// It is the in-process equivalent of a runtime message round trip.
func (r *MessageRouter) Send(ctx context.Context, request any, response any) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	out, err := r.Dispatch(ctx, raw)
	if err != nil {
		return err
	}
	if response == nil {
		return nil
	}
	if err := json.Unmarshal(out, response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func encode(requestID string, resp any) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	if requestID == "" || len(data) == 0 || data[0] != '{' {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return data, nil
	}
	id, err := json.Marshal(requestID)
	if err != nil {
		return data, nil
	}
	obj["requestId"] = id
	return json.Marshal(obj)
}
