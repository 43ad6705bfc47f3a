package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
	"github.com/custodia-labs/pdfpanel/internal/logger"
)

// PostFunc posts one message across the isolation boundary.
type PostFunc func(msg domain.Message) error

// HandlerFunc receives every inbound message that is not a response.
type HandlerFunc func(msg domain.Message)

type callResult struct {
	body json.RawMessage
	err  error
}

// Channel is a correlated request/response protocol over a post primitive.
// Notifications are fire-and-forget; calls are matched to their response
// by a request id that starts at 1 and is never reused.
type Channel struct {
	post    PostFunc
	handler HandlerFunc

	mu      sync.Mutex
	lastID  int64
	pending map[int64]chan callResult
	closed  bool
}

// NewChannel creates a channel posting through post and delivering
// non-response messages to handler.
func NewChannel(post PostFunc, handler HandlerFunc) *Channel {
	return &Channel{
		post:    post,
		handler: handler,
		pending: make(map[int64]chan callResult),
	}
}

// Send posts a notification. Delivery is not acknowledged.
func (c *Channel) Send(msgType string, body any) error {
	msg, err := domain.NewMessage(msgType, body)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msgType, err)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.ErrChannelClosed
	}

	return c.post(msg)
}

// Call posts a request and waits for the response carrying the same id.
// It returns ctx.Err() if ctx ends first and domain.ErrChannelClosed if the
// channel is closed while waiting.
func (c *Channel) Call(ctx context.Context, msgType string, body any) (json.RawMessage, error) {
	call, err := c.Request(msgType, body)
	if err != nil {
		return nil, err
	}
	return call.Wait(ctx)
}

// PendingCall is a request that has been posted and awaits its response.
type PendingCall struct {
	channel *Channel
	id      int64
	done    chan callResult
}

// Request posts a request on the caller's goroutine and returns without
// waiting, so the request keeps its place among later sends.
func (c *Channel) Request(msgType string, body any) (*PendingCall, error) {
	msg, err := domain.NewMessage(msgType, body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrChannelClosed
	}
	c.lastID++
	call := &PendingCall{channel: c, id: c.lastID, done: make(chan callResult, 1)}
	c.pending[call.id] = call.done
	c.mu.Unlock()

	msg.RequestID = call.id
	if err := c.post(msg); err != nil {
		c.forget(call.id)
		return nil, fmt.Errorf("post %s: %w", msgType, err)
	}
	return call, nil
}

// ID returns the request id.
func (pc *PendingCall) ID() int64 {
	return pc.id
}

// Wait blocks until the response arrives, ctx ends or the channel closes.
func (pc *PendingCall) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case res := <-pc.done:
		return res.body, res.err
	case <-ctx.Done():
		pc.channel.forget(pc.id)
		return nil, ctx.Err()
	}
}

func (c *Channel) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Dispatch routes one raw inbound message. Responses resolve their pending
// call; everything else goes to the handler. Malformed messages and
// responses for unknown ids are dropped.
func (c *Channel) Dispatch(raw []byte) {
	var msg domain.Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type == "" {
		logger.Warn("channel: dropping message: %v", domain.ErrMalformedMessage)
		return
	}

	if msg.Type != domain.MessageResponse {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed || c.handler == nil {
			return
		}
		c.handler(msg)
		return
	}

	c.mu.Lock()
	done, ok := c.pending[msg.RequestID]
	if ok {
		delete(c.pending, msg.RequestID)
	}
	c.mu.Unlock()

	if !ok {
		logger.Debug("channel: %v: request %d", domain.ErrStaleResponse, msg.RequestID)
		return
	}
	done <- callResult{body: msg.Body}
}

// Pending returns the number of calls waiting for a response.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close fails every pending call with domain.ErrChannelClosed. Later sends
// and calls return the same error. Closing twice is a no-op.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	pending := c.pending
	c.pending = make(map[int64]chan callResult)
	c.mu.Unlock()

	for _, done := range pending {
		done <- callResult{err: domain.ErrChannelClosed}
	}
}
