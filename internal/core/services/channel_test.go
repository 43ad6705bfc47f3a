package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

// recordingPost captures posted messages.
type recordingPost struct {
	mu   sync.Mutex
	msgs []domain.Message
	sent chan domain.Message
	err  error
}

func newRecordingPost() *recordingPost {
	return &recordingPost{sent: make(chan domain.Message, 64)}
}

func (r *recordingPost) post(msg domain.Message) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	r.sent <- msg
	return nil
}

func (r *recordingPost) next(t *testing.T) domain.Message {
	t.Helper()
	select {
	case msg := <-r.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for posted message")
		return domain.Message{}
	}
}

func response(t *testing.T, id int64, body any) []byte {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	raw, err := json.Marshal(domain.Message{Type: domain.MessageResponse, RequestID: id, Body: data})
	require.NoError(t, err)
	return raw
}

func TestChannel_Send(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)

	require.NoError(t, ch.Send(domain.MessageNavigate, domain.NavigateRequest{Page: 3}))

	msg := rec.next(t)
	assert.Equal(t, domain.MessageNavigate, msg.Type)
	assert.Zero(t, msg.RequestID)
	assert.JSONEq(t, `{"page":3}`, string(msg.Body))
}

func TestChannel_CallIDsStartAtOneAndIncrease(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)

	for i := 1; i <= 3; i++ {
		go func() { _, _ = ch.Call(context.Background(), domain.MessageSave, nil) }()
		msg := rec.next(t)
		assert.Equal(t, int64(i), msg.RequestID)
		ch.Dispatch(response(t, msg.RequestID, nil))
	}
}

func TestChannel_OutOfOrderResponses(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)

	const calls = 5
	results := make([]string, calls)
	var wg sync.WaitGroup
	ids := make(map[int64]int)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, err := ch.Call(context.Background(), domain.MessageSave, i)
			if err != nil {
				return
			}
			var s string
			_ = json.Unmarshal(body, &s)
			results[i] = s
		}(i)
	}

	// Collect all requests, then answer them in reverse order.
	var msgs []domain.Message
	for i := 0; i < calls; i++ {
		msg := rec.next(t)
		var arg int
		require.NoError(t, msg.DecodeBody(&arg))
		ids[msg.RequestID] = arg
		msgs = append(msgs, msg)
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		id := msgs[i].RequestID
		ch.Dispatch(response(t, id, fmt.Sprintf("answer-%d", ids[id])))
	}
	wg.Wait()

	for i := 0; i < calls; i++ {
		assert.Equal(t, fmt.Sprintf("answer-%d", i), results[i])
	}
	assert.Zero(t, ch.Pending())
}

func TestChannel_UnknownResponseIgnored(t *testing.T) {
	rec := newRecordingPost()
	var handled []domain.Message
	ch := NewChannel(rec.post, func(msg domain.Message) { handled = append(handled, msg) })

	assert.NotPanics(t, func() { ch.Dispatch(response(t, 42, "late")) })
	assert.Empty(t, handled)
}

func TestChannel_MalformedIgnored(t *testing.T) {
	var handled int
	ch := NewChannel(newRecordingPost().post, func(domain.Message) { handled++ })

	ch.Dispatch([]byte("not json"))
	ch.Dispatch([]byte(`{"body":1}`))

	assert.Zero(t, handled)
}

func TestChannel_NonResponseGoesToHandler(t *testing.T) {
	var handled []string
	ch := NewChannel(newRecordingPost().post, func(msg domain.Message) { handled = append(handled, msg.Type) })

	ch.Dispatch([]byte(`{"type":"ready"}`))
	ch.Dispatch([]byte(`{"type":"status","body":{"scrollMode":"page"}}`))

	assert.Equal(t, []string{domain.MessageReady, domain.MessageStatus}, handled)
}

func TestChannel_CallCanceled(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := ch.Call(ctx, domain.MessageSave, nil)
		errCh <- err
	}()
	msg := rec.next(t)
	cancel()

	require.ErrorIs(t, <-errCh, context.Canceled)
	assert.Zero(t, ch.Pending())

	// A late response for the canceled call is dropped.
	assert.NotPanics(t, func() { ch.Dispatch(response(t, msg.RequestID, nil)) })
}

func TestChannel_CloseFailsPending(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := ch.Call(context.Background(), domain.MessageOpen, nil)
		errCh <- err
	}()
	rec.next(t)
	ch.Close()
	ch.Close()

	require.ErrorIs(t, <-errCh, domain.ErrChannelClosed)
	assert.ErrorIs(t, ch.Send(domain.MessageReload, nil), domain.ErrChannelClosed)
	_, err := ch.Call(context.Background(), domain.MessageSave, nil)
	assert.ErrorIs(t, err, domain.ErrChannelClosed)
}

func TestChannel_PostFailure(t *testing.T) {
	rec := newRecordingPost()
	rec.err = errors.New("boom")
	ch := NewChannel(rec.post, nil)

	_, err := ch.Call(context.Background(), domain.MessageSave, nil)
	require.Error(t, err)
	assert.Zero(t, ch.Pending())
}

func TestChannel_RequestPostsBeforeReturning(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)

	call, err := ch.Request(domain.MessageOpen, domain.OpenRequest{})
	require.NoError(t, err)
	require.NoError(t, ch.Send(domain.MessageStatus, struct{}{}))

	rec.mu.Lock()
	msgs := append([]domain.Message(nil), rec.msgs...)
	rec.mu.Unlock()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.MessageOpen, msgs[0].Type)
	assert.Equal(t, call.ID(), msgs[0].RequestID)
	assert.Equal(t, domain.MessageStatus, msgs[1].Type)

	ch.Dispatch(response(t, call.ID(), map[string]int{"page": 2}))
	body, err := call.Wait(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":2}`, string(body))
}

func TestChannel_RequestAfterClose(t *testing.T) {
	rec := newRecordingPost()
	ch := NewChannel(rec.post, nil)
	ch.Close()

	_, err := ch.Request(domain.MessageOpen, nil)
	assert.ErrorIs(t, err, domain.ErrChannelClosed)
}
