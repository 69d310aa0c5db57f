package mail

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

func TestWelcomeMessage(t *testing.T) {
	m := Welcome("user-service", "a@x.com", "Ann")
	assert.Equal(t, "a@x.com", m.To)
	assert.Equal(t, "Welcome to user-service!", m.Subject)
	assert.Contains(t, m.Body, "Ann")
}

func TestOutboxDeliversAsync(t *testing.T) {
	s := &recordingSender{}
	o := NewOutbox(s, zap.NewNop(), 8)

	o.Enqueue(Welcome("svc", "a@x.com", "Ann"))
	o.Enqueue(Welcome("svc", "b@x.com", "Bob"))
	o.Close() // 等队列清空

	require.Len(t, s.sent, 2)
	assert.Equal(t, "a@x.com", s.sent[0].To)
	assert.Equal(t, "b@x.com", s.sent[1].To)
}

func TestOutboxSendFailureIsSwallowed(t *testing.T) {
	s := &recordingSender{err: errors.New("smtp down")}
	o := NewOutbox(s, zap.NewNop(), 8)

	// 失败只记日志，Enqueue/Close 都不报错
	o.Enqueue(Welcome("svc", "a@x.com", "Ann"))
	o.Close()

	assert.Empty(t, s.sent)
}

func TestOutboxCloseIdempotent(t *testing.T) {
	o := NewOutbox(&recordingSender{}, zap.NewNop(), 1)
	o.Close()
	o.Close()
}
