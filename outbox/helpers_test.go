package outbox_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/caseflow/observability/logger"
	"github.com/rise-and-shine/caseflow/outbox"
)

func newLogger(t *testing.T) (logger.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func msg(id string) *outbox.Message {
	m := outbox.NewMessage("case.events", "key-"+id, []byte(id))
	m.ID = id
	return m
}

// memStore keeps messages in insertion order.
type memStore struct {
	mu        sync.Mutex
	msgs      []*outbox.Message
	reads     int
	readErr   error
	deleteErr error
}

func newMemStore(msgs ...*outbox.Message) *memStore {
	return &memStore{msgs: msgs}
}

func (s *memStore) FindOldestPending(context.Context) (*outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	if len(s.msgs) == 0 {
		return nil, nil
	}
	return s.msgs[0], nil
}

func (s *memStore) Delete(_ context.Context, m *outbox.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, stored := range s.msgs {
		if stored.ID == m.ID {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) add(m *outbox.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
}

func (s *memStore) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.msgs))
	for _, m := range s.msgs {
		ids = append(ids, m.ID)
	}
	return ids
}

func (s *memStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// recPublisher records published ids and fails for ids listed in failOn.
type recPublisher struct {
	mu        sync.Mutex
	published []string
	failOn    map[string]error

	// entered, when set, receives once per Publish call before it blocks on release.
	entered chan struct{}
	release chan struct{}
}

func (p *recPublisher) Publish(_ context.Context, m *outbox.Message) error {
	if p.entered != nil {
		p.entered <- struct{}{}
		<-p.release
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err, ok := p.failOn[m.ID]; ok {
		return err
	}
	p.published = append(p.published, m.ID)
	return nil
}

func (p *recPublisher) ids() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}
