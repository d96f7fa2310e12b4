package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
	err     error
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return p.err
}

func (p *capturePublisher) Batches() [][]AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]AggregatedLogEntry(nil), p.batches...)
}

func TestCollectorFoldsRepeats(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, Topic: "logs", Publisher: pub})

	fields := map[string]interface{}{"symbol": "TSLA", "error": "status 500"}
	c.AddLog("error", "symbol fetch failed", fields, "/internal/usecase/orchestrator.go:98")
	c.AddLog("error", "symbol fetch failed", map[string]interface{}{"error": "status 500", "symbol": "TSLA"}, "/internal/usecase/orchestrator.go:98")
	c.AddLog("error", "symbol fetch failed", map[string]interface{}{"symbol": "AAPL"}, "/internal/usecase/orchestrator.go:98")
	assert.Equal(t, 2, c.Pending())

	c.Close()

	batches := pub.Batches()
	require.Len(t, batches, 1)
	assert.Equal(t, "logs", pub.topic)
	require.Len(t, batches[0], 2)

	counts := map[string]int{}
	for _, e := range batches[0] {
		counts[e.Fields["symbol"].(string)] = e.Count
	}
	assert.Equal(t, map[string]int{"TSLA": 2, "AAPL": 1}, counts)
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Publisher: pub})
	defer c.Close()

	c.AddLog("error", "a", nil, "x.go:1")
	assert.Equal(t, 1, c.Pending())
	c.AddLog("error", "b", nil, "x.go:2")
	assert.Zero(t, c.Pending())

	require.Eventually(t, func() bool { return len(pub.Batches()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, pub.Batches()[0], 2)
}

func TestCollectorPeriodicFlushAndErrors(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	var mu sync.Mutex
	var failures int
	c := NewLogCollector(&CollectionConfig{
		TimeInterval: 10 * time.Millisecond,
		Publisher:    pub,
		OnPublishError: func(error) {
			mu.Lock()
			failures++
			mu.Unlock()
		},
	})
	defer c.Close()

	c.AddLog("error", "boom", nil, "x.go:1")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return failures == 1
	}, time.Second, 5*time.Millisecond)
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour})
	defer l.RemoveCollector()

	child := l.With("orchestrator")
	child.Warn("not collected")
	for _, lg := range []*Logger{child, l} {
		lg.Error("symbol fetch failed", String("symbol", "TSLA"))
	}

	// the child shares the parent's collector, and both calls share a caller
	assert.Equal(t, 1, l.collector.Pending())
}
