package shutdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"open-webui-desktop/internal/logger"
)

type fakeComponent struct {
	name  string
	order *[]string
	mu    *sync.Mutex
	block time.Duration
}

func (f *fakeComponent) Shutdown() {
	if f.block > 0 {
		time.Sleep(f.block)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.order = append(*f.order, f.name)
}

func TestShutdown_ReverseOrder(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)

	m := NewManager(logger.NoOp{}, time.Second)
	m.Register("window", &fakeComponent{name: "window", order: &order, mu: &mu})
	m.Register("supervisor", &fakeComponent{name: "supervisor", order: &order, mu: &mu})

	m.Shutdown()

	assert.Equal(t, []string{"supervisor", "window"}, order)
}

func TestShutdown_Idempotent(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)

	m := NewManager(logger.NoOp{}, time.Second)
	m.Register("supervisor", &fakeComponent{name: "supervisor", order: &order, mu: &mu})

	m.Shutdown()
	m.Shutdown()

	assert.Len(t, order, 1)
}

func TestShutdown_SecondCallerWaitsForFirst(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)

	m := NewManager(logger.NoOp{}, time.Second)
	m.Register("slowish", &fakeComponent{name: "slowish", order: &order, mu: &mu, block: 100 * time.Millisecond})

	go m.Shutdown()
	time.Sleep(10 * time.Millisecond)

	m.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"slowish"}, order)
}

func TestShutdown_CancelsContext(t *testing.T) {
	m := NewManager(logger.NoOp{}, time.Second)

	m.Shutdown()

	select {
	case <-m.Context().Done():
	default:
		t.Fatal("context should be cancelled after shutdown")
	}

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel should be closed after shutdown")
	}
}

func TestShutdown_ComponentTimeout(t *testing.T) {
	var (
		order []string
		mu    sync.Mutex
	)

	m := NewManager(logger.NoOp{}, 20*time.Millisecond)
	m.Register("slow", &fakeComponent{name: "slow", order: &order, mu: &mu, block: time.Second})
	m.Register("fast", &fakeComponent{name: "fast", order: &order, mu: &mu})

	start := time.Now()
	m.Shutdown()

	assert.Less(t, time.Since(start), 500*time.Millisecond, "slow component must not stall shutdown")

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, order, "fast")
}
