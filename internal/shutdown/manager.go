package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"open-webui-desktop/internal/logger"
)

// Shutdownable is implemented by components that need teardown on exit.
type Shutdownable interface {
	Shutdown()
}

type component struct {
	name   string
	target Shutdownable
}

// Manager coordinates teardown: it listens for signals, cancels its
// context and shuts registered components down in reverse order, each
// with a bounded timeout.
type Manager struct {
	components []component
	timeout    time.Duration
	log        logger.Logger
	mu         sync.Mutex
	done       chan struct{}
	finished   chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewManager(log logger.Logger, timeout time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		timeout:  timeout,
		log:      log,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m *Manager) Register(name string, target Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, component{name: name, target: target})
}

// Listen starts the signal handler. SIGINT and SIGTERM trigger Shutdown.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.log.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
	}()
}

func (m *Manager) Shutdown() {
	m.mu.Lock()

	select {
	case <-m.done:
		// another caller is already tearing down; wait for it
		m.mu.Unlock()
		<-m.finished
		return
	default:
		close(m.done)
	}

	components := make([]component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	m.log.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(components),
	})

	m.cancel()

	// Reverse registration order
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			c.target.Shutdown()
		}()

		select {
		case <-finished:
			m.log.Debug("ShutdownManager", "component shutdown completed", map[string]interface{}{
				"component": c.name,
			})
		case <-time.After(m.timeout):
			m.log.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": c.name,
			})
		}
	}

	m.log.Info("ShutdownManager", "shutdown sequence completed", nil)
	close(m.finished)
}

// Context is cancelled as soon as shutdown starts.
func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
