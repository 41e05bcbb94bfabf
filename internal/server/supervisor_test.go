package server

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-webui-desktop/internal/logger"
)

type recordingLogger struct {
	logger.NoOp

	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	component string
	message   string
	fields    map[string]interface{}
}

func (r *recordingLogger) Debug(component, message string, fields map[string]interface{}) {
	r.record(component, message, fields)
}

func (r *recordingLogger) Info(component, message string, fields map[string]interface{}) {
	r.record(component, message, fields)
}

func (r *recordingLogger) record(component, message string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{component, message, fields})
}

func (r *recordingLogger) find(component, message string) (logEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.component == component && e.message == message {
			return e, true
		}
	}
	return logEntry{}, false
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix shell utilities")
	}
}

func waitDone(t *testing.T, s *Supervisor) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("server process did not exit")
	}
}

func TestStart_CommandNotFound(t *testing.T) {
	s := NewSupervisor("definitely-not-a-real-binary-1f2e3d", nil, nil, logger.NoOp{})

	err := s.Start()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.Running())
}

func TestStartStop(t *testing.T) {
	skipOnWindows(t)

	s := NewSupervisor("sleep", []string{"30"}, nil, logger.NoOp{})
	require.NoError(t, s.Start())

	assert.True(t, s.Running())
	assert.NotZero(t, s.PID())

	s.Stop()

	assert.False(t, s.Running())
	select {
	case <-s.Done():
	default:
		t.Fatal("Done must be closed after Stop returns")
	}
}

func TestStop_Idempotent(t *testing.T) {
	skipOnWindows(t)

	s := NewSupervisor("sleep", []string{"30"}, nil, logger.NoOp{})
	require.NoError(t, s.Start())

	s.Stop()
	s.Stop()

	assert.False(t, s.Running())
}

func TestStop_BeforeStart(t *testing.T) {
	s := NewSupervisor("sleep", []string{"30"}, nil, logger.NoOp{})
	s.Stop()
}

func TestStart_Twice(t *testing.T) {
	skipOnWindows(t)

	s := NewSupervisor("sleep", []string{"30"}, nil, logger.NoOp{})
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestOutputForwarding(t *testing.T) {
	skipOnWindows(t)

	log := &recordingLogger{}
	s := NewSupervisor("sh", []string{"-c", "echo booting; echo trouble 1>&2"}, nil, log)
	require.NoError(t, s.Start())

	waitDone(t, s)
	assert.NoError(t, s.Err())

	out, ok := log.find("Server", "booting")
	require.True(t, ok, "stdout line should be forwarded")
	assert.Equal(t, "stdout", out.fields["stream"])

	errLine, ok := log.find("Server", "trouble")
	require.True(t, ok, "stderr line should be forwarded")
	assert.Equal(t, "stderr", errLine.fields["stream"])
}

func TestEnvPassedToChild(t *testing.T) {
	skipOnWindows(t)

	log := &recordingLogger{}
	s := NewSupervisor("sh", []string{"-c", "echo auth=$WEBUI_AUTH"}, []string{"WEBUI_AUTH=False"}, log)
	require.NoError(t, s.Start())

	waitDone(t, s)

	_, ok := log.find("Server", "auth=False")
	assert.True(t, ok, "child should see the configured environment")
}

func TestNaturalExit_ErrOnFailure(t *testing.T) {
	skipOnWindows(t)

	s := NewSupervisor("sh", []string{"-c", "exit 3"}, nil, logger.NoOp{})
	require.NoError(t, s.Start())

	waitDone(t, s)
	assert.Error(t, s.Err())
}
