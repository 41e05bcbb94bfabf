package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"open-webui-desktop/internal/logger"
)

// ErrNotFound is returned when the server executable is not installed.
var ErrNotFound = errors.New("server command not found")

const stopGrace = 5 * time.Second

// Supervisor owns the external server process: it starts it with the
// configured environment, forwards its output into the structured log and
// guarantees the process is gone when Stop returns.
type Supervisor struct {
	command string
	args    []string
	env     []string
	log     logger.Logger

	mu       sync.Mutex
	cmd      *exec.Cmd
	stopping bool
	waitErr  error
	done     chan struct{}
}

func NewSupervisor(command string, args, env []string, log logger.Logger) *Supervisor {
	return &Supervisor{
		command: command,
		args:    args,
		env:     env,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start launches the server process. A missing executable is reported as
// ErrNotFound so callers can render a dedicated error view.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("server process already started")
	}

	path, err := exec.LookPath(s.command)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, s.command)
	}

	cmd := exec.Command(path, s.args...)
	cmd.Env = append(os.Environ(), s.env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", s.command, err)
	}

	s.cmd = cmd
	s.log.Info("Supervisor", "server process started", map[string]interface{}{
		"command": s.command,
		"args":    s.args,
		"pid":     cmd.Process.Pid,
	})

	var pipes sync.WaitGroup
	pipes.Add(2)
	go s.forward("stdout", stdout, &pipes)
	go s.forward("stderr", stderr, &pipes)
	go s.reap(&pipes)

	return nil
}

// forward copies one output stream of the child into the log, line by line.
func (s *Supervisor) forward(stream string, r io.Reader, pipes *sync.WaitGroup) {
	defer pipes.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		s.log.Debug("Server", scanner.Text(), map[string]interface{}{
			"stream": stream,
		})
	}
}

// reap waits for the child to exit. Wait must not run before both pipes
// are drained.
func (s *Supervisor) reap(pipes *sync.WaitGroup) {
	pipes.Wait()
	err := s.cmd.Wait()

	s.mu.Lock()
	s.waitErr = err
	stopping := s.stopping
	pid := s.cmd.Process.Pid
	s.mu.Unlock()

	close(s.done)

	switch {
	case stopping:
		s.log.Info("Supervisor", "server process stopped", map[string]interface{}{
			"pid": pid,
		})
	case err != nil:
		s.log.Error("Supervisor", err, map[string]interface{}{
			"pid": pid,
		})
	default:
		s.log.Info("Supervisor", "server process exited", map[string]interface{}{
			"pid": pid,
		})
	}
}

// Stop terminates the server process and blocks until it is gone. It asks
// politely first and kills after a grace period. Safe to call more than
// once and before Start.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	alreadyStopping := s.stopping
	s.stopping = true
	s.mu.Unlock()

	if cmd == nil {
		return
	}

	if alreadyStopping {
		<-s.done
		return
	}

	select {
	case <-s.done:
		return
	default:
	}

	s.log.Info("Supervisor", "stopping server process", map[string]interface{}{
		"pid": cmd.Process.Pid,
	})

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// SIGTERM is not deliverable on some platforms; fall through to Kill
		_ = cmd.Process.Kill()
	}

	select {
	case <-s.done:
	case <-time.After(stopGrace):
		s.log.Warning("Supervisor", "server did not exit in time, killing", map[string]interface{}{
			"pid": cmd.Process.Pid,
		})
		_ = cmd.Process.Kill()
		<-s.done
	}
}

// Shutdown implements the shutdown manager's component interface.
func (s *Supervisor) Shutdown() {
	s.Stop()
}

// Done is closed once the server process has exited.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Err reports how the process exited. Only meaningful after Done is closed.
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitErr
}

// Running reports whether the child has started and not yet exited.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	started := s.cmd != nil
	s.mu.Unlock()

	if !started {
		return false
	}

	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// PID returns the child process id, or 0 before Start.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return 0
	}
	return s.cmd.Process.Pid
}
