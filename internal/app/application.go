package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/skratchdot/open-golang/open"

	"open-webui-desktop/internal/config"
	"open-webui-desktop/internal/health"
	"open-webui-desktop/internal/logger"
	"open-webui-desktop/internal/netutil"
	"open-webui-desktop/internal/server"
	"open-webui-desktop/internal/shutdown"
	"open-webui-desktop/internal/ui"
)

const component = "Application"

const shutdownTimeout = 10 * time.Second

// window is what the application needs from the native shell. ui.Window
// implements it; tests substitute a fake.
type window interface {
	ShowApp(url string)
	ShowError(message string)
	Run()
	Shutdown()
}

// Application wires the launcher together: it acquires a port, supervises
// the server process, polls readiness and drives the window.
type Application struct {
	cfg *config.Config
	log logger.Logger

	port int
	url  string

	supervisor *server.Supervisor
	checker    *health.Checker
	window     window
	lock       *instanceLock
	manager    *shutdown.Manager

	browserMode bool
}

func New(cfg *config.Config, log logger.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lock, err := acquireInstanceLock(cfg.InstanceLockPort)
	if err != nil {
		return nil, fmt.Errorf("another instance is already running: %w", err)
	}

	port, err := netutil.Acquire(log, cfg.Host, cfg.PreferredPort, cfg.PortRangeLow, cfg.PortRangeHigh, cfg.KeepPortOwners)
	if err != nil {
		lock.Release()
		return nil, err
	}

	url := cfg.URL(port)
	args := append(append([]string{}, cfg.ServerArgs...), "--port", strconv.Itoa(port))

	a := &Application{
		cfg:        cfg,
		log:        log,
		port:       port,
		url:        url,
		supervisor: server.NewSupervisor(cfg.ServerCommand, args, cfg.ServerEnv(port), log),
		checker:    health.NewChecker(url, cfg.PollInterval, cfg.ProbeTimeout, log),
		lock:       lock,
		manager:    shutdown.NewManager(log, shutdownTimeout),
	}

	if cfg.BrowserMode {
		a.browserMode = true
	} else {
		win, windowErr := ui.NewWindow(ui.Options{
			Title:  cfg.WindowTitle,
			Width:  cfg.WindowWidth,
			Height: cfg.WindowHeight,
			Debug:  cfg.DebugWindow,
		}, log)

		switch {
		case errors.Is(windowErr, ui.ErrUnavailable):
			log.Warning(component, "native window unavailable, falling back to browser", nil)
			a.browserMode = true
		case windowErr != nil:
			lock.Release()
			return nil, windowErr
		default:
			a.window = win
		}
	}

	// Registration order matters: shutdown runs in reverse, so the window
	// closes before the server process is stopped.
	a.manager.Register("supervisor", a.supervisor)
	if a.window != nil {
		a.manager.Register("window", a.window)
	}

	log.Info(component, "initialization complete", map[string]interface{}{
		"port":         port,
		"url":          url,
		"browser_mode": a.browserMode,
	})

	return a, nil
}

// Run starts the server and blocks until the window closes, the server
// exits (browser mode) or a shutdown signal arrives. The server process
// never outlives this call.
func (a *Application) Run() error {
	defer a.lock.Release()

	a.manager.Listen()

	if err := a.supervisor.Start(); err != nil {
		a.log.Error(component, err, map[string]interface{}{
			"command": a.cfg.ServerCommand,
		})

		if a.window == nil {
			a.manager.Shutdown()
			return err
		}

		// Keep the window open so the failure is visible, like the
		// loader would be.
		a.window.ShowError(startErrorMessage(err, a.cfg.ServerCommand))
		a.window.Run()
		a.manager.Shutdown()
		return err
	}

	go a.watch()

	if a.window != nil {
		a.window.Run()
	} else {
		a.runBrowserMode()
	}

	a.manager.Shutdown()
	return nil
}

// watch waits off the main thread for the first of: server ready, server
// died, shutdown. UI mutation is marshalled through the window.
func (a *Application) watch() {
	ctx := a.manager.Context()

	ready := make(chan error, 1)
	go func() { ready <- a.checker.Wait(ctx) }()

	select {
	case err := <-ready:
		if err != nil {
			return // shutdown started while polling
		}

		a.log.Info(component, "server is available, loading web view", map[string]interface{}{
			"url": a.url,
		})

		if a.window != nil {
			a.window.ShowApp(a.url)
		} else {
			a.openBrowser()
		}
	case <-a.supervisor.Done():
		a.reportServerExit()
		return
	case <-ctx.Done():
		return
	}

	// A server that dies later should not leave a silently broken window.
	select {
	case <-a.supervisor.Done():
		a.reportServerExit()
	case <-ctx.Done():
	}
}

func (a *Application) reportServerExit() {
	select {
	case <-a.manager.Done():
		return // we stopped it ourselves
	default:
	}

	err := a.supervisor.Err()
	message := "Server stopped unexpectedly."
	if err != nil {
		message = fmt.Sprintf("Server stopped unexpectedly: %v.", err)
		a.log.Error(component, err, nil)
	} else {
		a.log.Warning(component, "server exited before shutdown", nil)
	}

	if a.window != nil {
		a.window.ShowError(message)
	}
}

func (a *Application) runBrowserMode() {
	a.log.Info(component, "running without native window", map[string]interface{}{
		"url": a.url,
	})

	select {
	case <-a.supervisor.Done():
	case <-a.manager.Done():
	}
}

func (a *Application) openBrowser() {
	if err := open.Run(a.url); err != nil {
		a.log.Error(component, err, map[string]interface{}{
			"url": a.url,
		})
	}
}

func startErrorMessage(err error, command string) string {
	if errors.Is(err, server.ErrNotFound) {
		return fmt.Sprintf("%s not found. Ensure it is installed.", command)
	}
	return fmt.Sprintf("Failed to start server: %v", err)
}
