package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every knob of the desktop launcher.
type Config struct {
	// Server process
	ServerCommand string   // executable that serves the web UI
	ServerArgs    []string // arguments before the generated --port flag
	Host          string
	PreferredPort int
	PortRangeLow  int // random fallback range when the preferred port is taken
	PortRangeHigh int
	AuthDisabled  bool // sets WEBUI_AUTH=False for the child process

	// Readiness polling
	PollInterval time.Duration
	ProbeTimeout time.Duration

	// Window
	WindowTitle  string
	WindowWidth  int
	WindowHeight int

	// Behavior
	BrowserMode    bool // skip the native window, open the system browser
	KeepPortOwners bool // never kill processes squatting on the preferred port
	DebugWindow    bool // enable webview devtools

	// Single instance guard
	InstanceLockPort int

	// Logging / reporting
	LogLevel  string
	LogFile   string
	SentryDSN string
}

// Default returns the launcher defaults, matching the historical behavior:
// open-webui on localhost:8080, 1s readiness polls with a 3s probe timeout,
// a 1200x800 window and a webui.log file next to the binary.
func Default() *Config {
	return &Config{
		ServerCommand:    "open-webui",
		ServerArgs:       []string{"serve"},
		Host:             "localhost",
		PreferredPort:    8080,
		PortRangeLow:     1024,
		PortRangeHigh:    65535,
		AuthDisabled:     true,
		PollInterval:     time.Second,
		ProbeTimeout:     3 * time.Second,
		WindowTitle:      "Open WebUI",
		WindowWidth:      1200,
		WindowHeight:     800,
		InstanceLockPort: 47612,
		LogLevel:         "info",
		LogFile:          "webui.log",
	}
}

// LoadEnv overrides configuration from environment variables.
func (c *Config) LoadEnv() {
	if command := os.Getenv("WEBUI_COMMAND"); command != "" {
		c.ServerCommand = command
	}

	if host := os.Getenv("WEBUI_HOST"); host != "" {
		c.Host = host
	}

	if port := os.Getenv("WEBUI_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.PreferredPort = p
		}
	}

	if auth := os.Getenv("WEBUI_AUTH"); auth != "" {
		if enabled, err := strconv.ParseBool(auth); err == nil {
			c.AuthDisabled = !enabled
		}
	}

	if browser := os.Getenv("WEBUI_BROWSER"); browser != "" {
		if v, err := strconv.ParseBool(browser); err == nil {
			c.BrowserMode = v
		}
	}

	if keep := os.Getenv("WEBUI_KEEP_PORT_OWNERS"); keep != "" {
		if v, err := strconv.ParseBool(keep); err == nil {
			c.KeepPortOwners = v
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}

	if file := os.Getenv("LOG_FILE"); file != "" {
		c.LogFile = file
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		c.SentryDSN = dsn
	}
}

// Validate checks the fields a misconfigured environment can break.
func (c *Config) Validate() error {
	if c.ServerCommand == "" {
		return fmt.Errorf("server command cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if err := validatePort(c.PreferredPort, "preferred port"); err != nil {
		return err
	}

	if err := validatePort(c.PortRangeLow, "port range low"); err != nil {
		return err
	}

	if err := validatePort(c.PortRangeHigh, "port range high"); err != nil {
		return err
	}

	if c.PortRangeLow > c.PortRangeHigh {
		return fmt.Errorf("port range low %d exceeds high %d", c.PortRangeLow, c.PortRangeHigh)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive (current value: %s)", c.PollInterval)
	}

	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive (current value: %s)", c.ProbeTimeout)
	}

	return nil
}

func validatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535 (current value: %d)", fieldName, port)
	}
	return nil
}

// URL returns the address the server will answer on once it is up.
func (c *Config) URL(port int) string {
	return fmt.Sprintf("http://%s:%d", c.Host, port)
}

// ServerEnv returns the environment entries appended to the child process,
// telling the server which interface and port to bind.
func (c *Config) ServerEnv(port int) []string {
	env := []string{
		"HOST=" + c.Host,
		"PORT=" + strconv.Itoa(port),
	}
	if c.AuthDisabled {
		env = append(env, "WEBUI_AUTH=False")
	}
	return env
}
