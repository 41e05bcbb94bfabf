package netutil

import (
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"time"

	"open-webui-desktop/internal/logger"
)

const (
	dialTimeout    = time.Second
	randomAttempts = 256
)

// InUse reports whether something is already listening on host:port.
func InUse(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// FindFree picks a random unused port within [low, high]. After a bounded
// number of random probes it falls back to a kernel-assigned port.
func FindFree(host string, low, high int) (int, error) {
	if low > high {
		return 0, fmt.Errorf("invalid port range %d-%d", low, high)
	}

	for i := 0; i < randomAttempts; i++ {
		port := low + rand.Intn(high-low+1)
		if !InUse(host, port) {
			return port, nil
		}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("no free port in range %d-%d: %w", low, high, err)
	}
	defer ln.Close()

	return ln.Addr().(*net.TCPAddr).Port, nil
}

// Acquire returns a port the server can bind. The preferred port wins; if
// it is taken, its owners are killed (unless keepOwners is set) and the
// port is re-checked before falling back to a random free one.
func Acquire(log logger.Logger, host string, preferred, low, high int, keepOwners bool) (int, error) {
	if !InUse(host, preferred) {
		return preferred, nil
	}

	if !keepOwners {
		log.Warning("PortManager", "preferred port is in use, attempting to free it", map[string]interface{}{
			"port": preferred,
		})
		KillOwners(log, preferred)

		if !InUse(host, preferred) {
			return preferred, nil
		}
	}

	log.Warning("PortManager", "preferred port is still in use, selecting a random port", map[string]interface{}{
		"port": preferred,
	})

	return FindFree(host, low, high)
}
