//go:build !windows

package netutil

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"open-webui-desktop/internal/logger"
)

// KillOwners terminates every process listening on the given port.
func KillOwners(log logger.Logger, port int) {
	out, err := exec.Command("lsof", "-t", fmt.Sprintf("-i:%d", port)).Output()
	if err != nil {
		// lsof exits non-zero when nothing holds the port
		log.Debug("PortManager", "no process found on port", map[string]interface{}{
			"port": port,
		})
		return
	}

	for _, field := range strings.Fields(string(out)) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			continue
		}

		log.Info("PortManager", "killing process on port", map[string]interface{}{
			"pid":  pid,
			"port": port,
		})

		if err := syscall.Kill(pid, syscall.SIGKILL); err != nil {
			log.Error("PortManager", err, map[string]interface{}{
				"pid":  pid,
				"port": port,
			})
		}
	}
}
