//go:build windows

package netutil

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"open-webui-desktop/internal/logger"
)

// KillOwners terminates every process listening on the given port.
func KillOwners(log logger.Logger, port int) {
	out, err := exec.Command("netstat", "-ano").Output()
	if err != nil {
		log.Error("PortManager", err, map[string]interface{}{
			"port": port,
		})
		return
	}

	needle := fmt.Sprintf(":%d", port)
	seen := map[int]bool{}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, needle) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		pid, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil || pid == 0 || seen[pid] {
			continue
		}
		seen[pid] = true

		log.Info("PortManager", "killing process on port", map[string]interface{}{
			"pid":  pid,
			"port": port,
		})

		if err := exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid)).Run(); err != nil {
			log.Error("PortManager", err, map[string]interface{}{
				"pid":  pid,
				"port": port,
			})
		}
	}
}
