package app

import (
	"fmt"
	"net"
)

// instanceLock is a single-instance guard using a localhost TCP port.
// The listener is held for the lifetime of the process; a second launcher
// fails to bind and exits.
type instanceLock struct {
	ln net.Listener
}

func acquireInstanceLock(port int) (*instanceLock, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, err
	}
	return &instanceLock{ln: ln}, nil
}

func (l *instanceLock) Release() {
	if l.ln != nil {
		l.ln.Close()
	}
}
