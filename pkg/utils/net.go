package utils

import (
	"fmt"
	"net"
)

// FreePort returns a port that is free to listen on. Preferred ports are
// checked in order before falling back to a kernel-assigned one.
func FreePort(preferred ...int) (int, error) {
	for _, p := range preferred {
		l, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", p))
		if err != nil {
			continue
		}

		if err := l.Close(); err != nil {
			return 0, fmt.Errorf("could not close listener: %w", err)
		}

		return p, nil
	}

	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("could not listen: %w", err)
	}

	port := l.Addr().(*net.TCPAddr).Port

	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("could not close listener: %w", err)
	}

	return port, nil
}
