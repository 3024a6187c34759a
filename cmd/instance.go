package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/matheuskafuri/jjfeed/internal/panel"
)

const dialTimeout = time.Second

var errAlreadyRunning = errors.New("jjfeed is already running")

// requestOpen asks a running instance listening on path to open its panel.
// It reports false when no instance answered.
func requestOpen(path string) bool {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	conn.SetWriteDeadline(time.Now().Add(dialTimeout))
	conn.Write([]byte("open\n"))
	return true
}

// listenOpen claims path for this process. A socket left behind by a crashed
// run is removed; a live one yields errAlreadyRunning.
func listenOpen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating runtime dir: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err == nil {
		return ln, nil
	}
	if conn, derr := net.DialTimeout("unix", path, dialTimeout); derr == nil {
		conn.Close()
		return nil, errAlreadyRunning
	}
	if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
		return nil, fmt.Errorf("removing stale socket: %w", rerr)
	}
	ln, err = net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", path, err)
	}
	return ln, nil
}

// serveOpen turns every connection on ln into panels.Open, which reveals the
// live panel. It returns once ln is closed.
func serveOpen(ln net.Listener, panels *panel.Manager, logger *slog.Logger) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(dialTimeout))
		io.Copy(io.Discard, io.LimitReader(conn, 64))
		conn.Close()

		if panels.Current() == nil {
			logger.Debug("open request after panel closed")
			continue
		}
		_, created, err := panels.Open()
		if err != nil {
			logger.Warn("open request", "error", err)
			continue
		}
		logger.Info("open request", "created", created)
	}
}
