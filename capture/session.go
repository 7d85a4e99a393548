// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: capture/session.go
// Summary: Runs a program on a fixed-size PTY and collects its raw output.

// Package capture executes a CLI program attached to a pseudo-terminal of
// fixed dimensions and collects every byte it writes until exit or timeout.
// The dimensions given here are the ones the program's layout engine sizes
// itself against; the renderer must be handed exactly the same values.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/creack/pty"
)

// DefaultTimeout bounds a capture when the session does not set one.
const DefaultTimeout = 30 * time.Second

// CITimeout is the default used by CI-oriented presets, where machines are
// slower and a hung test costs a whole pipeline.
const CITimeout = 60 * time.Second

// NoTimeout disables the capture deadline entirely. The caller accepts the
// risk of a hang.
const NoTimeout time.Duration = -1

// maxDimension bounds Columns and Rows: the PTY winsize fields are 16-bit.
const maxDimension = 65535

// Session describes one capture of a program under test. A Session owns its
// child process and output buffer from Run until Run returns.
type Session struct {
	Command string
	Args    []string
	Columns int
	Rows    int

	// Env entries override or extend the inherited environment.
	Env map[string]string

	// Timeout of 0 means DefaultTimeout; NoTimeout (-1) disables the
	// deadline. The zero value cannot mean "unlimited" because zero is
	// what an unset field carries, and an unset field must stay safe.
	Timeout time.Duration
}

// Run spawns the program on a PTY sized exactly Columns×Rows and returns the
// concatenated raw output bytes, escape sequences included, in arrival
// order. Color-capable environment variables are forced unless the session
// overrides them. A non-zero exit yields a ProcessExitError together with
// the bytes captured so far; a timeout kills the child and yields a
// TimeoutError. An exit caused by a signal is treated as a normal exit: the
// process was killed cooperatively, not failed.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if s.Columns <= 0 || s.Rows <= 0 || s.Columns > maxDimension || s.Rows > maxDimension {
		return nil, fmt.Errorf("capture: dimensions must be within 1..%d, got %dx%d", maxDimension, s.Columns, s.Rows)
	}
	if s.Command == "" {
		return nil, errors.New("capture: command must not be empty")
	}

	cmd := exec.Command(s.Command, s.Args...)
	cmd.Env = s.buildEnv()

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.Rows),
		Cols: uint16(s.Columns),
	})
	if err != nil {
		return nil, fmt.Errorf("capture: start %q: %w", s.Command, err)
	}

	var buf bytes.Buffer
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		// Reading stops with EIO once the child's side of the PTY closes.
		// Every byte is appended in arrival order; nothing is dropped.
		io.Copy(&buf, ptmx)
	}()

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	// On the kill paths the master must close first: no salvage is
	// attempted and a blocked reader has to be unstuck before its
	// goroutine can finish.
	abort := func() {
		ptmx.Close()
		<-readDone
	}

	select {
	case waitErr := <-waitDone:
		// The child has exited, but its final writes may still sit in the
		// kernel's pty queue. Drain the reader to EIO first (it terminates
		// naturally once the child's side closes), then release the master.
		// Closing first discards whatever is still queued.
		<-readDone
		ptmx.Close()
		return buf.Bytes(), s.exitStatus(waitErr)

	case <-deadline:
		cmd.Process.Kill()
		<-waitDone
		abort()
		return nil, &TimeoutError{Command: s.Command, Timeout: timeout}

	case <-ctx.Done():
		cmd.Process.Kill()
		<-waitDone
		abort()
		return nil, ctx.Err()
	}
}

// exitStatus maps a cmd.Wait result onto the capture error taxonomy.
func (s *Session) exitStatus(waitErr error) error {
	if waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if code > 0 {
			return &ProcessExitError{Command: s.Command, Args: s.Args, ExitCode: code}
		}
		// code is -1 when the process died from a signal; that is the
		// cooperative-kill case and not an error of the program under test.
		return nil
	}
	return fmt.Errorf("capture: wait %q: %w", s.Command, waitErr)
}

// buildEnv merges the inherited environment with the forced color-capable
// defaults and the session's overrides. Overrides win over both.
func (s *Session) buildEnv() []string {
	forced := map[string]string{
		"FORCE_COLOR": "3",
		"COLORTERM":   "truecolor",
		"TERM":        "xterm-256color",
		"COLUMNS":     strconv.Itoa(s.Columns),
		"LINES":       strconv.Itoa(s.Rows),
	}
	for k, v := range s.Env {
		forced[k] = v
	}

	env := make([]string, 0, len(os.Environ())+len(forced))
	for _, kv := range os.Environ() {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, shadowed := forced[key]; shadowed {
			continue
		}
		env = append(env, kv)
	}
	for k, v := range forced {
		env = append(env, k+"="+v)
	}
	return env
}
