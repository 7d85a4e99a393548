// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: browser/manager.go
// Summary: Headless Chrome lifecycle shared by snapshot renders.

// Package browser manages the one headless Chrome instance snapshot renders
// share: lazy launch on first use, reuse across renders, clean shutdown.
// The browser is the only shared mutable resource in the pipeline; page
// creation is serialized here so concurrent renders stay safe.
package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Manager owns the headless browser process. The zero value is not usable;
// call NewManager.
type Manager struct {
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	logger  *slog.Logger
	closed  bool
}

// NewManager creates a Manager. Chrome is not launched until the first
// Page call.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Available reports whether a Chrome or Chromium binary can be found on
// this machine. Callers use it to skip rendering-dependent work early.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}

// Page opens a fresh blank page, launching Chrome first if needed.
// The caller owns the page and must Close it.
func (m *Manager) Page() (*rod.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.browser == nil {
		if err := m.launchLocked(); err != nil {
			return nil, err
		}
	}
	page, err := m.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	return page, nil
}

// Close shuts down Chrome. Safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}

func (m *Manager) launchLocked() error {
	l := launcher.New().Headless(true)
	url, err := l.Launch()
	if err != nil {
		return fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return fmt.Errorf("browser: connect: %w", err)
	}

	m.lnch = l
	m.browser = b
	m.logger.Info("launched headless browser", "url", url)
	return nil
}
