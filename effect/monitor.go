// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"time"

	"github.com/spf13/afero"
)

// CheckInterval is the minimum time between two modification time checks.
const CheckInterval = time.Second

// State is the staleness monitor state.
type State uint8

const (
	// StateIdle waits for CheckInterval to elapse.
	StateIdle State = iota

	// StateCheckDue compares the file's modification time. The monitor
	// passes through it within a single Tick.
	StateCheckDue

	// StatePendingReload asks for a reload on the next Tick.
	StatePendingReload
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckDue:
		return "check_due"
	case StatePendingReload:
		return "pending_reload"
	default:
		return "unknown"
	}
}

// Monitor polls an effect file's modification time.
//
// Detection and reload happen on different ticks: the tick that notices a
// change only moves to StatePendingReload, and the next Tick reports that
// a reload is due. Further changes seen before that reload collapse into it.
type Monitor struct {
	fs        afero.Fs
	path      string
	modTime   time.Time
	lastCheck time.Time
	state     State
	checks    int
}

// NewMonitor creates a monitor for path on fsys.
func NewMonitor(fsys afero.Fs, path string) *Monitor {
	return &Monitor{fs: fsys, path: path}
}

// Reset records the modification time of a fresh compile and restarts the
// check interval at now.
func (m *Monitor) Reset(modTime, now time.Time) {
	m.modTime = modTime
	m.lastCheck = now
	m.state = StateIdle
}

// State returns the current state.
func (m *Monitor) State() State { return m.state }

// Checks returns the number of modification time checks performed.
func (m *Monitor) Checks() int { return m.checks }

// Tick advances the state machine and reports whether the caller must
// reload the effect now. The caller is expected to Reset the monitor after
// reloading.
func (m *Monitor) Tick(now time.Time) bool {
	if m.state == StatePendingReload {
		m.state = StateIdle
		m.lastCheck = now
		return true
	}

	if now.Sub(m.lastCheck) < CheckInterval {
		return false
	}

	m.state = StateCheckDue
	m.lastCheck = now
	m.checks++

	info, err := m.fs.Stat(m.path)
	if err != nil {
		slogger().Debug("effect: stat failed", "path", m.path, "err", err)
		m.state = StateIdle
		return false
	}
	if info.ModTime().Equal(m.modTime) {
		m.state = StateIdle
		return false
	}

	slogger().Debug("effect: file changed", "path", m.path,
		"old", m.modTime, "new", info.ModTime())
	m.state = StatePendingReload
	return false
}
