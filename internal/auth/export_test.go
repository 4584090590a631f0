package auth

import "time"

// SetClock replaces the manager clock in tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}
