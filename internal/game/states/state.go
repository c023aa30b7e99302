// Package states implements player state management.
package states

import (
	"github.com/Faultbox/avg-player/pkg/geom"
)

// State is one screen of the player (preloading, story playback).
type State interface {
	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame. act is the first activation of the
	// frame in canvas coordinates, or nil.
	Update(dt float64, act *geom.Point) error

	// Render is called every frame to draw the state.
	Render(projection geom.Mat4) error
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change. It takes effect on the next Update.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64, act *geom.Point) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt, act)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render(projection geom.Mat4) error {
	if m.current != nil {
		return m.current.Render(projection)
	}
	return nil
}

// Close exits the current state and drops any pending one.
func (m *Manager) Close() error {
	m.next = nil
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
