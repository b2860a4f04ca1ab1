package session

import (
	"sync"

	"hotel-scout/internal/hotels"
)

// Stage is one discrete step of the conversation flow.
type Stage int

const (
	StageIdle Stage = iota
	StageCity
	StageCheckIn
	StageCheckOut
)

// Conversation holds the transient per-user search flow state. It lives only
// in memory and is discarded on completion or restart.
type Conversation struct {
	Stage      Stage
	Mode       hotels.Mode
	Candidates []hotels.City
	CityID     string
	CityName   string
	CheckIn    string
	CheckOut   string
}

// Manager keys conversations by user id. At most one conversation exists per
// user; starting a new one replaces any previous. A user's events arrive
// sequentially, so the returned pointer is only ever mutated by that user's
// current handler.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Conversation
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Conversation)}
}

func (m *Manager) Start(userID int64, mode hotels.Mode) *Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv := &Conversation{Stage: StageCity, Mode: mode}
	m.sessions[userID] = conv
	return conv
}

func (m *Manager) Get(userID int64) (*Conversation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conv, ok := m.sessions[userID]
	return conv, ok
}

func (m *Manager) End(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
