// Package session owns the process-wide credential set: the bearer access
// token, the kiosk device key, and the refresh token. Components never write
// tokens directly; everything goes through a Manager so the HTTP layer has a
// single source of truth and tests can inject their own.
package session

import (
	"sync"
)

// Credentials is a snapshot of the three tokens.
type Credentials struct {
	AccessToken  string `json:"access_token,omitempty"`
	DeviceToken  string `json:"device_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Store persists credentials between process restarts.
type Store interface {
	Save(creds Credentials) error
	Load() (Credentials, error)
	Clear() error
}

// Manager holds the in-memory credential set and mirrors every change to the
// store. Loading from the store happens lazily, the first time a token is
// requested while both the access token and the device key are absent.
type Manager struct {
	mu     sync.RWMutex
	creds  Credentials
	loaded bool
	store  Store
}

// NewManager creates a Manager backed by store. store may be nil for
// in-memory-only sessions (tests, one-shot CLI runs).
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Credentials returns the current token snapshot, loading from the store if
// nothing is held in memory yet.
func (m *Manager) Credentials() Credentials {
	m.mu.RLock()
	needLoad := !m.loaded && m.creds.AccessToken == "" && m.creds.DeviceToken == ""
	creds := m.creds
	m.mu.RUnlock()
	if !needLoad {
		return creds
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	return m.creds
}

// loadLocked pulls stored credentials into memory once. Callers hold mu.
// Every write path runs it first so a Set on a fresh Manager merges into
// the persisted set instead of overwriting the other tokens with blanks.
func (m *Manager) loadLocked() {
	if !m.loaded && m.creds.AccessToken == "" && m.creds.DeviceToken == "" && m.store != nil {
		if stored, err := m.store.Load(); err == nil {
			m.creds = stored
		}
	}
	m.loaded = true
}

// AccessToken returns the current bearer token, if any.
func (m *Manager) AccessToken() string { return m.Credentials().AccessToken }

// DeviceToken returns the current kiosk device key, if any.
func (m *Manager) DeviceToken() string { return m.Credentials().DeviceToken }

// RefreshToken returns the current refresh token, if any.
func (m *Manager) RefreshToken() string { return m.Credentials().RefreshToken }

// SetTokens replaces the access and refresh tokens, keeping the device key.
func (m *Manager) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	m.creds.AccessToken = access
	m.creds.RefreshToken = refresh
	return m.persistLocked()
}

// SetAccessToken replaces only the access token, e.g. after a refresh.
func (m *Manager) SetAccessToken(access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	m.creds.AccessToken = access
	return m.persistLocked()
}

// SetDeviceToken stores the kiosk device key issued during activation.
func (m *Manager) SetDeviceToken(device string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	m.creds.DeviceToken = device
	return m.persistLocked()
}

// Clear wipes all three tokens from memory and from the store. Used on
// logout and on the forced unauthorized transition.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	m.loaded = true
	if m.store == nil {
		return nil
	}
	return m.store.Clear()
}

func (m *Manager) persistLocked() error {
	if m.store == nil {
		return nil
	}
	return m.store.Save(m.creds)
}
