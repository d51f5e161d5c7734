// Package health tracks per-provider validity so the aggregator stops
// dispatching to a provider whose credentials or backend are known-bad.
//
// State machine per provider:
//
//	Valid -> (N consecutive errors) -> Invalid -> (cooldown elapsed OR one
//	success) -> Valid
package health

import (
	"sync"
	"time"
)

const (
	// DefaultErrorThreshold is the consecutive-error count that disables a
	// provider.
	DefaultErrorThreshold = 5
	// DefaultCooldown is how long a disabled provider stays skipped before
	// it gets another attempt.
	DefaultCooldown = 5 * time.Minute
)

// Record is the externally visible health snapshot for one provider.
type Record struct {
	Provider   string    `json:"provider"`
	IsValid    bool      `json:"isValid"`
	ErrorCount int       `json:"errorCount"`
	LastError  string    `json:"lastError,omitempty"`
	LastUsedAt time.Time `json:"lastUsedAt,omitempty"`
}

type state struct {
	valid      bool
	errorCount int
	lastError  string
	lastUsed   time.Time
	disabledAt time.Time
}

// Manager holds process-lifetime health state for every registered
// provider. Safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]*state
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

// NewManager creates a Manager with the given threshold and cooldown;
// zero values select the defaults.
func NewManager(threshold int, cooldown time.Duration) *Manager {
	if threshold <= 0 {
		threshold = DefaultErrorThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Manager{
		providers: make(map[string]*state),
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Register adds a provider in the Valid state. Registering twice is a
// no-op so boot code can be idempotent.
func (m *Manager) Register(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.providers[provider]; exists {
		return
	}
	m.providers[provider] = &state{valid: true}
}

// Disable marks a provider Invalid immediately with the given reason,
// bypassing the error threshold. Used at boot for providers with no API key.
func (m *Manager) Disable(provider, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.providers[provider]
	if !ok {
		s = &state{}
		m.providers[provider] = s
	}
	s.valid = false
	s.lastError = reason
	s.errorCount = m.threshold
	// Zero disabledAt pins the provider Invalid until an explicit success;
	// the cooldown path does not apply to configuration problems.
	s.disabledAt = time.Time{}
}

// Usable reports whether the aggregator should dispatch to provider. An
// Invalid provider whose cooldown has elapsed gets one probe attempt: the
// call reports usable but the state stays Invalid until an outcome arrives.
func (m *Manager) Usable(provider string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.providers[provider]
	if !ok {
		return false
	}
	if s.valid {
		return true
	}
	if s.disabledAt.IsZero() {
		return false
	}
	return m.now().Sub(s.disabledAt) >= m.cooldown
}

// ReportSuccess resets the provider to Valid with a clean error count.
func (m *Manager) ReportSuccess(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.providers[provider]
	if !ok {
		return
	}
	s.valid = true
	s.errorCount = 0
	s.lastError = ""
	s.lastUsed = m.now()
}

// ReportFailure increments the consecutive-error count and disables the
// provider once it crosses the threshold.
func (m *Manager) ReportFailure(provider string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.providers[provider]
	if !ok {
		return
	}
	s.errorCount++
	if err != nil {
		s.lastError = err.Error()
	}
	s.lastUsed = m.now()
	if s.errorCount >= m.threshold {
		s.valid = false
		s.disabledAt = m.now()
	}
}

// Snapshot returns the current record for every registered provider.
func (m *Manager) Snapshot() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]Record, 0, len(m.providers))
	for name, s := range m.providers {
		records = append(records, Record{
			Provider:   name,
			IsValid:    s.valid,
			ErrorCount: s.errorCount,
			LastError:  s.lastError,
			LastUsedAt: s.lastUsed,
		})
	}
	return records
}

// Recheck re-validates cooled-down providers so the next request probes
// them again; scheduled periodically. Providers disabled for configuration
// reasons (zero disabledAt) are left alone.
func (m *Manager) Recheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for _, s := range m.providers {
		if !s.valid && !s.disabledAt.IsZero() && now.Sub(s.disabledAt) >= m.cooldown {
			s.valid = true
			s.errorCount = 0
		}
	}
}
