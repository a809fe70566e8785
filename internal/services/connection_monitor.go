package services

import (
	"context"
	"sync"
	"time"

	"ambulance/internal/utils"
)

type ConnectionStatus string

const (
	StatusConnected ConnectionStatus = "connected"
	StatusSyncing   ConnectionStatus = "syncing"
	StatusOffline   ConnectionStatus = "offline"
)

const msgConnectionLost = "Lost connection to server"

type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionMonitor polls the backend on a fixed interval and exposes the
// last known status. Run stops when its context is cancelled.
type ConnectionMonitor struct {
	Pinger   Pinger
	Interval time.Duration
	Timeout  time.Duration
	Notifier Notifier

	mu        sync.RWMutex
	status    ConnectionStatus
	checkedAt time.Time
}

func NewConnectionMonitor(p Pinger, interval time.Duration, notifier Notifier) *ConnectionMonitor {
	return &ConnectionMonitor{
		Pinger:   p,
		Interval: interval,
		Timeout:  5 * time.Second,
		Notifier: notifier,
		status:   StatusConnected,
	}
}

func (m *ConnectionMonitor) Status() (ConnectionStatus, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, m.checkedAt
}

// Check pings once and records the result.
func (m *ConnectionMonitor) Check(ctx context.Context) ConnectionStatus {
	m.mu.Lock()
	prev := m.status
	m.status = StatusSyncing
	m.mu.Unlock()

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	err := m.Pinger.Ping(pingCtx)
	cancel()

	next := StatusConnected
	if err != nil {
		next = StatusOffline
	}

	m.mu.Lock()
	m.status = next
	m.checkedAt = time.Now().UTC()
	m.mu.Unlock()

	if next == StatusOffline && prev != StatusOffline {
		utils.LogEvent("", "health", "check", "backend unreachable: "+err.Error())
		if m.Notifier != nil {
			m.Notifier.Notify(ctx, LevelError, msgConnectionLost)
		}
	}
	return next
}

// Run checks immediately and then every Interval until ctx is done.
func (m *ConnectionMonitor) Run(ctx context.Context) {
	interval := m.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
