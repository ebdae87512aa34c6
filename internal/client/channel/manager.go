// Package channel resolves and validates the logical sync group (channel)
// and the local device identity that tags every write.
package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/clipflow-app/clipflow/internal/client/client"
	"github.com/clipflow-app/clipflow/internal/client/models"
	"github.com/clipflow-app/clipflow/internal/client/repositories/metadata"
	"github.com/clipflow-app/clipflow/internal/logging"
)

// Manager owns the channel/device identity for a session. A channel id is
// never trusted until the backend confirmed it; the sync engine treats
// "not verified" exactly like "permission denied".
type Manager struct {
	api  client.Client
	meta metadata.Repository
	log  logging.Logger

	mu         sync.Mutex
	channelID  string
	deviceID   string
	deviceType models.DeviceType
	verified   bool
	onSwitch   []func()
}

func NewManager(api client.Client, meta metadata.Repository, deviceType models.DeviceType, log logging.Logger) *Manager {
	return &Manager{
		api:        api,
		meta:       meta,
		deviceType: deviceType,
		log:        log,
	}
}

// Init loads the stored identity. The device id is generated exactly once
// per profile and reused forever after; a stored channel id is loaded but
// stays unverified until Verify confirms it.
func (m *Manager) Init(ctx context.Context) error {
	raw, err := m.meta.Get(ctx, metadata.KeyDeviceID)
	if err != nil {
		return fmt.Errorf("loading device id: %w", err)
	}

	deviceID := string(raw)
	if deviceID == "" {
		deviceID = uuid.NewString()
		if err := m.meta.Set(ctx, metadata.KeyDeviceID, []byte(deviceID)); err != nil {
			return fmt.Errorf("persisting device id: %w", err)
		}
		m.log.Info(ctx, "generated device id", "device_id", deviceID)
	}

	stored, err := m.meta.Get(ctx, metadata.KeyChannelID)
	if err != nil {
		return fmt.Errorf("loading channel id: %w", err)
	}

	m.mu.Lock()
	m.deviceID = deviceID
	m.channelID = string(stored)
	m.verified = false
	m.mu.Unlock()

	return nil
}

// OnIdentitySwitch registers a callback fired when the verified channel
// changes, so session-local state (content filter, last synced value) can
// be reset.
func (m *Manager) OnIdentitySwitch(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSwitch = append(m.onSwitch, fn)
}

func (m *Manager) DeviceID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceID
}

func (m *Manager) DeviceType() models.DeviceType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deviceType
}

// ChannelID returns the current channel id, verified or not.
func (m *Manager) ChannelID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelID
}

func (m *Manager) Verified() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verified
}

// StoredChannelID returns the channel id loaded from local storage at Init.
func (m *Manager) StoredChannelID() string {
	return m.ChannelID()
}

// Verify checks channelID with the backend and, on success, persists it and
// marks the session verified. fresh marks an attempt coming from an outside
// parameter (startup flag, shared link): when a fresh attempt fails, any
// previously stored working id is left untouched so a bad link does not
// evict a working session. A failed re-verification of the stored id itself
// clears it.
func (m *Manager) Verify(ctx context.Context, channelID string, fresh bool) (bool, error) {
	if channelID == "" {
		return false, nil
	}

	ok, err := m.api.VerifyChannel(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("verifying channel: %w", err)
	}

	if !ok {
		m.log.Warn(ctx, "channel verification failed", "channel_id", channelID, "fresh", fresh)
		if !fresh {
			if err := m.meta.Delete(ctx, metadata.KeyChannelID); err != nil {
				m.log.Error(ctx, "failed to clear stored channel id", "error", err)
			}
			m.mu.Lock()
			if m.channelID == channelID {
				m.channelID = ""
				m.verified = false
			}
			m.mu.Unlock()
		}
		return false, nil
	}

	return true, m.adopt(ctx, channelID)
}

// Create requests a new channel (optionally with a caller-chosen id) and on
// success behaves exactly like a successful Verify.
func (m *Manager) Create(ctx context.Context, customID string) (string, error) {
	id, err := m.api.CreateChannel(ctx, customID)
	if err != nil {
		return "", fmt.Errorf("creating channel: %w", err)
	}
	if err := m.adopt(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// adopt persists a confirmed channel id and fires the identity-switch hooks
// when the verified channel actually changed.
func (m *Manager) adopt(ctx context.Context, channelID string) error {
	if err := m.meta.Set(ctx, metadata.KeyChannelID, []byte(channelID)); err != nil {
		return fmt.Errorf("persisting channel id: %w", err)
	}

	m.mu.Lock()
	switched := m.verified && m.channelID != channelID
	m.channelID = channelID
	m.verified = true
	m.api.SetChannelID(channelID)
	hooks := make([]func(), len(m.onSwitch))
	copy(hooks, m.onSwitch)
	m.mu.Unlock()

	m.log.Info(ctx, "channel verified", "channel_id", channelID)
	if switched {
		for _, fn := range hooks {
			fn()
		}
	}
	return nil
}

// Clear forgets the channel identity (but never the device id).
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.meta.Delete(ctx, metadata.KeyChannelID); err != nil {
		return err
	}
	m.mu.Lock()
	m.channelID = ""
	m.verified = false
	m.mu.Unlock()
	return nil
}
