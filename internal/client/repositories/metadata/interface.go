package metadata

import (
	"context"
)

// Repository is a small key/value store for boundary data that must survive
// restarts: the device id, the channel id and the soft permission hint.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeyDeviceID       = "device_id"
	KeyChannelID      = "channel_id"
	KeyPermissionHint = "permission_hint"
)
