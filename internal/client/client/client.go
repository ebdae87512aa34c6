package client

import (
	"context"

	"github.com/clipflow-app/clipflow/internal/client/models"
)

// Client is the backend collaborator surface the engine and the UI consume.
type Client interface {
	Close() error
	CreateChannel(ctx context.Context, customID string) (string, error)
	VerifyChannel(ctx context.Context, channelID string) (bool, error)
	SaveClipboard(ctx context.Context, req models.SaveRequest) (*models.Entry, error)
	DeleteClipboard(ctx context.Context, id string) error
	GetLatest(ctx context.Context) (*models.Entry, error)
	GetHistory(ctx context.Context, page, size int) ([]models.Entry, error)
	SetChannelID(id string)
}
