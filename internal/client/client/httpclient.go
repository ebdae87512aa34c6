package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clipflow-app/clipflow/internal/client/models"
	"github.com/clipflow-app/clipflow/internal/common"
)

// HTTPClient talks to the ClipFlow REST backend. Every request except
// channel create/verify carries the current channel id in the
// X-Channel-ID header.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	channelID string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Close() error { return nil }

// SetChannelID sets the channel id attached to subsequent requests.
func (c *HTTPClient) SetChannelID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = id
}

func (c *HTTPClient) currentChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

// do sends one request and decodes the backend's uniform envelope. A nil
// body means no payload. withChannel controls the X-Channel-ID header.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, withChannel bool) (*models.APIResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if withChannel {
		id := c.currentChannelID()
		if id == "" {
			return nil, common.ErrChannelNotVerified
		}
		req.Header.Set(common.ChannelIDHeaderName, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if !envelope.Success {
		return &envelope, c.mapError(resp.StatusCode, &envelope)
	}
	return &envelope, nil
}

func (c *HTTPClient) mapError(status int, envelope *models.APIResponse) error {
	msg := envelope.Error
	if msg == "" {
		msg = envelope.Message
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrChannelInvalid, msg)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
}

type channelRequest struct {
	ChannelID string `json:"channel_id,omitempty"`
}

type channelData struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

func (c *HTTPClient) CreateChannel(ctx context.Context, customID string) (string, error) {
	var body any
	if customID != "" {
		body = channelRequest{ChannelID: customID}
	}

	envelope, err := c.do(ctx, http.MethodPost, "/channel", nil, body, false)
	if err != nil {
		return "", err
	}

	var data channelData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if data.ID == "" {
		return "", fmt.Errorf("%w: missing channel id", ErrBadResponse)
	}
	return data.ID, nil
}

func (c *HTTPClient) VerifyChannel(ctx context.Context, channelID string) (bool, error) {
	_, err := c.do(ctx, http.MethodPost, "/channel/verify", nil, channelRequest{ChannelID: channelID}, false)
	if err != nil {
		if errors.Is(err, ErrChannelInvalid) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) SaveClipboard(ctx context.Context, req models.SaveRequest) (*models.Entry, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, common.ErrEmptyContent
	}

	envelope, err := c.do(ctx, http.MethodPost, "/clipboard", nil, req, true)
	if err != nil {
		return nil, err
	}

	var entry models.Entry
	if err := json.Unmarshal(envelope.Data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &entry, nil
}

func (c *HTTPClient) DeleteClipboard(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/clipboard/"+url.PathEscape(id), nil, nil, true)
	return err
}

func (c *HTTPClient) GetLatest(ctx context.Context) (*models.Entry, error) {
	envelope, err := c.do(ctx, http.MethodGet, "/clipboard", nil, nil, true)
	if err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, common.ErrorNotFound
	}

	var entry models.Entry
	if err := json.Unmarshal(envelope.Data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &entry, nil
}

type historyData struct {
	Items []models.Entry `json:"items"`
	Total int            `json:"total"`
}

func (c *HTTPClient) GetHistory(ctx context.Context, page, size int) ([]models.Entry, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	envelope, err := c.do(ctx, http.MethodGet, "/clipboard/history", query, nil, true)
	if err != nil {
		return nil, err
	}

	// The backend returns either a bare array or a paginated object.
	var items []models.Entry
	if err := json.Unmarshal(envelope.Data, &items); err == nil {
		return items, nil
	}
	var paged historyData
	if err := json.Unmarshal(envelope.Data, &paged); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return paged.Items, nil
}

var _ Client = (*HTTPClient)(nil)
