package models

import (
	"encoding/json"
	"net/url"
	"strings"
)

// EntryType classifies clipboard content on the backend.
type EntryType string

const (
	TypeText     EntryType = "text"
	TypeLink     EntryType = "link"
	TypeCode     EntryType = "code"
	TypePassword EntryType = "password"
	TypeImage    EntryType = "image"
	TypeFile     EntryType = "file"
	TypeOther    EntryType = "other"
)

// DeviceType tags the kind of device an entry originated from.
type DeviceType string

const (
	DevicePhone   DeviceType = "phone"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceOther   DeviceType = "other"
)

// Entry is a stored clipboard record as returned by the backend.
type Entry struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Type       EntryType  `json:"type"`
	Favorite   bool       `json:"favorite"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at,omitempty"`
	DeviceID   string     `json:"device_id"`
	DeviceType DeviceType `json:"device_type,omitempty"`
}

// SaveRequest is the payload for creating a clipboard entry.
type SaveRequest struct {
	Title      string     `json:"title,omitempty"`
	Content    string     `json:"content"`
	Type       EntryType  `json:"type,omitempty"`
	DeviceID   string     `json:"device_id"`
	DeviceType DeviceType `json:"device_type,omitempty"`
}

// APIResponse is the backend's uniform response envelope.
type APIResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

var codeMarkers = []string{"function ", "class ", "def ", "import ", "package ", "func "}

// DetectType guesses the content type of a clipboard string: URLs become
// links, code-looking text becomes code, everything else is plain text.
func DetectType(content string) EntryType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return TypeText
	}

	if u, err := url.Parse(trimmed); err == nil &&
		(u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && !strings.ContainsAny(trimmed, " \n") {
		return TypeLink
	}

	if strings.Contains(trimmed, "{") && strings.Contains(trimmed, "}") {
		return TypeCode
	}
	if strings.Contains(trimmed, "<") && strings.Contains(trimmed, ">") {
		return TypeCode
	}
	for _, marker := range codeMarkers {
		if strings.Contains(trimmed, marker) {
			return TypeCode
		}
	}

	return TypeText
}
