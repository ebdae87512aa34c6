// Package common contains shared constants and sentinel errors used across
// ClipFlow components.
package common

// ChannelIDHeaderName is the HTTP header used to carry the channel id on
// outbound requests. Channel create/verify calls do not send it.
const ChannelIDHeaderName = "X-Channel-ID"
