package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrChannelInvalid = errors.New("channel invalid")
	ErrBadResponse    = errors.New("malformed server response")
)
