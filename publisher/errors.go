package publisher

import "errors"

var (
	ErrExchangeNameRequired = errors.New("exchange name is required")
	ErrChannelNotReady      = errors.New("publishing channel is not ready")
	ErrClosed               = errors.New("publisher is closed")
)
