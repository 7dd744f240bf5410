package connection

import (
	"errors"
	"fmt"
)

var (
	ErrOnConnectionReady = errors.New("onConnectionReady is required")
	ErrRetriesExhausted  = errors.New("number of retries to acquire connection exhausted")
	ErrInvalidConfig     = errors.New("invalid connection config")
)

type OnBeforeConnectError struct {
	Inner error
}

type ConnectInitError struct {
	Inner error
}

type OnConnectionCloseError struct {
	Inner error
}

// BlockedError is reported when the broker stops accepting publishes on
// the connection, usually because of a resource alarm.
type BlockedError struct {
	Reason string
}

func (e *OnBeforeConnectError) Error() string {
	return fmt.Sprintf("non library error before reconnecting: %v", e.Inner)
}

func (e *OnBeforeConnectError) Unwrap() error {
	return e.Inner
}

func (e *ConnectInitError) Error() string {
	return fmt.Sprintf("non library error after reconnect: %v", e.Inner)
}

func (e *ConnectInitError) Unwrap() error {
	return e.Inner
}

func (e *OnConnectionCloseError) Error() string {
	return fmt.Sprintf("error on closing previous connection: %v", e.Inner)
}

func (e *OnConnectionCloseError) Unwrap() error {
	return e.Inner
}

func (e *BlockedError) Error() string {
	return "connection blocked by broker: " + e.Reason
}
