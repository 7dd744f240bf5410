package consumer

import (
	"errors"
	"fmt"
)

var (
	ErrQueueNameRequired = errors.New("queue name is required")
	ErrHandlerRequired   = errors.New("handler is required")
	ErrAlreadyStarted    = errors.New("consumer is already started")
)

type (
	QueueDeclarationError    struct{ Inner error }
	ListenerStartFailedError struct{ Inner error }
)

func (e *QueueDeclarationError) Error() string {
	return fmt.Sprintf("queue declaration error: %v", e.Inner)
}

func (e *QueueDeclarationError) Unwrap() error {
	return e.Inner
}

func (e *ListenerStartFailedError) Error() string {
	return fmt.Sprintf("failed to start listener: %v", e.Inner)
}

func (e *ListenerStartFailedError) Unwrap() error {
	return e.Inner
}
