package contracts

import "time"

// MessageEnvelope wraps a message with its addressing and transport headers.
type MessageEnvelope interface {
	GetMessageID() string
	GetRequestID() string
	GetCorrelationID() string
	GetConversationID() string
	GetInitiatorID() string
	GetSourceAddress() string
	GetDestinationAddress() string
	GetResponseAddress() string
	GetFaultAddress() string
	GetMessageType() []string
	GetMessage() any
	GetExpirationTime() *time.Time
	GetSentTime() *time.Time
	GetHeaders() map[string]any
	GetHost() HostInfo
}

type JSONMessageEnvelope struct {
	Message            any            `json:"message"`
	ExpirationTime     *time.Time     `json:"expirationTime,omitempty"`
	SentTime           *time.Time     `json:"sentTime,omitempty"`
	Headers            map[string]any `json:"headers,omitempty"`
	Host               *BusHostInfo   `json:"host,omitempty"`
	MessageID          string         `json:"messageId,omitempty"`
	RequestID          string         `json:"requestId,omitempty"`
	CorrelationID      string         `json:"correlationId,omitempty"`
	ConversationID     string         `json:"conversationId,omitempty"`
	InitiatorID        string         `json:"initiatorId,omitempty"`
	SourceAddress      string         `json:"sourceAddress,omitempty"`
	DestinationAddress string         `json:"destinationAddress,omitempty"`
	ResponseAddress    string         `json:"responseAddress,omitempty"`
	FaultAddress       string         `json:"faultAddress,omitempty"`
	MessageType        []string       `json:"messageType"`
}

func (e *JSONMessageEnvelope) GetMessageID() string          { return e.MessageID }
func (e *JSONMessageEnvelope) GetRequestID() string          { return e.RequestID }
func (e *JSONMessageEnvelope) GetCorrelationID() string      { return e.CorrelationID }
func (e *JSONMessageEnvelope) GetConversationID() string     { return e.ConversationID }
func (e *JSONMessageEnvelope) GetInitiatorID() string        { return e.InitiatorID }
func (e *JSONMessageEnvelope) GetSourceAddress() string      { return e.SourceAddress }
func (e *JSONMessageEnvelope) GetDestinationAddress() string { return e.DestinationAddress }
func (e *JSONMessageEnvelope) GetResponseAddress() string    { return e.ResponseAddress }
func (e *JSONMessageEnvelope) GetFaultAddress() string       { return e.FaultAddress }
func (e *JSONMessageEnvelope) GetMessageType() []string      { return e.MessageType }
func (e *JSONMessageEnvelope) GetMessage() any               { return e.Message }
func (e *JSONMessageEnvelope) GetExpirationTime() *time.Time { return e.ExpirationTime }
func (e *JSONMessageEnvelope) GetSentTime() *time.Time       { return e.SentTime }
func (e *JSONMessageEnvelope) GetHeaders() map[string]any    { return e.Headers }
func (e *JSONMessageEnvelope) GetHost() HostInfo             { return hostOrNil(e.Host) }
