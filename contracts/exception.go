package contracts

import (
	"errors"
	"fmt"
)

type ExceptionInfo interface {
	GetExceptionType() string
	GetInnerException() ExceptionInfo
	GetStackTrace() string
	GetMessage() string
	GetSource() string
	GetData() map[string]any
}

type FaultExceptionInfo struct {
	InnerException *FaultExceptionInfo `json:"innerException,omitempty"`
	Data           map[string]any      `json:"data,omitempty"`
	ExceptionType  string              `json:"exceptionType"`
	StackTrace     string              `json:"stackTrace,omitempty"`
	Message        string              `json:"message"`
	Source         string              `json:"source,omitempty"`
}

// NewFaultExceptionInfo flattens err and the chain returned by errors.Unwrap.
// It returns nil for a nil error.
func NewFaultExceptionInfo(err error) *FaultExceptionInfo {
	if err == nil {
		return nil
	}

	return &FaultExceptionInfo{
		ExceptionType:  fmt.Sprintf("%T", err),
		Message:        err.Error(),
		Source:         modulePath,
		InnerException: NewFaultExceptionInfo(errors.Unwrap(err)),
	}
}

func (e *FaultExceptionInfo) GetExceptionType() string { return e.ExceptionType }
func (e *FaultExceptionInfo) GetStackTrace() string    { return e.StackTrace }
func (e *FaultExceptionInfo) GetMessage() string       { return e.Message }
func (e *FaultExceptionInfo) GetSource() string        { return e.Source }
func (e *FaultExceptionInfo) GetData() map[string]any  { return e.Data }

func (e *FaultExceptionInfo) GetInnerException() ExceptionInfo {
	return exceptionOrNil(e.InnerException)
}

func exceptionOrNil(e *FaultExceptionInfo) ExceptionInfo {
	if e == nil {
		return nil
	}

	return e
}
