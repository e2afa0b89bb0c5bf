package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a research pipeline failure.
type Kind string

const (
	KindSessionNotFound Kind = "session_not_found"
	KindCredential      Kind = "credential"
	KindQuotaExceeded   Kind = "quota_exceeded"
	KindGatewayServer   Kind = "gateway_server"
	KindGenerationParse Kind = "generation_parse"
	KindNoResults       Kind = "no_results"
	KindUnknown         Kind = "unknown"
)

// ResearchError is a classified pipeline failure with a user-facing message.
type ResearchError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ResearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResearchError) Unwrap() error {
	return e.Err
}

// NewResearchError creates a ResearchError of the given kind wrapping err.
func NewResearchError(kind Kind, message string, err error) *ResearchError {
	return &ResearchError{Kind: kind, Message: message, Err: err}
}

// GatewayStatusError is an HTTP-level failure from an external gateway.
// Gateways return it so classification can see the status code.
type GatewayStatusError struct {
	Gateway    string
	StatusCode int
	Body       string
}

func (e *GatewayStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Gateway, e.StatusCode, e.Body)
}

// Classify maps an arbitrary pipeline error onto the research taxonomy.
// Detection mirrors the user-visible behavior: "API key" in the error text
// means a credential problem, 429 or "quota" means quota exhaustion, 5xx
// means a gateway-side failure.
func Classify(err error) *ResearchError {
	if err == nil {
		return nil
	}

	var re *ResearchError
	if errors.As(err, &re) {
		return re
	}

	var se *GatewayStatusError
	status := 0
	if errors.As(err, &se) {
		status = se.StatusCode
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return NewResearchError(KindCredential,
			"Invalid or unauthorized API key. Please check your API key and try again.", err)
	case status == http.StatusTooManyRequests || strings.Contains(strings.ToLower(msg), "quota"):
		return NewResearchError(KindQuotaExceeded,
			"API quota exceeded. Please try again later or use a different API key.", err)
	case status >= 500:
		return NewResearchError(KindGatewayServer,
			"Server error. Please try again later.", err)
	default:
		return NewResearchError(KindUnknown, "Error: "+msg, err)
	}
}

// UserMessage returns the message shown verbatim to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if re := Classify(err); re != nil {
		return re.Message
	}
	return err.Error()
}
