package errors

import (
	"fmt"
	"testing"
)

func TestClassifyCredential(t *testing.T) {
	err := fmt.Errorf("generation API returned status 400: API key not valid")

	re := Classify(err)
	if re.Kind != KindCredential {
		t.Errorf("Expected credential kind, got %q", re.Kind)
	}
	if re.Message != "Invalid or unauthorized API key. Please check your API key and try again." {
		t.Errorf("Unexpected message: %q", re.Message)
	}
}

func TestClassifyQuota(t *testing.T) {
	byStatus := Classify(&GatewayStatusError{Gateway: "generation API", StatusCode: 429, Body: "slow down"})
	if byStatus.Kind != KindQuotaExceeded {
		t.Errorf("Expected quota kind for 429, got %q", byStatus.Kind)
	}

	byMessage := Classify(fmt.Errorf("Resource quota has been exhausted"))
	if byMessage.Kind != KindQuotaExceeded {
		t.Errorf("Expected quota kind for quota message, got %q", byMessage.Kind)
	}
}

func TestClassifyGatewayServer(t *testing.T) {
	re := Classify(&GatewayStatusError{Gateway: "search API", StatusCode: 503, Body: "unavailable"})
	if re.Kind != KindGatewayServer {
		t.Errorf("Expected gateway server kind, got %q", re.Kind)
	}
	if re.Message != "Server error. Please try again later." {
		t.Errorf("Unexpected message: %q", re.Message)
	}
}

func TestClassifyUnknown(t *testing.T) {
	re := Classify(fmt.Errorf("something odd happened"))
	if re.Kind != KindUnknown {
		t.Errorf("Expected unknown kind, got %q", re.Kind)
	}
	if re.Message != "Error: something odd happened" {
		t.Errorf("Unexpected message: %q", re.Message)
	}
}

func TestClassifyPassesThroughResearchErrors(t *testing.T) {
	original := NewResearchError(KindNoResults, "No search results found.", nil)
	wrapped := fmt.Errorf("pipeline: %w", original)

	if re := Classify(wrapped); re != original {
		t.Error("Expected the wrapped ResearchError to be returned as-is")
	}
}

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("Expected empty message for nil, got %q", got)
	}

	err := NewResearchError(KindNoResults, "No search results found.", fmt.Errorf("detail"))
	if got := UserMessage(err); got != "No search results found." {
		t.Errorf("Expected the user-facing message without the cause, got %q", got)
	}
}
