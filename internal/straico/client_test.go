package straico

import (
	"context"
	"testing"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/testutil"
)

func TestCompleteSuccess(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "complete_success")
	defer cleanup()

	client := NewClient("test-token", WithHTTPClient(testutil.VCRHTTPClient(r)))

	resp, err := client.Complete(context.Background(), domain.UpstreamRequest{
		Model:   "gpt-4o",
		Message: "User: Hello\n",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Completion != "Hi! How can I help?" {
		t.Errorf("Completion = %q", resp.Completion)
	}
	if resp.Usage.TotalTokens != 12 {
		t.Errorf("Usage.TotalTokens = %d, want 12", resp.Usage.TotalTokens)
	}
}

func TestCompleteRateLimited(t *testing.T) {
	r, cleanup := testutil.NewVCRRecorder(t, "complete_rate_limited")
	defer cleanup()

	client := NewClient("test-token", WithHTTPClient(testutil.VCRHTTPClient(r)))

	_, err := client.Complete(context.Background(), domain.UpstreamRequest{
		Model:   "gpt-4o",
		Message: "User: Hello\n",
	})
	if err == nil {
		t.Fatal("expected rate-limit error")
	}
	apiErr, ok := err.(*domain.APIError)
	if !ok {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Kind != domain.KindRateLimited {
		t.Errorf("Kind = %v, want KindRateLimited", apiErr.Kind)
	}
	if apiErr.RetryAfter != "30" {
		t.Errorf("RetryAfter = %q, want 30", apiErr.RetryAfter)
	}
}
