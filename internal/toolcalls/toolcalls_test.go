package toolcalls

import (
	"strings"
	"testing"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
)

func testTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Type: domain.ToolCallTypeFunction,
			Function: domain.FunctionDef{
				Name:        "get_weather",
				Description: "Get the weather for a city",
				Parameters:  map[string]any{"type": "object", "properties": map[string]any{"city": map[string]any{"type": "string"}}},
			},
		},
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	first, err := Encode(testTools(), format)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode(testTools(), format)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first != second {
		t.Fatal("Encode produced different output for identical input")
	}
	if !strings.Contains(first, "<tools>") || !strings.Contains(first, "get_weather") {
		t.Fatalf("Encode output missing expected markers: %s", first)
	}
}

func TestEncodeUsesFormatDelimiters(t *testing.T) {
	format := promptformat.Select("deepseek-chat")
	out, err := Encode(testTools(), format)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(out, "<|tool_calls_begin|>") || !strings.Contains(out, "<|tool_call_end|>") {
		t.Fatalf("expected deepseek delimiters in output, got: %s", out)
	}
	if !strings.Contains(out, "<|tool_sep|>") {
		t.Fatalf("expected deepseek argument separator in output, got: %s", out)
	}
}

func TestExtractDeepseekDelimiters(t *testing.T) {
	format := promptformat.Select("deepseek-chat")
	content := `<|tool_calls_begin|><|tool_call_begin|>{"name": "get_weather", "arguments": {"city": "Paris"}}<|tool_call_end|><|tool_calls_end|>`
	ex, err := Extract(content, format)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.ToolCalls) != 1 || ex.ToolCalls[0].Function.Name != "get_weather" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
	if ex.Content != "" {
		t.Fatalf("Content = %q, want block stripped", ex.Content)
	}
}

func TestExtractNoDelimiterPassesThrough(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	ex, err := Extract("just plain text", format)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.ToolCalls) != 0 {
		t.Fatalf("expected no tool calls, got %d", len(ex.ToolCalls))
	}
	if ex.Content != "just plain text" {
		t.Fatalf("Content = %q, want unchanged", ex.Content)
	}
}

func TestExtractSingleCall(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	content := `here you go <tool_calls><tool_call>{"name": "get_weather", "arguments": {"city": "Paris"}}</tool_call></tool_calls>`
	ex, err := Extract(content, format)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(ex.ToolCalls))
	}
	call := ex.ToolCalls[0]
	if call.ID != "func_0" {
		t.Errorf("ID = %q, want func_0", call.ID)
	}
	if call.Function.Name != "get_weather" {
		t.Errorf("Name = %q, want get_weather", call.Function.Name)
	}
	if ex.Content != "here you go" {
		t.Errorf("Content = %q, want %q", ex.Content, "here you go")
	}
}

func TestExtractMultipleCallsPreservesOrder(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	content := `<tool_calls><tool_call>{"name": "a", "arguments": {}}</tool_call><tool_call>{"name": "b", "arguments": {}}</tool_call></tool_calls>`
	ex, err := Extract(content, format)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls, got %d", len(ex.ToolCalls))
	}
	if ex.ToolCalls[0].Function.Name != "a" || ex.ToolCalls[0].ID != "func_0" {
		t.Errorf("first call = %+v", ex.ToolCalls[0])
	}
	if ex.ToolCalls[1].Function.Name != "b" || ex.ToolCalls[1].ID != "func_1" {
		t.Errorf("second call = %+v", ex.ToolCalls[1])
	}
}

func TestExtractMalformedCallFailsWhole(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	content := `<tool_calls><tool_call>{"name": "a", "arguments": {}}</tool_call><tool_call>not json</tool_call></tool_calls>`
	_, err := Extract(content, format)
	if err == nil {
		t.Fatal("expected error for malformed second tool call, got nil")
	}
	apiErr, ok := err.(*domain.APIError)
	if !ok {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
	if apiErr.Kind != domain.KindResponseParse {
		t.Errorf("Kind = %v, want KindResponseParse", apiErr.Kind)
	}
}

func TestExtractToleratesEmbeddedNewlines(t *testing.T) {
	format := promptformat.Select("gpt-4o")
	content := "<tool_calls><tool_call>\n{\"name\": \"a\",\n\"arguments\": {}}\n</tool_call></tool_calls>"
	ex, err := Extract(content, format)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(ex.ToolCalls) != 1 || ex.ToolCalls[0].Function.Name != "a" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
}
