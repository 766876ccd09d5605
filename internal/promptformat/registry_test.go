package promptformat

import "testing"

func TestSelectMatchesKnownFamilies(t *testing.T) {
	cases := map[string]string{
		"claude-3-5-sonnet-anthropic": "anthropic",
		"mistral-large-latest":        "mistral",
		"meta-llama3-70b":             "llama3",
		"meta-llama-3.1-8b":           "llama3",
		"command-r-plus":              "command",
		"qwen2.5-72b-instruct":        "qwen",
		"deepseek-chat":               "deepseek",
		"gpt-4o-mini":                 "generic",
	}
	for model, want := range cases {
		if got := Select(model).Name; got != want {
			t.Errorf("Select(%q).Name = %q, want %q", model, got, want)
		}
	}
}

func TestSelectIsCaseInsensitive(t *testing.T) {
	if got := Select("QWEN2-72B"); got.Name != "qwen" {
		t.Errorf("Select(QWEN2-72B).Name = %q, want qwen", got.Name)
	}
}

func TestFamilyMarkers(t *testing.T) {
	mistral := Select("mistral-large-latest")
	if mistral.SystemOpen != "[INST] <<SYS>>" || mistral.SystemClose != "<</SYS>> [/INST]" {
		t.Errorf("mistral system markers = %q/%q", mistral.SystemOpen, mistral.SystemClose)
	}
	if mistral.ToolCalls.CallOpen != "<tool_call>" {
		t.Errorf("mistral CallOpen = %q, want the default delimiters", mistral.ToolCalls.CallOpen)
	}

	deepseek := Select("deepseek-chat")
	if deepseek.ToolCalls.BlockOpen != "<|tool_calls_begin|>" || deepseek.ToolCalls.ArgSeparator != "<|tool_sep|>" {
		t.Errorf("deepseek tool-call format = %+v", deepseek.ToolCalls)
	}
	if deepseek.UserOpen != "<|User|>" || deepseek.AssistOpen != "<|Assistant|>" {
		t.Errorf("deepseek turn markers = %q/%q", deepseek.UserOpen, deepseek.AssistOpen)
	}

	anthropic := Select("anthropic.claude-3-5-sonnet")
	if anthropic.SystemOpen != "" || anthropic.UserOpen != "\nHuman: " {
		t.Errorf("anthropic markers = %q/%q", anthropic.SystemOpen, anthropic.UserOpen)
	}
}

func TestSelectAnthropicPrecedesOtherTokens(t *testing.T) {
	if got := Select("anthropic.claude-3-mistral-bridge"); got.Name != "anthropic" {
		t.Errorf("Select = %q, want anthropic (first table match wins)", got.Name)
	}
}
