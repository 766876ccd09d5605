// Package promptformat is the single source of truth for the per-model-family
// text protocol: the turn markers and tool-call delimiters the tool encoder,
// prompt composer, and tool-call extractor all read from the same record for
// a given model, so the three never drift out of sync with one another.
package promptformat

import "strings"

// ToolCallFormat holds the delimiter strings used to wrap one or more
// tool-call records embedded in prompt text.
type ToolCallFormat struct {
	BlockOpen     string
	CallOpen      string
	CallClose     string
	BlockClose    string
	ArgSeparator  string
}

// Format is a per-model-family record of turn markers and tool-call
// delimiters. Formats are static data, chosen once by model-name substring
// match; they carry no behavior of their own.
type Format struct {
	Name string

	SystemOpen  string
	SystemClose string
	UserOpen    string
	UserClose   string
	AssistOpen  string
	AssistClose string

	ToolCalls ToolCallFormat
}

// genericFormat is used when no family token matches the model identifier.
var genericFormat = Format{
	Name:        "generic",
	SystemOpen:  "System: ",
	SystemClose: "\n",
	UserOpen:    "User: ",
	UserClose:   "\n",
	AssistOpen:  "Assistant: ",
	AssistClose: "\n",
	ToolCalls: ToolCallFormat{
		BlockOpen:    "<tool_calls>",
		CallOpen:     "<tool_call>",
		CallClose:    "</tool_call>",
		BlockClose:   "</tool_calls>",
		ArgSeparator: ",",
	},
}

// family pairs a substring token with its format. Order matters: the
// registry walks this table in order and the first match wins, so ties are
// broken by table order (anthropic before others).
type family struct {
	tokens []string
	format Format
}

var families = []family{
	{
		tokens: []string{"anthropic"},
		format: Format{
			Name:        "anthropic",
			SystemOpen:  "",
			SystemClose: "\n",
			UserOpen:    "\nHuman: ",
			UserClose:   "\n",
			AssistOpen:  "\nAssistant: ",
			AssistClose: "\n",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<tool_calls>",
				CallOpen:     "<tool_call>",
				CallClose:    "</tool_call>",
				BlockClose:   "</tool_calls>",
				ArgSeparator: ",",
			},
		},
	},
	{
		tokens: []string{"mistral"},
		format: Format{
			Name:        "mistral",
			SystemOpen:  "[INST] <<SYS>>",
			SystemClose: "<</SYS>> [/INST]",
			UserOpen:    "[INST]",
			UserClose:   "[/INST]",
			AssistOpen:  "",
			AssistClose: "",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<tool_calls>",
				CallOpen:     "<tool_call>",
				CallClose:    "</tool_call>",
				BlockClose:   "</tool_calls>",
				ArgSeparator: ",",
			},
		},
	},
	{
		tokens: []string{"llama3", "llama-3", "llama-4"},
		format: Format{
			Name:        "llama3",
			SystemOpen:  "<|start_header_id|>system<|end_header_id|>\n\n",
			SystemClose: "<|eot_id|>",
			UserOpen:    "<|start_header_id|>user<|end_header_id|>\n\n",
			UserClose:   "<|eot_id|>",
			AssistOpen:  "<|start_header_id|>assistant<|end_header_id|>\n\n",
			AssistClose: "<|eot_id|>",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<tool_calls>",
				CallOpen:     "<tool_call>",
				CallClose:    "</tool_call>",
				BlockClose:   "</tool_calls>",
				ArgSeparator: ",",
			},
		},
	},
	{
		tokens: []string{"command"},
		format: Format{
			Name:        "command",
			SystemOpen:  "<|START_OF_TURN_TOKEN|><|SYSTEM_TOKEN|>",
			SystemClose: "<|END_OF_TURN_TOKEN|>",
			UserOpen:    "<|START_OF_TURN_TOKEN|><|USER_TOKEN|>",
			UserClose:   "<|END_OF_TURN_TOKEN|>",
			AssistOpen:  "<|START_OF_TURN_TOKEN|><|CHATBOT_TOKEN|>",
			AssistClose: "<|END_OF_TURN_TOKEN|>",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<tool_calls>",
				CallOpen:     "<tool_call>",
				CallClose:    "</tool_call>",
				BlockClose:   "</tool_calls>",
				ArgSeparator: ",",
			},
		},
	},
	{
		tokens: []string{"qwen"},
		format: Format{
			Name:        "qwen",
			SystemOpen:  "<|im_start|>system\n",
			SystemClose: "<|im_end|>",
			UserOpen:    "<|im_start|>user\n",
			UserClose:   "<|im_end|>",
			AssistOpen:  "<|im_start|>assistant\n",
			AssistClose: "<|im_end|>",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<tool_calls>",
				CallOpen:     "<tool_call>",
				CallClose:    "</tool_call>",
				BlockClose:   "</tool_calls>",
				ArgSeparator: ",",
			},
		},
	},
	{
		tokens: []string{"deepseek"},
		format: Format{
			Name:        "deepseek",
			SystemOpen:  "",
			SystemClose: "",
			UserOpen:    "<|User|>",
			UserClose:   "",
			AssistOpen:  "<|Assistant|>",
			AssistClose: "<|end_of_sentence|>",
			ToolCalls: ToolCallFormat{
				BlockOpen:    "<|tool_calls_begin|>",
				CallOpen:     "<|tool_call_begin|>",
				CallClose:    "<|tool_call_end|>",
				BlockClose:   "<|tool_calls_end|>",
				ArgSeparator: "<|tool_sep|>",
			},
		},
	},
}

// Select returns the format whose family token first matches model,
// case-insensitively, by substring. When no family matches, the generic
// format is returned.
func Select(model string) Format {
	lower := strings.ToLower(model)
	for _, fam := range families {
		for _, token := range fam.tokens {
			if strings.Contains(lower, token) {
				return fam.format
			}
		}
	}
	return genericFormat
}
