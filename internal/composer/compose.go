// Package composer transforms an ingress ChatRequest, together with a
// selected prompt format, into the single flattened prompt string the
// upstream's non-chat completion endpoint expects.
package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
	"github.com/tjfontaine/straico-gateway/internal/toolcalls"
)

// Compose is a pure function from (ChatRequest, Format) to UpstreamRequest.
// It carries no state beyond its local accumulator.
func Compose(req domain.ChatRequest, format promptformat.Format) (domain.UpstreamRequest, error) {
	var toolBlock string
	if len(req.Tools) > 0 {
		block, err := toolcalls.Encode(req.Tools, format)
		if err != nil {
			return domain.UpstreamRequest{}, err
		}
		toolBlock = block
	}

	hasSystemMessage := false
	for _, m := range req.Messages {
		if m.Role == domain.RoleSystem {
			hasSystemMessage = true
			break
		}
	}

	var b strings.Builder

	if toolBlock != "" && !hasSystemMessage {
		b.WriteString(format.SystemOpen)
		b.WriteString(toolBlock)
		b.WriteString(format.SystemClose)
	}

	toolBlockConsumed := toolBlock == ""
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem:
			text := m.Content.Flatten()
			if !toolBlockConsumed {
				text = toolBlock + "\n\n" + text
				toolBlockConsumed = true
			}
			b.WriteString(format.SystemOpen)
			b.WriteString(text)
			b.WriteString(format.SystemClose)

		case domain.RoleUser:
			b.WriteString(format.UserOpen)
			b.WriteString(m.Content.Flatten())
			b.WriteString(format.UserClose)

		case domain.RoleTool:
			b.WriteString(format.UserOpen)
			fmt.Fprintf(&b, "Tool result for %s: %s", m.ToolCallID, m.Content.Flatten())
			b.WriteString(format.UserClose)

		case domain.RoleAssistant:
			b.WriteString(format.AssistOpen)
			if !m.Content.IsZero() {
				b.WriteString(m.Content.Flatten())
			}
			if len(m.ToolCalls) > 0 {
				block, err := renderToolCalls(m.ToolCalls, format.ToolCalls)
				if err != nil {
					return domain.UpstreamRequest{}, err
				}
				b.WriteString(block)
			}
			b.WriteString(format.AssistClose)
		}
	}

	return domain.UpstreamRequest{
		Model:       req.Model,
		Message:     b.String(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// toolCallPayload is the wire shape of one rendered assistant tool call:
// {"name": <function-name>, "arguments": <args-json-object>}.
type toolCallPayload struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func renderToolCalls(calls []domain.ToolCall, tc promptformat.ToolCallFormat) (string, error) {
	var b strings.Builder
	b.WriteString(tc.BlockOpen)
	for _, call := range calls {
		args := call.Function.Arguments
		if args == "" {
			args = "{}"
		}
		payload := toolCallPayload{Name: call.Function.Name, Arguments: json.RawMessage(args)}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "", domain.ErrSerde(fmt.Sprintf("encoding assistant tool call %q: %s", call.Function.Name, err))
		}
		b.WriteString(tc.CallOpen)
		b.Write(encoded)
		b.WriteString(tc.CallClose)
	}
	b.WriteString(tc.BlockClose)
	return b.String(), nil
}
