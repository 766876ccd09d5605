package toolcalls

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
)

// callPayload is the JSON object a model is instructed to emit between one
// format's CallOpen/CallClose delimiters.
type callPayload struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Extraction is the result of scanning completion text for tool calls.
type Extraction struct {
	ToolCalls []domain.ToolCall
	// Content is the input text with the outermost tool-calls block removed
	// and surrounding whitespace trimmed, when any call was found.
	Content string
}

// Extract scans content for occurrences of format's per-call delimiter pair,
// in source order. A format whose ArgSeparator is not a comma has that
// separator turned back into a comma before the region is parsed as JSON.
// A delimiter region that fails to parse fails the whole
// extraction: partial tool-call lists are never returned. When no delimiter
// is present, content passes through untouched and the call list is empty.
func Extract(content string, format promptformat.Format) (Extraction, error) {
	tc := format.ToolCalls

	callPattern, err := regexp.Compile("(?s)" + regexp.QuoteMeta(tc.CallOpen) + "(.*?)" + regexp.QuoteMeta(tc.CallClose))
	if err != nil {
		return Extraction{}, domain.ErrSerde(fmt.Sprintf("compiling tool-call pattern: %s", err))
	}

	matches := callPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return Extraction{Content: content}, nil
	}

	calls := make([]domain.ToolCall, 0, len(matches))
	for i, m := range matches {
		inner := content[m[2]:m[3]]
		inner = strings.NewReplacer("\n", "", "\r", "").Replace(inner)
		if tc.ArgSeparator != "" && tc.ArgSeparator != "," {
			inner = strings.ReplaceAll(inner, tc.ArgSeparator, ",")
		}
		inner = strings.TrimSpace(inner)

		var payload callPayload
		if err := json.Unmarshal([]byte(inner), &payload); err != nil {
			return Extraction{}, domain.ErrResponseParse(fmt.Sprintf("tool call %d: %s", i, err))
		}
		if payload.Name == "" {
			return Extraction{}, domain.ErrResponseParse(fmt.Sprintf("tool call %d: missing name", i))
		}
		args, err := json.Marshal(payload.Arguments)
		if err != nil {
			return Extraction{}, domain.ErrSerde(fmt.Sprintf("tool call %d: re-serializing arguments: %s", i, err))
		}

		calls = append(calls, domain.ToolCall{
			ID:   "func_" + strconv.Itoa(i),
			Type: domain.ToolCallTypeFunction,
			Function: domain.FunctionCall{
				Name:      payload.Name,
				Arguments: string(args),
			},
		})
	}

	visible := stripOutermostBlock(content, tc)
	return Extraction{ToolCalls: calls, Content: visible}, nil
}

// stripOutermostBlock removes the span from the first BlockOpen to the last
// BlockClose in content, trimming surrounding whitespace from what remains.
// If no full block delimiter pair is present, content is returned with only
// its surrounding whitespace trimmed (the calls were still found via the
// per-call delimiters alone).
func stripOutermostBlock(content string, tc promptformat.ToolCallFormat) string {
	start := strings.Index(content, tc.BlockOpen)
	if start < 0 {
		return strings.TrimSpace(content)
	}
	end := strings.LastIndex(content, tc.BlockClose)
	if end < 0 || end < start {
		return strings.TrimSpace(content)
	}
	end += len(tc.BlockClose)

	before := content[:start]
	after := content[end:]
	return strings.TrimSpace(before + after)
}
