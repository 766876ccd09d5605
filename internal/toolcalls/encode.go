// Package toolcalls embeds tool definitions into prompt text and extracts
// tool-call records back out of a completion, using the delimiters named by
// a promptformat.Format so the two halves never disagree about markup.
package toolcalls

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
)

const preamble = `
# Tools

You may call one or more functions to assist with the user query

You are provided with available function signatures within <tools></tools> XML tags:
<tools>
`

// Encode renders tools as a single deterministic text block: the fixed
// preamble, each tool's function descriptor as pretty-printed JSON inside a
// <tools> enclosure, and a postamble instructing the model to emit calls
// using format's tool-call delimiters. Identical inputs always yield
// byte-identical output.
func Encode(tools []domain.ToolDefinition, format promptformat.Format) (string, error) {
	var b strings.Builder
	b.WriteString(preamble)
	for _, tool := range tools {
		encoded, err := json.MarshalIndent(tool.Function, "", "  ")
		if err != nil {
			return "", domain.ErrSerde(fmt.Sprintf("encoding tool %q: %s", tool.Function.Name, err))
		}
		b.Write(encoded)
	}

	tc := format.ToolCalls
	b.WriteString("\n</tools>\n# Tool Calls\n\nStart with the opening tag ")
	b.WriteString(tc.BlockOpen)
	b.WriteString(". For each tool call, return a json object with function name and arguments within ")
	b.WriteString(tc.CallOpen)
	b.WriteString(tc.CallClose)
	b.WriteString(" tags:\n")
	b.WriteString(tc.CallOpen)
	b.WriteString(`{"name": <function-name>`)
	b.WriteString(tc.ArgSeparator)
	b.WriteString(` "arguments": <args-json-object>}`)
	b.WriteString(tc.CallClose)
	b.WriteString(". close the tool calls section with ")
	b.WriteString(tc.BlockClose)
	b.WriteString("\n")

	return b.String(), nil
}
