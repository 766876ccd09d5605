// Package translator assembles OpenAI-shaped chat-completion responses and
// stream chunks from an upstream completion, running the tool-call
// extractor against the raw text along the way.
package translator

import (
	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
	"github.com/tjfontaine/straico-gateway/internal/toolcalls"
)

// Translated holds the pieces shared by both the non-streaming response and
// the streaming terminal chunk: the extractor's output plus the finish
// reason it implies.
type Translated struct {
	ID           string
	Created      int64
	Model        string
	Content      *string
	ToolCalls    []domain.ToolCall
	FinishReason string
	Usage        domain.Usage
}

// Translate runs the tool-call extractor over resp.Completion and builds
// the shared translation result. now is the Unix timestamp to stamp as
// "created"; id is the chat-completion id to reuse across a stream's chunks.
func Translate(resp domain.UpstreamResponse, requestModel string, format promptformat.Format, id string, now int64) (Translated, error) {
	ex, err := toolcalls.Extract(resp.Completion, format)
	if err != nil {
		return Translated{}, err
	}

	model := resp.Model
	if model == "" {
		model = requestModel
	}

	t := Translated{
		ID:      id,
		Created: now,
		Model:   model,
		Usage:   resp.Usage,
	}

	if len(ex.ToolCalls) > 0 {
		t.ToolCalls = ex.ToolCalls
		t.FinishReason = domain.FinishReasonToolCalls
	} else {
		content := ex.Content
		t.Content = &content
		t.FinishReason = domain.FinishReasonStop
	}

	return t, nil
}

// ChatResponse renders t as the non-streaming chat-completion object.
func (t Translated) ChatResponse() domain.ChatResponse {
	msg := domain.ChatMessage{Role: domain.RoleAssistant, Content: t.Content}
	if len(t.ToolCalls) > 0 {
		msg.ToolCalls = t.ToolCalls
	}
	return domain.ChatResponse{
		ID:      t.ID,
		Object:  domain.ObjectChatCompletion,
		Created: t.Created,
		Model:   t.Model,
		Choices: []domain.Choice{{Index: 0, Message: msg, FinishReason: t.FinishReason}},
		Usage:   t.Usage,
	}
}

// TerminalChunk renders t as the final StreamChunk of a stream: the one
// carrying full content and a non-nil finish_reason.
func (t Translated) TerminalChunk() domain.StreamChunk {
	delta := domain.Delta{}
	if len(t.ToolCalls) > 0 {
		delta.ToolCalls = t.ToolCalls
	} else if t.Content != nil {
		delta.Content = *t.Content
	}
	finish := t.FinishReason
	return domain.StreamChunk{
		ID:      t.ID,
		Object:  domain.StreamObjectChunk,
		Created: t.Created,
		Model:   t.Model,
		Choices: []domain.ChunkChoice{{Index: 0, Delta: delta, FinishReason: &finish}},
	}
}

// InitialChunk returns the first chunk of a stream: role announced, no
// content, finish_reason unset.
func InitialChunk(id string, created int64, model string) domain.StreamChunk {
	return domain.StreamChunk{
		ID:      id,
		Object:  domain.StreamObjectChunk,
		Created: created,
		Model:   model,
		Choices: []domain.ChunkChoice{{Index: 0, Delta: domain.Delta{Role: domain.RoleAssistant}}},
	}
}

// HeartbeatChunk returns one heartbeat chunk carrying heartbeatChar as its
// delta content.
func HeartbeatChunk(id string, created int64, model string, heartbeatChar string) domain.StreamChunk {
	return domain.StreamChunk{
		ID:      id,
		Object:  domain.StreamObjectChunk,
		Created: created,
		Model:   model,
		Choices: []domain.ChunkChoice{{Index: 0, Delta: domain.Delta{Content: heartbeatChar}}},
	}
}
