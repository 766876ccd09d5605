// Package sse emulates a live text/event-stream on top of an upstream that
// only ever answers with one payload after its full compute completes: an
// initial chunk, a heartbeat cadence, then a translated terminal chunk.
package sse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tjfontaine/straico-gateway/internal/domain"
)

// WriteChunk frames v as a single SSE data line: "data: <json>\n\n".
func WriteChunk(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return domain.ErrSerde(fmt.Sprintf("encoding SSE chunk: %s", err))
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// WriteDone emits the literal terminator line.
func WriteDone(w io.Writer) error {
	_, err := io.WriteString(w, "data: [DONE]\n\n")
	return err
}

// WriteError frames body as the single error data chunk that closes a
// stream without a following [DONE].
func WriteError(w io.Writer, body domain.Body) error {
	return WriteChunk(w, body)
}

// ErrorBody converts err into the OpenAI-shaped error body, treating
// anything that is not already an *domain.APIError as a service failure.
func ErrorBody(err error) domain.Body {
	if apiErr, ok := err.(*domain.APIError); ok {
		return apiErr.ToBody()
	}
	return domain.ErrServiceUnavailable(err.Error()).ToBody()
}
