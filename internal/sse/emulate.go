package sse

import (
	"context"
	"io"
	"time"

	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
	"github.com/tjfontaine/straico-gateway/internal/translator"
)

// heartbeatInterval is the wall-clock cadence of keep-alive chunks; the
// first one fires this long after stream start, not immediately. Variable so
// tests can tighten it.
var heartbeatInterval = 3 * time.Second

// Dispatch performs the upstream call for one streamed request.
type Dispatch func(ctx context.Context) (domain.UpstreamResponse, error)

// Flusher is satisfied by http.ResponseWriter when the underlying transport
// supports chunked flushing.
type Flusher interface {
	Flush()
}

// Run drives one emulated stream end to end against w: initial chunk, a
// 3-second heartbeat cadence cancelled the instant dispatch resolves, the
// translated terminal chunk, then [DONE]. If dispatch or translation fails,
// a single error chunk is written instead of a terminal chunk and the
// stream closes without [DONE]. The returned error is nil whenever a chunk
// stream was successfully written to completion, including the error-chunk
// path — callers should not also write an HTTP error body after Run returns.
func Run(ctx context.Context, w io.Writer, flush Flusher, id string, created int64, requestModel string, format promptformat.Format, heartbeatChar string, dispatch Dispatch) error {
	if err := WriteChunk(w, translator.InitialChunk(id, created, requestModel)); err != nil {
		return err
	}
	flush.Flush()

	type outcome struct {
		resp domain.UpstreamResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := dispatch(ctx)
		done <- outcome{resp, err}
	}()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := WriteChunk(w, translator.HeartbeatChunk(id, created, requestModel, heartbeatChar)); err != nil {
				return err
			}
			flush.Flush()

		case out := <-done:
			ticker.Stop()
			if out.err != nil {
				werr := WriteError(w, ErrorBody(out.err))
				flush.Flush()
				return werr
			}

			translated, err := translator.Translate(out.resp, requestModel, format, id, created)
			if err != nil {
				werr := WriteError(w, ErrorBody(err))
				flush.Flush()
				return werr
			}

			if err := WriteChunk(w, translated.TerminalChunk()); err != nil {
				return err
			}
			if err := WriteDone(w); err != nil {
				return err
			}
			flush.Flush()
			return nil
		}
	}
}
