// Package chatapi wires the request handler that implements
// POST /v1/chat/completions: validate, select a prompt format, compose the
// upstream prompt, dispatch to Straico, and translate the result back into
// an OpenAI-shaped response or SSE stream.
package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjfontaine/straico-gateway/internal/composer"
	"github.com/tjfontaine/straico-gateway/internal/domain"
	"github.com/tjfontaine/straico-gateway/internal/promptformat"
	"github.com/tjfontaine/straico-gateway/internal/server"
	"github.com/tjfontaine/straico-gateway/internal/sse"
	"github.com/tjfontaine/straico-gateway/internal/translator"
)

// Dispatcher sends a composed UpstreamRequest to the configured upstream and
// returns its normalized response. *straico.Client satisfies this.
type Dispatcher interface {
	Complete(ctx context.Context, req domain.UpstreamRequest) (domain.UpstreamResponse, error)
}

// Handler implements the chat-completions state machine: parse, select
// format, compose, dispatch, translate or stream.
type Handler struct {
	dispatcher    Dispatcher
	logger        *slog.Logger
	heartbeatChar string
}

// New builds a Handler. heartbeatChar must already be resolved to one of
// the literal keep-alive strings (see sse.ParseHeartbeatChar).
func New(dispatcher Dispatcher, logger *slog.Logger, heartbeatChar string) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger, heartbeatChar: heartbeatChar}
}

// ServeHTTP implements POST /v1/chat/completions.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := server.GetRequestID(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, r, domain.ErrBadRequest("failed to read request body: "+err.Error()))
		return
	}

	var req domain.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, r, domain.ErrBadRequest("invalid JSON: "+err.Error()))
		return
	}

	if apiErr := validate(req); apiErr != nil {
		h.writeError(w, r, apiErr)
		return
	}

	server.AddLogField(r.Context(), "requested_model", req.Model)

	format := promptformat.Select(req.Model)

	upstreamReq, err := composer.Compose(req, format)
	if err != nil {
		h.writeError(w, r, asAPIError(err))
		return
	}

	id := translator.NewCompletionID()
	created := time.Now().Unix()

	dispatch := func(ctx context.Context) (domain.UpstreamResponse, error) {
		return h.dispatcher.Complete(ctx, upstreamReq)
	}

	if req.Stream {
		h.serveStream(w, r, requestID, id, created, req.Model, format, dispatch)
		return
	}

	resp, err := dispatch(r.Context())
	if err != nil {
		h.logger.Error("chat completion failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
			slog.String("requested_model", req.Model),
		)
		server.AddError(r.Context(), err)
		h.writeError(w, r, asAPIError(err))
		return
	}

	translated, err := translator.Translate(resp, req.Model, format, id, created)
	if err != nil {
		server.AddError(r.Context(), err)
		h.writeError(w, r, asAPIError(err))
		return
	}

	server.AddLogField(r.Context(), "served_model", translated.Model)
	h.logger.Info("chat completion",
		slog.String("request_id", requestID),
		slog.String("requested_model", req.Model),
		slog.String("served_model", translated.Model),
		slog.String("finish_reason", translated.FinishReason),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(translated.ChatResponse())
}

func (h *Handler) serveStream(w http.ResponseWriter, r *http.Request, requestID, id string, created int64, requestModel string, format promptformat.Format, dispatch sse.Dispatch) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, r, domain.ErrServiceUnavailable("streaming is not supported by this response writer"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	err := sse.Run(r.Context(), w, flusher, id, created, requestModel, format, h.heartbeatChar, dispatch)
	if err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Error("stream failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
			slog.String("requested_model", requestModel),
		)
		server.AddError(r.Context(), err)
		return
	}
	if err != nil {
		h.logger.Info("stream canceled by client", slog.String("request_id", requestID))
	}
}

// validate enforces the wire-type invariants the ingress JSON must satisfy
// beyond what encoding/json itself checks.
func validate(req domain.ChatRequest) *domain.APIError {
	if req.Model == "" {
		return domain.ErrMissingRequiredField("model")
	}
	if len(req.Messages) == 0 {
		return domain.ErrMissingRequiredField("messages")
	}
	if req.Temperature != nil && (*req.Temperature < 0 || *req.Temperature > 2) {
		return domain.ErrInvalidParameter("temperature", "must be between 0 and 2")
	}

	if first := req.Messages[0].Role; first != domain.RoleSystem && first != domain.RoleUser {
		return domain.ErrInvalidParameter("messages", "first message must have role system or user")
	}

	// Tool-call ids issued by earlier assistant turns, so a tool message can
	// be checked against the call it answers.
	issued := make(map[string]bool)
	for i, m := range req.Messages {
		switch m.Role {
		case domain.RoleSystem, domain.RoleUser:
			if err := m.Content.Validate(); err != nil {
				return err.(*domain.APIError)
			}

		case domain.RoleAssistant:
			if m.Content.IsZero() && len(m.ToolCalls) == 0 {
				return domain.ErrInvalidParameter("messages", "assistant message needs content or tool_calls")
			}
			if err := m.Content.Validate(); err != nil {
				return err.(*domain.APIError)
			}
			for _, call := range m.ToolCalls {
				issued[call.ID] = true
			}

		case domain.RoleTool:
			if i == 0 || !issued[m.ToolCallID] {
				return domain.ErrInvalidParameter("messages", "tool message does not answer any earlier assistant tool call")
			}
			if err := m.Content.Validate(); err != nil {
				return err.(*domain.APIError)
			}

		default:
			return domain.ErrInvalidParameter("messages", "unsupported role: "+m.Role)
		}
	}
	return nil
}

// asAPIError coerces any error into the canonical *domain.APIError shape,
// wrapping anything that isn't already one as a ServiceUnavailable error.
func asAPIError(err error) *domain.APIError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return domain.ErrServiceUnavailable(err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, apiErr *domain.APIError) {
	server.AddError(r.Context(), apiErr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatusCode())
	json.NewEncoder(w).Encode(apiErr.ToBody())
}
