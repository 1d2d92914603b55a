package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	common "openai2gemini-go/internal/handlers/common"

	apperrors "openai2gemini-go/internal/errors"
	"openai2gemini-go/internal/translator"
	upgem "openai2gemini-go/internal/upstream/gemini"
)

// chatChoice is one completion choice in the response envelope.
type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatMessage struct {
	Role      string                 `json:"role"`
	Content   translator.MessageBody `json:"content"`
	Citations []translator.Citation  `json:"citations,omitempty"`
}

// chatCompletion is the client-facing completion envelope.
type chatCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatUsage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
	CachedTokens     int32 `json:"cached_tokens,omitempty"`
}

// ChatCompletions handles POST /v1/chat/completions by translating the
// request into a Gemini generateContent call and the candidate back into a
// completion object.
func (h *Handler) ChatCompletions(c *gin.Context) {
	req, ok := h.parseChatRequest(c)
	if !ok {
		return
	}

	conv, err := h.reqTr.Translate(c.Request.Context(), req.Messages)
	if err != nil {
		h.writePipelineError(c, err)
		return
	}

	upReq := &upgem.GenerateContentRequest{
		Contents:          conv.Contents,
		SystemInstruction: conv.SystemInstruction,
		GenerationConfig:  translator.BuildGenerationConfig(req),
		Tools:             req.Tools,
	}

	started := time.Now()
	upResp, err := h.client.GenerateContent(c.Request.Context(), req.Model, upReq)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	log.WithFields(log.Fields{
		"model":       req.Model,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Debug("upstream generation completed")

	completion, err := h.respTr.Translate(c.Request.Context(), upResp)
	if err != nil {
		h.writePipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildCompletion(req.Model, completion))
}

func (h *Handler) parseChatRequest(c *gin.Context) (*translator.ChatRequest, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "failed to read request body")
		return nil, false
	}

	var req translator.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error",
			fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}

	if req.Model == "" {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "model is required")
		return nil, false
	}
	if len(req.Messages) == 0 {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", "messages must not be empty")
		return nil, false
	}
	return &req, true
}

// writePipelineError maps translation failures onto the error channel.
// Validation failures are always 400; fetch failures derive their status
// from the error text.
func (h *Handler) writePipelineError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		common.AbortWithError(c, http.StatusBadRequest, "invalid_request_error", verr.Message)
		return
	}

	var ferr *apperrors.FetchError
	if errors.As(err, &ferr) {
		common.AbortWithError(c, apperrors.HTTPStatusFromError(err), "invalid_request_error", ferr.Error())
		return
	}

	common.AbortWithError(c, apperrors.HTTPStatusFromError(err), "server_error", err.Error())
}

// writeUpstreamError maps a failed generation call. Target API rejections
// keep their extracted status and body; transport failures are classified
// into gateway statuses.
func (h *Handler) writeUpstreamError(c *gin.Context, err error) {
	var uerr *apperrors.UpstreamError
	if errors.As(err, &uerr) {
		common.AbortWithUpstreamError(c, apperrors.HTTPStatusFromError(err), "upstream_error",
			"target api request failed", []byte(uerr.Body))
		return
	}
	common.AbortWithAPIError(c, apperrors.MapNetworkError(err))
}

func buildCompletion(model string, tc *translator.TranslatedCompletion) chatCompletion {
	usage := &chatUsage{
		PromptTokens:     tc.Usage.PromptTokens,
		CompletionTokens: tc.Usage.CompletionTokens,
		TotalTokens:      tc.Usage.TotalTokens,
		CachedTokens:     tc.Usage.CachedTokens,
	}
	return chatCompletion{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chatChoice{{
			Message:      chatMessage{Role: "assistant", Content: tc.Body, Citations: tc.Citations},
			FinishReason: tc.FinishReason,
		}},
		Usage: usage,
	}
}
