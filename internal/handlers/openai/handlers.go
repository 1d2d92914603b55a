package openai

import (
	"context"

	"google.golang.org/genai"

	"openai2gemini-go/internal/config"
	"openai2gemini-go/internal/fetch"
	"openai2gemini-go/internal/publisher"
	"openai2gemini-go/internal/translator"
	upgem "openai2gemini-go/internal/upstream/gemini"
)

// geminiClient captures the subset of the upstream client used by the
// OpenAI-compatible endpoints.
type geminiClient interface {
	GenerateContent(ctx context.Context, model string, req *upgem.GenerateContentRequest) (*genai.GenerateContentResponse, error)
	RawCall(ctx context.Context, method, path string, body []byte) ([]byte, int, error)
}

var _ geminiClient = (*upgem.Client)(nil)

// Handler aggregates shared dependencies for OpenAI-compatible endpoints.
type Handler struct {
	cfg    *config.Config
	client geminiClient
	reqTr  *translator.RequestTranslator
	respTr *translator.ResponseTranslator
}

// New constructs the OpenAI-compatible handler set with its full pipeline:
// fetcher for inbound media, publisher for generated assets, upstream client
// for generation.
func New(cfg *config.Config) *Handler {
	fetcher := fetch.New(cfg)
	return &Handler{
		cfg:    cfg,
		client: upgem.New(cfg),
		reqTr:  translator.NewRequestTranslator(fetcher),
		respTr: translator.NewResponseTranslator(publisher.New(cfg), fetcher),
	}
}

// newWithDeps wires explicit dependencies, used by tests.
func newWithDeps(cfg *config.Config, client geminiClient, reqTr *translator.RequestTranslator, respTr *translator.ResponseTranslator) *Handler {
	return &Handler{cfg: cfg, client: client, reqTr: reqTr, respTr: respTr}
}
