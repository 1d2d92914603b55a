package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// AssetPublisher publishes generated binary assets and returns a URL for
// them. Implementations never fail outward.
type AssetPublisher interface {
	Publish(ctx context.Context, data []byte, mimeType, filename string) string
}

// RedirectResolver follows redirect chains on citation links. Implementations
// degrade to returning the input URL and never fail outward.
type RedirectResolver interface {
	ResolveRedirect(ctx context.Context, url string) string
}

// Citation is one resolved source link attached to a completion.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// ResponsePart is one element of a mixed assistant message body.
type ResponsePart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *ImageURLPart `json:"image_url,omitempty"`
}

// MessageBody is the assistant message content: a plain string when the
// candidate produced text only, a part list once any image is present.
type MessageBody struct {
	Text  string
	Parts []ResponsePart
	Mixed bool
}

// MarshalJSON emits either the plain-string or the part-list encoding.
func (b MessageBody) MarshalJSON() ([]byte, error) {
	if b.Mixed {
		return json.Marshal(b.Parts)
	}
	return json.Marshal(b.Text)
}

// TranslatedCompletion is the client-facing view of one candidate plus the
// response-level usage accounting.
type TranslatedCompletion struct {
	Body         MessageBody
	FinishReason string
	Usage        Usage
	Citations    []Citation
}

// Usage mirrors the completion-side token accounting.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
	CachedTokens     int32 `json:"-"`
}

// ResponseTranslator converts Gemini candidates back into the inbound
// protocol's message shape, publishing any generated images on the way.
type ResponseTranslator struct {
	publisher AssetPublisher
	resolver  RedirectResolver
}

// NewResponseTranslator constructs a ResponseTranslator. The resolver may be
// nil, in which case citation links are passed through unresolved.
func NewResponseTranslator(p AssetPublisher, r RedirectResolver) *ResponseTranslator {
	return &ResponseTranslator{publisher: p, resolver: r}
}

// Translate converts the first candidate of a generation response. Text-only
// candidates collapse to a concatenated string body; once any image part is
// present the body becomes an ordered part list preserving candidate order.
// Image uploads run concurrently and are reassembled by index, so publishing
// latency never reorders the message.
func (t *ResponseTranslator) Translate(ctx context.Context, resp *genai.GenerateContentResponse) (*TranslatedCompletion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("generation response has no candidates")
	}
	cand := resp.Candidates[0]

	out := &TranslatedCompletion{
		FinishReason: NormalizeFinishReason(string(cand.FinishReason)),
		Usage:        extractUsage(resp.UsageMetadata),
		Citations:    t.annotateCitations(ctx, cand.CitationMetadata),
	}

	var parts []*genai.Part
	if cand.Content != nil {
		parts = cand.Content.Parts
	}

	if !hasInlineImage(parts) {
		var sb strings.Builder
		for _, part := range parts {
			sb.WriteString(part.Text)
		}
		out.Body = MessageBody{Text: sb.String()}
		return out, nil
	}

	out.Body = MessageBody{Mixed: true, Parts: t.assembleMixed(ctx, parts)}
	return out, nil
}

func isInlineImage(part *genai.Part) bool {
	return part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/")
}

func hasInlineImage(parts []*genai.Part) bool {
	for _, part := range parts {
		if isInlineImage(part) {
			return true
		}
	}
	return false
}

// assembleMixed publishes every inline image concurrently, then rebuilds the
// part list in candidate order. A failed or empty image slot degrades to a
// text marker rather than dropping the part; parts with neither image data
// nor text are dropped.
func (t *ResponseTranslator) assembleMixed(ctx context.Context, parts []*genai.Part) []ResponsePart {
	slots := make([]*ResponsePart, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		switch {
		case isInlineImage(part):
			wg.Add(1)
			go func(i int, blob *genai.Blob) {
				defer wg.Done()
				resolved := t.publishImage(ctx, blob)
				slots[i] = &resolved
			}(i, part.InlineData)
		case part.Text != "":
			slots[i] = &ResponsePart{Type: PartTypeText, Text: part.Text}
		}
	}
	wg.Wait()

	out := make([]ResponsePart, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			out = append(out, *slot)
		}
	}
	return out
}

func (t *ResponseTranslator) publishImage(ctx context.Context, blob *genai.Blob) ResponsePart {
	if len(blob.Data) == 0 {
		log.Warn("candidate image part carried no data")
		return ResponsePart{Type: PartTypeText, Text: imageFailureMarker("empty image data")}
	}

	url := t.publisher.Publish(ctx, blob.Data, blob.MIMEType, "")
	if url == "" {
		return ResponsePart{Type: PartTypeText, Text: imageFailureMarker("upload returned no url")}
	}
	return ResponsePart{Type: PartTypeImageURL, ImageURL: &ImageURLPart{URL: url}}
}

func imageFailureMarker(reason string) string {
	return fmt.Sprintf("[Image processing failed: %s]", reason)
}

// annotateCitations resolves citation links through their redirect chains,
// concurrently and in order. Resolution is best-effort: an unresolvable link
// is kept as-is.
func (t *ResponseTranslator) annotateCitations(ctx context.Context, meta *genai.CitationMetadata) []Citation {
	if meta == nil || len(meta.Citations) == 0 {
		return nil
	}

	out := make([]Citation, len(meta.Citations))
	var wg sync.WaitGroup
	for i, src := range meta.Citations {
		out[i] = Citation{URL: src.URI, Title: src.Title}
		if t.resolver == nil || src.URI == "" {
			continue
		}
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			out[i].URL = t.resolver.ResolveRedirect(ctx, uri)
		}(i, src.URI)
	}
	wg.Wait()
	return out
}

// NormalizeFinishReason maps upstream finish reasons onto the inbound
// protocol's vocabulary. Already-normalized values pass through unchanged, so
// the mapping is idempotent.
func NormalizeFinishReason(reason string) string {
	switch reason {
	case string(genai.FinishReasonMaxTokens), "length":
		return "length"
	case string(genai.FinishReasonSafety), "content_filter":
		return "content_filter"
	case string(genai.FinishReasonStop), string(genai.FinishReasonRecitation), "stop", "":
		return "stop"
	default:
		return "stop"
	}
}

// extractUsage lifts the upstream token counts, recomputing the total when
// the upstream omitted it.
func extractUsage(meta *genai.GenerateContentResponseUsageMetadata) Usage {
	if meta == nil {
		return Usage{}
	}
	u := Usage{
		PromptTokens:     meta.PromptTokenCount,
		CompletionTokens: meta.CandidatesTokenCount,
		TotalTokens:      meta.TotalTokenCount,
		CachedTokens:     meta.CachedContentTokenCount,
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}
