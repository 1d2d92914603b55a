package translator

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	apperrors "openai2gemini-go/internal/errors"
	"openai2gemini-go/internal/fetch"
)

// ContentFetcher retrieves remote media referenced by content parts.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string, family fetch.Family) (*fetch.Result, error)
}

// youtubeURLPattern recognizes the standard watch/shorts/embed/short-link
// forms with an 11-character video identifier and an optional trailing query.
var youtubeURLPattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:watch\?v=|shorts/|embed/)|youtu\.be/)[A-Za-z0-9_-]{11}(?:[?&]\S*)?$`)

// videoWildcardMime is the MIME type attached to recognized video links,
// which are referenced by URI instead of downloaded.
const videoWildcardMime = "video/*"

// TranslatedConversation is the Gemini-side view of an inbound conversation.
type TranslatedConversation struct {
	SystemInstruction *genai.Content
	Contents          []*genai.Content
}

// RequestTranslator converts inbound conversations into Gemini content
// blocks, resolving media through the fetcher.
type RequestTranslator struct {
	fetcher ContentFetcher
}

// NewRequestTranslator constructs a RequestTranslator.
func NewRequestTranslator(f ContentFetcher) *RequestTranslator {
	return &RequestTranslator{fetcher: f}
}

// Translate walks the conversation and produces the Gemini content list plus
// an optional system instruction. Media resolution is sequential and
// fail-fast: the first FetchError aborts the whole translation with no
// partial output. An empty result is a validation failure, reported
// distinctly from fetch failures.
func (t *RequestTranslator) Translate(ctx context.Context, messages []ConversationMessage) (*TranslatedConversation, error) {
	out := &TranslatedConversation{}

	systemSeen := false
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			continue
		}
		if systemSeen {
			log.Warn("multiple system messages; only the first is honored")
			continue
		}
		systemSeen = true
		out.SystemInstruction = systemInstruction(msg.Content)
	}

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			continue
		}

		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}

		parts, err := t.translateParts(ctx, msg.Content)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			continue
		}
		out.Contents = append(out.Contents, &genai.Content{Role: role, Parts: parts})
	}

	if len(out.Contents) == 0 && out.SystemInstruction == nil {
		return nil, apperrors.NewValidationError("conversation is empty after translation")
	}
	return out, nil
}

// systemInstruction builds the single-block system instruction. For part-list
// content only the first text part is used; anything else is unsupported in a
// system message and dropped with a warning.
func systemInstruction(content MessageContent) *genai.Content {
	if !content.IsParts {
		return &genai.Content{Parts: []*genai.Part{{Text: content.Text}}}
	}

	for _, part := range content.Parts {
		if part.OfText != nil {
			if len(content.Parts) > 1 {
				log.Warn("system message has non-text or extra parts; keeping the first text part only")
			}
			return &genai.Content{Parts: []*genai.Part{{Text: part.OfText.Text}}}
		}
	}
	if len(content.Parts) > 0 {
		log.Warn("system message has no text part; system instruction dropped")
	}
	return nil
}

// translateParts converts one message body. Media parts are resolved first
// (in source order), then text parts (in source order): within each block,
// media precedes text regardless of the original interleaving, matching the
// target API's media-before-text preference.
func (t *RequestTranslator) translateParts(ctx context.Context, content MessageContent) ([]*genai.Part, error) {
	if !content.IsParts {
		return []*genai.Part{{Text: content.Text}}, nil
	}

	var media []*genai.Part
	var texts []*genai.Part

	for _, part := range content.Parts {
		switch {
		case part.OfText != nil:
			texts = append(texts, &genai.Part{Text: part.OfText.Text})
		case part.OfImageURL != nil:
			resolved, err := t.resolveImage(ctx, part.OfImageURL.URL)
			if err != nil {
				return nil, err
			}
			media = append(media, resolved)
		case part.OfFileURL != nil:
			resolved, err := t.resolveFile(ctx, part.OfFileURL.URL)
			if err != nil {
				return nil, err
			}
			media = append(media, resolved)
		}
	}

	return append(media, texts...), nil
}

func (t *RequestTranslator) resolveImage(ctx context.Context, rawURL string) (*genai.Part, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return inlineFromDataURL(rawURL)
	}

	res, err := t.fetcher.Fetch(ctx, rawURL, fetch.FamilyImage)
	if err != nil {
		return nil, err
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: res.MimeType, Data: res.Data}}, nil
}

func (t *RequestTranslator) resolveFile(ctx context.Context, rawURL string) (*genai.Part, error) {
	if youtubeURLPattern.MatchString(rawURL) {
		return &genai.Part{FileData: &genai.FileData{FileURI: rawURL, MIMEType: videoWildcardMime}}, nil
	}

	res, err := t.fetcher.Fetch(ctx, rawURL, fetch.FamilyFile)
	if err != nil {
		return nil, err
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: res.MimeType, Data: res.Data}}, nil
}

// inlineFromDataURL decodes a data: URL into inline data without a fetch.
func inlineFromDataURL(rawURL string) (*genai.Part, error) {
	segments := strings.SplitN(rawURL, ",", 2)
	if len(segments) != 2 {
		return nil, apperrors.NewValidationError("malformed data url in image part")
	}
	data, err := base64.StdEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, apperrors.NewValidationError("invalid base64 payload in data url: %v", err)
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: dataURLMime(segments[0]), Data: data}}, nil
}

func dataURLMime(prefix string) string {
	meta := strings.TrimPrefix(prefix, "data:")
	if idx := strings.IndexByte(meta, ';'); idx >= 0 {
		meta = meta[:idx]
	}
	if meta == "" {
		return "image/jpeg"
	}
	return meta
}
