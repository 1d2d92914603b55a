// Package translator converts OpenAI-shaped chat conversations into Gemini
// content lists and Gemini responses back into OpenAI-shaped message content.
package translator

import (
	"encoding/json"
	"fmt"
)

// Message roles accepted on the inbound request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is the parsed inbound chat-completion request. Tools are kept
// as raw JSON and passed through untouched.
type ChatRequest struct {
	Model           string                `json:"model"`
	Messages        []ConversationMessage `json:"messages"`
	Temperature     *float64              `json:"temperature,omitempty"`
	ReasoningEffort string                `json:"reasoning_effort,omitempty"`
	Modalities      []string              `json:"modalities,omitempty"`
	Tools           json.RawMessage       `json:"tools,omitempty"`
}

// ConversationMessage is one inbound message: a role plus either a plain
// string or an ordered list of typed content parts.
type ConversationMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the string-or-parts union of a message body.
type MessageContent struct {
	Text  string
	Parts []ContentPart
	// IsParts distinguishes an empty part list from a plain string.
	IsParts bool
}

// UnmarshalJSON accepts both the plain-string and the part-list encodings.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty message content")
	}
	switch data[0] {
	case '"':
		c.IsParts = false
		c.Parts = nil
		return json.Unmarshal(data, &c.Text)
	case '[':
		c.IsParts = true
		c.Text = ""
		return json.Unmarshal(data, &c.Parts)
	case 'n': // null
		*c = MessageContent{}
		return nil
	default:
		return fmt.Errorf("message content must be a string or an array of parts")
	}
}

// MarshalJSON reproduces the wire shape the content was parsed from.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.IsParts {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// Content part discriminators.
const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
	PartTypeFileURL  = "file_url"
)

// ContentPart is the tagged union of inbound content parts: exactly one of
// the variant pointers is set.
type ContentPart struct {
	OfText     *TextPart
	OfImageURL *ImageURLPart
	OfFileURL  *FileURLPart
}

// TextPart carries plain text.
type TextPart struct {
	Text string `json:"text"`
}

// ImageURLPart references an image by URL (http(s) or data:).
type ImageURLPart struct {
	URL string `json:"url"`
}

// FileURLPart references a document, audio file or video-hosting link.
type FileURLPart struct {
	URL string `json:"url"`
}

type rawContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *ImageURLPart `json:"image_url,omitempty"`
	FileURL  *FileURLPart  `json:"file_url,omitempty"`
	File     *FileURLPart  `json:"file,omitempty"`
}

// UnmarshalJSON decodes the discriminated wire form. "file" is accepted as a
// legacy alias for "file_url".
func (p *ContentPart) UnmarshalJSON(data []byte) error {
	var raw rawContentPart
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case PartTypeText:
		p.OfText = &TextPart{Text: raw.Text}
	case PartTypeImageURL:
		if raw.ImageURL == nil {
			return fmt.Errorf("image_url part missing image_url object")
		}
		p.OfImageURL = raw.ImageURL
	case PartTypeFileURL, "file":
		fileRef := raw.FileURL
		if fileRef == nil {
			fileRef = raw.File
		}
		if fileRef == nil {
			return fmt.Errorf("file part missing url object")
		}
		p.OfFileURL = fileRef
	default:
		return fmt.Errorf("unsupported content part type %q", raw.Type)
	}
	return nil
}

// MarshalJSON re-emits the discriminated wire form.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch {
	case p.OfText != nil:
		return json.Marshal(rawContentPart{Type: PartTypeText, Text: p.OfText.Text})
	case p.OfImageURL != nil:
		return json.Marshal(rawContentPart{Type: PartTypeImageURL, ImageURL: p.OfImageURL})
	case p.OfFileURL != nil:
		return json.Marshal(rawContentPart{Type: PartTypeFileURL, FileURL: p.OfFileURL})
	default:
		return nil, fmt.Errorf("content part has no variant set")
	}
}
