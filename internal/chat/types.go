package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation entry. Ordering is significant and
// preserved; only the last user message is ever rewritten.
type Message struct {
	Role    string  `json:"role" validate:"required,oneof=system user assistant"`
	Content Content `json:"content"`
}

// Content holds a message body that arrives on the wire either as a plain
// string or as an array of content parts. The original wire value is kept so
// untouched messages are forwarded upstream byte-equivalent.
type Content struct {
	Text  string
	Parts []ContentPart

	raw json.RawMessage
}

// TextContent builds a plain-string content value
func TextContent(text string) Content {
	return Content{Text: text}
}

// PartsContent builds a content value from parts
func PartsContent(parts []ContentPart) Content {
	return Content{Parts: parts}
}

// UnmarshalJSON accepts either a string or an array content value
func (c *Content) UnmarshalJSON(data []byte) error {
	c.raw = append(json.RawMessage(nil), data...)

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		return nil
	}

	var probe []json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("message content must be a string or an array: %w", err)
	}
	return nil
}

// MarshalJSON emits rewritten parts when present, otherwise the original
// wire value.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(c.Text)
}

// PlainText returns the textual content of the message: the string value
// when content arrived as a string, or the concatenated text parts when it
// arrived as an array.
func (c Content) PlainText() string {
	if c.Text != "" || c.raw == nil {
		return c.Text
	}

	var wireParts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.raw, &wireParts); err != nil {
		return ""
	}

	var texts []string
	for _, p := range wireParts {
		if p.Type == "text" && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ContentPart is one atomic unit of a message's content. The set of
// implementations is closed: text and inline media references.
type ContentPart interface {
	isContentPart()
}

// TextPart carries plain text
type TextPart struct {
	Text string
}

func (TextPart) isContentPart() {}

// MarshalJSON emits the OpenAI-compatible text part shape
func (p TextPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: "text", Text: p.Text})
}

// MediaReferencePart carries a self-describing inline media payload as a
// data URI. It is always serialized through the image_url field, including
// for audio and PDF payloads: the native-multimodal provider reuses that
// field to ingest any inline media, and the rest of the system treats the
// encoding as opaque.
type MediaReferencePart struct {
	DataURI string
}

func (MediaReferencePart) isContentPart() {}

// MarshalJSON emits the provider's inline media reference shape
func (p MediaReferencePart) MarshalJSON() ([]byte, error) {
	type imageURL struct {
		URL string `json:"url"`
	}
	return json.Marshal(struct {
		Type     string   `json:"type"`
		ImageURL imageURL `json:"image_url"`
	}{Type: "image_url", ImageURL: imageURL{URL: p.DataURI}})
}

// FileAttachment is a caller-supplied file, alive for a single request only.
// Data is the base64-encoded payload, optionally already wrapped as a data
// URI.
type FileAttachment struct {
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

// DataURI returns the attachment payload as a self-describing data URI
func (f FileAttachment) DataURI() string {
	if strings.HasPrefix(f.Data, "data:") {
		return f.Data
	}
	return fmt.Sprintf("data:%s;base64,%s", f.MimeType, f.Data)
}

// Base64Payload returns the raw base64 payload, stripping a data URI
// wrapper when present.
func (f FileAttachment) Base64Payload() string {
	if strings.HasPrefix(f.Data, "data:") {
		if idx := strings.Index(f.Data, ","); idx != -1 {
			return f.Data[idx+1:]
		}
	}
	return f.Data
}

// AttachmentKind groups mime types into the categories the normalizer
// branches on.
type AttachmentKind int

const (
	KindOther AttachmentKind = iota
	KindImage
	KindAudio
	KindPDF
)

// Kind classifies the attachment by its declared mime type. Anything that is
// not an image, audio or PDF falls into KindOther and is handled by the
// "ignored" branch rather than rejected.
func (f FileAttachment) Kind() AttachmentKind {
	mime := strings.ToLower(strings.TrimSpace(f.MimeType))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	case mime == "application/pdf":
		return KindPDF
	default:
		return KindOther
	}
}

// ToolDeclaration is passed through unmodified to the upstream provider and
// enables advisory tool invocation when present.
type ToolDeclaration struct {
	Kind        string          `json:"kind" validate:"required,oneof=function"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameterSchema,omitempty"`
}
