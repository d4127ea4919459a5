package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentUnmarshalString(t *testing.T) {
	var c Content
	err := json.Unmarshal([]byte(`"ola mundo"`), &c)
	require.NoError(t, err)
	assert.Equal(t, "ola mundo", c.Text)
	assert.Equal(t, "ola mundo", c.PlainText())
}

func TestContentUnmarshalArray(t *testing.T) {
	raw := `[{"type":"text","text":"primeira"},{"type":"image_url","image_url":{"url":"data:image/png;base64,AAA"}},{"type":"text","text":"segunda"}]`

	var c Content
	err := json.Unmarshal([]byte(raw), &c)
	require.NoError(t, err)
	assert.Equal(t, "primeira\nsegunda", c.PlainText())
}

func TestContentUnmarshalRejectsObjects(t *testing.T) {
	var c Content
	err := json.Unmarshal([]byte(`{"text":"nope"}`), &c)
	assert.Error(t, err)
}

func TestContentRoundTripPreservesWireValue(t *testing.T) {
	// Untouched messages must be forwarded upstream byte-equivalent,
	// whichever shape they arrived in.
	tests := []struct {
		name string
		raw  string
	}{
		{"string content", `"Qual o quórum de hoje?"`},
		{"array content", `[{"type":"text","text":"oi"},{"type":"image_url","image_url":{"url":"data:image/jpeg;base64,Zm9v"}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Content
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))

			out, err := json.Marshal(c)
			require.NoError(t, err)
			assert.JSONEq(t, tt.raw, string(out))
		})
	}
}

func TestContentMarshalRewrittenParts(t *testing.T) {
	c := PartsContent([]ContentPart{
		TextPart{Text: "analise"},
		MediaReferencePart{DataURI: "data:image/png;base64,AAA"},
	})

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"text","text":"analise"},
		{"type":"image_url","image_url":{"url":"data:image/png;base64,AAA"}}
	]`, string(out))
}

func TestMediaReferencePartSerializesAudioThroughImageURL(t *testing.T) {
	// Inline audio rides the image_url field; the provider ingests any
	// inline media through it.
	part := MediaReferencePart{DataURI: "data:audio/mp3;base64,Zm9v"}

	out, err := json.Marshal(part)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image_url","image_url":{"url":"data:audio/mp3;base64,Zm9v"}}`, string(out))
}

func TestFileAttachmentDataURI(t *testing.T) {
	plain := FileAttachment{Name: "foto.png", MimeType: "image/png", Data: "Zm9v"}
	assert.Equal(t, "data:image/png;base64,Zm9v", plain.DataURI())

	wrapped := FileAttachment{Name: "foto.png", MimeType: "image/png", Data: "data:image/png;base64,Zm9v"}
	assert.Equal(t, "data:image/png;base64,Zm9v", wrapped.DataURI())
}

func TestFileAttachmentBase64Payload(t *testing.T) {
	plain := FileAttachment{Name: "voz.mp3", MimeType: "audio/mp3", Data: "Zm9v"}
	assert.Equal(t, "Zm9v", plain.Base64Payload())

	wrapped := FileAttachment{Name: "voz.mp3", MimeType: "audio/mp3", Data: "data:audio/mp3;base64,Zm9v"}
	assert.Equal(t, "Zm9v", wrapped.Base64Payload())
}

func TestFileAttachmentKind(t *testing.T) {
	tests := []struct {
		mimeType string
		expected AttachmentKind
	}{
		{"image/png", KindImage},
		{"image/jpeg", KindImage},
		{"IMAGE/JPEG", KindImage},
		{"audio/mp3", KindAudio},
		{"audio/ogg; codecs=opus", KindAudio},
		{"application/pdf", KindPDF},
		{" application/pdf ", KindPDF},
		{"text/csv", KindOther},
		{"application/zip", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		f := FileAttachment{Name: "f", MimeType: tt.mimeType, Data: "AA=="}
		assert.Equal(t, tt.expected, f.Kind(), "mime type %q", tt.mimeType)
	}
}
