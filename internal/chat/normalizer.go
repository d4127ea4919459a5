package chat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/plenario-app/go-chat-gateway/internal/capability"
	"github.com/plenario-app/go-chat-gateway/internal/logger"
)

// Transcriber converts one audio attachment into plain text. Implementations
// absorb their own failures: any error yields an empty string, never an
// aborted request.
type Transcriber interface {
	Transcribe(ctx context.Context, file FileAttachment) string
}

// Placeholder used when the rewritten user message had no text of its own
const defaultUserText = "Analise o(s) arquivo(s) em anexo."

// maxConcurrentTranscriptions bounds parallel transcription sub-calls
const maxConcurrentTranscriptions = 4

// Normalizer rewrites the last user message of a conversation into a content
// array matching the selected model's capability profile.
type Normalizer struct {
	transcriber Transcriber
}

// NewNormalizer creates a normalizer backed by the given transcriber
func NewNormalizer(t Transcriber) *Normalizer {
	return &Normalizer{transcriber: t}
}

// RewriteLastUserMessage returns a copy of the conversation where the last
// user message's content has been replaced by the normalized part array.
// Every other message is untouched. With no attachments the conversation is
// returned as-is.
func (n *Normalizer) RewriteLastUserMessage(ctx context.Context, messages []Message, files []FileAttachment, profile capability.Profile) []Message {
	if len(files) == 0 {
		return messages
	}

	last := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			last = i
			break
		}
	}
	if last == -1 {
		return messages
	}

	rewritten := make([]Message, len(messages))
	copy(rewritten, messages)

	parts := n.Normalize(ctx, rewritten[last].Content.PlainText(), files, profile)
	rewritten[last].Content = PartsContent(parts)
	return rewritten
}

// Normalize produces the replacement content array for a user message with
// attachments. The first part is always the user's own text; attachment
// parts follow in attachment-list order. A failure processing one file never
// prevents the others from being processed.
func (n *Normalizer) Normalize(ctx context.Context, userText string, files []FileAttachment, profile capability.Profile) []ContentPart {
	ctx = logger.WithComponent(ctx, "normalizer")

	if userText == "" {
		userText = defaultUserText
	}
	parts := []ContentPart{TextPart{Text: userText}}

	transcripts := n.transcribeAll(ctx, files)

	for i, file := range files {
		parts = append(parts, n.attachmentParts(ctx, profile, file, transcripts[i])...)
	}
	return parts
}

// transcribeAll runs the transcription sub-calls for every audio attachment.
// Calls run concurrently, but results land in a slice indexed by attachment
// position so assembly order stays deterministic, and the function only
// returns once every transcription has finished.
func (n *Normalizer) transcribeAll(ctx context.Context, files []FileAttachment) []string {
	transcripts := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTranscriptions)

	for i, file := range files {
		if file.Kind() != KindAudio {
			continue
		}
		i, file := i, file
		g.Go(func() error {
			transcripts[i] = n.transcriber.Transcribe(gctx, file)
			return nil
		})
	}

	// Workers never return errors; Wait is only the join point.
	_ = g.Wait()
	return transcripts
}

// attachmentParts maps one (profile, attachment) combination to its content
// parts. First matching branch wins; unsupported combinations degrade to an
// explanatory text note instead of failing.
func (n *Normalizer) attachmentParts(ctx context.Context, profile capability.Profile, file FileAttachment, transcript string) []ContentPart {
	kind := file.Kind()

	switch {
	case profile.SupportsNativeAudioDocument:
		switch kind {
		case KindImage, KindPDF:
			return []ContentPart{MediaReferencePart{DataURI: file.DataURI()}}
		case KindAudio:
			// The transcript rides along with the raw audio so the
			// upstream model receives both modalities.
			return []ContentPart{
				transcriptPart(file, transcript),
				MediaReferencePart{DataURI: file.DataURI()},
			}
		default:
			return []ContentPart{ignoredPart(ctx, file)}
		}

	case profile.SupportsVision:
		switch kind {
		case KindImage:
			return []ContentPart{MediaReferencePart{DataURI: file.DataURI()}}
		case KindAudio:
			return []ContentPart{transcriptPart(file, transcript)}
		case KindPDF:
			logger.Debug(ctx, "PDF attachment on vision-only model degraded to note", "file", file.Name)
			return []ContentPart{TextPart{Text: fmt.Sprintf(
				"[O arquivo PDF anexado (%s) não pôde ser lido: o modelo selecionado não aceita PDFs. Peça ao usuário que reenvie as páginas como imagem ou selecione um modelo da família Gemini.]",
				file.Name)}}
		default:
			return []ContentPart{ignoredPart(ctx, file)}
		}

	default:
		if kind == KindAudio {
			return []ContentPart{transcriptPart(file, transcript)}
		}
		return []ContentPart{ignoredPart(ctx, file)}
	}
}

// transcriptPart renders a finished transcription, or the failure note when
// the adapter came back empty.
func transcriptPart(file FileAttachment, transcript string) ContentPart {
	if transcript == "" {
		return TextPart{Text: fmt.Sprintf(
			"[O áudio anexado (%s) não pôde ser transcrito. Informe o usuário e peça que envie o áudio novamente ou digite o conteúdo.]",
			file.Name)}
	}
	return TextPart{Text: fmt.Sprintf("[TRANSCRIÇÃO DO ÁUDIO ANEXADO (%s)]: %q", file.Name, transcript)}
}

func ignoredPart(ctx context.Context, file FileAttachment) ContentPart {
	logger.Debug(ctx, "Attachment ignored for selected model", "file", file.Name, "mime_type", file.MimeType)
	return TextPart{Text: fmt.Sprintf(
		"[O arquivo anexado (%s) foi ignorado porque o modelo selecionado não aceita anexos deste tipo.]",
		file.Name)}
}
