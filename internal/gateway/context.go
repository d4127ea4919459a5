package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
)

// The assistant serves a Brazilian legislative-data product; replies stay in
// Portuguese regardless of the language the upstream model was trained to
// prefer.
const baseContext = "Você é o assistente do Plenário, um painel de dados legislativos. " +
	"Responda sempre em português do Brasil, de forma clara e objetiva. " +
	"Quando citar políticos, proposições ou eventos, seja factual e indique incerteza quando houver."

var saoPaulo = mustLoadLocation("America/Sao_Paulo")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// ContextMessage builds the system message prepended to every completion
// request. It is the only place the current date/timezone and the output
// language policy are injected; an optional caller-supplied prompt is folded
// into the same message so the context is never duplicated.
func ContextMessage(extraPrompt string, now time.Time) chat.Message {
	var b strings.Builder
	b.WriteString(baseContext)
	b.WriteString(fmt.Sprintf(" A data atual é %s (horário de Brasília).",
		now.In(saoPaulo).Format("02/01/2006")))

	if extra := strings.TrimSpace(extraPrompt); extra != "" {
		b.WriteString("\n\n")
		b.WriteString(extra)
	}

	return chat.Message{
		Role:    chat.RoleSystem,
		Content: chat.TextContent(b.String()),
	}
}
