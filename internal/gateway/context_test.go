package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plenario-app/go-chat-gateway/internal/chat"
)

func TestContextMessage(t *testing.T) {
	// 2025-04-23 02:30 UTC is still 2025-04-22 in São Paulo
	now := time.Date(2025, 4, 23, 2, 30, 0, 0, time.UTC)

	msg := ContextMessage("", now)

	assert.Equal(t, chat.RoleSystem, msg.Role)
	text := msg.Content.PlainText()
	assert.Contains(t, text, "Plenário")
	assert.Contains(t, text, "português do Brasil")
	assert.Contains(t, text, "22/04/2025")
	assert.Contains(t, text, "horário de Brasília")
}

func TestContextMessageFoldsExtraPrompt(t *testing.T) {
	msg := ContextMessage("  Priorize votações nominais.  ", time.Now())

	text := msg.Content.PlainText()
	assert.Contains(t, text, "Plenário")
	assert.Contains(t, text, "Priorize votações nominais.")
	assert.NotContains(t, text, "  Priorize")
}

func TestContextMessageIgnoresBlankExtraPrompt(t *testing.T) {
	withBlank := ContextMessage("   ", time.Now())
	without := ContextMessage("", time.Now())

	assert.Equal(t, without.Content.PlainText(), withBlank.Content.PlainText())
}
