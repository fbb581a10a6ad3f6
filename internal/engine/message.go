package engine

import (
	"fmt"

	"github.com/pelada-api/internal/domain"
)

// RenderMessage formats the body for a due reminder. Deterministic text
// substitution only; the message kind decides the template.
func RenderMessage(due DueNotification) string {
	game := due.Candidate.Game
	session := due.Candidate.Session
	when := fmt.Sprintf("%s às %s", due.Candidate.StartsAt.Format("02/01"), session.StartTime)

	switch due.Rule.MessageType {
	case domain.MessageConfirmation:
		return fmt.Sprintf("⚽ %s — %s em %s.\nConfirme sua presença respondendo SIM ou NÃO.",
			game.Name, when, game.Venue)
	case domain.MessageReminder:
		return fmt.Sprintf("Lembrete: %s %s em %s. Até lá!",
			game.Name, when, game.Venue)
	case domain.MessageFinalConfirmation:
		return fmt.Sprintf("Última chamada para %s, %s em %s!\nVocê ainda não respondeu — confirme com SIM ou NÃO.",
			game.Name, when, game.Venue)
	default:
		// Unknown kinds are rejected at configuration-write time; this path
		// only exists so a stale record cannot crash the dispatcher.
		return fmt.Sprintf("%s — %s em %s.", game.Name, when, game.Venue)
	}
}
