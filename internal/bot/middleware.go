package bot

import (
	"time"
)

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			b.countError()
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// timed logs slow commands.
func (b *Bot) timed(command string, chatID int64, fn func()) {
	start := time.Now()
	fn()
	if d := time.Since(start); d > 5*time.Second {
		b.logger.Warn().Str("command", command).Int64("chat_id", chatID).Dur("duration", d).Msg("Slow command")
	}
}
