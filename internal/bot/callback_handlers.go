package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, ws *Workspace, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	messageID := 0
	if callback.Message != nil {
		messageID = callback.Message.MessageID
	}

	// Answer right away so the client stops showing the spinner.
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		b.logger.Debug().Err(err).Msg("Failed to answer callback")
	}

	switch {
	case strings.HasPrefix(data, cbPropertiesPage):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, cbPropertiesPage))
		b.sendPropertiesPage(ws, page, messageID)

	case strings.HasPrefix(data, cbBookingsPage):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, cbBookingsPage))
		b.sendBookingsPage(ws, page, messageID)

	case strings.HasPrefix(data, cbProperty):
		if id, ok := b.callbackID(ws, data, cbProperty); ok {
			b.showProperty(ctx, ws, id)
		}

	case strings.HasPrefix(data, cbCancelConfirm):
		if id, ok := b.callbackID(ws, data, cbCancelConfirm); ok {
			b.cancelBooking(ctx, ws, id)
		}

	case data == cbCancelAbort:
		b.sendMessage(ws.chatID, "Booking kept.")

	case strings.HasPrefix(data, cbCancel):
		if id, ok := b.callbackID(ws, data, cbCancel); ok {
			b.confirmCancel(ws, id)
		}

	case data == cbAmenitySave:
		b.saveAmenities(ctx, ws)

	case strings.HasPrefix(data, cbAmenity):
		if id, ok := b.callbackID(ws, data, cbAmenity); ok {
			b.toggleAmenity(ws, id, messageID)
		}

	default:
		b.logger.Warn().Str("data", data).Msg("Unknown callback")
	}
}

func (b *Bot) callbackID(ws *Workspace, data, prefix string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimPrefix(data, prefix))
	if err != nil {
		b.logger.Warn().Str("data", data).Msg("Malformed callback id")
		b.sendMessage(ws.chatID, "❌ This button is no longer valid.")
		return uuid.Nil, false
	}
	return id, true
}

func (b *Bot) toggleAmenity(ws *Workspace, amenityID uuid.UUID, messageID int) {
	target := ws.amenityTargetID()
	if target == uuid.Nil {
		b.sendMessage(ws.chatID, "Open the amenity picker with /amenities <property id>.")
		return
	}

	sel := ws.admin.ToggleAmenity(target, amenityID)
	text, markup := amenityKeyboard(target, ws.admin.Amenities(), sel)
	if messageID == 0 {
		return
	}
	if _, err := b.tgService.EditWithInlineKeyboard(ws.chatID, messageID, text, markup); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to refresh amenity picker")
	}
}

func (b *Bot) saveAmenities(ctx context.Context, ws *Workspace) {
	target := ws.amenityTargetID()
	if target == uuid.Nil {
		b.sendMessage(ws.chatID, "Open the amenity picker with /amenities <property id>.")
		return
	}
	err := ws.admin.SubmitAmenities(ctx, target)
	if err == nil {
		ws.setAmenityTarget(uuid.Nil)
	}
	b.adminResult(ws, err)
}
