package bot

import (
	"fmt"
	"strings"

	"bookbnb/internal/models"
	"bookbnb/internal/screens"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cbPropertiesPage = "props_page:"
	cbBookingsPage   = "bookings_page:"
	cbProperty       = "prop:"
	cbCancel         = "cancel:"
	cbCancelConfirm  = "cancel_ok:"
	cbCancelAbort    = "cancel_no"
	cbAmenity        = "am:"
	cbAmenitySave    = "am_save"
)

type PaginationParams struct {
	ChatID     int64
	MessageID  int // 0 sends a new message
	Page       int
	Title      string
	PagePrefix string
}

func (b *Bot) pageSize() int {
	if b.config != nil && b.config.Bot.PageSize > 0 {
		return b.config.Bot.PageSize
	}
	return models.DefaultPageSize
}

// renderPaginatedList sends or edits one page of a list with prev/next buttons.
func (b *Bot) renderPaginatedList(params PaginationParams, totalCount int, renderer func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton)) {
	itemsPerPage := b.pageSize()

	totalPages := (totalCount + itemsPerPage - 1) / itemsPerPage
	if params.Page >= totalPages && totalPages > 0 {
		params.Page = totalPages - 1
	}
	if params.Page < 0 {
		params.Page = 0
	}

	startIdx := params.Page * itemsPerPage
	endIdx := startIdx + itemsPerPage
	if endIdx > totalCount {
		endIdx = totalCount
	}

	content, keyboard := renderer(startIdx, endIdx)

	var message strings.Builder
	message.WriteString(params.Title + "\n\n")
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", params.Page+1, totalPages))
	}
	message.WriteString(content)

	var navButtons []tgbotapi.InlineKeyboardButton
	if params.Page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", fmt.Sprintf("%s%d", params.PagePrefix, params.Page-1)))
	}
	if endIdx < totalCount {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("%s%d", params.PagePrefix, params.Page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	var err error
	if params.MessageID != 0 {
		_, err = b.tgService.EditWithInlineKeyboard(params.ChatID, params.MessageID, message.String(), markup)
	} else if len(keyboard) == 0 {
		_, err = b.tgService.SendMessage(params.ChatID, message.String())
	} else {
		_, err = b.tgService.SendWithInlineKeyboard(params.ChatID, message.String(), markup)
	}
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send list page")
	}
}

func (b *Bot) renderPaginatedProperties(params PaginationParams, properties []models.Property) {
	b.renderPaginatedList(params, len(properties), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for i, p := range properties[startIdx:endIdx] {
			content.WriteString(fmt.Sprintf("%d. %s\n", startIdx+i+1, p.Title))
			content.WriteString(fmt.Sprintf("   📍 %s\n", p.Location))
			content.WriteString(fmt.Sprintf("   💰 $%s / night · 👥 up to %d\n\n", p.PricePerNight, p.MaxGuests))

			btn := tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", startIdx+i+1, p.Title),
				cbProperty+p.ID.String(),
			)
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
		}

		return content.String(), keyboard
	})
}

func (b *Bot) renderPaginatedBookings(params PaginationParams, bookings []models.Booking) {
	b.renderPaginatedList(params, len(bookings), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for _, booking := range bookings[startIdx:endIdx] {
			content.WriteString(bookingLine(booking))
			content.WriteString("\n")

			if !booking.IsCancelled() {
				btn := tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("❌ Cancel %s (%s)", booking.Property.Title, booking.StartDate.Format("02.01")),
					cbCancel+booking.ID.String(),
				)
				keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
			}
		}

		return content.String(), keyboard
	})
}

func statusEmoji(status string) string {
	if screens.StatusColor(status) == screens.ColorRed {
		return "🔴"
	}
	return "🟢"
}

func bookingLine(booking models.Booking) string {
	var sb strings.Builder
	title := booking.Property.Title
	if title == "" {
		title = booking.PropertyID.String()
	}
	sb.WriteString(fmt.Sprintf("%s %s (%s)\n", statusEmoji(booking.Status), title, booking.Status))
	if booking.Property.Location != "" {
		sb.WriteString(fmt.Sprintf("   📍 %s\n", booking.Property.Location))
	}
	sb.WriteString(fmt.Sprintf("   📅 %s → %s\n",
		booking.StartDate.Format(models.DateLayout), booking.EndDate.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("   💰 $%s\n", booking.TotalPrice))
	sb.WriteString(fmt.Sprintf("   🆔 %s\n", booking.ID))
	return sb.String()
}
