package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookbnb/internal/booking"
	"bookbnb/internal/domain"
	"bookbnb/internal/models"
	"bookbnb/internal/screens"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const helpText = `🏠 BookBnB

Browsing:
/properties [location] [guests] - list properties
/property <id> - property details
/dates <check-in> <check-out> - pick dates (YYYY-MM-DD)
/availability - check the selected dates
/book - book the selected dates

Account:
/login, /register, /logout, /me
/bookings - your bookings
/booking <id> - booking details
/cancel <booking id> - cancel a booking
/export - download your bookings as Excel
/abort - stop the current dialog`

const adminHelpText = `🛠 Admin

/admin - properties and amenities
/newproperty Title | Description | Location | Price | Guests [| Image URL]
/editproperty <id>, /set <field> <value>, /saveedit, /canceledit
/deleteproperty <id>
/amenity <name> - create an amenity
/amenities <property id> - attach amenities
/image <property id> <url> [order] [caption] - draft an image
/addimage <property id> - upload the drafted image
/deleteimage <image id>`

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendError(chatID int64, err error) {
	b.sendMessage(chatID, errorText(err))
}

func (b *Bot) handleMessage(ctx context.Context, ws *Workspace, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}

	if msg.IsCommand() {
		command := msg.Command()
		b.countCommand(command)
		b.timed(command, ws.chatID, func() {
			b.handleCommand(ctx, ws, msg)
		})
		return
	}

	if ws.currentDialog().step != StepNone {
		b.handleDialog(ctx, ws, msg)
		return
	}

	b.sendMessage(ws.chatID, "Use /help to see what I can do.")
}

func (b *Bot) handleCommand(ctx context.Context, ws *Workspace, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		b.handleHelp(ws)
	case "login":
		ws.setDialog(dialog{step: StepLoginEmail})
		b.sendMessage(ws.chatID, "📧 Enter your email:")
	case "register":
		ws.setDialog(dialog{step: StepRegisterEmail})
		b.sendMessage(ws.chatID, "📧 Enter your email:")
	case "abort":
		ws.clearDialog()
		b.sendMessage(ws.chatID, "Cancelled.")
	case "logout":
		b.handleLogout(ctx, ws)
	case "me":
		b.handleMe(ws)
	case "properties":
		b.handleProperties(ctx, ws, args)
	case "property":
		b.handleProperty(ctx, ws, args)
	case "dates":
		b.handleDates(ws, args)
	case "availability":
		b.handleAvailability(ctx, ws)
	case "book":
		b.handleBook(ctx, ws)
	case "bookings":
		b.handleBookings(ctx, ws)
	case "booking":
		b.handleBooking(ctx, ws, args)
	case "cancel":
		b.handleCancel(ws, args)
	case "export":
		b.handleExport(ctx, ws)
	default:
		if !b.handleAdminCommand(ctx, ws, msg.Command(), args) {
			b.sendMessage(ws.chatID, "Unknown command. Use /help.")
		}
	}
}

func (b *Bot) handleHelp(ws *Workspace) {
	text := helpText
	if ws.session.User().IsAdmin() {
		text += "\n\n" + adminHelpText
	}
	b.sendMessage(ws.chatID, text)
}

// handleDialog consumes free text while a login or registration is in progress.
func (b *Bot) handleDialog(ctx context.Context, ws *Workspace, msg *tgbotapi.Message) {
	d := ws.currentDialog()
	text := strings.TrimSpace(msg.Text)

	switch d.step {
	case StepLoginEmail:
		d.email = text
		d.step = StepLoginPassword
		ws.setDialog(d)
		b.sendMessage(ws.chatID, "🔑 Enter your password:")

	case StepLoginPassword:
		b.dropSecret(ws.chatID, msg.MessageID)
		ws.clearDialog()
		user, err := ws.session.Login(ctx, d.email, msg.Text)
		if err != nil {
			b.sendError(ws.chatID, err)
			return
		}
		b.sendMessage(ws.chatID, fmt.Sprintf("✅ Welcome back, %s!", displayName(user)))

	case StepRegisterEmail:
		d.email = text
		d.step = StepRegisterPassword
		ws.setDialog(d)
		b.sendMessage(ws.chatID, "🔑 Choose a password:")

	case StepRegisterPassword:
		b.dropSecret(ws.chatID, msg.MessageID)
		d.password = msg.Text
		d.step = StepRegisterFirst
		ws.setDialog(d)
		b.sendMessage(ws.chatID, "👤 Enter your first name:")

	case StepRegisterFirst:
		d.firstName = text
		d.step = StepRegisterLast
		ws.setDialog(d)
		b.sendMessage(ws.chatID, "👤 Enter your last name (or - to skip):")

	case StepRegisterLast:
		ws.clearDialog()
		last := text
		if last == "-" {
			last = ""
		}
		user, err := ws.session.Register(ctx, d.email, d.password, d.firstName, last)
		if err != nil {
			b.sendError(ws.chatID, err)
			return
		}
		b.sendMessage(ws.chatID, fmt.Sprintf("🎉 Account created. Welcome, %s!", displayName(user)))
	}
}

// dropSecret deletes a chat message that carried a password.
func (b *Bot) dropSecret(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := b.tgService.DeleteMessage(chatID, messageID); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to delete password message")
	}
}

func displayName(u *models.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u != nil {
		return u.Email
	}
	return ""
}

func (b *Bot) handleLogout(ctx context.Context, ws *Workspace) {
	ws.clearDialog()
	if err := ws.session.Logout(ctx); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to delete stored token")
	}
	b.sendMessage(ws.chatID, "👋 You have been logged out.")
}

func (b *Bot) handleMe(ws *Workspace) {
	user := ws.session.User()
	if user == nil {
		b.sendMessage(ws.chatID, "You are not logged in. Use /login or /register.")
		return
	}
	b.sendMessage(ws.chatID, fmt.Sprintf("👤 %s\n📧 %s\n🎫 %s", displayName(user), user.Email, user.Role))
}

// parseFilter reads "[location words] [guests]". A trailing number is the guest count.
func parseFilter(args string) screens.Filter {
	fields := strings.Fields(args)
	var f screens.Filter
	if n := len(fields); n > 0 {
		if guests, err := strconv.Atoi(fields[n-1]); err == nil {
			f.Guests = guests
			fields = fields[:n-1]
		}
	}
	f.Location = strings.Join(fields, " ")
	return f
}

func (b *Bot) handleProperties(ctx context.Context, ws *Workspace, args string) {
	if err := ws.properties.Load(ctx); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	ws.properties.SetFilter(parseFilter(args))
	b.sendPropertiesPage(ws, 0, 0)
}

func (b *Bot) sendPropertiesPage(ws *Workspace, page, messageID int) {
	props := ws.properties.Properties()
	if len(props) == 0 {
		b.sendMessage(ws.chatID, ws.properties.View().Message)
		return
	}
	b.renderPaginatedProperties(PaginationParams{
		ChatID:     ws.chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "🏠 Properties",
		PagePrefix: cbPropertiesPage,
	}, props)
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(what, fmt.Sprintf("Please provide a valid %s id", what))
	}
	return id, nil
}

func (b *Bot) handleProperty(ctx context.Context, ws *Workspace, args string) {
	id, err := parseID(args, "property")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.showProperty(ctx, ws, id)
}

func (b *Bot) showProperty(ctx context.Context, ws *Workspace, id uuid.UUID) {
	if err := ws.property.Load(ctx, id); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.sendMessage(ws.chatID, propertyCard(ws.property.Property(), ws.property.Quote(), ws.property.Available()))
}

func propertyCard(p *models.PropertyDetail, q booking.Quote, available *bool) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏠 %s\n📍 %s\n\n%s\n\n", p.Title, p.Location, p.Description))
	sb.WriteString(fmt.Sprintf("💰 $%s / night\n👥 Up to %d guests\n", p.PricePerNight, p.MaxGuests))

	if len(p.Amenities) > 0 {
		names := make([]string, 0, len(p.Amenities))
		for _, a := range p.Amenities {
			names = append(names, a.Name)
		}
		sb.WriteString("✨ " + strings.Join(names, ", ") + "\n")
	}
	for _, img := range p.Images {
		line := "🖼 " + img.ImageURL
		if img.Caption != "" {
			line += " (" + img.Caption + ")"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + quoteText(q))
	if available != nil {
		if *available {
			sb.WriteString("\n✅ Available")
		} else {
			sb.WriteString("\n⛔ Not available")
		}
	}
	sb.WriteString(fmt.Sprintf("\n\n🆔 %s", p.ID))
	return sb.String()
}

func quoteText(q booking.Quote) string {
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return "📅 Pick dates with /dates <check-in> <check-out>"
	}
	dates := fmt.Sprintf("📅 %s → %s", q.StartDate.Format(models.DateLayout), q.EndDate.Format(models.DateLayout))
	if err := booking.ValidateRange(q.StartDate, q.EndDate); err != nil {
		return dates + "\n⚠️ " + domain.UserMessage(err)
	}
	return fmt.Sprintf("%s\n🌙 %d night(s) × $%s = $%s", dates, q.Nights, q.PricePerNight, q.Total)
}

func (b *Bot) handleDates(ws *Workspace, args string) {
	if ws.property.Property() == nil {
		b.sendMessage(ws.chatID, "Open a property first with /property <id>.")
		return
	}
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.sendMessage(ws.chatID, "Usage: /dates <check-in> <check-out>, e.g. /dates 2025-01-01 2025-01-04")
		return
	}
	if err := ws.property.SelectDateStrings(fields[0], fields[1]); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.sendMessage(ws.chatID, quoteText(ws.property.Quote()))
}

func (b *Bot) handleAvailability(ctx context.Context, ws *Workspace) {
	if _, err := ws.property.CheckAvailability(ctx); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.sendMessage(ws.chatID, ws.property.View().Message)
}

func (b *Bot) handleBook(ctx context.Context, ws *Workspace) {
	created, err := ws.property.Submit(ctx)
	if err != nil {
		if v := ws.property.View(); v.Redirect != screens.RouteNone {
			b.sendMessage(ws.chatID, viewText(v))
			return
		}
		b.sendError(ws.chatID, err)
		return
	}
	if b.metrics != nil {
		b.metrics.BookingsCreated.Inc()
	}
	b.sendMessage(ws.chatID, fmt.Sprintf("✅ %s\n\n%s", ws.property.View().Message, bookingLine(*created)))
}

func (b *Bot) handleBookings(ctx context.Context, ws *Workspace) {
	if err := ws.bookings.Load(ctx); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.sendBookingsPage(ws, 0, 0)
}

func (b *Bot) sendBookingsPage(ws *Workspace, page, messageID int) {
	bookings := ws.bookings.Bookings()
	if len(bookings) == 0 {
		b.sendMessage(ws.chatID, ws.bookings.View().Message)
		return
	}
	b.renderPaginatedBookings(PaginationParams{
		ChatID:     ws.chatID,
		MessageID:  messageID,
		Page:       page,
		Title:      "📋 Your bookings",
		PagePrefix: cbBookingsPage,
	}, bookings)
}

func (b *Bot) handleBooking(ctx context.Context, ws *Workspace, args string) {
	id, err := parseID(args, "booking")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	found, err := ws.bookings.Get(ctx, id)
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}

	text := bookingLine(*found)
	if found.IsCancelled() {
		b.sendMessage(ws.chatID, text)
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel booking", cbCancel+found.ID.String()),
	))
	if _, err := b.tgService.SendWithInlineKeyboard(ws.chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to send booking")
	}
}

func (b *Bot) handleCancel(ws *Workspace, args string) {
	id, err := parseID(args, "booking")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	b.confirmCancel(ws, id)
}

// confirmCancel asks before anything is sent to the backend.
func (b *Bot) confirmCancel(ws *Workspace, id uuid.UUID) {
	if !ws.bookings.CanCancel(id) {
		b.sendMessage(ws.chatID, "This booking is already cancelled or a cancellation is in progress.")
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, cancel", cbCancelConfirm+id.String()),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Keep it", cbCancelAbort),
		),
	)
	if _, err := b.tgService.SendWithInlineKeyboard(ws.chatID, "Cancel this booking?", keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to send cancel confirmation")
	}
}

func (b *Bot) cancelBooking(ctx context.Context, ws *Workspace, id uuid.UUID) {
	if err := ws.bookings.Cancel(ctx, id); err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	if b.metrics != nil {
		b.metrics.BookingsCancelled.Inc()
	}
	b.sendMessage(ws.chatID, "✅ "+ws.bookings.View().Message)
}

func (b *Bot) handleExport(ctx context.Context, ws *Workspace) {
	user, err := ws.session.RequireUser()
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	if err := ws.bookings.Load(ctx); err != nil {
		b.sendError(ws.chatID, err)
		return
	}

	name, data, err := b.exporter.Bookings(user, ws.bookings.Bookings())
	if err != nil {
		b.countError()
		b.logger.Error().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to export bookings")
		b.sendMessage(ws.chatID, "❌ Failed to build the export. Please try again later.")
		return
	}
	if _, err := b.tgService.SendDocument(ws.chatID, name, data); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to send export")
	}
}
