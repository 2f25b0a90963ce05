package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"
	"bookbnb/internal/screens"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// handleAdminCommand runs admin panel commands. It reports false for unknown commands.
func (b *Bot) handleAdminCommand(ctx context.Context, ws *Workspace, command, args string) bool {
	switch command {
	case "admin":
		b.handleAdmin(ctx, ws)
	case "newproperty":
		b.handleNewProperty(ctx, ws, args)
	case "editproperty":
		b.handleEditProperty(ctx, ws, args)
	case "set":
		b.handleSetField(ws, args)
	case "saveedit":
		b.adminResult(ws, ws.admin.SaveEdit(ctx))
	case "canceledit":
		ws.admin.CancelEdit()
		b.sendMessage(ws.chatID, "Edit discarded.")
	case "deleteproperty":
		id, err := parseID(args, "property")
		if err != nil {
			b.sendError(ws.chatID, err)
			return true
		}
		b.adminResult(ws, ws.admin.DeleteProperty(ctx, id))
	case "amenity":
		_, err := ws.admin.CreateAmenity(ctx, args)
		b.adminResult(ws, err)
	case "amenities":
		b.handleAmenities(ctx, ws, args)
	case "image":
		b.handleImageDraft(ws, args)
	case "addimage":
		id, err := parseID(args, "property")
		if err != nil {
			b.sendError(ws.chatID, err)
			return true
		}
		b.adminResult(ws, ws.admin.SubmitImage(ctx, id))
	case "deleteimage":
		id, err := parseID(args, "image")
		if err != nil {
			b.sendError(ws.chatID, err)
			return true
		}
		b.adminResult(ws, ws.admin.DeleteImage(ctx, id))
	default:
		return false
	}
	return true
}

// adminResult reports the outcome of an admin mutation from the screen's view.
func (b *Bot) adminResult(ws *Workspace, err error) {
	v := ws.admin.View()
	switch {
	case err == nil:
		b.sendMessage(ws.chatID, "✅ "+v.Message)
	case v.Redirect != screens.RouteNone:
		b.sendMessage(ws.chatID, viewText(v))
	default:
		b.sendError(ws.chatID, err)
	}
}

// ensureAdminLoaded loads the panel once so edits can find their property.
func (b *Bot) ensureAdminLoaded(ctx context.Context, ws *Workspace) error {
	if len(ws.admin.Properties()) > 0 {
		return nil
	}
	return ws.admin.Load(ctx)
}

func (b *Bot) handleAdmin(ctx context.Context, ws *Workspace) {
	if err := ws.admin.Load(ctx); err != nil {
		b.sendMessage(ws.chatID, viewText(ws.admin.View()))
		return
	}

	var sb strings.Builder
	sb.WriteString("🛠 Admin panel\n\n")
	props := ws.admin.Properties()
	if len(props) == 0 {
		sb.WriteString(ws.admin.View().Message + "\n")
	}
	for _, p := range props {
		sb.WriteString(fmt.Sprintf("• %s (%s) $%s\n  🆔 %s\n", p.Title, p.Location, p.PricePerNight, p.ID))
	}

	amenities := ws.admin.Amenities()
	sb.WriteString(fmt.Sprintf("\n✨ Amenities: %d\n", len(amenities)))
	for _, a := range amenities {
		sb.WriteString("• " + a.Name + "\n")
	}
	sb.WriteString("\n" + adminHelpText)
	b.sendMessage(ws.chatID, sb.String())
}

// parseNewProperty reads "Title | Description | Location | Price | Guests [| Image URL]".
func parseNewProperty(args string) (models.NewProperty, error) {
	parts := strings.Split(args, "|")
	if len(parts) < 5 || len(parts) > 6 {
		return models.NewProperty{}, domain.NewValidationError("property",
			"Usage: /newproperty Title | Description | Location | Price | Guests [| Image URL]")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	price, err := models.ParseMoney(parts[3])
	if err != nil {
		return models.NewProperty{}, domain.NewValidationError("price_per_night", "Price must be a number")
	}
	guests, err := strconv.Atoi(parts[4])
	if err != nil {
		return models.NewProperty{}, domain.NewValidationError("max_guests", "Guests must be a whole number")
	}

	p := models.NewProperty{
		Title:         parts[0],
		Description:   parts[1],
		Location:      parts[2],
		PricePerNight: price,
		MaxGuests:     guests,
	}
	if len(parts) == 6 {
		p.ImageURL = parts[5]
	}
	return p, nil
}

func (b *Bot) handleNewProperty(ctx context.Context, ws *Workspace, args string) {
	p, err := parseNewProperty(args)
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	id, err := ws.admin.CreateProperty(ctx, p)
	if err != nil {
		b.adminResult(ws, err)
		return
	}
	b.sendMessage(ws.chatID, fmt.Sprintf("✅ %s\n🆔 %s", ws.admin.View().Message, id))
}

func (b *Bot) handleEditProperty(ctx context.Context, ws *Workspace, args string) {
	id, err := parseID(args, "property")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	if err := b.ensureAdminLoaded(ctx, ws); err != nil {
		b.sendMessage(ws.chatID, viewText(ws.admin.View()))
		return
	}
	draft, err := ws.admin.StartEdit(id)
	if err != nil {
		b.adminResult(ws, err)
		return
	}
	b.sendMessage(ws.chatID, draftText(draft)+"\n\nChange fields with /set <title|description|location|price|guests> <value>, then /saveedit.")
}

func draftText(d models.PropertyUpdate) string {
	return fmt.Sprintf("✏️ Editing %s\ntitle: %s\ndescription: %s\nlocation: %s\nprice: %s\nguests: %d",
		d.ID, d.Title, d.Description, d.Location, d.PricePerNight, d.MaxGuests)
}

// applyField sets one draft field from text input.
func applyField(d *models.PropertyUpdate, field, value string) error {
	switch field {
	case "title":
		d.Title = value
	case "description":
		d.Description = value
	case "location":
		d.Location = value
	case "price":
		price, err := models.ParseMoney(value)
		if err != nil {
			return domain.NewValidationError("price_per_night", "Price must be a number")
		}
		d.PricePerNight = price
	case "guests":
		guests, err := strconv.Atoi(value)
		if err != nil {
			return domain.NewValidationError("max_guests", "Guests must be a whole number")
		}
		d.MaxGuests = guests
	default:
		return domain.NewValidationError("field", "Unknown field "+field)
	}
	return nil
}

func (b *Bot) handleSetField(ws *Workspace, args string) {
	field, value, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok {
		b.sendMessage(ws.chatID, "Usage: /set <field> <value>")
		return
	}
	value = strings.TrimSpace(value)

	var applyErr error
	err := ws.admin.UpdateDraft(func(d *models.PropertyUpdate) {
		applyErr = applyField(d, strings.ToLower(field), value)
	})
	if err == nil {
		err = applyErr
	}
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}

	draft, _ := ws.admin.Editing()
	b.sendMessage(ws.chatID, draftText(draft))
}

func (b *Bot) handleAmenities(ctx context.Context, ws *Workspace, args string) {
	id, err := parseID(args, "property")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	if err := ws.admin.Load(ctx); err != nil {
		b.sendMessage(ws.chatID, viewText(ws.admin.View()))
		return
	}
	if len(ws.admin.Amenities()) == 0 {
		b.sendMessage(ws.chatID, "No amenities yet. Create one with /amenity <name>.")
		return
	}

	ws.setAmenityTarget(id)
	text, markup := amenityKeyboard(id, ws.admin.Amenities(), ws.admin.Selection(id))
	if _, err := b.tgService.SendWithInlineKeyboard(ws.chatID, text, markup); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", ws.chatID).Msg("Failed to send amenity picker")
	}
}

// amenityKeyboard renders one toggle button per amenity. The target property is kept in the
// workspace so callback data stays within Telegram's 64 byte limit.
func amenityKeyboard(propertyID uuid.UUID, amenities []models.Amenity, sel screens.AmenitySelection) (string, tgbotapi.InlineKeyboardMarkup) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(amenities)+1)
	for _, a := range amenities {
		mark := "⬜"
		if sel.Contains(a.ID) {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+a.Name, cbAmenity+a.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💾 Save (%d)", sel.Len()), cbAmenitySave),
	))
	return "✨ Amenities for " + propertyID.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// handleImageDraft reads "<property id> <url> [order] [caption...]".
func (b *Bot) handleImageDraft(ws *Workspace, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.sendMessage(ws.chatID, "Usage: /image <property id> <url> [order] [caption]")
		return
	}
	id, err := parseID(fields[0], "property")
	if err != nil {
		b.sendError(ws.chatID, err)
		return
	}
	if _, err := ws.session.RequireAdmin(); err != nil {
		b.sendError(ws.chatID, err)
		return
	}

	draft := ws.admin.ImageDraft(id).WithURL(fields[1])
	rest := fields[2:]
	if len(rest) > 0 {
		if order, err := strconv.Atoi(rest[0]); err == nil {
			draft = draft.WithOrder(order)
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		draft = draft.WithCaption(strings.Join(rest, " "))
	}
	ws.admin.SetImageDraft(id, draft)

	in := draft.Input()
	b.sendMessage(ws.chatID, fmt.Sprintf("🖼 Image drafted\nurl: %s\norder: %d\ncaption: %s\n\nSend /addimage %s to upload.",
		in.ImageURL, in.DisplayOrder, in.Caption, id))
}
