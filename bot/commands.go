package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	carRepo "avtorent/database/repository/car"
	"avtorent/models"
	"avtorent/services/storage"
	"avtorent/services/workflow"
)

const helpText = `Fleet administration commands:
/add_car - add a car (guided entry)
/done - finish uploading photos
/cancel - discard the entry in progress
/list_cars - list the fleet
/edit_car <id> <field> <value> - update one field
/delete_car <id> - remove a car and its photos
/check_photos - photo storage health
/status - service status`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	adminID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		b.send(chatID, helpText)

	case "add_car":
		reply, err := b.flow.Start(ctx, adminID)
		if err != nil {
			b.logger.Error("entry start failed", zap.Int64("adminID", adminID), zap.Error(err))
			b.send(chatID, "Failed to start. Please try again.")
			return
		}
		b.render(chatID, 0, []workflow.Reply{reply})

	case "done":
		replies, err := b.flow.HandleEvent(ctx, adminID, workflow.Event{Type: workflow.EventDone})
		if err != nil {
			b.logger.Error("done event failed", zap.Int64("adminID", adminID), zap.Error(err))
		}
		b.render(chatID, 0, replies)

	case "cancel":
		reply, err := b.flow.Cancel(ctx, adminID)
		if err != nil {
			b.logger.Error("cancel failed", zap.Int64("adminID", adminID), zap.Error(err))
		}
		b.render(chatID, 0, []workflow.Reply{reply})

	case "list_cars":
		b.listCars(chatID)

	case "delete_car":
		b.deleteCar(ctx, chatID, msg.CommandArguments())

	case "edit_car":
		b.editCar(chatID, msg.CommandArguments())

	case "check_photos":
		b.checkPhotos(chatID)

	case "status":
		b.status(ctx, chatID, adminID)

	default:
		b.send(chatID, "Unknown command. Send /help for the command list.")
	}
}

func (b *Bot) listCars(chatID int64) {
	cars, err := b.cars.ListAll()
	if err != nil {
		b.logger.Error("fleet listing failed", zap.Error(err))
		b.send(chatID, "Failed to list cars.")
		return
	}
	if len(cars) == 0 {
		b.send(chatID, "The fleet is empty. Send /add_car to add the first car.")
		return
	}

	const pageSize = 10
	var sb strings.Builder
	fmt.Fprintf(&sb, "Fleet (%d):\n\n", len(cars))
	for i, c := range cars {
		if i == pageSize {
			fmt.Fprintf(&sb, "... and %d more", len(cars)-pageSize)
			break
		}
		fmt.Fprintf(&sb, "%s — %s, %.2f/day [%s]\nID: %s\n\n",
			c.FullName(), c.LicensePlate, c.DailyPrice, c.Status, c.ID)
	}
	b.send(chatID, sb.String())
}

// deleteCar removes the record and then its photos; a photo that outlives a
// failed delete is worse than a record that outlives a failed photo purge.
func (b *Bot) deleteCar(ctx context.Context, chatID int64, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		b.send(chatID, "Usage: /delete_car <id>")
		return
	}

	car, err := b.cars.GetByID(id)
	if err != nil {
		b.logger.Error("car lookup failed", zap.String("carID", id), zap.Error(err))
		b.send(chatID, "Failed to look up the car.")
		return
	}
	if car == nil {
		b.send(chatID, "No car with that ID.")
		return
	}

	if err := b.cars.Delete(id); err != nil {
		b.logger.Error("car delete failed", zap.String("carID", id), zap.Error(err))
		b.send(chatID, "Failed to delete the car.")
		return
	}

	removed := 0
	for _, url := range car.Images {
		if b.photos.Delete(ctx, url) {
			removed++
		}
	}
	b.send(chatID, fmt.Sprintf("Deleted %s.\nPhotos removed: %d/%d", car.FullName(), removed, len(car.Images)))
}

func (b *Bot) editCar(chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) < 3 {
		b.send(chatID, "Usage: /edit_car <id> <field> <value>\nFields: "+strings.Join(carRepo.EditableFields, ", "))
		return
	}
	id, field := parts[0], strings.ToLower(parts[1])
	raw := strings.Join(parts[2:], " ")

	value, err := parseFieldValue(field, raw)
	if err != nil {
		b.send(chatID, err.Error())
		return
	}

	if err := b.cars.UpdateField(id, field, value); err != nil {
		b.logger.Error("car update failed",
			zap.String("carID", id), zap.String("field", field), zap.Error(err))
		b.send(chatID, "Failed to update the car: "+err.Error())
		return
	}
	b.send(chatID, fmt.Sprintf("Updated %s = %v", field, value))
}

// parseFieldValue validates per-field input for /edit_car.
func parseFieldValue(field, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch field {
	case "daily_price":
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("daily_price must be a positive number")
		}
		return v, nil
	case "deposit":
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("deposit must not be negative")
		}
		return v, nil
	case "mileage":
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("mileage must be a non-negative integer")
		}
		return v, nil
	case "status":
		status, err := models.ParseCarStatus(raw)
		if err != nil {
			return nil, err
		}
		return string(status), nil
	case "description":
		return raw, nil
	}
	return nil, fmt.Errorf("field %q is not editable (allowed: %s)", field, strings.Join(carRepo.EditableFields, ", "))
}

// checkPhotos audits where each car's images actually live. Local-only cars
// survive a Cloudinary outage but won't be served after a host move.
func (b *Bot) checkPhotos(chatID int64) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Primary backend: %s\n", b.photos.Primary())
	if b.photos.Primary() != storage.BackendCloudinary {
		sb.WriteString("Cloudinary is not configured; uploads go to local disk.\n")
	}

	cars, err := b.cars.ListAll()
	if err != nil {
		b.logger.Error("fleet listing failed", zap.Error(err))
		b.send(chatID, sb.String()+"Failed to audit car photos.")
		return
	}

	flagged := 0
	for _, c := range cars {
		remote, local, unknown := 0, 0, 0
		for _, url := range c.Images {
			switch storage.BackendOf(url) {
			case storage.BackendCloudinary:
				remote++
			case storage.BackendLocal:
				local++
			default:
				unknown++
			}
		}
		if local > 0 || unknown > 0 || len(c.Images) == 0 {
			flagged++
			fmt.Fprintf(&sb, "\n%s (%s): %d remote, %d local, %d unknown",
				c.FullName(), c.ID, remote, local, unknown)
		}
	}
	if flagged == 0 {
		fmt.Fprintf(&sb, "\nAll %d car(s) carry remote photos only.", len(cars))
	}
	b.send(chatID, sb.String())
}

func (b *Bot) status(ctx context.Context, chatID int64, adminID int64) {
	carCount, err := b.cars.Count()
	if err != nil {
		b.logger.Error("car count failed", zap.Error(err))
	}
	catCount, err := b.categories.Count()
	if err != nil {
		b.logger.Error("category count failed", zap.Error(err))
	}
	active, _ := b.flow.Active(ctx, adminID)

	entry := "no"
	if active {
		entry = "yes"
	}
	b.send(chatID, fmt.Sprintf("Cars: %d\nCategories: %d\nPhoto backend: %s\nEntry in progress: %s",
		carCount, catCount, b.photos.Primary(), entry))
}

// downloadPhoto fetches the Telegram file into a temp file and returns its path.
func (b *Bot) downloadPhoto(fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo download returned status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp(b.tempDir, "tg_photo_*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return f.Name(), nil
}
