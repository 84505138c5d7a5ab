package service

import (
	"context"
	"fmt"

	"receipt-bot/internal/mindee"
	"receipt-bot/internal/telegram"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// failureReply is sent to the chat when any pipeline step fails, so the user
// is never left without feedback.
const failureReply = "Sorry, I could not read that receipt. Please try again."

// Dispatcher is the per-update entry point. It filters updates down to
// receipt images, runs the download -> extract -> map -> render pipeline and
// sends the two reply messages.
type Dispatcher struct {
	tg        *telegram.Client
	extractor *mindee.Client
	logger    *zap.Logger
}

func NewDispatcher(tg *telegram.Client, extractor *mindee.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		tg:        tg,
		extractor: extractor,
		logger:    logger,
	}
}

// HandleUpdate processes one inbound update. Updates that carry neither a
// photo nor an image document are ignored without a reply. Each update is
// handled independently and statelessly.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update *telegram.Update) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message

	var fileID, filename string
	switch {
	case len(msg.Photo) > 0:
		// Take the highest-resolution variant, last in the list.
		fileID = msg.Photo[len(msg.Photo)-1].FileID
		filename = "receipt.jpg"
	case msg.Document != nil && isImageDocument(msg.Document.MimeType):
		fileID = msg.Document.FileID
		filename = msg.Document.FileName
		if filename == "" {
			filename = "receipt"
		}
	default:
		return
	}

	log := d.logger.With(
		zap.String("request_id", uuid.New().String()),
		zap.Int64("update_id", update.UpdateID),
		zap.Int64("chat_id", msg.Chat.ID),
	)

	if err := d.process(ctx, msg, fileID, filename, log); err != nil {
		log.Error("Receipt processing failed", zap.Error(err))
		if replyErr := d.tg.ReplyTo(ctx, msg.Chat.ID, msg.MessageID, failureReply); replyErr != nil {
			log.Error("Failed to send failure reply", zap.Error(replyErr))
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, msg *telegram.Message, fileID, filename string, log *zap.Logger) error {
	filePath, err := d.tg.GetFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to resolve file location: %w", err)
	}

	image, err := d.tg.DownloadFile(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}

	prediction, err := d.extractor.ParseReceipt(ctx, image, filename)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	receipt, err := MapPrediction(prediction)
	if err != nil {
		return fmt.Errorf("failed to map prediction: %w", err)
	}

	if err := d.tg.ReplyTo(ctx, msg.Chat.ID, msg.MessageID, Summary(receipt)); err != nil {
		return fmt.Errorf("failed to send summary reply: %w", err)
	}
	if err := d.tg.SendMessage(ctx, msg.Chat.ID, Command(receipt)); err != nil {
		return fmt.Errorf("failed to send command message: %w", err)
	}

	log.Info("Receipt processed",
		zap.String("merchant", receipt.Merchant),
		zap.String("category", receipt.Category),
		zap.Float64("total", receipt.Total),
	)
	return nil
}

func isImageDocument(mimeType string) bool {
	switch mimeType {
	case "image/jpg", "image/jpeg", "image/png":
		return true
	}
	return false
}
