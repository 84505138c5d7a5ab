package handlers

import (
	"receipt-bot/internal/service"
	"receipt-bot/internal/telegram"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler receives chat-update payloads pushed by the chat platform.
type WebhookHandler struct {
	dispatcher *service.Dispatcher
	logger     *zap.Logger
}

func NewWebhookHandler(dispatcher *service.Dispatcher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ReceiveUpdate handles one webhook delivery. Anything other than a JSON
// body is rejected with 402 and a fixed message; the update itself is
// processed synchronously before the response is written.
func (h *WebhookHandler) ReceiveUpdate(c *fiber.Ctx) error {
	if !c.Is("json") {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"detail": "Unrecognized data received. Try again.",
		})
	}

	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		h.logger.Warn("Failed to decode update payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Malformed update payload",
		})
	}

	h.dispatcher.HandleUpdate(c.Context(), &update)
	return c.SendString("Message received")
}
