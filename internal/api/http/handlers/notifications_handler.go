package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/dto"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
)

// NotificationsHandler exposes the notification ledger.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.List(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        item.ID,
			Title:     item.Title,
			Message:   item.Message,
			Link:      item.Link,
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkRead(c.UserContext(), actor.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "ok"})
}

// MarkAllRead POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllRead(c.UserContext(), actor.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "ok"})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{Unread: count}})
}
