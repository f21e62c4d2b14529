package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/repository"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

const unreadCacheTTL = 5 * time.Minute

// NotificationService performs the fan-out for ticket events and owns
// the per-recipient read/unread ledger. Fan-out is at-least-once and
// best-effort: a failed write is logged and the batch continues, and
// nothing ever rolls back the triggering mutation.
type NotificationService struct {
	notifications repository.NotificationRepository
	directory     repository.ActorDirectory
	cache         *redis.Client
	logger        *zap.Logger
}

// NewNotificationService creates the service. cache may be nil; the
// unread count then always hits the database.
func NewNotificationService(notifications repository.NotificationRepository, directory repository.ActorDirectory, cache *redis.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		directory:     directory,
		cache:         cache,
		logger:        logger,
	}
}

// RegisterHandlers subscribes the fan-out to ticket events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handlePriorityChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, n.handleAssigned)
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	title := "New comment"
	message := fmt.Sprintf("A new comment was added to ticket %q.", event.TicketTitle)
	return n.fanOut(ctx, event, title, message)
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	title := "Status changed"
	message := fmt.Sprintf("Ticket %q changed status.", event.TicketTitle)
	if payload, ok := event.Payload.(events.StatusChangedPayload); ok {
		message = fmt.Sprintf("Ticket %q moved from %q to %q.", event.TicketTitle, payload.OldStatus, payload.NewStatus)
	}
	return n.fanOut(ctx, event, title, message)
}

func (n *NotificationService) handlePriorityChanged(ctx context.Context, event events.Event) error {
	title := "Priority changed"
	message := fmt.Sprintf("Ticket %q has a new priority.", event.TicketTitle)
	return n.fanOut(ctx, event, title, message)
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	title := "Ticket assigned"
	message := fmt.Sprintf("Ticket %q was assigned.", event.TicketTitle)
	return n.fanOut(ctx, event, title, message)
}

// fanOut resolves the recipient set and writes one notification per
// recipient. Recipients: every current Admin, the ticket owner and the
// assignee, deduplicated, minus the acting actor. The event carries the
// post-mutation ticket snapshot, so resolution observes the new state.
func (n *NotificationService) fanOut(ctx context.Context, event events.Event, title, message string) error {
	recipients := map[string]struct{}{}

	adminIDs, err := n.directory.ListIDsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	for _, id := range adminIDs {
		recipients[id] = struct{}{}
	}
	if event.OwnerID != "" {
		recipients[event.OwnerID] = struct{}{}
	}
	if event.AssignedToID != nil {
		recipients[*event.AssignedToID] = struct{}{}
	}
	if event.ActorID != "" {
		delete(recipients, event.ActorID)
	}

	ordered := make([]string, 0, len(recipients))
	for id := range recipients {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	link := "/tickets/" + event.TicketID
	for _, recipientID := range ordered {
		notification := &domain.Notification{
			RecipientID: recipientID,
			Title:       title,
			Message:     message,
			Link:        &link,
		}
		if err := n.notifications.Create(ctx, notification); err != nil {
			n.logger.Error("notification write failed",
				zap.String("recipient_id", recipientID),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err))
			continue
		}
		n.invalidateUnread(ctx, recipientID)
	}
	return nil
}

// List returns every notification for the actor, newest first.
func (n *NotificationService) List(ctx context.Context, actorID string) ([]domain.Notification, error) {
	items, err := n.notifications.ListByRecipient(ctx, actorID)
	return items, apperrors.MapError(err)
}

// MarkRead flips one notification to read. A notification belonging to
// someone else is reported as not found, same as a missing id.
func (n *NotificationService) MarkRead(ctx context.Context, actorID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, actorID, notificationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": notificationID})
		}
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, actorID)
	return nil
}

// MarkAllRead flips every unread notification of the actor in one batch.
func (n *NotificationService) MarkAllRead(ctx context.Context, actorID string) error {
	if err := n.notifications.MarkAllRead(ctx, actorID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, actorID)
	return nil
}

// UnreadCount serves the bell affordance; it is called on most page
// loads, so the count is cached in Redis and recomputed from the
// partial index only on a miss.
func (n *NotificationService) UnreadCount(ctx context.Context, actorID string) (int64, error) {
	key := unreadCacheKey(actorID)
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, key).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := n.notifications.CountUnread(ctx, actorID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if n.cache != nil {
		if err := n.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			n.logger.Warn("unread cache set failed", zap.Error(err))
		}
	}
	return count, nil
}

func (n *NotificationService) invalidateUnread(ctx context.Context, actorID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Del(ctx, unreadCacheKey(actorID)).Err(); err != nil {
		n.logger.Warn("unread cache invalidation failed",
			zap.String("actor_id", actorID),
			zap.Error(err))
	}
}

func unreadCacheKey(actorID string) string {
	return "notifications:unread:" + actorID
}
