package worker

import (
	"github.com/helpdeskhq/helpdesk-service/internal/events"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
)

// StartNotificationWorker subscribes the fan-out to the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}
