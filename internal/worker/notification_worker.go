package worker

import (
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/service"
)

// StartNotificationWorker subscribes the notification pipeline to the event
// dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
