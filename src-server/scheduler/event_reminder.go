package scheduler

import (
	"time"

	"eventhub/src-server/catalog"
	"eventhub/src-server/utils"
)

// Scans the catalog every 30 seconds and sends one reminder per event
// whose parsed start falls in the next 15 minutes. Reminders are
// best-effort like everything the notifier does.
func EventReminder(as *utils.AppState) {
	sent := make(map[int]struct{})
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	ticker := time.NewTicker(time.Second * 30)
	defer ticker.Stop()

	for {
		select {
		case <-*gracefulShutdownCh:
			return
		case <-ticker.C:
		}

		now := time.Now().In(as.Config.GetLocation())
		for _, event := range catalog.Events() {
			if _, ok := sent[event.ID]; ok {
				continue
			}
			if !catalog.StartsWithin(as.When, event, now, 15*time.Minute) {
				continue
			}
			as.Notifier.Send(
				"Upcoming event",
				event.Title+" starts soon at "+event.Location,
			)
			sent[event.ID] = struct{}{}
		}
	}
}
