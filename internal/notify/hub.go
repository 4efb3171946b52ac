package notify

import (
	"context"

	"internfinder-engine/internal/domain"
	"internfinder-engine/internal/events"
)

// HubNotifier publishes the new subset to SSE subscribers.
type HubNotifier struct {
	Hub *events.Hub
}

func (n *HubNotifier) Notify(_ context.Context, fresh []domain.Listing) error {
	if n.Hub == nil || len(fresh) == 0 {
		return nil
	}
	n.Hub.Publish(events.MakeEvent(events.TypeListingsFound, map[string]any{
		"count":    len(fresh),
		"listings": fresh,
	}))
	return nil
}
