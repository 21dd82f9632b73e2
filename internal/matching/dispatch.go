package matching

import (
	"context"
	"fmt"
	"log/slog"

	"recovr/internal/logging"
	"recovr/internal/notify"
	"recovr/internal/users"
)

const (
	notificationTitle   = "Potential Match Found!"
	notificationMessage = "A found item '%s' might match your lost item '%s'. Match confidence: %.1f%%. Check the details to verify."
)

// UserDirectory is the directory lookup the dispatcher needs.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (*users.User, error)
}

// Notifier persists notification records.
type Notifier interface {
	Create(ctx context.Context, userID int64, title, message, typ string, relatedItemID *int64) (*notify.Notification, error)
}

// Dispatcher fans match results out to the owners of the matched lost items.
// One failed notification never blocks the rest.
type Dispatcher struct {
	users    UserDirectory
	notifier Notifier
	enabled  bool
	logger   *slog.Logger
}

// NewDispatcher wires the dispatcher to its collaborators. A disabled
// dispatcher counts every match as skipped.
func NewDispatcher(directory UserDirectory, notifier Notifier, enabled bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		users:    directory,
		notifier: notifier,
		enabled:  enabled,
		logger:   logging.WithComponent(logger, "dispatcher"),
	}
}

// Dispatch notifies the owner of each matched lost item about the found item.
// Matches without an owner, with an unknown owner, or whose insert fails are
// logged and skipped. Returns the number of notifications created.
func (d *Dispatcher) Dispatch(ctx context.Context, foundItemName string, foundItemID int64, matches []Match) int {
	if !d.enabled || len(matches) == 0 {
		return 0
	}

	sent := 0
	for _, match := range matches {
		if match.OwnerID == nil {
			d.logger.Warn("match has no owner to notify", logging.Int64("item_id", match.ItemID))
			continue
		}
		owner, err := d.users.FindByID(ctx, *match.OwnerID)
		if err != nil {
			d.logger.Error("owner lookup failed",
				logging.Int64("owner_id", *match.OwnerID),
				logging.Error(err))
			continue
		}
		if owner == nil {
			d.logger.Warn("match owner not found", logging.Int64("owner_id", *match.OwnerID))
			continue
		}

		message := fmt.Sprintf(notificationMessage, foundItemName, match.Name, match.Confidence)
		related := foundItemID
		if _, err := d.notifier.Create(ctx, owner.ID, notificationTitle, message, notify.TypeMatchFound, &related); err != nil {
			d.logger.Error("notification create failed",
				logging.Int64("owner_id", owner.ID),
				logging.Int64("item_id", match.ItemID),
				logging.Error(err))
			continue
		}
		sent++
	}

	d.logger.Info("match notifications dispatched",
		logging.Int64("found_item_id", foundItemID),
		logging.Int("matches", len(matches)),
		logging.Int("sent", sent))
	return sent
}
