package domain

import (
	"context"
	"log"
)

// Notifier appends notification rows for users. One row per logical
// event; no batching, no deduplication.
type Notifier struct {
	repo NotificationRepository
}

// NewNotifier creates a new Notifier.
func NewNotifier(repo NotificationRepository) *Notifier {
	return &Notifier{repo: repo}
}

// Notify appends a notification for the user. Callers on business
// paths must treat a failure as non-fatal; NotifyBestEffort does the
// logging for those call sites.
func (n *Notifier) Notify(ctx context.Context, userID int64, message string) error {
	return n.repo.AddNotification(ctx, userID, message)
}

// NotifyBestEffort appends a notification and swallows any failure,
// logging it. The triggering operation has already committed and must
// not be rolled back or reported failed because a notification write
// did not stick.
func (n *Notifier) NotifyBestEffort(ctx context.Context, userID int64, message string) {
	if err := n.repo.AddNotification(ctx, userID, message); err != nil {
		log.Printf("notify user %d failed: %v", userID, err)
	}
}
