// Package jobs carries background task definitions and the Asynq worker
// that processes them.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/aquacore/aquacore/internal/notifications"
	"github.com/aquacore/aquacore/internal/platform/httpx"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyEvent is the task type for lifecycle notifications.
	TaskTypeNotifyEvent = "notify:event"
)

// NotifyEventPayload addresses a lifecycle notification. Exactly one of
// UserID or CustomerID is set; customer-addressed events are resolved to
// the owning profile by the worker.
type NotifyEventPayload struct {
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
}

// NewNotifyEventTask constructs an Asynq task.
func NewNotifyEventTask(payload NotifyEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyEvent, data), nil
}

// NotifyEventHandler turns notify:event tasks into notification rows.
type NotifyEventHandler struct {
	repo   notifications.Repository
	logger *slog.Logger
}

// NewNotifyEventHandler constructs the handler.
func NewNotifyEventHandler(repo notifications.Repository, logger *slog.Logger) *NotifyEventHandler {
	return &NotifyEventHandler{repo: repo, logger: logger}
}

// ProcessTask writes the notification row. Malformed payloads and events
// addressed to accounts that no longer exist are dropped without retry.
func (h *NotifyEventHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	userID := payload.UserID
	if userID == nil {
		if payload.CustomerID == nil {
			return asynq.SkipRetry
		}
		resolved, err := h.repo.UserIDForCustomer(ctx, *payload.CustomerID)
		if errors.Is(err, httpx.ErrNotFound) {
			if h.logger != nil {
				h.logger.Warn("notify event for unknown customer",
					slog.String("customer_id", payload.CustomerID.String()))
			}
			return asynq.SkipRetry
		}
		if err != nil {
			return err
		}
		userID = &resolved
	}

	n := &notifications.Notification{
		ID:     uuid.New(),
		UserID: *userID,
		Title:  payload.Title,
		Body:   payload.Body,
	}
	return h.repo.Create(ctx, n)
}
