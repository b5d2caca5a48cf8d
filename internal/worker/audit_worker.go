package worker

// audit_worker.go
// Persists audit log entries dequeued from QueueAudit. Like movements,
// audit writes never block or roll back the operation they describe.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditJobPayload is the job envelope sent to QueueAudit.
type AuditJobPayload struct {
	UserID    string  `json:"user_id"`
	Action    string  `json:"action"`
	IPAddress *string `json:"ip_address,omitempty"`
}

type AuditWorker struct {
	repo repository.AuditRepository
}

func NewAuditWorker(repo repository.AuditRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AuditJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		log.Error().Str("user_id", payload.UserID).Msg("audit_worker: invalid user_id")
		return nil
	}

	entry := &model.AuditLog{
		UserID:    userID,
		Action:    payload.Action,
		IPAddress: payload.IPAddress,
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("audit insert failed: %w", err)
	}
	return nil
}
