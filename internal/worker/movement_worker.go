package worker

// movement_worker.go
// Persists stock movement records dequeued from QueueMovements. Movements
// are a best-effort trail: the originating sale or stock-in has already
// committed, so failures land in the DLQ instead of rolling anything back.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MovementJobPayload is the job envelope sent to QueueMovements.
type MovementJobPayload struct {
	ProductID     string  `json:"product_id"`
	BatchID       *string `json:"batch_id,omitempty"`
	MovementType  string  `json:"movement_type"`
	Quantity      string  `json:"quantity"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	ReferenceType *string `json:"reference_type,omitempty"`
	CreatedBy     *string `json:"created_by,omitempty"`
}

type MovementWorker struct {
	repo repository.MovementRepository
}

func NewMovementWorker(repo repository.MovementRepository) *MovementWorker {
	return &MovementWorker{repo: repo}
}

func (w *MovementWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload MovementJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("movement_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		log.Error().Str("product_id", payload.ProductID).Msg("movement_worker: invalid product_id")
		return nil
	}
	qty, err := decimal.NewFromString(payload.Quantity)
	if err != nil {
		log.Error().Str("quantity", payload.Quantity).Msg("movement_worker: invalid quantity")
		return nil
	}

	movement := &model.StockMovement{
		ProductID:     productID,
		MovementType:  payload.MovementType,
		Quantity:      qty,
		ReferenceType: payload.ReferenceType,
		BatchID:       parseUUIDPtr(payload.BatchID),
		ReferenceID:   parseUUIDPtr(payload.ReferenceID),
		CreatedBy:     parseUUIDPtr(payload.CreatedBy),
	}

	if err := w.repo.Create(ctx, movement); err != nil {
		return fmt.Errorf("movement insert failed: %w", err)
	}
	return nil
}

func parseUUIDPtr(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
