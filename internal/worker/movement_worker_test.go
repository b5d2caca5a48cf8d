package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMovementRepo struct {
	created []*model.StockMovement
	failing bool
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	if r.failing {
		return errors.New("insert failed")
	}
	r.created = append(r.created, m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, _ uuid.UUID, _ int) ([]model.StockMovement, error) {
	return nil, nil
}

func TestMovementWorker_PersistsPayload(t *testing.T) {
	repo := &stubMovementRepo{}
	w := NewMovementWorker(repo)

	productID := uuid.New()
	batchID := uuid.New().String()
	payload, _ := json.Marshal(MovementJobPayload{
		ProductID:    productID.String(),
		BatchID:      &batchID,
		MovementType: model.MovementOut,
		Quantity:     "2.5",
	})

	require.NoError(t, w.Process(context.Background(), payload))
	require.Len(t, repo.created, 1)
	assert.Equal(t, productID, repo.created[0].ProductID)
	assert.Equal(t, model.MovementOut, repo.created[0].MovementType)
	assert.Equal(t, "2.5", repo.created[0].Quantity.String())
}

func TestMovementWorker_MalformedPayloadNotRetried(t *testing.T) {
	repo := &stubMovementRepo{}
	w := NewMovementWorker(repo)

	// Garbage JSON and bad field values drop the job instead of erroring,
	// so the pool never sends them to the DLQ.
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{not json`)))

	payload, _ := json.Marshal(MovementJobPayload{ProductID: "not-a-uuid", Quantity: "1"})
	assert.NoError(t, w.Process(context.Background(), payload))

	payload, _ = json.Marshal(MovementJobPayload{ProductID: uuid.NewString(), Quantity: "one"})
	assert.NoError(t, w.Process(context.Background(), payload))

	assert.Empty(t, repo.created)
}

func TestMovementWorker_InsertFailureIsRetryable(t *testing.T) {
	repo := &stubMovementRepo{failing: true}
	w := NewMovementWorker(repo)

	payload, _ := json.Marshal(MovementJobPayload{
		ProductID:    uuid.NewString(),
		MovementType: model.MovementIn,
		Quantity:     "10",
	})
	assert.Error(t, w.Process(context.Background(), payload))
}
