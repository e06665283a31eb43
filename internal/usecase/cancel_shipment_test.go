package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

func TestCancelShipmentCancelsEveryHousebill(t *testing.T) {
	e := newEnv()
	req := twoGroupRequest()
	seed(t, e, req)

	res, err := e.cancel().Execute(context.Background(), req.FreightOrderID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, []string{"HB001", "HB002"}, e.tms.cancelled)

	rec, err := e.records.GetRecord(context.Background(), req.FreightOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCancelled, rec.Status)
	assert.Len(t, rec.Shipments, 2, "record keeps its shipments")

	_, err = e.cancel().Execute(context.Background(), req.FreightOrderID, nil)
	require.ErrorIs(t, err, domain.ErrSkipped)
	assert.Len(t, e.tms.cancelled, 2)
}

func TestCancelShipmentPartialRejection(t *testing.T) {
	e := newEnv()
	req := twoGroupRequest()
	seed(t, e, req)
	e.tms.reject = map[string]bool{"HB001": true}

	res, err := e.cancel().Execute(context.Background(), req.FreightOrderID, nil)
	require.ErrorIs(t, err, domain.ErrDownstream)
	assert.Equal(t, domain.StatusFailed, res.Status)

	entry, err := e.log.GetLog(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"HB001": "rejected", "HB002": "cancelled"}, entry.Responses)

	rec, err := e.records.GetRecord(context.Background(), req.FreightOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordActive, rec.Status)
}

func TestCancelShipmentUnknownOrder(t *testing.T) {
	e := newEnv()
	_, err := e.cancel().Execute(context.Background(), "nope", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelShipmentRetryCancelsOnlyRemaining(t *testing.T) {
	e := newEnv()
	req := twoGroupRequest()
	seed(t, e, req)
	e.tms.reject = map[string]bool{"HB001": true}

	_, err := e.cancel().Execute(context.Background(), req.FreightOrderID, nil)
	require.ErrorIs(t, err, domain.ErrDownstream)

	rec, err := e.records.GetRecord(context.Background(), req.FreightOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordActive, rec.Status)
	assert.Equal(t, []string{"HB002"}, rec.CancelledHousebills)
	assert.Equal(t, []string{"HB001"}, rec.Housebills())

	e.tms.reject = nil
	res, err := e.cancel().Execute(context.Background(), req.FreightOrderID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, []string{"HB002", "HB001"}, e.tms.cancelled, "each housebill is cancelled once")

	entry, err := e.log.GetLog(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"HB001": "cancelled", "HB002": "cancelled"}, entry.Responses)

	rec, err = e.records.GetRecord(context.Background(), req.FreightOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecordCancelled, rec.Status)
	assert.Equal(t, []string{"HB002", "HB001"}, rec.CancelledHousebills)
}
