package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

func TestSendOrderEvent(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		stop     string
		wantType string
		wantDocs []string
	}{
		{name: "pickup", status: "PUP", stop: "A", wantType: "DEPARTURE"},
		{name: "proof of delivery", status: "POD", stop: "B", wantType: "POD", wantDocs: []string{"HB001/HCPOD"}},
		{name: "exception", status: "dam", stop: "A", wantType: "DAMAGED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv()
			seed(t, e, twoGroupRequest())

			ev := StatusEvent{FreightOrderID: "6100001369", Housebill: "HB001", StatusCode: tc.status, EventDateTime: "2024-07-01 10:00:00.000"}
			require.NoError(t, e.orderEvent().Execute(context.Background(), rawOf(t, ev)))

			require.Len(t, e.network.events, 1)
			got := e.network.events[0]
			assert.Equal(t, tc.wantType, got.EventType)
			assert.Equal(t, tc.stop, got.StopID)
			assert.Equal(t, "2024-07-01T15:00:00Z", got.EventDateTime)
			assert.Equal(t, tc.wantDocs, e.docs.calls)
			assert.Len(t, got.Attachments, len(tc.wantDocs))
		})
	}
}

func TestSendOrderEventSkips(t *testing.T) {
	e := newEnv()
	seed(t, e, twoGroupRequest())

	for _, ev := range []StatusEvent{
		{FreightOrderID: "6100001369", Housebill: "HB001", StatusCode: "ZZZ"},
		{FreightOrderID: "6100001369", Housebill: "HB999", StatusCode: "PUP"},
	} {
		require.NoError(t, e.orderEvent().Execute(context.Background(), rawOf(t, ev)))
	}
	assert.Empty(t, e.network.events)
	assert.Empty(t, e.notifier.sent)
}

func TestSendOrderEventBadDate(t *testing.T) {
	e := newEnv()
	seed(t, e, twoGroupRequest())

	ev := StatusEvent{FreightOrderID: "6100001369", Housebill: "HB001", StatusCode: "PUP", EventDateTime: "yesterday"}
	require.NoError(t, e.orderEvent().Execute(context.Background(), rawOf(t, ev)))
	assert.Empty(t, e.network.events)

	var failed int
	for _, entry := range e.log.entries {
		if entry.Process == domain.ProcessOrderEvent && entry.Status == domain.StatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}
