package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

func stage(from, to, dur string) domain.TransportationStage {
	s := domain.TransportationStage{
		SenderSystemStageID: from + to,
		LoadingLocation:     domain.Location{ID: from},
		UnloadingLocation:   domain.Location{ID: to},
	}
	if dur != "" {
		s.TotalDuration = &domain.Quantity{Value: dur}
	}
	return s
}

func TestResolveServiceLevelDirect(t *testing.T) {
	tests := []struct {
		name string
		dur  string
		want domain.ServiceLevel
	}{
		{"zero", "PT0S", domain.ServiceNextDay},
		{"next day", "PT10H", domain.ServiceNextDay},
		{"upper bound of ND", "PT24H", domain.ServiceNextDay},
		{"overlap goes to 2D", "PT26H", domain.ServiceTwoDay},
		{"still 2D", "PT48H", domain.ServiceTwoDay},
		{"3A", "PT50H", domain.ServiceThreeDayA},
		{"3D", "PT72H", domain.ServiceThreeDay},
		{"4D", "P3DT12H", domain.ServiceFourDay},
		{"EC", "PT120H", domain.ServiceEconomy},
		{"beyond table", "PT121H", domain.ServiceExtended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveServiceLevel([]domain.TransportationStage{stage("A", "B", tt.dur)}, "A", "B", domain.ShippingTypeDomestic)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveServiceLevelTruckloadIgnoresDuration(t *testing.T) {
	stages := []domain.TransportationStage{stage("A", "B", "")}
	got, err := ResolveServiceLevel(stages, "A", "Z", domain.ShippingTypeTruckload)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceHotShot, got)
}

func TestResolveServiceLevelDirectWithoutDuration(t *testing.T) {
	_, err := ResolveServiceLevel([]domain.TransportationStage{stage("A", "B", "")}, "A", "B", 0)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "from A to B")
}

func TestResolveServiceLevelChain(t *testing.T) {
	stages := []domain.TransportationStage{
		stage("C", "D", "PT3H"),
		stage("A", "B", "PT4H"),
		stage("B", "C", "PT0S"),
	}
	got, err := ResolveServiceLevel(stages, "A", "D", domain.ShippingTypeDomestic)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceNextDay, got)
}

func TestResolveServiceLevelChainBands(t *testing.T) {
	stages := []domain.TransportationStage{
		stage("A", "B", "PT40H"),
		stage("B", "C", "PT30H"),
	}
	got, err := ResolveServiceLevel(stages, "A", "C", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceThreeDay, got)

	stages = append(stages, stage("C", "D", "PT60H"))
	got, err = ResolveServiceLevel(stages, "A", "D", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceExtended, got)
}

func TestResolveServiceLevelChainErrors(t *testing.T) {
	tests := []struct {
		name   string
		stages []domain.TransportationStage
	}{
		{"missing duration on a leg", []domain.TransportationStage{stage("A", "B", "PT4H"), stage("B", "D", "")}},
		{"unreachable", []domain.TransportationStage{stage("A", "B", "PT4H"), stage("C", "D", "PT3H")}},
		{"cycle", []domain.TransportationStage{stage("A", "B", "PT1H"), stage("B", "A", "PT1H")}},
		{"bad duration", []domain.TransportationStage{stage("A", "B", "four hours"), stage("B", "D", "PT1H")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveServiceLevel(tt.stages, "A", "D", 0)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBandForOrderTieBreak(t *testing.T) {
	assert.Equal(t, domain.ServiceTwoDay, BandFor(28))
	assert.Equal(t, domain.ServiceTwoDay, BandFor(30))
	assert.Equal(t, domain.ServiceLevel(""), BandFor(-1))
	assert.Equal(t, domain.ServiceLevel(""), BandFor(0))
}
