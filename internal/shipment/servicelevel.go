package shipment

import (
	"github.com/sosodev/duration"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// ResolveServiceLevel вычисляет класс сервиса по длительности плеч между source и destination.
func ResolveServiceLevel(stages []domain.TransportationStage, source, destination string, code domain.ShippingTypeCode) (domain.ServiceLevel, error) {
	if code == domain.ShippingTypeTruckload {
		return domain.ServiceHotShot, nil
	}

	if stage, ok := directStage(stages, source, destination); ok {
		if !stage.HasDuration() {
			return "", durationError(source, destination)
		}
		hours, err := StageHours(stage)
		if err != nil {
			return "", err
		}
		return levelForHours(hours), nil
	}

	hours, err := chainHours(stages, source, destination)
	if err != nil {
		return "", err
	}
	return levelForHours(hours), nil
}

func levelForHours(hours float64) domain.ServiceLevel {
	switch {
	case hours == 0:
		return domain.ServiceNextDay
	case hours > MaxBandHours:
		return domain.ServiceExtended
	}
	return BandFor(hours)
}

func directStage(stages []domain.TransportationStage, source, destination string) (domain.TransportationStage, bool) {
	for _, s := range stages {
		if s.LoadingLocation.ID == source && s.UnloadingLocation.ID == destination {
			return s, true
		}
	}
	return domain.TransportationStage{}, false
}

// chainHours идёт по цепочке плеч от source до destination, суммируя длительности.
// Число шагов ограничено числом плеч, так что цикл в данных даёт ошибку, а не зависание.
func chainHours(stages []domain.TransportationStage, source, destination string) (float64, error) {
	current := source
	total := 0.0
	for step := 0; current != destination; step++ {
		if step >= len(stages) {
			return 0, durationError(source, destination)
		}
		next, ok := nextStage(stages, current)
		if !ok || !next.HasDuration() {
			return 0, durationError(source, destination)
		}
		h, err := StageHours(next)
		if err != nil {
			return 0, err
		}
		total += h
		current = next.UnloadingLocation.ID
	}
	return total, nil
}

func nextStage(stages []domain.TransportationStage, from string) (domain.TransportationStage, bool) {
	for _, s := range stages {
		if s.LoadingLocation.ID == from {
			return s, true
		}
	}
	return domain.TransportationStage{}, false
}

// StageHours переводит ISO-8601 длительность плеча в часы.
func StageHours(s domain.TransportationStage) (float64, error) {
	if !s.HasDuration() {
		return 0, durationError(s.LoadingLocation.ID, s.UnloadingLocation.ID)
	}
	d, err := duration.Parse(s.TotalDuration.Value)
	if err != nil {
		return 0, domain.Validationf("invalid total duration %q for stage %s: %v", s.TotalDuration.Value, s.SenderSystemStageID, err)
	}
	return d.ToTimeDuration().Hours(), nil
}

func durationError(source, destination string) error {
	return domain.Validationf("Cannot get the total duration from the connecting stages, please provide the total duration for this shipment from %s to %s", source, destination)
}
