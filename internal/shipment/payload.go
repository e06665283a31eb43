package shipment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// BuildPayload собирает отправку для одной группы.
func BuildPayload(req domain.ShipmentRequest, g ItemGroup) (domain.ShipmentPayload, error) {
	loading, ok := findLoading(req.TransportationStages, g.From)
	if !ok {
		return domain.ShipmentPayload{}, domain.Validationf("no transportation stage loads at %s", g.From)
	}
	unloading, ok := findUnloading(req.TransportationStages, g.To)
	if !ok {
		return domain.ShipmentPayload{}, domain.Validationf("no transportation stage unloads at %s", g.To)
	}

	level, err := ResolveServiceLevel(req.TransportationStages, g.From, g.To, req.ShippingTypeCode)
	if err != nil {
		return domain.ShipmentPayload{}, err
	}
	if level == "" {
		return domain.ShipmentPayload{}, domain.Validationf("cannot resolve service level for shipment from %s to %s", g.From, g.To)
	}

	return domain.ShipmentPayload{
		Header:       BuildHeader(req),
		Parties:      BuildParties(loading, unloading),
		References:   BuildReferences(loading, unloading, req.FreightOrderID),
		Lines:        BuildLines(g.Items),
		Dates:        BuildDates(loading, unloading),
		ServiceLevel: level,
	}, nil
}

// BuildPayloads строит отправки всех групп параллельно; порядок результата совпадает с порядком групп.
func BuildPayloads(ctx context.Context, req domain.ShipmentRequest, groups Groups) ([]domain.GroupPayload, error) {
	out := make([]domain.GroupPayload, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i, grp := range groups {
		g.Go(func() error {
			// После первой ошибки оставшиеся группы не строятся.
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := BuildPayload(req, grp)
			if err != nil {
				return err
			}
			out[i] = domain.GroupPayload{StopID: grp.Key, From: grp.From, To: grp.To, Payload: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func findLoading(stages []domain.TransportationStage, id string) (domain.TransportationStage, bool) {
	for _, s := range stages {
		if s.LoadingLocation.ID == id {
			return s, true
		}
	}
	return domain.TransportationStage{}, false
}

func findUnloading(stages []domain.TransportationStage, id string) (domain.TransportationStage, bool) {
	for _, s := range stages {
		if s.UnloadingLocation.ID == id {
			return s, true
		}
	}
	return domain.TransportationStage{}, false
}
