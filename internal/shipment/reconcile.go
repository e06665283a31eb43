package shipment

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

// Entry один ключ группы после сверки. Prior заполнен для UNCHANGED, RECREATE и OBSOLETE;
// у RECREATE с пустой Prior.Housebill отменять уже нечего.
type Entry struct {
	Action domain.UpdateAction
	Group  domain.GroupPayload
	Prior  domain.ShipmentDetail
	Diff   string
}

// Plan результат сверки новых отправок с сохранённой записью.
type Plan struct {
	FreightOrderID string
	Unchanged      []Entry
	ToRecreate     []Entry
	New            []Entry
	Obsolete       []Entry
}

// Pending число ключей, требующих вызовов WorldTrak.
func (p Plan) Pending() int {
	return len(p.ToRecreate) + len(p.New) + len(p.Obsolete)
}

// Entries все записи плана в порядке исполнения: отмены устаревших, пересоздания, новые, без изменений.
func (p Plan) Entries() []Entry {
	out := make([]Entry, 0, len(p.Obsolete)+len(p.ToRecreate)+len(p.New)+len(p.Unchanged))
	out = append(out, p.Obsolete...)
	out = append(out, p.ToRecreate...)
	out = append(out, p.New...)
	return append(out, p.Unchanged...)
}

// nil и пустой срез в сохранённой записи эквивалентны: JSON-круг их не различает.
var payloadOpts = cmp.Options{cmpopts.EquateEmpty()}

// Equal структурное сравнение отправок поле за полем.
func Equal(a, b domain.ShipmentPayload) bool {
	return cmp.Equal(a, b, payloadOpts)
}

// Reconcile классифицирует каждый ключ новых отправок относительно prior.
// prior == nil означает, что заказ ещё не создавался.
func Reconcile(freightOrderID string, payloads []domain.GroupPayload, prior *domain.PersistedShipmentRecord) Plan {
	plan := Plan{FreightOrderID: freightOrderID}
	seen := make(map[string]struct{}, len(payloads))
	for _, gp := range payloads {
		seen[gp.StopID] = struct{}{}
		old, ok := prior.Find(gp.StopID)
		if !ok {
			plan.New = append(plan.New, Entry{Action: domain.ActionNew, Group: gp})
			continue
		}
		// Пустая накладная: прежняя отправка уже отменена, а новая так и не создана.
		if old.Housebill != "" && Equal(old.Payload, gp.Payload) {
			plan.Unchanged = append(plan.Unchanged, Entry{Action: domain.ActionUnchanged, Group: gp, Prior: old})
			continue
		}
		plan.ToRecreate = append(plan.ToRecreate, Entry{
			Action: domain.ActionRecreate,
			Group:  gp,
			Prior:  old,
			Diff:   cmp.Diff(old.Payload, gp.Payload, payloadOpts),
		})
	}
	if prior != nil {
		for _, old := range prior.Shipments {
			if _, ok := seen[old.StopID]; ok {
				continue
			}
			plan.Obsolete = append(plan.Obsolete, Entry{
				Action: domain.ActionObsolete,
				Group:  domain.GroupPayload{StopID: old.StopID, From: old.From, To: old.To},
				Prior:  old,
			})
		}
	}
	return plan
}

// Summary представление плана для журнала; статус ключей, ждущих исполнения, PENDING.
func (p Plan) Summary() []domain.ShipmentUpdate {
	entries := p.Entries()
	out := make([]domain.ShipmentUpdate, 0, len(entries))
	for _, e := range entries {
		u := domain.ShipmentUpdate{
			StopID:           e.Group.StopID,
			Action:           e.Action,
			Status:           domain.StatusPending,
			InitialHousebill: e.Prior.Housebill,
			InitialFile:      e.Prior.FileNumber,
			Diff:             e.Diff,
		}
		if e.Action == domain.ActionUnchanged {
			u.Status = domain.StatusSuccess
			u.Housebill = e.Prior.Housebill
			u.FileNumber = e.Prior.FileNumber
		}
		out = append(out, u)
	}
	return out
}
