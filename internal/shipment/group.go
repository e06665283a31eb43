package shipment

import "github.com/example/lbn-shipment-sync/internal/domain"

// ItemGroup грузовые места одной пары остановок.
type ItemGroup struct {
	Key   string
	From  string
	To    string
	Items []domain.Item
}

// Groups группы в порядке первого появления ключа.
type Groups []ItemGroup

// StopKey составной ключ "{from}-{to}".
func StopKey(from, to string) string {
	return from + "-" + to
}

// GroupItems разбивает места по парам shipFrom/shipTo. Каждое место попадает ровно в одну группу.
func GroupItems(items []domain.Item) Groups {
	groups := Groups{}
	index := make(map[string]int, len(items))
	for _, it := range items {
		key := StopKey(it.ShipFromLocationID, it.ShipToLocationID)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ItemGroup{Key: key, From: it.ShipFromLocationID, To: it.ShipToLocationID})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

func (g Groups) Keys() []string {
	keys := make([]string, len(g))
	for i := range g {
		keys[i] = g[i].Key
	}
	return keys
}

func (g Groups) Get(key string) (ItemGroup, bool) {
	for _, grp := range g {
		if grp.Key == key {
			return grp, true
		}
	}
	return ItemGroup{}, false
}
