package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lbn-shipment-sync/internal/domain"
)

func item(from, to string, weight float64) domain.Item {
	return domain.Item{
		ShipFromLocationID: from,
		ShipToLocationID:   to,
		GrossWeight:        domain.Measurement{Value: weight, Unit: "LBR"},
	}
}

func TestGroupItems(t *testing.T) {
	items := []domain.Item{item("A", "B", 10), item("A", "B", 20), item("C", "D", 5)}

	groups := GroupItems(items)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"A-B", "C-D"}, groups.Keys())
	ab, ok := groups.Get("A-B")
	require.True(t, ok)
	assert.Equal(t, "A", ab.From)
	assert.Equal(t, "B", ab.To)
	assert.Equal(t, []domain.Item{items[0], items[1]}, ab.Items)
	cd, _ := groups.Get("C-D")
	assert.Equal(t, []domain.Item{items[2]}, cd.Items)
}

func TestGroupItemsFirstOccurrenceOrder(t *testing.T) {
	items := []domain.Item{item("X", "Y", 1), item("A", "B", 2), item("X", "Y", 3), item("M", "N", 4)}
	assert.Equal(t, []string{"X-Y", "A-B", "M-N"}, GroupItems(items).Keys())
}

func TestGroupItemsEmpty(t *testing.T) {
	groups := GroupItems(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupItemsPartition(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 50; i++ {
		items = append(items, item(string(rune('A'+i%4)), string(rune('P'+i%3)), float64(i)))
	}

	total := 0
	seen := map[float64]int{}
	for _, g := range GroupItems(items) {
		for _, it := range g.Items {
			assert.Equal(t, g.Key, StopKey(it.ShipFromLocationID, it.ShipToLocationID))
			seen[it.GrossWeight.Value]++
			total++
		}
	}
	assert.Equal(t, len(items), total)
	for w, n := range seen {
		assert.Equalf(t, 1, n, "item %v grouped %d times", w, n)
	}
}
