package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id      string
	status  string
	updated time.Time
}

func (r row) Key() string        { return r.id }
func (r row) Version() time.Time { return r.updated }

var t0 = time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return t0.Add(time.Duration(sec) * time.Second) }

func TestListInsertUpdateDelete(t *testing.T) {
	l := NewList[row]()

	assert.True(t, l.Upsert(row{"a", "pending", at(0)}))
	assert.True(t, l.Upsert(row{"b", "pending", at(1)}))
	assert.True(t, l.Upsert(row{"a", "confirmed", at(2)}))

	items := l.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "a", items[0].id)
	assert.Equal(t, "confirmed", items[0].status)

	assert.True(t, l.Remove("a", at(3)))
	items = l.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "b", items[0].id)
}

func TestListServerTimestampWins(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"a", "confirmed", at(10)})

	// a delayed older event must not overwrite the newer copy
	assert.False(t, l.Upsert(row{"a", "pending", at(5)}))
	got, _ := l.Get("a")
	assert.Equal(t, "confirmed", got.status)

	// the same event redelivered is harmless
	assert.True(t, l.Upsert(row{"a", "confirmed", at(10)}))
	assert.Equal(t, 1, l.Len())
}

func TestListTombstoneBlocksLateUpdate(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"a", "pending", at(0)})
	l.Remove("a", at(5))

	assert.False(t, l.Upsert(row{"a", "confirmed", at(4)}))
	assert.Equal(t, 0, l.Len())

	// a genuinely newer insert with the same key is accepted
	assert.True(t, l.Upsert(row{"a", "pending", at(6)}))
	assert.Equal(t, 1, l.Len())
}

func TestListStaleDeleteIgnored(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"a", "seated", at(10)})

	assert.False(t, l.Remove("a", at(5)))
	assert.Equal(t, 1, l.Len())
}

func TestListOptimisticOverlay(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"a", "pending", at(0)})

	assert.True(t, l.ApplyOptimistic(row{"a", "confirmed", at(0)}))
	got, _ := l.Get("a")
	assert.Equal(t, "confirmed", got.status)

	// a remote change from another admin lands after the overlay base: server wins
	l.Upsert(row{"a", "cancelled", at(1)})
	got, _ = l.Get("a")
	assert.Equal(t, "cancelled", got.status)
	assert.Equal(t, "cancelled", l.Items()[0].status)
}

func TestListRollback(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"a", "pending", at(0)})
	l.ApplyOptimistic(row{"a", "seated", at(0)})

	l.Rollback("a")
	got, _ := l.Get("a")
	assert.Equal(t, "pending", got.status)

	assert.False(t, l.ApplyOptimistic(row{"missing", "seated", at(0)}))
}

func TestListResetAndPrune(t *testing.T) {
	l := NewList[row]()
	l.Upsert(row{"x", "pending", at(0)})
	l.Remove("x", at(1))

	l.Reset([]row{{"a", "pending", at(0)}, {"a", "pending", at(0)}, {"b", "seated", at(0)}})
	assert.Equal(t, 2, l.Len())

	l.Remove("a", at(1))
	assert.Equal(t, 1, l.PruneTombstones(at(2)))
	assert.Equal(t, 0, l.PruneTombstones(at(2)))
}
