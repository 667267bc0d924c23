package segment

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/jsphweid/harmonet/possibility"
)

type movement struct {
	from possibility.Possibility
	to   []possibility.Possibility
}

// Movements maps each possibility of a segment to the possibilities of the
// next segment it may move to. Iteration follows insertion order.
type Movements struct {
	m *linkedhashmap.Map
}

func NewMovements() *Movements {
	return &Movements{m: linkedhashmap.New()}
}

func (t *Movements) Put(from possibility.Possibility, to []possibility.Possibility) {
	t.m.Put(from.Key(), movement{from: from, to: to})
}

func (t *Movements) Get(from possibility.Possibility) ([]possibility.Possibility, bool) {
	return t.GetByKey(from.Key())
}

func (t *Movements) GetByKey(key string) ([]possibility.Possibility, bool) {
	v, ok := t.m.Get(key)
	if !ok {
		return nil, false
	}
	return v.(movement).to, true
}

func (t *Movements) Has(key string) bool {
	_, ok := t.m.Get(key)
	return ok
}

func (t *Movements) Remove(from possibility.Possibility) {
	t.m.Remove(from.Key())
}

func (t *Movements) Len() int {
	return t.m.Size()
}

// Each visits movements in insertion order.
func (t *Movements) Each(fn func(from possibility.Possibility, to []possibility.Possibility)) {
	t.m.Each(func(_ interface{}, v interface{}) {
		mv := v.(movement)
		fn(mv.from, mv.to)
	})
}

// Froms lists the possibilities that have at least one entry.
func (t *Movements) Froms() []possibility.Possibility {
	res := make([]possibility.Possibility, 0, t.m.Size())
	t.Each(func(from possibility.Possibility, _ []possibility.Possibility) {
		res = append(res, from)
	})
	return res
}

// Count is the total number of legal pairs.
func (t *Movements) Count() int {
	total := 0
	t.Each(func(_ possibility.Possibility, to []possibility.Possibility) {
		total += len(to)
	})
	return total
}
