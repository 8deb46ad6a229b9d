package levels

import (
	"fmt"
	"sort"
)

// worldOrder is the campaign order of the built-in worlds.
var worldOrder = []WorldKind{WorldEarth, WorldMoon, WorldMars, WorldAsteroids}

// Table is an immutable lookup of level parameters by (world, level).
type Table struct {
	entries map[Key]Params
	worlds  []WorldKind
	levels  map[WorldKind][]int
}

// NewTable validates params and builds a table from them.
// Duplicate keys and invalid entries are rejected.
func NewTable(params []Params) (*Table, error) {
	t := &Table{
		entries: make(map[Key]Params, len(params)),
		levels:  make(map[WorldKind][]int),
	}

	for _, p := range params {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := p.Key()
		if _, dup := t.entries[key]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %s", ErrInvalidLevel, key)
		}
		p.Obstacles = append([]Obstacle(nil), p.Obstacles...)
		if p.PlatformMotion != nil {
			m := *p.PlatformMotion
			p.PlatformMotion = &m
		}
		t.entries[key] = p
		t.levels[p.World] = append(t.levels[p.World], p.LevelNumber)
	}

	for w, nums := range t.levels {
		sort.Ints(nums)
		t.levels[w] = nums
		t.worlds = append(t.worlds, w)
	}
	sort.Slice(t.worlds, func(i, j int) bool {
		return worldRank(t.worlds[i]) < worldRank(t.worlds[j]) ||
			(worldRank(t.worlds[i]) == worldRank(t.worlds[j]) && t.worlds[i] < t.worlds[j])
	})

	return t, nil
}

// Lookup returns the parameters for (world, level).
func (t *Table) Lookup(world WorldKind, level int) (Params, error) {
	p, ok := t.entries[Key{World: world, Level: level}]
	if !ok {
		return Params{}, fmt.Errorf("levels: %s/%d: %w", world, level, ErrLevelNotFound)
	}
	return p, nil
}

// Next returns the level following key in campaign order: the next level of
// the same world, then the first level of the next world.
// The second result is false at the end of the campaign.
func (t *Table) Next(key Key) (Params, bool) {
	nums := t.levels[key.World]
	for _, n := range nums {
		if n > key.Level {
			return t.entries[Key{World: key.World, Level: n}], true
		}
	}

	for i, w := range t.worlds {
		if w != key.World || i+1 >= len(t.worlds) {
			continue
		}
		next := t.worlds[i+1]
		return t.entries[Key{World: next, Level: t.levels[next][0]}], true
	}
	return Params{}, false
}

// Worlds returns the worlds present in the table in campaign order.
func (t *Table) Worlds() []WorldKind {
	return append([]WorldKind(nil), t.worlds...)
}

// Levels returns the parameters of every level in world, ordered by number.
func (t *Table) Levels(world WorldKind) []Params {
	nums := t.levels[world]
	out := make([]Params, len(nums))
	for i, n := range nums {
		out[i] = t.entries[Key{World: world, Level: n}]
	}
	return out
}

// Position returns the zero-based index of key within its world and the
// number of levels in that world.
func (t *Table) Position(key Key) (index, count int) {
	nums := t.levels[key.World]
	for i, n := range nums {
		if n == key.Level {
			return i, len(nums)
		}
	}
	return 0, len(nums)
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

func worldRank(w WorldKind) int {
	for i, known := range worldOrder {
		if known == w {
			return i
		}
	}
	return len(worldOrder)
}
