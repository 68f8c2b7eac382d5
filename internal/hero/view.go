package hero

import (
	"sync"

	"github.com/openHPI/herostore/pkg/dto"
)

// CollectionView is the client-side cache of all heroes currently known.
// It is populated wholesale on list, appended to on create and filtered on
// delete. There is no field-by-field merge, entries are always replaced or
// removed as whole values.
type CollectionView struct {
	mu     sync.RWMutex
	heroes []dto.Hero
}

func NewCollectionView() *CollectionView {
	return &CollectionView{}
}

// Replace swaps the complete content of the view.
func (v *CollectionView) Replace(heroes []dto.Hero) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.heroes = make([]dto.Hero, len(heroes))
	copy(v.heroes, heroes)
}

// Append adds a hero to the end of the view.
func (v *CollectionView) Append(hero dto.Hero) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.heroes = append(v.heroes, hero)
}

// Remove filters the hero with the passed id out of the view.
// The removal is optimistic, it happens immediately and independently of any
// backend confirmation.
func (v *CollectionView) Remove(id dto.HeroID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	remaining := v.heroes[:0]
	for _, hero := range v.heroes {
		if hero.ID != id {
			remaining = append(remaining, hero)
		}
	}
	v.heroes = remaining
}

// Heroes returns a copy of the current view content in order.
func (v *CollectionView) Heroes() []dto.Hero {
	v.mu.RLock()
	defer v.mu.RUnlock()
	heroes := make([]dto.Hero, len(v.heroes))
	copy(heroes, v.heroes)
	return heroes
}

// Length returns the number of heroes in the view.
func (v *CollectionView) Length() uint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return uint(len(v.heroes))
}
