package api

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/monitoring"
	"github.com/openHPI/herostore/pkg/storage"
)

// firstAssignedID is the id the repository assigns when the collection is empty.
const firstAssignedID dto.HeroID = 11

// defaultHeroNames seed the repository on startup.
var defaultHeroNames = []string{
	"Dr. Nice", "Narco", "Bombasto", "Celeritas", "Magneta",
	"RubberMan", "Dynama", "Dr. IQ", "Magma", "Tornado",
}

// HeroRepository is the in-memory collection behind the REST backend.
// It assigns ids on creation, the clients never generate them.
type HeroRepository struct {
	heroes storage.Storage[dto.Hero]
	// creationMutex guards the read-compute-write cycle of the id assignment.
	creationMutex sync.Mutex
}

// NewHeroRepository creates a repository seeded with the default heroes.
// The passed context bounds the lifetime of the storage monitoring.
func NewHeroRepository(ctx context.Context) *HeroRepository {
	r := &HeroRepository{
		heroes: storage.NewMonitoredLocalStorage[dto.Hero](monitoring.MeasurementHeroes, nil, 0, ctx),
	}
	for _, name := range defaultHeroNames {
		r.Create(name)
	}
	return r
}

// List returns all heroes ordered by id.
func (r *HeroRepository) List() []dto.Hero {
	heroes := r.heroes.List()
	sort.Slice(heroes, func(i, j int) bool { return heroes[i].ID < heroes[j].ID })
	return heroes
}

// Get returns the hero with the passed id.
func (r *HeroRepository) Get(id dto.HeroID) (dto.Hero, bool) {
	return r.heroes.Get(id.ToString())
}

// Create stores a new hero with the passed name and responds with the
// assigned id. Ids are assigned as max(id)+1 over the current collection.
func (r *HeroRepository) Create(name string) dto.Hero {
	r.creationMutex.Lock()
	defer r.creationMutex.Unlock()

	id := firstAssignedID
	for _, hero := range r.heroes.List() {
		if hero.ID >= id {
			id = hero.ID + 1
		}
	}
	hero := dto.Hero{ID: id, Name: name}
	r.heroes.Add(id.ToString(), hero)
	return hero
}

// Update replaces the stored hero with the passed full value.
// It responds with dto.ErrUnknownHero if no hero with the id exists.
func (r *HeroRepository) Update(hero dto.Hero) error {
	if _, ok := r.heroes.Get(hero.ID.ToString()); !ok {
		return dto.ErrUnknownHero
	}
	r.heroes.Add(hero.ID.ToString(), hero)
	return nil
}

// Delete removes the hero with the passed id and responds with the removed value.
func (r *HeroRepository) Delete(id dto.HeroID) (dto.Hero, bool) {
	return r.heroes.Pop(id.ToString())
}

// Search returns all heroes whose name contains the trimmed term,
// case-insensitively, ordered by id. It implements search.Searcher so a
// pipeline can dispatch directly on the repository.
func (r *HeroRepository) Search(_ context.Context, term string) []dto.Hero {
	term = strings.ToLower(dto.TrimTerm(term))
	if term == "" {
		return []dto.Hero{}
	}

	matches := []dto.Hero{}
	for _, hero := range r.List() {
		if strings.Contains(strings.ToLower(hero.Name), term) {
			matches = append(matches, hero)
		}
	}
	return matches
}
