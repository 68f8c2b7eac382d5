package tests

import (
	"errors"
	"time"

	"github.com/openHPI/herostore/pkg/dto"
)

const (
	NonExistingIntegerID = 9999
	DefaultHeroIDAsInt   = 11
	DefaultHeroIDAsStr   = "11"
	AnotherHeroIDAsInt   = 12
	DefaultHeroName      = "Dr. Nice"
	AnotherHeroName      = "Narco"
	DefaultSearchTerm    = "ma"
	AnotherSearchTerm    = "dr"
	DefaultMessageText   = "fetched heroes"
	ShortTimeout         = 100 * time.Millisecond
	DefaultDebounce      = 20 * time.Millisecond
)

var (
	ErrDefault    = errors.New("an error occurred")
	DefaultHero   = dto.Hero{ID: DefaultHeroIDAsInt, Name: DefaultHeroName}
	AnotherHero   = dto.Hero{ID: AnotherHeroIDAsInt, Name: AnotherHeroName}
	DefaultHeroes = []dto.Hero{DefaultHero, AnotherHero}
)
