package api

import (
	"context"
	"testing"

	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/tests"
	"github.com/stretchr/testify/suite"
)

func TestHeroRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(HeroRepositoryTestSuite))
}

type HeroRepositoryTestSuite struct {
	suite.Suite
	repository *HeroRepository
}

func (s *HeroRepositoryTestSuite) SetupTest() {
	s.repository = NewHeroRepository(context.Background())
}

func (s *HeroRepositoryTestSuite) TestNewRepositoryIsSeeded() {
	heroes := s.repository.List()

	s.Require().Len(heroes, len(defaultHeroNames))
	s.Equal(firstAssignedID, heroes[0].ID)
	s.Equal(tests.DefaultHeroName, heroes[0].Name)
	for i, hero := range heroes {
		s.Equal(firstAssignedID+dto.HeroID(i), hero.ID)
		s.Equal(defaultHeroNames[i], hero.Name)
	}
}

func (s *HeroRepositoryTestSuite) TestCreateAssignsTheNextID() {
	hero := s.repository.Create("Nova")

	s.Equal(firstAssignedID+dto.HeroID(len(defaultHeroNames)), hero.ID)
	s.Equal("Nova", hero.Name)
}

func (s *HeroRepositoryTestSuite) TestCreateOnEmptyRepositoryStartsAtTheFirstID() {
	for _, hero := range s.repository.List() {
		s.repository.Delete(hero.ID)
	}

	hero := s.repository.Create("Nova")

	s.Equal(firstAssignedID, hero.ID)
}

func (s *HeroRepositoryTestSuite) TestCreateNeverReusesTheIDOfTheLargestHero() {
	last := s.repository.List()[len(defaultHeroNames)-1]
	s.repository.Delete(tests.DefaultHeroIDAsInt)

	hero := s.repository.Create("Nova")

	s.Equal(last.ID+1, hero.ID)
}

func (s *HeroRepositoryTestSuite) TestGetRespondsStoredHero() {
	hero, ok := s.repository.Get(tests.DefaultHeroIDAsInt)

	s.True(ok)
	s.Equal(tests.DefaultHero, hero)
}

func (s *HeroRepositoryTestSuite) TestGetOfUnknownIDFails() {
	_, ok := s.repository.Get(tests.NonExistingIntegerID)
	s.False(ok)
}

func (s *HeroRepositoryTestSuite) TestUpdateReplacesTheWholeValue() {
	err := s.repository.Update(dto.Hero{ID: tests.DefaultHeroIDAsInt, Name: "Dr. Nicer"})

	s.Require().NoError(err)
	hero, ok := s.repository.Get(tests.DefaultHeroIDAsInt)
	s.True(ok)
	s.Equal("Dr. Nicer", hero.Name)
}

func (s *HeroRepositoryTestSuite) TestUpdateOfUnknownHeroFails() {
	err := s.repository.Update(dto.Hero{ID: tests.NonExistingIntegerID, Name: "Ghost"})
	s.ErrorIs(err, dto.ErrUnknownHero)
}

func (s *HeroRepositoryTestSuite) TestDeleteRespondsTheRemovedHero() {
	hero, ok := s.repository.Delete(tests.DefaultHeroIDAsInt)

	s.True(ok)
	s.Equal(tests.DefaultHero, hero)
	_, ok = s.repository.Get(tests.DefaultHeroIDAsInt)
	s.False(ok)
}

func (s *HeroRepositoryTestSuite) TestDeleteOfUnknownIDFails() {
	_, ok := s.repository.Delete(tests.NonExistingIntegerID)
	s.False(ok)
}

func (s *HeroRepositoryTestSuite) TestSearchMatchesCaseInsensitiveSubstrings() {
	matches := s.repository.Search(context.Background(), "MA")

	s.Require().Len(matches, 4)
	names := make([]string, 0, len(matches))
	for _, hero := range matches {
		names = append(names, hero.Name)
	}
	s.Equal([]string{"Magneta", "RubberMan", "Dynama", "Magma"}, names)
}

func (s *HeroRepositoryTestSuite) TestSearchTrimsTheTerm() {
	s.Len(s.repository.Search(context.Background(), "  ma "), 4)
}

func (s *HeroRepositoryTestSuite) TestSearchWithBlankTermRespondsNoHeroes() {
	matches := s.repository.Search(context.Background(), "   ")

	s.NotNil(matches)
	s.Empty(matches)
}

func (s *HeroRepositoryTestSuite) TestSearchWithoutMatchesRespondsEmptySlice() {
	matches := s.repository.Search(context.Background(), "xyz")

	s.NotNil(matches)
	s.Empty(matches)
}
