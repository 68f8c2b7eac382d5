package hero

import (
	"testing"

	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/tests"
	"github.com/stretchr/testify/suite"
)

func TestCollectionViewTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionViewTestSuite))
}

type CollectionViewTestSuite struct {
	suite.Suite
	view *CollectionView
}

func (s *CollectionViewTestSuite) SetupTest() {
	s.view = NewCollectionView()
}

func (s *CollectionViewTestSuite) TestNewViewIsEmpty() {
	s.Empty(s.view.Heroes())
	s.Equal(uint(0), s.view.Length())
}

func (s *CollectionViewTestSuite) TestReplaceSwapsTheContent() {
	s.view.Append(dto.Hero{ID: 1, Name: "Old"})

	s.view.Replace(tests.DefaultHeroes)

	s.Equal(tests.DefaultHeroes, s.view.Heroes())
}

func (s *CollectionViewTestSuite) TestAppendAddsAtTheEnd() {
	s.view.Replace(tests.DefaultHeroes)

	s.view.Append(dto.Hero{ID: 21, Name: "Nova"})

	heroes := s.view.Heroes()
	s.Require().Len(heroes, len(tests.DefaultHeroes)+1)
	s.Equal(dto.HeroID(21), heroes[len(heroes)-1].ID)
}

func (s *CollectionViewTestSuite) TestRemoveFiltersImmediately() {
	s.view.Replace([]dto.Hero{tests.DefaultHero, {ID: 42, Name: "Dynama"}, tests.AnotherHero})

	s.view.Remove(42)

	heroes := s.view.Heroes()
	s.Require().Len(heroes, 2)
	for _, hero := range heroes {
		s.NotEqual(dto.HeroID(42), hero.ID)
	}
}

func (s *CollectionViewTestSuite) TestRemoveOfUnknownIDIsANoOp() {
	s.view.Replace(tests.DefaultHeroes)

	s.view.Remove(tests.NonExistingIntegerID)

	s.Equal(tests.DefaultHeroes, s.view.Heroes())
}

func (s *CollectionViewTestSuite) TestHeroesReturnsACopy() {
	s.view.Replace(tests.DefaultHeroes)

	heroes := s.view.Heroes()
	heroes[0].Name = "modified"

	s.Equal(tests.DefaultHeroes[0].Name, s.view.Heroes()[0].Name)
}
