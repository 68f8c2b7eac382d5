package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/openHPI/herostore/internal/hero"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/messages"
	"github.com/openHPI/herostore/tests"
	"github.com/stretchr/testify/suite"
)

func TestStoreAgainstServerTestSuite(t *testing.T) {
	suite.Run(t, new(StoreAgainstServerTestSuite))
}

// StoreAgainstServerTestSuite wires the client-side store against a real
// served router, covering the whole request path including routing, JSON
// encoding and the journal.
type StoreAgainstServerTestSuite struct {
	suite.Suite
	server  *httptest.Server
	journal *messages.Journal
	store   *hero.Store
}

func (s *StoreAgainstServerTestSuite) SetupTest() {
	ctx := context.Background()
	s.server = httptest.NewServer(NewRouter(NewHeroRepository(ctx), messages.NewJournal(), ctx))
	s.journal = messages.NewJournal()
	requester := hero.NewRestClient(s.server.Client())
	s.store = hero.NewStore(requester, s.server.URL+BasePath+HeroesPath, s.journal)
}

func (s *StoreAgainstServerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *StoreAgainstServerTestSuite) lastJournalText() string {
	entries := s.journal.List()
	s.Require().NotEmpty(entries)
	return entries[len(entries)-1].Text
}

func (s *StoreAgainstServerTestSuite) TestListFetchesTheSeededCollection() {
	heroes := s.store.List(context.Background())

	s.Require().Len(heroes, len(defaultHeroNames))
	s.Equal(tests.DefaultHero, heroes[0])
	s.Equal(tests.DefaultMessageText, s.lastJournalText())
}

func (s *StoreAgainstServerTestSuite) TestCreateReceivesTheServerAssignedID() {
	created, ok := s.store.Create(context.Background(), dto.Hero{Name: "Nova"})

	s.Require().True(ok)
	s.Equal(firstAssignedID+dto.HeroID(len(defaultHeroNames)), created.ID)

	fetched, ok := s.store.Get(context.Background(), created.ID)
	s.True(ok)
	s.Equal(created, fetched)
}

func (s *StoreAgainstServerTestSuite) TestUpdateIsVisibleOnTheNextGet() {
	updated := dto.Hero{ID: tests.DefaultHeroIDAsInt, Name: "Dr. Nicer"}

	s.Require().True(s.store.Update(context.Background(), updated))

	fetched, ok := s.store.Get(context.Background(), tests.DefaultHeroIDAsInt)
	s.True(ok)
	s.Equal(updated, fetched)
}

func (s *StoreAgainstServerTestSuite) TestDeleteByIDRemovesTheHero() {
	removed, ok := s.store.DeleteByID(context.Background(), tests.DefaultHeroIDAsInt)

	s.Require().True(ok)
	s.Equal(tests.DefaultHero, removed)

	_, ok = s.store.Get(context.Background(), tests.DefaultHeroIDAsInt)
	s.False(ok)
	s.Equal("get hero id=11 failed: backend request failed: 404 Not Found", s.lastJournalText())
}

func (s *StoreAgainstServerTestSuite) TestSearchMatchesOnTheServer() {
	heroes := s.store.Search(context.Background(), tests.DefaultSearchTerm)

	s.Len(heroes, 4)
	s.Equal(`found 4 heroes matching "ma"`, s.lastJournalText())
}

func (s *StoreAgainstServerTestSuite) TestSearchWithBlankTermStaysLocal() {
	heroes := s.store.Search(context.Background(), "   ")

	s.Empty(heroes)
	s.Equal(uint(0), s.journal.Length())
}
