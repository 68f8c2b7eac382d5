package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/messages"
	"github.com/openHPI/herostore/tests"
	"github.com/stretchr/testify/suite"
)

func TestHeroControllerTestSuite(t *testing.T) {
	suite.Run(t, new(HeroControllerTestSuite))
}

type HeroControllerTestSuite struct {
	suite.Suite
	repository *HeroRepository
	router     *mux.Router
}

func (s *HeroControllerTestSuite) SetupTest() {
	ctx := context.Background()
	s.repository = NewHeroRepository(ctx)
	s.router = NewRouter(s.repository, messages.NewJournal(), ctx)
}

func (s *HeroControllerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		content, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(content)
	} else {
		reader = bytes.NewReader(nil)
	}
	request, err := http.NewRequest(method, path, reader)
	s.Require().NoError(err)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

func (s *HeroControllerTestSuite) decodeHeroes(recorder *httptest.ResponseRecorder) []dto.Hero {
	var heroes []dto.Hero
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&heroes))
	return heroes
}

func (s *HeroControllerTestSuite) decodeHero(recorder *httptest.ResponseRecorder) dto.Hero {
	var hero dto.Hero
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&hero))
	return hero
}

func (s *HeroControllerTestSuite) TestListRespondsTheWholeCollection() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath, nil)

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal("application/json", recorder.Header().Get("Content-Type"))
	heroes := s.decodeHeroes(recorder)
	s.Require().Len(heroes, len(defaultHeroNames))
	s.Equal(tests.DefaultHero, heroes[0])
}

func (s *HeroControllerTestSuite) TestListWithNameParameterSearches() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"?name=ma", nil)

	s.Equal(http.StatusOK, recorder.Code)
	heroes := s.decodeHeroes(recorder)
	s.Require().Len(heroes, 4)
	for _, hero := range heroes {
		s.Contains(strings.ToLower(hero.Name), "ma")
	}
}

func (s *HeroControllerTestSuite) TestListWithLimitParameterRespondsAPrefix() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"?limit=4", nil)

	s.Equal(http.StatusOK, recorder.Code)
	heroes := s.decodeHeroes(recorder)
	s.Require().Len(heroes, 4)
	s.Equal(firstAssignedID, heroes[0].ID)
}

func (s *HeroControllerTestSuite) TestListWithLimitLargerThanTheCollection() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"?limit=999", nil)

	s.Equal(http.StatusOK, recorder.Code)
	s.Len(s.decodeHeroes(recorder), len(defaultHeroNames))
}

func (s *HeroControllerTestSuite) TestListWithInvalidLimitIsABadRequest() {
	s.Run("negative", func() {
		recorder := s.request(http.MethodGet, BasePath+HeroesPath+"?limit=-1", nil)
		s.Equal(http.StatusBadRequest, recorder.Code)
	})

	s.Run("not a number", func() {
		recorder := s.request(http.MethodGet, BasePath+HeroesPath+"?limit=many", nil)
		s.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func (s *HeroControllerTestSuite) TestCreateRespondsTheAssignedID() {
	recorder := s.request(http.MethodPost, BasePath+HeroesPath, dto.HeroRequest{Name: "Nova"})

	s.Equal(http.StatusCreated, recorder.Code)
	hero := s.decodeHero(recorder)
	s.Equal(firstAssignedID+dto.HeroID(len(defaultHeroNames)), hero.ID)
	s.Equal("Nova", hero.Name)

	_, ok := s.repository.Get(hero.ID)
	s.True(ok)
}

func (s *HeroControllerTestSuite) TestCreateWithoutNameIsABadRequest() {
	recorder := s.request(http.MethodPost, BasePath+HeroesPath, dto.HeroRequest{})

	s.Equal(http.StatusBadRequest, recorder.Code)
	s.Len(s.repository.List(), len(defaultHeroNames))
}

func (s *HeroControllerTestSuite) TestCreateWithInvalidBodyIsABadRequest() {
	request, err := http.NewRequest(http.MethodPost, BasePath+HeroesPath, strings.NewReader("not json"))
	s.Require().NoError(err)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	s.Equal(http.StatusBadRequest, recorder.Code)
}

func (s *HeroControllerTestSuite) TestUpdateReplacesTheHero() {
	updated := dto.Hero{ID: tests.DefaultHeroIDAsInt, Name: "Dr. Nicer"}

	recorder := s.request(http.MethodPut, BasePath+HeroesPath, updated)

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal(updated, s.decodeHero(recorder))
	hero, _ := s.repository.Get(tests.DefaultHeroIDAsInt)
	s.Equal("Dr. Nicer", hero.Name)
}

func (s *HeroControllerTestSuite) TestUpdateOfUnknownHeroIsNotFound() {
	recorder := s.request(http.MethodPut, BasePath+HeroesPath,
		dto.Hero{ID: tests.NonExistingIntegerID, Name: "Ghost"})

	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *HeroControllerTestSuite) TestGetRespondsTheRequestedHero() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"/"+tests.DefaultHeroIDAsStr, nil)

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal(tests.DefaultHero, s.decodeHero(recorder))
}

func (s *HeroControllerTestSuite) TestGetOfUnknownIDIsNotFound() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"/9999", nil)
	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *HeroControllerTestSuite) TestGetWithNonNumericIDIsNotFound() {
	recorder := s.request(http.MethodGet, BasePath+HeroesPath+"/abc", nil)
	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *HeroControllerTestSuite) TestDeleteRespondsTheRemovedHero() {
	recorder := s.request(http.MethodDelete, BasePath+HeroesPath+"/"+tests.DefaultHeroIDAsStr, nil)

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal(tests.DefaultHero, s.decodeHero(recorder))

	recorder = s.request(http.MethodGet, BasePath+HeroesPath+"/"+tests.DefaultHeroIDAsStr, nil)
	s.Equal(http.StatusNotFound, recorder.Code)
}

func (s *HeroControllerTestSuite) TestDeleteOfUnknownIDIsNotFound() {
	recorder := s.request(http.MethodDelete, BasePath+HeroesPath+"/9999", nil)
	s.Equal(http.StatusNotFound, recorder.Code)
}
