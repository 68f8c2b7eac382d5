package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/monitoring"
)

const (
	LiveSearchPath  = "/search/ws"
	ListRoute       = "listHeroes"
	CreateRoute     = "createHero"
	UpdateRoute     = "updateHero"
	GetRoute        = "getHero"
	DeleteRoute     = "deleteHero"
	LiveSearchRoute = "liveSearchHeroes"
	HeroIDKey       = "heroId"
	NameKey         = "name"
	LimitKey        = "limit"
)

type HeroController struct {
	repository *HeroRepository
	ctx        context.Context
}

// ConfigureRoutes configures a given router with the hero routes of our API.
func (h *HeroController) ConfigureRoutes(router *mux.Router) {
	heroesRouter := router.PathPrefix(HeroesPath).Subrouter()
	heroesRouter.HandleFunc("", h.list).Methods(http.MethodGet).Name(ListRoute)
	heroesRouter.HandleFunc("", h.create).Methods(http.MethodPost).Name(CreateRoute)
	heroesRouter.HandleFunc("", h.update).Methods(http.MethodPut).Name(UpdateRoute)
	heroesRouter.HandleFunc(LiveSearchPath, h.liveSearch).Methods(http.MethodGet).Name(LiveSearchRoute)

	heroRouter := heroesRouter.PathPrefix("/{" + HeroIDKey + ":[0-9]+}").Subrouter()
	heroRouter.HandleFunc("", h.get).Methods(http.MethodGet).Name(GetRoute)
	heroRouter.HandleFunc("", h.delete).Methods(http.MethodDelete).Name(DeleteRoute)
}

// list handles the heroes route with the method GET.
// Without parameters it responds the whole collection ordered by id.
// With a name parameter it responds the heroes matching the term and with a
// limit parameter a prefix of the result.
func (h *HeroController) list(writer http.ResponseWriter, request *http.Request) {
	var heroes []dto.Hero
	if term := request.URL.Query().Get(NameKey); term != "" {
		monitoring.AddSearchTerm(request, term)
		heroes = h.repository.Search(request.Context(), term)
	} else {
		heroes = h.repository.List()
	}

	if limitRaw := request.URL.Query().Get(LimitKey); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit < 0 {
			writeClientError(request.Context(), writer, dto.ErrInvalidLimit, http.StatusBadRequest)
			return
		}
		if limit < len(heroes) {
			heroes = heroes[:limit]
		}
	}

	sendJSON(request.Context(), writer, heroes, http.StatusOK)
}

// create handles the heroes route with the method POST.
// It stores a new hero and responds it with the assigned id.
func (h *HeroController) create(writer http.ResponseWriter, request *http.Request) {
	monitoring.AddRequestSize(request)
	heroRequest := new(dto.HeroRequest)
	if err := parseJSONRequestBody(writer, request, heroRequest); err != nil {
		return
	}
	if heroRequest.Name == "" {
		writeClientError(request.Context(), writer, dto.ErrMissingName, http.StatusBadRequest)
		return
	}

	hero := h.repository.Create(heroRequest.Name)
	monitoring.AddHeroID(request, hero.ID)
	sendJSON(request.Context(), writer, hero, http.StatusCreated)
}

// update handles the heroes route with the method PUT.
// It replaces the stored hero with the full passed value and echoes it.
func (h *HeroController) update(writer http.ResponseWriter, request *http.Request) {
	monitoring.AddRequestSize(request)
	hero := new(dto.Hero)
	if err := parseJSONRequestBody(writer, request, hero); err != nil {
		return
	}
	monitoring.AddHeroID(request, hero.ID)

	if err := h.repository.Update(*hero); err != nil {
		writeClientError(request.Context(), writer, err, http.StatusNotFound)
		return
	}
	sendJSON(request.Context(), writer, hero, http.StatusOK)
}

// get handles the hero route with the method GET.
// It responds the hero with the requested id.
func (h *HeroController) get(writer http.ResponseWriter, request *http.Request) {
	id, ok := h.heroID(writer, request)
	if !ok {
		return
	}

	hero, ok := h.repository.Get(id)
	if !ok {
		writeClientError(request.Context(), writer, dto.ErrUnknownHero, http.StatusNotFound)
		return
	}
	sendJSON(request.Context(), writer, hero, http.StatusOK)
}

// delete handles the hero route with the method DELETE.
// It removes the hero with the requested id and responds the removed value.
func (h *HeroController) delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := h.heroID(writer, request)
	if !ok {
		return
	}

	hero, ok := h.repository.Delete(id)
	if !ok {
		writeClientError(request.Context(), writer, dto.ErrUnknownHero, http.StatusNotFound)
		return
	}
	sendJSON(request.Context(), writer, hero, http.StatusOK)
}

func (h *HeroController) heroID(writer http.ResponseWriter, request *http.Request) (dto.HeroID, bool) {
	id, err := dto.NewHeroID(mux.Vars(request)[HeroIDKey])
	if err != nil {
		writeClientError(request.Context(), writer, err, http.StatusBadRequest)
		return 0, false
	}
	monitoring.AddHeroID(request, id)
	return id, true
}
