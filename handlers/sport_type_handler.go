package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/services"
)

type SportTypeHandler struct {
	sportTypeService services.SportTypeService
}

func NewSportTypeHandler(sportTypeService services.SportTypeService) *SportTypeHandler {
	return &SportTypeHandler{sportTypeService: sportTypeService}
}

func (h *SportTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sportType models.SportType

	if err := readJSON(w, r, &sportType); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if sportType.Name == "" {
		badRequestResponse(w, r, errors.New("sport type name is required"))
		return
	}

	if err := h.sportTypeService.CreateSportType(r.Context(), &sportType); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"sport_type": sportType}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SportTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	sportTypes, err := h.sportTypeService.GetAllSportTypes(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sport_types": sportTypes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SportTypeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sportTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sportType, err := h.sportTypeService.GetSportTypeByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sport_type": sportType}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SportTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sportTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var sportType models.SportType
	if err := readJSON(w, r, &sportType); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.sportTypeService.UpdateSportType(r.Context(), id, &sportType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sport_type": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SportTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "sportTypeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sportTypeService.DeleteSportType(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
