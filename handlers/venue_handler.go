package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/sport-events/models"
	"github.com/Dosada05/sport-events/services"
)

type VenueHandler struct {
	venueService services.VenueService
}

func NewVenueHandler(venueService services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue

	if err := readJSON(w, r, &venue); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if venue.Name == "" {
		badRequestResponse(w, r, errors.New("venue name is required"))
		return
	}

	if err := h.venueService.CreateVenue(r.Context(), &venue); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"venue": venue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venueService.GetAllVenues(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"venues": venues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VenueHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	venue, err := h.venueService.GetVenueByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"venue": venue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var venue models.Venue
	if err := readJSON(w, r, &venue); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.venueService.UpdateVenue(r.Context(), id, &venue)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"venue": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.venueService.DeleteVenue(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
