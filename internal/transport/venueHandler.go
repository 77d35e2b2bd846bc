package transport

import (
	"net/http"
	"strconv"

	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	venueService  service.VenueService
	reviewService service.ReviewService
}

func NewVenueHandler(venueService service.VenueService, reviewService service.ReviewService) *VenueHandler {
	return &VenueHandler{venueService: venueService, reviewService: reviewService}
}

func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req service.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, venue)
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	venue, err := h.venueService.GetVenue(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, venue)
}

func (h *VenueHandler) GetAllVenues(c *gin.Context) {
	venues, err := h.venueService.GetAllVenues(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(venues), venues)
}

func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var req service.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	venue, err := h.venueService.UpdateVenue(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, venue)
}

func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.venueService.DeleteVenue(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}

	okMessage(c, "venue deleted")
}

// GetVenuesInRadius handles /search/venues/:zipcode/:distance, distance in
// miles.
func (h *VenueHandler) GetVenuesInRadius(c *gin.Context) {
	zipcode := c.Param("zipcode")
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		failBadRequest(c, "invalid distance")
		return
	}

	venues, err := h.venueService.GetVenuesInRadius(c.Request.Context(), zipcode, distance)
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(venues), venues)
}

func (h *VenueHandler) CreateReview(c *gin.Context) {
	venueID, valid := parseID(c, "id")
	if !valid {
		return
	}

	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), middleware.CurrentUser(c), venueID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, review)
}

func (h *VenueHandler) GetVenueReviews(c *gin.Context) {
	venueID, valid := parseID(c, "id")
	if !valid {
		return
	}

	reviews, err := h.reviewService.GetVenueReviews(c.Request.Context(), venueID)
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(reviews), reviews)
}

func (h *VenueHandler) DeleteReview(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}

	okMessage(c, "review deleted")
}
