package transport

import (
	"net/http"
	"strconv"

	"github.com/micdrop/openmic/internal/entity"
	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
	regService   service.RegistrationService
}

func NewEventHandler(eventService service.EventService, regService service.RegistrationService) *EventHandler {
	return &EventHandler{eventService: eventService, regService: regService}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	filter, err := eventFilterFromQuery(c)
	if err != nil {
		failBadRequest(c, err.Error())
		return
	}

	events, err := h.eventService.GetAllEvents(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(events), events)
}

func eventFilterFromQuery(c *gin.Context) (*entity.EventFilter, error) {
	filter := &entity.EventFilter{}

	if v := c.Query("venue_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		filter.VenueID = id
	}
	if v := c.Query("host_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		filter.HostID = id
	}
	filter.FreeOnly = c.Query("free") == "true"
	filter.ShowPast = c.Query("show_past") == "true"
	return filter, nil
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}

func (h *EventHandler) CancelEvent(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	if err := h.eventService.CancelEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		fail(c, err)
		return
	}

	okMessage(c, "event cancelled")
}

func (h *EventHandler) GetPerformers(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	performers, err := h.eventService.GetEventPerformers(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(performers), performers)
}

func (h *EventHandler) GetAttendees(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	attendees, err := h.eventService.GetEventAttendees(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	okList(c, len(attendees), attendees)
}

func (h *EventHandler) RegisterPerformer(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	event, err := h.regService.RegisterPerformer(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}

func (h *EventHandler) UnregisterPerformer(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	event, err := h.regService.UnregisterPerformer(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}

func (h *EventHandler) RegisterAttendee(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	event, err := h.regService.RegisterAttendee(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}

func (h *EventHandler) UnregisterAttendee(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}

	event, err := h.regService.UnregisterAttendee(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, http.StatusOK, event)
}
