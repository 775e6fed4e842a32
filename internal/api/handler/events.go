package handler

import (
	"github.com/wb-go/wbf/ginext"

	"atsumeru/internal/dto"
	"atsumeru/internal/token"
)

func (h *Handler) CreateEvent(c *ginext.Context) {
	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.CreateEvent(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}

	h.rememberOwnerToken(c, created.OwnerToken)
	dto.SuccessResponse(c, created)
}

func (h *Handler) GetEvent(c *ginext.Context) {
	event, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}
	dto.SuccessResponse(c, dto.NewEventView(event))
}

func (h *Handler) UpdateSettings(c *ginext.Context) {
	ownerToken, ok := requireQueryToken(c, "token", dto.OwnerTokenRequired)
	if !ok {
		return
	}
	var req dto.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.svc.UpdateSettings(c.Request.Context(), c.Param("id"), ownerToken, req)
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}
	dto.SuccessResponse(c, dto.NewEventView(event))
}

// OwnedEvents lists the events whose owner tokens are remembered in the caller's cookie.
func (h *Handler) OwnedEvents(c *ginext.Context) {
	raw, _ := c.Cookie(token.OwnerTokensCookie)

	summaries, err := h.svc.OwnedEvents(c.Request.Context(), token.ParseOwnerTokens(raw))
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}
	dto.SuccessResponse(c, dto.NewOwnedEvents(summaries))
}
