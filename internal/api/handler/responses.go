package handler

import (
	"github.com/wb-go/wbf/ginext"

	"atsumeru/internal/dto"
)

func (h *Handler) CreateResponse(c *ginext.Context) {
	var req dto.CreateResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.CreateResponse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, editMessages)
		return
	}
	dto.SuccessResponse(c, created)
}

func (h *Handler) ListForOwner(c *ginext.Context) {
	ownerToken, ok := requireQueryToken(c, "token", dto.OwnerTokenRequired)
	if !ok {
		return
	}

	rows, err := h.svc.ListForOwner(c.Request.Context(), c.Param("id"), ownerToken)
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}
	dto.SuccessResponse(c, dto.NewOwnerResponses(rows))
}

func (h *Handler) ListPublic(c *ginext.Context) {
	rows, err := h.svc.ListPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, editMessages)
		return
	}
	dto.SuccessResponse(c, dto.NewPublicResponses(rows))
}

func (h *Handler) SelfUpdate(c *ginext.Context) {
	editToken, ok := requireQueryToken(c, "edit", dto.EditTokenRequired)
	if !ok {
		return
	}
	var req dto.SelfUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.svc.SelfUpdate(c.Request.Context(), c.Param("id"), c.Param("responseId"), editToken, req)
	if err != nil {
		h.fail(c, err, editMessages)
		return
	}
	dto.SuccessResponse(c, dto.UpdatedResponseView{
		ID:     updated.ID,
		Name:   updated.Name,
		RSVP:   updated.RSVP,
		Paid:   updated.Paid,
		PaidAt: updated.PaidAt,
	})
}

func (h *Handler) OwnerSetPaid(c *ginext.Context) {
	ownerToken, ok := requireQueryToken(c, "token", dto.OwnerTokenRequired)
	if !ok {
		return
	}
	var req dto.SetPaidRequest
	if !bindJSON(c, &req) {
		return
	}
	paid, ok := req.Paid.(bool)
	if !ok {
		dto.BadRequestError(c, dto.PaidMustBeBoolean)
		return
	}

	updated, err := h.svc.OwnerSetPaid(c.Request.Context(), c.Param("id"), c.Param("responseId"), ownerToken, paid)
	if err != nil {
		h.fail(c, err, ownerMessages)
		return
	}
	dto.SuccessResponse(c, dto.PaidView{ID: updated.ID, Paid: updated.Paid, PaidAt: updated.PaidAt})
}
