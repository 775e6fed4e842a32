package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"atsumeru/internal/dto"
	"atsumeru/internal/service"
	"atsumeru/internal/token"
)

type Handler struct {
	svc           service.Service
	log           *zerolog.Logger
	secureCookies bool
}

func NewHandler(svc service.Service, log *zerolog.Logger, secureCookies bool) *Handler {
	return &Handler{svc: svc, log: log, secureCookies: secureCookies}
}

// tokenMessages picks the 401/403 wording for the credential a route expects.
type tokenMessages struct {
	missing  string
	mismatch string
}

var (
	ownerMessages = tokenMessages{missing: dto.OwnerTokenRequired, mismatch: dto.OwnerTokenMismatch}
	editMessages  = tokenMessages{missing: dto.EditTokenRequired, mismatch: dto.EditTokenMismatch}
)

func (h *Handler) fail(c *ginext.Context, err error, msgs tokenMessages) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		dto.BadRequestError(c, verr.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		dto.UnauthenticatedError(c, msgs.missing)
	case errors.Is(err, service.ErrForbidden):
		dto.ForbiddenError(c, msgs.mismatch)
	case errors.Is(err, service.ErrEventNotFound):
		dto.NotFoundError(c, dto.EventNotFound)
	case errors.Is(err, service.ErrResponseNotFound):
		dto.NotFoundError(c, dto.ResponseNotFound)
	default:
		h.log.Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		dto.InternalServerError(c)
	}
}

// requireQueryToken aborts with 401 when the named query parameter is absent.
func requireQueryToken(c *ginext.Context, name, missing string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		dto.UnauthenticatedError(c, missing)
		return "", false
	}
	return value, true
}

func bindJSON(c *ginext.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		dto.BadRequestError(c, dto.InvalidJSON)
		return false
	}
	return true
}

func (h *Handler) rememberOwnerToken(c *ginext.Context, ownerToken string) {
	raw, _ := c.Cookie(token.OwnerTokensCookie)
	merged := token.MergeOwnerTokens(token.ParseOwnerTokens(raw), ownerToken)
	if len(merged) == 0 {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(token.OwnerTokensCookie, token.JoinOwnerTokens(merged), token.OwnerTokensMaxAge, "/", "", h.secureCookies, true)
}

func (h *Handler) Health(c *ginext.Context) {
	dto.SuccessResponse(c, map[string]string{"status": "ok"})
}
