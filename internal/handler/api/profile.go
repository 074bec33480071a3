package api

import (
	"net/http"

	reqdto "slotbook/internal/handler/dto/request"
	resdto "slotbook/internal/handler/dto/response"
	"slotbook/internal/handler/httperr"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/usecase/commands"
	"slotbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	cmds  commands.ProfileCommands
	q     queries.ProfileQueries
	slots queries.SlotQueries
}

func NewProfileHandler(cmds commands.ProfileCommands, q queries.ProfileQueries, slots queries.SlotQueries) *ProfileHandler {
	return &ProfileHandler{cmds: cmds, q: q, slots: slots}
}

// @Summary Get my profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ProfileResponse
// @Failure 404 {object} httperr.Response
// @Router /api/profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	view, err := h.q.GetMyProfile(c.Request.Context(), actor)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	h.respondProfile(c, view)
}

// @Summary Update my profile
// @Description Names stamped on existing slots are not rewritten
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpsertProfileRequest true "Profile"
// @Success 200 {object} resdto.ProfileResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/profiles/me [put]
func (h *ProfileHandler) PutMe(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	var req reqdto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	p, err := h.cmds.UpsertMyProfile(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	h.respondProfile(c, queries.NewProfileView(p))
}

// @Summary Provider dashboard counters
// @Tags providers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ProviderStatsResponse
// @Failure 403 {object} httperr.Response
// @Router /api/providers/me/stats [get]
func (h *ProfileHandler) MyStats(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	view, err := h.slots.ProviderStats(c.Request.Context(), actor)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	res, err := resdto.FromProviderStatsView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) respondProfile(c *gin.Context, view *queries.ProfileView) {
	res, err := resdto.FromProfileView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
