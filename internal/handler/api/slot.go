package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"slotbook/internal/domain/slot"
	reqdto "slotbook/internal/handler/dto/request"
	resdto "slotbook/internal/handler/dto/response"
	"slotbook/internal/handler/httperr"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/pkg/config"
	"slotbook/internal/usecase/commands"
	"slotbook/internal/usecase/queries"
	"slotbook/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultHeartbeat = 15 * time.Second

type SlotHandler struct {
	cmds      commands.SlotCommands
	agenda    queries.AgendaQueries
	q         queries.SlotQueries
	heartbeat time.Duration
	logger    *slog.Logger
}

func NewSlotHandler(
	cmds commands.SlotCommands,
	agenda queries.AgendaQueries,
	q queries.SlotQueries,
	cfg config.Config,
	logger *slog.Logger,
) *SlotHandler {
	heartbeat := cfg.Agenda.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &SlotHandler{cmds: cmds, agenda: agenda, q: q, heartbeat: heartbeat, logger: logger}
}

// @Summary Create slot
// @Description Publish an available slot on the caller's agenda
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Create slot request"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	created, err := h.cmds.CreateSlot(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/slots/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromSlot(created))
}

// @Summary Cancel slot
// @Description Withdraw an available slot owned by the caller
// @Tags slots
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slots/{id} [delete]
func (h *SlotHandler) CancelSlot(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	if err := h.cmds.CancelSlot(c.Request.Context(), actor, id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Claim slot
// @Description Book an available slot for the caller. Losing a race returns 409.
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slots/{id}/claim [post]
func (h *SlotHandler) ClaimSlot(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	booked, err := h.cmds.ClaimSlot(c.Request.Context(), actor, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlot(booked))
}

// @Summary Get slot
// @Description Get a slot by ID. Booked slots are only visible to their provider and seeker.
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/slots/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}
	view, err := h.q.GetSlot(c.Request.Context(), actor, id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary List slots
// @Description One-shot agenda snapshot for a view mode
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param view query string true "providerAgenda | providerSlots | marketplace | myBookings"
// @Success 200 {object} resdto.AgendaResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	actor, mode, ok := h.actorAndView(c)
	if !ok {
		return
	}
	snap, err := h.agenda.Snapshot(c.Request.Context(), actor, mode)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAgendaSnapshot(snap))
}

// @Summary Watch slots
// @Description Server-sent events: a "snapshot" event per agenda change plus periodic "ping" events
// @Tags slots
// @Produce text/event-stream
// @Security BearerAuth
// @Param view query string true "providerAgenda | providerSlots | marketplace | myBookings"
// @Success 200 {object} resdto.AgendaResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/slots/watch [get]
func (h *SlotHandler) WatchSlots(c *gin.Context) {
	actor, mode, ok := h.actorAndView(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	sub, err := h.agenda.Subscribe(ctx, actor, mode)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	defer sub.Close()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	delivered := 0
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-sub.Updates():
			if !ok {
				return false
			}
			delivered++
			c.SSEvent("snapshot", resdto.FromAgendaSnapshot(&snap))
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": t.UTC()})
			return true
		}
	})

	h.logger.DebugContext(ctx, "agenda stream closed",
		slog.String("viewer_id", actor.ID.String()),
		slog.String("mode", mode.String()),
		slog.Int("snapshots", delivered),
	)
}

func (h *SlotHandler) actorAndID(c *gin.Context) (actor shared.Actor, id uuid.UUID, ok bool) {
	actor, ok = middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return actor, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return actor, uuid.Nil, false
	}
	return actor, id, true
}

func (h *SlotHandler) actorAndView(c *gin.Context) (actor shared.Actor, mode slot.ViewMode, ok bool) {
	actor, ok = middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingActor, "Unauthorized", nil)
		return actor, "", false
	}
	var q reqdto.ViewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return actor, "", false
	}
	mode, err := slot.ParseViewMode(q.View)
	if err != nil {
		abortWithDomainError(c, err)
		return actor, "", false
	}
	return actor, mode, true
}
