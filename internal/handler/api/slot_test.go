//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"slotbook/internal/domain/profile"
	"slotbook/internal/domain/slot"
	"slotbook/internal/handler/api"
	resdto "slotbook/internal/handler/dto/response"
	"slotbook/internal/pkg/config"
	"slotbook/internal/usecase/queries"
	"slotbook/internal/usecase/shared"
	"slotbook/tests/common/builder"
	"slotbook/tests/common/httptest"
	"slotbook/tests/common/testutil"
	commandsmock "slotbook/tests/mock/commands"
	queriesmock "slotbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SlotHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSlotCommands
	mockAgenda   *queriesmock.MockAgendaQueries
	mockQueries  *queriesmock.MockSlotQueries
	handler      *api.SlotHandler
	actor        shared.Actor
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSlotCommands(s.mockCtrl)
	s.mockAgenda = queriesmock.NewMockAgendaQueries(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSlotQueries(s.mockCtrl)

	cfg := config.NewTestConfig()
	cfg.Agenda.HeartbeatInterval = 20 * time.Millisecond
	s.handler = api.NewSlotHandler(s.mockCommands, s.mockAgenda, s.mockQueries, cfg, testutil.DiscardLogger())
	s.actor = shared.Actor{ID: uuid.New(), Role: profile.RoleProvider, DisplayName: "Ada"}

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", s.actor)
		c.Next()
	}

	slots := s.router.Group("/slots", authMiddleware)
	slots.POST("", s.handler.CreateSlot)
	slots.GET("", s.handler.ListSlots)
	slots.GET("/watch", s.handler.WatchSlots)
	slots.GET("/:id", s.handler.GetSlot)
	slots.DELETE("/:id", s.handler.CancelSlot)
	slots.POST("/:id/claim", s.handler.ClaimSlot)
}

func (s *SlotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSlotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func (s *SlotHandlerTestSuite) asSeeker() {
	s.actor = shared.Actor{ID: uuid.New(), Role: profile.RoleSeeker, DisplayName: "Grace"}
}

type testCaseSlot struct {
	name         string
	mutate       func(m map[string]any)
	expectCode   int
	expectInBody string
}

// ================================================================================
// TestCreateSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestCreateSlot() {
	url := "/slots"
	b := builder.NewSlotBuilder()
	reqBody := b.BuildCreateRequestDTO()
	created := b.MustBuildDomain()

	s.Run("success: returns 201 Created with location", func() {
		s.mockCommands.EXPECT().CreateSlot(gomock.Any(), s.actor, gomock.Any()).
			Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID().String(), body.ID)
		s.Equal("available", body.Status)
		s.Nil(body.SeekerID)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/slots/" + created.ID().String()})
	})

	validation := []testCaseSlot{
		{name: "missing field: start_time (required)", mutate: testutil.Field("start_time", nil), expectCode: http.StatusBadRequest},
		{name: "malformed start_time", mutate: testutil.Field("start_time", "tomorrow"), expectCode: http.StatusBadRequest},
		{name: "provider_name too long", mutate: testutil.Field("provider_name", strings.Repeat("a", 101)), expectCode: http.StatusBadRequest},
		{name: "specialty too long", mutate: testutil.Field("specialty", strings.Repeat("a", 101)), expectCode: http.StatusBadRequest},
	}

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range validation {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
			})
		}
	})

	domainErrors := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{name: "start time in the past", err: slot.ErrInvalidSlotTime, expectCode: http.StatusUnprocessableEntity, expectMsg: "future"},
		{name: "caller is not a provider", err: slot.ErrUnauthorized, expectCode: http.StatusForbidden, expectMsg: "Not authorized"},
		{name: "storage unavailable", err: shared.TransportFailure(errors.New("dial tcp"), "insert slot"), expectCode: http.StatusServiceUnavailable, expectMsg: "temporarily unavailable"},
		{name: "unexpected error", err: errors.New("boom"), expectCode: http.StatusInternalServerError, expectMsg: "Internal server error"},
	}

	for _, tc := range domainErrors {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().CreateSlot(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
		})
	}

	s.Run("error: 401 without credentials", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestCancelSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestCancelSlot() {
	id := uuid.New()
	url := "/slots/" + id.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().CancelSlot(gomock.Any(), s.actor, id).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	cases := []struct {
		name       string
		err        error
		expectCode int
		expectMsg  string
	}{
		{name: "slot missing", err: slot.ErrSlotNotFound, expectCode: http.StatusNotFound, expectMsg: "Slot not found"},
		{name: "not the owner", err: slot.ErrUnauthorized, expectCode: http.StatusForbidden},
		{name: "already booked", err: slot.ErrSlotAlreadyBooked, expectCode: http.StatusConflict, expectMsg: "Slot already booked"},
		{name: "changed underneath", err: slot.ErrSlotNoLongerAvailable, expectCode: http.StatusConflict, expectMsg: "no longer available"},
	}
	for _, tc := range cases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().CancelSlot(gomock.Any(), gomock.Any(), id).Return(tc.err).Times(1)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.expectMsg)
		})
	}

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/slots/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}

// ================================================================================
// TestClaimSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestClaimSlot() {
	s.asSeeker()
	b := builder.NewSlotBuilder()
	booked := b.BuildBooked(s.actor.ID, "Grace")
	url := "/slots/" + booked.ID().String() + "/claim"

	s.Run("success: returns the booked slot", func() {
		s.mockCommands.EXPECT().ClaimSlot(gomock.Any(), s.actor, booked.ID()).Return(booked, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("booked", body.Status)
		s.Require().NotNil(body.SeekerID)
		s.Equal(s.actor.ID.String(), *body.SeekerID)
		s.Equal("Grace", *body.SeekerName)
		s.NotNil(body.BookedAt)
	})

	s.Run("error: lost race returns 409", func() {
		s.mockCommands.EXPECT().ClaimSlot(gomock.Any(), gomock.Any(), booked.ID()).Return(nil, slot.ErrSlotNoLongerAvailable).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Slot no longer available")
	})

	s.Run("error: transport failure returns 503, not 409", func() {
		s.mockCommands.EXPECT().ClaimSlot(gomock.Any(), gomock.Any(), booked.ID()).
			Return(nil, shared.TransportFailure(errors.New("connection reset"), "claim slot")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "")
	})

	s.Run("error: provider claiming returns 403", func() {
		s.mockCommands.EXPECT().ClaimSlot(gomock.Any(), gomock.Any(), booked.ID()).Return(nil, slot.ErrUnauthorized).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}

// ================================================================================
// TestGetSlot
// ================================================================================

func (s *SlotHandlerTestSuite) TestGetSlot() {
	view := builder.NewSlotBuilder().BuildView()
	url := "/slots/" + view.ID.String()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetSlot(gomock.Any(), s.actor, view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID.String(), body.ID)
		s.Equal(view.ProviderName, body.ProviderName)
	})

	s.Run("error: hidden or missing slot returns 404", func() {
		s.mockQueries.EXPECT().GetSlot(gomock.Any(), gomock.Any(), view.ID).Return(nil, slot.ErrSlotNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})
}

// ================================================================================
// TestListSlots
// ================================================================================

func (s *SlotHandlerTestSuite) TestListSlots() {
	s.Run("success: returns the snapshot", func() {
		b := builder.NewSlotBuilder().WithProvider(s.actor.ID)
		snap := &queries.AgendaSnapshot{
			Mode:        slot.ViewProviderSlots,
			Slots:       []*queries.SlotView{b.StartingIn(time.Hour).BuildView(), b.StartingIn(2 * time.Hour).BuildView()},
			GeneratedAt: b.Now,
			Version:     1,
		}
		s.mockAgenda.EXPECT().Snapshot(gomock.Any(), s.actor, slot.ViewProviderSlots).Return(snap, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots?view=providerSlots", nil, "bearer-token")

		var body resdto.AgendaResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("providerSlots", body.Mode)
		s.Equal(uint64(1), body.Version)
		s.Require().Len(body.Slots, 2)
		s.Equal(snap.Slots[0].ID.String(), body.Slots[0].ID)
	})

	s.Run("error: missing view", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: unknown view", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots?view=calendar", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid view")
	})

	s.Run("error: view not permitted for role", func() {
		s.mockAgenda.EXPECT().Snapshot(gomock.Any(), gomock.Any(), slot.ViewMarketplace).Return(nil, slot.ErrViewNotPermitted).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/slots?view=marketplace", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "View not permitted")
	})
}

// ================================================================================
// TestWatchSlots
// ================================================================================

func (s *SlotHandlerTestSuite) TestWatchSlots() {
	s.Run("success: streams each snapshot as an event", func() {
		s.asSeeker()
		updates := make(chan queries.AgendaSnapshot, 2)
		first := builder.NewSlotBuilder().BuildView()
		updates <- queries.AgendaSnapshot{Mode: slot.ViewMarketplace, Version: 1, Slots: []*queries.SlotView{first}}
		updates <- queries.AgendaSnapshot{Mode: slot.ViewMarketplace, Version: 2, Slots: []*queries.SlotView{}}
		close(updates)

		closed := false
		s.mockAgenda.EXPECT().Subscribe(gomock.Any(), s.actor, slot.ViewMarketplace).
			Return(queries.NewSubscription(updates, func() { closed = true }), nil).Times(1)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rec := httptest.PerformStream(s.T(), s.router, ctx, "/slots/watch?view=marketplace", "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Header().Get("Content-Type"), "text/event-stream")
		s.Equal("no-cache", rec.Header().Get("Cache-Control"))

		events := httptest.EventsNamed(httptest.ParseSSE(rec.Body.String()), "snapshot")
		s.Require().Len(events, 2)

		var got resdto.AgendaResponse
		s.Require().NoError(json.Unmarshal([]byte(events[0].Data), &got))
		s.Equal(uint64(1), got.Version)
		s.Require().Len(got.Slots, 1)
		s.Equal(first.ID.String(), got.Slots[0].ID)

		s.Require().NoError(json.Unmarshal([]byte(events[1].Data), &got))
		s.Equal(uint64(2), got.Version)
		s.Empty(got.Slots)

		s.True(closed, "subscription must be closed when the stream ends")
	})

	s.Run("success: sends heartbeats while idle", func() {
		updates := make(chan queries.AgendaSnapshot)
		s.mockAgenda.EXPECT().Subscribe(gomock.Any(), gomock.Any(), slot.ViewProviderAgenda).
			Return(queries.NewSubscription(updates, nil), nil).Times(1)

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		rec := httptest.PerformStream(s.T(), s.router, ctx, "/slots/watch?view=providerAgenda", "bearer-token")

		events := httptest.ParseSSE(rec.Body.String())
		s.NotEmpty(httptest.EventsNamed(events, "ping"))
		s.Empty(httptest.EventsNamed(events, "snapshot"))
	})

	s.Run("error: subscription refused", func() {
		s.mockAgenda.EXPECT().Subscribe(gomock.Any(), gomock.Any(), slot.ViewMyBookings).
			Return(nil, slot.ErrViewNotPermitted).Times(1)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		rec := httptest.PerformStream(s.T(), s.router, ctx, "/slots/watch?view=myBookings", "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "View not permitted")
	})
}
