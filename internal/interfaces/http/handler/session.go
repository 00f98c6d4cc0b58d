package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hellcat/store/internal/application/session"
)

const defaultHeartbeat = 15 * time.Second

// SessionHandler exposes per-visitor view state and its change stream
type SessionHandler struct {
	BaseHandler
	sessions  *session.Registry
	heartbeat time.Duration
	logger    *zap.Logger
}

// NewSessionHandler creates a new SessionHandler. heartbeat is the idle
// interval between keep-alive events on a stream.
func NewSessionHandler(sessions *session.Registry, heartbeat time.Duration, logger *zap.Logger) *SessionHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{
		sessions:  sessions,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// SessionResponse is a session with its current view state
type SessionResponse struct {
	ID          string        `json:"id"`
	LiveUpdates bool          `json:"liveUpdates"`
	State       session.State `json:"state"`
}

// SearchRequest sets the catalog search string
type SearchRequest struct {
	Query string `json:"query" binding:"max=200"`
}

// SortRequest sets the catalog sort key
type SortRequest struct {
	SortBy string `json:"sortBy" binding:"required"`
}

// PageRequest moves to a catalog page
type PageRequest struct {
	Page int `json:"page" binding:"required,min=1"`
}

// RealTimeRequest toggles live updates
type RealTimeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func toSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID(),
		LiveUpdates: s.LiveUpdatesRunning(),
		State:       s.State(),
	}
}

// lookup resolves the :id path parameter, answering 404 when unknown
func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return s, true
}

// Create godoc
// @ID           createSession
// @Summary      Open a session
// @Description  Starts a view-state session, loads the first catalog page and begins live updates
// @Tags         sessions
// @Produce      json
// @Success      201 {object} APIResponse[SessionResponse]
// @Router       /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create(c.Request.Context())
	// a failed first load is recorded in the products error slot
	if err := s.Dispatcher().LoadProducts(c.Request.Context()); err != nil {
		h.logger.Warn("Initial product load failed", zap.String("session_id", s.ID()), zap.Error(err))
	}
	h.Created(c, toSessionResponse(s))
}

// Get godoc
// @ID           getSession
// @Summary      Session state snapshot
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	h.Success(c, toSessionResponse(s))
}

// Delete godoc
// @ID           deleteSession
// @Summary      Close a session
// @Description  Stops live updates and ends every open stream
// @Tags         sessions
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetFilters godoc
// @ID           setSessionFilters
// @Summary      Change catalog filters
// @Description  Empty fields keep their value. Resets to page 1 and reloads products.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Session ID"
// @Param        request body session.Filters true "Filters"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/filters [put]
func (h *SessionHandler) SetFilters(c *gin.Context) {
	var req session.Filters
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		return s.Dispatcher().ApplyFilters(c.Request.Context(), req)
	})
}

// Search godoc
// @ID           setSessionSearch
// @Summary      Change the search string
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string        true "Session ID"
// @Param        request body SearchRequest true "Search"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/search [put]
func (h *SessionHandler) Search(c *gin.Context) {
	var req SearchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		return s.Dispatcher().Search(c.Request.Context(), req.Query)
	})
}

// Sort godoc
// @ID           setSessionSort
// @Summary      Change the sort key
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string      true "Session ID"
// @Param        request body SortRequest true "Sort"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/sort [put]
func (h *SessionHandler) Sort(c *gin.Context) {
	var req SortRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		return s.Dispatcher().SortBy(c.Request.Context(), req.SortBy)
	})
}

// Page godoc
// @ID           setSessionPage
// @Summary      Go to a catalog page
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string      true "Session ID"
// @Param        request body PageRequest true "Page"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/page [put]
func (h *SessionHandler) Page(c *gin.Context) {
	var req PageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		return s.Dispatcher().GoToPage(c.Request.Context(), req.Page)
	})
}

// RealTime godoc
// @ID           setSessionRealTime
// @Summary      Toggle live updates
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Session ID"
// @Param        request body RealTimeRequest true "Toggle"
// @Success      200 {object} APIResponse[SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/realtime [put]
func (h *SessionHandler) RealTime(c *gin.Context) {
	var req RealTimeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(s *session.Session) error {
		s.Dispatcher().SetRealTimeUpdates(*req.Enabled)
		return nil
	})
}

func (h *SessionHandler) apply(c *gin.Context, fn func(*session.Session) error) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := fn(s); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionResponse(s))
}

// Stream godoc
// @ID           streamSession
// @Summary      Stream state changes
// @Description  Server-sent events. The first "state" event carries the current state, every "change" event the action and the full state after it. Ends with the request or when the session closes.
// @Tags         sessions
// @Produce      text/event-stream
// @Param        id path string true "Session ID"
// @Success      200 {string} string "SSE stream"
// @Failure      404 {object} ErrorResponse
// @Router       /sessions/{id}/stream [get]
func (h *SessionHandler) Stream(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	changes, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// streams run past the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	setSSEHeaders(c.Writer)
	c.Status(http.StatusOK)

	log := h.logger.With(zap.String("session_id", s.ID()))
	log.Debug("Session stream opened")

	var seq uint64
	send := func(event string, payload any) bool {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error("Failed to encode stream event", zap.String("event", event), zap.Error(err))
			return false
		}
		msg := sseMessage{Event: event, ID: strconv.FormatUint(seq, 10), Data: string(data)}
		seq++
		if err := writeEvent(c.Writer, msg); err != nil {
			log.Debug("Session stream write failed", zap.Error(err))
			return false
		}
		c.Writer.Flush()
		return true
	}

	if !send("state", s.State()) {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			log.Debug("Session stream closed by client")
			return
		case <-s.Context().Done():
			send("closed", gin.H{"id": s.ID()})
			return
		case change, ok := <-changes:
			if !ok {
				send("closed", gin.H{"id": s.ID()})
				return
			}
			if !send("change", change) {
				return
			}
		case now := <-ticker.C:
			if !send("heartbeat", gin.H{"timestamp": now.Unix()}) {
				return
			}
		}
	}
}
