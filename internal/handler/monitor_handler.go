package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/courseloop/assessment-backend/internal/config"
	"github.com/courseloop/assessment-backend/internal/middleware"
	"github.com/courseloop/assessment-backend/internal/service"
	ws "github.com/courseloop/assessment-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams attempt lifecycle events of one exam to staff
// over WebSocket, fed by the Redis PubSub channel the services publish
// on.
type MonitorHandler struct {
	rdb         *redis.Client
	examService *service.ExamService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, examService *service.ExamService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:         rdb,
		examService: examService,
		log:         log.With().Str("component", "monitor_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// ExamMonitorStream godoc
// WS /ws/v1/staff/exams/:exam_id/monitor
// Upgrades to WebSocket and relays attempt events as they happen.
func (h *MonitorHandler) ExamMonitorStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	// Ownership check before the upgrade so unauthorized staff never
	// hold a socket open.
	if _, err := h.examService.Get(c.Request.Context(), claims, examID); err != nil {
		failDomain(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("principal_id", claims.PrincipalID).
		Str("exam_id", examID.String()).
		Logger()

	channel := config.CacheKey.ExamMonitorChannel(examID.String())
	sub := h.rdb.Subscribe(c.Request.Context(), channel)
	defer sub.Close()

	wsLog.Info().Msg("Monitor connected")

	done := make(chan struct{})

	// Reader: only ping and close are expected from the client.
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Monitor disconnected")
			return
		case msg, ok := <-events:
			if !ok {
				wsLog.Debug().Msg("Subscription closed")
				return
			}
			push := ws.MonitorPush{
				Event:   ws.EventMonitor,
				Payload: json.RawMessage(msg.Payload),
			}
			if err := ws.WriteTyped(conn, push); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed")
				return
			}
		}
	}
}
