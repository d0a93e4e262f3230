package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/service"
	"github.com/Kerhoff/QueueboT/internal/telegram"
)

// Server provides the read-only ops HTTP surface: health, Prometheus
// metrics and a JSON view of the stored queues.
type Server struct {
	svc     *service.Service
	bot     *telegram.Bot
	logger  *logrus.Logger
	mux     *http.ServeMux
	started time.Time
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, bot *telegram.Bot, logger *logrus.Logger) *Server {
	s := &Server{
		svc:     svc,
		bot:     bot,
		logger:  logger,
		mux:     http.NewServeMux(),
		started: time.Now(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/chats", s.handleGetChats)
	s.mux.HandleFunc("GET /api/chats/{id}/queues", s.handleGetQueues)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// pathChatID extracts the {id} path value and converts it to int64.
func pathChatID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

type healthResponse struct {
	Status            string `json:"status"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	ProcessedUpdates  int64  `json:"processed_updates"`
	ExpirationsFired  int64  `json:"expirations_fired"`
	ActiveExpirations int    `json:"active_expirations"`
	PendingSwaps      int    `json:"pending_swaps"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{
		Status:            "ok",
		UptimeSeconds:     int64(time.Since(s.started).Seconds()),
		ProcessedUpdates:  s.bot.ProcessedUpdates(),
		ExpirationsFired:  s.svc.Expirations.FiredCount(),
		ActiveExpirations: s.svc.Expirations.ActiveCount(),
		PendingSwaps:      s.svc.Swaps.Pending(),
	})
}

// ---------------------------------------------------------------------------
// Chats & queues
// ---------------------------------------------------------------------------

type chatSummary struct {
	ChatID int64  `json:"chat_id"`
	Title  string `json:"title"`
	Queues int    `json:"queues"`
}

type queueView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Members     []string   `json:"members"`
	LastUsed    time.Time  `json:"last_used"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (s *Server) handleGetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.svc.Chats.GetAllChats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to get chats")
		s.respondError(w, http.StatusInternalServerError, "failed to get chats")
		return
	}

	summaries := make([]chatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, chatSummary{
			ChatID: chat.ChatID,
			Title:  chat.Title,
			Queues: len(chat.Queues),
		})
	}
	s.respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetQueues(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathChatID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "chat id must be an integer")
		return
	}

	chat, err := s.svc.Chats.GetChat(r.Context(), chatID)
	if err != nil {
		if models.IsUserError(err) {
			s.respondError(w, http.StatusNotFound, "chat not found")
			return
		}
		s.logger.WithError(err).Error("failed to get chat")
		s.respondError(w, http.StatusInternalServerError, "failed to get chat")
		return
	}

	views := make([]queueView, 0, len(chat.Queues))
	for _, q := range chat.Queues {
		members := make([]string, len(q.Members))
		for i, m := range q.Members {
			members[i] = m.DisplayName
		}
		views = append(views, queueView{
			ID:          q.ID,
			Name:        q.Name,
			Description: q.Description,
			Members:     members,
			LastUsed:    q.LastModified,
			ExpiresAt:   q.Expiration,
		})
	}
	s.respondJSON(w, http.StatusOK, views)
}
