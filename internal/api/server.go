// Package api implements the engine's status/control HTTP surface: a thin
// JSON API over the scheduler, configuration, bot registry, blacklist, and
// decision audit log. It specifies no web UI, only a control surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tradeoffer-engine/internal/config"
	"tradeoffer-engine/internal/db"
	"tradeoffer-engine/internal/trading"
)

// Server connects the scheduler, configuration, and database to an HTTP
// handler.
type Server struct {
	DB        *db.DB
	Scheduler *trading.Scheduler
	Config    *config.Config
}

// NewServer creates a Server.
func NewServer(database *db.DB, scheduler *trading.Scheduler, cfg *config.Config) *Server {
	return &Server{DB: database, Scheduler: scheduler, Config: cfg}
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/trades/scan", s.handleTriggerScan)

	mux.HandleFunc("GET /api/blacklist", s.handleListBlacklist)
	mux.HandleFunc("POST /api/blacklist", s.handleAddBlacklist)
	mux.HandleFunc("DELETE /api/blacklist/{steamID}", s.handleRemoveBlacklist)

	mux.HandleFunc("GET /api/bots", s.handleListBots)
	mux.HandleFunc("POST /api/bots", s.handleUpsertBot)

	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handleSetConfig)

	mux.HandleFunc("GET /api/audit", s.handleListAudit)
	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.Scheduler.Status()
	writeJSON(w, map[string]interface{}{
		"parsing_scheduled": status.ParsingScheduled,
		"handled_offers":    status.HandledOffers,
		"last_pass_at":      status.LastPassAt,
		"last_pass_duration_ms": status.LastPassDuration.Milliseconds(),
	})
}

func (s *Server) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	go s.Scheduler.OnNewTrade(context.WithoutCancel(r.Context()))
	writeJSON(w, map[string]string{"status": "scan triggered"})
}

func (s *Server) handleListBlacklist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.DB.ListBlacklistEntries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleAddBlacklist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SteamID64 uint64 `json:"steam_id64"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry := trading.BlacklistEntry{SteamID64: req.SteamID64, Reason: req.Reason, AddedAt: time.Now().UTC()}
	if err := s.DB.AddBlacklistEntry(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, entry)
}

func (s *Server) handleRemoveBlacklist(w http.ResponseWriter, r *http.Request) {
	steamID, err := strconv.ParseUint(r.PathValue("steamID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid steamID")
		return
	}
	if err := s.DB.RemoveBlacklistEntry(steamID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "removed"})
}

func (s *Server) handleListBots(w http.ResponseWriter, r *http.Request) {
	bots, err := s.DB.ListBotAccounts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, bots)
}

func (s *Server) handleUpsertBot(w http.ResponseWriter, r *http.Request) {
	var acc trading.BotAccount
	if err := json.NewDecoder(r.Body).Decode(&acc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.DB.UpsertBotAccount(acc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, acc)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Config)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	*s.Config = cfg
	if err := s.DB.SaveConfig(s.Config); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, s.Config)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	records, err := s.DB.ListRecentDecisions(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, records)
}
