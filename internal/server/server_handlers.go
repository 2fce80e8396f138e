package server

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tragdev/trag/internal/protocol"
	"github.com/tragdev/trag/internal/server/httpx"
	"github.com/tragdev/trag/internal/store"
	"github.com/tragdev/trag/internal/version"
)

type dashboard struct {
	store *store.Store
}

func (d *dashboard) commitIndexHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := d.store.CommitSummaries()
	if err != nil {
		slog.Error("summarize commits", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "summarize commits failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, protocol.CommitIndex{Commits: summaries})
}

func (d *dashboard) commitDetailHandler(w http.ResponseWriter, r *http.Request) {
	commitID := chi.URLParam(r, "commit")
	if commitID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "commit id is required")
		return
	}

	known, err := d.store.HasCommit(commitID)
	if err != nil {
		slog.Error("look up commit", "commit", commitID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "commit lookup failed")
		return
	}
	if !known {
		httpx.WriteError(w, http.StatusNotFound, "commit not found")
		return
	}

	groups, err := d.store.GroupBreakdown(commitID)
	if err != nil {
		slog.Error("group breakdown", "commit", commitID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "group breakdown failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, protocol.CommitDetail{Groups: groups})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func serverInfoHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	httpx.WriteJSON(w, http.StatusOK, protocol.ServerInfo{
		Name:       "trag",
		APIVersion: 1,
		Version:    version.Current(),
		Hostname:   strings.TrimSpace(host),
	})
}
