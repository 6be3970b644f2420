package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/commands"
	"github.com/mauv0809/brawlboss/internal/ingest"
	"github.com/mauv0809/brawlboss/internal/stats"
	"github.com/mauv0809/brawlboss/internal/store"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Debug("Received health check request")
		if !s.Store.Ping(r.Context()) {
			http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// UpdateHandler runs one ingestion cycle and reports what it stored.
func (s *Server) UpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).Info("Manual update requested")
		// The run finishes even if the caller hangs up.
		ctx := context.WithoutCancel(r.Context())
		res, err := s.Pipeline.Run(ctx, ingest.Options{DryRun: isDryRunFromContext(r)})
		if errors.Is(err, ingest.ErrAlreadyRunning) {
			http.Error(w, "An update is already running", http.StatusConflict)
			return
		}
		if err != nil {
			log.FromContext(r.Context()).Error("Manual update failed", "error", err, "run_id", res.RunID)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, res)
	}
}

func (s *Server) ListMembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		club, err := s.Store.GetClub(r.Context(), s.Pipeline.ClubTag())
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "No club data yet", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get club", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to get club from store", "error", err)
			return
		}
		writeJSON(w, club.Members)
	}
}

// RankingsHandler serves the seven-day club rankings. With post=true the
// rankings are also sent to the notification channel.
func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clubTag := s.Pipeline.ClubTag()
		rankings, err := s.Stats.ClubRankings(ctx, clubTag)
		if errors.Is(err, stats.ErrClubNotFound) {
			http.Error(w, "No club data yet", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to compute rankings", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to compute rankings", "error", err)
			return
		}

		clubName := clubTag
		if club, err := s.Store.GetClub(ctx, clubTag); err == nil && club.Name != "" {
			clubName = club.Name
		}
		if r.URL.Query().Get("post") == "true" {
			if err := s.Notifier.SendRankings(ctx, clubName, rankings, isDryRunFromContext(r)); err != nil {
				log.FromContext(r.Context()).Error("Failed to post rankings", "error", err)
				http.Error(w, "Failed to post rankings", http.StatusBadGateway)
				return
			}
		}
		writeJSON(w, rankingsResponse{Club: clubName, Rankings: rankings})
	}
}

// PlayerHandler serves a stored player with all-time battle stats. The tag
// is given without its leading '#'.
func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tag := brawlstars.NormalizeTag(r.PathValue("tag"))
		if tag == "" {
			http.Error(w, "Player tag is required", http.StatusBadRequest)
			return
		}
		player, err := s.Store.GetPlayer(ctx, tag)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to get player from store", "error", err, "tag", tag)
			return
		}
		profile, err := s.Stats.PlayerProfile(ctx, tag)
		if err != nil {
			http.Error(w, "Failed to compute player stats", http.StatusInternalServerError)
			log.FromContext(r.Context()).Error("Failed to compute player stats", "error", err, "tag", tag)
			return
		}
		writeJSON(w, playerResponse{Player: player, Profile: profile})
	}
}

// SlashCommandHandler answers a Slack slash command in the channel it was
// sent from. The command name comes from the route.
func (s *Server) SlashCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		name := r.PathValue("name")
		logger := log.FromContext(r.Context())
		logger.Info("Received slash command", "name", name, "user", cmd.UserID, "channel", cmd.ChannelID)
		logger.Debug("Slash command text", "text", cmd.Text)

		reply := s.Responder.Handle(r.Context(), commands.Request{
			Command: name,
			UserID:  cmd.UserID,
			Text:    cmd.Text,
		})
		respondWithSlackMsg(w, slack.Message{Msg: slack.Msg{
			ResponseType: slack.ResponseTypeInChannel,
			Text:         reply,
		}})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}
