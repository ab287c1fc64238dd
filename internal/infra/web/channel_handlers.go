package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/infra/metrics"
)

type companyIDKey struct{}

// requireCompany scopes the channel API to one tenant via the x-company-id
// header.
func requireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get("x-company-id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "x-company-id header required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), companyIDKey{}, id)))
	})
}

func companyID(r *http.Request) int64 {
	id, _ := r.Context().Value(companyIDKey{}).(int64)
	return id
}

type channelResponse struct {
	ID              int64  `json:"id"`
	YouTubeID       string `json:"youtubeId"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	URL             string `json:"url"`
	SubscriberCount uint64 `json:"subscriberCount"`
}

func toChannelResponse(c *model.Channel) channelResponse {
	return channelResponse{
		ID:              c.ID,
		YouTubeID:       c.YouTubeID,
		Name:            c.Name,
		Avatar:          c.Avatar,
		URL:             c.URL,
		SubscriberCount: c.SubscriberCount,
	}
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.channelUC.List(r.Context(), companyID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]channelResponse, 0, len(channels))
	for _, c := range channels {
		out = append(out, toChannelResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddChannel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		YouTubeID string `json:"youtubeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.YouTubeID == "" {
		writeError(w, http.StatusBadRequest, "youtubeId is required")
		return
	}
	c, err := s.channelUC.Add(r.Context(), companyID(r), body.YouTubeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChannelResponse(c))
}

func (s *Server) handleRemoveChannel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid channel id")
		return
	}
	if err := s.channelUC.Remove(r.Context(), companyID(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type videoResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Views       int64  `json:"views"`
	Likes       int64  `json:"likes"`
	Performance string `json:"performance"`
}

func (s *Server) handleChannelVideos(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid channel id")
		return
	}
	videos, err := s.channelUC.RecentVideos(r.Context(), companyID(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		metrics.IncVideoScored(string(v.Performance))
		out = append(out, videoResponse{
			ID:          v.ID,
			Title:       v.Title,
			Thumbnail:   v.Thumbnail,
			URL:         v.URL,
			PublishedAt: v.PublishedAt.Format(time.RFC3339),
			Views:       v.Views,
			Likes:       v.Likes,
			Performance: string(v.Performance),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
