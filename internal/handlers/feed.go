package handlers

import (
	"net/http"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxContentLength = 5000

// FeedHandler handles feed and post HTTP requests
type FeedHandler struct {
	feedService  *services.FeedService
	mediaService *services.MediaService
	notifier     *services.Notifier
}

// NewFeedHandler creates a new feed handler. mediaService may be nil when
// no bucket is configured.
func NewFeedHandler(feedService *services.FeedService, mediaService *services.MediaService, notifier *services.Notifier) *FeedHandler {
	return &FeedHandler{
		feedService:  feedService,
		mediaService: mediaService,
		notifier:     notifier,
	}
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

// CommentRequest represents the request body for commenting on a post
type CommentRequest struct {
	Content string `json:"content"`
}

// ImageUploadRequest asks for a pre-signed image upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type"`
}

// GetFeed handles GET /api/v1/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	filter := models.FilterAll
	if raw := r.URL.Query().Get("filter"); raw != "" {
		filter = models.FeedFilter(raw)
		if !filter.Valid() {
			respondError(w, "filter must be one of all, connections, following", http.StatusBadRequest)
			return
		}
	}

	limit, offset, err := parsePage(r, defaultLimit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	items, err := h.feedService.GetFeed(ctx, userID, filter, limit, offset)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("filter", string(filter)).
			Msg("Failed to get feed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// CreatePost handles POST /api/v1/posts
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreatePostRequest
	if err := decodeBody(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	if err := checkLength("content", req.Content, 1, maxContentLength); err != nil {
		respondServiceError(w, err)
		return
	}

	post, err := h.feedService.CreatePost(ctx, userID, req.Content, req.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create post")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", post.ID).
		Msg("Post created")

	h.notifier.PostCreated(ctx, post)

	respondJSON(w, http.StatusCreated, post)
}

// LikePost handles POST /api/v1/posts/{post_id}/like
func (h *FeedHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	post, err := h.feedService.LikePost(ctx, postID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("post_id", postID).
			Msg("Failed to like post")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// AddComment handles POST /api/v1/posts/{post_id}/comments
func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var req CommentRequest
	if err := decodeBody(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	if err := checkLength("content", req.Content, 1, maxContentLength); err != nil {
		respondServiceError(w, err)
		return
	}

	post, err := h.feedService.AddComment(ctx, postID, userID, req.Content)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("post_id", postID).
			Msg("Failed to add comment")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// ImageUploadURL handles POST /api/v1/posts/images
func (h *FeedHandler) ImageUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if h.mediaService == nil {
		respondError(w, "image uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	var req ImageUploadRequest
	if err := decodeBody(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.mediaService.GetImageUploadURL(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("content_type", req.ContentType).
			Msg("Failed to generate pre-signed URL")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("image_url", response.ImageURL).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}
