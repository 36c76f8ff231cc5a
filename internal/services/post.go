package services

import (
	"context"
	"fmt"

	"volunteer-network-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CreatePost stores a new post authored by userID
func (s *FeedService) CreatePost(ctx context.Context, userID, content string, imageURL *string) (*models.Post, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}

	if err := s.store.Posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Debug().Str("user_id", userID).Str("post_id", post.ID).Msg("Post created")

	return post, nil
}

// LikePost increments the like counter. Likes are not deduplicated.
func (s *FeedService) LikePost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.store.Posts.IncrementLikes(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to like post: %w", err)
	}
	return post, nil
}

// AddComment increments the comment counter. The comment text is not stored.
func (s *FeedService) AddComment(ctx context.Context, postID, userID, content string) (*models.Post, error) {
	if _, err := s.store.Users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get commenter: %w", err)
	}

	post, err := s.store.Posts.IncrementComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to comment on post: %w", err)
	}

	log.Debug().
		Str("user_id", userID).
		Str("post_id", postID).
		Int("content_length", len(content)).
		Msg("Comment counted")

	return post, nil
}
