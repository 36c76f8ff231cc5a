package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/repository"
)

// FeedOptions tunes the per-source caps of the feed
type FeedOptions struct {
	ActivityCap   int
	ConnectionCap int
	// SortBeforeCap caps each source to its newest entries instead of
	// capping in store order ahead of the final sort.
	SortBeforeCap bool
}

// DefaultFeedOptions returns the caps used when none are configured
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{ActivityCap: 10, ConnectionCap: 5}
}

// FeedService aggregates posts, volunteer activity and new connections into a
// single timeline. The feed is recomputed on every read.
type FeedService struct {
	store *repository.Store
	opts  FeedOptions
	now   func() time.Time
}

// NewFeedService creates a new feed service
func NewFeedService(store *repository.Store, opts FeedOptions) *FeedService {
	return &FeedService{store: store, opts: opts, now: time.Now}
}

var activityDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// GetFeed returns userID's feed, newest first
func (s *FeedService) GetFeed(ctx context.Context, userID string, filter models.FeedFilter, limit, offset int) ([]models.FeedItem, error) {
	if filter == models.FilterFollowing {
		// following is not implemented and yields nothing
		return make([]models.FeedItem, 0), nil
	}

	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	edges, err := s.store.Connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	connected := connectionIDs(edges, userID)
	inScope := func(authorID string) bool {
		if filter == models.FilterConnections {
			_, ok := connected[authorID]
			return ok
		}
		return true
	}

	var items []models.FeedItem

	posts, err := s.postItems(ctx, byID, inScope)
	if err != nil {
		return nil, err
	}
	items = append(items, posts...)

	activities, err := s.activityItems(ctx, byID, inScope)
	if err != nil {
		return nil, err
	}
	items = append(items, activities...)

	items = append(items, s.connectionItems(edges, userID, byID)...)

	visible := make([]models.FeedItem, 0, len(items))
	for _, item := range items {
		if hasResolvableAuthor(item) {
			visible = append(visible, item)
		}
	}
	sortFeed(visible)

	return paginate(visible, limit, offset), nil
}

// connectionIDs returns the other endpoint of every edge touching userID,
// whatever its status or direction.
func connectionIDs(edges []*models.ConnectionEdge, userID string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, e := range edges {
		switch userID {
		case e.FollowerID:
			ids[e.FollowingID] = struct{}{}
		case e.FollowingID:
			ids[e.FollowerID] = struct{}{}
		}
	}
	return ids
}

func (s *FeedService) postItems(ctx context.Context, users map[string]*models.User, inScope func(string) bool) ([]models.FeedItem, error) {
	posts, err := s.store.Posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var items []models.FeedItem
	for _, p := range posts {
		if !inScope(p.AuthorID) || p.CreatedAt.IsZero() {
			continue
		}
		items = append(items, &models.PostItem{
			FeedBase: models.FeedBase{
				ID:            p.ID,
				Type:          models.FeedPost,
				Author:        users[p.AuthorID],
				Content:       p.Content,
				CreatedAt:     p.CreatedAt,
				LikesCount:    p.LikesCount,
				CommentsCount: p.CommentsCount,
			},
			ImageURL: p.ImageURL,
		})
	}
	return items, nil
}

func (s *FeedService) activityItems(ctx context.Context, users map[string]*models.User, inScope func(string) bool) ([]models.FeedItem, error) {
	entries, err := s.store.Impact.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list impact entries: %w", err)
	}

	type dated struct {
		entry *models.ImpactEntry
		at    time.Time
	}
	var candidates []dated
	for _, e := range entries {
		if !e.Completed() || !inScope(e.UserID) {
			continue
		}
		at, ok := activityTime(e)
		if !ok {
			continue
		}
		candidates = append(candidates, dated{entry: e, at: at})
	}

	if s.opts.SortBeforeCap {
		sort.SliceStable(candidates, func(i, j int) bool {
			return newerFirst(candidates[i].at, candidates[j].at)
		})
		if len(candidates) > s.opts.ActivityCap {
			candidates = candidates[:s.opts.ActivityCap]
		}
	} else if len(candidates) > s.opts.ActivityCap {
		// most recently stored entries
		candidates = candidates[len(candidates)-s.opts.ActivityCap:]
	}

	items := make([]models.FeedItem, 0, len(candidates))
	for _, c := range candidates {
		e := c.entry
		author := users[e.UserID]
		items = append(items, &models.ActivityItem{
			FeedBase: models.FeedBase{
				ID:        "activity-" + e.ID,
				Type:      models.FeedActivity,
				Author:    author,
				Content:   activityContent(author, e),
				CreatedAt: c.at,
			},
			Hours:            e.Hours,
			OpportunityTitle: e.OpportunityTitle,
			OrganizationName: e.OrganizationName,
			Status:           e.Status,
		})
	}
	return items, nil
}

// connectionItems turns userID's own accepted edges into feed entries
func (s *FeedService) connectionItems(edges []*models.ConnectionEdge, userID string, users map[string]*models.User) []models.FeedItem {
	var own []*models.ConnectionEdge
	for _, e := range edges {
		if e.FollowerID == userID && e.Status == models.StatusAccepted {
			own = append(own, e)
		}
	}

	if s.opts.SortBeforeCap {
		sort.SliceStable(own, func(i, j int) bool {
			return newerFirst(edgeTime(own[i]), edgeTime(own[j]))
		})
	}
	if len(own) > s.opts.ConnectionCap {
		own = own[:s.opts.ConnectionCap]
	}

	items := make([]models.FeedItem, 0, len(own))
	for _, e := range own {
		at := edgeTime(e)
		target, ok := users[e.FollowingID]
		if !ok || at.IsZero() {
			continue
		}
		author := users[e.FollowerID]
		content := "New connection with " + target.Name
		if author != nil {
			content = author.Name + " connected with " + target.Name
		}
		items = append(items, &models.ConnectionItem{
			FeedBase: models.FeedBase{
				ID:        "connection-" + e.ID,
				Type:      models.FeedConnection,
				Author:    author,
				Content:   content,
				CreatedAt: at,
			},
			ConnectedUser: target,
		})
	}
	return items
}

// hasResolvableAuthor reports whether the item's author exists in the store
func hasResolvableAuthor(item models.FeedItem) bool {
	return item.Base().Author != nil
}

// sortFeed orders items newest first; undated items go last
func sortFeed(items []models.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return newerFirst(items[i].Base().CreatedAt, items[j].Base().CreatedAt)
	})
}

func newerFirst(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return !a.IsZero() && b.IsZero()
	}
	return a.After(b)
}

// activityTime resolves when the volunteer work happened. An empty date falls
// back to the record time; ok is false when neither is known. A date that does
// not parse yields the zero time so the item sorts last.
func activityTime(e *models.ImpactEntry) (time.Time, bool) {
	if e.Date == "" {
		return e.CreatedAt, !e.CreatedAt.IsZero()
	}
	for _, layout := range activityDateLayouts {
		if t, err := time.Parse(layout, e.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, true
}

func edgeTime(e *models.ConnectionEdge) time.Time {
	if e.ConnectedAt != nil {
		return *e.ConnectedAt
	}
	return e.CreatedAt
}

func activityContent(author *models.User, e *models.ImpactEntry) string {
	name := "Someone"
	if author != nil {
		name = author.Name
	}
	hours := strconv.FormatFloat(e.Hours, 'f', -1, 64)
	unit := "hours"
	if e.Hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("%s volunteered %s %s at %s with %s", name, hours, unit, e.OpportunityTitle, e.OrganizationName)
}
