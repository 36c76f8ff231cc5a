package repository

import (
	"context"
	"fmt"
	"time"

	"volunteer-network-backend/internal/models"
)

// Seed loads the fixture data used for local runs and demos.
// It does nothing when the store already has users.
func Seed(ctx context.Context, store *Store) error {
	existing, err := store.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	str := func(s string) *string { return &s }

	users := []*models.User{
		{ID: "user-1", Name: "Sarah Johnson", Username: "sarahj", Headline: str("Community organizer"), Location: str("Portland, OR")},
		{ID: "user-2", Name: "Michael Chen", Username: "mchen", Headline: str("Food bank coordinator"), Location: str("Seattle, WA")},
		{ID: "user-3", Name: "Emily Rodriguez", Username: "emilyr", Headline: str("Environmental volunteer"), Location: str("Portland, OR")},
		{ID: "user-4", Name: "David Kim", Username: "dkim", Headline: str("Youth mentor"), Location: str("San Francisco, CA")},
		{ID: "user-5", Name: "Priya Patel", Username: "priyap", Headline: str("Literacy tutor"), Location: str("Austin, TX")},
		{ID: "user-6", Name: "James Wilson", Username: "jwilson", Location: str("Denver, CO")},
	}
	for i, u := range users {
		u.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
	}

	accepted := func(id, a, b string, at time.Time) []*models.ConnectionEdge {
		return []*models.ConnectionEdge{
			{ID: id, FollowerID: a, FollowingID: b, Status: models.StatusAccepted, CreatedAt: at, ConnectedAt: &at},
			{ID: id + "-r", FollowerID: b, FollowingID: a, Status: models.StatusAccepted, CreatedAt: at, ConnectedAt: &at},
		}
	}
	var edges []*models.ConnectionEdge
	edges = append(edges, accepted("conn-1", "user-1", "user-2", base.Add(2*day))...)
	edges = append(edges, accepted("conn-2", "user-1", "user-3", base.Add(4*day))...)
	edges = append(edges, accepted("conn-3", "user-2", "user-3", base.Add(5*day))...)
	edges = append(edges, accepted("conn-4", "user-3", "user-4", base.Add(6*day))...)
	edges = append(edges, &models.ConnectionEdge{
		ID: "conn-5", FollowerID: "user-5", FollowingID: "user-1",
		Status: models.StatusPending, Message: str("Loved working with you at the river cleanup!"),
		CreatedAt: base.Add(8 * day),
	})
	for _, e := range edges {
		if err := store.Connections.Insert(ctx, e); err != nil {
			return fmt.Errorf("failed to seed connection %s: %w", e.ID, err)
		}
	}

	posts := []*models.Post{
		{ID: "post-1", AuthorID: "user-2", Content: "Packed 400 meal kits with the Saturday crew. Thank you all!", LikesCount: 12, CommentsCount: 3, CreatedAt: base.Add(9 * day)},
		{ID: "post-2", AuthorID: "user-3", Content: "Tree planting at Forest Park this weekend, we still need 10 volunteers.", ImageURL: str("https://images.example.org/forest-park.jpg"), LikesCount: 8, CreatedAt: base.Add(10 * day)},
		{ID: "post-3", AuthorID: "user-4", Content: "Our mentoring program just matched its 50th student.", LikesCount: 20, CommentsCount: 6, CreatedAt: base.Add(11 * day)},
		{ID: "post-4", AuthorID: "user-1", Content: "Who is joining the shelter drive next month?", CreatedAt: base.Add(12 * day)},
	}
	for _, p := range posts {
		if err := store.Posts.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed post %s: %w", p.ID, err)
		}
	}

	entries := []*models.ImpactEntry{
		{ID: "impact-1", UserID: "user-2", OpportunityTitle: "Weekend Food Drive", OrganizationName: "Northwest Food Bank", Hours: 4, Status: models.ImpactVerified, Date: "2024-03-09"},
		{ID: "impact-2", UserID: "user-3", OpportunityTitle: "River Cleanup", OrganizationName: "Green Rivers Alliance", Hours: 3.5, Status: models.ImpactCompleted, Date: "2024-03-07"},
		{ID: "impact-3", UserID: "user-4", OpportunityTitle: "After-school Tutoring", OrganizationName: "Bay Youth Mentors", Hours: 2, Status: models.ImpactPending, Date: "2024-03-08"},
		{ID: "impact-4", UserID: "user-1", OpportunityTitle: "Shelter Meal Service", OrganizationName: "Hope Shelter", Hours: 5, Status: models.ImpactVerified, Date: "2024-03-11"},
		{ID: "impact-5", UserID: "user-5", OpportunityTitle: "Library Reading Hour", OrganizationName: "Austin Public Library", Hours: 1.5, Status: models.ImpactCompleted, Date: "2024-03-06"},
	}
	for i, e := range entries {
		e.CreatedAt = base.Add(time.Duration(i) * day)
		if err := store.Impact.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to seed impact entry %s: %w", e.ID, err)
		}
	}

	return nil
}
