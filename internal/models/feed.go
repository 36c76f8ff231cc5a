package models

import "time"

// FeedItemType discriminates feed items
type FeedItemType string

const (
	FeedPost       FeedItemType = "post"
	FeedActivity   FeedItemType = "volunteer_activity"
	FeedConnection FeedItemType = "connection"
)

// FeedFilter scopes the feed by relationship
type FeedFilter string

const (
	FilterAll         FeedFilter = "all"
	FilterConnections FeedFilter = "connections"
	FilterFollowing   FeedFilter = "following"
)

// Valid reports whether f is a known filter
func (f FeedFilter) Valid() bool {
	switch f {
	case FilterAll, FilterConnections, FilterFollowing:
		return true
	}
	return false
}

// FeedBase holds the fields every feed item carries
type FeedBase struct {
	ID            string       `json:"id"`
	Type          FeedItemType `json:"type"`
	Author        *User        `json:"author"`
	Content       string       `json:"content"`
	CreatedAt     time.Time    `json:"created_at"`
	LikesCount    int          `json:"likes_count"`
	CommentsCount int          `json:"comments_count"`
}

// FeedItem is implemented only by PostItem, ActivityItem and ConnectionItem.
type FeedItem interface {
	Base() *FeedBase
	feedItem()
}

// PostItem is a feed entry for an authored post
type PostItem struct {
	FeedBase
	ImageURL *string `json:"image_url,omitempty"`
}

// ActivityItem is a feed entry synthesized from completed volunteer hours
type ActivityItem struct {
	FeedBase
	Hours            float64      `json:"hours"`
	OpportunityTitle string       `json:"opportunity_title"`
	OrganizationName string       `json:"organization_name"`
	Status           ImpactStatus `json:"status"`
}

// ConnectionItem is a feed entry for a new connection
type ConnectionItem struct {
	FeedBase
	ConnectedUser *User `json:"connected_user"`
}

func (i *PostItem) Base() *FeedBase       { return &i.FeedBase }
func (i *ActivityItem) Base() *FeedBase   { return &i.FeedBase }
func (i *ConnectionItem) Base() *FeedBase { return &i.FeedBase }

func (*PostItem) feedItem()       {}
func (*ActivityItem) feedItem()   {}
func (*ConnectionItem) feedItem() {}
