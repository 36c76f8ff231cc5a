package models

import "time"

// User represents a volunteer in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Headline  *string   `json:"headline,omitempty"`
	Location  *string   `json:"location,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	PushToken *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionStatus is the lifecycle state of a connection edge
type ConnectionStatus string

const (
	StatusPending  ConnectionStatus = "PENDING"
	StatusAccepted ConnectionStatus = "ACCEPTED"
)

// EdgeKey identifies a directed edge by its ordered pair of user ids
type EdgeKey struct {
	FollowerID  string
	FollowingID string
}

// Reverse returns the key of the opposite direction
func (k EdgeKey) Reverse() EdgeKey {
	return EdgeKey{FollowerID: k.FollowingID, FollowingID: k.FollowerID}
}

// ConnectionEdge is a directed relationship between two users.
// An accepted connection is stored as two ACCEPTED edges, one per direction.
type ConnectionEdge struct {
	ID          string           `json:"id"`
	FollowerID  string           `json:"follower_id"`
	FollowingID string           `json:"following_id"`
	Status      ConnectionStatus `json:"status"`
	Message     *string          `json:"message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ConnectedAt *time.Time       `json:"connected_at,omitempty"`
}

// Key returns the edge's ordered pair key
func (e *ConnectionEdge) Key() EdgeKey {
	return EdgeKey{FollowerID: e.FollowerID, FollowingID: e.FollowingID}
}

// Post represents a user-authored feed entry
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Content       string    `json:"content"`
	ImageURL      *string   `json:"image_url,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ImpactStatus is the verification state of logged volunteer hours
type ImpactStatus string

const (
	ImpactPending   ImpactStatus = "PENDING"
	ImpactCompleted ImpactStatus = "COMPLETED"
	ImpactVerified  ImpactStatus = "VERIFIED"
	ImpactRejected  ImpactStatus = "REJECTED"
)

// ImpactEntry is a record of volunteer hours logged by the hours tracker.
// Date is kept as supplied by the tracker and may not parse.
type ImpactEntry struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	OpportunityTitle string       `json:"opportunity_title"`
	OrganizationName string       `json:"organization_name"`
	Hours            float64      `json:"hours"`
	Status           ImpactStatus `json:"status"`
	Date             string       `json:"date"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Counts as completed work in the feed
func (e *ImpactEntry) Completed() bool {
	return e.Status == ImpactCompleted || e.Status == ImpactVerified
}
