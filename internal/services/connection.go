package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"volunteer-network-backend/internal/errs"
	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ConnectionService handles the connection graph: requests, accepted
// connections, mutual counts and suggestions.
type ConnectionService struct {
	// mu serializes check-then-write mutations on the graph
	mu          sync.Mutex
	users       repository.UserRepository
	connections repository.ConnectionRepository
	now         func() time.Time
}

// NewConnectionService creates a new connection service
func NewConnectionService(users repository.UserRepository, connections repository.ConnectionRepository) *ConnectionService {
	return &ConnectionService{
		users:       users,
		connections: connections,
		now:         time.Now,
	}
}

// Connection is an accepted connection as seen by one of its endpoints
type Connection struct {
	User              *models.User `json:"user"`
	ConnectedAt       time.Time    `json:"connected_at"`
	MutualConnections int          `json:"mutual_connections"`
}

// ConnectionPage is a page of connections plus the unpaginated total
type ConnectionPage struct {
	Connections []*Connection `json:"connections"`
	Total       int           `json:"total"`
}

// ConnectionRequest is a pending request addressed to a user
type ConnectionRequest struct {
	Requester         *models.User `json:"requester"`
	Message           *string      `json:"message,omitempty"`
	MutualConnections int          `json:"mutual_connections"`
	CreatedAt         time.Time    `json:"created_at"`
}

// Suggestion is a user the requester is not yet connected to
type Suggestion struct {
	User              *models.User `json:"user"`
	MutualConnections int          `json:"mutual_connections"`
	Reason            string       `json:"reason"`
}

// SendResult is returned after a connection request is created
type SendResult struct {
	Success      bool   `json:"success"`
	ConnectionID string `json:"connection_id"`
}

// graph is an in-memory snapshot of all edges for one computation
type graph struct {
	edges map[models.EdgeKey]*models.ConnectionEdge
	order []*models.ConnectionEdge
}

func (s *ConnectionService) snapshot(ctx context.Context) (*graph, error) {
	edges, err := s.connections.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	g := &graph{edges: make(map[models.EdgeKey]*models.ConnectionEdge, len(edges)), order: edges}
	for _, e := range edges {
		g.edges[e.Key()] = e
	}
	return g, nil
}

func (g *graph) accepted(from, to string) bool {
	e, ok := g.edges[models.EdgeKey{FollowerID: from, FollowingID: to}]
	return ok && e.Status == models.StatusAccepted
}

// acceptedFrom returns the targets of userID's outgoing ACCEPTED edges in store order
func (g *graph) acceptedFrom(userID string) []string {
	var ids []string
	for _, e := range g.order {
		if e.FollowerID == userID && e.Status == models.StatusAccepted {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids
}

// connectedSet is the union of ACCEPTED edges touching userID in either direction
func (g *graph) connectedSet(userID string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range g.order {
		if e.Status != models.StatusAccepted {
			continue
		}
		switch userID {
		case e.FollowerID:
			set[e.FollowingID] = struct{}{}
		case e.FollowingID:
			set[e.FollowerID] = struct{}{}
		}
	}
	return set
}

// mutualCount counts userID's other accepted connections that also hold
// an ACCEPTED edge to otherID.
func (g *graph) mutualCount(userID, otherID string) int {
	count := 0
	for _, c := range g.acceptedFrom(userID) {
		if c == otherID {
			continue
		}
		if g.accepted(c, otherID) {
			count++
		}
	}
	return count
}

// GetConnections returns a page of userID's accepted connections, newest first.
// Edges whose target user no longer exists are skipped.
func (s *ConnectionService) GetConnections(ctx context.Context, userID string, limit, offset int) (*ConnectionPage, error) {
	g, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	connections := make([]*Connection, 0)
	for _, e := range g.order {
		if e.FollowerID != userID || e.Status != models.StatusAccepted {
			continue
		}
		target, ok, err := s.lookupUser(ctx, e.FollowingID)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug().Str("user_id", userID).Str("target_id", e.FollowingID).Msg("Skipping connection to missing user")
			continue
		}
		connectedAt := e.CreatedAt
		if e.ConnectedAt != nil {
			connectedAt = *e.ConnectedAt
		}
		connections = append(connections, &Connection{
			User:              target,
			ConnectedAt:       connectedAt,
			MutualConnections: g.mutualCount(userID, target.ID),
		})
	}

	sort.SliceStable(connections, func(i, j int) bool {
		return connections[i].ConnectedAt.After(connections[j].ConnectedAt)
	})

	return &ConnectionPage{
		Connections: paginate(connections, limit, offset),
		Total:       len(connections),
	}, nil
}

// GetConnectionRequests returns the pending requests addressed to userID, newest first
func (s *ConnectionService) GetConnectionRequests(ctx context.Context, userID string) ([]*ConnectionRequest, error) {
	g, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	requests := make([]*ConnectionRequest, 0)
	for _, e := range g.order {
		if e.FollowingID != userID || e.Status != models.StatusPending {
			continue
		}
		requester, ok, err := s.lookupUser(ctx, e.FollowerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		requests = append(requests, &ConnectionRequest{
			Requester:         requester,
			Message:           e.Message,
			MutualConnections: g.mutualCount(requester.ID, userID),
			CreatedAt:         e.CreatedAt,
		})
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests, nil
}

// SendConnectionRequest creates a PENDING edge from fromUserID to toUserID.
// Any existing edge between the two, in either direction, is a conflict:
// a reverse pending request is not auto-accepted.
func (s *ConnectionService) SendConnectionRequest(ctx context.Context, fromUserID, toUserID string, message *string) (*SendResult, error) {
	if fromUserID == toUserID {
		return nil, errs.Invalidf("cannot connect with yourself")
	}

	if _, err := s.users.GetByID(ctx, fromUserID); err != nil {
		return nil, fmt.Errorf("failed to get requester: %w", err)
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.EdgeKey{FollowerID: fromUserID, FollowingID: toUserID}
	for _, k := range []models.EdgeKey{key, key.Reverse()} {
		exists, err := s.edgeExists(ctx, k)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.Conflictf("connection already exists")
		}
	}

	edge := &models.ConnectionEdge{
		ID:          uuid.New().String(),
		FollowerID:  fromUserID,
		FollowingID: toUserID,
		Status:      models.StatusPending,
		Message:     message,
		CreatedAt:   s.now(),
	}
	if err := s.connections.Insert(ctx, edge); err != nil {
		return nil, fmt.Errorf("failed to create connection request: %w", err)
	}

	log.Debug().
		Str("from_user_id", fromUserID).
		Str("to_user_id", toUserID).
		Str("connection_id", edge.ID).
		Msg("Connection request created")

	return &SendResult{Success: true, ConnectionID: edge.ID}, nil
}

// AcceptConnectionRequest accepts requesterID's pending request to userID and
// inserts the reverse ACCEPTED edge so the relationship is symmetric.
func (s *ConnectionService) AcceptConnectionRequest(ctx context.Context, userID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge, err := s.addressedRequest(ctx, userID, requesterID)
	if err != nil {
		return err
	}

	now := s.now()
	edge.Status = models.StatusAccepted
	edge.ConnectedAt = &now
	if err := s.connections.Set(ctx, edge); err != nil {
		return fmt.Errorf("failed to accept connection request: %w", err)
	}

	reverse := &models.ConnectionEdge{
		ID:          uuid.New().String(),
		FollowerID:  userID,
		FollowingID: requesterID,
		Status:      models.StatusAccepted,
		CreatedAt:   now,
		ConnectedAt: &now,
	}
	if err := s.connections.Set(ctx, reverse); err != nil {
		return fmt.Errorf("failed to create reverse connection: %w", err)
	}

	return nil
}

// RejectConnectionRequest deletes requesterID's request to userID.
// No rejection is recorded, so the requester may send a new request.
func (s *ConnectionService) RejectConnectionRequest(ctx context.Context, userID, requesterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge, err := s.addressedRequest(ctx, userID, requesterID)
	if err != nil {
		return err
	}

	if err := s.connections.Delete(ctx, edge.Key()); err != nil {
		return fmt.Errorf("failed to reject connection request: %w", err)
	}
	return nil
}

// RemoveConnection deletes both directions between userID and otherUserID.
// Removing a connection that does not exist is not an error.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, otherUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.EdgeKey{FollowerID: userID, FollowingID: otherUserID}
	for _, k := range []models.EdgeKey{key, key.Reverse()} {
		if err := s.connections.Delete(ctx, k); err != nil {
			return fmt.Errorf("failed to remove connection: %w", err)
		}
	}
	return nil
}

// GetSuggestions returns up to limit users not connected to userID, in store
// order. Results are not ranked by mutual count.
func (s *ConnectionService) GetSuggestions(ctx context.Context, userID string, limit int) ([]*Suggestion, error) {
	g, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	connected := g.connectedSet(userID)
	suggestions := make([]*Suggestion, 0)
	for _, u := range users {
		if len(suggestions) >= limit {
			break
		}
		if u.ID == userID {
			continue
		}
		if _, ok := connected[u.ID]; ok {
			continue
		}
		mutual := g.mutualCount(userID, u.ID)
		suggestions = append(suggestions, &Suggestion{
			User:              u,
			MutualConnections: mutual,
			Reason:            suggestionReason(mutual),
		})
	}

	return suggestions, nil
}

// PendingRequestCount returns how many requests await userID's answer
func (s *ConnectionService) PendingRequestCount(ctx context.Context, userID string) (int, error) {
	edges, err := s.connections.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list connections: %w", err)
	}
	count := 0
	for _, e := range edges {
		if e.FollowingID == userID && e.Status == models.StatusPending {
			count++
		}
	}
	return count, nil
}

// Profile is the caller's own user record with graph counters
type Profile struct {
	User            *models.User `json:"user"`
	Connections     int          `json:"connections"`
	PendingRequests int          `json:"pending_requests"`
}

// GetProfile returns userID's record with its connection and pending request counts
func (s *ConnectionService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, errs.NotFoundf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	g, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.PendingRequestCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:            user,
		Connections:     len(g.acceptedFrom(userID)),
		PendingRequests: pending,
	}, nil
}

func suggestionReason(mutual int) string {
	switch mutual {
	case 0:
		return "Suggested for you"
	case 1:
		return "1 mutual connection"
	default:
		return fmt.Sprintf("%d mutual connections", mutual)
	}
}

// addressedRequest loads the pending edge requesterID -> userID and checks
// that it is addressed to userID.
func (s *ConnectionService) addressedRequest(ctx context.Context, userID, requesterID string) (*models.ConnectionEdge, error) {
	edge, err := s.connections.Get(ctx, models.EdgeKey{FollowerID: requesterID, FollowingID: userID})
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, errs.NotFoundf("connection request not found")
		}
		return nil, fmt.Errorf("failed to get connection request: %w", err)
	}
	if edge.FollowingID != userID {
		return nil, errs.Forbiddenf("not authorized to respond to this request")
	}
	// an accepted edge is a connection, not a request
	if edge.Status != models.StatusPending {
		return nil, errs.NotFoundf("connection request not found")
	}
	return edge, nil
}

func (s *ConnectionService) edgeExists(ctx context.Context, key models.EdgeKey) (bool, error) {
	_, err := s.connections.Get(ctx, key)
	if err == nil {
		return true, nil
	}
	if errs.Is(err, errs.NotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check connection: %w", err)
}

// lookupUser resolves a user, reporting a missing record as ok=false
func (s *ConnectionService) lookupUser(ctx context.Context, id string) (*models.User, bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errs.Is(err, errs.NotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	return user, true, nil
}

// paginate returns items[offset:offset+limit], clamped to the slice
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return make([]T, 0)
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end:end]
}
