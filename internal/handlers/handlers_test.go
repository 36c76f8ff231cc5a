package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/models"
	"volunteer-network-backend/internal/repository"
	"volunteer-network-backend/internal/services"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPresigner struct{}

func (stubPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://uploads.example.org/" + *params.Key, Method: http.MethodPut}, nil
}

type testServer struct {
	handler http.Handler
	store   *repository.Store
}

func newTestServer(t *testing.T, withMedia bool, userIDs ...string) *testServer {
	t.Helper()
	ctx := context.Background()

	store := repository.NewMemoryStore()
	for _, id := range userIDs {
		require.NoError(t, store.Users.Create(ctx, &models.User{
			ID: id, Name: "Name " + id, Username: id, CreatedAt: time.Now(),
		}))
	}

	connectionService := services.NewConnectionService(store.Users, store.Connections)
	feedService := services.NewFeedService(store, services.DefaultFeedOptions())
	identityService := services.NewIdentityService("test-secret")
	hub := services.NewWSHub()
	notifier := services.NewNotifier(hub, nil, nil, store.Users)

	var media *services.MediaService
	if withMedia {
		media = services.NewMediaServiceWithPresigner(stubPresigner{}, "bucket", "https://cdn.example.org")
	}

	rt := &Router{
		Connections:         NewConnectionHandler(connectionService, notifier),
		Feed:                NewFeedHandler(feedService, media, notifier),
		Users:               NewUserHandler(connectionService),
		WebSocket:           NewWebSocketHandler(hub, identityService, connectionService, true),
		Identity:            identityService,
		AllowHeaderIdentity: true,
	}

	return &testServer{handler: rt.Handler(), store: store}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestAPI_RequiresIdentity(t *testing.T) {
	s := newTestServer(t, false, "a")
	rec := s.do(t, http.MethodGet, "/api/v1/connections", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnectionFlow(t *testing.T) {
	s := newTestServer(t, false, "a", "b", "c")

	rec := s.do(t, http.MethodPost, "/api/v1/connections/requests", "a", SendRequestBody{ToUserID: "b"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode(t, rec)
	assert.Equal(t, true, sent["success"])
	assert.NotEmpty(t, sent["connection_id"])

	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests", "a", SendRequestBody{ToUserID: "b"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests", "b", SendRequestBody{ToUserID: "a"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/connections/requests", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	requests := decode(t, rec)["requests"].([]interface{})
	require.Len(t, requests, 1)
	requester := requests[0].(map[string]interface{})["requester"].(map[string]interface{})
	assert.Equal(t, "a", requester["id"])

	rec = s.do(t, http.MethodGet, "/api/v1/me", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["pending_requests"])

	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests/a/accept", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, id := range []string{"a", "b"} {
		rec = s.do(t, http.MethodGet, "/api/v1/connections", id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), decode(t, rec)["total"])
	}

	rec = s.do(t, http.MethodGet, "/api/v1/connections/suggestions", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decode(t, rec)["suggestions"].([]interface{})
	require.Len(t, suggestions, 1)
	suggestion := suggestions[0].(map[string]interface{})
	assert.Equal(t, "c", suggestion["user"].(map[string]interface{})["id"])
	assert.Equal(t, "Suggested for you", suggestion["reason"])

	rec = s.do(t, http.MethodDelete, "/api/v1/connections/b", "a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/connections", "b", nil)
	assert.Equal(t, float64(0), decode(t, rec)["total"])
}

func TestConnectionErrors(t *testing.T) {
	s := newTestServer(t, false, "a", "b")

	rec := s.do(t, http.MethodPost, "/api/v1/connections/requests/b/accept", "a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "connection request not found", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests/b/reject", "a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests", "a", SendRequestBody{ToUserID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/connections/requests", "a", SendRequestBody{ToUserID: "a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t, false, "a", "b")
	long := strings.Repeat("x", 501)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"zero limit", http.MethodGet, "/api/v1/connections?limit=0", nil},
		{"limit too large", http.MethodGet, "/api/v1/feed?limit=101", nil},
		{"negative offset", http.MethodGet, "/api/v1/connections?offset=-1", nil},
		{"non-numeric limit", http.MethodGet, "/api/v1/connections/suggestions?limit=ten", nil},
		{"unknown filter", http.MethodGet, "/api/v1/feed?filter=friends", nil},
		{"missing recipient", http.MethodPost, "/api/v1/connections/requests", SendRequestBody{}},
		{"long message", http.MethodPost, "/api/v1/connections/requests", SendRequestBody{ToUserID: "b", Message: &long}},
		{"malformed body", http.MethodPost, "/api/v1/posts", "{"},
		{"empty post", http.MethodPost, "/api/v1/posts", CreatePostRequest{}},
		{"oversized post", http.MethodPost, "/api/v1/posts", CreatePostRequest{Content: strings.Repeat("y", 5001)}},
		{"empty comment", http.MethodPost, "/api/v1/posts/p1/comments", CommentRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, "a", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestPostsAndFeed(t *testing.T) {
	s := newTestServer(t, false, "a", "b")

	rec := s.do(t, http.MethodPost, "/api/v1/posts", "a", CreatePostRequest{Content: "Beach cleanup Saturday"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postID := decode(t, rec)["id"].(string)

	rec = s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/like", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["likes_count"])

	rec = s.do(t, http.MethodPost, "/api/v1/posts/"+postID+"/comments", "b", CommentRequest{Content: "I'm in"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["comments_count"])

	rec = s.do(t, http.MethodPost, "/api/v1/posts/missing/like", "b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/feed", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, postID, item["id"])
	assert.Equal(t, "post", item["type"])
	assert.Equal(t, "a", item["author"].(map[string]interface{})["id"])
	assert.Equal(t, float64(1), item["likes_count"])

	rec = s.do(t, http.MethodGet, "/api/v1/feed?filter=connections", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["items"])

	rec = s.do(t, http.MethodGet, "/api/v1/feed?filter=following", "b", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["items"])
}

func TestImageUploadURL(t *testing.T) {
	s := newTestServer(t, true, "a")

	rec := s.do(t, http.MethodPost, "/api/v1/posts/images", "a", ImageUploadRequest{ContentType: "image/webp"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.True(t, strings.HasPrefix(body["image_url"].(string), "https://cdn.example.org/posts/a/"))
	assert.True(t, strings.HasSuffix(body["upload_url"].(string), ".webp"))

	rec = s.do(t, http.MethodPost, "/api/v1/posts/images", "a", ImageUploadRequest{ContentType: "text/html"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	disabled := newTestServer(t, false, "a")
	rec = disabled.do(t, http.MethodPost, "/api/v1/posts/images", "a", ImageUploadRequest{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
