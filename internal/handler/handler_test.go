package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/metrics"
	"messenger/internal/repository"
	"messenger/internal/service"
	"messenger/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens map[string]string
}

type pageBody struct {
	Chats              []domain.PersonalChat `json:"chats"`
	NextLastSeenID     *int64                `json:"next_last_seen_id"`
	LatestReceivedChat *domain.PersonalChat  `json:"latest_received_chat"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			AccessSecret: "handler-test-secret-key",
			AccessTTL:    time.Hour,
			Issuer:       "messenger",
		},
		Members:   config.MembersConfig{AdminIDs: []string{"root"}},
		Chat:      config.ChatConfig{DefaultPageSize: 3, MaxPageSize: 100, MaxContentLength: 4096},
		RateLimit: config.RateLimitConfig{Limit: 100, Window: time.Minute},
	}
	log := logger.Nop()
	collector := metrics.NewCollector()

	repos := repository.NewMemoryRepositories(nil, log)
	services := service.NewServices(repos, cfg, collector, log)
	handlers := NewHandlers(services, nil, nil, log)

	return &testServer{
		t:      t,
		router: SetupRouter(handlers, services, collector, cfg, log),
		tokens: map[string]string{},
	}
}

func (s *testServer) do(method, path, member string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := s.tokens[member]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) signUpAndLogin(ids ...string) {
	s.t.Helper()

	for _, id := range ids {
		rec := s.do(http.MethodPost, "/api/v1/members", "", gin.H{"id": id, "password": "password1", "name": id})
		require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPost, "/api/v1/members/login", "", gin.H{"id": id, "password": "password1"})
		require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

		var resp service.LoginResponse
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
		s.tokens[id] = resp.AccessToken
	}
}

func (s *testServer) page(path, member string) pageBody {
	s.t.Helper()

	rec := s.do(http.MethodGet, path, member, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var body pageBody
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *testServer) send(from, to, content string) domain.PersonalChat {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/chat", from, gin.H{"receiver_id": to, "content": content})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var chat domain.PersonalChat
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &chat))
	return chat
}

func ids(chats []domain.PersonalChat) []int64 {
	out := make([]int64, 0, len(chats))
	for _, c := range chats {
		out = append(out, c.ID)
	}
	return out
}

func TestChatRoutes_Conversation(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin("alice", "bob")

	hi := s.send("alice", "bob", "hi")
	hey := s.send("bob", "alice", "hey")
	assert.Equal(t, "alice", hi.SenderID)
	assert.False(t, hi.IsRead)

	received := s.page("/api/v1/chat/received", "bob")
	assert.Equal(t, []int64{hi.ID}, ids(received.Chats))

	sent := s.page("/api/v1/chat/sent", "bob")
	assert.Equal(t, []int64{hey.ID}, ids(sent.Chats))

	group := s.page("/api/v1/chat/personal_chat/bob", "alice")
	assert.Equal(t, []int64{hey.ID, hi.ID}, ids(group.Chats))
	require.NotNil(t, group.NextLastSeenID)
	assert.Equal(t, hi.ID, *group.NextLastSeenID)

	entered := s.page("/api/v1/chat/personal_chat/alice/enter", "bob")
	require.NotNil(t, entered.LatestReceivedChat)
	assert.Equal(t, hi.ID, entered.LatestReceivedChat.ID)
	assert.True(t, entered.LatestReceivedChat.IsRead)
	require.Len(t, entered.Chats, 2)
	assert.True(t, entered.Chats[1].IsRead)
	assert.False(t, entered.Chats[0].IsRead)
}

func TestChatRoutes_Pagination(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin("alice", "bob")

	for i := 0; i < 5; i++ {
		s.send("alice", "bob", "msg")
	}

	first := s.page("/api/v1/chat/sent", "alice")
	assert.Equal(t, []int64{5, 4, 3}, ids(first.Chats))
	require.NotNil(t, first.NextLastSeenID)

	second := s.page("/api/v1/chat/sent?last_seen_id=3", "alice")
	assert.Equal(t, []int64{2, 1}, ids(second.Chats))

	empty := s.page("/api/v1/chat/sent?last_seen_id=1", "alice")
	assert.Empty(t, empty.Chats)
	assert.Nil(t, empty.NextLastSeenID)

	clamped := s.page("/api/v1/chat/sent?page_size=0", "alice")
	assert.Equal(t, []int64{5}, ids(clamped.Chats))

	rec := s.do(http.MethodGet, "/api/v1/chat/sent?page_size=abc", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRoutes_DeleteAndAdmin(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin("alice", "bob", "root")

	hi := s.send("alice", "bob", "hi")

	rec := s.do(http.MethodDelete, "/api/v1/chat/1", "bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/chat/1", "alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/chat/x", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, s.page("/api/v1/chat/received", "bob").Chats)

	rec = s.do(http.MethodGet, "/api/v1/chat", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	all := s.page("/api/v1/chat", "root")
	require.Len(t, all.Chats, 1)
	assert.Equal(t, hi.ID, all.Chats[0].ID)
	assert.True(t, all.Chats[0].IsDeleted)
}

func TestChatRoutes_Errors(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin("alice")

	rec := s.do(http.MethodGet, "/api/v1/chat/sent", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/chat", "alice", gin.H{"receiver_id": "ghost", "content": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/chat", "alice", gin.H{"receiver_id": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberRoutes(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin("alice", "bob")

	rec := s.do(http.MethodPost, "/api/v1/members", "", gin.H{"id": "alice", "password": "password1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/members/login", "", gin.H{"id": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/members/bob", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodGet, "/api/v1/members/name/alice", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"alice"`)

	rec = s.do(http.MethodGet, "/api/v1/members?limit=1", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Members []domain.Member `json:"members"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Members, 1)

	rec = s.do(http.MethodPut, "/api/v1/members/alice", "alice", gin.H{"status_message": "busy"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status_message":"busy"`)

	rec = s.do(http.MethodPut, "/api/v1/members/bob", "alice", gin.H{"status_message": "hacked"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/members/logout", "alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/members/bob", "alice", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"memory"`)

	s.signUpAndLogin("alice")
	s.send("alice", "alice", "note to self")

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `messenger_chat_operations_total{operation="send",result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "messenger_http_requests_total")
}
