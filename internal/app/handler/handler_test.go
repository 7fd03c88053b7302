package handler

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelblog/internal/app/annotate"
	"travelblog/internal/app/feed"
	"travelblog/internal/app/model"
	"travelblog/internal/app/repository"
)

type stubAnalyzer struct {
	annotation annotate.Annotation
}

func (s *stubAnalyzer) Analyze(context.Context, string) (*annotate.Annotation, error) {
	out := s.annotation
	return &out, nil
}

func setupServer(t *testing.T) (*echo.Echo, *repository.Repository) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(model.All()...))

	repo := repository.New(gdb)
	engine := feed.NewEngine(repo)
	composer := feed.NewComposer(repo, engine, rand.New(rand.NewSource(1)))
	ingestor := annotate.NewIngestor(repo, &stubAnalyzer{annotation: annotate.Annotation{
		Entities: []annotate.Entity{{
			Name: "Kyoto", Type: "LOCATION",
			Mentions:  []annotate.Mention{{Type: "PROPER"}},
			Sentiment: annotate.Sentiment{Score: 0.6, Magnitude: 0.9},
		}},
		Categories: []annotate.Category{{Name: "/Travel/Destinations"}},
	}})

	e := echo.New()
	New(repo, composer, ingestor, 7).Register(e)
	return e, repo
}

func do(e *echo.Echo, method, target, viewer string, body any) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = strings.NewReader(string(encoded))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if viewer != "" {
		req.Header.Set("X-Viewer", viewer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginAndDuplicate(t *testing.T) {
	e, _ := setupServer(t)

	rec := do(e, http.MethodPost, "/register", "", map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/register", "", map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPost, "/register", "", map[string]any{"username": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/login", "", map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/login", "", map[string]any{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePostAnnotatesAndLikeFlow(t *testing.T) {
	e, repo := setupServer(t)

	alice := &model.Profile{Username: "alice"}
	require.NoError(t, repo.CreateProfile(alice))
	bob := &model.Profile{Username: "bob"}
	require.NoError(t, repo.CreateProfile(bob))

	rec := do(e, http.MethodPost, "/posts", "1", map[string]any{
		"title": "A week in Kyoto", "content": "<p>Kyoto was stunning.</p>", "publish": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsPublished)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "Destinations", created.Tags[0].Name)

	// missing required field is rejected with no partial write
	rec = do(e, http.MethodPost, "/posts", "1", map[string]any{"title": "no content"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// anonymous writes are rejected
	rec = do(e, http.MethodPost, "/posts", "", map[string]any{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/posts/1/like", "2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodPost, "/posts/1/like", "2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "duplicate like is a no-op")

	post, err := repo.PostByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.TotalLikes)

	// only the author can delete
	rec = do(e, http.MethodDelete, "/posts/1", "2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(e, http.MethodDelete, "/posts/1", "1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProfileBundlePrivacyOverHTTP(t *testing.T) {
	e, repo := setupServer(t)

	alice := &model.Profile{Username: "alice"}
	require.NoError(t, repo.CreateProfile(alice))
	bob := &model.Profile{Username: "bob"}
	require.NoError(t, repo.CreateProfile(bob))
	require.NoError(t, repo.FollowUser(alice.ID, bob.ID))
	require.NoError(t, repo.CreatePost(&model.Post{AuthorID: bob.ID, Title: "t", Content: "c", IsPublished: true}))

	rec := do(e, http.MethodGet, "/users/alice", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own feed.ProfileBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own))
	assert.Len(t, own.Newsfeed, 1)

	rec = do(e, http.MethodGet, "/users/alice", "2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var other feed.ProfileBundle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))
	assert.Empty(t, other.Newsfeed)

	rec = do(e, http.MethodGet, "/users/ghost", "1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowEndpointsIdempotent(t *testing.T) {
	e, repo := setupServer(t)

	alice := &model.Profile{Username: "alice"}
	require.NoError(t, repo.CreateProfile(alice))
	bob := &model.Profile{Username: "bob"}
	require.NoError(t, repo.CreateProfile(bob))

	for i := 0; i < 2; i++ {
		rec := do(e, http.MethodPost, "/users/bob/follow", "1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	ids, err := repo.FollowedUserIDs(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids)

	rec := do(e, http.MethodPost, "/users/bob/unfollow", "1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodPost, "/users/bob/unfollow", "1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "unfollow without an edge is a no-op")
}
