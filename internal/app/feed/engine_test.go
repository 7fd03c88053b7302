package feed

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelblog/internal/app/model"
	"travelblog/internal/app/repository"
)

func setupTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(model.All()...))
	return repository.New(gdb)
}

func createProfile(t *testing.T, r *repository.Repository, username string) *model.Profile {
	t.Helper()
	profile := &model.Profile{Username: username}
	require.NoError(t, r.CreateProfile(profile))
	return profile
}

func createPost(t *testing.T, r *repository.Repository, authorID uint, title string, published bool, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "content of " + title,
		IsPublished: published,
		CreatedAt:   createdAt,
	}
	require.NoError(t, r.CreatePost(post))
	return post
}

func TestActivitiesForMergesAllKindsNewestFirst(t *testing.T) {
	r := setupTestRepo(t)
	engine := NewEngine(r)

	alice := createProfile(t, r, "alice")
	bob := createProfile(t, r, "bob")

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// alice authors two posts, likes one of bob's, comments on another
	createPost(t, r, alice.ID, "first", true, base)
	createPost(t, r, alice.ID, "second", true, base.Add(3*time.Minute))
	target := createPost(t, r, bob.ID, "bobs", true, base.Add(time.Minute))
	other := createPost(t, r, bob.ID, "bobs other", true, base.Add(2*time.Minute))
	require.NoError(t, r.LikePost(alice.ID, target.ID))
	_, err := r.CommentPost(alice.ID, other.ID, "nice one")
	require.NoError(t, err)

	activities, err := engine.ActivitiesFor(alice.ID)
	require.NoError(t, err)
	require.Len(t, activities, 4, "two posts + one like + one comment")

	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i-1].CreatedAt.Before(activities[i].CreatedAt),
			"records must be in reverse-chronological order")
	}
}

func TestActivitiesLikerAndCommenterOnSamePost(t *testing.T) {
	r := setupTestRepo(t)
	engine := NewEngine(r)

	alice := createProfile(t, r, "alice")
	bob := createProfile(t, r, "bob")
	post := createPost(t, r, bob.ID, "both", true, time.Now())

	require.NoError(t, r.LikePost(alice.ID, post.ID))
	_, err := r.CommentPost(alice.ID, post.ID, "and commented")
	require.NoError(t, err)

	activities, err := engine.ActivitiesFor(alice.ID)
	require.NoError(t, err)
	assert.Len(t, activities, 2, "like and comment on the same post stay distinct records")
}

func TestNewsfeedForEmptySet(t *testing.T) {
	r := setupTestRepo(t)
	engine := NewEngine(r)

	records, err := engine.NewsfeedFor(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestNewsfeedForUnionOfActors(t *testing.T) {
	r := setupTestRepo(t)
	engine := NewEngine(r)

	alice := createProfile(t, r, "alice")
	bob := createProfile(t, r, "bob")
	carol := createProfile(t, r, "carol")

	base := time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC)
	createPost(t, r, alice.ID, "from alice", true, base.Add(time.Minute))
	post := createPost(t, r, bob.ID, "from bob", true, base)
	require.NoError(t, r.LikePost(carol.ID, post.ID))

	records, err := engine.NewsfeedFor([]uint{alice.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestMergeDescEqualTimestampsStable(t *testing.T) {
	ts := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	posts := []ActivityRecord{
		{Kind: KindPost, CreatedAt: ts, Post: &model.Post{ID: 2}},
		{Kind: KindPost, CreatedAt: ts, Post: &model.Post{ID: 1}},
	}
	likes := []ActivityRecord{
		{Kind: KindLike, CreatedAt: ts, Like: &model.PostLike{ID: 3}},
	}

	merged := mergeDesc(posts, likes)
	require.Len(t, merged, 3)
	// equal timestamps: higher record id first
	assert.Equal(t, uint(3), merged[0].recordID())
	assert.Equal(t, uint(2), merged[1].recordID())
	assert.Equal(t, uint(1), merged[2].recordID())
}

func TestMergeDescMatchesFullSort(t *testing.T) {
	base := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)

	var posts, likes, comments []ActivityRecord
	for i := 5; i >= 1; i-- {
		posts = append(posts, ActivityRecord{
			Kind: KindPost, CreatedAt: base.Add(time.Duration(i*3) * time.Minute),
			Post: &model.Post{ID: uint(i)},
		})
		likes = append(likes, ActivityRecord{
			Kind: KindLike, CreatedAt: base.Add(time.Duration(i*3+1) * time.Minute),
			Like: &model.PostLike{ID: uint(i)},
		})
		comments = append(comments, ActivityRecord{
			Kind: KindComment, CreatedAt: base.Add(time.Duration(i*3+2) * time.Minute),
			Comment: &model.Comment{ID: uint(i)},
		})
	}

	merged := mergeDesc(posts, likes, comments)
	require.Len(t, merged, 15)
	for i := 1; i < len(merged); i++ {
		assert.True(t, merged[i-1].CreatedAt.After(merged[i].CreatedAt))
	}
}
