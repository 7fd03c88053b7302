package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"travelblog/internal/app/model"
)

// The feed composer consumes these query shapes. Every per-kind listing is
// ordered (created_at DESC, id DESC) so the merge engine can treat each as
// a pre-sorted source.

// PostsByAuthors lists posts authored by any of authorIDs, newest first.
func (r *Repository) PostsByAuthors(authorIDs []uint) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var posts []model.Post
	err := r.db.Where("author_id IN ?", authorIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// LikesByProfiles lists likes given by any of profileIDs, newest first.
func (r *Repository) LikesByProfiles(profileIDs []uint) ([]model.PostLike, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	var likes []model.PostLike
	err := r.db.Where("profile_id IN ?", profileIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&likes).Error
	return likes, err
}

// CommentsByProfiles lists comments made by any of profileIDs, newest first.
func (r *Repository) CommentsByProfiles(profileIDs []uint) ([]model.Comment, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := r.db.Where("profile_id IN ?", profileIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// HighlightPost returns the single most promotable published post:
// newest first, then most liked, most commented, most shared. Nil when no
// post is published.
func (r *Repository) HighlightPost() (*model.Post, error) {
	var post model.Post
	err := r.db.Where("is_published = ?", true).
		Order("created_at DESC, total_likes DESC, total_comments DESC, total_shares DESC, id DESC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RecommendedCandidateIDs collects profiles that are followed by someone
// the subject follows, or that follow a location the subject follows.
// The subject and the viewer are excluded. Result is deduplicated and
// id-ordered; the composer draws the random sample.
func (r *Repository) RecommendedCandidateIDs(subjectID, viewerID uint) ([]uint, error) {
	followees, err := r.FollowedUserIDs(subjectID)
	if err != nil {
		return nil, err
	}
	locationIDs, err := r.FollowedLocationIDs(subjectID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{})
	var candidates []uint
	add := func(ids []uint) {
		for _, id := range ids {
			if id == subjectID || id == viewerID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}

	if len(followees) > 0 {
		var ids []uint
		err := r.db.Model(&model.Follow{}).
			Where("follower_id IN ?", followees).
			Order("followee_id").
			Pluck("followee_id", &ids).Error
		if err != nil {
			return nil, err
		}
		add(ids)
	}
	if len(locationIDs) > 0 {
		var ids []uint
		err := r.db.Model(&model.LocationFollow{}).
			Where("location_id IN ?", locationIDs).
			Order("profile_id").
			Pluck("profile_id", &ids).Error
		if err != nil {
			return nil, err
		}
		add(ids)
	}
	return candidates, nil
}

// LocationUpdate is one digest row: how many reviews a followed location
// gained on published posts since the reference timestamp.
type LocationUpdate struct {
	LocationID uint   `json:"location_id"`
	Name       string `json:"name"`
	NewReviews int64  `json:"new_reviews"`
}

// LocationUpdateCounts groups new reviews by location, ascending by count.
func (r *Repository) LocationUpdateCounts(locationIDs []uint, since time.Time) ([]LocationUpdate, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	var updates []LocationUpdate
	err := r.db.Model(&model.LocationReview{}).
		Select("location_reviews.location_id AS location_id, locations.name AS name, COUNT(*) AS new_reviews").
		Joins("JOIN posts ON posts.id = location_reviews.post_id").
		Joins("JOIN locations ON locations.id = location_reviews.location_id").
		Where("location_reviews.location_id IN ?", locationIDs).
		Where("posts.is_published = ?", true).
		Where("posts.created_at > ?", since).
		Group("location_reviews.location_id, locations.name").
		Order("new_reviews ASC, location_id ASC").
		Scan(&updates).Error
	return updates, err
}

// TrendingLocation is a location ranked by distinct likes on its reviewed
// published posts within the trailing window, with the all-time average
// sentiment across its reviews.
type TrendingLocation struct {
	LocationID       uint    `json:"location_id"`
	Name             string  `json:"name"`
	LikeCount        int64   `json:"like_count"`
	AverageSentiment float64 `json:"average_sentiment"`
}

func (r *Repository) TrendingLocations(since time.Time, limit int) ([]TrendingLocation, error) {
	var trending []TrendingLocation
	err := r.db.Model(&model.Location{}).
		Select("locations.id AS location_id, locations.name AS name, " +
			"COUNT(DISTINCT post_likes.id) AS like_count, " +
			"(SELECT AVG(lr.sentiment) FROM location_reviews lr WHERE lr.location_id = locations.id) AS average_sentiment").
		Joins("JOIN location_reviews ON location_reviews.location_id = locations.id").
		Joins("JOIN posts ON posts.id = location_reviews.post_id AND posts.is_published = ?", true).
		Joins("JOIN post_likes ON post_likes.post_id = posts.id").
		Where("post_likes.created_at >= ?", since).
		Group("locations.id, locations.name").
		Order("like_count DESC, location_id ASC").
		Limit(limit).
		Scan(&trending).Error
	return trending, err
}

// Explore queries, no-query branch.

// ProfilesByPublishedPostCount ranks profiles by how many published posts
// they authored, descending.
func (r *Repository) ProfilesByPublishedPostCount() ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.Model(&model.Profile{}).
		Select("profiles.*, COUNT(posts.id) AS posts_count").
		Joins("LEFT JOIN posts ON posts.author_id = profiles.id AND posts.is_published = ?", true).
		Group("profiles.id").
		Order("posts_count DESC, profiles.id ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *Repository) LocationsByName() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *Repository) TagsByName() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// PublishedPostsByLikes ranks published posts by like count, descending.
func (r *Repository) PublishedPostsByLikes() ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("is_published = ?", true).
		Order("total_likes DESC, id ASC").
		Find(&posts).Error
	return posts, err
}

// LocationByID returns the location or ErrNotFound.
func (r *Repository) LocationByID(id uint) (*model.Location, error) {
	var location model.Location
	if err := r.db.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &location, nil
}

// ReviewsForLocation lists reviews of a location on published posts.
func (r *Repository) ReviewsForLocation(locationID uint) ([]model.LocationReview, error) {
	var reviews []model.LocationReview
	err := r.db.Model(&model.LocationReview{}).
		Joins("JOIN posts ON posts.id = location_reviews.post_id").
		Where("location_reviews.location_id = ?", locationID).
		Where("posts.is_published = ?", true).
		Order("location_reviews.id ASC").
		Find(&reviews).Error
	return reviews, err
}

// TagByID returns the tag or ErrNotFound.
func (r *Repository) TagByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tag %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &tag, nil
}

// PublishedPostsForTag lists published posts carrying the tag.
func (r *Repository) PublishedPostsForTag(tagID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Model(&model.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID).
		Where("posts.is_published = ?", true).
		Order("posts.created_at DESC").Order("posts.id DESC").
		Find(&posts).Error
	return posts, err
}
