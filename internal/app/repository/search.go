package repository

import (
	"strings"

	"gorm.io/gorm"

	"travelblog/internal/app/model"
)

// Candidate fetches for explore search. Each returns every row matching at
// least one term (case-insensitive substring); relevance ranking happens
// in the feed composer.

func (r *Repository) SearchProfiles(terms []string) ([]model.Profile, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	q := r.db.Model(&model.Profile{})
	q = q.Where(termConditions(r.db, terms, "username", "first_name", "last_name"))
	var profiles []model.Profile
	err := q.Order("id ASC").Find(&profiles).Error
	return profiles, err
}

func (r *Repository) SearchLocations(terms []string) ([]model.Location, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	var locations []model.Location
	err := r.db.Where(termConditions(r.db, terms, "name")).
		Order("id ASC").Find(&locations).Error
	return locations, err
}

func (r *Repository) SearchTags(terms []string) ([]model.Tag, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	err := r.db.Where(termConditions(r.db, terms, "name")).
		Order("id ASC").Find(&tags).Error
	return tags, err
}

// SearchPublishedPosts matches title, content and author name fields.
func (r *Repository) SearchPublishedPosts(terms []string) ([]model.Post, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	cond := termConditions(r.db, terms,
		"posts.title", "posts.content",
		"profiles.username", "profiles.first_name", "profiles.last_name")
	var posts []model.Post
	err := r.db.Model(&model.Post{}).
		Joins("JOIN profiles ON profiles.id = posts.author_id").
		Where("posts.is_published = ?", true).
		Where(cond).
		Preload("Author").
		Order("posts.id ASC").
		Find(&posts).Error
	return posts, err
}

// termConditions builds OR-ed lower(field) LIKE %term% conditions.
func termConditions(db *gorm.DB, terms []string, fields ...string) *gorm.DB {
	cond := db
	first := true
	for _, term := range terms {
		pattern := "%" + strings.ToLower(term) + "%"
		for _, field := range fields {
			expr := "LOWER(" + field + ") LIKE ?"
			if first {
				cond = db.Where(expr, pattern)
				first = false
			} else {
				cond = cond.Or(expr, pattern)
			}
		}
	}
	return cond
}
