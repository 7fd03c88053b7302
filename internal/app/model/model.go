package model

import (
	"time"
)

// Profile is a registered author. Follow edges live in their own tables
// (Follow, LocationFollow) instead of a many2many association so that a
// repeated follow hits the unique index and stays a no-op.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	About     string    `json:"about"`
	Twitter   string    `json:"twitter,omitempty"`
	Instagram string    `json:"instagram,omitempty"`
	Facebook  string    `json:"facebook,omitempty"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Follow is a directed profile-to-profile edge: follower follows followee.
type Follow struct {
	ID         uint      `gorm:"primaryKey"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	FolloweeID uint      `gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	CreatedAt  time.Time
}

// LocationFollow is a directed profile-to-location edge.
type LocationFollow struct {
	ID         uint      `gorm:"primaryKey"`
	ProfileID  uint      `gorm:"not null;index;uniqueIndex:idx_profile_location"`
	LocationID uint      `gorm:"not null;index;uniqueIndex:idx_profile_location"`
	CreatedAt  time.Time
}

// LoginRecord carries the reference timestamp for the location digest.
// PreviousLogin is the login before the current one; a first login leaves
// it nil and the digest empty.
type LoginRecord struct {
	ID            uint       `gorm:"primaryKey"`
	ProfileID     uint       `gorm:"not null;uniqueIndex"`
	PreviousLogin *time.Time
	LastLogin     *time.Time
	UpdatedAt     time.Time
}

// Location is created lazily by the annotation ingestor on first mention.
// Names are stored lowercase.
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is created lazily by the annotation ingestor.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Post counters mirror the number of PostLike/Comment rows and the share
// count; they are maintained in the same transaction as the row writes.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Author        *Profile  `json:"author,omitempty"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"not null" json:"content"`
	IsPublished   bool      `gorm:"not null;default:false;index" json:"is_published"`
	TotalLikes    int       `gorm:"not null;default:0" json:"total_likes"`
	TotalComments int       `gorm:"not null;default:0" json:"total_comments"`
	TotalShares   int       `gorm:"not null;default:0" json:"total_shares"`
	Tags          []Tag     `gorm:"many2many:post_tags" json:"tags,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PostLike is one like of one post by one profile. The composite unique
// index is what makes a racing duplicate like a no-op.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;index;uniqueIndex:idx_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_profile_post" json:"post_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// Comment optionally replies to another comment on the same post, forming
// a tree per post. No depth limit.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;index" json:"profile_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// LocationReview is the sentiment a post's text expressed about a
// location. One row per (post, location); re-annotation overwrites it.
type LocationReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index;uniqueIndex:idx_post_location" json:"post_id"`
	LocationID uint      `gorm:"not null;index;uniqueIndex:idx_post_location" json:"location_id"`
	Sentiment  float64   `gorm:"not null" json:"sentiment"`
	Magnitude  float64   `gorm:"not null" json:"magnitude"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// All returns every entity for AutoMigrate.
func All() []any {
	return []any{
		&Profile{},
		&Follow{},
		&LocationFollow{},
		&LoginRecord{},
		&Location{},
		&Tag{},
		&Post{},
		&PostLike{},
		&Comment{},
		&LocationReview{},
	}
}
