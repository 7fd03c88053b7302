package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelblog/internal/app/model"
)

// LocationSentiment is one extracted location mention with its sentiment.
type LocationSentiment struct {
	Name      string
	Score     float64
	Magnitude float64
}

// ApplyAnnotation persists one annotation pass over a post in a single
// short transaction: locations are created on first mention, reviews are
// upserted per (post, location) with the latest sentiment, and the post's
// tag set is replaced outright with tagNames. An empty tagNames clears the
// tags; absent locations leave earlier reviews in place (reviews are
// upsert-only, tags are full-replace).
func (r *Repository) ApplyAnnotation(postID uint, locations []LocationSentiment, tagNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post %d", ErrNotFound, postID)
			}
			return err
		}

		for _, ls := range locations {
			location := model.Location{Name: ls.Name}
			if err := tx.Where("name = ?", ls.Name).FirstOrCreate(&location).Error; err != nil {
				return err
			}
			review := model.LocationReview{
				PostID:     postID,
				LocationID: location.ID,
				Sentiment:  ls.Score,
				Magnitude:  ls.Magnitude,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "location_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"sentiment", "magnitude", "updated_at"}),
			}).Create(&review).Error
			if err != nil {
				return err
			}
		}

		if len(tagNames) == 0 {
			return tx.Model(&post).Association("Tags").Clear()
		}
		tags := make([]model.Tag, 0, len(tagNames))
		for _, name := range tagNames {
			tag := model.Tag{Name: name}
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		return tx.Model(&post).Association("Tags").Replace(&tags)
	})
}
