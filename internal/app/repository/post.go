package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelblog/internal/app/model"
)

// CreatePost validates and writes a new post.
func (r *Repository) CreatePost(post *model.Post) error {
	if post.AuthorID == 0 {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	if post.Title == "" || post.Content == "" {
		return fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	return r.db.Create(post).Error
}

// UpdatePost rewrites title and content of an existing post.
func (r *Repository) UpdatePost(id uint, title, content string) (*model.Post, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	post, err := r.PostByID(id)
	if err != nil {
		return nil, err
	}
	post.Title = title
	post.Content = content
	if err := r.db.Model(post).Updates(map[string]any{"title": title, "content": content}).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repository) PublishPost(id uint) error {
	res := r.db.Model(&model.Post{}).Where("id = ?", id).Update("is_published", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	return nil
}

// DeletePost removes the post and its dependent likes, comments, reviews
// and tag links in one transaction.
func (r *Repository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post %d", ErrNotFound, id)
			}
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.LocationReview{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (r *Repository) PostByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author").Preload("Tags").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &post, nil
}

// PostsByAuthor lists every post by one author, newest first.
func (r *Repository) PostsByAuthor(authorID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// RecentPublished lists the newest published posts, capped at limit.
func (r *Repository) RecentPublished(limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("is_published = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// LikePost records a like and bumps the counter. The counter update is an
// in-place increment at the store and only runs when the like row was
// actually inserted, so two racing likes from the same profile count once.
func (r *Repository) LikePost(profileID, postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.PostLike{ProfileID: profileID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already liked
			return nil
		}
		return incrementCounter(tx, postID, "total_likes", 1)
	})
}

// UnlikePost removes the like; unliking a post never liked is a no-op.
func (r *Repository) UnlikePost(profileID, postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("profile_id = ? AND post_id = ?", profileID, postID).
			Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return incrementCounter(tx, postID, "total_likes", -1)
	})
}

// CommentPost adds a top-level comment and bumps the counter.
func (r *Repository) CommentPost(profileID, postID uint, message string) (*model.Comment, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	comment := model.Comment{ProfileID: profileID, PostID: postID, Message: message}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return incrementCounter(tx, postID, "total_comments", 1)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ReplyComment threads a reply under parentID on the parent's post.
func (r *Repository) ReplyComment(profileID, parentID uint, message string) (*model.Comment, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	var reply model.Comment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var parent model.Comment
		if err := tx.First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: comment %d", ErrNotFound, parentID)
			}
			return err
		}
		reply = model.Comment{
			ProfileID: profileID,
			PostID:    parent.PostID,
			ParentID:  &parent.ID,
			Message:   message,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return incrementCounter(tx, parent.PostID, "total_comments", 1)
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// SharePost bumps the share counter in place.
func (r *Repository) SharePost(postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		return incrementCounter(tx, postID, "total_shares", 1)
	})
}

// CommentsForPost lists a post's comments oldest first; callers assemble
// the reply tree from ParentID.
func (r *Repository) CommentsForPost(postID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func postExists(tx *gorm.DB, id uint) error {
	var post model.Post
	if err := tx.Select("id").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func incrementCounter(tx *gorm.DB, postID uint, column string, delta int) error {
	return tx.Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
