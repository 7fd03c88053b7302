package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"travelblog/internal/app/model"
)

// CreateProfile registers a new profile. A duplicate username is ErrConflict.
func (r *Repository) CreateProfile(profile *model.Profile) error {
	if profile.Username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(profile)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: username %q is taken", ErrConflict, profile.Username)
	}
	return nil
}

func (r *Repository) ProfileByID(id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) ProfileByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %q", ErrNotFound, username)
		}
		return nil, err
	}
	return &profile, nil
}

// ProfilesByIDs returns the profiles for ids, in no particular order.
func (r *Repository) ProfilesByIDs(ids []uint) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []model.Profile
	err := r.db.Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

// FollowUser adds a follower->followee edge. Following twice is a no-op.
func (r *Repository) FollowUser(followerID, followeeID uint) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}
	if _, err := r.ProfileByID(followeeID); err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

// UnfollowUser removes the edge; removing a missing edge is a no-op.
func (r *Repository) UnfollowUser(followerID, followeeID uint) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

func (r *Repository) FollowLocation(profileID, locationID uint) error {
	if err := r.locationExists(locationID); err != nil {
		return err
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.LocationFollow{ProfileID: profileID, LocationID: locationID}).Error
}

func (r *Repository) UnfollowLocation(profileID, locationID uint) error {
	return r.db.Where("profile_id = ? AND location_id = ?", profileID, locationID).
		Delete(&model.LocationFollow{}).Error
}

// FollowedUserIDs lists the profiles profileID follows.
func (r *Repository) FollowedUserIDs(profileID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", profileID).
		Order("followee_id").
		Pluck("followee_id", &ids).Error
	return ids, err
}

// FollowedLocationIDs lists the locations profileID follows.
func (r *Repository) FollowedLocationIDs(profileID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.LocationFollow{}).
		Where("profile_id = ?", profileID).
		Order("location_id").
		Pluck("location_id", &ids).Error
	return ids, err
}

// RecordLogin shifts the login pair: the previous current login becomes
// PreviousLogin, now becomes LastLogin. Done in one transaction so the
// digest reference timestamp is never half-updated.
func (r *Repository) RecordLogin(profileID uint, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var rec model.LoginRecord
		err := tx.Where("profile_id = ?", profileID).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&model.LoginRecord{ProfileID: profileID, LastLogin: &now}).Error
		}
		if err != nil {
			return err
		}
		rec.PreviousLogin = rec.LastLogin
		rec.LastLogin = &now
		return tx.Save(&rec).Error
	})
}

// PreviousLogin returns nil when the profile has logged in at most once.
func (r *Repository) PreviousLogin(profileID uint) (*time.Time, error) {
	var rec model.LoginRecord
	err := r.db.Where("profile_id = ?", profileID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.PreviousLogin, nil
}

func (r *Repository) locationExists(id uint) error {
	var location model.Location
	if err := r.db.Select("id").First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: location %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}
