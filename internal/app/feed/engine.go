package feed

import (
	"travelblog/internal/app/repository"
)

// Engine merges an actor's (or a set of actors') authored posts, likes
// given and comments made into one reverse-chronological sequence.
type Engine struct {
	repo *repository.Repository
}

func NewEngine(repo *repository.Repository) *Engine {
	return &Engine{repo: repo}
}

// ActivitiesFor returns every activity of one actor, newest first.
func (e *Engine) ActivitiesFor(profileID uint) ([]ActivityRecord, error) {
	return e.NewsfeedFor([]uint{profileID})
}

// NewsfeedFor returns the merged activities of every actor in profileIDs,
// newest first. An empty set yields an empty sequence. A profile that both
// liked and commented on the same post contributes two records.
func (e *Engine) NewsfeedFor(profileIDs []uint) ([]ActivityRecord, error) {
	if len(profileIDs) == 0 {
		return []ActivityRecord{}, nil
	}
	posts, err := e.repo.PostsByAuthors(profileIDs)
	if err != nil {
		return nil, err
	}
	likes, err := e.repo.LikesByProfiles(profileIDs)
	if err != nil {
		return nil, err
	}
	comments, err := e.repo.CommentsByProfiles(profileIDs)
	if err != nil {
		return nil, err
	}
	return mergeDesc(postRecords(posts), likeRecords(likes), commentRecords(comments)), nil
}
