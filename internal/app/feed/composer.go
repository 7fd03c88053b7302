package feed

import (
	"math/rand"
	"sync"
	"time"

	"travelblog/internal/app/model"
	"travelblog/internal/app/repository"
)

const (
	recommendedUserCap  = 5
	trendingLocationCap = 12

	defaultTrendingWindowDays = 7
)

// Composer assembles the view-model bundles for the profile page and the
// discovery pages. The random source is injected so recommendation
// sampling can be seeded in tests; production wiring passes nil for a
// time-seeded source. One Composer serves concurrent requests, and
// rand.Rand is not safe for concurrent use, so rngMu guards every draw.
type Composer struct {
	repo   *repository.Repository
	engine *Engine

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewComposer(repo *repository.Repository, engine *Engine, rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{repo: repo, engine: engine, rng: rng}
}

// ProfileBundle is everything a profile page shows.
type ProfileBundle struct {
	Profile          *model.Profile              `json:"profile"`
	Activities       []ActivityRecord            `json:"activities"`
	Newsfeed         []ActivityRecord            `json:"newsfeed"`
	Highlight        *model.Post                 `json:"highlight,omitempty"`
	RecommendedUsers []model.Profile             `json:"recommended_users"`
	LocationUpdates  []repository.LocationUpdate `json:"location_updates"`
}

// ProfileBundle builds the bundle for subjectUsername as seen by viewerID.
// The newsfeed is populated only when the viewer is the subject; everyone
// else gets an empty sequence rather than an error, so follow state never
// leaks through error messages.
func (c *Composer) ProfileBundle(viewerID uint, subjectUsername string) (*ProfileBundle, error) {
	subject, err := c.repo.ProfileByUsername(subjectUsername)
	if err != nil {
		return nil, err
	}

	activities, err := c.engine.ActivitiesFor(subject.ID)
	if err != nil {
		return nil, err
	}

	newsfeed := []ActivityRecord{}
	if viewerID == subject.ID {
		followed, err := c.repo.FollowedUserIDs(subject.ID)
		if err != nil {
			return nil, err
		}
		newsfeed, err = c.engine.NewsfeedFor(followed)
		if err != nil {
			return nil, err
		}
	}

	highlight, err := c.repo.HighlightPost()
	if err != nil {
		return nil, err
	}

	recommended, err := c.recommendedUsers(subject.ID, viewerID)
	if err != nil {
		return nil, err
	}

	updates, err := c.locationUpdates(subject.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileBundle{
		Profile:          subject,
		Activities:       activities,
		Newsfeed:         newsfeed,
		Highlight:        highlight,
		RecommendedUsers: recommended,
		LocationUpdates:  updates,
	}, nil
}

// recommendedUsers draws an unweighted random sample of up to five
// qualifying profiles. Random rather than top-N on purpose: the page
// surfaces different people on each visit.
func (c *Composer) recommendedUsers(subjectID, viewerID uint) ([]model.Profile, error) {
	candidates, err := c.repo.RecommendedCandidateIDs(subjectID, viewerID)
	if err != nil {
		return nil, err
	}
	sampled := c.sample(candidates, recommendedUserCap)
	if len(sampled) == 0 {
		return []model.Profile{}, nil
	}
	profiles, err := c.repo.ProfilesByIDs(sampled)
	if err != nil {
		return nil, err
	}
	// restore sample order
	byID := make(map[uint]model.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	ordered := make([]model.Profile, 0, len(sampled))
	for _, id := range sampled {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (c *Composer) sample(ids []uint, n int) []uint {
	shuffled := make([]uint, len(ids))
	copy(shuffled, ids)
	c.rngMu.Lock()
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	c.rngMu.Unlock()
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// locationUpdates counts new reviews per followed location since the
// subject's previous login. No previous login means an empty digest.
func (c *Composer) locationUpdates(subjectID uint) ([]repository.LocationUpdate, error) {
	previous, err := c.repo.PreviousLogin(subjectID)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		return []repository.LocationUpdate{}, nil
	}
	locationIDs, err := c.repo.FollowedLocationIDs(subjectID)
	if err != nil {
		return nil, err
	}
	updates, err := c.repo.LocationUpdateCounts(locationIDs, *previous)
	if err != nil {
		return nil, err
	}
	if updates == nil {
		updates = []repository.LocationUpdate{}
	}
	return updates, nil
}

// TrendingLocations ranks locations by distinct likes on their reviewed
// published posts within the trailing window, capped at twelve.
func (c *Composer) TrendingLocations(windowDays int) ([]repository.TrendingLocation, error) {
	if windowDays <= 0 {
		windowDays = defaultTrendingWindowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	trending, err := c.repo.TrendingLocations(since, trendingLocationCap)
	if err != nil {
		return nil, err
	}
	if trending == nil {
		trending = []repository.TrendingLocation{}
	}
	return trending, nil
}
