package feed

import (
	"sort"
	"strings"

	"travelblog/internal/app/model"
)

// ExploreBundle is the discovery page: with a query, each list is ranked
// by text relevance; without, profiles rank by published-post count,
// locations and tags alphabetically, posts by like count.
type ExploreBundle struct {
	Profiles  []model.Profile  `json:"profiles"`
	Locations []model.Location `json:"locations"`
	Tags      []model.Tag      `json:"tags"`
	Posts     []model.Post     `json:"posts"`
}

func (c *Composer) ExploreBundle(query string) (*ExploreBundle, error) {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return c.exploreDefault()
	}
	return c.exploreSearch(terms)
}

func (c *Composer) exploreDefault() (*ExploreBundle, error) {
	profiles, err := c.repo.ProfilesByPublishedPostCount()
	if err != nil {
		return nil, err
	}
	locations, err := c.repo.LocationsByName()
	if err != nil {
		return nil, err
	}
	tags, err := c.repo.TagsByName()
	if err != nil {
		return nil, err
	}
	posts, err := c.repo.PublishedPostsByLikes()
	if err != nil {
		return nil, err
	}
	return newExploreBundle(profiles, locations, tags, posts), nil
}

func (c *Composer) exploreSearch(terms []string) (*ExploreBundle, error) {
	profiles, err := c.repo.SearchProfiles(terms)
	if err != nil {
		return nil, err
	}
	rankByRelevance(profiles, terms,
		func(p model.Profile) []string { return []string{p.Username, p.FirstName, p.LastName} },
		func(p model.Profile) uint { return p.ID })

	locations, err := c.repo.SearchLocations(terms)
	if err != nil {
		return nil, err
	}
	rankByRelevance(locations, terms,
		func(l model.Location) []string { return []string{l.Name} },
		func(l model.Location) uint { return l.ID })

	tags, err := c.repo.SearchTags(terms)
	if err != nil {
		return nil, err
	}
	rankByRelevance(tags, terms,
		func(t model.Tag) []string { return []string{t.Name} },
		func(t model.Tag) uint { return t.ID })

	posts, err := c.repo.SearchPublishedPosts(terms)
	if err != nil {
		return nil, err
	}
	rankByRelevance(posts, terms,
		func(p model.Post) []string {
			fields := []string{p.Title, p.Content}
			if p.Author != nil {
				fields = append(fields, p.Author.Username, p.Author.FirstName, p.Author.LastName)
			}
			return fields
		},
		func(p model.Post) uint { return p.ID })

	return newExploreBundle(profiles, locations, tags, posts), nil
}

// rankByRelevance sorts items by descending term-occurrence count across
// their searchable fields; equal scores keep id-ascending order.
func rankByRelevance[T any](items []T, terms []string, fields func(T) []string, id func(T) uint) {
	scores := make(map[uint]int, len(items))
	for _, item := range items {
		scores[id(item)] = relevance(terms, fields(item))
	}
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scores[id(items[i])], scores[id(items[j])]
		if si != sj {
			return si > sj
		}
		return id(items[i]) < id(items[j])
	})
}

func relevance(terms []string, fields []string) int {
	score := 0
	for _, field := range fields {
		lowered := strings.ToLower(field)
		for _, term := range terms {
			score += strings.Count(lowered, term)
		}
	}
	return score
}

func newExploreBundle(profiles []model.Profile, locations []model.Location, tags []model.Tag, posts []model.Post) *ExploreBundle {
	if profiles == nil {
		profiles = []model.Profile{}
	}
	if locations == nil {
		locations = []model.Location{}
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return &ExploreBundle{Profiles: profiles, Locations: locations, Tags: tags, Posts: posts}
}
