package annotate

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"travelblog/internal/app/model"
	"travelblog/internal/app/repository"
)

const (
	entityTypeLocation = "LOCATION"
	mentionTypeProper  = "PROPER"
)

// Ingestor turns one post's text into locations, reviews and tags. The
// external call runs before any transaction is opened; the upserts then
// apply in one short transaction.
type Ingestor struct {
	repo     *repository.Repository
	analyzer Analyzer
}

func NewIngestor(repo *repository.Repository, analyzer Analyzer) *Ingestor {
	return &Ingestor{repo: repo, analyzer: analyzer}
}

// Annotate enriches post from its current title and content. A failed or
// empty external call yields zero entities and zero categories: the post
// keeps no new reviews and its tag set is cleared, and the save path is
// never failed on the service's behalf. Only a store error is returned.
func (in *Ingestor) Annotate(ctx context.Context, post *model.Post) error {
	text := ExtractText(post.Title, post.Content)

	annotation, err := in.analyzer.Analyze(ctx, text)
	if err != nil {
		logrus.Warnf("Annotation failed for post %d, skipping enrichment: %v", post.ID, err)
		annotation = &Annotation{}
	}

	locations := locationSentiments(annotation.Entities)
	tags := tagNames(annotation.Categories)

	if err := in.repo.ApplyAnnotation(post.ID, locations, tags); err != nil {
		return err
	}
	logrus.Debugf("Annotated post %d: %d locations, %d tags", post.ID, len(locations), len(tags))
	return nil
}

// locationSentiments keeps proper-noun location mentions, lowercases the
// names and deduplicates, the last occurrence winning.
func locationSentiments(entities []Entity) []repository.LocationSentiment {
	index := make(map[string]int)
	var out []repository.LocationSentiment
	for _, entity := range entities {
		if entity.Type != entityTypeLocation || !hasProperMention(entity.Mentions) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(entity.Name))
		if name == "" {
			continue
		}
		ls := repository.LocationSentiment{
			Name:      name,
			Score:     entity.Sentiment.Score,
			Magnitude: entity.Sentiment.Magnitude,
		}
		if i, ok := index[name]; ok {
			out[i] = ls
			continue
		}
		index[name] = len(out)
		out = append(out, ls)
	}
	return out
}

func hasProperMention(mentions []Mention) bool {
	for _, m := range mentions {
		if m.Type == mentionTypeProper {
			return true
		}
	}
	return false
}

// tagNames reduces each category path to its last segment, deduplicated
// in order of first appearance.
func tagNames(categories []Category) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, category := range categories {
		parts := strings.Split(category.Name, "/")
		name := strings.TrimSpace(parts[len(parts)-1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ExtractText strips markup from the post content and joins it with the
// title into the blob the language service analyzes.
func ExtractText(title, content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return strings.TrimSpace(title + " " + content)
	}
	return strings.TrimSpace(title + " " + doc.Text())
}
