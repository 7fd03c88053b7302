// Annotation backfill: re-runs annotation for posts that carry no tags
// and no location reviews, e.g. posts saved while the language service
// was down. One-shot; run it from cron or by hand.
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"travelblog/internal/app/annotate"
	"travelblog/internal/app/config"
	"travelblog/internal/app/db"
	"travelblog/internal/app/model"
	"travelblog/internal/app/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	repo := repository.New(gdb)
	analyzer := annotate.NewLanguageClient(cfg.LanguageAPIURL, cfg.LanguageAPIKey, cfg.LanguageTimeout)
	ingestor := annotate.NewIngestor(repo, analyzer)

	var posts []model.Post
	err = gdb.
		Where("NOT EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id)").
		Where("NOT EXISTS (SELECT 1 FROM location_reviews WHERE location_reviews.post_id = posts.id)").
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		logrus.Fatalf("Failed to list unannotated posts: %v", err)
	}
	logrus.Infof("Found %d unannotated posts", len(posts))

	ctx := context.Background()
	annotated := 0
	for i := range posts {
		if err := ingestor.Annotate(ctx, &posts[i]); err != nil {
			logrus.Errorf("Failed to annotate post %d: %v", posts[i].ID, err)
			continue
		}
		annotated++
	}
	logrus.Infof("Backfill complete: %d/%d posts annotated", annotated, len(posts))
}
