package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const recentPostCap = 12

// Index serves the landing page data: newest published posts and the
// trending locations for the configured window.
func (h *Handler) Index(c echo.Context) error {
	recent, err := h.repo.RecentPublished(recentPostCap)
	if err != nil {
		return httpError(err)
	}
	trending, err := h.composer.TrendingLocations(h.trendingWindowDays)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"recent_posts":       recent,
		"trending_locations": trending,
	})
}

func (h *Handler) Explore(c echo.Context) error {
	bundle, err := h.composer.ExploreBundle(c.QueryParam("query"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) ViewLocation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	location, err := h.repo.LocationByID(id)
	if err != nil {
		return httpError(err)
	}
	reviews, err := h.repo.ReviewsForLocation(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"location": location, "reviews": reviews})
}

func (h *Handler) ViewTag(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	tag, err := h.repo.TagByID(id)
	if err != nil {
		return httpError(err)
	}
	posts, err := h.repo.PublishedPostsForTag(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tag": tag, "posts": posts})
}
