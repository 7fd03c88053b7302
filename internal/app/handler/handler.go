// Package handler exposes the application over a thin JSON HTTP surface.
// The viewer's identity comes from the X-Viewer header (a profile id),
// standing in for the session auth that lives outside this service.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"travelblog/internal/app/annotate"
	"travelblog/internal/app/feed"
	"travelblog/internal/app/repository"
)

type Handler struct {
	repo     *repository.Repository
	composer *feed.Composer
	ingestor *annotate.Ingestor

	trendingWindowDays int
}

func New(repo *repository.Repository, composer *feed.Composer, ingestor *annotate.Ingestor, trendingWindowDays int) *Handler {
	return &Handler{
		repo:               repo,
		composer:           composer,
		ingestor:           ingestor,
		trendingWindowDays: trendingWindowDays,
	}
}

// Register wires every route onto e and installs request validation.
func (h *Handler) Register(e *echo.Echo) {
	e.Validator = &requestValidator{validate: validator.New()}

	e.GET("/", h.Index)
	e.GET("/explore", h.Explore)

	e.POST("/register", h.RegisterProfile)
	e.POST("/login", h.Login)
	e.GET("/users/:username", h.ViewProfile)
	e.POST("/users/:username/follow", h.FollowUser)
	e.POST("/users/:username/unfollow", h.UnfollowUser)

	e.GET("/me/posts", h.MyPosts)
	e.POST("/posts", h.CreatePost)
	e.GET("/posts/:id", h.ViewPost)
	e.PUT("/posts/:id", h.EditPost)
	e.DELETE("/posts/:id", h.DeletePost)
	e.POST("/posts/:id/publish", h.PublishPost)
	e.POST("/posts/:id/like", h.LikePost)
	e.POST("/posts/:id/unlike", h.UnlikePost)
	e.POST("/posts/:id/comments", h.CommentPost)
	e.POST("/posts/:id/share", h.SharePost)
	e.POST("/comments/:id/reply", h.ReplyComment)

	e.GET("/locations/:id", h.ViewLocation)
	e.POST("/locations/:id/follow", h.FollowLocation)
	e.POST("/locations/:id/unfollow", h.UnfollowLocation)
	e.GET("/tags/:id", h.ViewTag)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// viewerID reads the X-Viewer header; 0 means anonymous.
func viewerID(c echo.Context) uint {
	raw := c.Request().Header.Get("X-Viewer")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// requireViewer resolves the X-Viewer header to an existing profile id.
func (h *Handler) requireViewer(c echo.Context) (uint, error) {
	id := viewerID(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "X-Viewer header is required")
	}
	if _, err := h.repo.ProfileByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, echo.NewHTTPError(http.StatusUnauthorized, "unknown viewer")
		}
		return 0, err
	}
	return id, nil
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// httpError maps store errors onto status codes.
func httpError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
