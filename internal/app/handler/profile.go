package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"travelblog/internal/app/model"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	About     string `json:"about"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Location  string `json:"location"`
}

func (h *Handler) RegisterProfile(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	profile := model.Profile{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		About:     req.About,
		Twitter:   req.Twitter,
		Instagram: req.Instagram,
		Facebook:  req.Facebook,
		Location:  req.Location,
	}
	if err := h.repo.CreateProfile(&profile); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
}

// Login records the login shift that anchors the location digest: the
// prior login becomes the digest's reference timestamp.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	profile, err := h.repo.ProfileByUsername(req.Username)
	if err != nil {
		return httpError(err)
	}
	if err := h.repo.RecordLogin(profile.ID, time.Now()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) ViewProfile(c echo.Context) error {
	bundle, err := h.composer.ProfileBundle(viewerID(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) FollowUser(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	target, err := h.repo.ProfileByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	if err := h.repo.FollowUser(viewer, target.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnfollowUser(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	target, err := h.repo.ProfileByUsername(c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	if err := h.repo.UnfollowUser(viewer, target.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) FollowLocation(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.FollowLocation(viewer, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnfollowLocation(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.UnfollowLocation(viewer, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
