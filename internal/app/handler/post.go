package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelblog/internal/app/model"
)

type postRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Publish bool   `json:"publish"`
}

// CreatePost saves the post first and annotates after: a failing language
// service never blocks the save, the post just stays unenriched.
func (h *Handler) CreatePost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	post := model.Post{
		AuthorID:    viewer,
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: req.Publish,
	}
	if err := h.repo.CreatePost(&post); err != nil {
		return httpError(err)
	}
	if err := h.ingestor.Annotate(c.Request().Context(), &post); err != nil {
		return httpError(err)
	}
	created, err := h.repo.PostByID(post.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) EditPost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.requireAuthor(viewer, id); err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	post, err := h.repo.UpdatePost(id, req.Title, req.Content)
	if err != nil {
		return httpError(err)
	}
	// re-annotate the revised text; tags are replaced, reviews upserted
	if err := h.ingestor.Annotate(c.Request().Context(), post); err != nil {
		return httpError(err)
	}
	updated, err := h.repo.PostByID(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ViewPost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	post, err := h.repo.PostByID(id)
	if err != nil {
		return httpError(err)
	}
	comments, err := h.repo.CommentsForPost(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post, "comments": comments})
}

func (h *Handler) MyPosts(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	posts, err := h.repo.PostsByAuthor(viewer)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *Handler) PublishPost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.requireAuthor(viewer, id); err != nil {
		return err
	}
	if err := h.repo.PublishPost(id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeletePost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.requireAuthor(viewer, id); err != nil {
		return err
	}
	if err := h.repo.DeletePost(id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) LikePost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.LikePost(viewer, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnlikePost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.UnlikePost(viewer, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type commentRequest struct {
	Message string `json:"message" validate:"required"`
}

func (h *Handler) CommentPost(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	comment, err := h.repo.CommentPost(viewer, id, req.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ReplyComment(c echo.Context) error {
	viewer, err := h.requireViewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	reply, err := h.repo.ReplyComment(viewer, id, req.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reply)
}

func (h *Handler) SharePost(c echo.Context) error {
	if _, err := h.requireViewer(c); err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.SharePost(id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) requireAuthor(viewer, postID uint) error {
	post, err := h.repo.PostByID(postID)
	if err != nil {
		return httpError(err)
	}
	if post.AuthorID != viewer {
		return echo.NewHTTPError(http.StatusForbidden, "not the author")
	}
	return nil
}
