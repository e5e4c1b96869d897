package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trisuaso/beambin/internal/dto"
)

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	password, post, err := h.services.Post.Create(c.Request.Context(), input.Slug, input.Content, input.Password, h.realIP(c))
	if err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, dto.NewPayloadResponse("Post created", dto.CreatedPost{
		Password: password,
		Post:     post.Public(),
	}))
}

func (h *Handler) postsClone(c *gin.Context) {
	var input dto.ClonePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	password, post, err := h.services.Post.Clone(c.Request.Context(), input.Source, input.Slug, input.Password, h.realIP(c))
	if err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, dto.NewPayloadResponse("Post cloned", dto.CreatedPost{
		Password: password,
		Post:     post.Public(),
	}))
}

func (h *Handler) postsGet(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	post, err := h.services.Post.Get(c.Request.Context(), slug)
	if err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	// the view password is plaintext by (preserved) design
	if post.Context.ViewPassword != "" && c.Query("view_password") != post.Context.ViewPassword {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errViewPasswordRequired.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewPayloadResponse("Post exists", post.Public()))
}

func (h *Handler) postsEdit(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	profile := h.getProfileFromRequest(c)

	if err := h.services.Post.Edit(c.Request.Context(), slug, h.realIP(c), input.Password, input.NewContent, input.NewSlug, input.NewPassword, profile); err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "Post updated"))
}

func (h *Handler) postsEditContext(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var input dto.EditContextRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	profile := h.getProfileFromRequest(c)

	if err := h.services.Post.EditContext(c.Request.Context(), slug, input.Password, input.Context, profile); err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "Post updated"))
}

func (h *Handler) postsDelete(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	var input dto.DeletePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	profile := h.getProfileFromRequest(c)

	if err := h.services.Post.Delete(c.Request.Context(), slug, input.Password, profile); err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "Post deleted"))
}

func (h *Handler) postsViews(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	count, err := h.services.Post.ViewCount(c.Request.Context(), slug)
	if err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewPayloadResponse("Post views", count))
}

func (h *Handler) postsRecordView(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))

	viewerID := ""
	if profile := h.getProfileFromRequest(c); profile != nil {
		viewerID = profile.ID
	}

	if err := h.services.Post.RecordView(c.Request.Context(), slug, viewerID); err != nil {
		c.JSON(statusFor(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "View counted"))
}
