package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Tasklist/internal/dto"
	"Tasklist/internal/service"
	"Tasklist/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const listPath = "/"

type ItemHandler struct {
	svc  *service.ItemService
	view *view.Renderer
}

func NewItemHandler(svc *service.ItemService, v *view.Renderer) *ItemHandler {
	return &ItemHandler{svc: svc, view: v}
}

// Index renders the full task list.
func (h *ItemHandler) Index(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	page, err := h.view.RenderPage(list, c.GetHeader("Accept-Language"))
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Add creates an item from the title form field (urlencoded or multipart).
// Blank titles and other body types are ignored.
func (h *ItemHandler) Add(c *gin.Context) {
	var form dto.AddItemForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		redirectToList(c)
		return
	}
	if _, err := h.svc.Add(c.Request.Context(), form.Title); err != nil && !errors.Is(err, service.ErrEmptyTitle) {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	redirectToList(c)
}

// Toggle flips the completion flag of :id. Unknown or malformed ids are ignored.
func (h *ItemHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		redirectToList(c)
		return
	}
	if err := h.svc.Toggle(c.Request.Context(), id); err != nil && !errors.Is(err, service.ErrNotFound) {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	redirectToList(c)
}

// Delete removes :id. Unknown or malformed ids are ignored.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		redirectToList(c)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	redirectToList(c)
}

// redirectToList answers a form post with 303 so a refresh does not resubmit it.
func redirectToList(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, listPath)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
