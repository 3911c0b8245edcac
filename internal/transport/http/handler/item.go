package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campwire/community-core/internal/authz"
	"github.com/campwire/community-core/internal/domain"
	"github.com/gin-gonic/gin"
)

type bookmarkUsecaser interface {
	Toggle(ctx context.Context, accountID, itemID string) (bool, error)
	GetItem(ctx context.Context, itemID string) (*domain.ContentItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}

type ItemHandler struct {
	bookmarks bookmarkUsecaser
	logger    *slog.Logger
}

func NewItemHandler(bookmarks bookmarkUsecaser, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		bookmarks: bookmarks,
		logger:    logger.With("component", "item_handler"),
	}
}

type toggleResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// POST /items/:id/bookmark
// The response reflects the resulting state, not the action taken.
func (h *ItemHandler) ToggleBookmark(c *gin.Context) {
	accountID := c.GetString("accountID")
	itemID := c.Param("id")

	bookmarked, err := h.bookmarks.Toggle(c.Request.Context(), accountID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errAccountNotFound})
		default:
			h.logger.Error("toggle bookmark", "account_id", accountID, "item_id", itemID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toggleResponse{Bookmarked: bookmarked})
}

// DELETE /items/:id
// Ownership is checked after the fetch: only the item's owner may delete it.
func (h *ItemHandler) Delete(c *gin.Context) {
	accountID := c.GetString("accountID")
	itemID := c.Param("id")

	item, err := h.bookmarks.GetItem(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
			return
		}
		h.logger.Error("fetch item", "item_id", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	if err := authz.Check(accountID, item.OwnerID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
		return
	}

	if err := h.bookmarks.DeleteItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errItemNotFound})
			return
		}
		h.logger.Error("delete item", "item_id", itemID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
