package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/campwire/community-core/internal/domain"
	"github.com/campwire/community-core/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeBookmarks struct {
	toggle     func(ctx context.Context, accountID, itemID string) (bool, error)
	getItem    func(ctx context.Context, itemID string) (*domain.ContentItem, error)
	deleteItem func(ctx context.Context, itemID string) error
}

func (f *fakeBookmarks) Toggle(ctx context.Context, accountID, itemID string) (bool, error) {
	return f.toggle(ctx, accountID, itemID)
}

func (f *fakeBookmarks) GetItem(ctx context.Context, itemID string) (*domain.ContentItem, error) {
	return f.getItem(ctx, itemID)
}

func (f *fakeBookmarks) DeleteItem(ctx context.Context, itemID string) error {
	return f.deleteItem(ctx, itemID)
}

func newItemEngine(uc *fakeBookmarks, actorID string) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewItemHandler(uc, logger)

	r := gin.New()
	items := r.Group("/items", func(c *gin.Context) { c.Set("accountID", actorID) })
	items.POST("/:id/bookmark", h.ToggleBookmark)
	items.DELETE("/:id", h.Delete)
	return r
}

func doItems(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestToggleBookmark_ReportsResultingState(t *testing.T) {
	for _, bookmarked := range []bool{true, false} {
		uc := &fakeBookmarks{
			toggle: func(_ context.Context, accountID, itemID string) (bool, error) {
				if accountID != "acct-1" || itemID != "item-1" {
					t.Errorf("toggle called with (%q, %q)", accountID, itemID)
				}
				return bookmarked, nil
			},
		}
		w := doItems(newItemEngine(uc, "acct-1"), http.MethodPost, "/items/item-1/bookmark")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Bookmarked bool `json:"bookmarked"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if resp.Bookmarked != bookmarked {
			t.Errorf("bookmarked = %v, want %v", resp.Bookmarked, bookmarked)
		}
	}
}

func TestToggleBookmark_UnknownItem_Returns404(t *testing.T) {
	uc := &fakeBookmarks{
		toggle: func(_ context.Context, _, _ string) (bool, error) {
			return false, domain.ErrItemNotFound
		},
	}
	w := doItems(newItemEngine(uc, "acct-1"), http.MethodPost, "/items/nope/bookmark")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestToggleBookmark_UnknownAccount_Returns404(t *testing.T) {
	uc := &fakeBookmarks{
		toggle: func(_ context.Context, _, _ string) (bool, error) {
			return false, domain.ErrAccountNotFound
		},
	}
	w := doItems(newItemEngine(uc, "gone"), http.MethodPost, "/items/item-1/bookmark")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteItem_OwnerSucceeds(t *testing.T) {
	deleted := false
	uc := &fakeBookmarks{
		getItem: func(_ context.Context, itemID string) (*domain.ContentItem, error) {
			return &domain.ContentItem{ID: itemID, OwnerID: "acct-1"}, nil
		},
		deleteItem: func(_ context.Context, _ string) error {
			deleted = true
			return nil
		},
	}
	w := doItems(newItemEngine(uc, "acct-1"), http.MethodDelete, "/items/item-1")

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if !deleted {
		t.Error("delete was never invoked")
	}
}

func TestDeleteItem_NonOwner_Returns403(t *testing.T) {
	uc := &fakeBookmarks{
		getItem: func(_ context.Context, itemID string) (*domain.ContentItem, error) {
			return &domain.ContentItem{ID: itemID, OwnerID: "acct-1"}, nil
		},
		deleteItem: func(_ context.Context, _ string) error {
			t.Error("delete must not run for a non-owner")
			return nil
		},
	}
	w := doItems(newItemEngine(uc, "acct-2"), http.MethodDelete, "/items/item-1")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestDeleteItem_UnknownItem_Returns404(t *testing.T) {
	uc := &fakeBookmarks{
		getItem: func(_ context.Context, _ string) (*domain.ContentItem, error) {
			return nil, domain.ErrItemNotFound
		},
	}
	w := doItems(newItemEngine(uc, "acct-1"), http.MethodDelete, "/items/nope")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteItem_FetchFails_Returns500(t *testing.T) {
	uc := &fakeBookmarks{
		getItem: func(_ context.Context, _ string) (*domain.ContentItem, error) {
			return nil, errors.New("db down")
		},
	}
	w := doItems(newItemEngine(uc, "acct-1"), http.MethodDelete, "/items/item-1")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
