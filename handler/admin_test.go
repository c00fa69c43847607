package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type fakeBucket struct {
	keys    []string
	fresh   []string
	listErr error
	removed []string
}

func (f *fakeBucket) ListObjects(_ context.Context, prefix string) ([]service.StoredObject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var objects []service.StoredObject
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			objects = append(objects, service.StoredObject{Key: k, LastModified: time.Now().Add(-time.Hour)})
		}
	}
	for _, k := range f.fresh {
		if strings.HasPrefix(k, prefix) {
			objects = append(objects, service.StoredObject{Key: k, LastModified: time.Now()})
		}
	}
	return objects, nil
}

func (f *fakeBucket) PublicURL(key string) string {
	return "https://storage.googleapis.com/aaraa-erp-assets/" + key
}

func (f *fakeBucket) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func storedSubmission(url string) *model.Submission {
	return &model.Submission{
		EmployeeID: "AI1003",
		Type:       model.TypeSitePhoto,
		Title:      "Tower 4 slab",
		URL:        url,
		Status:     model.StatusPending,
		Department: "Site",
	}
}

func newAdminRouter(bucket *fakeBucket) *gin.Engine {
	store := newTestStore()
	store.CreateSubmission(context.Background(), storedSubmission("https://storage.googleapis.com/aaraa-erp-assets/uploads/kept.jpg"))
	return adminRouter(bucket, store)
}

func adminRouter(bucket *fakeBucket, store service.SubmissionRepository) *gin.Engine {
	h := NewAdminHandler(service.NewReconciler(bucket, store, 10*time.Minute))
	router := gin.New()
	router.GET("/api/admin/orphans", h.Orphans)
	router.DELETE("/api/admin/orphans", h.Purge)
	return router
}

func TestAdminHandlerOrphans(t *testing.T) {
	bucket := &fakeBucket{
		keys:  []string{"uploads/kept.jpg", "uploads/lost.jpg", "other/x.txt"},
		fresh: []string{"uploads/1760000000000-just_now.jpg"},
	}
	router := newAdminRouter(bucket)

	w := doJSON(router, http.MethodGet, "/api/admin/orphans", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["count"] != float64(1) {
		t.Fatalf("Expected 1 orphan under uploads/, got %v", resp["count"])
	}

	w = doJSON(router, http.MethodGet, "/api/admin/orphans?prefix=", nil)
	if got := decode(t, w)["count"]; got != float64(2) {
		t.Errorf("Expected 2 orphans bucket-wide, got %v", got)
	}

	w = doJSON(router, http.MethodDelete, "/api/admin/orphans", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(bucket.removed) != 1 || bucket.removed[0] != "uploads/lost.jpg" {
		t.Errorf("Unexpected removals: %v", bucket.removed)
	}
}

func TestAdminHandlerListFailure(t *testing.T) {
	router := newAdminRouter(&fakeBucket{listErr: errors.New("AccessDenied")})

	w := doJSON(router, http.MethodGet, "/api/admin/orphans", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestAdminHandlerPurgeWithCappedRetention(t *testing.T) {
	store := service.NewMemoryStore(nil, &config.StoreConfig{MaxSubmissions: 1})
	ctx := context.Background()
	store.CreateSubmission(ctx, storedSubmission("https://storage.googleapis.com/aaraa-erp-assets/uploads/a.jpg"))
	store.CreateSubmission(ctx, storedSubmission("https://storage.googleapis.com/aaraa-erp-assets/uploads/b.jpg"))

	bucket := &fakeBucket{keys: []string{"uploads/a.jpg", "uploads/b.jpg"}}
	router := adminRouter(bucket, store)

	w := doJSON(router, http.MethodDelete, "/api/admin/orphans", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if len(bucket.removed) != 0 {
		t.Errorf("Expected uploads/a.jpg to survive, removed %v", bucket.removed)
	}
}
