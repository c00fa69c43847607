package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	md       = model.Employee{ID: "AI1001", Name: "Nanda Kumar", Department: "Management", Role: model.RoleSuperAdmin}
	director = model.Employee{ID: "AI1002", Name: "Alekhya", Department: "Project", Role: model.RoleAdmin}
	foreman  = model.Employee{ID: "AI1003", Name: "Manikandan", Department: "Site", Role: model.RoleUser}
)

// asEmployee stands in for the auth middleware
func asEmployee(e model.Employee) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", &model.Session{ID: "sess-" + e.ID, Employee: e})
		c.Next()
	}
}

func newTestStore() *service.MemoryStore {
	return service.NewMemoryStore(model.DefaultEmployees(), &config.StoreConfig{SeedApprovals: true})
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return resp
}
