package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/router"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger("warn")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow against a seeded hostel:
// 1. Student and admin log in with the demo accounts
// 2. Student files a complaint, an incomplete one is rejected
// 3. Admin resolves it and the student sees the new status
// 4. Student pays an outstanding fee and downloads the receipt
// 5. Admin removes the student with everything they own
func TestEndToEndIntegration(t *testing.T) {
	r := setupSeededRouter(t)

	student := login(t, r, services.DemoUserEmail, services.DemoUserPassword)
	admin := login(t, r, services.DemoAdminEmail, services.DemoAdminPassword)

	complaintID := createComplaint(t, r, student)
	resolveComplaint(t, r, admin, complaintID)

	var complaints []map[string]interface{}
	call(t, r, "GET", "/api/complaints", student, nil, http.StatusOK, &complaints)
	found := false
	for _, c := range complaints {
		if c["id"] == complaintID {
			found = true
			assert.Equal(t, "Resolved", c["status"])
		}
	}
	assert.True(t, found, "student should see the resolved complaint")

	payOutstandingFee(t, r, student)

	var me map[string]interface{}
	call(t, r, "GET", "/api/auth/me", student, nil, http.StatusOK, &me)
	call(t, r, "DELETE", "/api/users/"+me["id"].(string), admin, nil, http.StatusOK, nil)

	var left []map[string]interface{}
	call(t, r, "GET", "/api/complaints", admin, nil, http.StatusOK, &left)
	for _, c := range left {
		assert.NotEqual(t, me["id"], c["student"])
	}
}

func setupSeededRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app := services.NewContainer(services.Deps{
		Store:  db,
		Tokens: utils.NewTokenManager("integration-secret", time.Hour),
	})
	require.NoError(t, services.SeedDemo(context.Background(), app))
	return router.SetupRouter(app, config.App{CORSOrigins: []string{"*"}, HostelCapacity: 50})
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}, want int, out interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, want, w.Code, "%s %s: %s", method, path, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	var resp struct {
		Token string `json:"token"`
	}
	call(t, r, "POST", "/api/auth/login", "", map[string]string{"email": email, "password": password}, http.StatusOK, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createComplaint(t *testing.T, r *gin.Engine, token string) string {
	call(t, r, "POST", "/api/complaints", token, map[string]string{"title": "Window jammed"}, http.StatusBadRequest, nil)

	var created map[string]interface{}
	call(t, r, "POST", "/api/complaints", token, map[string]string{
		"title": "Window jammed", "description": "Cannot close the window in room 101", "category": "Maintenance",
	}, http.StatusCreated, &created)
	assert.Equal(t, "Pending", created["status"])
	return created["id"].(string)
}

func resolveComplaint(t *testing.T, r *gin.Engine, token, id string) {
	var updated map[string]interface{}
	call(t, r, "PATCH", "/api/complaints/"+id, token, map[string]string{"status": "Resolved"}, http.StatusOK, &updated)
	assert.Equal(t, "Resolved", updated["status"])
}

func payOutstandingFee(t *testing.T, r *gin.Engine, token string) {
	var payments []map[string]interface{}
	call(t, r, "GET", "/api/payments", token, nil, http.StatusOK, &payments)

	var id string
	for _, p := range payments {
		if p["status"] != "Paid" {
			id = p["id"].(string)
			break
		}
	}
	require.NotEmpty(t, id, "seed should leave a fee outstanding")

	var paid map[string]interface{}
	call(t, r, "POST", "/api/payments/"+id+"/pay", token, nil, http.StatusOK, &paid)
	assert.Equal(t, "Paid", paid["status"])

	req, _ := http.NewRequest("GET", "/api/payments/"+id+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
