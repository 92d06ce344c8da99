package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/router"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

type testApp struct {
	router *gin.Engine
	app    *services.Container
}

// setupTestApp wires the real router to a fresh in-memory SQLite store.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("warn")

	db, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app := services.NewContainer(services.Deps{
		Store:  db,
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
	})
	cfg := config.App{CORSOrigins: []string{"http://localhost:3000"}, HostelCapacity: 50}
	return &testApp{router: router.SetupRouter(app, cfg), app: app}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
		Room string `json:"room"`
	} `json:"user"`
}

func (ta *testApp) register(t *testing.T, name, email, role string) session {
	t.Helper()
	payload := map[string]string{"name": name, "email": email, "password": "password123", "role": role}
	if role != "Admin" {
		payload["room"] = "101"
	}
	w := ta.do(t, "POST", "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var s session
	decode(t, w, &s)
	return s
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	decode(t, w, &body)
	require.Equal(t, false, body["status"])
	msg, _ := body["message"].(string)
	return msg
}
