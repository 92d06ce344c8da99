package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRequestSchedule(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	w := ta.do(t, "POST", "/api/service-requests", student.Token, map[string]string{
		"serviceType": "Cleaning", "description": "Deep clean before exams",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "Pending", created["status"])
	id := created["id"].(string)

	w = ta.do(t, "PATCH", "/api/service-requests/"+id, admin.Token, map[string]string{
		"status": "Approved", "scheduledDate": "2026-11-02",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]interface{}
	decode(t, w, &updated)
	assert.Equal(t, "Approved", updated["status"])
	assert.Contains(t, updated["scheduledDate"], "2026-11-02")

	w = ta.do(t, "PATCH", "/api/service-requests/"+id, admin.Token, map[string]string{"scheduledDate": "next tuesday"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminServiceRequestNeedsStudent(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")

	w := ta.do(t, "POST", "/api/service-requests", admin.Token, map[string]string{
		"serviceType": "Laundry", "description": "Weekly",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "student is required", errorMessage(t, w))
}

func TestLeaveRequestDays(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	w := ta.do(t, "POST", "/api/leave-requests", student.Token, map[string]string{
		"startDate": "2026-12-20", "endDate": "2026-12-24", "reason": "Family visit",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.EqualValues(t, 4, created["days"])
	assert.Equal(t, "Pending", created["status"])

	w = ta.do(t, "POST", "/api/leave-requests", student.Token, map[string]string{
		"startDate": "20/12/2026", "endDate": "2026-12-24", "reason": "Bad format",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, "PATCH", "/api/leave-requests/"+created["id"].(string), admin.Token, map[string]string{"status": "Approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ta.do(t, "POST", "/api/leave-requests", student.Token, map[string]string{
		"startDate": "2026-12-24", "endDate": "2026-12-24", "reason": "Same day",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var sameDay map[string]interface{}
	decode(t, w, &sameDay)
	assert.EqualValues(t, 1, sameDay["days"])

	var list []map[string]interface{}
	decode(t, ta.do(t, "GET", "/api/leave-requests", student.Token, nil), &list)
	require.Len(t, list, 2)
	list = filterByID(list, created["id"].(string))
	require.Len(t, list, 1)
	assert.Equal(t, "Approved", list[0]["status"])
}

func filterByID(items []map[string]interface{}, id string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, it := range items {
		if it["id"] == id {
			out = append(out, it)
		}
	}
	return out
}
