package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCreatesUser(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")

	w := ta.do(t, "POST", "/api/users", admin.Token, map[string]string{
		"name": "Ravi", "email": "ravi@example.com", "password": "secret1", "room": "202",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "User", created["role"])
	assert.Equal(t, true, created["isStudent"])
	assert.NotContains(t, created, "password")
	assert.NotContains(t, created, "token")

	w = ta.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "ravi@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")
	other := ta.register(t, "Ravi", "ravi@example.com", "")

	w := ta.do(t, "POST", "/api/complaints", student.Token, map[string]string{
		"title": "Fan", "description": "Broken", "category": "Electrical",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = ta.do(t, "POST", "/api/complaints", other.Token, map[string]string{
		"title": "Door", "description": "Squeaks", "category": "Maintenance",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	createPayment(t, ta, admin.Token, student.User.ID, "Hostel Fee", "2026-12-01")

	w = ta.do(t, "DELETE", "/api/users/"+student.User.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "User and all associated data deleted successfully")

	var complaints []complaintBody
	decode(t, ta.do(t, "GET", "/api/complaints", admin.Token, nil), &complaints)
	require.Len(t, complaints, 1)
	assert.Equal(t, other.User.ID, complaints[0].Student)

	var payments []paymentBody
	decode(t, ta.do(t, "GET", "/api/payments", admin.Token, nil), &payments)
	assert.Empty(t, payments)

	w = ta.do(t, "DELETE", "/api/users/"+student.User.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletedStudentCannotCreateRecords(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	w := ta.do(t, "DELETE", "/api/users/"+student.User.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ta.do(t, "POST", "/api/complaints", student.Token, map[string]string{
		"title": "Ghost", "description": "Still here", "category": "Other",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
