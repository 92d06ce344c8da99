package Controllers_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentBody struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaidOn        string `json:"paidOn"`
	TransactionID string `json:"transactionId"`
	Student       string `json:"student"`
	StudentName   string `json:"studentName"`
}

func createPayment(t *testing.T, ta *testApp, adminToken, studentID, title, due string) paymentBody {
	t.Helper()
	w := ta.do(t, "POST", "/api/payments", adminToken, map[string]interface{}{
		"title": title, "amount": 5000, "dueDate": due, "student": studentID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p paymentBody
	decode(t, w, &p)
	return p
}

func TestPayAndDownloadReceipt(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	p := createPayment(t, ta, admin.Token, student.User.ID, "Hostel Fee - Term 1", "2026-12-01")
	assert.Equal(t, "Pending", p.Status)
	assert.Equal(t, "Asha", p.StudentName)

	w := ta.do(t, "GET", "/api/payments/"+p.ID+"/receipt", student.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, "POST", "/api/payments/"+p.ID+"/pay", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paid paymentBody
	decode(t, w, &paid)
	assert.Equal(t, "Paid", paid.Status)
	assert.NotEmpty(t, paid.PaidOn)
	assert.True(t, strings.HasPrefix(paid.TransactionID, "TXN-"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = ta.do(t, "POST", "/api/payments/"+p.ID+"/pay", student.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment is already paid", errorMessage(t, w))

	w = ta.do(t, "GET", "/api/payments/"+p.ID+"/receipt", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), paid.TransactionID)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestPaymentOwnership(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	asha := ta.register(t, "Asha", "asha@example.com", "")
	ravi := ta.register(t, "Ravi", "ravi@example.com", "")

	p := createPayment(t, ta, admin.Token, asha.User.ID, "Mess Fee", "2026-12-01")

	w := ta.do(t, "POST", "/api/payments/"+p.ID+"/pay", ravi.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, "PATCH", "/api/payments/"+p.ID, asha.Token, map[string]string{"status": "Overdue"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, "POST", "/api/payments", asha.Token, map[string]interface{}{
		"title": "Self-assigned", "amount": 1, "dueDate": "2026-12-01", "student": asha.User.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var list []paymentBody
	decode(t, ta.do(t, "GET", "/api/payments", ravi.Token, nil), &list)
	assert.Empty(t, list)

	w = ta.do(t, "POST", "/api/payments/unknown/pay", asha.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminPaymentStatusUpdate(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	p := createPayment(t, ta, admin.Token, student.User.ID, "Electricity", "2026-12-01")

	w := ta.do(t, "PATCH", "/api/payments/"+p.ID, admin.Token, map[string]string{"status": "Overdue"})
	require.Equal(t, http.StatusOK, w.Code)
	var overdue paymentBody
	decode(t, w, &overdue)
	assert.Equal(t, "Overdue", overdue.Status)

	w = ta.do(t, "PATCH", "/api/payments/"+p.ID, admin.Token, map[string]string{"status": "Paid", "paidOn": "2026-11-20"})
	require.Equal(t, http.StatusOK, w.Code)
	var paid paymentBody
	decode(t, w, &paid)
	assert.Equal(t, "Paid", paid.Status)
	assert.Contains(t, paid.PaidOn, "2026-11-20")
	assert.NotEmpty(t, paid.TransactionID)

	w = ta.do(t, "PATCH", "/api/payments/"+p.ID, admin.Token, map[string]string{"status": "Refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentValidation(t *testing.T) {
	ta := setupTestApp(t)
	admin := ta.register(t, "Warden", "warden@example.com", "Admin")
	student := ta.register(t, "Asha", "asha@example.com", "")

	w := ta.do(t, "POST", "/api/payments", admin.Token, map[string]interface{}{
		"title": "Free", "amount": 0, "dueDate": "2026-12-01", "student": student.User.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount must be greater than 0", errorMessage(t, w))

	w = ta.do(t, "POST", "/api/payments", admin.Token, map[string]interface{}{
		"title": "No date", "amount": 10, "student": student.User.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, "POST", "/api/payments", admin.Token, map[string]interface{}{
		"title": "Ghost", "amount": 10, "dueDate": "2026-12-01", "student": "missing-id",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
