package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

// HTTPBackend calls the REST API under BaseURL (for example
// "http://localhost:5000/api").
type HTTPBackend struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPBackend(baseURL string) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *HTTPBackend) SetToken(token string) error {
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
	return nil
}

func (b *HTTPBackend) bearer() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

// do sends body as JSON and decodes a 2xx answer into out.
func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := b.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) != nil || envelope.Message == "" {
			envelope.Message = strings.TrimSpace(string(raw))
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (b *HTTPBackend) Login(ctx context.Context, email, password string) (*services.Session, error) {
	var s services.Session
	err := b.do(ctx, http.MethodPost, "/auth/login", services.LoginInput{Email: email, Password: password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *HTTPBackend) Logout(ctx context.Context) error {
	if b.bearer() == "" {
		return nil
	}
	err := b.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	b.SetToken("")
	return err
}

func (b *HTTPBackend) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	return out, b.do(ctx, http.MethodGet, "/users", nil, &out)
}

func (b *HTTPBackend) Complaints(ctx context.Context) ([]models.Complaint, error) {
	var out []models.Complaint
	return out, b.do(ctx, http.MethodGet, "/complaints", nil, &out)
}

func (b *HTTPBackend) ServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var out []models.ServiceRequest
	return out, b.do(ctx, http.MethodGet, "/service-requests", nil, &out)
}

func (b *HTTPBackend) LeaveRequests(ctx context.Context) ([]models.LeaveRequest, error) {
	var out []models.LeaveRequest
	return out, b.do(ctx, http.MethodGet, "/leave-requests", nil, &out)
}

func (b *HTTPBackend) Payments(ctx context.Context) ([]models.Payment, error) {
	var out []models.Payment
	return out, b.do(ctx, http.MethodGet, "/payments", nil, &out)
}

func (b *HTTPBackend) Announcements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	return out, b.do(ctx, http.MethodGet, "/announcements", nil, &out)
}

func (b *HTTPBackend) AddComplaint(ctx context.Context, in services.ComplaintInput) (*models.Complaint, error) {
	var out models.Complaint
	if err := b.do(ctx, http.MethodPost, "/complaints", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	var out models.Complaint
	if err := b.do(ctx, http.MethodPatch, "/complaints/"+id, map[string]interface{}{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AddServiceRequest(ctx context.Context, in services.ServiceRequestInput) (*models.ServiceRequest, error) {
	var out models.ServiceRequest
	if err := b.do(ctx, http.MethodPost, "/service-requests", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UpdateServiceRequest(ctx context.Context, id string, in services.ServiceRequestUpdate) (*models.ServiceRequest, error) {
	body := map[string]interface{}{"status": in.Status}
	if in.ScheduledDate != nil {
		body["scheduledDate"] = in.ScheduledDate.Format(utils.DateLayout)
	}
	var out models.ServiceRequest
	if err := b.do(ctx, http.MethodPatch, "/service-requests/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AddLeaveRequest(ctx context.Context, in services.LeaveInput) (*models.LeaveRequest, error) {
	body := map[string]interface{}{
		"startDate": in.StartDate.Format(utils.DateLayout),
		"endDate":   in.EndDate.Format(utils.DateLayout),
		"reason":    in.Reason,
		"student":   in.Student,
	}
	var out models.LeaveRequest
	if err := b.do(ctx, http.MethodPost, "/leave-requests", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	var out models.LeaveRequest
	if err := b.do(ctx, http.MethodPatch, "/leave-requests/"+id, map[string]interface{}{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AddAnnouncement(ctx context.Context, in services.AnnouncementInput) (*models.Announcement, error) {
	var out models.Announcement
	if err := b.do(ctx, http.MethodPost, "/announcements", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AddPayment(ctx context.Context, in services.PaymentInput) (*models.Payment, error) {
	body := map[string]interface{}{
		"title":   in.Title,
		"amount":  in.Amount,
		"dueDate": in.DueDate.Format(utils.DateLayout),
		"student": in.Student,
	}
	var out models.Payment
	if err := b.do(ctx, http.MethodPost, "/payments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) PayBill(ctx context.Context, id string) (*models.Payment, error) {
	var out models.Payment
	if err := b.do(ctx, http.MethodPost, "/payments/"+id+"/pay", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	var out models.Payment
	if err := b.do(ctx, http.MethodPatch, "/payments/"+id, map[string]interface{}{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AddUser(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	var out models.User
	if err := b.do(ctx, http.MethodPost, "/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) DeleteUser(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}
