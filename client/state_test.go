package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
)

func loadedState() State {
	s := Reduce(State{}, LoggedIn{User: models.Profile{ID: "admin", Name: "Warden", Role: models.RoleAdmin}})
	return Reduce(s, Loaded{
		Users:           []models.User{{ID: "u1", Name: "Asha"}, {ID: "u2", Name: "Ravi"}},
		Complaints:      []models.Complaint{{ID: "c1", StudentID: "u1"}, {ID: "c2", StudentID: "u2"}},
		ServiceRequests: []models.ServiceRequest{{ID: "s1", StudentID: "u1"}},
		LeaveRequests:   []models.LeaveRequest{{ID: "l1", StudentID: "u1"}, {ID: "l2", StudentID: "u2"}},
		Payments:        []models.Payment{{ID: "p1", StudentID: "u1", Status: models.PaymentPending}},
		Announcements:   []models.Announcement{{ID: "a1"}},
	})
}

func TestReduceLoginAndLogout(t *testing.T) {
	s := loadedState()
	require.True(t, s.LoggedIn())
	assert.Equal(t, "Warden", s.CurrentUser.Name)
	assert.Len(t, s.Users, 2)

	s = Reduce(s, LoggedOut{})
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Complaints)
	assert.Empty(t, s.Users)
}

func TestReduceAddPrepends(t *testing.T) {
	s := loadedState()
	s = Reduce(s, ComplaintAdded{Complaint: models.Complaint{ID: "c3"}})
	require.Len(t, s.Complaints, 3)
	assert.Equal(t, "c3", s.Complaints[0].ID)

	s = Reduce(s, AnnouncementAdded{Announcement: models.Announcement{ID: "a2"}})
	assert.Equal(t, "a2", s.Announcements[0].ID)
}

func TestReducePaymentAddedKeepsDueDateOrder(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 12, d, 0, 0, 0, 0, time.UTC) }
	s := Reduce(State{}, Loaded{Payments: []models.Payment{
		{ID: "p1", DueDate: day(1)},
		{ID: "p2", DueDate: day(10)},
	}})

	s = Reduce(s, PaymentAdded{Payment: models.Payment{ID: "p3", DueDate: day(5)}})
	s = Reduce(s, PaymentAdded{Payment: models.Payment{ID: "p4", DueDate: day(20)}})
	s = Reduce(s, PaymentAdded{Payment: models.Payment{ID: "p5", DueDate: day(1)}})

	var ids []string
	for _, p := range s.Payments {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p5", "p3", "p2", "p4"}, ids)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := loadedState()
	after := Reduce(before, PaymentUpdated{Payment: models.Payment{ID: "p1", StudentID: "u1", Status: models.PaymentPaid}})

	assert.Equal(t, models.PaymentPending, before.Payments[0].Status)
	assert.Equal(t, models.PaymentPaid, after.Payments[0].Status)

	after = Reduce(before, UserDeleted{ID: "u1"})
	assert.Len(t, before.Complaints, 2)
	assert.Len(t, after.Complaints, 1)
}

func TestReduceStatusChangeReplacesByID(t *testing.T) {
	s := loadedState()
	s = Reduce(s, LeaveStatusChanged{Request: models.LeaveRequest{ID: "l2", StudentID: "u2", Status: models.LeaveApproved}})
	require.Len(t, s.LeaveRequests, 2)
	assert.Equal(t, models.LeaveApproved, s.LeaveRequests[1].Status)

	s = Reduce(s, ComplaintStatusChanged{Complaint: models.Complaint{ID: "missing", Status: models.ComplaintResolved}})
	assert.Len(t, s.Complaints, 2)
}

func TestReduceUserDeletedRemovesOwnedRecords(t *testing.T) {
	s := Reduce(loadedState(), UserDeleted{ID: "u1"})

	require.Len(t, s.Users, 1)
	assert.Equal(t, "u2", s.Users[0].ID)
	require.Len(t, s.Complaints, 1)
	assert.Equal(t, "c2", s.Complaints[0].ID)
	assert.Empty(t, s.ServiceRequests)
	require.Len(t, s.LeaveRequests, 1)
	assert.Empty(t, s.Payments)
	assert.Len(t, s.Announcements, 1)
}

func TestReduceActivityIsCapped(t *testing.T) {
	s := State{}
	for i := 0; i < hub.DefaultHistory+5; i++ {
		s = Reduce(s, ActivityLogged{Activity: hub.Activity{ID: string(rune('a' + i%26))}})
	}
	assert.Len(t, s.RecentActivity, hub.DefaultHistory)
}
