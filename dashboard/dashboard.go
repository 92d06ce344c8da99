// Package dashboard computes the overview figures shown to admins and
// students. Everything here is a pure function of the records passed in.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yeremiapane/hostel-app/models"
)

// Snapshot is the set of records an overview is computed from.
type Snapshot struct {
	Users           []models.User
	Complaints      []models.Complaint
	ServiceRequests []models.ServiceRequest
	LeaveRequests   []models.LeaveRequest
	Payments        []models.Payment
	Announcements   []models.Announcement
}

type AdminStats struct {
	TotalUsers             int                `json:"totalUsers"`
	ActiveComplaints       int                `json:"activeComplaints"`
	PendingServiceRequests int                `json:"pendingServiceRequests"`
	PendingLeaveRequests   int                `json:"pendingLeaveRequests"`
	PendingRevenue         float64            `json:"pendingRevenue"`
	OccupancyRate          int                `json:"occupancyRate"`
	UrgentIssues           []models.Complaint `json:"urgentIssues"`
}

type RecentItem struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Type   string    `json:"type"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

type StudentStats struct {
	TotalDues            float64               `json:"totalDues"`
	PaidTotal            float64               `json:"paidTotal"`
	ActiveComplaints     int                   `json:"activeComplaints"`
	PendingLeaveRequests int                   `json:"pendingLeaveRequests"`
	NextDueDate          *time.Time            `json:"nextDueDate,omitempty"`
	PinnedAnnouncements  []models.Announcement `json:"pinnedAnnouncements"`
	RecentActivity       []RecentItem          `json:"recentActivity"`
}

const (
	maxPinned = 2
	maxRecent = 4
)

// AdminOverview summarises the whole hostel. Occupancy is active users over
// capacity as a rounded percentage.
func AdminOverview(s Snapshot, capacity int) AdminStats {
	stats := AdminStats{
		TotalUsers:   len(s.Users),
		UrgentIssues: []models.Complaint{},
	}

	for _, c := range s.Complaints {
		if c.Status == models.ComplaintResolved {
			continue
		}
		stats.ActiveComplaints++
		if c.Priority == models.PriorityHigh {
			stats.UrgentIssues = append(stats.UrgentIssues, c)
		}
	}
	for _, r := range s.ServiceRequests {
		if r.Status == models.ServicePending {
			stats.PendingServiceRequests++
		}
	}
	for _, l := range s.LeaveRequests {
		if l.Status == models.LeavePending {
			stats.PendingLeaveRequests++
		}
	}
	for _, p := range s.Payments {
		if p.Outstanding() {
			stats.PendingRevenue += p.Amount
		}
	}

	active := 0
	for _, u := range s.Users {
		if u.Status == models.UserActive {
			active++
		}
	}
	if capacity > 0 {
		stats.OccupancyRate = int(math.Round(float64(active) / float64(capacity) * 100))
	}
	return stats
}

// StudentOverview summarises the records owned by studentID.
func StudentOverview(s Snapshot, studentID string) StudentStats {
	stats := StudentStats{
		PinnedAnnouncements: []models.Announcement{},
		RecentActivity:      []RecentItem{},
	}

	for _, p := range s.Payments {
		if p.StudentID != studentID {
			continue
		}
		if p.Status == models.PaymentPaid {
			stats.PaidTotal += p.Amount
			date := p.DueDate
			if p.PaidOn != nil {
				date = *p.PaidOn
			}
			stats.RecentActivity = append(stats.RecentActivity, RecentItem{p.ID, p.Title, "Payment", date, string(p.Status)})
			continue
		}
		stats.TotalDues += p.Amount
		if stats.NextDueDate == nil || p.DueDate.Before(*stats.NextDueDate) {
			due := p.DueDate
			stats.NextDueDate = &due
		}
		stats.RecentActivity = append(stats.RecentActivity, RecentItem{p.ID, p.Title, "Payment", p.DueDate, string(p.Status)})
	}
	for _, c := range s.Complaints {
		if c.StudentID != studentID {
			continue
		}
		if c.Status != models.ComplaintResolved {
			stats.ActiveComplaints++
		}
		stats.RecentActivity = append(stats.RecentActivity, RecentItem{c.ID, c.Title, "Complaint", c.Date, string(c.Status)})
	}
	for _, r := range s.ServiceRequests {
		if r.StudentID == studentID {
			stats.RecentActivity = append(stats.RecentActivity, RecentItem{r.ID, r.ServiceType, "Service", r.RequestedDate, string(r.Status)})
		}
	}
	for _, l := range s.LeaveRequests {
		if l.StudentID == studentID && l.Status == models.LeavePending {
			stats.PendingLeaveRequests++
		}
	}
	for _, a := range s.Announcements {
		if a.IsPinned && len(stats.PinnedAnnouncements) < maxPinned {
			stats.PinnedAnnouncements = append(stats.PinnedAnnouncements, a)
		}
	}

	sort.SliceStable(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Date.After(stats.RecentActivity[j].Date)
	})
	if len(stats.RecentActivity) > maxRecent {
		stats.RecentActivity = stats.RecentActivity[:maxRecent]
	}
	return stats
}

// TimeAgo renders the coarsest unit that fits more than once, e.g.
// "3 days ago". Anything under two minutes is "Just now".
func TimeAgo(t, now time.Time) string {
	seconds := math.Floor(now.Sub(t).Seconds())
	units := []struct {
		name string
		secs float64
	}{
		{"years", 31536000},
		{"months", 2592000},
		{"days", 86400},
		{"hours", 3600},
		{"mins", 60},
	}
	for _, u := range units {
		if n := seconds / u.secs; n > 1 {
			return fmt.Sprintf("%d %s ago", int(math.Floor(n)), u.name)
		}
	}
	return "Just now"
}
