package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestLeaveDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"five days", date("2025-11-20"), date("2025-11-25"), 5},
		{"same day floors to one", date("2025-12-01"), date("2025-12-01"), 1},
		{"reversed range uses absolute difference", date("2025-12-03"), date("2025-12-01"), 2},
		{"partial day rounds up", date("2025-12-01"), date("2025-12-01").Add(25 * time.Hour), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LeaveDays(tc.start, tc.end))
		})
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ComplaintInProgress.Valid())
	assert.False(t, ComplaintStatus("Closed").Valid())
	assert.True(t, ServiceRejected.Valid())
	assert.False(t, PaymentStatus("Verification Pending").Valid())
	assert.True(t, AnnouncementEvent.Valid())
	assert.False(t, Role("Chef").Valid())
}

func TestPaymentOutstanding(t *testing.T) {
	assert.True(t, Payment{Status: PaymentPending}.Outstanding())
	assert.True(t, Payment{Status: PaymentOverdue}.Outstanding())
	assert.False(t, Payment{Status: PaymentPaid}.Outstanding())
}
