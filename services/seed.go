package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/hostel-app/models"
)

// Demo accounts created by SeedDemo.
const (
	DemoAdminEmail    = "admin@hostel.com"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "john@hostel.com"
	DemoUserPassword  = "user123"
)

// SeedDemo fills an empty store with the demo admin, one student and a few
// records of every kind.
func SeedDemo(ctx context.Context, c *Container) error {
	admin, err := c.Auth.createUser(ctx, RegisterInput{
		Name: "Admin User", Email: DemoAdminEmail, Password: DemoAdminPassword, Role: models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	john, err := c.Auth.createUser(ctx, RegisterInput{
		Name: "John Doe", Email: DemoUserEmail, Password: DemoUserPassword, Role: models.RoleUser,
		Room: "101", Contact: "+91 98765 43210",
	})
	if err != nil {
		return fmt.Errorf("seed student: %w", err)
	}

	adminActor := Actor{UserID: admin.ID, Role: models.RoleAdmin}
	student := Actor{UserID: john.ID, Role: models.RoleUser}
	today := now()

	steps := []func() error{
		func() error {
			_, err := c.Complaints.Create(ctx, student, ComplaintInput{
				Title: "Leaking tap", Description: "The bathroom tap drips all night.",
				Priority: models.PriorityHigh, Category: "Plumbing",
			})
			return err
		},
		func() error {
			_, err := c.ServiceRequests.Create(ctx, student, ServiceRequestInput{
				ServiceType: "Room Cleaning", Description: "Weekly cleaning of room 101.",
			})
			return err
		},
		func() error {
			_, err := c.Leaves.Create(ctx, student, LeaveInput{
				StartDate: today.AddDate(0, 0, 7), EndDate: today.AddDate(0, 0, 10), Reason: "Family function",
			})
			return err
		},
		func() error {
			_, err := c.Payments.Create(ctx, adminActor, PaymentInput{
				Title: "Hostel Fee - " + today.Format("Jan 2006"), Amount: 5000,
				DueDate: today.AddDate(0, 0, 14), Student: john.ID,
			})
			return err
		},
		func() error {
			_, err := c.Payments.Create(ctx, adminActor, PaymentInput{
				Title: "Mess Fee - " + today.Format("Jan 2006"), Amount: 1500,
				DueDate: today.AddDate(0, 0, 7), Student: john.ID,
			})
			return err
		},
		func() error {
			_, err := c.Announcements.Create(ctx, adminActor, AnnouncementInput{
				Title: "Water supply maintenance", Content: "Water will be off on Sunday from 10 AM to 2 PM.",
				Type: models.AnnouncementUrgent, IsPinned: true,
			})
			return err
		},
		func() error {
			_, err := c.Announcements.Create(ctx, adminActor, AnnouncementInput{
				Title: "Cultural night", Content: "Join us in the common room on Friday evening.",
				Type: models.AnnouncementEvent,
			})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("seed step %d: %w", i+1, err)
		}
	}
	return nil
}
