package services

import (
	"context"

	"github.com/yeremiapane/hostel-app/dashboard"
	"github.com/yeremiapane/hostel-app/store"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	store    store.Store
	capacity int
}

// snapshot loads the collections visible to the actor in parallel.
func (s *DashboardService) snapshot(ctx context.Context, actor Actor) (dashboard.Snapshot, error) {
	var snap dashboard.Snapshot
	f := actor.scope()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Complaints, err = s.store.ListComplaints(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		snap.ServiceRequests, err = s.store.ListServiceRequests(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		snap.LeaveRequests, err = s.store.ListLeaveRequests(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		snap.Payments, err = s.store.ListPayments(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		snap.Announcements, err = s.store.ListAnnouncements(gctx)
		return err
	})
	if actor.IsAdmin() {
		g.Go(func() (err error) {
			snap.Users, err = s.store.ListUsers(gctx)
			return err
		})
	}
	return snap, g.Wait()
}

func (s *DashboardService) Stats(ctx context.Context, actor Actor) (*dashboard.AdminStats, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	stats := dashboard.AdminOverview(snap, s.capacity)
	return &stats, nil
}

func (s *DashboardService) Overview(ctx context.Context, actor Actor) (*dashboard.StudentStats, error) {
	snap, err := s.snapshot(ctx, actor)
	if err != nil {
		return nil, err
	}
	stats := dashboard.StudentOverview(snap, actor.UserID)
	return &stats, nil
}
