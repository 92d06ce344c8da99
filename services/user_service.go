package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/sync/errgroup"
)

type UserService struct {
	store store.Store
	auth  *AuthService
	hub   *hub.Hub
}

func (s *UserService) List(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// Create adds an account on an admin's behalf without signing it in.
func (s *UserService) Create(ctx context.Context, actor Actor, in RegisterInput) (*models.User, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	return s.auth.createUser(ctx, in)
}

// Delete removes every record the user owns and then the user. The four
// owned collections are cleared concurrently; if any of them fails the user
// is kept. A missing user still has its (empty) records swept and yields
// store.ErrNotFound.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.requireAdmin(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	removed := make([]int64, len(store.OwnedCollections))
	for i, c := range store.OwnedCollections {
		i, c := i, c
		g.Go(func() error {
			n, err := s.store.DeleteByStudent(gctx, c, id)
			if err != nil {
				return fmt.Errorf("delete %s of %s: %w", c, id, err)
			}
			removed[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Errorf("cascade delete of user %s aborted: %v", id, err)
		return err
	}

	u, lookupErr := s.store.FindUserByID(ctx, id)
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	utils.InfoLogger.Printf("deleted user %s with %d complaints, %d service requests, %d leave requests, %d payments",
		id, removed[0], removed[1], removed[2], removed[3])
	if lookupErr == nil {
		s.hub.Publish(u.Name, "Removed from the hostel", hub.KindUser)
	}
	return nil
}
