package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"dorm-assignment-backend/config"
	"dorm-assignment-backend/internal/model"
	"dorm-assignment-backend/internal/store"
)

// Seed populates an empty database with the demo data from the config file.
// An already-populated database is left untouched.
func Seed(ctx context.Context, s store.Store, cfg *config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}

	var userCount int64
	if err := s.DB().WithContext(ctx).Model(&model.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to check for existing users: %w", err)
	}
	if userCount > 0 {
		log.Println("Database already populated; skipping seed.")
		return nil
	}

	for _, u := range cfg.Users {
		if _, err := s.CreateUser(ctx, u.Email, u.Name, u.Password); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				continue
			}
			return fmt.Errorf("failed to seed user %q: %w", u.Email, err)
		}
	}

	for _, d := range cfg.Dorms {
		dorm, err := s.CreateDorm(ctx, d.Name)
		if err != nil {
			return fmt.Errorf("failed to seed dorm %q: %w", d.Name, err)
		}
		for _, r := range d.Rooms {
			if _, err := s.CreateRoom(ctx, dorm.ID, r.Number, r.Capacity); err != nil {
				return fmt.Errorf("failed to seed room %q in dorm %q: %w", r.Number, d.Name, err)
			}
		}
	}

	log.Printf("Seeded %d users and %d dorms", len(cfg.Users), len(cfg.Dorms))
	return nil
}
