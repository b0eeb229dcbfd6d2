package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dorm-assignment-backend/internal/model"
)

var (
	// ErrNotFound is returned when a referenced dorm, room or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRoomFull is returned when an assignment would exceed a room's capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when the provided credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	Authenticate(ctx context.Context, email, password string) (model.User, error)
	CreateUser(ctx context.Context, email, name, password string) (model.User, error)
	UserByID(ctx context.Context, id string) (model.User, error)

	Dorms(ctx context.Context) ([]model.Dorm, error)
	RoomsByDorm(ctx context.Context, dormID string) ([]model.Room, error)

	AssignRoom(ctx context.Context, userID, roomID string) error
	UnassignRoom(ctx context.Context, userID string) error

	CreateDorm(ctx context.Context, name string) (model.Dorm, error)
	CreateRoom(ctx context.Context, dormID, number string, capacity int) (model.Room, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Authenticate verifies an email/password pair against the stored bcrypt hash.
func (s *gormStore) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to look up user %q: %w", email, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *gormStore) CreateUser(ctx context.Context, email, name, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Create(&user).Error
	if err != nil {
		var existing model.User
		if s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error == nil {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user %q: %w", email, err)
	}
	return user, nil
}

func (s *gormStore) UserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to look up user %s: %w", id, err)
	}
	return user, nil
}

func (s *gormStore) Dorms(ctx context.Context) ([]model.Dorm, error) {
	var dorms []model.Dorm
	if err := s.db.WithContext(ctx).Order("name").Find(&dorms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve dorms: %w", err)
	}
	return dorms, nil
}

// RoomsByDorm returns all rooms of a dorm with their occupants preloaded.
func (s *gormStore) RoomsByDorm(ctx context.Context, dormID string) ([]model.Room, error) {
	var dorm model.Dorm
	err := s.db.WithContext(ctx).First(&dorm, "id = ?", dormID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up dorm %s: %w", dormID, err)
	}

	var rooms []model.Room
	err = s.db.WithContext(ctx).
		Preload("Occupants").
		Where("dorm_id = ?", dormID).
		Order("number").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms for dorm %s: %w", dormID, err)
	}
	return rooms, nil
}

// AssignRoom binds the user to the room, releasing any prior assignment.
// The capacity check and the user update run in one transaction, and the
// room row is locked for its duration: under READ COMMITTED two concurrent
// assigns would otherwise both count a free slot and overfill the room.
// SQLite has no FOR UPDATE in its grammar and a single writer, so the lock
// clause is skipped there.
func (s *gormStore) AssignRoom(ctx context.Context, userID, roomID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomQuery := tx
		if tx.Dialector.Name() == "postgres" {
			roomQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var room model.Room
		err := roomQuery.First(&room, "id = ?", roomID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up room %s: %w", roomID, err)
		}

		var user model.User
		err = tx.First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up user %s: %w", userID, err)
		}

		// Re-assigning to the current room is a no-op.
		if user.RoomID != nil && *user.RoomID == roomID {
			return nil
		}

		var occupants int64
		if err := tx.Model(&model.User{}).Where("room_id = ?", roomID).Count(&occupants).Error; err != nil {
			return fmt.Errorf("failed to count occupants of room %s: %w", roomID, err)
		}
		if occupants >= int64(room.Capacity) {
			return ErrRoomFull
		}

		if err := tx.Model(&user).Update("room_id", roomID).Error; err != nil {
			return fmt.Errorf("failed to assign user %s to room %s: %w", userID, roomID, err)
		}
		return nil
	})
}

// UnassignRoom clears the user's assignment. Unassigning a user who has no
// room succeeds without touching anything.
func (s *gormStore) UnassignRoom(ctx context.Context, userID string) error {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}

	if user.RoomID == nil {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("room_id", nil).Error; err != nil {
		return fmt.Errorf("failed to unassign user %s: %w", userID, err)
	}
	return nil
}

func (s *gormStore) CreateDorm(ctx context.Context, name string) (model.Dorm, error) {
	dorm := model.Dorm{ID: uuid.NewString(), Name: name}
	if err := s.db.WithContext(ctx).Create(&dorm).Error; err != nil {
		return model.Dorm{}, fmt.Errorf("failed to create dorm %q: %w", name, err)
	}
	return dorm, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, dormID, number string, capacity int) (model.Room, error) {
	if capacity < 1 {
		return model.Room{}, fmt.Errorf("room capacity must be at least 1, got %d", capacity)
	}
	room := model.Room{ID: uuid.NewString(), DormID: dormID, Number: number, Capacity: capacity}
	if err := s.db.WithContext(ctx).Create(&room).Error; err != nil {
		return model.Room{}, fmt.Errorf("failed to create room %q in dorm %s: %w", number, dormID, err)
	}
	return room, nil
}
