package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/utils"
)

// RiderService manages the rider directory and rider self-service updates.
type RiderService struct {
	db *gorm.DB
}

// NewRiderService constructs RiderService.
func NewRiderService(db *gorm.DB) *RiderService {
	return &RiderService{db: db}
}

// CreateRiderInput holds the fields an admin supplies for a new rider.
type CreateRiderInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// UpdateRiderInput is an admin patch; nil fields are left unchanged.
type UpdateRiderInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Status   *models.RiderStatus
}

// CreateRider registers a new rider with a hashed password.
func (s *RiderService) CreateRider(ctx context.Context, in CreateRiderInput) (*models.Rider, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || strings.TrimSpace(in.Phone) == "" || in.Password == "" {
		return nil, newError(ErrValidation, "name, email, phone and password are required")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	rider := models.Rider{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Status:       models.RiderStatusAvailable,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRiderEmailFree(tx, email, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(&rider).Error
	})
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

// Authenticate checks rider credentials.
func (s *RiderService) Authenticate(ctx context.Context, email, password string) (*models.Rider, error) {
	var rider models.Rider
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&rider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if !utils.CheckPassword(rider.PasswordHash, password) {
		return nil, newError(ErrUnauthorized, "invalid credentials")
	}
	return &rider, nil
}

// GetRider loads a rider with its active orders.
func (s *RiderService) GetRider(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	return loadRider(s.db.WithContext(ctx), id)
}

// ListRiders returns every rider with active orders preloaded.
func (s *RiderService) ListRiders(ctx context.Context) ([]models.Rider, error) {
	var riders []models.Rider
	err := s.db.WithContext(ctx).
		Preload("ActiveOrders.Order").
		Order("created_at desc").
		Find(&riders).Error
	return riders, err
}

// UpdateRider applies an admin patch.
func (s *RiderService) UpdateRider(ctx context.Context, id uuid.UUID, in UpdateRiderInput) (*models.Rider, error) {
	updates := map[string]any{}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, newError(ErrValidation, "name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		if strings.TrimSpace(*in.Phone) == "" {
			return nil, newError(ErrValidation, "phone must not be empty")
		}
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, newError(ErrInvalidStatus, "invalid status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, newError(ErrValidation, "%s", err.Error())
		}
		updates["password_hash"] = hash
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rider, err := loadRider(tx, id)
		if err != nil {
			return err
		}

		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			if email == "" {
				return newError(ErrValidation, "email must not be empty")
			}
			if err := ensureRiderEmailFree(tx, email, id); err != nil {
				return err
			}
			updates["email"] = email
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(rider).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetRider(ctx, id)
}

// UpdateStatus sets the rider's availability.
func (s *RiderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RiderStatus) (*models.Rider, error) {
	if !status.Valid() {
		return nil, newError(ErrInvalidStatus, "invalid status %q", status)
	}
	return s.UpdateRider(ctx, id, UpdateRiderInput{Status: &status})
}

// UpdateLocation stores the rider's position given as [longitude, latitude].
func (s *RiderService) UpdateLocation(ctx context.Context, id uuid.UUID, coordinates []float64) (*models.Rider, error) {
	if len(coordinates) != 2 {
		return nil, newError(ErrInvalidInput, "coordinates must be [longitude, latitude]")
	}
	lng, lat := coordinates[0], coordinates[1]
	if math.IsNaN(lng) || math.IsNaN(lat) || lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return nil, newError(ErrInvalidInput, "coordinates out of range")
	}

	res := s.db.WithContext(ctx).Model(&models.Rider{}).Where("id = ?", id).Updates(map[string]any{
		"location_longitude": lng,
		"location_latitude":  lat,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("rider")
	}

	return s.GetRider(ctx, id)
}

// reassignRider points order at rider, moving it off any previous rider's
// active list. Assigning the current rider again is a no-op.
func reassignRider(tx *gorm.DB, order *models.Order, rider *models.Rider) error {
	if order.RiderID != nil && *order.RiderID == rider.ID {
		return nil
	}
	if rider.Status != models.RiderStatusAvailable {
		return newError(ErrConflict, "rider %s is %s", rider.Name, rider.Status)
	}

	if order.RiderID != nil {
		if err := releaseRider(tx, *order.RiderID, order.ID); err != nil {
			return err
		}
	}

	assignment := models.RiderActiveOrder{RiderID: rider.ID, OrderID: order.ID, AssignedAt: time.Now()}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment).Error; err != nil {
		return err
	}

	order.RiderID = &rider.ID
	order.Rider = rider
	return nil
}

// releaseRider drops order from the rider's active list.
func releaseRider(tx *gorm.DB, riderID, orderID uuid.UUID) error {
	return tx.Where("rider_id = ? AND order_id = ?", riderID, orderID).Delete(&models.RiderActiveOrder{}).Error
}

func loadRider(db *gorm.DB, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	if err := db.Preload("ActiveOrders").First(&rider, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("rider")
		}
		return nil, err
	}
	return &rider, nil
}

func ensureRiderEmailFree(tx *gorm.DB, email string, self uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Rider{}).Where("email = ? AND id <> ?", email, self).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return newError(ErrConflict, "rider with this email already exists")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
