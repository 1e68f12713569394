package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/utils"
)

// Password is the plaintext password of every fixture account.
const Password = "secret123"

// CreateUser stores an account with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:         "Test " + role,
		Email:        email,
		PasswordHash: hash(t),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

// CreateRider stores a rider with the given status.
func CreateRider(t *testing.T, db *gorm.DB, email string, status models.RiderStatus) *models.Rider {
	t.Helper()

	rider := models.Rider{
		Name:         "Rider " + email,
		Email:        email,
		Phone:        "+10000000000",
		PasswordHash: hash(t),
		Status:       status,
	}
	if err := db.Create(&rider).Error; err != nil {
		t.Fatalf("create rider: %v", err)
	}
	return &rider
}

// CreateItem stores an item priced at price. With no variations the item
// keeps stock as its own count.
func CreateItem(t *testing.T, db *gorm.DB, name, price string, stock int, variations ...models.ItemVariation) *models.Item {
	t.Helper()

	item := models.Item{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Category:   "general",
		Stock:      stock,
		Variations: variations,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return &item
}

func hash(t *testing.T) string {
	t.Helper()

	h, err := utils.HashPassword(Password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return h
}
