package repositories

import "lapaklaptop/internal/models"

// UserRepository defines the interface for admin user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Delete(id string) error
}
