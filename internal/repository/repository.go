package repository

import (
	"context"

	"github.com/medstore/api/internal/domain"
)

// UserRepository persists operator accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// MedicineRepository persists inventory records.
type MedicineRepository interface {
	CreateMedicine(ctx context.Context, medicine *domain.Medicine) error
	UpdateMedicine(ctx context.Context, medicine *domain.Medicine) error
	DeleteMedicine(ctx context.Context, id string) (*domain.Medicine, error)
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	SearchMedicinesByName(ctx context.Context, fragment string) ([]domain.Medicine, error)
}
