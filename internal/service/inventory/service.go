package inventory

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/medstore/api/internal/domain"
	"github.com/medstore/api/internal/repository"
)

var (
	// ErrMissingFields is returned when name, price or quantity is absent.
	// A zero price or quantity counts as absent.
	ErrMissingFields = errors.New("name, price, and quantity are required")
	// ErrMedicineNotFound is returned when no record has the given id.
	ErrMedicineNotFound = errors.New("medicine not found")
)

// Service manages the medicine inventory.
type Service struct {
	medicines repository.MedicineRepository
	logger    *slog.Logger
}

// New constructs a Service.
func New(medicines repository.MedicineRepository, logger *slog.Logger) Service {
	return Service{medicines: medicines, logger: logger}
}

// Create persists a new medicine record and returns it.
func (s Service) Create(ctx context.Context, name string, price float64, quantity int64) (*domain.Medicine, error) {
	if err := validateFields(name, price, quantity); err != nil {
		return nil, err
	}
	medicine := &domain.Medicine{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.medicines.CreateMedicine(ctx, medicine); err != nil {
		return nil, err
	}
	s.logger.Info("medicine added", "medicine_id", medicine.ID, "name", medicine.Name)
	return medicine, nil
}

// Update replaces name, price and quantity on the record identified by id.
func (s Service) Update(ctx context.Context, id, name string, price float64, quantity int64) (*domain.Medicine, error) {
	if err := validateFields(name, price, quantity); err != nil {
		return nil, err
	}
	medicine := &domain.Medicine{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
	if err := s.medicines.UpdateMedicine(ctx, medicine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	s.logger.Info("medicine updated", "medicine_id", medicine.ID)
	return medicine, nil
}

// Delete removes the record identified by id and returns it.
func (s Service) Delete(ctx context.Context, id string) (*domain.Medicine, error) {
	medicine, err := s.medicines.DeleteMedicine(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	s.logger.Info("medicine deleted", "medicine_id", medicine.ID)
	return medicine, nil
}

// List returns every record in the inventory.
func (s Service) List(ctx context.Context) ([]domain.Medicine, error) {
	return s.medicines.ListMedicines(ctx)
}

// Search returns records whose name contains the fragment, ignoring case.
// An empty fragment matches the whole inventory.
func (s Service) Search(ctx context.Context, nameFragment string) ([]domain.Medicine, error) {
	return s.medicines.SearchMedicinesByName(ctx, nameFragment)
}

func validateFields(name string, price float64, quantity int64) error {
	if name == "" || price == 0 || quantity == 0 {
		return ErrMissingFields
	}
	return nil
}
