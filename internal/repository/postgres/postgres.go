package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medstore/api/internal/domain"
	"github.com/medstore/api/internal/repository"
)

const uniqueViolationCode = "23505"

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository     = (*Repository)(nil)
	_ repository.MedicineRepository = (*Repository)(nil)
)

// CreateUser inserts a user. The unique index on username resolves
// concurrent signups for the same name; the loser gets ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetUserByUsername fetches a user by exact username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	row := r.pool.QueryRow(ctx, query, username)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateMedicine inserts an inventory record.
func (r *Repository) CreateMedicine(ctx context.Context, medicine *domain.Medicine) error {
	const query = `INSERT INTO medicines (id, name, price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query, medicine.ID, medicine.Name, medicine.Price, medicine.Quantity, medicine.CreatedAt)
	return err
}

// UpdateMedicine replaces name, price and quantity on an existing record.
func (r *Repository) UpdateMedicine(ctx context.Context, medicine *domain.Medicine) error {
	const query = `UPDATE medicines SET name = $2, price = $3, quantity = $4
		WHERE id = $1
		RETURNING created_at`
	row := r.pool.QueryRow(ctx, query, medicine.ID, medicine.Name, medicine.Price, medicine.Quantity)
	if err := row.Scan(&medicine.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteMedicine removes a record and returns what was deleted.
func (r *Repository) DeleteMedicine(ctx context.Context, id string) (*domain.Medicine, error) {
	const query = `DELETE FROM medicines WHERE id = $1
		RETURNING id, name, price, quantity, created_at`
	row := r.pool.QueryRow(ctx, query, id)
	var m domain.Medicine
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Quantity, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMedicines returns all records in insertion order.
func (r *Repository) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	const query = `SELECT id, name, price, quantity, created_at FROM medicines ORDER BY created_at`
	return r.queryMedicines(ctx, query)
}

// SearchMedicinesByName returns records whose name contains the fragment,
// case-insensitively. An empty fragment matches everything.
func (r *Repository) SearchMedicinesByName(ctx context.Context, fragment string) ([]domain.Medicine, error) {
	const query = `SELECT id, name, price, quantity, created_at FROM medicines
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at`
	return r.queryMedicines(ctx, query, fragment)
}

func (r *Repository) queryMedicines(ctx context.Context, query string, args ...any) ([]domain.Medicine, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medicines := make([]domain.Medicine, 0)
	for rows.Next() {
		var m domain.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Quantity, &m.CreatedAt); err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
