package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"customer-svc/internal/loaders"
	"customer-svc/internal/types"
)

// Store is the record store contract the service depends on. The Postgres
// implementation below is the production one; tests substitute fakes.
type Store interface {
	List(ctx context.Context, p ListParams) ([]types.Customer, error)
	GetByID(ctx context.Context, id string) (types.Customer, error)
	Insert(ctx context.Context, rec types.Customer) (types.Customer, error)
	Update(ctx context.Context, id string, fields UpdateFields) (types.Customer, error)
	Delete(ctx context.Context, id string) error
}

const customerColumns = "id, name, email, phone, address, dob, nationality, country, photo_url, created_at"

type PostgresStore struct {
	db *loaders.PostgresClient
}

func NewPostgresStore(db *loaders.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, p ListParams) ([]types.Customer, error) {
	query := "SELECT " + customerColumns + " FROM customers"

	var (
		conds []string
		args  []interface{}
	)
	if p.Nationality != "" {
		args = append(args, p.Nationality)
		conds = append(conds, fmt.Sprintf("nationality = $%d", len(args)))
	}
	if p.StartDate != "" && p.EndDate != "" {
		args = append(args, p.StartDate)
		conds = append(conds, fmt.Sprintf("created_at >= $%d::date", len(args)))
		args = append(args, p.EndDate)
		conds = append(conds, fmt.Sprintf("created_at <= $%d::date", len(args)))
	}
	if p.Search != "" {
		args = append(args, p.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%')", n, n))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var records []types.Customer
	for rows.Next() {
		rec, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (types.Customer, error) {
	row := s.db.Pool.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	rec, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Customer{}, fmt.Errorf("customer %s: %w", id, types.ErrNotFound)
		}
		return types.Customer{}, fmt.Errorf("select customer %s: %w", id, err)
	}
	return rec, nil
}

func (s *PostgresStore) Insert(ctx context.Context, rec types.Customer) (types.Customer, error) {
	row := s.db.Pool.QueryRow(ctx,
		`INSERT INTO customers (id, name, email, phone, address, dob, nationality, country, photo_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+customerColumns,
		uuid.NewString(), rec.Name, rec.Email, rec.Phone, rec.Address, rec.Dob,
		string(rec.Nationality), rec.Country, nullIfEmpty(rec.PhotoURL))

	inserted, err := scanCustomer(row)
	if err != nil {
		return types.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return inserted, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, fields UpdateFields) (types.Customer, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Phone != nil {
		add("phone", *fields.Phone)
	}
	if fields.Address != nil {
		add("address", *fields.Address)
	}
	if fields.Dob != nil {
		add("dob", *fields.Dob)
	}
	if fields.Nationality != nil {
		add("nationality", *fields.Nationality)
	}
	if fields.Country != nil {
		add("country", *fields.Country)
	}
	if fields.PhotoURL != nil {
		add("photo_url", *fields.PhotoURL)
	}
	if len(sets) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), customerColumns)

	row := s.db.Pool.QueryRow(ctx, query, args...)
	updated, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Customer{}, fmt.Errorf("customer %s: %w", id, types.ErrNotFound)
		}
		return types.Customer{}, fmt.Errorf("update customer %s: %w", id, err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func scanCustomer(row pgx.Row) (types.Customer, error) {
	var (
		rec      types.Customer
		photoURL *string
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Address,
		&rec.Dob, &rec.Nationality, &rec.Country, &photoURL, &rec.CreatedAt)
	if err != nil {
		return types.Customer{}, err
	}
	if photoURL != nil {
		rec.PhotoURL = *photoURL
	}
	return rec, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
