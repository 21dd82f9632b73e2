package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"recovr/internal/storage"
)

// Filter narrows candidate queries. Zero values leave a dimension open.
type Filter struct {
	Status   Status
	Category Category
	DateFrom time.Time
	DateTo   time.Time
	// Location radius filtering is accepted for forward compatibility but not
	// applied; items carry no coordinates yet.
	Location string
	Radius   float64
}

// Store provides read/write access to catalog items.
type Store struct {
	db *storage.DB
}

// NewStore wraps the shared database handle.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

const itemColumns = "id, name, description, status, category, location, image_url, reported_by, reported_at"

// Insert adds a new item and returns it with its assigned identifier.
func (s *Store) Insert(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	if item.ReportedAt.IsZero() {
		item.ReportedAt = time.Now().UTC()
	}
	var reportedBy any
	if item.ReportedBy != nil {
		reportedBy = *item.ReportedBy
	}
	res, err := s.db.Exec(
		ctx,
		`INSERT INTO items (name, description, status, category, location, image_url, reported_by, reported_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name,
		storage.NullableString(item.Description),
		item.Status,
		storage.NullableString(string(item.Category)),
		storage.NullableString(item.Location),
		storage.NullableString(item.ImageURL),
		reportedBy,
		storage.FormatTime(item.ReportedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches an item by identifier. Returns nil when unknown.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ItemsByStatus returns items matching a status ordered by report time.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	rows, err := s.db.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE status = ? ORDER BY reported_at, id`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ItemsWithImages returns items carrying an image reference, filtered by the
// optional status/category/date dimensions, ordered by report time. The
// location-radius filter is a declared no-op.
func (s *Store) ItemsWithImages(ctx context.Context, filter Filter) ([]*Item, error) {
	builder := sq.Select(itemColumns).
		From("items").
		Where("image_url IS NOT NULL AND image_url != ''").
		OrderBy("reported_at", "id")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if !filter.DateFrom.IsZero() {
		builder = builder.Where(sq.GtOrEq{"reported_at": storage.FormatTime(filter.DateFrom)})
	}
	if !filter.DateTo.IsZero() {
		builder = builder.Where(sq.LtOrEq{"reported_at": storage.FormatTime(filter.DateTo)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items with images: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// UpdateStatus moves an item to a new lifecycle status.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := s.db.Exec(ctx, `UPDATE items SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %d not found", id)
	}
	return nil
}

// Stats returns a count of items grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.Query(ctx, `SELECT status, COUNT(1) FROM items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id          int64
		name        string
		description sql.NullString
		statusStr   string
		category    sql.NullString
		location    sql.NullString
		imageURL    sql.NullString
		reportedBy  sql.NullInt64
		reportedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&description,
		&statusStr,
		&category,
		&location,
		&imageURL,
		&reportedBy,
		&reportedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          id,
		Name:        name,
		Description: description.String,
		Status:      Status(statusStr),
		Category:    Category(category.String),
		Location:    location.String,
		ImageURL:    imageURL.String,
	}
	if reportedBy.Valid {
		value := reportedBy.Int64
		item.ReportedBy = &value
	}
	if reported, err := storage.ParseTime(reportedRaw.String); err == nil {
		item.ReportedAt = reported
	}
	return item, nil
}
