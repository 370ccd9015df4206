// database/repository.go - Generic entity repository
package database

import (
	"gorm.io/gorm"
)

// Repository is a thin generic CRUD wrapper over the shared gorm handle.
// The backing table comes from the model's TableName method, so callers
// deal only in entity types. Services with multi-entity invariants (attempt
// plus points) use explicit transactions instead of this wrapper.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository returns a repository bound to the given handle. Pass nil
// to use the process-wide connection.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	if db == nil {
		db = GetDB()
	}
	return &Repository[T]{db: db}
}

// List returns up to limit records, ordered by sort ("" keeps table order).
func (r *Repository[T]) List(limit int, sort string) ([]T, error) {
	var out []T
	q := r.db.Model(new(T))
	if sort != "" {
		q = q.Order(sort)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// Filter returns records matching every column=value pair in filters.
func (r *Repository[T]) Filter(filters map[string]any, limit int, sort string) ([]T, error) {
	var out []T
	q := r.db.Model(new(T)).Where(filters)
	if sort != "" {
		q = q.Order(sort)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// Get fetches one record by primary key.
func (r *Repository[T]) Get(id uint) (*T, error) {
	var out T
	if err := r.db.First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Create inserts a record.
func (r *Repository[T]) Create(record *T) error {
	return r.db.Create(record).Error
}

// Update saves all fields of a record.
func (r *Repository[T]) Update(record *T) error {
	return r.db.Save(record).Error
}

// Delete removes a record by primary key.
func (r *Repository[T]) Delete(id uint) error {
	return r.db.Delete(new(T), id).Error
}

// BulkCreate inserts records in batches of batchSize.
func (r *Repository[T]) BulkCreate(records []T, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return r.db.CreateInBatches(records, batchSize).Error
}

// Count returns the number of records matching filters (nil counts all).
func (r *Repository[T]) Count(filters map[string]any) (int64, error) {
	var n int64
	q := r.db.Model(new(T))
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	err := q.Count(&n).Error
	return n, err
}
