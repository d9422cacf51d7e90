package repository

import (
	"context"
	"strings"

	"sanogestion/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cascade removes rows depending on a parent about to be deleted. It runs
// on the transaction that deletes the parent.
type Cascade func(tx *gorm.DB, parentID uint) error

// Schema describes how an entity table is searched, filtered, ordered and deleted.
type Schema struct {
	// SearchColumns are matched with a case-insensitive substring test, OR-joined.
	SearchColumns []string
	// Filters whitelists the columns accepted as exact-match filters.
	Filters  []string
	Order    string
	Preloads []string
	Cascades []Cascade
}

// ListQuery selects one page of an entity listing.
type ListQuery struct {
	Search  string
	Filters map[string]string
	Scope   func(*gorm.DB) *gorm.DB
	Page    pagination.Params
}

// EntityRepository is the uniform CRUD contract shared by every business entity.
type EntityRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*T, error)
	FindByIDs(ctx context.Context, ids []uint) ([]T, error)
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	Exists(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error)
}

type entityRepository[T any] struct {
	db     *gorm.DB
	schema Schema
}

func NewEntityRepository[T any](db *gorm.DB, schema Schema) EntityRepository[T] {
	if schema.Order == "" {
		schema.Order = "id ASC"
	}
	return &entityRepository[T]{db: db, schema: schema}
}

func (r *entityRepository[T]) Create(ctx context.Context, entity *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(entity).Error
}

func (r *entityRepository[T]) Update(ctx context.Context, entity *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(entity).Error
}

func (r *entityRepository[T]) Delete(ctx context.Context, id uint) error {
	db := GetDB(ctx, r.db)
	for _, cascade := range r.schema.Cascades {
		if err := cascade(db, id); err != nil {
			return err
		}
	}
	res := db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *entityRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.preload(GetDB(ctx, r.db)).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepository[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	var entities []T
	if len(ids) == 0 {
		return entities, nil
	}
	err := r.preload(GetDB(ctx, r.db)).Where("id IN ?", ids).Order("id ASC").Find(&entities).Error
	return entities, err
}

func (r *entityRepository[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	var entities []T
	var total int64

	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Page.Limit
	if limit <= 0 {
		limit = pagination.PageSize
	}
	err := r.preload(r.filtered(ctx, q)).
		Order(r.schema.Order).
		Offset(q.Page.Offset).
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *entityRepository[T]) Exists(ctx context.Context, column string, value interface{}, excludeID uint) (bool, error) {
	var count int64
	q := GetDB(ctx, r.db).Model(new(T)).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *entityRepository[T]) filtered(ctx context.Context, q ListQuery) *gorm.DB {
	db := GetDB(ctx, r.db).Model(new(T))

	if term := strings.TrimSpace(q.Search); term != "" && len(r.schema.SearchColumns) > 0 {
		like := "%" + strings.ToLower(term) + "%"
		conds := make([]string, 0, len(r.schema.SearchColumns))
		args := make([]interface{}, 0, len(r.schema.SearchColumns))
		for _, col := range r.schema.SearchColumns {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for _, col := range r.schema.Filters {
		if v := strings.TrimSpace(q.Filters[col]); v != "" {
			db = db.Where(col+" = ?", v)
		}
	}

	if q.Scope != nil {
		db = q.Scope(db)
	}
	return db
}

func (r *entityRepository[T]) preload(db *gorm.DB) *gorm.DB {
	for _, p := range r.schema.Preloads {
		db = db.Preload(p)
	}
	return db
}

// DeleteWhere builds a cascade removing rows of m matching cond (one placeholder for the parent id).
func DeleteWhere(m interface{}, cond string) Cascade {
	return func(tx *gorm.DB, parentID uint) error {
		return tx.Where(cond, parentID).Delete(m).Error
	}
}
