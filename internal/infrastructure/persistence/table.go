package persistence

import (
	"context"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// table holds the queries shared by the single-table aggregates: model M is
// the GORM row and D the domain entity it converts to.
type table[M, D any] struct {
	db         *gorm.DB
	name       string
	search     string // column matched by Filter.Search
	sortFields map[string]bool
	toDomain   func(*M) *D
}

func (t table[M, D]) first(ctx context.Context, id uuid.UUID, lock bool) (*D, error) {
	q := t.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row M
	if err := q.First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return t.toDomain(&row), nil
}

func (t table[M, D]) many(ctx context.Context, ids []uuid.UUID) ([]D, error) {
	if len(ids) == 0 {
		return []D{}, nil
	}
	var rows []M
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return t.convert(rows), nil
}

// page returns one filtered page ordered by the whitelisted sort field, id as tiebreak.
func (t table[M, D]) page(ctx context.Context, filter shared.Filter) ([]D, error) {
	filter = filter.Normalize()
	var rows []M
	err := t.filtered(ctx, filter).
		Order(orderClause(t.name, filter.OrderBy, filter.OrderDir, t.sortFields)).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return t.convert(rows), nil
}

func (t table[M, D]) count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := t.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// taken reports whether a row other than excludeID has column = value.
func (t table[M, D]) taken(ctx context.Context, column, value string, excludeID *uuid.UUID) (bool, error) {
	q := t.db.WithContext(ctx).Model(new(M)).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// save upserts row by primary key.
func (t table[M, D]) save(ctx context.Context, row *M) error {
	return translateError(t.db.WithContext(ctx).Save(row).Error)
}

func (t table[M, D]) remove(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).Delete(new(M), "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t table[M, D]) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	q := t.db.WithContext(ctx).Model(new(M))
	if filter.Search != "" {
		q = q.Where("LOWER("+t.name+"."+t.search+") LIKE LOWER(?)"+likeEscape, containsPattern(filter.Search))
	}
	return q
}

func (t table[M, D]) convert(rows []M) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *t.toDomain(&rows[i])
	}
	return out
}
