package offsetpager

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Scope narrows a query to the paged dataset: model or table, joins and WHERE
// conditions. The same scope must back both the count and the window of one
// PagingSource, otherwise the reported counts drift from the returned rows.
type Scope = func(*gorm.DB) *gorm.DB

// CountFunc reports the number of rows currently matching the dataset's
// filter. The passed handle is the read transaction of the current load.
type CountFunc func(tx *gorm.DB) (int64, error)

// WindowFunc fetches at most limit rows of the dataset starting at offset,
// in the dataset's ordering. The passed handle is the read transaction of the
// current load.
type WindowFunc[T any] func(tx *gorm.DB, limit int, offset int) ([]T, error)

// CountOf builds a CountFunc over the given scope.
func CountOf(scope Scope) CountFunc {
	return func(tx *gorm.DB) (int64, error) {
		var total int64
		err := scope(tx).Count(&total).Error
		if err != nil {
			return 0, err
		}

		return total, nil
	}
}

// WindowOf builds a WindowFunc over the given scope. The ordering must be
// deterministic (include at least one unique column), otherwise offsets are
// not stable between loads.
func WindowOf[T any](scope Scope, sort Orderings) WindowFunc[T] {
	return func(tx *gorm.DB, limit int, offset int) ([]T, error) {
		err := sort.validate()
		if err != nil {
			return nil, fmt.Errorf("cannot fetch window: %w", err)
		}

		var items []T
		err = sort.Apply(scope(tx)).Limit(limit).Offset(offset).Find(&items).Error
		if err != nil {
			return nil, err
		}

		return items, nil
	}
}

// MappedWindow adapts a WindowFunc over raw rows into one producing items.
// Use it to keep the query shape (RowType) separate from what the consumer
// renders (ItemType).
func MappedWindow[RowType any, ItemType any](
	window WindowFunc[RowType],
	mapFn func(RowType) ItemType,
) WindowFunc[ItemType] {
	return func(tx *gorm.DB, limit int, offset int) ([]ItemType, error) {
		rows, err := window(tx, limit, offset)
		if err != nil {
			return nil, err
		}

		return lo.Map(rows, func(row RowType, _ int) ItemType {
			return mapFn(row)
		}), nil
	}
}
