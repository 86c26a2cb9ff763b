package database

import "gorm.io/gorm"

// The helpers below are the store adapter contract: everything the
// repository persists goes through an insert, a delete-by-predicate, or a
// sorted fetch, each committed via the surrounding transaction. They accept
// a *gorm.DB so they compose with db.Transaction.

func Insert[T any](db *gorm.DB, row *T) error {
	return db.Create(row).Error
}

func DeleteWhere[T any](db *gorm.DB, query string, args ...any) error {
	var zero T
	return db.Where(query, args...).Delete(&zero).Error
}

// FetchSorted returns all rows of T ordered by the given sort-key
// composition, e.g. "last_name, first_name".
func FetchSorted[T any](db *gorm.DB, order string) ([]T, error) {
	var rows []T
	if err := db.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
