package store

import (
	"strings"

	"gorm.io/gorm"
)

// PageSize is the number of rows shown per list page.
const PageSize = 10

// Paginate limits a query to page (1-based) of size rows.
func Paginate(page, size int) Scope {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = PageSize
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * size).Limit(size)
	}
}

// OrderBy orders rows by a trusted column expression.
func OrderBy(expr string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Order(expr) }
}

// Search matches q case-insensitively as a substring of any of cols.
// An empty q matches everything.
func Search(q string, cols ...string) Scope {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(db *gorm.DB) *gorm.DB {
		if q == "" || len(cols) == 0 {
			return db
		}
		like := "%" + escapeLike(q) + "%"
		conds := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, c := range cols {
			conds[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
			args[i] = like
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// Where applies a plain condition.
func Where(query string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Pages returns the number of pages needed for total rows.
func Pages(total int64, size int) int {
	if size < 1 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
