package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// applySort appends an ORDER BY clause after validating the column against a
// whitelist. Unknown columns fall back to defaultOrder verbatim, so request
// parameters can never reach the SQL text.
func applySort(query *gorm.DB, column, direction, defaultOrder string, allowed map[string]string) *gorm.DB {
	col, ok := allowed[strings.ToLower(strings.TrimSpace(column))]
	if !ok {
		return query.Order(defaultOrder)
	}
	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		dir = "DESC"
	}
	return query.Order(fmt.Sprintf("%s %s", col, dir))
}
