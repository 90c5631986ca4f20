package authoring

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

func nowUTC() time.Time { return time.Now().UTC() }

// nextPosition returns max(position)+1 for the scoped query, or 0 when empty.
func nextPosition(q *gorm.DB) (int, error) {
	var maxPos sql.NullInt64
	if err := q.Select("MAX(position)").Row().Scan(&maxPos); err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64) + 1, nil
}
