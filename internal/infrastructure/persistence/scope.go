package persistence

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantScope restricts a query to one tenant's rows
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// whereLocation narrows to one location when locationID is set
func whereLocation(db *gorm.DB, locationID *uuid.UUID) *gorm.DB {
	if locationID == nil {
		return db
	}
	return db.Where("location_id = ?", *locationID)
}

// paginate applies the filter's page window
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// filterTime reads a time filter value given as time.Time or RFC 3339 string
func filterTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

// filterBool reads a boolean filter value given as bool or "true"/"false"
func filterBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case *bool:
		if b == nil {
			return false, false
		}
		return *b, true
	case string:
		switch b {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
