package handler

import "github.com/gbpdash/backend/internal/interfaces/http/dto"

const maxPageSize = 100

// pageDefaults fills missing pagination values
func pageDefaults(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = dto.DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
