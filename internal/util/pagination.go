package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	offset = (page - 1) * size
	limit = size
	return offset, limit
}

// Window turns raw page/perpage query values into offset and limit. Listing
// is unpaginated (limit 0) unless at least one of them is present.
func Window(page, perPage string) (offset int, limit int) {
	if page == "" && perPage == "" {
		return 0, 0
	}
	return Calculate(ParseIntDefault(page, 1), ParseIntDefault(perPage, DefaultPageSize))
}
