package utils

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// ClampPerPage keeps page sizes between 1 and 100, defaulting to 10.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return 10
	case perPage > 100:
		return 100
	default:
		return perPage
	}
}
