package offsetpager

const (
	MaxPageSize     = 100
	DefaultPageSize = 10
)

func IsNormalizedPageSizeMax(pageSize int, maxPageSize int) (int, bool) {
	if pageSize <= 0 {
		return DefaultPageSize, false
	} else if pageSize > maxPageSize {
		return maxPageSize, false
	}

	return pageSize, true
}

func NormalizePageSizeMax(pageSize int, maxPageSize int) int {
	ret, _ := IsNormalizedPageSizeMax(pageSize, maxPageSize)
	return ret
}

func NormalizePageSize(pageSize int) int {
	return NormalizePageSizeMax(pageSize, MaxPageSize)
}
