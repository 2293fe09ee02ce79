package utils

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	MaxPage         = 10000
)

// Page clamps page/pageSize and returns the matching offset.
func Page(page, pageSize int) (p, size, offset int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}
