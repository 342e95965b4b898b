package core

// Fixed listing page sizes.
const (
	UserPageSize  = 10
	AuditPageSize = 15
)

// Page is the uniform paginated listing response: the current page of rows
// plus the total row count across all pages.
type Page struct {
	Rows       interface{} `json:"rows"`
	TotalCount int         `json:"total_count"`
}

// Offset converts a 1-based page number into a row offset.
// Page numbers < 1 are treated as page 1.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
