package echoapi

import "github.com/trezcool/eduportal/core"

// pageResponse is the envelope of every paginated listing.
type pageResponse struct {
	Results    interface{} `json:"results"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

func newPageResponse(page core.Page, pageNum, pageSize int) pageResponse {
	if pageNum < 1 {
		pageNum = 1
	}
	return pageResponse{
		Results:    page.Rows,
		TotalCount: page.TotalCount,
		Page:       pageNum,
		PageSize:   pageSize,
	}
}
