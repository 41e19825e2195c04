package dto

import "github.com/SscSPs/bizdesk/internal/core/domain"

// ListQuery is the query string accepted by every list endpoint.
type ListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ToParams converts the query into normalized list parameters.
func (q ListQuery) ToParams() domain.ListParams {
	return domain.ListParams{Search: q.Search, Page: q.Page, PageSize: q.PageSize}.Normalize()
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
