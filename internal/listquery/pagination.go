package listquery

// Pagination describes a result page. TotalItems always reflects the filter
// with pagination not applied.
type Pagination struct {
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Paginate computes the metadata for a total count under the requested
// options. The page=0 sentinel reports one page containing everything.
func Paginate(total int, o Options) Pagination {
	if o.Page == PageAll {
		return Pagination{
			TotalItems:   total,
			TotalPages:   1,
			CurrentPage:  1,
			ItemsPerPage: total,
		}
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	pages := 0
	if o.Limit > 0 {
		pages = (total + o.Limit - 1) / o.Limit
	}
	return Pagination{
		TotalItems:   total,
		TotalPages:   pages,
		CurrentPage:  page,
		ItemsPerPage: o.Limit,
	}
}
