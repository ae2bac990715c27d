package pagination

// Meta describes one page of a list response. Pages is the total page count
// for the filtered result set, computed as ceil(Total/Limit).
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func NewMeta(page, limit, total int) Meta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// Skip returns the number of records to skip for a 1-based page.
func Skip(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
