package dto

// PublishBookRequest HTTP上架请求
type PublishBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9780134190440"`
	Title       string `json:"title" binding:"required,max=200" example:"The Go Programming Language"`
	Author      string `json:"author" binding:"required,max=100" example:"Alan Donovan"`
	Publisher   string `json:"publisher" binding:"required,max=100" example:"Addison-Wesley"`
	Price       int64  `json:"price" binding:"required,min=1,max=999999" example:"3999"` // 价格(分)
	Stock       int    `json:"stock" binding:"min=0" example:"100"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500"`
	Description string `json:"description" binding:"max=5000"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword         string `form:"keyword" binding:"omitempty,max=100"`
	SortBy          string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc"`
	IncludeInactive bool   `form:"include_inactive"`
}

// SetActiveRequest 上架/下架
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
