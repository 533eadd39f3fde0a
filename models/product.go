package models

import "time"

type Product struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CategoryID   int       `json:"category_id"`
	UserID       int       `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CategoryName string    `json:"category_name"`
	SellerName   string    `json:"seller_name"`
}

type ProductFilter struct {
	Category string
	Search   string
	SellerID int
}

type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	CategoryID  int      `json:"category_id" binding:"required,gt=0"`
	ImageURL    string   `json:"image_url"`
}

// UpdateProductRequest carries only the fields the caller wants to change;
// nil fields keep their stored value.
type UpdateProductRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	CategoryID  *int     `json:"category_id" binding:"omitempty,gt=0"`
	ImageURL    *string  `json:"image_url"`
}

func (r UpdateProductRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Price == nil && r.CategoryID == nil && r.ImageURL == nil
}

// Apply overwrites the supplied fields on p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.CategoryID != nil {
		p.CategoryID = *r.CategoryID
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
}
