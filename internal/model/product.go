package model

// Product categories offered in the admin form and the catalog filter.
const (
	CategoryStillWater = "Still Water"
	CategorySparkling  = "Sparkling"
	CategoryPremium    = "Premium"
	CategoryBulk       = "Bulk"
)

// Categories lists the fixed label set, in display order.
var Categories = []string{CategoryStillWater, CategorySparkling, CategoryPremium, CategoryBulk}

// Product is a row of the products table.
type Product struct {
	BaseModel
	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Size        *string `gorm:"type:text" json:"size"`
	Price       float64 `gorm:"type:numeric;not null" json:"price"`
	Category    string  `gorm:"type:text" json:"category"`
	ImageURL    *string `gorm:"column:image_url;type:text" json:"image_url"`
	Stock       int     `gorm:"not null" json:"stock"`
	IsActive    bool    `gorm:"not null" json:"is_active"`
}

func (Product) TableName() string {
	return "products"
}

// DescriptionText returns the description or "" when absent.
func (p *Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// SizeText returns the size or "" when absent.
func (p *Product) SizeText() string {
	if p.Size == nil {
		return ""
	}
	return *p.Size
}

// Image returns the image URL or "" when absent.
func (p *Product) Image() string {
	if p.ImageURL == nil {
		return ""
	}
	return *p.ImageURL
}

// InStock reports whether any units remain.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
