package models

import "time"

// DefaultCategory — категория, присваиваемая товару, если она не указана.
const DefaultCategory = "Outros"

// Product представляет товар, принадлежащий одному пользователю.
// Price может быть nil — цена не указана.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       *float64
	Category    string
	Quantity    int
	IsAvailable bool
	UserID      int64 // Владелец товара
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch описывает частичное изменение товара.
// Nil-поле означает, что значение не меняется. ClearPrice сбрасывает цену.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	ClearPrice  bool
	Category    *string
	Quantity    *int
	IsAvailable *bool
}

// Apply применяет изменения к товару.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.ClearPrice {
		product.Price = nil
	} else if p.Price != nil {
		price := *p.Price
		product.Price = &price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.IsAvailable != nil {
		product.IsAvailable = *p.IsAvailable
	}
}
