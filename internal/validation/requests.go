package validation

import (
	"github.com/optbazar/storefront-api/internal/catalog"
	"github.com/optbazar/storefront-api/internal/orders"
)

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=100"`
	Price       *Number  `json:"price" validate:"required,gte=0"`
	MinOrder    *Number  `json:"minOrder" validate:"required,gte=0"`
	Unit        string   `json:"unit" validate:"max=20"`
	Description string   `json:"description" validate:"max=2000"`
	ShelfLife   string   `json:"shelfLife" validate:"max=100"`
	Allergens   string   `json:"allergens" validate:"max=500"`
	Image       string   `json:"image" validate:"max=2048"`
	Images      []string `json:"images" validate:"product_images"`
	IsFeatured  bool     `json:"isFeatured"`
	IsSlider    bool     `json:"isSlider"`
}

func (r *ProductRequest) Sanitize() {
	r.Name = Clean(r.Name)
	r.Category = Clean(r.Category)
	r.Unit = Clean(r.Unit)
	r.Description = Clean(r.Description)
	r.ShelfLife = Clean(r.ShelfLife)
	r.Allergens = Clean(r.Allergens)
	r.Image = Clean(r.Image)
	images := r.Images[:0]
	for _, img := range r.Images {
		if img = Clean(img); img != "" {
			images = append(images, img)
		}
	}
	r.Images = images
}

func (r ProductRequest) Build() catalog.Product {
	return catalog.Product{
		Name:        r.Name,
		Category:    r.Category,
		Price:       r.Price.Float(),
		MinOrder:    r.MinOrder.Float(),
		Unit:        r.Unit,
		Description: r.Description,
		ShelfLife:   r.ShelfLife,
		Allergens:   r.Allergens,
		Image:       r.Image,
		Images:      r.Images,
		IsFeatured:  r.IsFeatured,
		IsSlider:    r.IsSlider,
	}
}

// OrderItem is a single order line.
type OrderItem struct {
	ProductID string  `json:"productId" validate:"required,max=64"`
	Name      string  `json:"name" validate:"required,max=200"`
	Price     *Number `json:"price" validate:"required,gte=0"`
	Quantity  *Number `json:"quantity" validate:"required,gt=0"`
}

type CustomerInfo struct {
	Name       string  `json:"name" validate:"max=200"`
	Phone      string  `json:"phone" validate:"required,max=50"`
	Address    string  `json:"address" validate:"max=500"`
	TelegramID *Number `json:"telegramId"`
}

// CreateOrderRequest is the payload for POST /api/orders. The checkout form
// sends the customer as flat client* fields; they fill customerInfo gaps.
type CreateOrderRequest struct {
	Items         []OrderItem  `json:"items" validate:"required,min=1,max=200,dive"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	ClientName    string       `json:"clientName"`
	ClientPhone   string       `json:"clientPhone"`
	ClientAddress string       `json:"clientAddress"`
	TotalAmount   *Number      `json:"totalAmount" validate:"required,gte=0"`
	Comments      string       `json:"comments" validate:"max=2000"`
	OrderSource   string       `json:"orderSource" validate:"omitempty,oneof=web telegram"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (r *CreateOrderRequest) Sanitize() {
	ci := &r.CustomerInfo
	ci.Name = Clean(firstNonEmpty(ci.Name, r.ClientName))
	ci.Phone = Clean(firstNonEmpty(ci.Phone, r.ClientPhone))
	ci.Address = Clean(firstNonEmpty(ci.Address, r.ClientAddress))
	r.ClientName, r.ClientPhone, r.ClientAddress = "", "", ""

	r.Comments = Clean(r.Comments)
	r.OrderSource = Clean(r.OrderSource)
	for i := range r.Items {
		r.Items[i].ProductID = Clean(r.Items[i].ProductID)
		r.Items[i].Name = Clean(r.Items[i].Name)
	}
}

func (r CreateOrderRequest) Build() orders.Order {
	items := make([]orders.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, orders.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.Float(),
			Quantity:  it.Quantity.Float(),
		})
	}
	return orders.Order{
		Items: items,
		CustomerInfo: orders.Customer{
			Name:       r.CustomerInfo.Name,
			Phone:      r.CustomerInfo.Phone,
			Address:    r.CustomerInfo.Address,
			TelegramID: int64(r.CustomerInfo.TelegramID.Float()),
		},
		TotalAmount: r.TotalAmount.Float(),
		Comments:    r.Comments,
		OrderSource: orders.Source(r.OrderSource),
	}
}

// StatusRequest is the payload for PUT /api/orders/:id/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

func (r *StatusRequest) Sanitize() {
	r.Status = Clean(r.Status)
}

// BulkDeleteRequest is the payload for DELETE /api/orders/delete-selected.
type BulkDeleteRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1,max=500,dive,required"`
}

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}
