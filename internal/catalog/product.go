package catalog

import "time"

// DefaultUnit is applied when a product is saved without a unit.
const DefaultUnit = "кг"

// MaxImages bounds the gallery attached to a product.
const MaxImages = 3

// Product is a catalog entry. Prices are per Unit; MinOrder is the smallest
// quantity a customer may order, in the same unit.
type Product struct {
	ID          string    `json:"id" bson:"_id" dynamodbav:"id"`
	Name        string    `json:"name" bson:"name" dynamodbav:"name"`
	Category    string    `json:"category" bson:"category" dynamodbav:"category"`
	Price       float64   `json:"price" bson:"price" dynamodbav:"price"`
	MinOrder    float64   `json:"minOrder" bson:"minOrder" dynamodbav:"minOrder"`
	Unit        string    `json:"unit" bson:"unit" dynamodbav:"unit"`
	Description string    `json:"description" bson:"description" dynamodbav:"description"`
	ShelfLife   string    `json:"shelfLife" bson:"shelfLife" dynamodbav:"shelfLife"`
	Allergens   string    `json:"allergens" bson:"allergens" dynamodbav:"allergens"`
	Image       string    `json:"image" bson:"image" dynamodbav:"image"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty" dynamodbav:"images,omitempty"`
	IsFeatured  bool      `json:"isFeatured" bson:"isFeatured" dynamodbav:"isFeatured"`
	IsSlider    bool      `json:"isSlider" bson:"isSlider" dynamodbav:"isSlider"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" dynamodbav:"createdAt"`
}

func (p Product) EntityID() string { return p.ID }
