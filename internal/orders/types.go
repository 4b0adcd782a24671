package orders

import (
	"encoding/json"
	"time"
)

// Status is the fulfilment state of an order. Any status may follow any other.
type Status string

const (
	StatusAccepted   Status = "Принят"
	StatusProcessing Status = "В обработке"
	StatusDelivering Status = "В доставке"
	StatusCompleted  Status = "Завершен"
	StatusCancelled  Status = "Отменен"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{
	StatusAccepted,
	StatusProcessing,
	StatusDelivering,
	StatusCompleted,
	StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus returns the Status named by s, or false if s is not one of Statuses.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

// Source tells where an order was placed.
type Source string

const (
	SourceWeb      Source = "web"
	SourceTelegram Source = "telegram"
)

func (s Source) Valid() bool {
	return s == SourceWeb || s == SourceTelegram
}

// Item is a snapshot of a product at checkout time; it is not linked to the
// live catalog entry.
type Item struct {
	ProductID string  `json:"productId" bson:"productId" dynamodbav:"productId"`
	Name      string  `json:"name" bson:"name" dynamodbav:"name"`
	Price     float64 `json:"price" bson:"price" dynamodbav:"price"`
	Quantity  float64 `json:"quantity" bson:"quantity" dynamodbav:"quantity"`
}

type Customer struct {
	Name       string `json:"name" bson:"name" dynamodbav:"name"`
	Phone      string `json:"phone" bson:"phone" dynamodbav:"phone"`
	Address    string `json:"address" bson:"address" dynamodbav:"address"`
	TelegramID int64  `json:"telegramId,omitempty" bson:"telegramId,omitempty" dynamodbav:"telegramId,omitempty"`
}

type Order struct {
	ID           string    `json:"id" bson:"_id" dynamodbav:"id"`
	Items        []Item    `json:"items" bson:"items" dynamodbav:"items"`
	CustomerInfo Customer  `json:"customerInfo" bson:"customerInfo" dynamodbav:"customerInfo"`
	TotalAmount  float64   `json:"totalAmount" bson:"totalAmount" dynamodbav:"totalAmount"`
	Status       Status    `json:"status" bson:"status" dynamodbav:"status"`
	Comments     string    `json:"comments" bson:"comments" dynamodbav:"comments"`
	OrderSource  Source    `json:"orderSource" bson:"orderSource" dynamodbav:"orderSource"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" dynamodbav:"createdAt"`
}

func (o Order) EntityID() string { return o.ID }

// ItemsTotal is the sum of price times quantity over all items.
func (o Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * it.Quantity
	}
	return total
}

// MarshalJSON also emits the id as "_id" and the customer fields flattened
// as clientName/clientPhone/clientAddress, the shape the admin dashboard reads.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		MongoID       string `json:"_id"`
		ClientName    string `json:"clientName"`
		ClientPhone   string `json:"clientPhone"`
		ClientAddress string `json:"clientAddress"`
	}{
		plain:         plain(o),
		MongoID:       o.ID,
		ClientName:    o.CustomerInfo.Name,
		ClientPhone:   o.CustomerInfo.Phone,
		ClientAddress: o.CustomerInfo.Address,
	})
}
