package domain

import "time"

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     int64  `json:"price" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Order represents a placed order as stored by the backend.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Address       string      `json:"address"`
	Items         []OrderItem `json:"items"`
	Total         int64       `json:"total"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CreateOrderInput holds the parameters for placing an order. All
// required fields are checked before the order leaves the process.
type CreateOrderInput struct {
	CustomerName  string      `json:"customer_name" validate:"required,min=1,max=255"`
	CustomerPhone string      `json:"customer_phone" validate:"required,min=3,max=32"`
	Address       string      `json:"address" validate:"required,min=1,max=1024"`
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// Total computes the order total from its lines.
func (in CreateOrderInput) Total() int64 {
	var total int64
	for _, it := range in.Items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}
