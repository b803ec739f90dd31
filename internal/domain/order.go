package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus uses the backend's numeric codes. Status transitions are
// owned by the backend; the client only ever submits Pending.
type OrderStatus int

const (
	OrderStatusPending    OrderStatus = 1
	OrderStatusInProgress OrderStatus = 2
	OrderStatusDelivered  OrderStatus = 3
	OrderStatusCanceled   OrderStatus = 4
)

// DeliveryMethod uses the backend's numeric codes.
type DeliveryMethod int

const (
	DeliveryDriveThru    DeliveryMethod = 1
	DeliveryOnHand       DeliveryMethod = 2
	DeliveryHomeDelivery DeliveryMethod = 3
)

type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentCard PaymentType = "card"
)

type Bill struct {
	ID          string          `json:"id,omitempty"`
	BillNumber  string          `json:"bill_number"`
	Date        time.Time       `json:"date"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PaymentType PaymentType     `json:"payment_type"`
	ClientID    string          `json:"client_id"`
}

type Order struct {
	ID             string          `json:"id,omitempty"`
	ClientID       string          `json:"client_id"`
	Total          decimal.Decimal `json:"total"`
	Status         OrderStatus     `json:"status"`
	DeliveryMethod DeliveryMethod  `json:"delivery_method"`
	Date           time.Time       `json:"date"`
	BillID         string          `json:"bill_id"`
}

// OrderDetail is one purchased line. Price is the unit price at purchase
// time, not the product's current price.
type OrderDetail struct {
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
