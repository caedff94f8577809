package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatusesBeforeConfirmed lists the states a settled invoice may move an order out of.
// Orders already confirmed or further along are left untouched.
var OrderStatusesBeforeConfirmed = []string{OrderStatusPending, OrderStatusAccepted}

type Order struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	OrderNo     string         `gorm:"uniqueIndex;size:50;not null" json:"order_no"`
	MemberID    uint           `gorm:"not null;index" json:"member_id"`
	PartnerID   uint           `gorm:"not null;index" json:"partner_id"`
	Status      string         `gorm:"size:20;default:'pending'" json:"status"` // pending, accepted, confirmed, shipped, delivered, cancelled
	ConfirmedAt *time.Time     `json:"confirmed_at"`
	Items       []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(15,0);not null" json:"unit_price"`
	Status      string          `gorm:"size:20;default:'pending'" json:"status"` // same lifecycle as Order
}

// TableName overrides the table name
func (OrderItem) TableName() string {
	return "order_items"
}
