package models

import "time"

// Order is immutable once written.
type Order struct {
	ID         uint        `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string      `gorm:"column:name;not null"`
	Email      string      `gorm:"column:email;not null"`
	Address    string      `gorm:"column:address;not null"`
	TotalCents int64       `gorm:"column:total_cents;not null"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time   `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots name and price at checkout time.
type OrderItem struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        uint   `gorm:"column:order_id;not null"`
	ProductID      uint   `gorm:"column:product_id;not null"`
	Name           string `gorm:"column:name;not null"`
	PriceCents     int64  `gorm:"column:price_cents;not null"`
	Qty            int    `gorm:"column:qty;not null"`
	LineTotalCents int64  `gorm:"column:line_total_cents;not null"`
}

func (OrderItem) TableName() string { return "order_items" }
