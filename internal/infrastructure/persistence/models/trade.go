package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/connector/internal/domain/store"
)

// SalesOrderModel is the persistence model for a sales order.
type SalesOrderModel struct {
	BaseModel
	Number            string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillingAddressID  *uuid.UUID      `gorm:"type:uuid"`
	ShippingAddressID *uuid.UUID      `gorm:"type:uuid"`
	Status            string          `gorm:"type:varchar(20);not null;default:'draft';index"`
	PaymentMethodID   *uuid.UUID      `gorm:"type:uuid"`
	CarrierID         *uuid.UUID      `gorm:"type:uuid"`
	Currency          string          `gorm:"type:varchar(3)"`
	AmountTotal       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	OrderedAt         time.Time       `gorm:"not null;index"`
	ShippedAt         *time.Time      `gorm:""`
	Lines             []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *store.SalesOrder {
	order := &store.SalesOrder{
		ID:                m.ID,
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		BillingAddressID:  m.BillingAddressID,
		ShippingAddressID: m.ShippingAddressID,
		Status:            store.OrderStatus(m.Status),
		PaymentMethodID:   m.PaymentMethodID,
		CarrierID:         m.CarrierID,
		Currency:          m.Currency,
		AmountTotal:       m.AmountTotal,
		OrderedAt:         m.OrderedAt,
		ShippedAt:         m.ShippedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	for i := range m.Lines {
		order.Lines = append(order.Lines, *m.Lines[i].ToDomain())
	}
	return order
}

// OrderLineModel is the persistence model for one order line.
type OrderLineModel struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Qty       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Kind      string          `gorm:"type:varchar(20);not null;default:'product'"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "sales_order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() *store.OrderLine {
	return &store.OrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		Name:      m.Name,
		Qty:       m.Qty,
		UnitPrice: m.UnitPrice,
		Kind:      store.OrderLineKind(m.Kind),
	}
}

// FromDomain populates the persistence model from a domain OrderLine.
func (m *OrderLineModel) FromDomain(l *store.OrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.VariantID = l.VariantID
	m.Name = l.Name
	m.Qty = l.Qty
	m.UnitPrice = l.UnitPrice
	m.Kind = string(l.Kind)
}
