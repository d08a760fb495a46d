package models

import (
	"github.com/google/uuid"

	"github.com/erp/connector/internal/domain/store"
)

// CustomerModel is the persistence model for a customer.
type CustomerModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(255);not null"`
	Email  string `gorm:"type:varchar(255);index"`
	Phone  string `gorm:"type:varchar(50)"`
	Guest  bool   `gorm:"not null;default:false"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *store.Customer {
	return &store.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Guest:     m.Guest,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AddressModel is the persistence model for a customer address.
type AddressModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	Name       string    `gorm:"type:varchar(255)"`
	Street     string    `gorm:"type:varchar(255)"`
	Street2    string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(100)"`
	Zip        string    `gorm:"type:varchar(20)"`
	State      string    `gorm:"type:varchar(100)"`
	Country    string    `gorm:"type:varchar(2)"`
	Phone      string    `gorm:"type:varchar(50)"`
	Email      string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "customer_addresses"
}

// ToDomain converts the persistence model to a domain Address.
func (m *AddressModel) ToDomain() *store.Address {
	return &store.Address{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Kind:       store.AddressKind(m.Kind),
		Name:       m.Name,
		Street:     m.Street,
		Street2:    m.Street2,
		City:       m.City,
		Zip:        m.Zip,
		State:      m.State,
		Country:    m.Country,
		Phone:      m.Phone,
		Email:      m.Email,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Address.
func (m *AddressModel) FromDomain(a *store.Address) {
	m.ID = a.ID
	m.CustomerID = a.CustomerID
	m.Kind = string(a.Kind)
	m.Name = a.Name
	m.Street = a.Street
	m.Street2 = a.Street2
	m.City = a.City
	m.Zip = a.Zip
	m.State = a.State
	m.Country = a.Country
	m.Phone = a.Phone
	m.Email = a.Email
}

// PaymentMethodModel is the persistence model for a payment method.
type PaymentMethodModel struct {
	BaseModel
	Name             string `gorm:"type:varchar(255);not null"`
	Code             string `gorm:"type:varchar(100);not null;uniqueIndex"`
	ImportRule       string `gorm:"type:varchar(20);not null;default:'always'"`
	DaysBeforeCancel int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() *store.PaymentMethod {
	return &store.PaymentMethod{
		ID:               m.ID,
		Name:             m.Name,
		Code:             m.Code,
		ImportRule:       store.ImportRule(m.ImportRule),
		DaysBeforeCancel: m.DaysBeforeCancel,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// DeliveryCarrierModel is the persistence model for a shipping method.
type DeliveryCarrierModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null"`
	Code string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (DeliveryCarrierModel) TableName() string {
	return "delivery_carriers"
}

// ToDomain converts the persistence model to a domain DeliveryCarrier.
func (m *DeliveryCarrierModel) ToDomain() *store.DeliveryCarrier {
	return &store.DeliveryCarrier{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
