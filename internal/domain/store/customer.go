package store

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a storefront customer or a guest checkout identity.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	// Guest marks customers synthesized from guest checkouts; they carry no
	// remote account and are bound under a per-order external id
	Guest     bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddressKind tells billing and shipping addresses apart.
type AddressKind string

const (
	AddressBilling  AddressKind = "billing"
	AddressShipping AddressKind = "shipping"
)

// Address is a postal address attached to a customer.
type Address struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Kind       AddressKind
	Name       string
	Street     string
	Street2    string
	City       string
	Zip        string
	State      string
	Country    string
	Phone      string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
