package shop

import "time"

// Order is placed by a customer.
//
//model:root
type Order struct {
	ID       string           `json:"id"`
	Lines    []Line           `json:"lines"`
	Placed   time.Time        `json:"placed"`
	Status   Status           `json:"status"`
	Total    Money            `json:"total"`
	Parcel   Shape            `json:"parcel"`
	Notes    map[string]*Note `json:"notes,omitempty"`
	Meta     struct{ Tag string }
	Internal string `json:"-"`
	OnPaid   func() `json:"-"`
	secret   string
}

// Line is one ordered item.
type Line struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"qty"`
	//model:hint number
	Weight string `json:"weight"`
}

// Money is carried as a decimal string.
//
//model:adapter string
type Money struct {
	Units int64
	Nanos int32
}

// Status of an order.
type Status int

const (
	StatusOpen Status = iota
	StatusPaid
	StatusShipped
)

// Unused is not reachable from Order.
type Unused struct {
	X int
}
