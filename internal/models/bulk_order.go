// internal/models/bulk_order.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuyerType classifies the requester for pricing and negotiation.
type BuyerType string

const (
	BuyerShop      BuyerType = "Shop"
	BuyerSolo      BuyerType = "Solo"
	BuyerWholesale BuyerType = "Wholesale"
)

// BuyerTypes lists every accepted buyer type in display order.
var BuyerTypes = []BuyerType{BuyerShop, BuyerSolo, BuyerWholesale}

func (b BuyerType) Valid() bool {
	switch b {
	case BuyerShop, BuyerSolo, BuyerWholesale:
		return true
	}
	return false
}

// OrderStatus is the review state of a bulk order.
type OrderStatus string

const (
	StatusRequested OrderStatus = "Requested"
	StatusApproved  OrderStatus = "Approved"
	StatusRejected  OrderStatus = "Rejected"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusRequested, StatusApproved, StatusRejected}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LineItem is one (product, quantity, size) entry of a bulk order.
type LineItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Size     string             `bson:"size,omitempty" json:"size,omitempty"`
}

type BulkOrder struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Reference       string              `bson:"reference" json:"reference"` // e.g. "BO-1A2B3C4D"
	User            primitive.ObjectID  `bson:"user" json:"user"`
	Name            string              `bson:"name" json:"name"`
	Phone           string              `bson:"phone" json:"phone"`
	Email           string              `bson:"email" json:"email"`
	Address         string              `bson:"address" json:"address"`
	BuyerType       BuyerType           `bson:"buyerType" json:"buyerType"`
	Products        []LineItem          `bson:"products" json:"products"`
	Status          OrderStatus         `bson:"status" json:"status"`
	AdminNotes      string              `bson:"adminNotes" json:"adminNotes"`
	RejectionReason string              `bson:"rejectionReason" json:"rejectionReason"`
	TotalQuantity   int                 `bson:"totalQuantity" json:"totalQuantity"`
	ApprovedBy      *primitive.ObjectID `bson:"approvedBy" json:"approvedBy"`
	ApprovedAt      *time.Time          `bson:"approvedAt" json:"approvedAt"`
	SubmittedAt     time.Time           `bson:"submittedAt" json:"submittedAt"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SumQuantities returns the total of all line-item quantities.
func (o *BulkOrder) SumQuantities() int {
	total := 0
	for _, item := range o.Products {
		total += item.Quantity
	}
	return total
}

// Normalize trims the contact snapshot, lower-cases the email and recomputes
// TotalQuantity from the line items. Stores call it before every persist.
func (o *BulkOrder) Normalize() {
	o.Name = strings.TrimSpace(o.Name)
	o.Phone = strings.TrimSpace(o.Phone)
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	o.Address = strings.TrimSpace(o.Address)
	o.AdminNotes = strings.TrimSpace(o.AdminNotes)
	o.RejectionReason = strings.TrimSpace(o.RejectionReason)
	for i := range o.Products {
		o.Products[i].Size = strings.TrimSpace(o.Products[i].Size)
	}
	o.TotalQuantity = o.SumQuantities()
}

// ProductIDs returns the distinct product references in line-item order.
func (o *BulkOrder) ProductIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(o.Products))
	ids := make([]primitive.ObjectID, 0, len(o.Products))
	for _, item := range o.Products {
		if _, ok := seen[item.Product]; ok {
			continue
		}
		seen[item.Product] = struct{}{}
		ids = append(ids, item.Product)
	}
	return ids
}
