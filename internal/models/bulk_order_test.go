package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	order := &BulkOrder{
		Name:    "  Jane Doe ",
		Phone:   " 555-0100",
		Email:   "  Jane@Example.COM ",
		Address: "12 Market St  ",
		Products: []LineItem{
			{Product: p1, Quantity: 3, Size: " M "},
			{Product: p2, Quantity: 7},
			{Product: p1, Quantity: 5, Size: "L"},
		},
		TotalQuantity: 999,
	}

	order.Normalize()

	assert.Equal(t, "Jane Doe", order.Name)
	assert.Equal(t, "555-0100", order.Phone)
	assert.Equal(t, "jane@example.com", order.Email)
	assert.Equal(t, "12 Market St", order.Address)
	assert.Equal(t, "M", order.Products[0].Size)
	assert.Equal(t, 15, order.TotalQuantity, "total must be recomputed from line items")
	assert.Equal(t, []primitive.ObjectID{p1, p2}, order.ProductIDs())
}

func TestEnumValidity(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("Pending").Valid())
	assert.False(t, OrderStatus("approved").Valid())

	for _, b := range BuyerTypes {
		assert.True(t, b.Valid(), b)
	}
	assert.False(t, BuyerType("Retail").Valid())
	assert.False(t, BuyerType("").Valid())
}
