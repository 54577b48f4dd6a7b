package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the read-only catalog projection used to expand line items.
type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Image       []string             `bson:"image" json:"image"`
	Price       float64              `bson:"price" json:"price"`
	Category    []primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
}
