package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// User struct matches the document in MongoDB
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Mobile    string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"` // "active", "suspended"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
