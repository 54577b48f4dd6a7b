package auth

import (
	"fmt"

	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated identity a request acts as. Services receive it
// as an explicit argument; nothing reads it from ambient state.
type Caller struct {
	UserID primitive.ObjectID
	Email  string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleSuperAdmin
}

func (c Caller) IsSuperAdmin() bool {
	return c.Role == models.RoleSuperAdmin
}

// CallerFromClaims converts verified token claims into a Caller.
func CallerFromClaims(claims *JWTClaims) (Caller, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: malformed user id", ErrInvalidToken)
	}
	return Caller{UserID: id, Email: claims.Email, Role: claims.Role}, nil
}
