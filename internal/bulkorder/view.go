package bulkorder

import (
	"time"

	"bulk-order-api-server/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductSummary is the catalog data shown next to a line item.
type ProductSummary struct {
	ID          primitive.ObjectID   `json:"id"`
	Name        string               `json:"name,omitempty"`
	Image       []string             `json:"image,omitempty"`
	Price       decimal.Decimal      `json:"price"`
	Category    []primitive.ObjectID `json:"category,omitempty"`
	Description string               `json:"description,omitempty"`
	Missing     bool                 `json:"missing,omitempty"` // removed from the catalog after submission
}

// UserSummary is the requester or approver as shown on an order. Name,
// email and mobile are empty when the user cannot be resolved.
type UserSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name,omitempty"`
	Email  string             `json:"email,omitempty"`
	Mobile string             `json:"mobile,omitempty"`
}

func newUserSummary(id primitive.ObjectID, users map[primitive.ObjectID]models.User) UserSummary {
	summary := UserSummary{ID: id}
	if u, ok := users[id]; ok {
		summary.Name = u.Name
		summary.Email = u.Email
		summary.Mobile = u.Mobile
	}
	return summary
}

type LineItemView struct {
	Product  ProductSummary  `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderView is a bulk order with line items expanded for display.
type OrderView struct {
	ID              primitive.ObjectID `json:"id"`
	Reference       string             `json:"reference"`
	User            UserSummary        `json:"user"`
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	Email           string             `json:"email"`
	Address         string             `json:"address"`
	BuyerType       models.BuyerType   `json:"buyerType"`
	Products        []LineItemView     `json:"products"`
	Status          models.OrderStatus `json:"status"`
	AdminNotes      string             `json:"adminNotes"`
	RejectionReason string             `json:"rejectionReason"`
	TotalQuantity   int                `json:"totalQuantity"`
	EstimatedValue  decimal.Decimal    `json:"estimatedValue"`
	ApprovedBy      *UserSummary       `json:"approvedBy"`
	ApprovedAt      *time.Time         `json:"approvedAt"`
	SubmittedAt     time.Time          `json:"submittedAt"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type OrderList struct {
	Orders       []OrderView                  `json:"orders"`
	Pagination   Pagination                   `json:"pagination"`
	StatusCounts map[models.OrderStatus]int64 `json:"statusCounts,omitempty"`
}

type Analytics struct {
	StatusCounts  map[models.OrderStatus]int64 `json:"statusCounts"`
	RecentOrders  int64                        `json:"recentOrders"`
	TotalQuantity int64                        `json:"totalQuantity"`
	BuyerTypes    map[models.BuyerType]int64   `json:"buyerTypes"`
	TotalOrders   int64                        `json:"totalOrders"`
}

func newOrderView(o *models.BulkOrder, products map[primitive.ObjectID]models.Product, users map[primitive.ObjectID]models.User) OrderView {
	items := make([]LineItemView, 0, len(o.Products))
	estimated := decimal.Zero
	for _, item := range o.Products {
		summary := ProductSummary{ID: item.Product, Price: decimal.Zero}
		if p, ok := products[item.Product]; ok {
			summary.Name = p.Name
			summary.Image = p.Image
			summary.Price = decimal.NewFromFloat(p.Price)
			summary.Category = p.Category
			summary.Description = p.Description
		} else {
			summary.Missing = true
		}
		subtotal := summary.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		estimated = estimated.Add(subtotal)
		items = append(items, LineItemView{
			Product:  summary,
			Quantity: item.Quantity,
			Size:     item.Size,
			Subtotal: subtotal,
		})
	}

	var approver *UserSummary
	if o.ApprovedBy != nil {
		a := newUserSummary(*o.ApprovedBy, users)
		approver = &a
	}

	return OrderView{
		ID:              o.ID,
		Reference:       o.Reference,
		User:            newUserSummary(o.User, users),
		Name:            o.Name,
		Phone:           o.Phone,
		Email:           o.Email,
		Address:         o.Address,
		BuyerType:       o.BuyerType,
		Products:        items,
		Status:          o.Status,
		AdminNotes:      o.AdminNotes,
		RejectionReason: o.RejectionReason,
		TotalQuantity:   o.TotalQuantity,
		EstimatedValue:  estimated,
		ApprovedBy:      approver,
		ApprovedAt:      o.ApprovedAt,
		SubmittedAt:     o.SubmittedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
