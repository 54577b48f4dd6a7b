package bulkorder

import (
	"context"
	"fmt"
	"strings"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LineItemInput struct {
	ProductID string
	Quantity  int
	Size      string
}

// CreateInput is the buyer-submitted part of a bulk order request.
type CreateInput struct {
	Name      string
	Phone     string
	Email     string
	BuyerType string
	Address   string
	Products  []LineItemInput
}

// Create validates in, resolves every product and persists a new order in
// status Requested. Nothing is written unless every line item resolves.
func (s *Service) Create(ctx context.Context, caller auth.Caller, in CreateInput) (*OrderView, error) {
	items, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	order := &models.BulkOrder{
		Reference: newReference(),
		User:      caller.UserID,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		BuyerType: models.BuyerType(strings.TrimSpace(in.BuyerType)),
		Products:  items,
		Status:    models.StatusRequested,
	}

	products, err := s.catalog.FindProducts(ctx, order.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	for _, item := range items {
		if _, ok := products[item.Product]; !ok {
			return nil, &ProductNotFoundError{ProductID: item.Product.Hex()}
		}
	}

	now := s.now()
	order.SubmittedAt = now
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Normalize()

	if err := s.store.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert bulk order: %w", err)
	}
	s.metrics.ObserveOrderCreated()
	s.publish(ctx, events.TypeOrderCreated, order, "")

	view := newOrderView(order, products, nil)
	return &view, nil
}

func validateCreate(in CreateInput) ([]models.LineItem, error) {
	for _, field := range []string{in.Name, in.Phone, in.Email, in.BuyerType, in.Address} {
		if strings.TrimSpace(field) == "" {
			return nil, invalid("All fields are required")
		}
	}
	if !models.BuyerType(strings.TrimSpace(in.BuyerType)).Valid() {
		return nil, invalid("Buyer type must be one of Shop, Solo or Wholesale")
	}
	if len(in.Products) == 0 {
		return nil, invalid("At least one product must be selected")
	}

	items := make([]models.LineItem, 0, len(in.Products))
	for _, p := range in.Products {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(p.ProductID))
		if err != nil || p.Quantity < 1 {
			return nil, invalid("Each product must have valid product ID and quantity")
		}
		items = append(items, models.LineItem{Product: id, Quantity: p.Quantity, Size: p.Size})
	}
	return items, nil
}
