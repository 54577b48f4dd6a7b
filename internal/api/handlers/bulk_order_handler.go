package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/bulkorder"

	"github.com/gin-gonic/gin"
)

type BulkOrderService interface {
	Create(ctx context.Context, caller auth.Caller, in bulkorder.CreateInput) (*bulkorder.OrderView, error)
	ListOwn(ctx context.Context, caller auth.Caller, page bulkorder.Page) (*bulkorder.OrderList, error)
	Detail(ctx context.Context, caller auth.Caller, orderID string) (*bulkorder.OrderView, error)
	ListAll(ctx context.Context, caller auth.Caller, status string, page bulkorder.Page) (*bulkorder.OrderList, error)
	UpdateStatus(ctx context.Context, caller auth.Caller, orderID string, upd bulkorder.StatusUpdate) (*bulkorder.OrderView, error)
	Delete(ctx context.Context, caller auth.Caller, orderID string) error
	Analytics(ctx context.Context, caller auth.Caller) (*bulkorder.Analytics, error)
}

type BulkOrderHandler struct {
	Service BulkOrderService
}

type LineItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
}

// Required-field checks live in the service so every caller gets the same
// messages; binding only rejects malformed values.
type CreateBulkOrderRequest struct {
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email" binding:"omitempty,email"`
	BuyerType string            `json:"buyerType"`
	Address   string            `json:"address"`
	Products  []LineItemRequest `json:"products"`
}

type UpdateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	AdminNotes      string `json:"adminNotes"`
	RejectionReason string `json:"rejectionReason"`
}

func (h *BulkOrderHandler) CreateBulkOrder(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req CreateBulkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := bulkorder.CreateInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		BuyerType: req.BuyerType,
		Address:   req.Address,
		Products:  make([]bulkorder.LineItemInput, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		in.Products = append(in.Products, bulkorder.LineItemInput{ProductID: p.Product, Quantity: p.Quantity, Size: p.Size})
	}

	order, err := h.Service.Create(c.Request.Context(), caller, in)
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusCreated, "Bulk order request submitted successfully. Our team will contact you soon.", order)
}

func (h *BulkOrderHandler) GetMyBulkOrders(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	list, err := h.Service.ListOwn(c.Request.Context(), caller, pageFromQuery(c))
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Bulk orders retrieved successfully", list)
}

func (h *BulkOrderHandler) GetBulkOrderDetails(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	order, err := h.Service.Detail(c.Request.Context(), caller, c.Param("orderId"))
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Bulk order details retrieved successfully", order)
}

func (h *BulkOrderHandler) GetAllBulkOrders(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	list, err := h.Service.ListAll(c.Request.Context(), caller, c.Query("status"), pageFromQuery(c))
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Bulk orders retrieved successfully", list)
}

func (h *BulkOrderHandler) UpdateBulkOrderStatus(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid status. Must be 'Requested', 'Approved', or 'Rejected'")
		return
	}

	order, err := h.Service.UpdateStatus(c.Request.Context(), caller, c.Param("orderId"), bulkorder.StatusUpdate{
		Status:          req.Status,
		AdminNotes:      req.AdminNotes,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Bulk order "+strings.ToLower(string(order.Status))+" successfully", order)
}

func (h *BulkOrderHandler) DeleteBulkOrder(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), caller, c.Param("orderId")); err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Bulk order deleted successfully", nil)
}

func (h *BulkOrderHandler) GetAnalytics(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	analytics, err := h.Service.Analytics(c.Request.Context(), caller)
	if err != nil {
		failWith(c, err)
		return
	}
	respond(c, http.StatusOK, "Analytics retrieved successfully", analytics)
}

// pageFromQuery reads page and limit; unparsable values fall back to the
// defaults applied by bulkorder.NewPage.
func pageFromQuery(c *gin.Context) bulkorder.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return bulkorder.NewPage(page, limit)
}
