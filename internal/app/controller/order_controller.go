package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/internal/app/service"
	apperrors "github.com/clothely/clothely-backend/internal/errors"
	"github.com/clothely/clothely-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required,oneof=pending paid shipped delivered cancelled"`
}

type ConfirmPaymentRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	PaymentKey  string `json:"payment_key" binding:"required"`
}

// Checkout converts the cart into an order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.OrderInvalidAddress, "Shipping address is required")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.CartInsufficientStock, "Not enough stock for one of the items")
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.Conflict(c, apperrors.CatalogVariantNotFound, "One of the items is no longer available")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Checkout failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders returns the user's orders
// GET /api/v1/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	filter := repository.OrderFilter{UserID: &userID}
	fillOrderFilter(c, &filter)

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

// GetOrder returns one of the user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrder(userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a pending or paid order
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderNotCancelable):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Order can no longer be cancelled")
		default:
			apperrors.InternalError(c, "Failed to cancel order")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ConfirmPayment records a successful payment callback
// POST /api/v1/orders/confirm-payment
func (ctrl *OrderController) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid payment confirmation")
		return
	}

	order, err := ctrl.orderService.ConfirmPayment(c.Request.Context(), req.OrderNumber, req.PaymentKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrPaymentFailed):
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.OrderPaymentFailed, "Payment could not be confirmed")
		default:
			apperrors.InternalError(c, "Failed to confirm payment")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminListOrders returns orders across all users
// GET /api/v1/admin/orders
func (ctrl *OrderController) AdminListOrders(c *gin.Context) {
	filter := repository.OrderFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := model.OrderStatus(statusStr)
		filter.Status = &status
	}
	fillOrderFilter(c, &filter)

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

// AdminUpdateStatus moves an order through its lifecycle
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) AdminUpdateStatus(c *gin.Context) {
	orderID, err := parseID(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid status")
		return
	}

	order, err := ctrl.orderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Status transition not allowed")
		default:
			apperrors.InternalError(c, "Failed to update order status")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func fillOrderFilter(c *gin.Context, filter *repository.OrderFilter) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
}
