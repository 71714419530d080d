package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/clothely/clothely-backend/pkg/payment/toss"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
	ErrPaymentFailed      = errors.New("payment confirmation failed")
)

type OrderService interface {
	Checkout(userID uint, shippingAddress string) (*model.Order, error)
	GetOrder(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	ConfirmPayment(ctx context.Context, orderNumber, paymentKey string) (*model.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	payments *toss.Client
	db       *gorm.DB
}

// payments may be nil, in which case confirmations are recorded
// without PSP verification (local development and tests).
func NewOrderService(db *gorm.DB, orders repository.OrderRepository, carts repository.CartRepository, payments *toss.Client) OrderService {
	return &orderService{orders: orders, carts: carts, payments: payments, db: db}
}

// Checkout converts the user's cart into an order inside one
// transaction. Variant rows are locked before the stock check so two
// concurrent checkouts cannot both take the last unit.
func (s *orderService) Checkout(userID uint, shippingAddress string) (*model.Order, error) {
	items, err := s.carts.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
		"items":   len(items),
	})

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	order := &model.Order{
		UserID:          userID,
		OrderNumber:     newOrderNumber(),
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shippingAddress,
	}

	var total float64
	var orderItems []model.OrderItem
	for _, item := range items {
		unitPrice := itemUnitPrice(item)
		sku := ""

		if item.VariantID != nil {
			var variant model.ProductVariant
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&variant, *item.VariantID).Error
			if err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrVariantNotFound
				}
				return nil, err
			}
			if variant.StockQuantity < item.Quantity {
				tx.Rollback()
				logger.Warn("Checkout rejected for insufficient stock", map[string]interface{}{
					"user_id":    userID,
					"variant_id": variant.ID,
					"sku":        variant.SKU,
					"requested":  item.Quantity,
					"available":  variant.StockQuantity,
				})
				return nil, ErrInsufficientStock
			}

			err = tx.Model(&model.ProductVariant{}).
				Where("id = ?", variant.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity)).Error
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			sku = variant.SKU
			if variant.Price > 0 {
				unitPrice = variant.Price
			}
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			ProductTitle: item.Product.Title,
			SKU:          sku,
			UnitPrice:    unitPrice,
			Quantity:     item.Quantity,
		})
		total += unitPrice * float64(item.Quantity)
	}

	order.TotalAmount = total
	order.Items = orderItems
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        total,
	})
	return s.orders.FindByID(order.ID)
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

func (s *orderService) GetOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orders.FindWithFilter(filter)
}

// CancelOrder restores the stock taken at checkout. Only pending and
// paid orders can be cancelled.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusPaid {
		return nil, ErrOrderNotCancelable
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, item := range order.Items {
		if item.VariantID == nil {
			continue
		}
		err := tx.Model(&model.ProductVariant{}).
			Where("id = ?", *item.VariantID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	updates := map[string]interface{}{"status": model.OrderStatusCancelled}
	if order.PaymentStatus == model.PaymentStatusPaid {
		updates["payment_status"] = model.PaymentStatusRefunded
	}
	if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return s.orders.FindByID(order.ID)
}

var statusTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusPaid, model.OrderStatusCancelled},
	model.OrderStatusPaid:      {model.OrderStatusShipped, model.OrderStatusCancelled},
	model.OrderStatusShipped:   {model.OrderStatusDelivered},
	model.OrderStatusDelivered: {},
	model.OrderStatusCancelled: {},
}

func (s *orderService) UpdateStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	allowed := false
	for _, next := range statusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidOrderStatus
	}

	order.Status = status
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmPayment verifies the payment with the PSP and records it
// against the order.
func (s *orderService) ConfirmPayment(ctx context.Context, orderNumber, paymentKey string) (*model.Order, error) {
	order, err := s.orders.FindByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if s.payments != nil {
		_, err := s.payments.Confirm(ctx, toss.ConfirmRequest{
			PaymentKey: paymentKey,
			OrderID:    order.OrderNumber,
			Amount:     int64(order.TotalAmount),
		})
		if err != nil {
			logger.Error("Payment confirmation rejected", err, map[string]interface{}{
				"order_number": orderNumber,
			})
			return nil, ErrPaymentFailed
		}
	}

	order.Status = model.OrderStatusPaid
	order.PaymentStatus = model.PaymentStatusPaid
	order.PaymentKey = paymentKey
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order marked as paid", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
	return order, nil
}
