package service

import (
	"context"
	"testing"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	*cartFixture
	service OrderService
}

func setupOrderTest(t *testing.T) *orderFixture {
	f := setupCartTest(t)
	orders := repository.NewOrderRepository(f.db)
	carts := repository.NewCartRepository(f.db)
	return &orderFixture{
		cartFixture: f,
		service:     NewOrderService(f.db, orders, carts, nil),
	}
}

func (f *orderFixture) checkout(t *testing.T, userID uint, variantIdx, quantity int) *model.Order {
	variantID := f.product.Variants[variantIdx].ID
	_, err := f.cartFixture.service.AddItem(userID, f.product.ID, &variantID, quantity)
	require.NoError(t, err)

	order, err := f.service.Checkout(userID, "1 Main St, Seoul")
	require.NoError(t, err)
	return order
}

func TestOrderService_Checkout(t *testing.T) {
	f := setupOrderTest(t)

	order := f.checkout(t, 1, 0, 2)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{8}$`, order.OrderNumber)
	assert.InDelta(t, 59.98, order.TotalAmount, 0.001)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Red Shirt", item.ProductTitle)
	assert.Equal(t, "REDS-RED-M", item.SKU)
	assert.Equal(t, 2, item.Quantity)

	// Stock is decremented and the cart emptied.
	var variant model.ProductVariant
	require.NoError(t, f.db.First(&variant, f.product.Variants[0].ID).Error)
	assert.Equal(t, 8, variant.StockQuantity)

	items, _, err := f.cartFixture.service.GetCart(1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderService_CheckoutEmptyCart(t *testing.T) {
	f := setupOrderTest(t)

	_, err := f.service.Checkout(1, "1 Main St, Seoul")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CheckoutInsufficientStock(t *testing.T) {
	f := setupOrderTest(t)
	variantID := f.product.Variants[1].ID

	_, err := f.cartFixture.service.AddItem(1, f.product.ID, &variantID, 5)
	require.NoError(t, err)

	// Stock drops to 3 after the line was added, checkout must re-check.
	err = f.db.Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock_quantity", 3).Error
	require.NoError(t, err)

	_, err = f.service.Checkout(1, "1 Main St, Seoul")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestOrderService_GetOrderOwnership(t *testing.T) {
	f := setupOrderTest(t)
	order := f.checkout(t, 1, 0, 1)

	found, err := f.service.GetOrder(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = f.service.GetOrder(2, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	f := setupOrderTest(t)
	order := f.checkout(t, 1, 0, 4)

	cancelled, err := f.service.CancelOrder(1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	var variant model.ProductVariant
	require.NoError(t, f.db.First(&variant, f.product.Variants[0].ID).Error)
	assert.Equal(t, 10, variant.StockQuantity)

	_, err = f.service.CancelOrder(1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	f := setupOrderTest(t)
	order := f.checkout(t, 1, 0, 1)

	paid, err := f.service.ConfirmPayment(context.Background(), order.OrderNumber, "pay_abc123")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, paid.Status)
	assert.Equal(t, model.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, "pay_abc123", paid.PaymentKey)

	_, err = f.service.ConfirmPayment(context.Background(), "ORD-00000000-FFFFFFFF", "pay_abc123")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatusTransitions(t *testing.T) {
	f := setupOrderTest(t)
	order := f.checkout(t, 1, 0, 1)

	// Pending orders cannot ship before payment.
	_, err := f.service.UpdateStatus(order.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	paid, err := f.service.UpdateStatus(order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, paid.Status)

	shipped, err := f.service.UpdateStatus(order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, shipped.Status)

	delivered, err := f.service.UpdateStatus(order.ID, model.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, delivered.Status)

	_, err = f.service.UpdateStatus(delivered.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}
