// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/models"
	"github.com/easyretail/shop-backend/internal/repository"
)

type OrderService struct {
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	products  *ProductService
}

type OrderItemRequest struct {
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName" validate:"max=255"`
	Quantity    int            `json:"quantity" validate:"required,min=1"`
	Price       *coerce.Number `json:"price,omitempty"`
}

type CreateOrderRequest struct {
	CustomerID      string             `json:"customerId"`
	CustomerName    string             `json:"customerName" validate:"required_without=CustomerID,max=255"`
	Email           string             `json:"email" validate:"omitempty,email"`
	Phone           string             `json:"phone" validate:"max=50"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax             *coerce.Number     `json:"tax,omitempty"`
	Shipping        *coerce.Number     `json:"shipping,omitempty"`
	Status          models.OrderStatus `json:"status" validate:"omitempty,oneof=pending processing shipped completed cancelled"`
	Payment         string             `json:"payment" validate:"max=50"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
}

func NewOrderService(orders repository.OrderRepository, customers repository.CustomerRepository, products *ProductService) *OrderService {
	return &OrderService{orders: orders, customers: customers, products: products}
}

func (s *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, validationError("unknown order status %q", status)
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{Status: status})
	if err != nil {
		return nil, repoError("orders", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("order", err)
	}
	return order, nil
}

// CreateOrder stores the order with derived totals, then records a sale for
// every line that references a product.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		Email:           req.Email,
		Phone:           req.Phone,
		Tax:             coercePrice(req.Tax),
		Shipping:        coercePrice(req.Shipping),
		Status:          req.Status,
		Payment:         req.Payment,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}
	order.ID = uuid.New().String()
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.Payment == "" {
		order.Payment = models.DefaultPayment
	}

	if req.CustomerID != "" {
		if err := s.attachCustomer(ctx, order, req.CustomerID); err != nil {
			return nil, err
		}
	}

	var sold []SaleItem
	for i, item := range req.Items {
		line, err := s.buildItem(ctx, i, item)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, line)
		if line.ProductID != nil {
			sold = append(sold, SaleItem{ID: *line.ProductID, Quantity: line.Quantity})
		}
	}
	order.Recalculate()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, repoError("order", err)
	}

	if len(sold) > 0 && s.products != nil {
		if _, err := s.products.RecordSale(ctx, sold); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Error("failed to record sale for order")
		}
	}
	return order, nil
}

func (s *OrderService) attachCustomer(ctx context.Context, order *models.Order, customerID string) error {
	customer, err := s.customers.FindByID(ctx, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return validationError("customer %s does not exist", customerID)
	}
	if err != nil {
		return repoError("customer", err)
	}

	id := customer.ID
	order.CustomerID = &id
	if order.CustomerName == "" {
		order.CustomerName = customer.Name
	}
	if order.Email == "" {
		order.Email = customer.Email
	}
	if order.Phone == "" {
		order.Phone = customer.Phone
	}
	return nil
}

// buildItem fills a missing name or price from the referenced product.
func (s *OrderService) buildItem(ctx context.Context, idx int, item OrderItemRequest) (models.OrderItem, error) {
	line := models.OrderItem{
		ProductName: strings.TrimSpace(item.ProductName),
		Quantity:    item.Quantity,
	}
	if item.Price != nil {
		line.Price = coercePrice(item.Price)
	}

	if id := strings.TrimSpace(item.ProductID); id != "" {
		line.ProductID = &id
		if s.products != nil && (line.ProductName == "" || item.Price == nil) {
			product, err := s.products.GetProduct(ctx, id)
			switch {
			case err == nil:
				if line.ProductName == "" {
					line.ProductName = product.Name
				}
				if item.Price == nil {
					line.Price = product.Price
				}
			case !errors.Is(err, ErrNotFound):
				return line, err
			}
		}
	}

	if line.ProductName == "" {
		return line, validationError("item %d needs a productName or a known productId", idx)
	}
	return line, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationError("unknown order status %q", status)
	}
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, repoError("order", err)
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	return repoError("order", s.orders.Delete(ctx, id))
}
