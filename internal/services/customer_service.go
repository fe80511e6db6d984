// internal/services/customer_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/easyretail/shop-backend/internal/models"
	"github.com/easyretail/shop-backend/internal/repository"
)

type CustomerService struct {
	repo repository.CustomerRepository
}

type CreateCustomerRequest struct {
	Name    string              `json:"name" validate:"required,max=255"`
	Email   string              `json:"email" validate:"required,email,max=255"`
	Phone   string              `json:"phone" validate:"max=50"`
	Address string              `json:"address"`
	Status  models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	Notes   string              `json:"notes"`
}

// UpdateCustomerRequest is partial: nil fields keep their stored value.
type UpdateCustomerRequest struct {
	Name    *string              `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string              `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string              `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string              `json:"address,omitempty"`
	Status  *models.RecordStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Notes   *string              `json:"notes,omitempty"`
}

func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, repoError("customers", err)
	}
	return customers, nil
}

func (s *CustomerService) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("search query is required")
	}
	customers, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, repoError("customers", err)
	}
	return customers, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("customer", err)
	}
	return customer, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Status:  req.Status,
		Notes:   req.Notes,
	}
	customer.ID = uuid.New().String()
	if customer.Status == "" {
		customer.Status = models.RecordStatusActive
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, repoError("customer", err)
	}
	return customer, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("customer", err)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != customer.Email {
			if err := s.ensureEmailFree(ctx, email, customer.ID); err != nil {
				return nil, err
			}
		}
		customer.Email = email
	}
	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, repoError("customer", err)
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	return repoError("customer", s.repo.Delete(ctx, id))
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return repoError("customer", err)
	case existing.ID != ownerID:
		return fmt.Errorf("%w: email already registered", ErrConflict)
	}
	return nil
}
