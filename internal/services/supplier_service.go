// internal/services/supplier_service.go
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

type SupplierService struct {
	repo repository.SupplierRepository
}

type CreateSupplierRequest struct {
	Name    string              `json:"name" validate:"required,max=255"`
	Email   string              `json:"email" validate:"required,email,max=255"`
	Phone   string              `json:"phone" validate:"max=50"`
	Address string              `json:"address"`
	Company string              `json:"company" validate:"max=255"`
	Status  models.RecordStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	Notes   string              `json:"notes"`
}

type UpdateSupplierRequest struct {
	Name    *string              `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string              `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string              `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string              `json:"address,omitempty"`
	Company *string              `json:"company,omitempty" validate:"omitempty,max=255"`
	Status  *models.RecordStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Notes   *string              `json:"notes,omitempty"`
}

func NewSupplierService(repo repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

func (s *SupplierService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, repoError("suppliers", err)
	}
	return suppliers, nil
}

// SearchSuppliers matches the query against name, email, company and phone.
func (s *SupplierService) SearchSuppliers(ctx context.Context, query string) ([]models.Supplier, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("search query is required")
	}
	suppliers, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, repoError("suppliers", err)
	}
	return suppliers, nil
}

func (s *SupplierService) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (*models.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Company: req.Company,
		Status:  req.Status,
		Notes:   req.Notes,
	}
	supplier.ID = uuid.New().String()
	if supplier.Status == "" {
		supplier.Status = models.RecordStatusActive
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, repoError("supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, id string, req *UpdateSupplierRequest) (*models.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError("supplier", err)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != supplier.Email {
			if err := s.ensureEmailFree(ctx, email, supplier.ID); err != nil {
				return nil, err
			}
		}
		supplier.Email = email
	}
	if req.Name != nil {
		supplier.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Company != nil {
		supplier.Company = *req.Company
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, repoError("supplier", err)
	}
	return supplier, nil
}

func (s *SupplierService) DeleteSupplier(ctx context.Context, id string) error {
	return repoError("supplier", s.repo.Delete(ctx, id))
}

func (s *SupplierService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return repoError("supplier", err)
	case existing.ID != ownerID:
		return fmt.Errorf("%w: supplier with this email already exists", ErrConflict)
	}
	return nil
}
