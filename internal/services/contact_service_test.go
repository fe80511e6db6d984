package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyretail/shop-backend/internal/models"
	"github.com/easyretail/shop-backend/internal/repository"
)

func TestCustomerService_EmailMustBeUnique(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	svc := NewCustomerService(repos.Customers)

	ann, err := svc.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusActive, ann.Status)

	_, err = svc.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Ann Again", Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	bob, err := svc.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	taken := "ann@example.com"
	_, err = svc.UpdateCustomer(ctx, bob.ID, &UpdateCustomerRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	same := "bob@example.com"
	phone := "555-0199"
	updated, err := svc.UpdateCustomer(ctx, bob.ID, &UpdateCustomerRequest{Email: &same, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Bob", updated.Name)
}

func TestCustomerService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(repository.NewMemoryRepositories().Customers)

	_, err := svc.CreateCustomer(ctx, &CreateCustomerRequest{Name: "", Email: "not-an-email"})
	require.ErrorIs(t, err, ErrValidation)

	var fields *FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Len(t, fields.Fields, 2)

	bad := models.RecordStatus("archived")
	_, err = svc.UpdateCustomer(ctx, "any", &UpdateCustomerRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SearchCustomers(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, svc.DeleteCustomer(ctx, "missing"), ErrNotFound)
	_, err = svc.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupplierService_SearchAndUnique(t *testing.T) {
	ctx := context.Background()
	svc := NewSupplierService(repository.NewMemoryRepositories().Suppliers)

	_, err := svc.CreateSupplier(ctx, &CreateSupplierRequest{Name: "Tom", Email: "tom@acme.test", Company: "Acme Textiles"})
	require.NoError(t, err)
	_, err = svc.CreateSupplier(ctx, &CreateSupplierRequest{Name: "Sue", Email: "sue@globex.test", Company: "Globex", Phone: "0800-123"})
	require.NoError(t, err)

	_, err = svc.CreateSupplier(ctx, &CreateSupplierRequest{Name: "Tom 2", Email: "tom@acme.test"})
	assert.ErrorIs(t, err, ErrConflict)

	found, err := svc.SearchSuppliers(ctx, "textiles")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tom", found[0].Name)

	found, err = svc.SearchSuppliers(ctx, "0800")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sue", found[0].Name)

	_, err = svc.SearchSuppliers(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}
