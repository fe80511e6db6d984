package services

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/inventory"
	"github.com/easyretail/shop-backend/internal/repository"
)

type ProductServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    repository.ProductRepository
	service *ProductService
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = repository.NewMemoryRepositories().Products
	suite.service = NewProductService(suite.repo)
	suite.service.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
}

func strPtr(s string) *string { return &s }

func (suite *ProductServiceTestSuite) decodeInput(body string) *ProductInput {
	var in ProductInput
	require.NoError(suite.T(), json.Unmarshal([]byte(body), &in))
	return &in
}

func (suite *ProductServiceTestSuite) TestCreateThenSellPastZero() {
	created, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"Widget","price":"9.99","stock":"5"}`))
	suite.Require().NoError(err)
	suite.Equal(5, created.Stock)
	suite.Equal(inventory.StatusLowStock, created.Status)
	suite.Equal("9.99", created.Price.StringFixed(2))
	suite.Equal(0, created.Sales)

	updated, err := suite.service.RecordSale(suite.ctx, []SaleItem{{ID: created.ID, Quantity: 10}})
	suite.Require().NoError(err)
	suite.Require().Len(updated, 1)
	suite.Equal(0, updated[0].Stock)
	suite.Equal(inventory.StatusOutOfStock, updated[0].Status)
	suite.Equal(10, updated[0].Sales)

	stored, err := suite.service.GetProduct(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(0, stored.Stock)
	suite.Equal(10, stored.Sales)
}

func (suite *ProductServiceTestSuite) TestDeleteUnknownIsNotFound() {
	created, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"Widget","stock":3}`))
	suite.Require().NoError(err)

	err = suite.service.DeleteProduct(suite.ctx, "does-not-exist")
	suite.ErrorIs(err, ErrNotFound)

	products, total, err := suite.service.ListProducts(suite.ctx, ProductListParams{})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(created.ID, products[0].ID)
	suite.Equal(3, products[0].Stock)
}

func (suite *ProductServiceTestSuite) TestCreateDefaultsAndCoercion() {
	created, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(
		`{"name":"  Mug ","price":"abc","quantity":"-4","status":"in-stock","isActive":false,"sales":99}`))
	suite.Require().NoError(err)

	suite.Equal("Mug", created.Name)
	suite.True(created.Price.IsZero())
	suite.Equal(0, created.Stock)
	suite.Equal(inventory.StatusOutOfStock, created.Status, "client status is ignored")
	suite.True(created.IsActive)
	suite.Equal(0, created.Sales)
	suite.Equal("Clothing", created.Category)
	suite.Equal("📦", created.Image)
	suite.Equal("SKU-1709294400000", created.SKU)
	suite.NotEmpty(created.ID)
}

func (suite *ProductServiceTestSuite) TestStockWinsOverQuantity() {
	created, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"Cap","stock":50,"quantity":2}`))
	suite.Require().NoError(err)
	suite.Equal(50, created.Stock)
	suite.Equal(inventory.StatusInStock, created.Status)
}

func (suite *ProductServiceTestSuite) TestCreateRequiresName() {
	_, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"   ","stock":1}`))
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ProductServiceTestSuite) TestPartialUpdateKeepsOtherFields() {
	created, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"Widget","category":"Tools","price":5,"stock":40}`))
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateProduct(suite.ctx, created.ID, &ProductInput{Price: coerce.NumberOf("12.5")})
	suite.Require().NoError(err)
	suite.Equal("12.50", updated.Price.StringFixed(2))
	suite.Equal("Widget", updated.Name)
	suite.Equal("Tools", updated.Category)
	suite.Equal(40, updated.Stock)
	suite.Equal(inventory.StatusInStock, updated.Status)

	updated, err = suite.service.UpdateProduct(suite.ctx, created.ID, &ProductInput{Stock: coerce.NumberOf("7")})
	suite.Require().NoError(err)
	suite.Equal(inventory.StatusLowStock, updated.Status)

	_, err = suite.service.UpdateProduct(suite.ctx, "missing", &ProductInput{Name: strPtr("x")})
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.service.UpdateProduct(suite.ctx, created.ID, &ProductInput{Name: strPtr("")})
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ProductServiceTestSuite) TestStatusAlwaysMatchesStock() {
	for stock := 0; stock <= 30; stock++ {
		created, err := suite.service.CreateProduct(suite.ctx, &ProductInput{
			Name:  strPtr("P"),
			Stock: coerce.NumberOf(strconv.Itoa(stock)),
		})
		suite.Require().NoError(err)
		suite.Equal(inventory.DeriveStatus(stock), created.Status)
	}
}

func (suite *ProductServiceTestSuite) TestRecordSaleRules() {
	a, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"A","stock":20}`))
	suite.Require().NoError(err)

	_, err = suite.service.RecordSale(suite.ctx, []SaleItem{{ID: a.ID, Quantity: 0}})
	suite.ErrorIs(err, ErrValidation)

	updated, err := suite.service.RecordSale(suite.ctx, []SaleItem{{ID: "ghost", Quantity: 2}, {ID: a.ID, Quantity: 3}})
	suite.Require().NoError(err)
	suite.Require().Len(updated, 1)
	suite.Equal(17, updated[0].Stock)
	suite.Equal(3, updated[0].Sales)
}

func (suite *ProductServiceTestSuite) TestSaleItemAcceptsProductID() {
	a, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"A","stock":20}`))
	suite.Require().NoError(err)

	var items []SaleItem
	body := `[{"productId":"` + a.ID + `","quantity":4},{"id":"` + a.ID + `","productId":"other","quantity":1}]`
	suite.Require().NoError(json.Unmarshal([]byte(body), &items))
	suite.Equal(a.ID, items[0].ID)
	suite.Equal(a.ID, items[1].ID)

	updated, err := suite.service.RecordSale(suite.ctx, items)
	suite.Require().NoError(err)
	suite.Require().Len(updated, 2)
	suite.Equal(15, updated[1].Stock)
	suite.Equal(5, updated[1].Sales)
}

func (suite *ProductServiceTestSuite) TestBulkUpdateSkipsUnknown() {
	a, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"A","stock":20}`))
	suite.Require().NoError(err)
	b, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"B","stock":20}`))
	suite.Require().NoError(err)

	var updates []ProductInput
	body := `[{"id":"` + a.ID + `","stock":0},{"id":"nope","stock":1},{"id":"` + b.ID + `","price":"3.5"}]`
	suite.Require().NoError(json.Unmarshal([]byte(body), &updates))

	updated, err := suite.service.BulkUpdate(suite.ctx, updates)
	suite.Require().NoError(err)
	suite.Require().Len(updated, 2)
	suite.Equal(inventory.StatusOutOfStock, updated[0].Status)
	suite.Equal("3.50", updated[1].Price.StringFixed(2))
	suite.Equal(20, updated[1].Stock)

	_, err = suite.service.BulkUpdate(suite.ctx, []ProductInput{{Name: strPtr("no id")}})
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ProductServiceTestSuite) TestImportHonoursIdentityAndFailsOnDuplicate() {
	var inputs []ProductInput
	suite.Require().NoError(json.Unmarshal([]byte(`[
		{"id":"PROD-001","name":"IPhone","stock":30,"sku":"SKU-001","sales":4,"status":"out-of-stock","createdAt":"2023-05-01T10:00:00Z"},
		{"name":"Airpod","stock":"3","isActive":"false","sales":"n/a"}
	]`), &inputs))

	imported, err := suite.service.ImportProducts(suite.ctx, inputs)
	suite.Require().NoError(err)
	suite.Require().Len(imported, 2)

	suite.Equal("PROD-001", imported[0].ID)
	suite.Equal("SKU-001", imported[0].SKU)
	suite.Equal(4, imported[0].Sales)
	suite.Equal(inventory.StatusInStock, imported[0].Status)
	suite.Equal(2023, imported[0].CreatedAt.Year())

	suite.False(imported[1].IsActive)
	suite.Equal(0, imported[1].Sales)
	suite.Equal(inventory.StatusLowStock, imported[1].Status)

	again := []ProductInput{{ID: strPtr("NEW-1"), Name: strPtr("x")}, {ID: strPtr("PROD-001"), Name: strPtr("y")}}
	_, err = suite.service.ImportProducts(suite.ctx, again)
	suite.ErrorIs(err, ErrConflict)

	_, total, err := suite.service.ListProducts(suite.ctx, ProductListParams{})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total, "failed import leaves no partial rows")
}

func (suite *ProductServiceTestSuite) TestToggleActiveLeavesStock() {
	a, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(`{"name":"A","stock":8}`))
	suite.Require().NoError(err)

	toggled, err := suite.service.ToggleActive(suite.ctx, a.ID)
	suite.Require().NoError(err)
	suite.False(toggled.IsActive)
	suite.Equal(8, toggled.Stock)
	suite.Equal(inventory.StatusLowStock, toggled.Status)

	active := true
	products, _, err := suite.service.ListProducts(suite.ctx, ProductListParams{Active: &active})
	suite.Require().NoError(err)
	suite.Empty(products)
}

func (suite *ProductServiceTestSuite) TestStatsAndViews() {
	for _, body := range []string{
		`{"name":"A","category":"Electronics","price":10,"stock":0}`,
		`{"name":"B","category":"Electronics","price":20,"stock":5}`,
		`{"name":"C","category":"Accessories","price":30,"stock":100}`,
	} {
		_, err := suite.service.CreateProduct(suite.ctx, suite.decodeInput(body))
		suite.Require().NoError(err)
	}

	stats, err := suite.service.Stats(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(3, stats.TotalProducts)
	suite.Equal(3, stats.ActiveProducts)
	suite.Equal(105, stats.TotalStock)
	suite.Equal("3100.00", stats.TotalValue.StringFixed(2))
	suite.Equal("20.00", stats.AveragePrice.StringFixed(2))
	suite.Equal(1, stats.Status[inventory.StatusOutOfStock])
	suite.Equal(1, stats.Status[inventory.StatusLowStock])
	suite.Equal(1, stats.Status[inventory.StatusInStock])
	suite.Require().Len(stats.Categories, 2)
	suite.Equal("Accessories", stats.Categories[0].Name)
	suite.Equal(2, stats.Categories[1].Count)

	low, err := suite.service.LowStock(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(low, 1)
	out, err := suite.service.OutOfStock(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(out, 1)

	_, name, err := suite.service.ExportProducts(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("products-export-2024-03-01.json", name)

	n, err := suite.service.DeleteAllProducts(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(3), n)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
