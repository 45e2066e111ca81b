package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/infrastructure/repository/memory"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductRejectsDuplicateCode(t *testing.T) {
	store := memory.NewStore()
	products := service.NewProductService(store.Products(), store.Sales())
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, &service.CreateProductInput{
		Code: "P001", Name: "Pan", UnitPrice: decimal.RequireFromString("1000.00"), Stock: 10,
	})
	require.NoError(t, err)

	_, err = products.CreateProduct(ctx, &service.CreateProductInput{
		Code: "P001", Name: "Otro Pan", UnitPrice: decimal.RequireFromString("900.00"), Stock: 5,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreateProductRejectsNegativeValues(t *testing.T) {
	store := memory.NewStore()
	products := service.NewProductService(store.Products(), store.Sales())
	ctx := context.Background()

	_, err := products.CreateProduct(ctx, &service.CreateProductInput{
		Code: "P001", Name: "Pan", UnitPrice: decimal.RequireFromString("-1.00"), Stock: 10,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	_, err = products.CreateProduct(ctx, &service.CreateProductInput{
		Code: "P002", Name: "Pan", UnitPrice: decimal.RequireFromString("1.00"), Stock: -1,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestDeleteProductReferencedBySaleIsBlocked(t *testing.T) {
	f := newSaleFixture(t)
	products := service.NewProductService(f.store.Products(), f.store.Sales())
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
	})
	require.NoError(t, err)

	err = products.DeleteProduct(ctx, f.breadID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// The unsold product can go
	err = products.DeleteProduct(ctx, f.milkID)
	assert.NoError(t, err)
}

func TestUpdateProductReplenishesStock(t *testing.T) {
	store := memory.NewStore()
	products := service.NewProductService(store.Products(), store.Sales())
	ctx := context.Background()

	created, err := products.CreateProduct(ctx, &service.CreateProductInput{
		Code: "P001", Name: "Pan", UnitPrice: decimal.RequireFromString("1000.00"), Stock: 3,
	})
	require.NoError(t, err)

	stock := 40
	updated, err := products.UpdateProduct(ctx, &service.UpdateProductInput{ID: created.ID, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Stock)
}

func TestDeleteUserWithSalesDeactivatesInstead(t *testing.T) {
	f := newSaleFixture(t)
	users := service.NewUserService(f.store.Users(), f.store.Sales())
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, f.seller))

	// The seller still exists, deactivated, so history stays attributable
	kept, err := f.store.Users().GetByID(ctx, f.seller)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.False(t, kept.Active)
}

func TestDeleteCustomerReferencedBySaleIsBlocked(t *testing.T) {
	f := newSaleFixture(t)
	customers := service.NewCustomerService(f.store.Customers(), f.store.Sales())
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeInvoice,
		CustomerID:   &f.customerID,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
	})
	require.NoError(t, err)

	err = customers.DeleteCustomer(ctx, f.customerID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestReportDailySummary(t *testing.T) {
	f := newSaleFixture(t)
	reports := service.NewReportService(f.store.Days(), f.store.Sales(), time.UTC)
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 3}},
	})
	require.NoError(t, err)
	_, err = f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeInvoice,
		CustomerID:   &f.customerID,
		Lines:        []service.SaleLineInput{{ProductCode: "P002", Quantity: 1}},
	})
	require.NoError(t, err)

	summary, err := reports.Daily(ctx, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SaleCount)
	assert.Equal(t, 1, summary.ReceiptCount)
	assert.Equal(t, 1, summary.InvoiceCount)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("5500.00")), "subtotal = %s", summary.Subtotal)
	assert.True(t, summary.Tax.Equal(decimal.RequireFromString("1045.00")), "tax = %s", summary.Tax)
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("6545.00")), "total = %s", summary.Total)
	require.NotNil(t, summary.DayState)
	assert.Equal(t, enum.DayStateOpen, *summary.DayState)
}

func TestReportDailyEmptyForUnknownDate(t *testing.T) {
	store := memory.NewStore()
	reports := service.NewReportService(store.Days(), store.Sales(), time.UTC)

	summary, err := reports.Daily(context.Background(), time.Date(2020, 3, 14, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Nil(t, summary.DayState)
	assert.Equal(t, 0, summary.SaleCount)
	assert.True(t, summary.Total.IsZero())
	assert.Empty(t, summary.Sales)
}
