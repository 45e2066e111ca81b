package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/infrastructure/repository/memory"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	store       *memory.Store
	sales       *service.SaleService
	seller      uuid.UUID
	breadID     uuid.UUID
	milkID      uuid.UUID
	customerID  uuid.UUID
	dayRecordID uuid.UUID
}

// newSaleFixture builds a store with an open day, a seller, two products
// and one registered customer.
func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	seller := &entity.User{Username: "vendedor", Password: "x", Role: enum.RoleSeller, Active: true}
	require.NoError(t, store.Users().Create(ctx, seller))

	bread := &entity.Product{Code: "P001", Name: "Pan", UnitPrice: decimal.RequireFromString("1000.00"), Stock: 50}
	require.NoError(t, store.Products().Create(ctx, bread))
	milk := &entity.Product{Code: "P002", Name: "Leche", UnitPrice: decimal.RequireFromString("2500.00"), Stock: 50}
	require.NoError(t, store.Products().Create(ctx, milk))

	customer := &entity.Customer{RUT: "12.345.678-5", LegalName: "Comercial Andina", Activity: "Retail", Address: "Av. Siempre Viva 123"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	day := &entity.DayRecord{Date: time.Now().UTC(), State: enum.DayStateOpen, UserID: seller.ID}
	require.NoError(t, store.Days().Create(ctx, day))

	customerSvc := service.NewCustomerService(store.Customers(), store.Sales())
	sales := service.NewSaleService(
		store.Transactor(),
		store.Sales(),
		store.Products(),
		store.Days(),
		customerSvc,
		decimal.RequireFromString("0.19"),
		time.UTC,
	)

	return &saleFixture{
		store:       store,
		sales:       sales,
		seller:      seller.ID,
		breadID:     bread.ID,
		milkID:      milk.ID,
		customerID:  customer.ID,
		dayRecordID: day.ID,
	}
}

func (f *saleFixture) productStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestCreateSaleReceiptTotals(t *testing.T) {
	f := newSaleFixture(t)

	// GIVEN a cart of 3x1000.00 and 1x2500.00
	sale, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines: []service.SaleLineInput{
			{ProductCode: "P001", Quantity: 3},
			{ProductCode: "P002", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)

	// THEN subtotal, 19% tax and total are exact
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("5500.00")), "subtotal = %s", sale.Subtotal)
	assert.True(t, sale.Tax.Equal(decimal.RequireFromString("1045.00")), "tax = %s", sale.Tax)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("6545.00")), "total = %s", sale.Total)

	// AND the receipt carries no customer
	assert.Nil(t, sale.CustomerID)
	assert.Equal(t, 1, sale.Folio)
	assert.Equal(t, f.dayRecordID, sale.DayRecordID)
	require.Len(t, sale.Items, 2)

	// AND stock went down by the sold quantities
	assert.Equal(t, 47, f.productStock(t, f.breadID))
	assert.Equal(t, 49, f.productStock(t, f.milkID))
}

func TestCreateSaleTaxRoundsHalfUp(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	odd := &entity.Product{Code: "P003", Name: "Revista", UnitPrice: decimal.RequireFromString("131.50"), Stock: 10}
	require.NoError(t, f.store.Products().Create(ctx, odd))

	sale, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P003", Quantity: 1}},
	})
	require.NoError(t, err)

	// 131.50 * 0.19 = 24.985, which rounds up to 24.99
	assert.True(t, sale.Tax.Equal(decimal.RequireFromString("24.99")), "tax = %s", sale.Tax)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("156.49")), "total = %s", sale.Total)
}

func TestCreateSaleDayGate(t *testing.T) {
	t.Run("no day record", func(t *testing.T) {
		store := memory.NewStore()
		customerSvc := service.NewCustomerService(store.Customers(), store.Sales())
		sales := service.NewSaleService(store.Transactor(), store.Sales(), store.Products(), store.Days(), customerSvc, decimal.RequireFromString("0.19"), time.UTC)

		_, err := sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       uuid.New(),
			DocumentType: enum.DocumentTypeReceipt,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindDayNotOpened))
	})

	t.Run("day closed", func(t *testing.T) {
		f := newSaleFixture(t)
		ctx := context.Background()

		day, err := f.store.Days().GetByID(ctx, f.dayRecordID)
		require.NoError(t, err)
		day.State = enum.DayStateClosed
		require.NoError(t, f.store.Days().Update(ctx, day))

		_, err = f.sales.CreateSale(ctx, &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeReceipt,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindDayClosed))
		assert.Equal(t, 50, f.productStock(t, f.breadID))
	})
}

func TestCreateSaleLineValidation(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newSaleFixture(t)

		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeReceipt,
		})
		assert.True(t, apperror.IsKind(err, apperror.KindEmptyCart))
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newSaleFixture(t)

		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeReceipt,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 0}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newSaleFixture(t)

		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeReceipt,
			Lines:        []service.SaleLineInput{{ProductCode: "NOPE", Quantity: 1}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindProductNotFound))
	})
}

func TestCreateSaleMergesRepeatedProductLines(t *testing.T) {
	f := newSaleFixture(t)

	// GIVEN the same product code appearing on two lines
	sale, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines: []service.SaleLineInput{
			{ProductCode: "P001", Quantity: 2},
			{ProductCode: "P001", Quantity: 3},
		},
	})
	require.NoError(t, err)

	// THEN the sale carries one item with the summed quantity
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 5, sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].Subtotal.Equal(decimal.RequireFromString("5000.00")), "line subtotal = %s", sale.Items[0].Subtotal)
	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("5000.00")), "subtotal = %s", sale.Subtotal)

	// AND stock was decremented once, by the combined quantity
	assert.Equal(t, 45, f.productStock(t, f.breadID))
}

func TestCreateSaleInsufficientStockRollsBackEverything(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	// GIVEN a cart whose first line fits in stock and second does not
	_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines: []service.SaleLineInput{
			{ProductCode: "P001", Quantity: 10},
			{ProductCode: "P002", Quantity: 51},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))

	// THEN the first line's decrement was rolled back too
	assert.Equal(t, 50, f.productStock(t, f.breadID))
	assert.Equal(t, 50, f.productStock(t, f.milkID))

	// AND the failed attempt did not consume a folio
	sale, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sale.Folio)
}

func TestCreateSaleInvoiceCustomerResolution(t *testing.T) {
	t.Run("invoice requires a customer", func(t *testing.T) {
		f := newSaleFixture(t)

		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindCustomerRequired))
	})

	t.Run("missing customer reported before empty cart", func(t *testing.T) {
		f := newSaleFixture(t)

		// An invoice with no customer AND no lines fails on the customer
		// first: the cart is only inspected once the customer question
		// is settled.
		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
		})
		assert.True(t, apperror.IsKind(err, apperror.KindCustomerRequired), "got %v", err)
	})

	t.Run("existing customer by id", func(t *testing.T) {
		f := newSaleFixture(t)

		sale, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
			CustomerID:   &f.customerID,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, sale.CustomerID)
		assert.Equal(t, f.customerID, *sale.CustomerID)
	})

	t.Run("unknown customer id", func(t *testing.T) {
		f := newSaleFixture(t)
		missing := uuid.New()

		_, err := f.sales.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
			CustomerID:   &missing,
			Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		assert.Equal(t, 50, f.productStock(t, f.breadID))
	})

	t.Run("inline customer is created with the sale", func(t *testing.T) {
		f := newSaleFixture(t)
		ctx := context.Background()

		sale, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
			NewCustomer: &service.NewCustomerInput{
				RUT:       "11111111-1",
				LegalName: "Ferreteria El Clavo",
				Activity:  "Ferreteria",
				Address:   "Calle Larga 45",
			},
			Lines: []service.SaleLineInput{{ProductCode: "P002", Quantity: 2}},
		})
		require.NoError(t, err)
		require.NotNil(t, sale.CustomerID)

		created, err := f.store.Customers().GetByRUT(ctx, "11.111.111-1")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, created.ID, *sale.CustomerID)
	})

	t.Run("invalid inline customer aborts the sale", func(t *testing.T) {
		f := newSaleFixture(t)
		ctx := context.Background()

		_, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
			UserID:       f.seller,
			DocumentType: enum.DocumentTypeInvoice,
			NewCustomer: &service.NewCustomerInput{
				RUT:       "12.345.678-6",
				LegalName: "Mal RUT SpA",
				Activity:  "Comercio",
				Address:   "Calle 1",
			},
			Lines: []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindCustomerInvalid))

		appErr := apperror.GetAppError(err)
		require.Len(t, appErr.Errors, 1)
		assert.Equal(t, "rut", appErr.Errors[0].Field)

		// Nothing was persisted
		ghost, err := f.store.Customers().GetByRUT(ctx, "12.345.678-6")
		require.NoError(t, err)
		assert.Nil(t, ghost)
		assert.Equal(t, 50, f.productStock(t, f.breadID))
	})
}

func TestFolioSequencesPerDocumentType(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	line := []service.SaleLineInput{{ProductCode: "P001", Quantity: 1}}

	first, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{UserID: f.seller, DocumentType: enum.DocumentTypeReceipt, Lines: line})
	require.NoError(t, err)
	second, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{UserID: f.seller, DocumentType: enum.DocumentTypeReceipt, Lines: line})
	require.NoError(t, err)
	invoice, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{UserID: f.seller, DocumentType: enum.DocumentTypeInvoice, CustomerID: &f.customerID, Lines: line})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Folio)
	assert.Equal(t, 2, second.Folio)
	assert.Equal(t, 1, invoice.Folio, "invoices number independently from receipts")

	next, err := f.sales.NextFolio(ctx, enum.DocumentTypeReceipt)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestSaleCapturesPriceAtSaleTime(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.sales.CreateSale(ctx, &service.CreateSaleInput{
		UserID:       f.seller,
		DocumentType: enum.DocumentTypeReceipt,
		Lines:        []service.SaleLineInput{{ProductCode: "P001", Quantity: 2}},
	})
	require.NoError(t, err)

	// WHEN the product price changes afterwards
	product, err := f.store.Products().GetByID(ctx, f.breadID)
	require.NoError(t, err)
	product.UnitPrice = decimal.RequireFromString("9999.00")
	require.NoError(t, f.store.Products().Update(ctx, product))

	// THEN the recorded sale keeps the price it sold at
	reloaded, err := f.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, reloaded.Subtotal.Equal(decimal.RequireFromString("2000.00")))
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	t.Run("both fit", func(t *testing.T) {
		f := newSaleFixture(t)
		ctx := context.Background()

		scarce := &entity.Product{Code: "P010", Name: "Vino Reserva", UnitPrice: decimal.RequireFromString("8000.00"), Stock: 10}
		require.NoError(t, f.store.Products().Create(ctx, scarce))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.sales.CreateSale(ctx, &service.CreateSaleInput{
					UserID:       f.seller,
					DocumentType: enum.DocumentTypeReceipt,
					Lines:        []service.SaleLineInput{{ProductCode: "P010", Quantity: 5}},
				})
			}(i)
		}
		wg.Wait()

		assert.NoError(t, errs[0])
		assert.NoError(t, errs[1])
		assert.Equal(t, 0, f.productStock(t, scarce.ID))
	})

	t.Run("combined demand exceeds stock", func(t *testing.T) {
		f := newSaleFixture(t)
		ctx := context.Background()

		scarce := &entity.Product{Code: "P011", Name: "Aceite Premium", UnitPrice: decimal.RequireFromString("4500.00"), Stock: 10}
		require.NoError(t, f.store.Products().Create(ctx, scarce))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.sales.CreateSale(ctx, &service.CreateSaleInput{
					UserID:       f.seller,
					DocumentType: enum.DocumentTypeReceipt,
					Lines:        []service.SaleLineInput{{ProductCode: "P011", Quantity: 6}},
				})
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				assert.True(t, apperror.IsKind(err, apperror.KindInsufficientStock))
				failures++
			}
		}
		assert.Equal(t, 1, failures, "exactly one of the two sales must lose")
		assert.Equal(t, 4, f.productStock(t, scarce.ID))
	})
}

func TestGetSaleNotFound(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.sales.GetSale(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
