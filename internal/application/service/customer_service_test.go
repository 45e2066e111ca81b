package service_test

import (
	"context"
	"testing"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/infrastructure/repository/memory"
	"github.com/bazarpos/ventas-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerService() (*memory.Store, *service.CustomerService) {
	store := memory.NewStore()
	return store, service.NewCustomerService(store.Customers(), store.Sales())
}

func TestCreateCustomerNormalizesRUT(t *testing.T) {
	_, customers := newCustomerService()

	created, err := customers.CreateCustomer(context.Background(), &service.NewCustomerInput{
		RUT:       "123456785",
		LegalName: "Comercial Andina",
		Activity:  "Retail",
		Address:   "Av. Siempre Viva 123",
	})
	require.NoError(t, err)
	assert.Equal(t, "12.345.678-5", created.RUT)
}

func TestCreateCustomerValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  service.NewCustomerInput
		fields []string
	}{
		{
			name:   "bad check digit",
			input:  service.NewCustomerInput{RUT: "12.345.678-6", LegalName: "X", Activity: "Y", Address: "Z"},
			fields: []string{"rut"},
		},
		{
			name:   "missing everything",
			input:  service.NewCustomerInput{},
			fields: []string{"rut", "legal_name", "activity", "address"},
		},
		{
			name:   "whitespace only name",
			input:  service.NewCustomerInput{RUT: "12.345.678-5", LegalName: "   ", Activity: "Y", Address: "Z"},
			fields: []string{"legal_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, customers := newCustomerService()

			_, err := customers.CreateCustomer(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.KindCustomerInvalid))

			appErr := apperror.GetAppError(err)
			var got []string
			for _, fe := range appErr.Errors {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestCreateCustomerDuplicateRUT(t *testing.T) {
	_, customers := newCustomerService()
	ctx := context.Background()

	input := &service.NewCustomerInput{RUT: "12.345.678-5", LegalName: "A", Activity: "B", Address: "C"}
	_, err := customers.CreateCustomer(ctx, input)
	require.NoError(t, err)

	// Same RUT in a different written form is still the same customer
	_, err = customers.CreateCustomer(ctx, &service.NewCustomerInput{RUT: "123456785", LegalName: "D", Activity: "E", Address: "F"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateCustomerKeepsRUT(t *testing.T) {
	_, customers := newCustomerService()
	ctx := context.Background()

	created, err := customers.CreateCustomer(ctx, &service.NewCustomerInput{RUT: "12.345.678-5", LegalName: "A", Activity: "B", Address: "C"})
	require.NoError(t, err)

	name := "Nueva Razon Social"
	updated, err := customers.UpdateCustomer(ctx, &service.UpdateCustomerInput{ID: created.ID, LegalName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Nueva Razon Social", updated.LegalName)
	assert.Equal(t, "12.345.678-5", updated.RUT)
}
