package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazarpos/ventas-api/internal/application/service"
	"github.com/bazarpos/ventas-api/internal/config"
	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/infrastructure/repository/memory"
	"github.com/bazarpos/ventas-api/internal/presentation/http/handler"
	"github.com/bazarpos/ventas-api/internal/presentation/http/routes"
	"github.com/bazarpos/ventas-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiFixture struct {
	router       *gin.Engine
	store        *memory.Store
	sellerToken  string
	managerToken string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := memory.NewStore()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	password, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	seller := &entity.User{Username: "vendedor", Password: string(password), Role: enum.RoleSeller, Active: true}
	require.NoError(t, store.Users().Create(ctx, seller))
	manager := &entity.User{Username: "jefa", Password: string(password), Role: enum.RoleSalesManager, Active: true}
	require.NoError(t, store.Users().Create(ctx, manager))

	bread := &entity.Product{Code: "P001", Name: "Pan", UnitPrice: decimal.RequireFromString("1000.00"), Stock: 50}
	require.NoError(t, store.Products().Create(ctx, bread))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "ventas-api-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	customerSvc := service.NewCustomerService(store.Customers(), store.Sales())
	daySvc := service.NewDayService(store.Days(), time.UTC)
	saleSvc := service.NewSaleService(store.Transactor(), store.Sales(), store.Products(), store.Days(), customerSvc, decimal.RequireFromString("0.19"), time.UTC)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(store.Users(), jwtManager)),
		User:     handler.NewUserHandler(service.NewUserService(store.Users(), store.Sales())),
		Product:  handler.NewProductHandler(service.NewProductService(store.Products(), store.Sales())),
		Customer: handler.NewCustomerHandler(customerSvc),
		Day:      handler.NewDayHandler(daySvc),
		Sale:     handler.NewSaleHandler(saleSvc),
		Report:   handler.NewReportHandler(service.NewReportService(store.Days(), store.Sales(), time.UTC)),
	}

	router := routes.Setup(handlers, &routes.Deps{JWTManager: jwtManager, Cfg: cfg})

	sellerToken, err := jwtManager.GenerateAccessToken(seller.ID, seller.Username, seller.Role)
	require.NoError(t, err)
	managerToken, err := jwtManager.GenerateAccessToken(manager.ID, manager.Username, manager.Role)
	require.NoError(t, err)

	return &apiFixture{
		router:       router,
		store:        store,
		sellerToken:  sellerToken,
		managerToken: managerToken,
	}
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/v1/products", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "vendedor",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	tokens := data["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	rec = f.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "vendedor",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDayToggleIsManagerOnly(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.request(t, http.MethodPost, "/api/v1/day/toggle", f.sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request(t, http.MethodPost, "/api/v1/day/toggle", f.managerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSaleEndToEnd(t *testing.T) {
	f := newAPIFixture(t)

	// Selling with the day closed is rejected with the gate error
	rec := f.request(t, http.MethodPost, "/api/v1/sales", f.sellerToken, gin.H{
		"document_type": "receipt",
		"lines":         []gin.H{{"product_code": "P001", "quantity": 2}},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "day_not_opened", decodeBody(t, rec)["error"])

	// The manager opens the day
	rec = f.request(t, http.MethodPost, "/api/v1/day/toggle", f.managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Now the sale goes through
	rec = f.request(t, http.MethodPost, "/api/v1/sales", f.sellerToken, gin.H{
		"document_type": "receipt",
		"lines":         []gin.H{{"product_code": "P001", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["folio"])
	assert.Equal(t, "2000", data["subtotal"])
	assert.Equal(t, "380", data["tax"])
	assert.Equal(t, "2380", data["total"])

	// An invoice without a customer is rejected
	rec = f.request(t, http.MethodPost, "/api/v1/sales", f.sellerToken, gin.H{
		"document_type": "invoice",
		"lines":         []gin.H{{"product_code": "P001", "quantity": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer_required", decodeBody(t, rec)["error"])
}

func TestProductManagementIsManagerOnly(t *testing.T) {
	f := newAPIFixture(t)

	payload := gin.H{"code": "P100", "name": "Azucar", "unit_price": "1200.00", "stock": 30}

	rec := f.request(t, http.MethodPost, "/api/v1/products", f.sellerToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.request(t, http.MethodPost, "/api/v1/products", f.managerToken, payload)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Sellers can still read the catalogue
	rec = f.request(t, http.MethodGet, "/api/v1/products/code/P100", f.sellerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
