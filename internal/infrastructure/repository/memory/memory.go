// Package memory provides an in-memory implementation of the repository
// interfaces (for testing/dev). Transactions are simulated with a global
// lock plus snapshot/rollback, so a failed unit of work leaves no trace.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	domainRepo "github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/bazarpos/ventas-api/pkg/pagination"
	"github.com/google/uuid"
)

// Store holds all entities in maps guarded by one lock. Accessor methods
// hand out the repository interface for each entity.
type Store struct {
	mu        sync.Mutex
	users     map[uuid.UUID]entity.User
	customers map[uuid.UUID]entity.Customer
	products  map[uuid.UUID]entity.Product
	days      map[uuid.UUID]entity.DayRecord
	sales     map[uuid.UUID]entity.Sale
	items     []entity.SaleItem
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]entity.User),
		customers: make(map[uuid.UUID]entity.Customer),
		products:  make(map[uuid.UUID]entity.Product),
		days:      make(map[uuid.UUID]entity.DayRecord),
		sales:     make(map[uuid.UUID]entity.Sale),
	}
}

func (s *Store) Users() domainRepo.UserRepository         { return userRepo{s} }
func (s *Store) Customers() domainRepo.CustomerRepository { return customerRepo{s} }
func (s *Store) Products() domainRepo.ProductRepository   { return productRepo{s} }
func (s *Store) Days() domainRepo.DayRepository           { return dayRepo{s} }
func (s *Store) Sales() domainRepo.SaleRepository         { return saleRepo{s} }
func (s *Store) Transactor() domainRepo.Transactor        { return s }

// =============================================================================
// TRANSACTIONS - global lock + snapshot/rollback
// =============================================================================

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// lock acquires the store lock unless the context already runs inside a
// transaction, which holds the lock for its whole duration.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction runs fn under the store lock. State is snapshotted
// first and restored if fn fails: all-or-nothing, and concurrent
// transactions serialize instead of interleaving.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	users     map[uuid.UUID]entity.User
	customers map[uuid.UUID]entity.Customer
	products  map[uuid.UUID]entity.Product
	days      map[uuid.UUID]entity.DayRecord
	sales     map[uuid.UUID]entity.Sale
	items     []entity.SaleItem
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		users:     make(map[uuid.UUID]entity.User, len(s.users)),
		customers: make(map[uuid.UUID]entity.Customer, len(s.customers)),
		products:  make(map[uuid.UUID]entity.Product, len(s.products)),
		days:      make(map[uuid.UUID]entity.DayRecord, len(s.days)),
		sales:     make(map[uuid.UUID]entity.Sale, len(s.sales)),
		items:     append([]entity.SaleItem{}, s.items...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.days {
		snap.days[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.users = snap.users
	s.customers = snap.customers
	s.products = snap.products
	s.days = snap.days
	s.sales = snap.sales
	s.items = snap.items
}

// =============================================================================
// USERS
// =============================================================================

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	defer r.s.lock(ctx)()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.s.lock(ctx)()

	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(ctx context.Context, user *entity.User) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID)
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()

	delete(r.s.users, id)
	return nil
}

func (r userRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.User, int64, error) {
	defer r.s.lock(ctx)()

	users := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, int64(len(users)), nil
}

// =============================================================================
// CUSTOMERS
// =============================================================================

type customerRepo struct{ s *Store }

func (r customerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	defer r.s.lock(ctx)()

	for _, c := range r.s.customers {
		if c.RUT == customer.RUT {
			return fmt.Errorf("duplicate RUT %q", customer.RUT)
		}
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	defer r.s.lock(ctx)()

	if c, ok := r.s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r customerRepo) GetByRUT(ctx context.Context, rut string) (*entity.Customer, error) {
	defer r.s.lock(ctx)()

	for _, c := range r.s.customers {
		if c.RUT == rut {
			customer := c
			return &customer, nil
		}
	}
	return nil, nil
}

func (r customerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %s not found", customer.ID)
	}
	customer.UpdatedAt = time.Now()
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()

	delete(r.s.customers, id)
	return nil
}

func (r customerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	defer r.s.lock(ctx)()

	customers := make([]entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].LegalName < customers[j].LegalName })
	return customers, int64(len(customers)), nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, product *entity.Product) error {
	defer r.s.lock(ctx)()

	for _, p := range r.s.products {
		if p.Code == product.Code {
			return fmt.Errorf("duplicate product code %q", product.Code)
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	r.s.products[product.ID] = *product
	return nil
}

func (r productRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	defer r.s.lock(ctx)()

	if p, ok := r.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	defer r.s.lock(ctx)()

	for _, p := range r.s.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(ctx context.Context, product *entity.Product) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.products[product.ID]; !ok {
		return fmt.Errorf("product %s not found", product.ID)
	}
	product.UpdatedAt = time.Now()
	r.s.products[product.ID] = *product
	return nil
}

func (r productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()

	delete(r.s.products, id)
	return nil
}

func (r productRepo) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	defer r.s.lock(ctx)()

	products := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, int64(len(products)), nil
}

// DecrementStock mirrors the conditional UPDATE of the SQL repository:
// the check and the write happen under the same lock.
func (r productRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	defer r.s.lock(ctx)()

	p, ok := r.s.products[id]
	if !ok {
		return false, fmt.Errorf("product %s not found", id)
	}
	if p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	r.s.products[id] = p
	return true, nil
}

// =============================================================================
// DAY RECORDS
// =============================================================================

type dayRepo struct{ s *Store }

func (r dayRepo) Create(ctx context.Context, record *entity.DayRecord) error {
	defer r.s.lock(ctx)()

	date := entity.DateOf(record.Date)
	for _, d := range r.s.days {
		if d.Date.Equal(date) {
			return fmt.Errorf("duplicate day record for %s", date.Format("2006-01-02"))
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Date = date
	record.CreatedAt = time.Now()
	r.s.days[record.ID] = *record
	return nil
}

func (r dayRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DayRecord, error) {
	defer r.s.lock(ctx)()

	if d, ok := r.s.days[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (r dayRepo) GetByDate(ctx context.Context, date time.Time) (*entity.DayRecord, error) {
	defer r.s.lock(ctx)()

	day := entity.DateOf(date)
	for _, d := range r.s.days {
		if d.Date.Equal(day) {
			record := d
			return &record, nil
		}
	}
	return nil, nil
}

func (r dayRepo) Update(ctx context.Context, record *entity.DayRecord) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.days[record.ID]; !ok {
		return fmt.Errorf("day record %s not found", record.ID)
	}
	record.UpdatedAt = time.Now()
	r.s.days[record.ID] = *record
	return nil
}

// =============================================================================
// SALES
// =============================================================================

type saleRepo struct{ s *Store }

func (r saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.sales {
		if existing.DocumentType == sale.DocumentType && existing.Folio == sale.Folio {
			return fmt.Errorf("duplicate folio %d for %s", sale.Folio, sale.DocumentType)
		}
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r saleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	defer r.s.lock(ctx)()

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = time.Now()
		r.s.items = append(r.s.items, items[i])
	}
	return nil
}

func (r saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	defer r.s.lock(ctx)()

	if sale, ok := r.s.sales[id]; ok {
		r.s.attachCustomer(&sale)
		return &sale, nil
	}
	return nil, nil
}

func (r saleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	defer r.s.lock(ctx)()

	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	r.s.attachCustomer(&sale)
	r.s.attachItems(&sale)
	return &sale, nil
}

func (r saleRepo) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	defer r.s.lock(ctx)()

	sales := make([]entity.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		if params.DocumentType != nil && sale.DocumentType != *params.DocumentType {
			continue
		}
		if params.UserID != nil && sale.UserID != *params.UserID {
			continue
		}
		r.s.attachCustomer(&sale)
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].IssuedAt.After(sales[j].IssuedAt) })
	return sales, int64(len(sales)), nil
}

func (r saleRepo) ListByDay(ctx context.Context, dayRecordID uuid.UUID) ([]entity.Sale, error) {
	defer r.s.lock(ctx)()

	var sales []entity.Sale
	for _, sale := range r.s.sales {
		if sale.DayRecordID == dayRecordID {
			r.s.attachCustomer(&sale)
			r.s.attachItems(&sale)
			sales = append(sales, sale)
		}
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Folio < sales[j].Folio })
	return sales, nil
}

func (r saleRepo) NextFolio(ctx context.Context, docType enum.DocumentType) (int, error) {
	defer r.s.lock(ctx)()

	max := 0
	for _, sale := range r.s.sales {
		if sale.DocumentType == docType && sale.Folio > max {
			max = sale.Folio
		}
	}
	return max + 1, nil
}

func (r saleRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()

	var count int64
	for _, item := range r.s.items {
		if item.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r saleRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()

	var count int64
	for _, sale := range r.s.sales {
		if sale.CustomerID != nil && *sale.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r saleRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer r.s.lock(ctx)()

	var count int64
	for _, sale := range r.s.sales {
		if sale.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) attachCustomer(sale *entity.Sale) {
	if sale.CustomerID == nil {
		return
	}
	if c, ok := s.customers[*sale.CustomerID]; ok {
		customer := c
		sale.Customer = &customer
	}
}

func (s *Store) attachItems(sale *entity.Sale) {
	var items []entity.SaleItem
	for _, item := range s.items {
		if item.SaleID == sale.ID {
			if p, ok := s.products[item.ProductID]; ok {
				item.Product = p
			}
			items = append(items, item)
		}
	}
	sale.Items = items
}
