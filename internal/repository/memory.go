// internal/repository/memory.go
package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easyretail/shop-backend/internal/models"
)

// MemoryStore keeps every table in process memory. It backs
// DATABASE_URL=memory:// and the service tests.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	products   table[models.Product]
	customers  table[models.Customer]
	suppliers  table[models.Supplier]
	orders     table[models.Order]
	nextItemID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:       time.Now,
		products:  newTable(func(p models.Product) time.Time { return p.CreatedAt }),
		customers: newTable(func(c models.Customer) time.Time { return c.CreatedAt }),
		suppliers: newTable(func(s models.Supplier) time.Time { return s.CreatedAt }),
		orders:    newTable(func(o models.Order) time.Time { return o.CreatedAt }),
	}
}

// NewMemoryRepositories returns repositories sharing one fresh store.
func NewMemoryRepositories() Repositories {
	s := NewMemoryStore()
	return Repositories{
		Products:  &MemoryProducts{s},
		Customers: &MemoryCustomers{s},
		Suppliers: &MemorySuppliers{s},
		Orders:    &MemoryOrders{s},
	}
}

// Ensure interfaces
var (
	_ ProductRepository  = (*MemoryProducts)(nil)
	_ CustomerRepository = (*MemoryCustomers)(nil)
	_ SupplierRepository = (*MemorySuppliers)(nil)
	_ OrderRepository    = (*MemoryOrders)(nil)
)

type row[T any] struct {
	seq int64
	v   T
}

// table is an insertion-ordered map. Lists come back newest first.
type table[T any] struct {
	rows      map[string]row[T]
	next      int64
	createdAt func(T) time.Time
}

func newTable[T any](createdAt func(T) time.Time) table[T] {
	return table[T]{rows: make(map[string]row[T]), createdAt: createdAt}
}

func (t *table[T]) get(id string) (T, bool) {
	r, ok := t.rows[id]
	return r.v, ok
}

func (t *table[T]) put(id string, v T) {
	r, ok := t.rows[id]
	if !ok {
		t.next++
		r.seq = t.next
	}
	r.v = v
	t.rows[id] = r
}

func (t *table[T]) sorted(keep func(T) bool) []T {
	rows := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if keep == nil || keep(r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := t.createdAt(rows[i].v), t.createdAt(rows[j].v)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out
}

func (s *MemoryStore) stamp(base *models.BaseModel) {
	now := s.now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

// MemoryProducts implements ProductRepository.
type MemoryProducts struct{ s *MemoryStore }

func (m *MemoryProducts) List(_ context.Context, f ProductFilter) ([]models.Product, int64, error) {
	search := strings.ToLower(f.Search)
	m.s.mu.RLock()
	all := m.s.products.sorted(func(p models.Product) bool {
		if search != "" && !containsFold(p.Name, search) && !containsFold(p.ID, search) &&
			!containsFold(p.SKU, search) && !containsFold(p.Category, search) {
			return false
		}
		if f.Category != "" && p.Category != f.Category {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if f.Active != nil && p.IsActive != *f.Active {
			return false
		}
		return true
	})
	m.s.mu.RUnlock()

	total := int64(len(all))
	if f.Limit > 0 {
		start := f.Offset
		if start > len(all) {
			start = len(all)
		}
		end := start + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (m *MemoryProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	p, ok := m.s.products.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryProducts) Create(_ context.Context, p *models.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products.get(p.ID); ok {
		return ErrDuplicate
	}
	m.s.stamp(&p.BaseModel)
	m.s.products.put(p.ID, *p)
	return nil
}

func (m *MemoryProducts) CreateMany(_ context.Context, products []models.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if _, ok := m.s.products.get(p.ID); ok || seen[p.ID] {
			return ErrDuplicate
		}
		seen[p.ID] = true
	}
	for i := range products {
		m.s.stamp(&products[i].BaseModel)
		m.s.products.put(products[i].ID, products[i])
	}
	return nil
}

func (m *MemoryProducts) Mutate(_ context.Context, id string, fn MutateFunc) (*models.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.products.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	p.ID = id
	m.s.stamp(&p.BaseModel)
	m.s.products.put(id, p)
	return &p, nil
}

func (m *MemoryProducts) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.products.get(id); !ok {
		return ErrNotFound
	}
	delete(m.s.products.rows, id)
	return nil
}

func (m *MemoryProducts) DeleteAll(_ context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := int64(len(m.s.products.rows))
	m.s.products.rows = make(map[string]row[models.Product])
	return n, nil
}

// MemoryCustomers implements CustomerRepository.
type MemoryCustomers struct{ s *MemoryStore }

func (m *MemoryCustomers) List(_ context.Context) ([]models.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.customers.sorted(nil), nil
}

func (m *MemoryCustomers) Search(_ context.Context, query string) ([]models.Customer, error) {
	q := strings.ToLower(query)
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.customers.sorted(func(c models.Customer) bool {
		return containsFold(c.Name, q) || containsFold(c.Email, q) || strings.Contains(c.Phone, query)
	}), nil
}

func (m *MemoryCustomers) FindByID(_ context.Context, id string) (*models.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	c, ok := m.s.customers.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryCustomers) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, r := range m.s.customers.rows {
		if r.v.Email == email {
			c := r.v
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryCustomers) emailTaken(email, exceptID string) bool {
	for id, r := range m.s.customers.rows {
		if id != exceptID && r.v.Email == email {
			return true
		}
	}
	return false
}

func (m *MemoryCustomers) Create(_ context.Context, c *models.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.customers.get(c.ID); ok || m.emailTaken(c.Email, "") {
		return ErrDuplicate
	}
	m.s.stamp(&c.BaseModel)
	m.s.customers.put(c.ID, *c)
	return nil
}

func (m *MemoryCustomers) Update(_ context.Context, c *models.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.customers.get(c.ID); !ok {
		return ErrNotFound
	}
	if m.emailTaken(c.Email, c.ID) {
		return ErrDuplicate
	}
	m.s.stamp(&c.BaseModel)
	m.s.customers.put(c.ID, *c)
	return nil
}

func (m *MemoryCustomers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.customers.get(id); !ok {
		return ErrNotFound
	}
	delete(m.s.customers.rows, id)
	return nil
}

// MemorySuppliers implements SupplierRepository.
type MemorySuppliers struct{ s *MemoryStore }

func (m *MemorySuppliers) List(_ context.Context) ([]models.Supplier, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.suppliers.sorted(nil), nil
}

func (m *MemorySuppliers) Search(_ context.Context, query string) ([]models.Supplier, error) {
	q := strings.ToLower(query)
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.suppliers.sorted(func(s models.Supplier) bool {
		return containsFold(s.Name, q) || containsFold(s.Email, q) ||
			containsFold(s.Company, q) || strings.Contains(s.Phone, query)
	}), nil
}

func (m *MemorySuppliers) FindByID(_ context.Context, id string) (*models.Supplier, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	s, ok := m.s.suppliers.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemorySuppliers) FindByEmail(_ context.Context, email string) (*models.Supplier, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, r := range m.s.suppliers.rows {
		if r.v.Email == email {
			s := r.v
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemorySuppliers) emailTaken(email, exceptID string) bool {
	for id, r := range m.s.suppliers.rows {
		if id != exceptID && r.v.Email == email {
			return true
		}
	}
	return false
}

func (m *MemorySuppliers) Create(_ context.Context, s *models.Supplier) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.suppliers.get(s.ID); ok || m.emailTaken(s.Email, "") {
		return ErrDuplicate
	}
	m.s.stamp(&s.BaseModel)
	m.s.suppliers.put(s.ID, *s)
	return nil
}

func (m *MemorySuppliers) Update(_ context.Context, s *models.Supplier) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.suppliers.get(s.ID); !ok {
		return ErrNotFound
	}
	if m.emailTaken(s.Email, s.ID) {
		return ErrDuplicate
	}
	m.s.stamp(&s.BaseModel)
	m.s.suppliers.put(s.ID, *s)
	return nil
}

func (m *MemorySuppliers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.suppliers.get(id); !ok {
		return ErrNotFound
	}
	delete(m.s.suppliers.rows, id)
	return nil
}

// MemoryOrders implements OrderRepository.
type MemoryOrders struct{ s *MemoryStore }

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func (m *MemoryOrders) List(_ context.Context, f OrderFilter) ([]models.Order, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	orders := m.s.orders.sorted(func(o models.Order) bool {
		return f.Status == "" || o.Status == f.Status
	})
	for i := range orders {
		orders[i] = cloneOrder(orders[i])
	}
	return orders, nil
}

func (m *MemoryOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	o, ok := m.s.orders.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *MemoryOrders) Create(_ context.Context, o *models.Order) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.orders.get(o.ID); ok {
		return ErrDuplicate
	}
	for i := range o.Items {
		m.s.nextItemID++
		o.Items[i].ID = m.s.nextItemID
		o.Items[i].OrderID = o.ID
	}
	m.s.stamp(&o.BaseModel)
	m.s.orders.put(o.ID, cloneOrder(*o))
	return nil
}

func (m *MemoryOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	o, ok := m.s.orders.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	m.s.stamp(&o.BaseModel)
	m.s.orders.put(id, o)
	o = cloneOrder(o)
	return &o, nil
}

func (m *MemoryOrders) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.orders.get(id); !ok {
		return ErrNotFound
	}
	delete(m.s.orders.rows, id)
	return nil
}
