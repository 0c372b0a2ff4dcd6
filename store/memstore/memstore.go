// Package memstore is an in-memory store.Store. A single mutex
// serializes every operation, and Tx takes a snapshot of all tables up
// front so a failed transaction rolls back completely. That makes it a
// faithful stand-in for the MongoDB store in tests and local runs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"shop-api/models"
	"shop-api/store"
)

type tables struct {
	users      map[string]*models.User
	products   map[string]*models.Product
	categories map[string]*models.Category
	cartItems  map[string]*cartRecord
	orders     map[string]*orderRecord
	seq        uint64
}

// cartRecord and orderRecord carry an insertion sequence so newest-first
// listings are stable even when timestamps collide.
type cartRecord struct {
	item models.CartItem
	seq  uint64
}

type orderRecord struct {
	order models.Order
	seq   uint64
}

// Memstore implements store.Store in memory.
type Memstore struct {
	mu   *sync.Mutex
	data *tables
	inTx bool
}

// New returns an empty in-memory store.
func New() *Memstore {
	return &Memstore{
		mu: &sync.Mutex{},
		data: &tables{
			users:      make(map[string]*models.User),
			products:   make(map[string]*models.Product),
			categories: make(map[string]*models.Category),
			cartItems:  make(map[string]*cartRecord),
			orders:     make(map[string]*orderRecord),
		},
	}
}

func (s *Memstore) Users() store.UserStore          { return users{s} }
func (s *Memstore) Products() store.ProductStore    { return products{s} }
func (s *Memstore) Categories() store.CategoryStore { return categories{s} }
func (s *Memstore) CartItems() store.CartStore      { return carts{s} }
func (s *Memstore) Orders() store.OrderStore        { return orders{s} }

// Tx serializes the whole unit of work under the store mutex and rolls
// back to a snapshot when fn fails. A nested Tx joins the outer one.
func (s *Memstore) Tx(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Memstore{mu: s.mu, data: s.data, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// lock acquires the store mutex unless the caller is already inside a
// transaction, which holds it for the duration of the Tx.
func (s *Memstore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Memstore) nextSeq() uint64 {
	s.data.seq++
	return s.data.seq
}

func (t *tables) clone() *tables {
	c := &tables{
		users:      make(map[string]*models.User, len(t.users)),
		products:   make(map[string]*models.Product, len(t.products)),
		categories: make(map[string]*models.Category, len(t.categories)),
		cartItems:  make(map[string]*cartRecord, len(t.cartItems)),
		orders:     make(map[string]*orderRecord, len(t.orders)),
		seq:        t.seq,
	}
	for id, u := range t.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, p := range t.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, cat := range t.categories {
		cp := *cat
		c.categories[id] = &cp
	}
	for id, rec := range t.cartItems {
		cp := *rec
		c.cartItems[id] = &cp
	}
	for id, rec := range t.orders {
		cp := *rec
		cp.order.Items = append([]models.OrderItem(nil), rec.order.Items...)
		c.orders[id] = &cp
	}
	return c
}

type users struct{ s *Memstore }

func (u users) Create(ctx context.Context, user *models.User) error {
	defer u.s.lock()()

	for _, existing := range u.s.data.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if _, exists := u.s.data.users[user.ID]; exists {
		return store.ErrDuplicate
	}
	cp := *user
	u.s.data.users[user.ID] = &cp
	return nil
}

func (u users) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer u.s.lock()()

	user, ok := u.s.data.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer u.s.lock()()

	for _, user := range u.s.data.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

type products struct{ s *Memstore }

func (p products) Create(ctx context.Context, product *models.Product) error {
	defer p.s.lock()()

	if _, exists := p.s.data.products[product.ID]; exists {
		return store.ErrDuplicate
	}
	cp := *product
	p.s.data.products[product.ID] = &cp
	return nil
}

func (p products) Update(ctx context.Context, product *models.Product) error {
	defer p.s.lock()()

	if _, exists := p.s.data.products[product.ID]; !exists {
		return store.ErrNotFound
	}
	cp := *product
	p.s.data.products[product.ID] = &cp
	return nil
}

func (p products) Delete(ctx context.Context, id string) error {
	defer p.s.lock()()

	if _, exists := p.s.data.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(p.s.data.products, id)
	return nil
}

func (p products) GetByID(ctx context.Context, id string) (*models.Product, error) {
	defer p.s.lock()()

	product, ok := p.s.data.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

func (p products) List(ctx context.Context, filter store.ProductFilter) ([]models.Product, int64, error) {
	defer p.s.lock()()

	query := strings.ToLower(filter.Query)
	matched := make([]models.Product, 0, len(p.s.data.products))
	for _, product := range p.s.data.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(product.Title), query) &&
			!strings.Contains(strings.ToLower(product.Description), query) {
			continue
		}
		matched = append(matched, *product)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.Product{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (p products) DecrementStock(ctx context.Context, id string, quantity int) error {
	defer p.s.lock()()

	product, ok := p.s.data.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if product.Stock < quantity {
		return store.ErrInsufficientStock
	}
	product.Stock -= quantity
	return nil
}

type categories struct{ s *Memstore }

func (c categories) Create(ctx context.Context, category *models.Category) error {
	defer c.s.lock()()

	for _, existing := range c.s.data.categories {
		if existing.Slug == category.Slug || existing.Name == category.Name {
			return store.ErrDuplicate
		}
	}
	cp := *category
	c.s.data.categories[category.ID] = &cp
	return nil
}

func (c categories) Update(ctx context.Context, category *models.Category) error {
	defer c.s.lock()()

	if _, exists := c.s.data.categories[category.ID]; !exists {
		return store.ErrNotFound
	}
	for id, existing := range c.s.data.categories {
		if id == category.ID {
			continue
		}
		if existing.Slug == category.Slug || existing.Name == category.Name {
			return store.ErrDuplicate
		}
	}
	cp := *category
	c.s.data.categories[category.ID] = &cp
	return nil
}

func (c categories) Delete(ctx context.Context, id string) error {
	defer c.s.lock()()

	if _, exists := c.s.data.categories[id]; !exists {
		return store.ErrNotFound
	}
	delete(c.s.data.categories, id)
	return nil
}

func (c categories) GetByID(ctx context.Context, id string) (*models.Category, error) {
	defer c.s.lock()()

	category, ok := c.s.data.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *category
	return &cp, nil
}

func (c categories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	defer c.s.lock()()

	for _, category := range c.s.data.categories {
		if category.Slug == slug {
			cp := *category
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (c categories) List(ctx context.Context) ([]models.Category, error) {
	defer c.s.lock()()

	out := make([]models.Category, 0, len(c.s.data.categories))
	for _, category := range c.s.data.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type carts struct{ s *Memstore }

func (c carts) Upsert(ctx context.Context, item *models.CartItem) error {
	defer c.s.lock()()

	existing, ok := c.s.data.cartItems[item.ID]
	for id, rec := range c.s.data.cartItems {
		if id == item.ID {
			continue
		}
		if rec.item.UserID == item.UserID && rec.item.ProductID == item.ProductID {
			return store.ErrDuplicate
		}
	}
	seq := c.s.nextSeq()
	if ok {
		seq = existing.seq
	}
	c.s.data.cartItems[item.ID] = &cartRecord{item: *item, seq: seq}
	return nil
}

func (c carts) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	defer c.s.lock()()

	rec, ok := c.s.data.cartItems[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := rec.item
	return &cp, nil
}

func (c carts) GetByUserProduct(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	defer c.s.lock()()

	for _, rec := range c.s.data.cartItems {
		if rec.item.UserID == userID && rec.item.ProductID == productID {
			cp := rec.item
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (c carts) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	defer c.s.lock()()

	recs := make([]*cartRecord, 0)
	for _, rec := range c.s.data.cartItems {
		if rec.item.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.CartItem, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.item)
	}
	return out, nil
}

func (c carts) Delete(ctx context.Context, id string) error {
	defer c.s.lock()()

	if _, exists := c.s.data.cartItems[id]; !exists {
		return store.ErrNotFound
	}
	delete(c.s.data.cartItems, id)
	return nil
}

func (c carts) DeleteByUser(ctx context.Context, userID string) error {
	defer c.s.lock()()

	for id, rec := range c.s.data.cartItems {
		if rec.item.UserID == userID {
			delete(c.s.data.cartItems, id)
		}
	}
	return nil
}

func (c carts) DeleteByProduct(ctx context.Context, productID string) error {
	defer c.s.lock()()

	for id, rec := range c.s.data.cartItems {
		if rec.item.ProductID == productID {
			delete(c.s.data.cartItems, id)
		}
	}
	return nil
}

type orders struct{ s *Memstore }

func (o orders) Create(ctx context.Context, order *models.Order) error {
	defer o.s.lock()()

	if _, exists := o.s.data.orders[order.ID]; exists {
		return store.ErrDuplicate
	}
	cp := *order
	cp.Items = append([]models.OrderItem(nil), order.Items...)
	o.s.data.orders[order.ID] = &orderRecord{order: cp, seq: o.s.nextSeq()}
	return nil
}

func (o orders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	defer o.s.lock()()

	rec, ok := o.s.data.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := rec.order
	cp.Items = append([]models.OrderItem(nil), rec.order.Items...)
	return &cp, nil
}

func (o orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	defer o.s.lock()()

	recs := make([]*orderRecord, 0)
	for _, rec := range o.s.data.orders {
		if rec.order.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	out := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		cp := rec.order
		cp.Items = append([]models.OrderItem(nil), rec.order.Items...)
		out = append(out, cp)
	}
	return out, nil
}
