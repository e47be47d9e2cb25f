package catalog

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// MemStore keeps the whole catalog in process memory. Categories and their
// products stay in insertion order; lookups are linear scans.
type MemStore struct {
	mu sync.RWMutex

	categories     []*Category
	lastCategoryID int
	lastProductID  int
	closed         bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

// NewSeededStore returns a store holding the two demo categories and their
// four products.
func NewSeededStore() *MemStore {
	s := NewMemStore()

	games := s.insertCategory(Category{Name: "Games"})
	s.insertProduct(games, Product{Name: "Red Dead Redemption", Color: "Red", Price: NewPrice(decimal.RequireFromString("25.5"))})
	s.insertProduct(games, Product{Name: "Machinarium", Color: "Brown", Price: NewPrice(decimal.RequireFromString("12.25"))})

	books := s.insertCategory(Category{Name: "Books"})
	s.insertProduct(books, Product{Name: "Neuromancer", Color: "Blue", Price: NewPrice(decimal.RequireFromString("17.43"))})
	s.insertProduct(books, Product{Name: "What If?", Color: "LimeGreen", Price: NewPrice(decimal.NewFromInt(14))})

	return s
}

func (s *MemStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close drops all data. Every later call returns ErrStoreClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = nil
	s.closed = true
	return nil
}

// Stats reports how many categories and products are currently held.
func (s *MemStore) Stats() (categories, products int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		products += len(c.Products)
	}
	return len(s.categories), products
}

func (s *MemStore) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	out := make([]CategorySummary, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Summary())
	}
	return out, nil
}

func (s *MemStore) GetCategory(ctx context.Context, id int) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Category{}, ErrStoreClosed
	}

	c := s.findCategory(id)
	if c == nil {
		return Category{}, ErrNotFound
	}
	return c.clone(), nil
}

func (s *MemStore) CreateCategory(ctx context.Context, c Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Category{}, ErrStoreClosed
	}

	if s.findCategory(c.ID) != nil {
		return Category{}, ErrConflict
	}
	if err := checkProductIDs(c.Products); err != nil {
		return Category{}, err
	}
	return s.insertCategory(c).clone(), nil
}

func (s *MemStore) UpdateCategory(ctx context.Context, p CategoryPatch) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Category{}, ErrStoreClosed
	}

	c := s.findCategory(p.ID)
	if c == nil {
		return Category{}, ErrNotFound
	}
	if p.Products != nil {
		if err := checkProductIDs(*p.Products); err != nil {
			return Category{}, err
		}
	}

	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Products != nil {
		c.Products = cloneProducts(*p.Products)
		s.observeProductIDs(c.Products)
	}
	return c.clone(), nil
}

func (s *MemStore) DeleteCategory(ctx context.Context, id int) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Category{}, ErrStoreClosed
	}

	i := slices.IndexFunc(s.categories, func(c *Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, ErrNotFound
	}

	removed := s.categories[i]
	s.categories = slices.Delete(s.categories, i, i+1)
	return *removed, nil
}

func (s *MemStore) ListProducts(ctx context.Context, categoryID int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	c := s.findCategory(categoryID)
	if c == nil {
		return nil, ErrNotFound
	}
	return cloneProducts(c.Products), nil
}

func (s *MemStore) CreateProduct(ctx context.Context, categoryID int, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Product{}, ErrStoreClosed
	}

	c := s.findCategory(categoryID)
	if c == nil {
		return Product{}, ErrNotFound
	}
	if slices.ContainsFunc(c.Products, func(e Product) bool { return e.ID == p.ID }) {
		return Product{}, ErrConflict
	}
	return s.insertProduct(c, p), nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, categoryID, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	c := s.findCategory(categoryID)
	if c == nil {
		return ErrNotFound
	}

	n := len(c.Products)
	c.Products = slices.DeleteFunc(c.Products, func(e Product) bool { return e.ID == productID })
	if len(c.Products) == n {
		return ErrNotFound
	}
	return nil
}

func (s *MemStore) ReplaceProduct(ctx context.Context, categoryID int, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Product{}, ErrStoreClosed
	}

	target := s.findCategory(categoryID)
	if target == nil {
		return Product{}, ErrNotFound
	}
	if err := checkProductIDs([]Product{p}); err != nil {
		return Product{}, err
	}

	for _, c := range s.categories {
		c.Products = slices.DeleteFunc(c.Products, func(e Product) bool { return e.ID == p.ID })
	}

	p.CategoryID = target.ID
	target.Products = append(target.Products, p)
	s.observeProductIDs([]Product{p})
	return p, nil
}

func (s *MemStore) findCategory(id int) *Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// insertCategory assigns the next category ID and appends c. Caller holds mu.
func (s *MemStore) insertCategory(c Category) *Category {
	s.lastCategoryID++
	c.ID = s.lastCategoryID
	c.Products = cloneProducts(c.Products)
	s.observeProductIDs(c.Products)

	rec := &c
	s.categories = append(s.categories, rec)
	return rec
}

// insertProduct assigns the next product ID, stamps the owner and appends p.
// Caller holds mu.
func (s *MemStore) insertProduct(c *Category, p Product) Product {
	s.lastProductID++
	p.ID = s.lastProductID
	p.CategoryID = c.ID
	c.Products = append(c.Products, p)
	return p
}

// checkProductIDs runs before any mutation so a rejected request changes
// nothing.
func checkProductIDs(ps []Product) error {
	for _, p := range ps {
		if p.ID >= math.MaxInt {
			return ErrIDOutOfRange
		}
	}
	return nil
}

// observeProductIDs moves the product counter past any client-chosen IDs so a
// later create never hands out an ID that is already in use.
func (s *MemStore) observeProductIDs(ps []Product) {
	for _, p := range ps {
		s.lastProductID = max(s.lastProductID, p.ID)
	}
}
