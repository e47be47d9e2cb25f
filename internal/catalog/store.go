package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("id already exists")
	ErrStoreClosed = errors.New("store closed")
	// ErrIDOutOfRange rejects a client-chosen product id that would leave the
	// product counter no room to hand out another id.
	ErrIDOutOfRange = errors.New("id out of range")
)

type Store interface {
	Ping(ctx context.Context) error

	ListCategories(ctx context.Context) ([]CategorySummary, error)
	GetCategory(ctx context.Context, id int) (Category, error)
	// CreateCategory rejects c if its submitted ID is already taken, then
	// stores it under a fresh ID.
	CreateCategory(ctx context.Context, c Category) (Category, error)
	// UpdateCategory merges the present fields of p onto the category whose
	// ID equals p.ID.
	UpdateCategory(ctx context.Context, p CategoryPatch) (Category, error)
	// DeleteCategory removes the category together with its products and
	// returns what was removed.
	DeleteCategory(ctx context.Context, id int) (Category, error)

	ListProducts(ctx context.Context, categoryID int) ([]Product, error)
	CreateProduct(ctx context.Context, categoryID int, p Product) (Product, error)
	DeleteProduct(ctx context.Context, categoryID, productID int) error
	// ReplaceProduct drops every product with p.ID from the whole store and
	// appends p to categoryID's list. Nothing changes if categoryID is absent.
	ReplaceProduct(ctx context.Context, categoryID int, p Product) (Product, error)
}
