package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const (
	CategoriesPath = "/api/categories"

	readyTimeout = 1 * time.Second
)

type Server struct {
	Store   Store
	Log     *zap.Logger
	Metrics *Metrics

	// WriteLimit, when set, throttles the mutating routes per client IP.
	WriteLimit *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route(CategoriesPath, func(r chi.Router) {
		r.Get("/", s.listCategories)
		s.writes(r).Post("/", s.createCategory)

		r.Route("/{categoryId}", func(r chi.Router) {
			r.Get("/", s.getCategory)
			s.writes(r).Delete("/", s.deleteCategory)
			s.writes(r).Put("/", s.updateCategory)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", s.listProducts)
				s.writes(r).Post("/", s.createProduct)
				s.writes(r).Delete("/{productId}", s.deleteProduct)
				s.writes(r).Put("/{productId}", s.replaceProduct)
			})
		})
	})

	return r
}

func (s *Server) writes(r chi.Router) chi.Router {
	if s.WriteLimit == nil {
		return r
	}
	return r.With(s.WriteLimit.Middleware)
}

func (s *Server) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.log().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Store.ListCategories(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, "list categories")
		return
	}
	kit.WriteJSON(w, http.StatusOK, cats)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c Category
	if err := kit.DecodeJSON(w, r, &c); err != nil {
		writeBadJSON(w, r, err)
		return
	}

	created, err := s.Store.CreateCategory(r.Context(), c)
	if err != nil {
		s.writeStoreError(w, r, err, "create category", zap.Int("submitted_id", c.ID))
		return
	}

	s.Metrics.observe(entityCategory, opCreate)
	s.log().Info("category created",
		zap.Int("category_id", created.ID),
		zap.String("name", created.Name),
		zap.Int("products", len(created.Products)),
	)

	w.Header().Set("Location", categoryLocation(created.ID))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	c, err := s.Store.GetCategory(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, "get category", zap.Int("category_id", id))
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	removed, err := s.Store.DeleteCategory(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, "delete category", zap.Int("category_id", id))
		return
	}

	s.Metrics.observe(entityCategory, opDelete)
	s.log().Info("category deleted",
		zap.Int("category_id", id),
		zap.Int("products_removed", len(removed.Products)),
	)
	w.WriteHeader(http.StatusNoContent)
}

// updateCategory looks the record up by the id in the body. The path id only
// shows up in the log when the two disagree.
func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var p CategoryPatch
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		writeBadJSON(w, r, err)
		return
	}

	if raw := chi.URLParam(r, "categoryId"); raw != strconv.Itoa(p.ID) {
		s.log().Warn("category update path and body ids differ",
			zap.String("path_id", raw),
			zap.Int("body_id", p.ID),
		)
	}

	updated, err := s.Store.UpdateCategory(r.Context(), p)
	if err != nil {
		s.writeStoreError(w, r, err, "update category", zap.Int("category_id", p.ID))
		return
	}

	s.Metrics.observe(entityCategory, opUpdate)
	s.log().Info("category updated",
		zap.Int("category_id", updated.ID),
		zap.String("name", updated.Name),
		zap.Int("products", len(updated.Products)),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	products, err := s.Store.ListProducts(r.Context(), categoryID)
	if err != nil {
		s.writeStoreError(w, r, err, "list products", zap.Int("category_id", categoryID))
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		writeBadJSON(w, r, err)
		return
	}

	created, err := s.Store.CreateProduct(r.Context(), categoryID, p)
	if err != nil {
		s.writeStoreError(w, r, err, "create product",
			zap.Int("category_id", categoryID),
			zap.Int("submitted_id", p.ID),
		)
		return
	}

	s.Metrics.observe(entityProduct, opCreate)
	s.log().Info("product created",
		zap.Int("category_id", created.CategoryID),
		zap.Int("product_id", created.ID),
		zap.String("name", created.Name),
		zap.Stringer("price", created.Price),
	)

	w.Header().Set("Location", productLocation(categoryID, created.ID))
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	if err := s.Store.DeleteProduct(r.Context(), categoryID, productID); err != nil {
		s.writeStoreError(w, r, err, "delete product",
			zap.Int("category_id", categoryID),
			zap.Int("product_id", productID),
		)
		return
	}

	s.Metrics.observe(entityProduct, opDelete)
	s.log().Info("product deleted",
		zap.Int("category_id", categoryID),
		zap.Int("product_id", productID),
	)
	w.WriteHeader(http.StatusNoContent)
}

// replaceProduct moves the body's product into the path category, creating it
// if no product with that id exists anywhere.
func (s *Server) replaceProduct(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	var p Product
	if err := kit.DecodeJSON(w, r, &p); err != nil {
		writeBadJSON(w, r, err)
		return
	}

	if raw := chi.URLParam(r, "productId"); raw != strconv.Itoa(p.ID) {
		s.log().Warn("product update path and body ids differ",
			zap.String("path_id", raw),
			zap.Int("body_id", p.ID),
		)
	}

	stored, err := s.Store.ReplaceProduct(r.Context(), categoryID, p)
	if err != nil {
		s.writeStoreError(w, r, err, "update product",
			zap.Int("category_id", categoryID),
			zap.Int("product_id", p.ID),
		)
		return
	}

	s.Metrics.observe(entityProduct, opUpdate)
	s.log().Info("product updated",
		zap.Int("category_id", stored.CategoryID),
		zap.Int("product_id", stored.ID),
		zap.String("name", stored.Name),
		zap.Stringer("price", stored.Price),
	)
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses an integer URL parameter. Anything strconv.Atoi rejects,
// "1.0" included, cannot name a stored record and is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{name: raw})
		return 0, false
	}
	return id, true
}

func writeBadJSON(w http.ResponseWriter, r *http.Request, err error) {
	kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, op string, fields ...zap.Field) {
	switch {
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrConflict):
		kit.WriteError(w, r, http.StatusConflict, "conflict", nil)
	case errors.Is(err, ErrIDOutOfRange):
		kit.WriteError(w, r, http.StatusBadRequest, "id out of range", map[string]any{"max": math.MaxInt - 1})
	case errors.Is(err, ErrStoreClosed):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "store unavailable", nil)
	default:
		s.log().Error(op+" failed", append(fields, zap.Error(err))...)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func categoryLocation(id int) string {
	return fmt.Sprintf("%s/%d", CategoriesPath, id)
}

func productLocation(categoryID, productID int) string {
	return fmt.Sprintf("%s/%d/products/%d", CategoriesPath, categoryID, productID)
}
