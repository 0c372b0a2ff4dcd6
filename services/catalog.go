package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/models"
	"shop-api/store"
	"shop-api/utils"
)

// Product listing bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// CreateProductInput carries the fields for a new product.
type CreateProductInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	CategoryID  string `json:"category_id"`
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	CategoryID  *string `json:"category_id"`
}

// ListProductsInput selects a page of the catalog.
type ListProductsInput struct {
	Page  int
	Limit int
	Query string
}

// ProductWithCategory embeds the category summary for listing responses.
type ProductWithCategory struct {
	models.Product
	Category *models.CategorySummary `json:"category,omitempty"`
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
	Total int64                 `json:"total"`
	Pages int64                 `json:"pages"`
	Items []ProductWithCategory `json:"items"`
}

// CategoryInput carries category create/update fields. An empty slug is
// derived from the name.
type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CatalogService owns product and category records.
type CatalogService struct {
	store  store.Store
	logger *zap.Logger
}

func NewCatalogService(s store.Store, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: s, logger: logger}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidInput("title is required")
	}
	if in.Price < 0 {
		return nil, invalidInput("price must be zero or greater")
	}
	if in.Stock < 0 {
		return nil, invalidInput("stock must be zero or greater")
	}
	if in.CategoryID != "" {
		if _, err := s.store.Categories().GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product_created", zap.String("product_id", product.ID), zap.String("title", product.Title))
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*models.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, invalidInput("title is required")
		}
		product.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, invalidInput("price must be zero or greater")
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, invalidInput("stock must be zero or greater")
		}
		product.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			if _, err := s.store.Categories().GetByID(ctx, *in.CategoryID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, ErrNotFound
				}
				return nil, err
			}
		}
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product and, in the same transaction, every
// cart line still referencing it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Tx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Products().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.CartItems().DeleteByProduct(ctx, id)
	})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductWithCategory, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.withCategory(ctx, *product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context, in ListProductsInput) (*ProductPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := store.ProductFilter{
		Query:  strings.TrimSpace(in.Query),
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	items, total, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &ProductPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + int64(limit) - 1) / int64(limit),
		Items: make([]ProductWithCategory, 0, len(items)),
	}
	for _, product := range items {
		result.Items = append(result.Items, *s.withCategory(ctx, product))
	}
	return result, nil
}

// withCategory attaches the category summary when the reference is still
// valid; a dangling category id just yields no category.
func (s *CatalogService) withCategory(ctx context.Context, product models.Product) *ProductWithCategory {
	out := &ProductWithCategory{Product: product}
	if product.CategoryID == "" {
		return out
	}
	category, err := s.store.Categories().GetByID(ctx, product.CategoryID)
	if err != nil {
		return out
	}
	summary := category.Summary()
	out.Category = &summary
	return out
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return nil, invalidInput("name must be at least 2 characters")
	}
	slug := utils.Slugify(in.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) < 2 {
			return nil, invalidInput("name must be at least 2 characters")
		}
		category.Name = name
		// Renaming without an explicit slug re-derives it from the name.
		if in.Slug == "" {
			category.Slug = utils.Slugify(name)
		}
	}
	if in.Slug != "" {
		category.Slug = utils.Slugify(in.Slug)
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.store.Categories().Update(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	err := s.store.Categories().Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// GetCategory resolves a category by id first, then by slug.
func (s *CatalogService) GetCategory(ctx context.Context, idOrSlug string) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, idOrSlug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	category, err = s.store.Categories().GetBySlug(ctx, idOrSlug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.Categories().List(ctx)
}
