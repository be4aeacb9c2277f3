package service

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"robotapp-backend/internal/cache"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/storage"
	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

const productCachePrefix = "products:"

type ProductInput struct {
	Name                string                 `json:"name" binding:"required,max=200"`
	Variant             string                 `json:"variant" binding:"required,variant"`
	Description         string                 `json:"description" binding:"required"`
	DetailedDescription string                 `json:"detailedDescription"`
	Features            []model.ProductFeature `json:"features"`
	Specifications      map[string]string      `json:"specifications"`
	Price               float64                `json:"price" binding:"gte=0"`
	DiscountPrice       *float64               `json:"discountPrice" binding:"omitempty,gte=0"`
	Images              []model.ProductImage   `json:"images"`
	Stock               int                    `json:"stock" binding:"gte=0"`
	IsActive            *bool                  `json:"isActive"`
	Tags                []string               `json:"tags"`
}

// ProductUpdateInput carries only the fields being changed
type ProductUpdateInput struct {
	Name                *string                `json:"name" binding:"omitempty,max=200"`
	Variant             *string                `json:"variant" binding:"omitempty,variant"`
	Description         *string                `json:"description"`
	DetailedDescription *string                `json:"detailedDescription"`
	Features            []model.ProductFeature `json:"features"`
	Specifications      map[string]string      `json:"specifications"`
	Price               *float64               `json:"price" binding:"omitempty,gte=0"`
	DiscountPrice       *float64               `json:"discountPrice" binding:"omitempty,gte=0"`
	Images              []model.ProductImage   `json:"images"`
	Stock               *int                   `json:"stock" binding:"omitempty,gte=0"`
	IsActive            *bool                  `json:"isActive"`
	Tags                []string               `json:"tags"`
}

// ProductPage is a cached catalog listing
type ProductPage struct {
	Items []*model.Product `json:"items"`
	Total int64            `json:"total"`
}

// ProductService manages the catalog
type ProductService struct {
	productRepo interfaces.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	files       storage.FileStorage
	now         func() time.Time
}

func NewProductService(productRepo interfaces.ProductRepository, c cache.Cache, cacheTTL time.Duration, files storage.FileStorage) *ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProductService{productRepo: productRepo, cache: c, cacheTTL: cacheTTL, files: files, now: time.Now}
}

// CreateProduct derives the slug from the name. The slug never changes afterwards.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if !model.ValidVariant(input.Variant) {
		return nil, errors.New(errors.ErrValidation, "variant must be one of Emo, EmoPro, ProPlus")
	}
	if input.Price < 0 || input.Stock < 0 || (input.DiscountPrice != nil && *input.DiscountPrice < 0) {
		return nil, errors.New(errors.ErrValidation, "price, discount price and stock must not be negative")
	}
	slug := util.Slugify(input.Name)
	if slug == "" {
		return nil, errors.New(errors.ErrValidation, "name must contain letters or digits")
	}

	now := s.now()
	product := &model.Product{
		ID:                  util.NewID(),
		Name:                strings.TrimSpace(input.Name),
		Slug:                slug,
		Variant:             input.Variant,
		Description:         input.Description,
		DetailedDescription: input.DetailedDescription,
		Features:            input.Features,
		Specifications:      input.Specifications,
		Price:               input.Price,
		DiscountPrice:       input.DiscountPrice,
		Images:              input.Images,
		Stock:               input.Stock,
		IsActive:            true,
		Tags:                input.Tags,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	normalizeProduct(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		if stderrors.Is(err, interfaces.ErrDuplicate) {
			return nil, errors.New(errors.ErrSlugExists, fmt.Sprintf("a product with slug %q already exists", slug))
		}
		return nil, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	s.invalidate(ctx)
	util.Logger.Info("product created", zap.String("product_id", product.ID), zap.String("slug", slug))
	return product, nil
}

// UpdateProduct applies a partial update. Renaming keeps the original slug.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input ProductUpdateInput) (*model.Product, error) {
	product, err := s.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Variant != nil {
		if !model.ValidVariant(*input.Variant) {
			return nil, errors.New(errors.ErrValidation, "variant must be one of Emo, EmoPro, ProPlus")
		}
		product.Variant = *input.Variant
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.DetailedDescription != nil {
		product.DetailedDescription = *input.DetailedDescription
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.Specifications != nil {
		product.Specifications = input.Specifications
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, errors.New(errors.ErrValidation, "price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		if *input.DiscountPrice < 0 {
			return nil, errors.New(errors.ErrValidation, "discount price must not be negative")
		}
		product.DiscountPrice = input.DiscountPrice
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, errors.New(errors.ErrValidation, "stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	normalizeProduct(product)
	product.UpdatedAt = s.now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	s.invalidate(ctx)
	return product, nil
}

// DeactivateProduct is the soft delete: the product stays but is hidden
func (s *ProductService) DeactivateProduct(ctx context.Context, id string) error {
	product, err := s.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	product.IsActive = false
	product.UpdatedAt = s.now()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return repoError(err, errors.ErrProductNotFound, "product not found")
	}
	s.invalidate(ctx)
	util.Logger.Info("product deactivated", zap.String("product_id", id))
	return nil
}

// DeleteProduct removes the product permanently
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return repoError(err, errors.ErrProductNotFound, "product not found")
	}
	s.invalidate(ctx)
	util.Logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// GetByID hides inactive products unless includeInactive is set
func (s *ProductService) GetByID(ctx context.Context, id string, includeInactive bool) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	if !product.IsActive && !includeInactive {
		return nil, errors.New(errors.ErrProductNotFound, "product not found")
	}
	return product, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string, includeInactive bool) (*model.Product, error) {
	key := productCachePrefix + "slug:" + slug
	var cached model.Product
	if !includeInactive {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		} else if err != nil {
			util.Logger.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	if !product.IsActive && !includeInactive {
		return nil, errors.New(errors.ErrProductNotFound, "product not found")
	}
	if product.IsActive {
		s.store(ctx, key, product)
	}
	return product, nil
}

// ListProducts serves public listings from the cache when possible
func (s *ProductService) ListProducts(ctx context.Context, filter model.ProductFilter) ([]*model.Product, int64, error) {
	if filter.Variant != "" && !model.ValidVariant(filter.Variant) {
		return nil, 0, errors.New(errors.ErrValidation, "variant must be one of Emo, EmoPro, ProPlus")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	key := productCachePrefix + "list:" + listKey(filter)
	if !filter.IncludeInactive {
		var page ProductPage
		if hit, err := s.cache.Get(ctx, key, &page); err == nil && hit {
			return page.Items, page.Total, nil
		}
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	if !filter.IncludeInactive {
		s.store(ctx, key, ProductPage{Items: products, Total: total})
	}
	return products, total, nil
}

// UploadImage optimizes the image, stores it and appends it to the product
func (s *ProductService) UploadImage(ctx context.Context, id string, filename string, body io.Reader, alt string) (*model.Product, error) {
	if s.files == nil {
		return nil, errors.New(errors.ErrStorage, "file storage is not configured")
	}
	product, err := s.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	data, err := storage.OptimizeImage(body, filepath.Ext(filename))
	if err != nil {
		if stderrors.Is(err, storage.ErrUnsupportedImage) {
			return nil, errors.New(errors.ErrValidation, err.Error())
		}
		return nil, errors.Wrap(errors.ErrValidation, "failed to decode image", err)
	}

	path := "products/" + product.ID + "/" + util.GenerateUniqueFilename("image.jpg")
	url, err := s.files.Save(ctx, path, bytes.NewReader(data), int64(len(data)), "image/jpeg")
	if err != nil {
		return nil, errors.Wrap(errors.ErrStorage, "failed to store image", err)
	}

	product.Images = append(product.Images, model.ProductImage{
		URL:       url,
		Alt:       alt,
		IsPrimary: len(product.Images) == 0,
	})
	product.UpdatedAt = s.now()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, repoError(err, errors.ErrProductNotFound, "product not found")
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		util.Logger.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		util.Logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

func listKey(f model.ProductFilter) string {
	price := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *p)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%t|%d|%d",
		f.Variant, strings.ToLower(f.Search), price(f.MinPrice), price(f.MaxPrice), f.SortField, f.SortDesc, f.Page, f.Limit)
}

func normalizeProduct(p *model.Product) {
	if p.Features == nil {
		p.Features = []model.ProductFeature{}
	}
	if p.Images == nil {
		p.Images = []model.ProductImage{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
