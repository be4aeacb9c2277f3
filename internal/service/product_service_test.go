package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"robotapp-backend/internal/cache"
	"robotapp-backend/internal/errors"
	"robotapp-backend/internal/model"
	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/repository/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryFiles struct {
	saved map[string][]byte
}

func (m *memoryFiles) Save(_ context.Context, path string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[path] = data
	return "/uploads/" + path, nil
}

func newProductService(repo *mocks.ProductRepository, c cache.Cache) *ProductService {
	s := NewProductService(repo, c, time.Minute, &memoryFiles{})
	s.now = clock
	return s
}

func TestCreateProductDerivesSlug(t *testing.T) {
	repo := new(mocks.ProductRepository)
	s := newProductService(repo, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := s.CreateProduct(context.Background(), ProductInput{
		Name:        "Emo  Pro -- Desk Robot!",
		Variant:     "EmoPro",
		Description: "A desk companion",
		Price:       499,
		Stock:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, "emo-pro-desk-robot", product.Slug)
	assert.True(t, product.IsActive)
	assert.NotNil(t, product.Features)
	assert.NotNil(t, product.Tags)
}

func TestCreateProductValidation(t *testing.T) {
	repo := new(mocks.ProductRepository)
	s := newProductService(repo, nil)

	_, err := s.CreateProduct(context.Background(), ProductInput{Name: "Robot", Variant: "Mega", Description: "d"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = s.CreateProduct(context.Background(), ProductInput{Name: "Robot", Variant: "Emo", Description: "d", Price: -1})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = s.CreateProduct(context.Background(), ProductInput{Name: "!!!", Variant: "Emo", Description: "d"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	repo := new(mocks.ProductRepository)
	s := newProductService(repo, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(interfaces.ErrDuplicate)

	_, err := s.CreateProduct(context.Background(), ProductInput{Name: "Emo", Variant: "Emo", Description: "d"})
	assert.True(t, errors.Is(err, errors.ErrSlugExists))
	assert.Equal(t, 409, errors.StatusOf(errors.CodeOf(err)))
}

func TestUpdateProductKeepsSlug(t *testing.T) {
	repo := new(mocks.ProductRepository)
	s := newProductService(repo, nil)
	product := &model.Product{ID: "p1", Name: "Emo", Slug: "emo", Variant: "Emo", IsActive: true}
	repo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	repo.On("Update", mock.Anything, product).Return(nil)

	name := "Emo Second Edition"
	price := 599.0
	updated, err := s.UpdateProduct(context.Background(), "p1", ProductUpdateInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Emo Second Edition", updated.Name)
	assert.Equal(t, "emo", updated.Slug)
	assert.Equal(t, 599.0, updated.Price)

	stock := -2
	_, err = s.UpdateProduct(context.Background(), "p1", ProductUpdateInput{Stock: &stock})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDeactivateAndDeleteProduct(t *testing.T) {
	repo := new(mocks.ProductRepository)
	s := newProductService(repo, nil)
	product := &model.Product{ID: "p1", IsActive: true}
	repo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	repo.On("Update", mock.Anything, product).Return(nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)
	repo.On("Delete", mock.Anything, "gone").Return(interfaces.ErrNotFound)

	require.NoError(t, s.DeactivateProduct(context.Background(), "p1"))
	assert.False(t, product.IsActive)

	_, err := s.GetByID(context.Background(), "p1", false)
	assert.True(t, errors.Is(err, errors.ErrProductNotFound))
	got, err := s.GetByID(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	require.NoError(t, s.DeleteProduct(context.Background(), "p1"))
	err = s.DeleteProduct(context.Background(), "gone")
	assert.True(t, errors.Is(err, errors.ErrProductNotFound))
}

func TestGetBySlugUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := new(mocks.ProductRepository)
	s := newProductService(repo, cache.NewRedisCacheFromClient(client))
	repo.On("FindBySlug", mock.Anything, "emo").Return(&model.Product{ID: "p1", Slug: "emo", IsActive: true}, nil).Once()

	for i := 0; i < 3; i++ {
		product, err := s.GetBySlug(context.Background(), "emo", false)
		require.NoError(t, err)
		assert.Equal(t, "p1", product.ID)
	}
	repo.AssertNumberOfCalls(t, "FindBySlug", 1)
	assert.True(t, mr.Exists("products:slug:emo"))

	repo.On("Delete", mock.Anything, "p1").Return(nil)
	require.NoError(t, s.DeleteProduct(context.Background(), "p1"))
	assert.False(t, mr.Exists("products:slug:emo"))
}

func TestListProductsCachesPublicListings(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := new(mocks.ProductRepository)
	s := newProductService(repo, cache.NewRedisCacheFromClient(client))
	filter := model.ProductFilter{Variant: "Emo", Page: 1, Limit: 10}
	repo.On("List", mock.Anything, filter).Return([]*model.Product{{ID: "p1"}}, int64(1), nil).Once()

	for i := 0; i < 2; i++ {
		items, total, err := s.ListProducts(context.Background(), model.ProductFilter{Variant: "Emo"})
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, int64(1), total)
	}
	repo.AssertNumberOfCalls(t, "List", 1)

	_, _, err := s.ListProducts(context.Background(), model.ProductFilter{Variant: "Mega"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUploadImage(t *testing.T) {
	repo := new(mocks.ProductRepository)
	files := &memoryFiles{}
	s := NewProductService(repo, nil, time.Minute, files)
	product := &model.Product{ID: "p1", IsActive: true}
	repo.On("FindByID", mock.Anything, "p1").Return(product, nil)
	repo.On("Update", mock.Anything, product).Return(nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1200, 600))))

	updated, err := s.UploadImage(context.Background(), "p1", "photo.png", &buf, "front")
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.True(t, updated.Images[0].IsPrimary)
	assert.Equal(t, "front", updated.Images[0].Alt)
	assert.True(t, strings.HasPrefix(updated.Images[0].URL, "/uploads/products/p1/"))
	assert.True(t, strings.HasSuffix(updated.Images[0].URL, ".jpg"))
	assert.Len(t, files.saved, 1)

	_, err = s.UploadImage(context.Background(), "p1", "anim.gif", strings.NewReader("GIF89a"), "")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
