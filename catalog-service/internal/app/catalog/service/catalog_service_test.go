package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"maplecart/catalog-service/internal/app/catalog/entity"
	"maplecart/catalog-service/internal/app/catalog/repository"
	"maplecart/catalog-service/internal/app/catalog/repository/mocks"
	"maplecart/pkg/query"
)

func setupTestService() (*CatalogService, *mocks.MockCategoryRepository, *mocks.MockProductRepository, *mocks.MockRedisCache, *mocks.MockMessagePublisher) {
	categoryRepo := new(mocks.MockCategoryRepository)
	productRepo := new(mocks.MockProductRepository)
	redisCache := new(mocks.MockRedisCache)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}

	return NewCatalogService(categoryRepo, productRepo, redisCache, kafkaProducer), categoryRepo, productRepo, redisCache, kafkaProducer
}

func TestCreateCategory_Success(t *testing.T) {
	svc, categoryRepo, _, redisCache, _ := setupTestService()

	ctx := context.Background()
	req := &entity.CreateCategoryRequest{Name: "Electronics"}

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	redisCache.On("DeleteCategories", ctx).Return(nil)

	category, err := svc.CreateCategory(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
	// Кеш инвалидирован после создания
	redisCache.AssertCalled(t, "DeleteCategories", ctx)
}

func TestCreateCategory_CacheErrorIgnored(t *testing.T) {
	svc, categoryRepo, _, redisCache, _ := setupTestService()

	ctx := context.Background()
	categoryRepo.On("Create", ctx, mock.Anything).Return(nil)
	redisCache.On("DeleteCategories", ctx).Return(errors.New("redis down"))

	category, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Books"})

	assert.NoError(t, err)
	assert.NotNil(t, category)
}

func TestGetAllCategories_CacheHit(t *testing.T) {
	svc, categoryRepo, _, redisCache, _ := setupTestService()

	ctx := context.Background()
	cached := []entity.Category{{ID: primitive.NewObjectID(), Name: "Electronics"}}

	redisCache.On("GetCategories", ctx).Return(cached, nil)

	categories, err := svc.GetAllCategories(ctx)

	assert.NoError(t, err)
	assert.Len(t, categories, 1)
	categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestGetAllCategories_CacheMiss(t *testing.T) {
	svc, categoryRepo, _, redisCache, _ := setupTestService()

	ctx := context.Background()
	fromDB := []entity.Category{
		{ID: primitive.NewObjectID(), Name: "Books"},
		{ID: primitive.NewObjectID(), Name: "Electronics"},
	}

	redisCache.On("GetCategories", ctx).Return([]entity.Category{}, nil)
	categoryRepo.On("GetAll", ctx).Return(fromDB, nil)
	redisCache.On("SetCategories", ctx, fromDB, time.Hour).Return(nil)

	categories, err := svc.GetAllCategories(ctx)

	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	redisCache.AssertCalled(t, "SetCategories", ctx, fromDB, time.Hour)
}

func TestCreateProduct_Success(t *testing.T) {
	svc, categoryRepo, productRepo, _, kafkaProducer := setupTestService()

	ctx := context.Background()
	categoryID := primitive.NewObjectID()
	req := &entity.CreateProductRequest{
		Name:        "Maple Syrup",
		Description: "Pure Canadian maple syrup, one liter.",
		Price:       19.99,
		CategoryID:  categoryID.Hex(),
	}

	categoryRepo.On("GetByID", ctx, categoryID.Hex()).
		Return(&entity.Category{ID: categoryID, Name: "Groceries"}, nil)
	productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil).Run(func(args mock.Arguments) {
		product := args.Get(1).(*entity.Product)
		product.ID = primitive.NewObjectID()
	})
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	product, err := svc.CreateProduct(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Maple Syrup", product.Name)
	assert.Equal(t, categoryID, product.CategoryID)
	kafkaProducer.AssertCalled(t, "PublishMessage", ctx, mock.Anything, mock.Anything)
}

func TestCreateProduct_CategoryNotFound(t *testing.T) {
	svc, categoryRepo, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	categoryRepo.On("GetByID", ctx, categoryID.Hex()).Return(nil, repository.ErrCategoryNotFound)

	product, err := svc.CreateProduct(ctx, &entity.CreateProductRequest{
		Name:        "Maple Syrup",
		Description: "Pure Canadian maple syrup, one liter.",
		Price:       19.99,
		CategoryID:  categoryID.Hex(),
	})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListProducts_Success(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	products := []entity.Product{
		{ID: primitive.NewObjectID(), Name: "Maple Syrup", Price: 19.99},
		{ID: primitive.NewObjectID(), Name: "Maple Candy", Price: 7.49},
	}
	pagination := query.NewPagination(1, 10, 2)

	productRepo.On("List", ctx, mock.AnythingOfType("*query.Query")).Return(products, pagination, nil)

	result, pag, err := svc.ListProducts(ctx, url.Values{})

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, int64(2), pag.TotalResults)
}

func TestListProducts_FilterPassedThrough(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	pagination := query.NewPagination(1, 10, 0)

	productRepo.On("List", ctx, mock.AnythingOfType("*query.Query")).
		Return([]entity.Product{}, pagination, nil)

	values := url.Values{"price[lte]": {"100"}, "sort": {"-rating"}}
	_, _, err := svc.ListProducts(ctx, values)

	assert.NoError(t, err)

	q := productRepo.Calls[0].Arguments.Get(1).(*query.Query)
	assert.Equal(t, int64(100), q.Filter["price"].(bson.M)["$lte"])
}

func TestListProducts_OutOfRangePage(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	pagination := query.NewPagination(10, 5, 12)

	productRepo.On("List", ctx, mock.AnythingOfType("*query.Query")).
		Return([]entity.Product{}, pagination, nil)

	values := url.Values{"page": {"10"}, "limit": {"5"}}
	result, pag, err := svc.ListProducts(ctx, values)

	assert.Nil(t, result)
	assert.Nil(t, pag)
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestUpdateProduct_PriceChangePublishesEvent(t *testing.T) {
	svc, _, productRepo, _, kafkaProducer := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID()
	existing := &entity.Product{ID: productID, Name: "Maple Syrup", Price: 19.99}

	productRepo.On("GetByID", ctx, productID.Hex()).Return(existing, nil)
	productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, productID.Hex(), mock.Anything).Return(nil)

	product, err := svc.UpdateProduct(ctx, productID.Hex(), &entity.UpdateProductRequest{Price: 24.99})

	assert.NoError(t, err)
	assert.Equal(t, 24.99, product.Price)
	kafkaProducer.AssertCalled(t, "PublishMessage", ctx, productID.Hex(), mock.Anything)
}

func TestUpdateProduct_NoPriceChangeNoEvent(t *testing.T) {
	svc, _, productRepo, _, kafkaProducer := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID()
	existing := &entity.Product{ID: productID, Name: "Maple Syrup", Price: 19.99}

	productRepo.On("GetByID", ctx, productID.Hex()).Return(existing, nil)
	productRepo.On("Update", ctx, mock.Anything).Return(nil)

	_, err := svc.UpdateProduct(ctx, productID.Hex(), &entity.UpdateProductRequest{Name: "Maple Syrup Premium"})

	assert.NoError(t, err)
	kafkaProducer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProductRating_OverwritesUnconditionally(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID().Hex()

	productRepo.On("UpdateRating", ctx, productID, 4.5, int64(2)).Return(nil)

	err := svc.UpdateProductRating(ctx, productID, 4.5, int64(2))

	assert.NoError(t, err)
	productRepo.AssertCalled(t, "UpdateRating", ctx, productID, 4.5, int64(2))
}

func TestUpdateProductRating_ZeroValues(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID().Hex()

	// Последний отзыв удален - ноль пишется как есть
	productRepo.On("UpdateRating", ctx, productID, 0.0, int64(0)).Return(nil)

	err := svc.UpdateProductRating(ctx, productID, 0, 0)

	assert.NoError(t, err)
}

func TestUpdateProductRating_ProductNotFound(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID().Hex()

	productRepo.On("UpdateRating", ctx, productID, 3.0, int64(1)).Return(repository.ErrProductNotFound)

	err := svc.UpdateProductRating(ctx, productID, 3.0, int64(1))

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct_PublishesDeletedEvent(t *testing.T) {
	svc, _, productRepo, _, kafkaProducer := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID()
	existing := &entity.Product{ID: productID, Name: "Maple Syrup", Price: 19.99}

	productRepo.On("GetByID", ctx, productID.Hex()).Return(existing, nil)
	productRepo.On("Delete", ctx, productID.Hex()).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, productID.Hex(), mock.Anything).Return(nil)

	err := svc.DeleteProduct(ctx, productID.Hex())

	assert.NoError(t, err)
	kafkaProducer.AssertCalled(t, "PublishMessage", ctx, productID.Hex(), mock.Anything)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc, _, productRepo, _, _ := setupTestService()

	ctx := context.Background()
	productID := primitive.NewObjectID().Hex()

	productRepo.On("GetByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	err := svc.DeleteProduct(ctx, productID)

	assert.ErrorIs(t, err, ErrProductNotFound)
	productRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
