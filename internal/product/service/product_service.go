package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/webbutiken/storefront/internal/platform/cache"
	"github.com/webbutiken/storefront/internal/platform/logger"
	"github.com/webbutiken/storefront/internal/product/domain"
	"github.com/webbutiken/storefront/internal/product/repository"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, productID string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	SweepLowStock(ctx context.Context)
	StopScheduler()
}

type productServiceImpl struct {
	repo              repository.ProductRepository
	cache             *cache.Client
	scheduler         *cron.Cron
	lowStockThreshold int
}

func NewProductService(repo repository.ProductRepository, cacheClient *cache.Client, lowStockThreshold int) ProductService {
	s := &productServiceImpl{
		repo:              repo,
		cache:             cacheClient,
		scheduler:         cron.New(),
		lowStockThreshold: lowStockThreshold,
	}
	s.initScheduler()
	return s
}

func (s *productServiceImpl) initScheduler() {
	spec := "@hourly"
	s.scheduler.AddFunc(spec, func() {
		logger.Info("Scheduler: Running SweepLowStock job...")
		s.SweepLowStock(context.Background())
	})
	s.scheduler.Start()
	logger.Info(fmt.Sprintf("Low-stock scheduler initialized with spec '%s' and threshold %d", spec, s.lowStockThreshold))
}

func (s *productServiceImpl) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// SweepLowStock logs products running low so an admin can restock
// before they sell out.
func (s *productServiceImpl) SweepLowStock(ctx context.Context) {
	products, err := s.repo.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		logger.Error("SweepLowStock: failed to list low-stock products", err)
		return
	}
	if len(products) == 0 {
		logger.Info("SweepLowStock: no products below threshold %d", s.lowStockThreshold)
		return
	}
	for _, p := range products {
		logger.Warn("SweepLowStock: product %s (%s) down to %d in stock", p.ID, p.Title, p.Stock)
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if s.cache.GetJSON(ctx, cache.ProductListKey, &cached) {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, cache.ProductListKey, products)
	return products, nil
}

func (s *productServiceImpl) GetProductDetails(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		logger.Error("CreateProduct: repo error", err)
		return nil, err
	}
	s.cache.Drop(ctx, cache.ProductListKey)
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product := &domain.Product{
		ID:          productID,
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsArchived:  req.IsArchived,
	}
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Drop(ctx, cache.ProductListKey)
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.cache.Drop(ctx, cache.ProductListKey)
	return nil
}
