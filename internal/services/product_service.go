package services

import (
	"context"

	"toko/internal/apperror"
	"toko/internal/logger"
	"toko/internal/models"
	"toko/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "ProductService.GetAllProducts")), "list products failed", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "ProductService.GetProductByID")), "get product failed", err)
	}
	return product, nil
}

// ListSellerProducts retrieves the actor's own listings, newest first.
func (s *ProductService) ListSellerProducts(ctx context.Context, actor models.Actor) ([]models.Product, error) {
	if !actor.CanSell() {
		return nil, apperror.Forbidden("only sellers have listings")
	}
	products, err := s.repo.ListBySeller(ctx, actor.UserID)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "ProductService.ListSellerProducts")), "list seller products failed", err)
	}
	return products, nil
}

// CreateProduct lists a new product owned by the actor.
func (s *ProductService) CreateProduct(ctx context.Context, actor models.Actor, in models.ProductInput) (*models.Product, error) {
	if !actor.CanSell() {
		return nil, apperror.Forbidden("only sellers can list products")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:    actor.UserID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "ProductService.CreateProduct")), "create product failed", err)
	}
	return product, nil
}

// UpdateProduct edits the listing details of a product owned by the actor.
func (s *ProductService) UpdateProduct(ctx context.Context, actor models.Actor, id string, in models.ProductUpdateInput) (*models.Product, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "ProductService.UpdateProduct"), zap.String("product_id", id))

	if err := validateInput(in); err != nil {
		return nil, err
	}

	product, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, failed(log, "update product failed", err)
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	if err := s.repo.UpdateDetails(ctx, product); err != nil {
		return nil, failed(log, "update product failed", err)
	}
	return product, nil
}

// DeleteProduct removes a product owned by the actor. Products in carts or orders are kept.
func (s *ProductService) DeleteProduct(ctx context.Context, actor models.Actor, id string) error {
	log := logger.FromCtx(ctx).With(zap.String("method", "ProductService.DeleteProduct"), zap.String("product_id", id))

	if _, err := s.owned(ctx, actor, id); err != nil {
		return failed(log, "delete product failed", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return failed(log, "delete product failed", err)
	}
	return nil
}

func (s *ProductService) owned(ctx context.Context, actor models.Actor, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && product.SellerID != actor.UserID {
		return nil, apperror.Forbidden("you can only manage your own products")
	}
	return product, nil
}
