package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db"
	"github.com/flourhouse/bakery-backend/pkg/db/models"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages the per-user cart.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Summary(ctx context.Context, userID uuid.UUID) (*CartSummaryDTO, error)
	// AddItem reports whether the quantity was merged into an existing line.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, bool, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	// Clear empties the cart and reports how many lines were removed.
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, int, error)
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(cart), nil
}

func (s *service) getOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	fresh := &models.Cart{UserID: userID}
	if createErr := s.repo.Create(ctx, fresh); createErr != nil {
		// Concurrent first request won the insert; use its cart.
		if db.IsUniqueViolation(createErr, "carts_user_id_key") {
			existing, findErr := s.repo.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "reloading cart after insert race")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating cart")
	}
	return fresh, nil
}

// Summary aggregates the cart without rendering the line items.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*CartSummaryDTO, error) {
	dto, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartSummaryDTO{CartID: dto.ID, SummaryDTO: dto.Summary}, nil
}

// AddItem adds a product to the cart. Adding a product already in the cart
// increments the existing line instead of creating a second one.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, bool, error) {
	if quantity <= 0 {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsAvailable {
		return nil, false, pkgerrors.New(pkgerrors.CodeUnavailable, "product is not available").
			WithDetails(map[string]any{"unavailable_products": []string{product.Name}})
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	merged, err := s.upsertItem(ctx, cart.ID, productID, quantity)
	if err != nil {
		return nil, false, err
	}
	if err := s.touch(ctx, cart.ID); err != nil {
		return nil, false, err
	}
	dto, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return dto, merged, nil
}

func (s *service) upsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (bool, error) {
	existing, err := s.repo.FindItem(ctx, cartID, productID)
	if err == nil {
		return true, s.bumpQuantity(ctx, existing, quantity)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	item := &models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if createErr := s.repo.CreateItem(ctx, item); createErr != nil {
		// A concurrent add for the same product created the line first.
		if db.IsUniqueViolation(createErr, "cart_items_cart_id_product_id_key") {
			raced, findErr := s.repo.FindItem(ctx, cartID, productID)
			if findErr != nil {
				return false, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "reloading cart item after insert race")
			}
			return true, s.bumpQuantity(ctx, raced, quantity)
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating cart item")
	}
	return false, nil
}

func (s *service) bumpQuantity(ctx context.Context, item *models.CartItem, delta int) error {
	next := item.Quantity + delta
	if err := s.repo.UpdateItemQuantity(ctx, item.ID, next); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item quantity")
	}
	return nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item quantity")
	}
	if err := s.touch(ctx, item.CartID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	if err := s.touch(ctx, item.CartID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, int, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	removed := len(cart.Items)
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	if err := s.touch(ctx, cart.ID); err != nil {
		return nil, 0, err
	}
	dto, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return dto, removed, nil
}

func (s *service) touch(ctx context.Context, cartID uuid.UUID) error {
	if err := s.repo.TouchCart(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touching cart")
	}
	return nil
}

// ownedItem resolves the item and verifies it belongs to the user's cart.
// Items in other carts surface as not found, never as forbidden, so item
// ids cannot be probed.
func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if item.CartID != cart.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return item, nil
}
