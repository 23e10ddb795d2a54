// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/maisonheirbloom/storefront-api/internal/config"
	"github.com/maisonheirbloom/storefront-api/internal/domain/product"
)

// ProductResolver looks up catalog items for cart lines. Cart bodies carry a
// variantId that may be a product id or slug.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, idOrSlug string) (*product.Product, error)
}

// Service handles cart business logic
type Service struct {
	store    Store
	products ProductResolver
	config   *config.Config
}

// NewService creates a new cart service
func NewService(store Store, products ProductResolver, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		products: products,
		config:   cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// GetCart retrieves the cart for the given id, creating an empty one if none
// exists yet
func (s *Service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	if cartID == "" {
		return nil, fmt.Errorf("cart ID required")
	}

	c, err := s.store.Get(ctx, cartID)
	if errors.Is(err, ErrCartNotFound) {
		return s.newCart(cartID), nil
	} else if err != nil {
		return nil, err
	}

	c.Recalculate()
	return c, nil
}

// AddToCart adds an item to the cart, creating the cart on first add
func (s *Service) AddToCart(ctx context.Context, cartID string, req *AddToCartRequest) (*Cart, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	prod, err := s.products.ResolveProduct(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	if !prod.InStock {
		return nil, fmt.Errorf("product '%s' is out of stock", prod.Name)
	}

	var c *Cart
	if cartID == "" {
		c = s.newCart("")
	} else {
		c, err = s.GetCart(ctx, cartID)
		if err != nil {
			return nil, err
		}
	}

	// Merge with an existing line for the same product
	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == prod.ID {
			c.Items[i].Quantity += quantity
			c.Items[i].Price = prod.PriceCents() // Refresh in case the price changed
			merged = true
			break
		}
	}

	if !merged {
		c.Items = append(c.Items, Item{
			ID:        fmt.Sprintf("li_%s", uuid.New().String()[:8]),
			ProductID: prod.ID,
			VariantID: req.VariantID,
			Name:      prod.Name,
			Price:     prod.PriceCents(),
			Quantity:  quantity,
			Image:     prod.Image,
			AddedAt:   time.Now().UTC(),
		})
	}

	return s.persist(ctx, c)
}

// UpdateCartItem sets the quantity of a cart line; quantity zero removes it
func (s *Service) UpdateCartItem(ctx context.Context, cartID string, req *UpdateCartItemRequest) (*Cart, error) {
	if req.Quantity == nil {
		return nil, fmt.Errorf("quantity is required")
	}
	if *req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	c, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	productID, err := s.resolveProductID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if *req.Quantity == 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = *req.Quantity
			}
			found = true
			break
		}
	}

	if !found {
		return nil, fmt.Errorf("item not found in cart")
	}

	return s.persist(ctx, c)
}

// RemoveFromCart removes a line from the cart
func (s *Service) RemoveFromCart(ctx context.Context, cartID, variantID string) (*Cart, error) {
	c, err := s.store.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	productID, err := s.resolveProductID(ctx, variantID)
	if err != nil {
		// Fall back to treating the raw value as a product id so stale
		// lines for retired products can still be removed
		productID = variantID
	}

	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	c.Items = items

	return s.persist(ctx, c)
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(ctx context.Context, cartID string) (*Cart, error) {
	c, err := s.store.Get(ctx, cartID)
	if errors.Is(err, ErrCartNotFound) {
		return s.newCart(cartID), nil
	} else if err != nil {
		return nil, err
	}

	c.Items = []Item{}
	return s.persist(ctx, c)
}

// DeleteCart drops the cart entirely, used after successful payment
func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	return s.store.Delete(ctx, cartID)
}

// GetCartItemCount returns the number of items in the cart
func (s *Service) GetCartItemCount(ctx context.Context, cartID string) (int, error) {
	c, err := s.store.Get(ctx, cartID)
	if errors.Is(err, ErrCartNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	return c.ItemCount(), nil
}

func (s *Service) newCart(cartID string) *Cart {
	if cartID == "" {
		cartID = fmt.Sprintf("cart_%s", uuid.New().String()[:8])
	}

	now := time.Now().UTC()
	return &Cart{
		ID:        cartID,
		Items:     []Item{},
		Currency:  s.config.Store.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) persist(ctx context.Context, c *Cart) (*Cart, error) {
	c.Recalculate()
	c.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	return c, nil
}

func (s *Service) resolveProductID(ctx context.Context, idOrSlug string) (string, error) {
	prod, err := s.products.ResolveProduct(ctx, idOrSlug)
	if err != nil {
		return "", err
	}
	return prod.ID, nil
}
