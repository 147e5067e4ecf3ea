package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/promonitor/storefront/pkg/db/models"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

const cartTooLargeMessage = "Handlekurven er for stor."

type productLoader interface {
	GetPublic(ctx context.Context, id uint) (*models.Product, error)
}

type cartStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// Service manages the visitor cart for a session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	Add(ctx context.Context, sessionID string, productID uint, qty int) (*View, error)
	Update(ctx context.Context, sessionID string, quantities map[uint]int) (*View, error)
	Remove(ctx context.Context, sessionID string, productID uint) (*View, error)
	Items(ctx context.Context, sessionID string) ([]Item, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    cartStore
	products productLoader
}

// NewService builds a cart service over the session store and the public catalog.
func NewService(store cartStore, products productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewView(cart), nil
}

// Add puts qty units (at least one) of a public product in the cart, stacking
// onto an existing line. A line never exceeds MaxLineQty.
func (s *service) Add(ctx context.Context, sessionID string, productID uint, qty int) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetPublic(ctx, productID)
	if err != nil {
		return nil, err
	}
	qty = clampQty(qty)
	if qty < 1 {
		qty = 1
	}

	if existing, ok := cart.Items[product.ID]; ok {
		existing.Qty = clampQty(existing.Qty + qty)
		cart.Items[product.ID] = existing
	} else {
		cart.Items[product.ID] = Item{
			ID:         product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			ImagePath:  product.ImagePath,
			Qty:        qty,
		}
	}
	return s.save(ctx, sessionID, cart)
}

// Update sets quantities for every line. Lines missing from quantities, or
// with a quantity below one, are removed. Larger quantities are capped.
func (s *service) Update(ctx context.Context, sessionID string, quantities map[uint]int) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for id, item := range cart.Items {
		qty := quantities[id]
		if qty <= 0 {
			delete(cart.Items, id)
			continue
		}
		item.Qty = clampQty(qty)
		cart.Items[id] = item
	}
	return s.save(ctx, sessionID, cart)
}

func (s *service) Remove(ctx context.Context, sessionID string, productID uint) (*View, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	delete(cart.Items, productID)
	return s.save(ctx, sessionID, cart)
}

// Items returns the cart lines in product id order.
func (s *service) Items(ctx context.Context, sessionID string) ([]Item, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return cart.List(), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) save(ctx context.Context, sessionID string, cart *Cart) (*View, error) {
	if _, ok := TotalCents(cart.List()); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, cartTooLargeMessage)
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return NewView(cart), nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}
