package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/pkg/db/models"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/money"
	"gorm.io/gorm"
)

const (
	missingFieldsMessage = "Fyll inn alle feltene i kassen."
	emptyCartMessage     = "Handlekurven er tom."
	cartTooLargeMessage  = "Handlekurven er for stor."
	notFoundMessage      = "Ordren finnes ikke."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSource interface {
	Items(ctx context.Context, sessionID string) ([]cart.Item, error)
	Clear(ctx context.Context, sessionID string) error
}

type productCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Service turns carts into orders and serves order reads.
type Service interface {
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*OrderDTO, error)
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	List(ctx context.Context) ([]OrderDTO, error)
	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

// CheckoutInput holds the customer fields collected at checkout.
type CheckoutInput struct {
	Name    string
	Email   string
	Address string
}

type service struct {
	repo     Repository
	tx       txRunner
	carts    cartSource
	products productCounter
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the order service.
func NewService(repo Repository, tx txRunner, carts cartSource, products productCounter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{repo: repo, tx: tx, carts: carts, products: products, logg: logg, now: time.Now}, nil
}

// Checkout snapshots the session cart into an order and empties the cart.
func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*OrderDTO, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, emptyCartMessage)
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	address := strings.TrimSpace(input.Address)
	if name == "" || email == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingFieldsMessage)
	}

	if _, ok := cart.TotalCents(items); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, cartTooLargeMessage)
	}

	order := &models.Order{
		Name:      name,
		Email:     email,
		Address:   address,
		CreatedAt: s.now().UTC(),
	}
	for _, item := range items {
		line := item.LineTotalCents()
		order.TotalCents += line
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      item.ID,
			Name:           item.Name,
			PriceCents:     item.PriceCents,
			Qty:            item.Qty,
			LineTotalCents: line,
		})
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "order_id", order.ID)
		s.logg.Error(ctx, "orders.cart_clear_failed", err)
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"order_id": order.ID, "total_cents": order.TotalCents})
		s.logg.Info(ctx, "orders.created")
	}
	return newOrderDTO(order), nil
}

func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return newOrderDTO(order), nil
}

func (s *service) List(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *newOrderDTO(&orders[i]))
	}
	return out, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order stats")
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardDTO{
		ProductCount:     productCount,
		OrderCount:       stats.OrderCount,
		RevenueCents:     stats.RevenueCents,
		RevenueFormatted: money.Format(stats.RevenueCents),
	}, nil
}
