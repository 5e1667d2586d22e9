package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/addcartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/checkout"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/clearcart"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/reservestock"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/restorestock"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Config holds the simulation parameters.
type Config struct {
	Customers  int
	Stock      int
	Quantity   int
	Rounds     int
	Postgres   bool
	Optimistic bool
}

// Store is an engine the simulation can seed.
type Store interface {
	shop.UnitOfWorkFactory
	PutCatalogItem(ctx context.Context, item shop.CatalogItem) error
	PutActor(ctx context.Context, actor shop.Actor) error
}

// RoundReport summarizes one round of concurrent checkouts.
type RoundReport struct {
	Succeeded         int
	InsufficientStock int
	Failed            int
	StockBefore       int
	StockLeft         int
	Quantity          int
}

// Oversold reports whether more units were sold than were on hand, or the ledger disagrees with the sales.
func (r RoundReport) Oversold() bool {
	sold := r.Succeeded * r.Quantity

	return r.StockLeft < 0 || sold > r.StockBefore || r.StockBefore-sold != r.StockLeft
}

// Simulation drives the command handlers the same way concurrent HTTP requests would.
type Simulation struct {
	store     Store
	cfg       Config
	item      shop.CatalogItem
	customers []uuid.UUID

	clearCart clearcart.CommandHandler
	addToCart addcartline.CommandHandler
	checkout  checkout.CommandHandler
	reserve   reservestock.CommandHandler
	restore   restorestock.CommandHandler
	logger    shell.ContextualLogger
}

// NewSimulation creates a simulation; call Seed before the first round.
func NewSimulation(store Store, cfg Config, logger shell.ContextualLogger) *Simulation {
	options := []shell.HandlerOption{shell.WithRetryOptions(shell.WithMaxAttempts(10))}

	return &Simulation{
		store:     store,
		cfg:       cfg,
		clearCart: clearcart.NewCommandHandler(store, options...),
		addToCart: addcartline.NewCommandHandler(store, options...),
		checkout:  checkout.NewCommandHandler(store, options...),
		reserve:   reservestock.NewCommandHandler(store, options...),
		restore:   restorestock.NewCommandHandler(store, options...),
		logger:    logger,
	}
}

// Seed stores the scarce item with no stock and registers the customers.
func (s *Simulation) Seed(ctx context.Context) error {
	s.item = shop.CatalogItem{
		ID:        uuid.New(),
		Title:     "Limited Edition Box Set",
		UnitPrice: decimal.RequireFromString("99.00"),
	}

	if err := s.store.PutCatalogItem(ctx, s.item); err != nil {
		return err
	}

	s.customers = make([]uuid.UUID, s.cfg.Customers)
	for i := range s.customers {
		s.customers[i] = uuid.New()
		if err := s.store.PutActor(ctx, shop.Actor{UserID: s.customers[i], Role: shop.RoleCustomer}); err != nil {
			return err
		}
	}

	return nil
}

// RunRound restocks the item, refills every cart and lets all customers check out at once.
// Leftover stock is drained afterwards so that every round starts from the same quantity.
func (s *Simulation) RunRound(ctx context.Context) (RoundReport, error) {
	report := RoundReport{Quantity: s.cfg.Quantity}

	if s.cfg.Stock > 0 {
		if _, _, err := s.restore.Handle(ctx, restorestock.BuildCommand(s.item.ID, s.cfg.Stock)); err != nil {
			return report, fmt.Errorf("restocking: %w", err)
		}
	}

	before, err := s.stockOnHand(ctx)
	if err != nil {
		return report, err
	}
	report.StockBefore = before

	var cartsFilled []uuid.UUID
	for _, customerID := range s.customers {
		if _, _, err = s.clearCart.Handle(ctx, clearcart.BuildCommand(customerID)); err != nil {
			return report, fmt.Errorf("clearing cart: %w", err)
		}

		_, _, addErr := s.addToCart.Handle(ctx, addcartline.BuildCommand(customerID, s.item.ID, s.cfg.Quantity))
		switch {
		case addErr == nil:
			cartsFilled = append(cartsFilled, customerID)
		case errors.Is(addErr, shop.ErrInsufficientStock):
			report.InsufficientStock++
		default:
			return report, fmt.Errorf("filling cart: %w", addErr)
		}
	}

	s.checkoutConcurrently(ctx, cartsFilled, &report)

	if report.StockLeft, err = s.stockOnHand(ctx); err != nil {
		return report, err
	}

	if report.StockLeft > 0 {
		if _, _, err = s.reserve.Handle(ctx, reservestock.BuildCommand(s.item.ID, report.StockLeft)); err != nil {
			return report, fmt.Errorf("draining stock: %w", err)
		}
	}

	return report, nil
}

func (s *Simulation) checkoutConcurrently(ctx context.Context, customers []uuid.UUID, report *RoundReport) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, customerID := range customers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			order, _, err := s.checkout.Handle(ctx, checkout.BuildCommand(customerID, "1 Simulation Way", ""))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				report.Succeeded++
				s.logger.DebugContext(ctx, "checkout succeeded", "order_number", order.Number)
			case errors.Is(err, shop.ErrInsufficientStock):
				report.InsufficientStock++
			default:
				report.Failed++
				s.logger.WarnContext(ctx, "checkout failed", "error", err.Error())
			}
		}()
	}

	wg.Wait()
}

func (s *Simulation) stockOnHand(ctx context.Context) (int, error) {
	var quantity int

	err := shop.ReadInUnitOfWork(ctx, s.store, func(uow shop.UnitOfWork) error {
		item, err := uow.Catalog().GetItem(ctx, s.item.ID)
		quantity = item.QuantityOnHand

		return err
	})

	return quantity, err
}
