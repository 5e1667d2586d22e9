package acceptance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/addcartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/cancelorder"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/checkout"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/updateorderstatus"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/cartview"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbyid"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderhistory"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	"github.com/AntonStoeckl/checkout-engine-go/shop/memoryengine"
)

type shopContext struct {
	engine    *memoryengine.Engine
	staff     shop.Actor
	items     map[string]shop.CatalogItem
	actors    map[string]shop.Actor
	orders    map[string]shop.Order
	lastOrder shop.Order
	lastErr   error
	succeeded int
}

func (c *shopContext) reset() error {
	engine, err := memoryengine.NewEngine()
	if err != nil {
		return err
	}

	c.engine = engine
	c.staff = shop.Actor{UserID: uuid.New(), Role: shop.RoleAdministrator}
	c.engine.PutActor(c.staff)
	c.items = make(map[string]shop.CatalogItem)
	c.actors = make(map[string]shop.Actor)
	c.orders = make(map[string]shop.Order)
	c.lastOrder = shop.Order{}
	c.lastErr = nil
	c.succeeded = 0

	return nil
}

func (c *shopContext) item(title string) (shop.CatalogItem, error) {
	item, ok := c.items[title]
	if !ok {
		return shop.CatalogItem{}, fmt.Errorf("unknown catalog item %q", title)
	}

	return item, nil
}

func (c *shopContext) actor(name string) (shop.Actor, error) {
	actor, ok := c.actors[name]
	if !ok {
		return shop.Actor{}, fmt.Errorf("unknown actor %q", name)
	}

	return actor, nil
}

func (c *shopContext) order(owner string) (shop.Order, error) {
	order, ok := c.orders[owner]
	if !ok {
		return shop.Order{}, fmt.Errorf("%q has no order", owner)
	}

	return order, nil
}

func (c *shopContext) theCatalogItemPricedAtWithInStock(title, price string, onHand int) error {
	unitPrice, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}

	item := shop.CatalogItem{ID: uuid.New(), Title: title, UnitPrice: unitPrice, QuantityOnHand: onHand}
	c.items[title] = item

	return c.engine.PutCatalogItem(item)
}

func (c *shopContext) registerActor(name string, role shop.Role) {
	actor := shop.Actor{UserID: uuid.New(), Role: role}
	c.actors[name] = actor
	c.engine.PutActor(actor)
}

func (c *shopContext) aCustomer(name string) error {
	c.registerActor(name, shop.RoleCustomer)
	return nil
}

func (c *shopContext) aManager(name string) error {
	c.registerActor(name, shop.RoleManager)
	return nil
}

func (c *shopContext) hasInTheCart(name string, quantity int, title string) error {
	customer, err := c.actor(name)
	if err != nil {
		return err
	}

	item, err := c.item(title)
	if err != nil {
		return err
	}

	_, _, err = addcartline.NewCommandHandler(c.engine).
		Handle(context.Background(), addcartline.BuildCommand(customer.UserID, item.ID, quantity))

	return err
}

func (c *shopContext) hasPlacedAnOrderFor(name string, quantity int, title string) error {
	if err := c.hasInTheCart(name, quantity, title); err != nil {
		return err
	}

	if err := c.checksOut(name); err != nil {
		return err
	}

	return c.lastErr
}

func (c *shopContext) theOrderOfIsInStatus(owner, status string) error {
	order, err := c.order(owner)
	if err != nil {
		return err
	}

	target, err := shop.ParseOrderStatus(status)
	if err != nil {
		return err
	}

	handler := updateorderstatus.NewCommandHandler(c.engine)
	for _, step := range lifecyclePathTo(target) {
		command := updateorderstatus.BuildCommand(c.staff.UserID, order.ID, step, shop.CarrierNone, "", "")
		if order, _, err = handler.Handle(context.Background(), command); err != nil {
			return err
		}
	}

	c.orders[owner] = order

	return nil
}

func lifecyclePathTo(target shop.OrderStatus) []shop.OrderStatus {
	switch target {
	case shop.StatusProcessing:
		return []shop.OrderStatus{shop.StatusProcessing}
	case shop.StatusShipped:
		return []shop.OrderStatus{shop.StatusProcessing, shop.StatusShipped}
	case shop.StatusDelivered:
		return []shop.OrderStatus{shop.StatusProcessing, shop.StatusShipped, shop.StatusDelivered}
	case shop.StatusCancelled:
		return []shop.OrderStatus{shop.StatusCancelled}
	default:
		return nil
	}
}

func (c *shopContext) checksOut(name string) error {
	customer, err := c.actor(name)
	if err != nil {
		return err
	}

	order, _, err := checkout.NewCommandHandler(c.engine).
		Handle(context.Background(), checkout.BuildCommand(customer.UserID, "1 Main St", ""))

	c.lastErr = err
	if err == nil {
		c.lastOrder = order
		c.orders[name] = order
	}

	return nil
}

func (c *shopContext) checkOutConcurrently(names ...string) error {
	handler := checkout.NewCommandHandler(c.engine)
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		customer, err := c.actor(name)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = handler.Handle(context.Background(), checkout.BuildCommand(customer.UserID, "1 Main St", ""))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		switch {
		case err == nil:
			c.succeeded++
		case errors.Is(err, shop.ErrInsufficientStock):
		default:
			return fmt.Errorf("unexpected checkout failure: %w", err)
		}
	}

	return nil
}

func (c *shopContext) andCheckOutConcurrently(first, second string) error {
	return c.checkOutConcurrently(first, second)
}

func (c *shopContext) customersEachWithInTheCartCheckOutConcurrently(count, quantity int, title string) error {
	names := make([]string, 0, count)

	for i := range count {
		name := fmt.Sprintf("customer-%d", i)
		c.registerActor(name, shop.RoleCustomer)

		if err := c.hasInTheCart(name, quantity, title); err != nil {
			return err
		}

		names = append(names, name)
	}

	return c.checkOutConcurrently(names...)
}

func (c *shopContext) cancelsTheOrder(name string) error {
	customer, err := c.actor(name)
	if err != nil {
		return err
	}

	order, err := c.order(name)
	if err != nil {
		return err
	}

	_, _, c.lastErr = cancelorder.NewCommandHandler(c.engine).
		Handle(context.Background(), cancelorder.BuildCommand(order.ID, customer.UserID))

	return nil
}

func (c *shopContext) movesTheOrderOfTo(name, owner, status string) error {
	actor, err := c.actor(name)
	if err != nil {
		return err
	}

	order, err := c.order(owner)
	if err != nil {
		return err
	}

	target, err := shop.ParseOrderStatus(status)
	if err != nil {
		return err
	}

	_, _, c.lastErr = updateorderstatus.NewCommandHandler(c.engine).Handle(
		context.Background(),
		updateorderstatus.BuildCommand(actor.UserID, order.ID, target, shop.CarrierNone, "", ""),
	)

	return nil
}

func (c *shopContext) theOrderIsPlacedWithTotals(subtotal, tax, shipping, total string) error {
	if c.lastErr != nil {
		return fmt.Errorf("expected an order but got: %w", c.lastErr)
	}

	expected := map[string]string{"subtotal": subtotal, "tax": tax, "shipping": shipping, "total": total}
	actual := map[string]decimal.Decimal{
		"subtotal": c.lastOrder.Totals.Subtotal,
		"tax":      c.lastOrder.Totals.Tax,
		"shipping": c.lastOrder.Totals.Shipping,
		"total":    c.lastOrder.Totals.Total,
	}

	for name, raw := range expected {
		want, err := decimal.NewFromString(raw)
		if err != nil {
			return err
		}

		if !actual[name].Equal(want) {
			return fmt.Errorf("expected %s %s, got %s", name, want, actual[name])
		}
	}

	if c.lastOrder.Status != shop.StatusPending {
		return fmt.Errorf("expected a PENDING order, got %s", c.lastOrder.Status)
	}

	return nil
}

func (c *shopContext) theRequestIsRejectedAs(kind string) error {
	if c.lastErr == nil {
		return errors.New("expected the request to be rejected, but it succeeded")
	}

	if actual := string(shop.KindOf(c.lastErr)); actual != kind {
		return fmt.Errorf("expected rejection %q, got %q (%v)", kind, actual, c.lastErr)
	}

	return nil
}

func (c *shopContext) theRejectionReasonIs(reason string) error {
	if actual := shop.Reason(c.lastErr); actual != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, actual)
	}

	return nil
}

func (c *shopContext) hasInStock(title string, expected int) error {
	item, err := c.item(title)
	if err != nil {
		return err
	}

	actual, _ := c.engine.QuantityOnHand(item.ID)
	if actual != expected {
		return fmt.Errorf("expected %d of %q in stock, got %d", expected, title, actual)
	}

	return nil
}

func (c *shopContext) noOrderExistsFor(name string) error {
	customer, err := c.actor(name)
	if err != nil {
		return err
	}

	history, err := orderhistory.NewQueryHandler(c.engine).
		Handle(context.Background(), orderhistory.BuildQuery(customer.UserID, 0, 0))
	if err != nil {
		return err
	}

	if history.Count != 0 {
		return fmt.Errorf("expected no orders for %q, got %d", name, history.Count)
	}

	return nil
}

func (c *shopContext) exactlyCheckoutsSucceeded(expected int) error {
	if c.succeeded != expected {
		return fmt.Errorf("expected %d successful checkouts, got %d", expected, c.succeeded)
	}

	return nil
}

func (c *shopContext) theOrderOfIs(owner, status string) error {
	order, err := c.order(owner)
	if err != nil {
		return err
	}

	view, err := orderbyid.NewQueryHandler(c.engine).
		Handle(context.Background(), orderbyid.BuildQuery(c.staff.UserID, order.ID))
	if err != nil {
		return err
	}

	if view.Status != status {
		return fmt.Errorf("expected order status %s, got %s", status, view.Status)
	}

	return nil
}

func (c *shopContext) cartOf(name string) (cartview.CartView, error) {
	customer, err := c.actor(name)
	if err != nil {
		return cartview.CartView{}, err
	}

	return cartview.NewQueryHandler(c.engine).Handle(context.Background(), cartview.BuildQuery(customer.UserID))
}

func (c *shopContext) theCartOfIsEmpty(name string) error {
	cart, err := c.cartOf(name)
	if err != nil {
		return err
	}

	if cart.TotalItems != 0 {
		return fmt.Errorf("expected an empty cart, got %d items", cart.TotalItems)
	}

	return nil
}

func (c *shopContext) theCartOfStillHolds(name string, quantity int, title string) error {
	item, err := c.item(title)
	if err != nil {
		return err
	}

	cart, err := c.cartOf(name)
	if err != nil {
		return err
	}

	for _, line := range cart.Lines {
		if line.ItemID == item.ID.String() {
			if line.Quantity != quantity {
				return fmt.Errorf("expected %d of %q in the cart, got %d", quantity, title, line.Quantity)
			}

			return nil
		}
	}

	return fmt.Errorf("%q is not in the cart", title)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	sc := &shopContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})

	// Given steps
	ctx.Step(`^the catalog item "([^"]*)" priced at ([0-9.]+) with (\d+) in stock$`, sc.theCatalogItemPricedAtWithInStock)
	ctx.Step(`^customer "([^"]*)"$`, sc.aCustomer)
	ctx.Step(`^manager "([^"]*)"$`, sc.aManager)
	ctx.Step(`^"([^"]*)" has (\d+) of "([^"]*)" in the cart$`, sc.hasInTheCart)
	ctx.Step(`^"([^"]*)" has placed an order for (\d+) of "([^"]*)"$`, sc.hasPlacedAnOrderFor)
	ctx.Step(`^the order of "([^"]*)" is in status ([A-Z]+)$`, sc.theOrderOfIsInStatus)

	// When steps
	ctx.Step(`^"([^"]*)" checks out$`, sc.checksOut)
	ctx.Step(`^"([^"]*)" and "([^"]*)" check out concurrently$`, sc.andCheckOutConcurrently)
	ctx.Step(`^(\d+) customers each with (\d+) of "([^"]*)" in the cart check out concurrently$`, sc.customersEachWithInTheCartCheckOutConcurrently)
	ctx.Step(`^"([^"]*)" cancels the order$`, sc.cancelsTheOrder)
	ctx.Step(`^"([^"]*)" moves the order of "([^"]*)" to ([A-Z]+)$`, sc.movesTheOrderOfTo)

	// Then steps
	ctx.Step(`^the order is placed with subtotal ([0-9.]+), tax ([0-9.]+), shipping ([0-9.]+) and total ([0-9.]+)$`, sc.theOrderIsPlacedWithTotals)
	ctx.Step(`^the request is rejected as "([^"]*)"$`, sc.theRequestIsRejectedAs)
	ctx.Step(`^the rejection reason is "([^"]*)"$`, sc.theRejectionReasonIs)
	ctx.Step(`^"([^"]*)" has (\d+) in stock$`, sc.hasInStock)
	ctx.Step(`^no order exists for "([^"]*)"$`, sc.noOrderExistsFor)
	ctx.Step(`^exactly (\d+) checkouts? succeeded$`, sc.exactlyCheckoutsSucceeded)
	ctx.Step(`^the order of "([^"]*)" is ([A-Z]+)$`, sc.theOrderOfIs)
	ctx.Step(`^the cart of "([^"]*)" is empty$`, sc.theCartOfIsEmpty)
	ctx.Step(`^the cart of "([^"]*)" still holds (\d+) of "([^"]*)"$`, sc.theCartOfStillHolds)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
