package memoryengine

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

const (
	lockPrefixItem  = "item:"
	lockPrefixCart  = "cart:"
	lockPrefixOrder = "order:"
)

// unitOfWork implements all four storage ports itself; their method sets do not overlap.
type unitOfWork struct {
	engine *Engine

	held      map[string]struct{}
	heldOrder []string

	stockDelta   map[uuid.UUID]int
	carts        map[uuid.UUID]shop.Cart
	newOrders    map[uuid.UUID]shop.Order
	orderChanges map[uuid.UUID]shop.Order

	closed bool
}

func newUnitOfWork(engine *Engine) *unitOfWork {
	return &unitOfWork{
		engine:       engine,
		held:         make(map[string]struct{}),
		stockDelta:   make(map[uuid.UUID]int),
		carts:        make(map[uuid.UUID]shop.Cart),
		newOrders:    make(map[uuid.UUID]shop.Order),
		orderChanges: make(map[uuid.UUID]shop.Order),
	}
}

func (u *unitOfWork) Catalog() shop.Catalog   { return u }
func (u *unitOfWork) Stock() shop.StockLedger { return u }
func (u *unitOfWork) Carts() shop.CartStore   { return u }
func (u *unitOfWork) Orders() shop.OrderStore { return u }

// Commit applies all staged writes atomically and releases every held lock.
func (u *unitOfWork) Commit(_ context.Context) error {
	if u.closed {
		return shop.ErrUnitOfWorkClosed
	}

	e := u.engine
	e.mu.Lock()

	for itemID, delta := range u.stockDelta {
		item := e.items[itemID]
		item.QuantityOnHand += delta
		e.items[itemID] = item
	}

	for customerID, cart := range u.carts {
		e.carts[customerID] = cloneCart(cart)
	}

	for orderID, order := range u.newOrders {
		e.orders[orderID] = cloneOrder(order)
		e.numbers[order.Number] = orderID
	}

	for orderID, order := range u.orderChanges {
		e.orders[orderID] = cloneOrder(order)
	}

	e.mu.Unlock()

	e.logDebug("unit of work committed",
		"stock_changes", len(u.stockDelta),
		"cart_changes", len(u.carts),
		"orders_created", len(u.newOrders),
		"orders_changed", len(u.orderChanges),
	)

	u.close()

	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.closed {
		return nil
	}

	u.engine.logDebug("unit of work rolled back")
	u.close()

	return nil
}

func (u *unitOfWork) close() {
	for i := len(u.heldOrder) - 1; i >= 0; i-- {
		u.engine.locks.release(u.heldOrder[i])
	}

	u.held = nil
	u.heldOrder = nil
	u.closed = true
}

func (u *unitOfWork) lock(ctx context.Context, key string) error {
	if _, ok := u.held[key]; ok {
		return nil
	}

	if err := u.engine.locks.acquire(ctx, key); err != nil {
		return err
	}

	u.held[key] = struct{}{}
	u.heldOrder = append(u.heldOrder, key)

	return nil
}

func (u *unitOfWork) ensureOpen() error {
	if u.closed {
		return shop.ErrUnitOfWorkClosed
	}

	return nil
}

/*** Catalog ***/

// GetItem returns the committed item with this unit of work's own stock changes applied.
func (u *unitOfWork) GetItem(_ context.Context, itemID uuid.UUID) (shop.CatalogItem, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.CatalogItem{}, err
	}

	u.engine.mu.RLock()
	item, ok := u.engine.items[itemID]
	u.engine.mu.RUnlock()

	if !ok {
		return shop.CatalogItem{}, shop.NewNotFoundError("Item not found: %s", itemID)
	}

	item.QuantityOnHand += u.stockDelta[itemID]

	return item, nil
}

/*** StockLedger ***/

// Reserve holds the item lock until the unit of work ends, so a concurrent reservation of the same
// item observes this one's decrement.
func (u *unitOfWork) Reserve(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if err := u.prepareStockChange(ctx, itemID, quantity); err != nil {
		return 0, err
	}

	item, err := u.GetItem(ctx, itemID)
	if err != nil {
		return 0, err
	}

	if !item.HasStockFor(quantity) {
		return 0, shop.NewInsufficientStockError(item, quantity)
	}

	u.stockDelta[itemID] -= quantity

	return item.QuantityOnHand - quantity, nil
}

// Restore increments quantity-on-hand under the item lock.
func (u *unitOfWork) Restore(ctx context.Context, itemID uuid.UUID, quantity int) (int, error) {
	if err := u.prepareStockChange(ctx, itemID, quantity); err != nil {
		return 0, err
	}

	item, err := u.GetItem(ctx, itemID)
	if err != nil {
		return 0, err
	}

	u.stockDelta[itemID] += quantity

	return item.QuantityOnHand + quantity, nil
}

func (u *unitOfWork) prepareStockChange(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	if err := shop.ValidateStockQuantity(quantity); err != nil {
		return err
	}

	return u.lock(ctx, lockPrefixItem+itemID.String())
}

/*** CartStore ***/

// LoadCartForUpdate returns the customer's cart, creating an empty one on first access.
func (u *unitOfWork) LoadCartForUpdate(ctx context.Context, customerID uuid.UUID) (shop.Cart, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.Cart{}, err
	}

	if err := u.lock(ctx, lockPrefixCart+customerID.String()); err != nil {
		return shop.Cart{}, err
	}

	if staged, ok := u.carts[customerID]; ok {
		return cloneCart(staged), nil
	}

	u.engine.mu.RLock()
	committed, ok := u.engine.carts[customerID]
	u.engine.mu.RUnlock()

	if ok {
		return cloneCart(committed), nil
	}

	created := shop.NewCart(customerID, u.engine.clock())
	u.carts[customerID] = created

	return cloneCart(created), nil
}

// SaveCart stages the full cart content.
func (u *unitOfWork) SaveCart(ctx context.Context, cart shop.Cart) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	if err := u.lock(ctx, lockPrefixCart+cart.CustomerID.String()); err != nil {
		return err
	}

	u.carts[cart.CustomerID] = cloneCart(cart)

	return nil
}

/*** OrderStore ***/

// CreateOrder stages a new order. A clashing order number is reported as a concurrency conflict,
// so the caller retries with a fresh number.
func (u *unitOfWork) CreateOrder(_ context.Context, order shop.Order) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	u.engine.mu.RLock()
	_, idTaken := u.engine.orders[order.ID]
	_, numberTaken := u.engine.numbers[order.Number]
	u.engine.mu.RUnlock()

	for _, staged := range u.newOrders {
		if staged.Number == order.Number {
			numberTaken = true
		}
	}

	if _, ok := u.newOrders[order.ID]; ok {
		idTaken = true
	}

	if idTaken || numberTaken {
		return shop.ErrConcurrencyConflict
	}

	u.newOrders[order.ID] = cloneOrder(order)

	return nil
}

// LoadOrder returns the order as this unit of work sees it.
func (u *unitOfWork) LoadOrder(_ context.Context, orderID uuid.UUID) (shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.Order{}, err
	}

	order, ok := u.visibleOrder(orderID)
	if !ok {
		return shop.Order{}, shop.NewNotFoundError("Order not found")
	}

	return order, nil
}

// LoadOrderByNumber resolves the human-readable number first.
func (u *unitOfWork) LoadOrderByNumber(ctx context.Context, number string) (shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return shop.Order{}, err
	}

	for orderID, staged := range u.newOrders {
		if staged.Number == number {
			return u.LoadOrder(ctx, orderID)
		}
	}

	u.engine.mu.RLock()
	orderID, ok := u.engine.numbers[number]
	u.engine.mu.RUnlock()

	if !ok {
		return shop.Order{}, shop.NewNotFoundError("Order not found")
	}

	return u.LoadOrder(ctx, orderID)
}

// UpdateOrderEnvelope holds the order lock until the unit of work ends and compares versions,
// so the second of two racing transitions fails with shop.ErrConcurrencyConflict.
func (u *unitOfWork) UpdateOrderEnvelope(ctx context.Context, order shop.Order, expectedVersion uint) error {
	if err := u.ensureOpen(); err != nil {
		return err
	}

	if err := u.lock(ctx, lockPrefixOrder+order.ID.String()); err != nil {
		return err
	}

	current, ok := u.visibleOrder(order.ID)
	if !ok {
		return shop.NewNotFoundError("Order not found")
	}

	if current.Version != expectedVersion {
		return shop.ErrConcurrencyConflict
	}

	current.Status = order.Status
	current.Carrier = order.Carrier
	current.TrackingNumber = order.TrackingNumber
	current.Notes = order.Notes
	current.UpdatedAt = order.UpdatedAt
	current.ShippedAt = order.ShippedAt
	current.DeliveredAt = order.DeliveredAt
	current.Version = order.Version

	if _, isNew := u.newOrders[order.ID]; isNew {
		u.newOrders[order.ID] = current
		return nil
	}

	u.orderChanges[order.ID] = current

	return nil
}

// ListOrdersByCustomer returns the customer's orders, newest first.
func (u *unitOfWork) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID, page shop.Page) ([]shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return nil, err
	}

	return u.listOrders(page, func(order shop.Order) bool {
		return order.CustomerID == customerID
	}), nil
}

// ListOrdersByStatus returns orders in the given status, newest first.
func (u *unitOfWork) ListOrdersByStatus(_ context.Context, status shop.OrderStatus, page shop.Page) ([]shop.Order, error) {
	if err := u.ensureOpen(); err != nil {
		return nil, err
	}

	return u.listOrders(page, func(order shop.Order) bool {
		return order.Status == status
	}), nil
}

func (u *unitOfWork) listOrders(page shop.Page, match func(shop.Order) bool) []shop.Order {
	visible := make(map[uuid.UUID]shop.Order)

	u.engine.mu.RLock()
	for orderID, order := range u.engine.orders {
		visible[orderID] = order
	}
	u.engine.mu.RUnlock()

	for orderID, order := range u.newOrders {
		visible[orderID] = order
	}

	for orderID, order := range u.orderChanges {
		visible[orderID] = order
	}

	matching := make([]shop.Order, 0)
	for _, order := range visible {
		if match(order) {
			matching = append(matching, cloneOrder(order))
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		if !matching[i].CreatedAt.Equal(matching[j].CreatedAt) {
			return matching[i].CreatedAt.After(matching[j].CreatedAt)
		}

		return matching[i].Number > matching[j].Number
	})

	page = page.Normalized()
	if page.Offset >= len(matching) {
		return []shop.Order{}
	}

	end := min(page.Offset+page.Limit, len(matching))

	return matching[page.Offset:end]
}

func (u *unitOfWork) visibleOrder(orderID uuid.UUID) (shop.Order, bool) {
	if staged, ok := u.orderChanges[orderID]; ok {
		return cloneOrder(staged), true
	}

	if staged, ok := u.newOrders[orderID]; ok {
		return cloneOrder(staged), true
	}

	u.engine.mu.RLock()
	committed, ok := u.engine.orders[orderID]
	u.engine.mu.RUnlock()

	if !ok {
		return shop.Order{}, false
	}

	return cloneOrder(committed), true
}

func cloneCart(cart shop.Cart) shop.Cart {
	cart.Lines = slices.Clone(cart.Lines)
	if cart.Lines == nil {
		cart.Lines = []shop.CartLine{}
	}

	return cart
}

func cloneOrder(order shop.Order) shop.Order {
	order.Lines = slices.Clone(order.Lines)

	if order.ShippedAt != nil {
		shippedAt := *order.ShippedAt
		order.ShippedAt = &shippedAt
	}

	if order.DeliveredAt != nil {
		deliveredAt := *order.DeliveredAt
		order.DeliveredAt = &deliveredAt
	}

	return order
}
