package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"CafeDesk/pkg/kit"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
)

// Update carries the fields to change on an existing item. A nil field is
// left untouched; a non-nil field is applied even if it holds a zero value.
type Update struct {
	Name      *string
	Category  *string
	Price     *decimal.Decimal
	Available *bool
}

func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Available == nil
}

// Catalog owns the ordered list of menu items and writes a full snapshot to
// its Store after every successful mutation. It is not safe for concurrent
// use.
type Catalog struct {
	store   Store
	log     *zap.Logger
	metrics *kit.Metrics

	items []MenuItem
	dirty bool
}

func New(store Store, log *zap.Logger, m *kit.Metrics) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{store: store, log: log, metrics: m}
}

// Load replaces the in-memory items with the stored snapshot. A missing
// snapshot leaves the catalog empty.
func (c *Catalog) Load(ctx context.Context) error {
	items, found, err := c.store.Load(ctx)
	if err != nil {
		c.log.Error("load catalog failed", zap.Error(err))
		return fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	if !found {
		c.items = nil
		c.dirty = false
		c.log.Info("no catalog snapshot, starting empty")
		return nil
	}

	c.items = cloneItems(items)
	c.dirty = false
	c.log.Info("catalog loaded", zap.Int("items", len(c.items)))
	return nil
}

// Save writes the current items to the store.
func (c *Catalog) Save(ctx context.Context) error {
	if err := c.store.Save(ctx, c.items); err != nil {
		c.dirty = true
		c.metrics.ObservePersistFailure()
		c.log.Error("save catalog failed", zap.Error(err), zap.Int("items", len(c.items)))
		return fmt.Errorf("%w: save: %w", ErrPersistence, err)
	}
	c.dirty = false
	return nil
}

// Dirty reports whether the in-memory items are ahead of the last
// successful save.
func (c *Catalog) Dirty() bool { return c.dirty }

func (c *Catalog) Add(ctx context.Context, it MenuItem) error {
	if err := validate(it); err != nil {
		c.metrics.ObserveMutation(opAdd, err)
		return err
	}

	c.items = append(c.items, it)
	c.log.Info("item added", zap.String("item_id", it.ID), zap.String("price", it.Price.String()))

	err := c.Save(ctx)
	c.metrics.ObserveMutation(opAdd, err)
	return err
}

// FindByID returns the position of the first item with the given id.
func (c *Catalog) FindByID(id string) (int, error) {
	for i := range c.items {
		if c.items[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (c *Catalog) Get(id string) (MenuItem, bool) {
	i, err := c.FindByID(id)
	if err != nil {
		return MenuItem{}, false
	}
	return c.items[i], true
}

func (c *Catalog) IsAvailable(id string) bool {
	it, ok := c.Get(id)
	return ok && it.Available
}

// Update applies u to the first item with the given id and persists, even
// when u is empty.
func (c *Catalog) Update(ctx context.Context, id string, u Update) (MenuItem, error) {
	i, err := c.FindByID(id)
	if err != nil {
		c.metrics.ObserveMutation(opUpdate, err)
		return MenuItem{}, err
	}

	next := c.items[i]
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Category != nil {
		next.Category = *u.Category
	}
	if u.Price != nil {
		next.Price = *u.Price
	}
	if u.Available != nil {
		next.Available = *u.Available
	}
	if err := validate(next); err != nil {
		c.metrics.ObserveMutation(opUpdate, err)
		return MenuItem{}, err
	}

	c.items[i] = next
	c.log.Info("item updated", zap.String("item_id", id), zap.Bool("noop", u.IsEmpty()))

	err = c.Save(ctx)
	c.metrics.ObserveMutation(opUpdate, err)
	return next, err
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	i, err := c.FindByID(id)
	if err != nil {
		c.metrics.ObserveMutation(opDelete, err)
		return err
	}

	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.log.Info("item deleted", zap.String("item_id", id))

	err = c.Save(ctx)
	c.metrics.ObserveMutation(opDelete, err)
	return err
}

// List returns a copy of the items in catalog order.
func (c *Catalog) List() []MenuItem {
	return cloneItems(c.items)
}

func (c *Catalog) Len() int { return len(c.items) }

func validate(it MenuItem) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	// CSV readers fold \r\n inside quoted fields to \n.
	if strings.ContainsRune(it.ID+it.Name+it.Category, '\r') {
		return fmt.Errorf("%w: carriage return in text field", ErrInvalidInput)
	}
	return nil
}
