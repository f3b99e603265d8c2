package console

import (
	"errors"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"CafeDesk/internal/catalog"
	"CafeDesk/internal/order"
	"CafeDesk/internal/receipt"
)

func (c *console) addItem() error {
	answers, err := c.ask(
		"Enter Item ID: ",
		"Enter Item Name: ",
		"Enter Category (e.g., Coffee, Tea, Pastry): ",
		"Enter Price: ",
		"Is the item available? (yes/no): ",
	)
	if err != nil {
		return err
	}

	it, err := catalog.ParseItem(answers[0], answers[1], answers[2], answers[3], answers[4])
	if err != nil {
		c.reportMutation(err, "")
		return nil
	}

	c.reportMutation(c.d.Catalog.Add(c.ctx, it), "Item added successfully!")
	return nil
}

func (c *console) updateItem() error {
	id, err := c.prompt("Enter Item ID to update: ")
	if err != nil {
		return err
	}

	current, ok := c.d.Catalog.Get(id)
	if !ok {
		c.println("Item not found!")
		c.println()
		return nil
	}
	c.println("Current details:")
	c.itemTable([]catalog.MenuItem{current})

	answers, err := c.ask(
		"Enter new Item Name (or press Enter to skip): ",
		"Enter new Category (or press Enter to skip): ",
		"Enter new Price (or press Enter to skip): ",
		"Is the item available? (yes/no, or press Enter to skip): ",
	)
	if err != nil {
		return err
	}

	u, err := catalog.ParseUpdate(answers[0], answers[1], answers[2], answers[3])
	if err != nil {
		c.reportMutation(err, "")
		return nil
	}

	_, err = c.d.Catalog.Update(c.ctx, id, u)
	c.reportMutation(err, "Item updated successfully!")
	return nil
}

func (c *console) deleteItem() error {
	id, err := c.prompt("Enter Item ID to delete: ")
	if err != nil {
		return err
	}
	c.reportMutation(c.d.Catalog.Delete(c.ctx, id), "Item deleted successfully!")
	return nil
}

func (c *console) viewItems() {
	items := c.d.Catalog.List()
	if len(items) == 0 {
		c.println("No items in the menu.")
		c.println()
		return
	}
	c.println("Current Menu:")
	c.itemTable(items)
	c.println()
}

func (c *console) takeOrder() error {
	customer, err := c.prompt("Customer name (or press Enter to skip): ")
	if err != nil {
		return err
	}
	c.viewItems()

	s := order.NewSession(c.d.Catalog)
	if err := s.Start(strings.TrimSpace(customer)); err != nil {
		return err
	}

	for {
		id, err := c.prompt("Enter Item ID to order (or type 'done' to finish): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(id), "done") {
			c.println()
			break
		}
		if !c.d.Catalog.IsAvailable(id) {
			c.println("Item not available or not found.")
			c.println()
			continue
		}

		qty, err := c.askQuantity()
		if err != nil {
			return err
		}

		l, err := s.AddLine(id, qty)
		if errors.Is(err, order.ErrItemUnavailable) {
			c.println("Item not available or not found.")
			c.println()
			continue
		}
		if err != nil {
			c.printf("Could not add item: %v\n\n", err)
			continue
		}
		c.printf("Added %d x %s to order.\n\n", l.Quantity, l.Name)
	}

	bill, ok, err := s.Finish()
	if err != nil {
		return err
	}
	if !ok {
		c.d.Metrics.ObserveEmptyOrder()
		c.println("No items ordered.")
		c.println()
		return nil
	}

	c.d.Metrics.ObserveBill(len(bill.Lines), bill.Total.InexactFloat64())
	c.d.Log.Info("order billed",
		zap.String("bill_id", bill.ID),
		zap.Int("lines", len(bill.Lines)),
		zap.String("total", bill.Total.String()),
	)

	c.println("Your Order:")
	if err := receipt.Render(c.out, bill, c.d.Currency); err != nil {
		return err
	}
	c.println()

	if c.d.Receipts != nil {
		path, err := c.d.Receipts.Save(bill)
		if err != nil {
			c.d.Log.Warn("save receipt failed", zap.Error(err), zap.String("bill_id", bill.ID))
			c.printf("Could not save receipt: %v\n\n", err)
			return nil
		}
		c.printf("Receipt saved to %s\n\n", path)
	}
	return nil
}

func (c *console) askQuantity() (int, error) {
	for {
		raw, err := c.prompt("Enter quantity: ")
		if err != nil {
			return 0, err
		}
		qty, err := order.ParseQuantity(raw)
		if err == nil {
			return qty, nil
		}
		c.println("Quantity must be a whole number greater than zero.")
	}
}

func (c *console) ask(labels ...string) ([]string, error) {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		v, err := c.prompt(l)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// reportMutation prints the outcome of a catalog change. A persistence
// failure still means the change was applied in memory.
func (c *console) reportMutation(err error, success string) {
	switch {
	case err == nil:
		c.println(success)
	case errors.Is(err, catalog.ErrNotFound):
		c.println("Item not found!")
	case errors.Is(err, catalog.ErrInvalidInput):
		c.printf("Invalid input: %v\n", err)
	case errors.Is(err, catalog.ErrPersistence):
		c.println(success)
		c.printf("Warning: the menu could not be saved: %v\n", err)
	default:
		c.printf("Error: %v\n", err)
	}
	c.println()
}

func (c *console) itemTable(items []catalog.MenuItem) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = tw.Write([]byte("Item ID\tName\tCategory\tPrice\tAvailability\n"))
	for _, it := range items {
		avail := "No"
		if it.Available {
			avail = "Yes"
		}
		_, _ = tw.Write([]byte(strings.Join([]string{
			it.ID, it.Name, it.Category, order.FormatAmount(it.Price), avail,
		}, "\t") + "\n"))
	}
	_ = tw.Flush()
}
