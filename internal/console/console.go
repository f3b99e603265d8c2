package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"CafeDesk/internal/catalog"
	"CafeDesk/internal/receipt"
	"CafeDesk/pkg/kit"
)

type Deps struct {
	Catalog  *catalog.Catalog
	Receipts *receipt.Writer
	Metrics  *kit.Metrics
	Log      *zap.Logger
	Currency string
}

type line struct {
	text string
	err  error
}

type console struct {
	ctx   context.Context
	lines <-chan line
	out   io.Writer
	d     Deps
}

// Run drives the numbered menu until the operator picks exit, input ends or
// ctx is cancelled, including while a prompt waits for input. Per-operation
// failures are reported and the loop goes on; only a failed final save is
// returned.
func Run(ctx context.Context, in io.Reader, out io.Writer, d Deps) error {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	done := make(chan struct{})
	defer close(done)
	c := &console{ctx: ctx, lines: readLines(in, done), out: out, d: d}

	for {
		c.mainMenu()
		choice, err := c.prompt("Choose an option (1-6): ")
		if err != nil {
			return c.exit()
		}
		c.println()

		switch strings.TrimSpace(choice) {
		case "1":
			err = c.addItem()
		case "2":
			err = c.updateItem()
		case "3":
			err = c.deleteItem()
		case "4":
			c.viewItems()
		case "5":
			err = c.takeOrder()
		case "6":
			return c.exit()
		default:
			c.println("Invalid choice! Please choose again.")
			c.println()
		}

		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return c.exit()
		}
	}
}

func (c *console) mainMenu() {
	c.println("\t", strings.Repeat("*", 48))
	c.println("\t", "|            CAFE MANAGEMENT SYSTEM            |")
	c.println("\t", strings.Repeat("*", 48))
	for _, opt := range []string{
		"1. INPUT ITEMS",
		"2. UPDATE ITEMS",
		"3. DELETE ITEMS",
		"4. VIEW ITEMS",
		"5. ORDER",
		"6. EXIT",
	} {
		c.printf("\t |            %-34s|\n", opt)
	}
	c.println("\t", strings.Repeat("*", 48))
	c.println()
}

func (c *console) exit() error {
	if err := c.ctx.Err(); err != nil {
		c.d.Log.Info("console cancelled", zap.Error(err))
	}

	var err error
	if c.d.Catalog != nil && c.d.Catalog.Dirty() {
		if err = c.d.Catalog.Save(context.WithoutCancel(c.ctx)); err != nil {
			c.printf("Could not save the menu before exit: %v\n", err)
		}
	}
	c.println("Exiting Cafe Management System.")
	c.println("THANK YOU FOR VISITING")
	return err
}

// prompt returns io.EOF once input is exhausted and ctx.Err() once ctx is
// cancelled.
func (c *console) prompt(label string) (string, error) {
	c.printf("%s", label)
	select {
	case <-c.ctx.Done():
		c.println()
		return "", c.ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimRight(l.text, "\r"), nil
	}
}

// readLines scans in on its own goroutine so a blocked read does not hold up
// cancellation. The goroutine stops sending once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan line {
	ch := make(chan line)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- line{text: sc.Text()}:
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			select {
			case ch <- line{err: err}:
			case <-done:
			}
		}
	}()
	return ch
}

func (c *console) println(a ...any) { _, _ = fmt.Fprintln(c.out, a...) }

func (c *console) printf(format string, a ...any) { _, _ = fmt.Fprintf(c.out, format, a...) }
