package receipt

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/skip2/go-qrcode"

	"CafeDesk/internal/order"
)

const qrSize = 256

// Render writes the bill as a small table followed by the total.
func Render(w io.Writer, b order.Bill, currency string) error {
	if b.Customer != "" {
		if _, err := fmt.Fprintf(w, "Customer: %s\n", b.Customer); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tQty\tPrice\tSubtotal")
	for _, l := range b.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			l.Name, l.Quantity, order.FormatAmount(l.UnitPrice), order.FormatAmount(l.Subtotal))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %s %s\n", currency, order.FormatAmount(b.Total))
	return err
}

// QRPayload is the text encoded into a receipt's QR code.
func QRPayload(b order.Bill, currency string) string {
	return fmt.Sprintf("bill=%s;customer=%s;total=%s %s",
		b.ID, b.Customer, currency, order.FormatAmount(b.Total))
}

// Writer stores receipts as <bill id>.txt, plus <bill id>.png holding a QR
// code when QR is set.
type Writer struct {
	Dir      string
	QR       bool
	Currency string
}

func (w *Writer) Save(b order.Bill) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Bill %s\n%s\n\n", b.ID, b.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if err := Render(&buf, b, w.Currency); err != nil {
		return "", err
	}

	path := filepath.Join(w.Dir, b.ID+".txt")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	if w.QR {
		png, err := qrcode.Encode(QRPayload(b, w.Currency), qrcode.Medium, qrSize)
		if err != nil {
			return path, fmt.Errorf("encode qr: %w", err)
		}
		if err := os.WriteFile(filepath.Join(w.Dir, b.ID+".png"), png, 0o644); err != nil {
			return path, err
		}
	}

	return path, nil
}
