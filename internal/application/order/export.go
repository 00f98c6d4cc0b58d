package order

import (
	"strconv"
	"strings"
	"time"
)

// ExportColumns is the CSV header, in column order
var ExportColumns = []string{"Order ID", "Product", "Buyer Name", "Email", "Phone", "Amount", "Status", "Created At"}

// ExportFilename returns the download name for an export taken at t
func ExportFilename(t time.Time) string {
	return "bgmi-orders-" + t.UTC().Format(time.DateOnly) + ".csv"
}

// Values returns the row fields in ExportColumns order
func (r ExportRow) Values() []string {
	return []string{
		r.OrderID,
		r.Product,
		r.BuyerName,
		r.Email,
		r.Phone,
		strconv.FormatInt(r.Amount, 10),
		r.Status,
		r.CreatedAt,
	}
}

// RenderCSV quotes every field, doubles inner quotes and joins lines with \n.
// An empty export renders as an empty document.
func RenderCSV(rows []ExportRow) []byte {
	if len(rows) == 0 {
		return []byte{}
	}

	var b strings.Builder
	writeLine(&b, ExportColumns)
	for _, row := range rows {
		b.WriteByte('\n')
		writeLine(&b, row.Values())
	}
	return []byte(b.String())
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
