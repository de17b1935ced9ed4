package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/vyapari/internal/encoding"
	"github.com/MrJamesThe3rd/vyapari/internal/inventory"
)

var ErrMissingItemColumn = errors.New("catalog has no item name column")

// Normalized header names.
const (
	colItemName     = "itemname"
	colCategory     = "category"
	colQuantity     = "quantity"
	colCostPrice    = "costprice"
	colSellingPrice = "sellingprice"
	colThreshold    = "lowstockthreshold"
)

// Parse reads a catalog CSV into sync rows. Rows without an item name are
// skipped; numbers that do not parse count as zero.
func Parse(r io.Reader) ([]inventory.SyncRow, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	slog.Debug("parsing catalog", "charset", charset)

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingItemColumn
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := indexHeader(header)
	if _, ok := cols[colItemName]; !ok {
		return nil, ErrMissingItemColumn
	}

	var rows []inventory.SyncRow

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		name := cols.value(record, colItemName)
		if name == "" {
			continue
		}

		rows = append(rows, inventory.SyncRow{
			Name:              name,
			Category:          cols.value(record, colCategory),
			Quantity:          parseInt(cols.value(record, colQuantity)),
			CostPrice:         parseMoney(cols.value(record, colCostPrice)),
			SellingPrice:      parseMoney(cols.value(record, colSellingPrice)),
			LowStockThreshold: parseInt(cols.value(record, colThreshold)),
		})
	}

	return rows, nil
}

type colIndex map[string]int

// indexHeader normalizes "Item Name " to "itemname".
func indexHeader(header []string) colIndex {
	cols := make(colIndex, len(header))

	for i, h := range header {
		key := strings.ToLower(strings.Join(strings.Fields(h), ""))
		if _, dup := cols[key]; !dup && key != "" {
			cols[key] = i
		}
	}

	return cols
}

func (c colIndex) value(record []string, col string) string {
	idx, ok := c[col]
	if !ok || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		if d, derr := decimal.NewFromString(s); derr == nil {
			return int(d.IntPart())
		}

		return 0
	}

	return n
}

// parseMoney accepts "1,250.50", "₹499" and "499 rs".
func parseMoney(s string) decimal.Decimal {
	clean := strings.ToLower(s)
	for _, cut := range []string{"₹", "rs.", "rs", "inr", ","} {
		clean = strings.ReplaceAll(clean, cut, "")
	}

	d, err := decimal.NewFromString(strings.TrimSpace(clean))
	if err != nil {
		return decimal.Zero
	}

	return d
}
