package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type productRow struct {
	line     int
	fields   entity.ProductFields
	quantity int64
}

var header = []string{"name", "description", "category", "price", "cost", "quantity", "minimum_stock"}

// parseProducts lee el CSV separado por ';'. Si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func parseProducts(raw []byte) ([]productRow, error) {
	var in io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		in = transform.NewReader(in, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(in)
	r.Comma = ';'
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	start := 0
	if strings.EqualFold(strings.TrimPrefix(records[0][0], "\ufeff"), header[0]) {
		start = 1
	}

	rows := make([]productRow, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		line := i + 1
		if len(rec) != len(header) {
			return nil, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, len(header), len(rec))
		}
		price, err := decimal.NewFromString(rec[3])
		if err != nil {
			return nil, fmt.Errorf("línea %d: price: %w", line, err)
		}
		cost, err := decimal.NewFromString(rec[4])
		if err != nil {
			return nil, fmt.Errorf("línea %d: cost: %w", line, err)
		}
		qty, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantity: %w", line, err)
		}
		minimum, err := strconv.ParseInt(rec[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: minimum_stock: %w", line, err)
		}
		rows = append(rows, productRow{
			line: line,
			fields: entity.ProductFields{
				Name:         rec[0],
				Description:  rec[1],
				Category:     rec[2],
				Price:        price,
				Cost:         cost,
				MinimumStock: minimum,
			},
			quantity: qty,
		})
	}
	return rows, nil
}
