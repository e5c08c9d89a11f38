package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	productsSheet     = "Products"
	instructionsSheet = "Instructions"
)

// ProductColumns is the import/export column order
var ProductColumns = []string{
	"name", "description", "shortDescription", "sku", "price", "costPrice",
	"compareAtPrice", "category", "subcategory", "stock", "lowStockThreshold",
	"brand", "tags", "status", "images", "barcode", "weight", "isFeatured",
}

var exampleProductRow = []string{
	"Sample Product Name", "Detailed description of the product", "Short description",
	"PROD-001", "999", "800", "1299", "Electronics", "Mobile Phones", "100", "5",
	"Samsung", "smartphone,5g,android", "active",
	"https://example.com/image1.jpg,https://example.com/image2.jpg", "1234567890123", "200", "false",
}

var importInstructions = [][]string{
	{"Column", "Required", "Description"},
	{"name", "yes", "Product name, at least 2 characters"},
	{"description", "yes", "Product description, at least 10 characters"},
	{"price", "yes", "Selling price in INR, a number >= 0"},
	{"category", "yes", "Category name or id"},
	{"stock", "yes", "Stock quantity, a whole number >= 0"},
	{"shortDescription", "no", "Short description"},
	{"sku", "no", "Stock keeping unit; generated when blank; an existing SKU in the store is updated"},
	{"costPrice", "no", "Cost price, a number >= 0"},
	{"compareAtPrice", "no", "Original price shown as struck through, a number >= 0"},
	{"subcategory", "no", "Subcategory name"},
	{"lowStockThreshold", "no", "Low stock alert threshold, default 5"},
	{"brand", "no", "Brand name"},
	{"tags", "no", "Comma-separated tags"},
	{"status", "no", "active, inactive, draft or archived; default active"},
	{"images", "no", "Comma-separated http(s) image URLs"},
	{"barcode", "no", "Barcode"},
	{"weight", "no", "Weight in grams, a number >= 0"},
	{"isFeatured", "no", "true, 1 or yes to feature the product"},
}

var canonicalColumns = func() map[string]string {
	m := make(map[string]string, len(ProductColumns))
	for _, c := range ProductColumns {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// SheetFormat picks the parser from the file extension
func SheetFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return FormatXLSX, nil
	}
	return "", domain.Invalid("file", "unsupported file type; upload a .csv, .xlsx or .xls file")
}

// ReadSheet returns the data rows keyed by canonical column name. Blank rows are skipped.
func ReadSheet(r io.Reader, format string) ([]map[string]string, error) {
	var records [][]string
	switch format {
	case FormatCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		all, err := reader.ReadAll()
		if err != nil {
			return nil, domain.Invalid("file", fmt.Sprintf("could not parse CSV: %v", err))
		}
		records = all
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, domain.Invalid("file", "could not read spreadsheet; save it as .xlsx or .csv")
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, domain.Invalid("file", "spreadsheet has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, domain.Invalid("file", fmt.Sprintf("could not read sheet %s", sheets[0]))
		}
		records = rows
	default:
		return nil, domain.Invalid("format", "must be one of [csv xlsx]")
	}

	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		header[i] = canonicalColumns[h]
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(ProductColumns))
		blank := true
		for i, value := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value != "" {
				blank = false
			}
			row[header[i]] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ExportFile is a generated download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// WriteSheet renders rows under ProductColumns; instructions adds a second sheet in xlsx
func WriteSheet(format, basename string, rows [][]string, instructions bool) (*ExportFile, error) {
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(ProductColumns); err != nil {
			return nil, err
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
		return &ExportFile{Filename: basename + ".csv", ContentType: "text/csv", Data: buf.Bytes()}, nil

	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
			return nil, err
		}
		if err := writeRows(f, productsSheet, append([][]string{ProductColumns}, rows...)); err != nil {
			return nil, err
		}
		if instructions {
			if _, err := f.NewSheet(instructionsSheet); err != nil {
				return nil, err
			}
			if err := writeRows(f, instructionsSheet, importInstructions); err != nil {
				return nil, err
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    basename + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	}
	return nil, domain.Invalid("format", "must be one of [csv xlsx]")
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// Template returns the header row, one example row and, for xlsx, an instructions sheet
func Template(format string) (*ExportFile, error) {
	if format == "" {
		format = FormatCSV
	}
	return WriteSheet(format, "product-import-template", [][]string{exampleProductRow}, true)
}
