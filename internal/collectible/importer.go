package collectible

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"backend-runclub/internal/shared/apperr"
	"backend-runclub/internal/shared/geo"

	"github.com/xuri/excelize/v2"
)

// Import files carry one item per row in this column order, after a header row.
const (
	colName = iota
	colUID
	colValue
	colLatitude
	colLongitude
	colPicture
	columnCount
)

var ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")

// ReadRows reads the data rows of an import file, picking the decoder from the
// file extension. The header row is dropped.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// ParseRow validates one import row against the item field constraints.
func ParseRow(row []string) (Item, error) {
	if len(row) < columnCount {
		return Item{}, apperr.Validation("row", "expected %d columns, got %d", columnCount, len(row))
	}
	cell := func(i int) string { return strings.TrimSpace(row[i]) }

	item := Item{
		Name:    cell(colName),
		UID:     cell(colUID),
		Picture: cell(colPicture),
	}
	if item.Name == "" {
		return Item{}, apperr.Validation("name", "must not be empty")
	}
	if item.UID == "" {
		return Item{}, apperr.Validation("uid", "must not be empty")
	}

	value, err := strconv.Atoi(cell(colValue))
	if err != nil {
		return Item{}, apperr.Validation("value", "must be an integer")
	}
	item.Value = value

	if item.Latitude, err = strconv.ParseFloat(cell(colLatitude), 64); err != nil || !geo.ValidLat(item.Latitude) {
		return Item{}, apperr.Validation("latitude", "must be a number between -90 and 90")
	}
	if item.Longitude, err = strconv.ParseFloat(cell(colLongitude), 64); err != nil || !geo.ValidLng(item.Longitude) {
		return Item{}, apperr.Validation("longitude", "must be a number between -180 and 180")
	}

	u, err := url.ParseRequestURI(item.Picture)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Item{}, apperr.Validation("picture", "must be an absolute URL")
	}
	return item, nil
}
