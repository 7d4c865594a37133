package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// RawSale is one ledger row after column mapping and field-local type
// coercion, before dense-code compaction. Nil pointers mark fields whose
// source value could not be parsed.
type RawSale struct {
	SaleID               string
	CustomerKey          string
	PurchaseDate         *time.Time
	PurchaseTime         string
	OriginDeparture      string
	DestinationDeparture string
	OriginReturn         string
	DestinationReturn    string
	DepartureCarrier     string
	ReturnCarrier        string
	GrossValue           *float64
	TicketQuantity       int
}

// Ledger export column names. The export uses the OTA schema's raw names;
// header whitespace is trimmed before matching.
const (
	colSaleID               = "nk_ota_localizer_id"
	colCustomerKey          = "fk_contact"
	colPurchaseDate         = "date_purchase"
	colPurchaseTime         = "time_purchase"
	colOriginDeparture      = "place_origin_departure"
	colDestinationDeparture = "place_destination_departure"
	colOriginReturn         = "place_origin_return"
	colDestinationReturn    = "place_destination_return"
	colDepartureCarrier     = "fk_departure_ota_bus_company"
	colReturnCarrier        = "fk_return_ota_bus_company"
	colGrossValue           = "gmv_success"
	colTicketQuantity       = "total_tickets_quantity_success"
)

var requiredColumns = []string{
	colCustomerKey,
	colPurchaseDate,
	colDestinationDeparture,
	colGrossValue,
	colTicketQuantity,
}

// dateLayouts are tried in order when parsing purchase dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Normalize reads the CSV ledger export and maps it onto typed sale rows.
// A missing required column fails the whole run; a malformed field in a row
// is coerced to null/zero and the row is kept.
func Normalize(r io.Reader) ([]RawSale, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("required column %q not found in ledger export", name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	bar := rowProgress(len(rows))

	sales := make([]RawSale, 0, len(rows))
	for _, row := range rows {
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		sales = append(sales, RawSale{
			SaleID:               field(colSaleID),
			CustomerKey:          field(colCustomerKey),
			PurchaseDate:         parseDate(field(colPurchaseDate)),
			PurchaseTime:         field(colPurchaseTime),
			OriginDeparture:      field(colOriginDeparture),
			DestinationDeparture: field(colDestinationDeparture),
			OriginReturn:         field(colOriginReturn),
			DestinationReturn:    field(colDestinationReturn),
			DepartureCarrier:     field(colDepartureCarrier),
			ReturnCarrier:        field(colReturnCarrier),
			GrossValue:           parsePrice(field(colGrossValue)),
			TicketQuantity:       parseQuantity(field(colTicketQuantity)),
		})
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return sales, nil
}

// FilterYearWindow keeps rows whose purchase year lies in the inclusive
// window. Rows with an unparseable date carry no year and are excluded.
func FilterYearWindow(sales []RawSale, startYear, endYear int) []RawSale {
	filtered := make([]RawSale, 0, len(sales))
	for _, s := range sales {
		if s.PurchaseDate == nil {
			continue
		}
		year := s.PurchaseDate.Year()
		if year >= startYear && year <= endYear {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// parseDate returns the purchase date normalized to midnight UTC, or nil when
// no known layout matches.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	}
	return nil
}

// parsePrice returns nil for unparseable or negative monetary values.
func parsePrice(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

// parseQuantity coerces bad or negative quantities to zero.
func parseQuantity(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// rowProgress returns a progress bar for interactive runs, nil otherwise.
func rowProgress(total int) *progressbar.ProgressBar {
	if total == 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.Default(int64(total))
}
