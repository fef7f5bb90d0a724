package service

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Wire names of the transaction fields
const (
	FieldBuyer        = "buyer"
	FieldPurchaseDate = "purchase_date"
	FieldCloth        = "cloth"
	FieldQuantity     = "quantity"
	FieldTotalPrice   = "total_price"
)

const (
	dateFormatLabel     = "d-m-Y"
	maxTotalPriceLength = 255

	// Bounds on accepted numbers. Values past them are rejected before any
	// rounding or formatting expands them.
	maxNumericExponent = 64
	maxNumericDigits   = 64
)

var (
	validate = validator.New()

	// scientificNumber covers the exponent forms the numeric tag does not, for example "1e5" and ".5E-2"
	scientificNumber = regexp.MustCompile(`^[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)

	maxID = decimal.NewFromInt(math.MaxInt64)
)

// Mode selects the rule set applied by ValidateInput
type Mode int

const (
	// CreateMode requires every field
	CreateMode Mode = iota
	// UpdateMode treats every field as optional
	UpdateMode
)

// Input is a decoded request payload keyed by wire field name
type Input map[string]interface{}

// ValidationError maps field names to the rules they failed
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ValidateInput checks a payload against the create or update rules and
// returns the supplied fields. purchase_date is returned as received; it
// still has to go through ToCanonicalDate.
func ValidateInput(input Input, mode Mode) (entity.TransactionChanges, error) {
	verr := newValidationError()
	var changes entity.TransactionChanges

	if id, ok := validateID(input, FieldBuyer, mode, verr); ok {
		changes.Buyer = &id
	}
	if date, ok := validateDate(input, FieldPurchaseDate, mode, verr); ok {
		changes.PurchaseDate = &date
	}
	if id, ok := validateID(input, FieldCloth, mode, verr); ok {
		changes.Cloth = &id
	}
	if qty, ok := validateNumeric(input, FieldQuantity, mode, verr); ok {
		changes.Quantity = &qty
	}
	if price, ok := validateString(input, FieldTotalPrice, mode, maxTotalPriceLength, verr); ok {
		changes.TotalPrice = &price
	}

	if len(verr.Fields) > 0 {
		return entity.TransactionChanges{}, verr
	}
	return changes, nil
}

// lookup returns the value of a field when it is present. A field that is
// missing or blank fails "required" in create mode and is simply absent in
// update mode.
func lookup(input Input, field string, mode Mode, verr *ValidationError) (interface{}, bool) {
	value, ok := input[field]
	if !ok || isBlank(value) {
		if mode == CreateMode {
			verr.add(field, "The "+attributeName(field)+" field is required.")
		}
		return nil, false
	}
	return value, true
}

func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func validateNumeric(input Input, field string, mode Mode, verr *ValidationError) (decimal.Decimal, bool) {
	value, ok := lookup(input, field, mode, verr)
	if !ok {
		return decimal.Zero, false
	}

	d, ok := parseNumeric(value)
	if !ok {
		verr.add(field, "The "+attributeName(field)+" must be a number.")
		return decimal.Zero, false
	}
	if !withinBounds(d) {
		verr.add(field, "The "+attributeName(field)+" is out of range.")
		return decimal.Zero, false
	}
	return d, true
}

// validateID validates a numeric reference and rounds it to an integer id
func validateID(input Input, field string, mode Mode, verr *ValidationError) (int64, bool) {
	d, ok := validateNumeric(input, field, mode, verr)
	if !ok {
		return 0, false
	}

	if d.Abs().GreaterThan(maxID) {
		verr.add(field, "The "+attributeName(field)+" is out of range.")
		return 0, false
	}

	rounded := d.Round(0)
	if !rounded.BigInt().IsInt64() {
		verr.add(field, "The "+attributeName(field)+" is out of range.")
		return 0, false
	}
	return rounded.IntPart(), true
}

func validateString(input Input, field string, mode Mode, maxLength int, verr *ValidationError) (string, bool) {
	value, ok := lookup(input, field, mode, verr)
	if !ok {
		return "", false
	}

	s, isString := value.(string)
	if !isString {
		verr.add(field, "The "+attributeName(field)+" must be a string.")
		return "", false
	}

	s = strings.TrimSpace(s)
	if validate.Var(s, "max="+strconv.Itoa(maxLength)) != nil {
		verr.add(field, "The "+attributeName(field)+" must not be greater than "+strconv.Itoa(maxLength)+" characters.")
		return "", false
	}
	return s, true
}

func validateDate(input Input, field string, mode Mode, verr *ValidationError) (string, bool) {
	value, ok := lookup(input, field, mode, verr)
	if !ok {
		return "", false
	}

	formatMessage := "The " + attributeName(field) + " does not match the format " + dateFormatLabel + "."

	s, isString := value.(string)
	if !isString {
		verr.add(field, "The "+attributeName(field)+" must be a string.")
		verr.add(field, formatMessage)
		return "", false
	}

	s = strings.TrimSpace(s)
	if validate.Var(s, "datetime="+WireDateLayout) != nil {
		verr.add(field, formatMessage)
		return "", false
	}
	return s, true
}

// parseNumeric accepts JSON numbers, Go numbers and numeric strings
func parseNumeric(value interface{}) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(v)
		if validate.Var(s, "numeric") != nil && !scientificNumber.MatchString(s) {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Zero, false
	}
}

// withinBounds reports whether d has a small enough exponent and coefficient
func withinBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= maxNumericExponent && exp >= -maxNumericExponent && d.NumDigits() <= maxNumericDigits
}

func attributeName(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
