package service

import "time"

const (
	// WireDateLayout is the DD-MM-YYYY layout clients send
	WireDateLayout = "02-01-2006"
	// CanonicalDateLayout is the YYYY-MM-DD layout transactions are stored in
	CanonicalDateLayout = "2006-01-02"
)

// ToCanonicalDate converts a DD-MM-YYYY date into YYYY-MM-DD. Parsing is
// strict; anything that is not a real calendar day is a validation error.
func ToCanonicalDate(wire string) (string, error) {
	date, err := time.Parse(WireDateLayout, wire)
	if err != nil {
		verr := newValidationError()
		verr.add(FieldPurchaseDate, "The "+attributeName(FieldPurchaseDate)+" is not a valid date.")
		return "", verr
	}
	return date.Format(CanonicalDateLayout), nil
}
