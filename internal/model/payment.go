package model

import (
	"encoding/json"
	"strings"
)

// PaymentStatus is the normalised form of the "payed" field.  The backend
// and older clients disagree on its encoding (booleans, "True"/"False",
// "No"/"Pending"), so every value is mapped here once at decode time and
// nothing downstream compares raw strings.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPaid
	PaymentPending
)

// ParsePaymentStatus maps a raw string encoding to a PaymentStatus.
// Unrecognised values are Unknown.
func ParsePaymentStatus(s string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "paid", "yes", "1":
		return PaymentPaid
	case "false", "pending", "no", "0", "unpaid":
		return PaymentPending
	}
	return PaymentUnknown
}

// Bucket collapses the tri-state into the two display buckets: anything that
// is not positively Paid is Pending.
func (p PaymentStatus) Bucket() PaymentStatus {
	if p == PaymentPaid {
		return PaymentPaid
	}
	return PaymentPending
}

func (p PaymentStatus) String() string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentPending:
		return "pending"
	}
	return "unknown"
}

// MarshalJSON writes the canonical backend encoding: a boolean, or null when
// the status was never known.
func (p PaymentStatus) MarshalJSON() ([]byte, error) {
	switch p {
	case PaymentPaid:
		return []byte("true"), nil
	case PaymentPending:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON never fails on a well-formed JSON scalar; odd values become Unknown.
func (p *PaymentStatus) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		if v {
			*p = PaymentPaid
		} else {
			*p = PaymentPending
		}
	case string:
		*p = ParsePaymentStatus(v)
	case float64:
		switch v {
		case 1:
			*p = PaymentPaid
		case 0:
			*p = PaymentPending
		default:
			*p = PaymentUnknown
		}
	default:
		*p = PaymentUnknown
	}
	return nil
}
