package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Record is the canonical insurance policy extraction result. All eight keys
// are always present in the JSON output; a field the document does not
// contain is null, never an empty string and never omitted.
type Record struct {
	Name          *string `json:"name"`
	PolicyNumber  *string `json:"policy_number"`
	Email         *string `json:"email"`
	PolicyName    *string `json:"policy_name"`
	PlanType      *string `json:"plan_type"`
	SumAssured    *string `json:"sum_assured"`
	RoomRentLimit *string `json:"room_rent_limit"`
	WaitingPeriod *string `json:"waiting_period"`
}

// Keys lists the canonical field names in schema order.
var Keys = []string{
	"name",
	"policy_number",
	"email",
	"policy_name",
	"plan_type",
	"sum_assured",
	"room_rent_limit",
	"waiting_period",
}

// ErrMalformed indicates the provider output could not be parsed into the schema.
var ErrMalformed = errors.New("malformed extraction output")

// Normalize parses raw LLM output into a Record. Keys missing from the
// parsed object become null, as do empty or whitespace-only values; keys
// that are present stay untouched. Anything that is not a JSON object
// fails with ErrMalformed.
func Normalize(raw json.RawMessage) (Record, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Record{}, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Record{
		Name:          stringField(fields, "name"),
		PolicyNumber:  stringField(fields, "policy_number"),
		Email:         stringField(fields, "email"),
		PolicyName:    stringField(fields, "policy_name"),
		PlanType:      stringField(fields, "plan_type"),
		SumAssured:    stringField(fields, "sum_assured"),
		RoomRentLimit: stringField(fields, "room_rent_limit"),
		WaitingPeriod: stringField(fields, "waiting_period"),
	}, nil
}

// stringField returns the value for key as a non-empty string, or nil when
// the key is absent, null, empty, or of an unusable type. Numeric values are
// preserved verbatim since amounts sometimes come back unquoted.
func stringField(fields map[string]any, key string) *string {
	val, ok := fields[key]
	if !ok || val == nil {
		return nil
	}
	switch v := val.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	case json.Number:
		s := v.String()
		return &s
	default:
		return nil
	}
}
