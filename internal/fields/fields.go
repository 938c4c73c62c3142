// Package fields holds the typed field values handed to forms, dialogs and
// quick creates, and the dispatch from a field-type tag to the matching setter.
package fields

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Type is the field-type tag used in step phrases and data tables.
type Type string

const (
	TypeText           Type = "text"
	TypeOptionSet      Type = "optionset"
	TypeMultiOptionSet Type = "multioptionset"
	TypeBoolean        Type = "boolean"
	TypeNumeric        Type = "numeric"
	TypeCurrency       Type = "currency"
	TypeDateTime       Type = "datetime"
	TypeLookup         Type = "lookup"
)

type OptionSet struct {
	Name  string
	Value string
}

type MultiValueOptionSet struct {
	Name   string
	Values []string
}

type BooleanItem struct {
	Name  string
	Value bool
}

type DateTimeControl struct {
	Name  string
	Value time.Time
}

type LookupItem struct {
	Name  string
	Value string
}

// Setter is implemented by anything that holds editable fields.
type Setter interface {
	SetValue(ctx context.Context, name, value string) error
	SetOptionSet(ctx context.Context, field OptionSet) error
	SetMultiOptionSet(ctx context.Context, field MultiValueOptionSet, removeExisting bool) error
	SetBoolean(ctx context.Context, field BooleanItem) error
	SetDateTime(ctx context.Context, field DateTimeControl) error
	SetLookup(ctx context.Context, field LookupItem) error
}

// Set parses value according to fieldType and forwards it to s. Tags that
// need no conversion (text, numeric, currency) and unknown tags are set as
// plain text.
func Set(ctx context.Context, s Setter, name, value string, fieldType Type) error {
	switch fieldType {
	case TypeMultiOptionSet:
		return s.SetMultiOptionSet(ctx, MultiValueOptionSet{Name: name, Values: SplitValues(value)}, true)
	case TypeOptionSet:
		return s.SetOptionSet(ctx, OptionSet{Name: name, Value: value})
	case TypeBoolean:
		b, err := ParseBool(value)
		if err != nil {
			return fmt.Errorf("field '%s': %w", name, err)
		}
		return s.SetBoolean(ctx, BooleanItem{Name: name, Value: b})
	case TypeDateTime:
		dt, err := ParseDateTime(value)
		if err != nil {
			return fmt.Errorf("field '%s': %w", name, err)
		}
		return s.SetDateTime(ctx, DateTimeControl{Name: name, Value: dt})
	case TypeLookup:
		return s.SetLookup(ctx, LookupItem{Name: name, Value: value})
	default:
		return s.SetValue(ctx, name, value)
	}
}

// ParseBool accepts "true" or "false" in any case, ignoring surrounding space.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("'%s' is not a valid boolean", s)
}

// Day-first layouts are tried before ISO forms, so 03/04/2024 is 3 April.
var dateTimeLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/06 15:04",
	"02/01/06",
	"2 January 2006 15:04",
	"2 January 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses a date or date-time as written in a test step.
func ParseDateTime(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("'%s' is not a valid date or date-time", s)
}

// SplitValues splits a comma separated list, trimming each entry.
func SplitValues(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
