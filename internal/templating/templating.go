// Package templating renders {{ ... }} expressions embedded in step values and
// data files, e.g. '{{ today | addDays 7 }}' or '{{ now | format "2006-01-02" }}'.
package templating

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// Clock is replaceable in tests.
var Clock = time.Now

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

// Stamp is a point in time that prints in the layout step values are parsed with.
type Stamp struct {
	time.Time
	layout string
}

func (s Stamp) String() string { return s.Format(s.layout) }

// Layouts is the pair of layouts "today" and "now" print with.
type Layouts struct {
	Date     string
	DateTime string
}

var (
	// StepLayouts match what field values in steps are parsed with.
	StepLayouts = Layouts{Date: DateLayout, DateTime: DateTimeLayout}
	// ISOLayouts suit values sent to the Web API.
	ISOLayouts = Layouts{Date: "2006-01-02", DateTime: time.RFC3339}
)

func funcs(l Layouts) template.FuncMap {
	return template.FuncMap{
		"now": func() Stamp { return Stamp{Clock(), l.DateTime} },
		"today": func() Stamp {
			n := Clock()
			return Stamp{time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location()), l.Date}
		},
		"addDays":   addDays,
		"addMonths": addMonths,
		"addHours":  addHours,
		"format":    format,
		"uuid":      uuid.NewString,
		"env":       os.Getenv,
	}
}

func addDays(days int, s Stamp) Stamp     { return Stamp{s.AddDate(0, 0, days), s.layout} }
func addMonths(months int, s Stamp) Stamp { return Stamp{s.AddDate(0, months, 0), s.layout} }
func addHours(hours int, s Stamp) Stamp {
	return Stamp{s.Add(time.Duration(hours) * time.Hour), s.layout}
}
func format(layout string, s Stamp) string { return s.Format(layout) }

var (
	stepFuncs = funcs(StepLayouts)
	isoFuncs  = funcs(ISOLayouts)
)

// Replace renders s when it contains a template action and returns it
// unchanged otherwise. Dates print day-first.
func Replace(s string) (string, error) {
	return render(s, stepFuncs)
}

// ReplaceISO is Replace with "today" and "now" printed as ISO-8601.
func ReplaceISO(s string) (string, error) {
	return render(s, isoFuncs)
}

func render(s string, fm template.FuncMap) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	tmpl, err := template.New("value").Funcs(fm).Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid template '%s': %w", s, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, nil); err != nil {
		return "", fmt.Errorf("failed to render template '%s': %w", s, err)
	}
	return b.String(), nil
}
