package uci

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// form edits the field controls under scope. The empty scope is the whole
// page, which covers the record form and any custom dialog over it.
type form struct {
	a     *App
	scope string
}

var _ xrm.Entity = (*form)(nil)

func (f *form) xpath(tmpl, name string, args ...string) string {
	return field(f.scope, tmpl, name, args...)
}

// run executes actions against a field and waits for the form's on-change
// work to finish.
func (f *form) run(ctx context.Context, name string, actions ...chromedp.Action) error {
	if err := f.a.s.Run(ctx, actions...); err != nil {
		return fmt.Errorf("field '%s': %w", name, err)
	}
	return f.a.s.WaitForTransaction(ctx)
}

func (f *form) SetValue(ctx context.Context, name, value string) error {
	input := f.xpath(fieldTextInput, name)
	return f.run(ctx, name,
		dom.ClickAction(input),
		dom.ClearAction(input),
		dom.TypeAction(input, value+kb.Tab),
	)
}

func (f *form) SetOptionSet(ctx context.Context, field fields.OptionSet) error {
	return f.run(ctx, field.Name, dom.SelectOptionByTextAction(f.xpath(fieldOptionSetSelect, field.Name), field.Value))
}

func (f *form) SetMultiOptionSet(ctx context.Context, field fields.MultiValueOptionSet, removeExisting bool) error {
	if removeExisting {
		if err := f.removeSelected(ctx, field.Name); err != nil {
			return err
		}
	}

	input := f.xpath(fieldMultiInput, field.Name)
	for _, v := range field.Values {
		if err := f.run(ctx, field.Name,
			dom.ClickAction(input),
			dom.TypeAction(input, v),
			dom.ClickAction(f.xpath(fieldMultiOption, field.Name, v)),
		); err != nil {
			return err
		}
	}
	return f.run(ctx, field.Name, dom.TypeAction(input, kb.Escape))
}

// removeSelected clears a multi-select by removing its tags one at a time.
func (f *form) removeSelected(ctx context.Context, name string) error {
	remove := xrm.XPath(f.xpath(fieldMultiRemove, name))
	selected, err := f.a.s.FindElements(ctx, remove)
	if err != nil {
		return err
	}
	for range selected {
		if err := f.a.s.ClickWhenAvailable(ctx, remove); err != nil {
			return fmt.Errorf("field '%s': %w", name, err)
		}
	}
	return nil
}

func (f *form) SetBoolean(ctx context.Context, field fields.BooleanItem) error {
	current, err := f.boolean(ctx, field.Name)
	if err != nil {
		return err
	}
	if current == field.Value {
		return nil
	}
	return f.run(ctx, field.Name, dom.ClickAction(f.xpath(fieldBooleanToggle, field.Name)))
}

func (f *form) boolean(ctx context.Context, name string) (bool, error) {
	toggle := f.xpath(fieldBooleanToggle, name)

	var checked string
	var ok bool
	if err := f.a.s.Run(ctx, dom.AttributeAction(toggle, "aria-checked", &checked, &ok)); err != nil {
		return false, fmt.Errorf("field '%s': %w", name, err)
	}
	if !ok {
		if err := f.a.s.Run(ctx, dom.AttributeAction(toggle, "checked", &checked, &ok)); err != nil {
			return false, fmt.Errorf("field '%s': %w", name, err)
		}
		return ok, nil
	}
	return checked == "true", nil
}

func (f *form) SetDateTime(ctx context.Context, field fields.DateTimeControl) error {
	date := f.xpath(fieldDateInput, field.Name)
	actions := []chromedp.Action{
		dom.ClickAction(date),
		dom.ClearAction(date),
		dom.TypeAction(date, field.Value.Format(dateLayout)+kb.Tab),
	}

	timeInput := f.xpath(fieldTimeInput, field.Name)
	hasTime, err := f.a.s.HasElement(ctx, xrm.XPath(timeInput))
	if err != nil {
		return err
	}
	if hasTime {
		actions = append(actions,
			dom.ClickAction(timeInput),
			dom.ClearAction(timeInput),
			dom.TypeAction(timeInput, field.Value.Format(timeLayout)+kb.Tab),
		)
	}
	return f.run(ctx, field.Name, actions...)
}

func (f *form) SetLookup(ctx context.Context, field fields.LookupItem) error {
	if err := f.clearLookup(ctx, field.Name); err != nil {
		return err
	}
	if field.Value == "" {
		return nil
	}

	input := f.xpath(fieldLookupInput, field.Name)
	if err := f.a.s.Run(ctx,
		dom.ClickAction(input),
		dom.TypeAction(input, field.Value),
	); err != nil {
		return fmt.Errorf("field '%s': %w", field.Name, err)
	}
	if err := f.a.s.ClickWhenAvailable(ctx, xrm.XPath(f.xpath(fieldLookupResult, field.Name, field.Value))); err != nil {
		return fmt.Errorf("no '%s' record in lookup '%s': %w", field.Value, field.Name, err)
	}
	return f.a.s.WaitForTransaction(ctx)
}

func (f *form) clearLookup(ctx context.Context, name string) error {
	remove := xrm.XPath(f.xpath(fieldLookupDelete, name))
	present, err := f.a.s.HasElement(ctx, remove)
	if err != nil || !present {
		return err
	}
	if err := f.a.s.ClickWhenAvailable(ctx, remove); err != nil {
		return fmt.Errorf("field '%s': %w", name, err)
	}
	return f.a.s.WaitForTransaction(ctx)
}
