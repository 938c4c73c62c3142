package uci

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp/kb"
	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

// blankOption is the label of the empty choice in an option set.
const blankOption = "---"

type quickCreate struct {
	form
}

var _ xrm.QuickCreate = (*quickCreate)(nil)

func (q *quickCreate) Save(ctx context.Context) error {
	if err := q.a.s.ClickWhenAvailable(ctx, xrm.XPath(quickCreateSave)); err != nil {
		return err
	}
	return q.closed(ctx)
}

func (q *quickCreate) Cancel(ctx context.Context) error {
	if err := q.a.s.ClickWhenAvailable(ctx, xrm.XPath(quickCreateCancel)); err != nil {
		return err
	}
	return q.closed(ctx)
}

// closed waits for the panel to leave the page.
func (q *quickCreate) closed(ctx context.Context) error {
	if err := q.a.s.Run(ctx, dom.WaitHiddenAction(quickCreateRoot)); err != nil {
		return fmt.Errorf("quick create panel did not close: %w", err)
	}
	return q.a.s.WaitForTransaction(ctx)
}

func (q *quickCreate) ClearValue(ctx context.Context, name string) error {
	input := q.xpath(fieldTextInput, name)
	return q.run(ctx, name,
		dom.ClickAction(input),
		dom.ClearAction(input),
		dom.TypeAction(input, kb.Tab),
	)
}

func (q *quickCreate) ClearOptionSet(ctx context.Context, field fields.OptionSet) error {
	return q.run(ctx, field.Name, dom.SelectOptionByTextAction(q.xpath(fieldOptionSetSelect, field.Name), blankOption))
}

func (q *quickCreate) ClearLookup(ctx context.Context, field fields.LookupItem) error {
	return q.clearLookup(ctx, field.Name)
}

func (q *quickCreate) GetValue(ctx context.Context, name string) (string, error) {
	var value string
	if err := q.a.s.Run(ctx, dom.ValueAction(q.xpath(fieldTextInput, name), &value)); err != nil {
		return "", fmt.Errorf("field '%s': %w", name, err)
	}
	return value, nil
}

func (q *quickCreate) GetOptionSet(ctx context.Context, field fields.OptionSet) (string, error) {
	var label string
	if err := q.a.s.Run(ctx, dom.SelectedOptionTextAction(q.xpath(fieldOptionSetSelect, field.Name), &label)); err != nil {
		return "", fmt.Errorf("field '%s': %w", field.Name, err)
	}
	if label == blankOption {
		return "", nil
	}
	return label, nil
}

// GetLookup returns the name of the selected record, or "" when empty.
func (q *quickCreate) GetLookup(ctx context.Context, field fields.LookupItem) (string, error) {
	selected := xrm.XPath(q.xpath(fieldLookupSelected, field.Name))
	present, err := q.a.s.HasElement(ctx, selected)
	if err != nil || !present {
		return "", err
	}
	el, err := q.a.s.FindElement(ctx, selected)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	return strings.TrimSpace(text), err
}

func (q *quickCreate) GetBoolean(ctx context.Context, field fields.BooleanItem) (bool, error) {
	return q.boolean(ctx, field.Name)
}
