package uci

import (
	"context"
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

type dialogs struct {
	a *App
}

// clickThrough clicks xpath and waits for the app to settle.
func (d *dialogs) clickThrough(ctx context.Context, xpath string) error {
	if err := d.a.s.ClickWhenAvailable(ctx, xrm.XPath(xpath)); err != nil {
		return err
	}
	return d.a.s.WaitForTransaction(ctx)
}

func (d *dialogs) ConfirmationDialog(ctx context.Context, confirm bool) error {
	if confirm {
		return d.clickThrough(ctx, confirmDialogConfirm)
	}
	return d.clickThrough(ctx, confirmDialogCancel)
}

func (d *dialogs) Assign(ctx context.Context, to xrm.AssignTo, name string) error {
	if _, err := d.a.s.WaitUntilAvailable(ctx, xrm.XPath(assignDialogOK)); err != nil {
		return fmt.Errorf("assign dialog is not open: %w", err)
	}

	switch to {
	case xrm.AssignToMe:
	case xrm.AssignToUser, xrm.AssignToTeam:
		if err := d.a.s.ClickWhenAvailable(ctx, xrm.XPath(assignDialogToggle)); err != nil {
			return err
		}
		if to == xrm.AssignToTeam {
			if err := d.a.s.Run(ctx,
				dom.ClickAction(assignDialogTeamToggle),
				dom.ClickAction(assignDialogTeamOption),
			); err != nil {
				return fmt.Errorf("failed to switch the assign lookup to teams: %w", err)
			}
		}
		if err := d.a.s.Run(ctx,
			dom.ClickAction(assignDialogUserLookup),
			dom.TypeAction(assignDialogUserLookup, name),
		); err != nil {
			return err
		}
		if err := d.a.s.ClickWhenAvailable(ctx, xrm.XPath(assignResult(name))); err != nil {
			return fmt.Errorf("no %s named '%s' in the assign lookup: %w", to, name, err)
		}
	default:
		return fmt.Errorf("unsupported assignee type %s", to)
	}

	return d.clickThrough(ctx, assignDialogOK)
}

// CloseOpportunity confirms the close dialog for a won opportunity and
// dismisses it otherwise.
func (d *dialogs) CloseOpportunity(ctx context.Context, won bool) error {
	if won {
		return d.clickThrough(ctx, closeOpportunityOK)
	}
	return d.clickThrough(ctx, closeOpportunityCancel)
}

func (d *dialogs) CloseWarningDialog(ctx context.Context) error {
	return d.clickThrough(ctx, warningDialogClose)
}

func (d *dialogs) PublishDialog(ctx context.Context, confirm bool) error {
	if confirm {
		return d.clickThrough(ctx, publishDialogConfirm)
	}
	return d.clickThrough(ctx, publishDialogCancel)
}

func (d *dialogs) SetStateDialog(ctx context.Context, ok bool) error {
	if ok {
		return d.clickThrough(ctx, setStateDialogOK)
	}
	return d.clickThrough(ctx, setStateDialogCancel)
}
