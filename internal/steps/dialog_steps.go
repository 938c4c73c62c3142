package steps

import (
	"context"
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const alertDialog = "//div[@data-id='alertdialog']"

// DialogSteps covers the standard and custom dialogs.
type DialogSteps struct {
	StepDefiner
}

func (d *DialogSteps) Register(sc ScenarioContext) {
	sc.Step(`^I (confirm|cancel) when presented with the confirmation dialog$`, d.iAnswerTheConfirmationDialog)
	sc.Step(`^I assign to me on the assign dialog$`, d.iAssignToMe)
	sc.Step(`^I assign to a (user|team) named '(.*)' on the assign dialog$`, d.iAssignToA)
	sc.Step(`^I close the opportunity as (won|lost)$`, d.iCloseTheOpportunity)
	sc.Step(`^I close the warning dialog$`, d.iCloseTheWarningDialog)
	sc.Step(`^I click (confirm|cancel) on the publish dialog$`, d.iClickOnThePublishDialog)
	sc.Step(`^I click the '(.*)' button on the '(.*)' custom dialog$`, d.iClickTheButtonOnTheCustomDialog)
	sc.Step(`^I enter '(.*)' into the '(.*)' (text|optionset|multioptionset|boolean|numeric|currency|datetime|lookup) (?:field|header field) on the custom +dialog$`, d.iEnterIntoTheCustomDialogField)
	sc.Step(`^I enter the following into the custom dialog$`, d.iEnterTheFollowingIntoTheCustomDialog)
	sc.Step(`^I click (ok|cancel) on the set state dialog$`, d.iClickOnTheSetStateDialog)
	sc.Step(`^an alert dialog is displayed$`, d.anAlertDialogIsDisplayed)
}

func (d *DialogSteps) iAnswerTheConfirmationDialog(ctx context.Context, option string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	if err := s.App.Dialogs().ConfirmationDialog(ctx, option == "confirm"); err != nil {
		return err
	}
	return s.App.ThinkTime(ctx, confirmationThinkTime)
}

func (d *DialogSteps) iAssignToMe(ctx context.Context) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Dialogs().Assign(ctx, xrm.AssignToMe, "")
}

func (d *DialogSteps) iAssignToA(ctx context.Context, assignTo, name string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	to, err := xrm.ParseAssignTo(assignTo)
	if err != nil {
		return err
	}
	return s.App.Dialogs().Assign(ctx, to, name)
}

func (d *DialogSteps) iCloseTheOpportunity(ctx context.Context, status string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Dialogs().CloseOpportunity(ctx, status == "won")
}

func (d *DialogSteps) iCloseTheWarningDialog(ctx context.Context) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Dialogs().CloseWarningDialog(ctx)
}

func (d *DialogSteps) iClickOnThePublishDialog(ctx context.Context, option string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Dialogs().PublishDialog(ctx, option == "confirm")
}

func (d *DialogSteps) iClickTheButtonOnTheCustomDialog(ctx context.Context, button, dialog string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}

	el, err := s.Driver.FindElement(ctx, xrm.XPath(fmt.Sprintf("//div[@role='dialog' and @data-id=%s]", xrm.Literal(dialog))))
	if err != nil {
		return err
	}
	child, err := el.FindElement(ctx, xrm.XPath(fmt.Sprintf(".//button[@data-id=%s]", xrm.Literal(button))))
	if err != nil {
		return err
	}
	if err := child.Click(ctx); err != nil {
		return err
	}

	d.logger.Debug("Clicked custom dialog button", zap.String("dialog", dialog), zap.String("button", button))
	if err := s.Driver.WaitForPageToLoad(ctx); err != nil {
		return err
	}
	return s.Driver.WaitForTransaction(ctx)
}

func (d *DialogSteps) iEnterIntoTheCustomDialogField(ctx context.Context, value, name, fieldType string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	if err := setField(ctx, s.App.Entity(), name, value, fields.Type(fieldType)); err != nil {
		return err
	}
	return s.Driver.WaitForTransaction(ctx)
}

func (d *DialogSteps) iEnterTheFollowingIntoTheCustomDialog(ctx context.Context, table *godog.Table) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	rows, err := tableRows(table)
	if err != nil {
		return err
	}
	return setRows(ctx, s.App.Entity(), rows, s.Driver.WaitForTransaction)
}

func (d *DialogSteps) iClickOnTheSetStateDialog(ctx context.Context, option string) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Dialogs().SetStateDialog(ctx, option == "ok")
}

func (d *DialogSteps) anAlertDialogIsDisplayed(ctx context.Context) error {
	s, err := d.scenario(ctx)
	if err != nil {
		return err
	}
	el, err := s.Driver.FindElement(ctx, xrm.XPath(alertDialog))
	if err != nil {
		return err
	}
	return assertActual(assert.NotNil, el, "expected an alert dialog")
}
