package steps

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/copyleftdev/xrmsteps/internal/config"
	"github.com/copyleftdev/xrmsteps/internal/fields"
	"github.com/copyleftdev/xrmsteps/internal/testdata"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"github.com/copyleftdev/xrmsteps/internal/xrm/mocks"
	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingContext captures registrations without running anything.
type recordingContext struct {
	exprs []string
}

func (r *recordingContext) Before(godog.BeforeScenarioHook) {}
func (r *recordingContext) After(godog.AfterScenarioHook)   {}
func (r *recordingContext) Step(expr interface{}, _ interface{}) {
	r.exprs = append(r.exprs, expr.(string))
}

type fakeUsers map[string]config.UserConfig

func (f fakeUsers) User(alias string) (config.UserConfig, error) {
	u, ok := f[alias]
	if !ok {
		return config.UserConfig{}, errors.New("no user configured with the alias '" + alias + "'")
	}
	return u, nil
}

type fakeData struct {
	loaded  []string
	created []testdata.Record
}

func (f *fakeData) Load(name string) (testdata.Record, error) {
	f.loaded = append(f.loaded, name)
	return testdata.Record{LogicalName: "account", Fields: map[string]interface{}{"name": name}}, nil
}

func (f *fakeData) Create(_ context.Context, r testdata.Record) (testdata.Reference, error) {
	f.created = append(f.created, r)
	return testdata.Reference{LogicalName: r.LogicalName, ID: "1"}, nil
}

func (f *fakeData) DeleteTestData(context.Context) error { return nil }

type fixture struct {
	app    *mocks.MockApp
	driver *mocks.MockDriver
	data   *fakeData
	ctx    context.Context
}

func newFixture() *fixture {
	f := &fixture{app: mocks.NewMockApp(), driver: mocks.NewMockDriver(), data: &fakeData{}}
	f.ctx = WithScenario(context.Background(), &Scenario{App: f.app, Driver: f.driver, Data: f.data})
	return f
}

func table(rows ...[]string) *godog.Table {
	t := &messages.PickleTable{}
	for _, r := range rows {
		row := &messages.PickleTableRow{}
		for _, v := range r {
			row.Cells = append(row.Cells, &messages.PickleTableCell{Value: v})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestRegister_EachPhraseMatchesOneStep(t *testing.T) {
	rc := &recordingContext{}
	Register(rc, fakeUsers{}, zap.NewNop())

	var patterns []*regexp.Regexp
	for _, e := range rc.exprs {
		patterns = append(patterns, regexp.MustCompile(e))
	}

	phrases := []string{
		"I confirm when presented with the confirmation dialog",
		"I cancel when presented with the confirmation dialog",
		"I assign to me on the assign dialog",
		"I assign to a team named 'Sales' on the assign dialog",
		"I close the opportunity as won",
		"I close the warning dialog",
		"I click cancel on the publish dialog",
		"I click the 'ok' button on the 'approve' custom dialog",
		"I enter 'x' into the 'name' text field on the custom dialog",
		"I enter 'x' into the 'name' multioptionset header field on the custom  dialog",
		"I enter the following into the custom dialog",
		"I click ok on the set state dialog",
		"an alert dialog is displayed",
		"I open the sub area 'Accounts' under the 'Sales' area",
		"I open global search",
		"I open the 'Sales' area",
		"I open the 'Accounts' sub area of the 'Customers' group",
		"I open the 'Accounts' sub area under the 'Customers' group",
		"I open a quick create for the 'contact' entity",
		"I sign out",
		"I see the 'Sales' area",
		"I see the 'Accounts' subarea",
		"I see the 'My Work' group",
		"I enter 'x' into the 'name' lookup field on the quick create",
		"I enter the following into the quick create",
		"I cancel the quick create",
		"I save the quick create",
		"I clear the 'name' datetime field on the quick create",
		"I clear the 'name' optionset field on the quick create",
		"I clear the 'name' lookup field on the quick create",
		"I can see a value of 'x' in the 'name' currency field on the quick create",
		"I can see a value of 'x' in the 'name' optionset field on the quick create",
		"I can see a value of 'x' in the 'name' lookup field on the quick create",
		"I can see a value of 'true' in the 'name' boolean field on the quick create",
		"I am logged in to the 'Sales Hub' app as 'salesperson'",
		"I have created 'an account'",
	}

	for _, p := range phrases {
		var matched []string
		for _, re := range patterns {
			if re.MatchString(p) {
				matched = append(matched, re.String())
			}
		}
		assert.Len(t, matched, 1, "phrase %q matched %v", p, matched)
	}
}

const feature = `Feature: Case management
  Scenario: Triage a case
    Given I am logged in to the 'Customer Service Hub' app as 'agent'
    And I have created 'a case'
    When I open the 'Cases' sub area of the 'Service' group
    And I open a quick create for the 'contact' entity
    And I enter the following into the quick create
      | Value   | Field     | Type    |
      | Jane    | firstname | text    |
      | true    | donotcall | boolean |
    And I save the quick create
    And I enter 'Mail, Phone' into the 'channels' multioptionset field on the custom  dialog
    And I confirm when presented with the confirmation dialog
    And I assign to a user named 'Jane Doe' on the assign dialog
    Then I can see a value of 'false' in the 'donotemail' boolean field on the quick create
`

func TestSteps_FeatureRun(t *testing.T) {
	f := newFixture()
	users := fakeUsers{"agent": {Username: "agent@contoso.com", Password: "pw"}}

	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				return WithScenario(ctx, &Scenario{App: f.app, Driver: f.driver, Data: f.data}), nil
			})
			Register(sc, users, zap.NewNop())
		},
		Options: &godog.Options{
			Format:          "progress",
			Output:          io.Discard,
			Strict:          true,
			TestingT:        t,
			FeatureContents: []godog.Feature{{Name: "cases.feature", Contents: []byte(feature)}},
		},
	}
	require.Equal(t, 0, suite.Run())

	assert.Equal(t, []string{
		"Login",
		"Navigation.OpenApp",
		"Navigation.OpenGroupSubArea",
		"Navigation.QuickCreate",
		"QuickCreate.SetValue",
		"QuickCreate.SetBoolean",
		"QuickCreate.Save",
		"Entity.SetMultiOptionSet",
		"Dialogs.ConfirmationDialog",
		"ThinkTime",
		"Dialogs.Assign",
		"QuickCreate.GetBoolean",
	}, f.app.Methods())

	calls := f.app.Calls()
	assert.Equal(t, []interface{}{xrm.Credentials{Username: "agent@contoso.com", Password: "pw"}}, calls[0].Args)
	assert.Equal(t, []interface{}{"Customer Service Hub"}, calls[1].Args)
	assert.Equal(t, []interface{}{"Service", "Cases"}, calls[2].Args)
	assert.Equal(t, []interface{}{fields.BooleanItem{Name: "donotcall", Value: true}}, calls[5].Args)
	assert.Equal(t, []interface{}{fields.MultiValueOptionSet{Name: "channels", Values: []string{"Mail", "Phone"}}, true}, calls[7].Args)
	assert.Equal(t, []interface{}{confirmationThinkTime}, calls[9].Args)
	assert.Equal(t, []interface{}{xrm.AssignToUser, "Jane Doe"}, calls[10].Args)

	assert.Equal(t, []string{"a case"}, f.data.loaded)
	assert.Len(t, f.data.created, 1)
	assert.Equal(t, []string{"WaitForTransaction"}, f.driver.Actions())
}

func TestSteps_NoScenario(t *testing.T) {
	d := &DialogSteps{StepDefiner{logger: zap.NewNop()}}
	assert.ErrorIs(t, d.iCloseTheWarningDialog(context.Background()), ErrNoScenario)
}

func TestDialogSteps_CustomDialogButton(t *testing.T) {
	f := newFixture()
	button := &mocks.MockElement{}
	f.driver.AddElements("//div[@role='dialog' and @data-id='approve']", &mocks.MockElement{
		Children: map[string][]*mocks.MockElement{".//button[@data-id='ok_id']": {button}},
	})

	d := &DialogSteps{StepDefiner{logger: zap.NewNop()}}
	require.NoError(t, d.iClickTheButtonOnTheCustomDialog(f.ctx, "ok_id", "approve"))

	assert.True(t, button.Clicked())
	assert.Equal(t, []string{
		"Click //div[@role='dialog' and @data-id='approve'] >> .//button[@data-id='ok_id']",
		"WaitForPageToLoad",
		"WaitForTransaction",
	}, f.driver.Actions())

	err := d.iClickTheButtonOnTheCustomDialog(f.ctx, "cancel_id", "approve")
	assert.ErrorIs(t, err, xrm.ErrNotFound)
}

func TestDialogSteps_CustomDialogTable(t *testing.T) {
	f := newFixture()
	d := &DialogSteps{StepDefiner{logger: zap.NewNop()}}

	err := d.iEnterTheFollowingIntoTheCustomDialog(f.ctx, table(
		[]string{"Field", "Value", "Type"},
		[]string{"reason", "Duplicate", "optionset"},
		[]string{"notes", "closed", "text"},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"Entity.SetOptionSet", "Entity.SetValue"}, f.app.Methods())
	assert.Equal(t, []string{"WaitForTransaction", "WaitForTransaction"}, f.driver.Actions())

	assert.Error(t, d.iEnterTheFollowingIntoTheCustomDialog(f.ctx, nil))
}

func TestDialogSteps_AlertDialog(t *testing.T) {
	f := newFixture()
	d := &DialogSteps{StepDefiner{logger: zap.NewNop()}}

	assert.ErrorIs(t, d.anAlertDialogIsDisplayed(f.ctx), xrm.ErrNotFound)

	f.driver.AddElements(alertDialog, &mocks.MockElement{})
	assert.NoError(t, d.anAlertDialogIsDisplayed(f.ctx))
}

func TestDialogSteps_ConfirmationErrorSkipsThinkTime(t *testing.T) {
	f := newFixture()
	f.app.SetError("Dialogs.ConfirmationDialog", errors.New("no dialog"))
	d := &DialogSteps{StepDefiner{logger: zap.NewNop()}}

	assert.EqualError(t, d.iAnswerTheConfirmationDialog(f.ctx, "cancel"), "no dialog")
	assert.Equal(t, []string{"Dialogs.ConfirmationDialog"}, f.app.Methods())
}

func siteMap() *mocks.MockElement {
	return &mocks.MockElement{
		Attributes: map[string]string{"aria-label": "Customers"},
		Children: map[string][]*mocks.MockElement{
			siteMapMenuItems: {
				{Attributes: map[string]string{"data-text": "Contacts"}},
				{Attributes: map[string]string{"data-text": "Accounts"}},
			},
		},
	}
}

func TestNavigationSteps_ManualSubArea(t *testing.T) {
	f := newFixture()
	f.driver.AddElements(siteMapLauncherButton, &mocks.MockElement{Attributes: map[string]string{"aria-expanded": "false"}})
	group := siteMap()
	f.driver.AddElements(siteMapMenuGroup, &mocks.MockElement{Attributes: map[string]string{"aria-label": "My Work"}}, group)

	n := &NavigationSteps{StepDefiner{logger: zap.NewNop()}}
	require.NoError(t, n.iOpenTheSubAreaOfTheGroupManually(f.ctx, "accounts", "CUSTOMERS"))

	assert.True(t, group.Children[siteMapMenuItems][1].Clicked())
	assert.False(t, group.Children[siteMapMenuItems][0].Clicked())
	assert.Equal(t, []string{
		"Click " + siteMapLauncherButton,
		"Click " + siteMapMenuGroup + " >> " + siteMapMenuItems,
		"WaitForPageToLoad",
		"WaitForTransaction",
	}, f.driver.Actions())
}

func TestNavigationSteps_ManualSubAreaExpandedLauncher(t *testing.T) {
	f := newFixture()
	launcher := &mocks.MockElement{Attributes: map[string]string{"aria-expanded": "true"}}
	f.driver.AddElements(siteMapLauncherButton, launcher)
	f.driver.AddElements(siteMapMenuGroup, siteMap())

	n := &NavigationSteps{StepDefiner{logger: zap.NewNop()}}
	require.NoError(t, n.iOpenTheSubAreaOfTheGroupManually(f.ctx, "Contacts", "Customers"))
	assert.False(t, launcher.Clicked())
}

func TestNavigationSteps_ManualSubAreaNotFound(t *testing.T) {
	f := newFixture()
	f.driver.AddElements(siteMapMenuGroup, siteMap())
	n := &NavigationSteps{StepDefiner{logger: zap.NewNop()}}

	err := n.iOpenTheSubAreaOfTheGroupManually(f.ctx, "Accounts", "Service")
	assert.ErrorIs(t, err, xrm.ErrNotFound)
	assert.EqualError(t, err, "not found: No group with the name 'Service' exists")

	err = n.iOpenTheSubAreaOfTheGroupManually(f.ctx, "Leads", "Customers")
	assert.ErrorIs(t, err, xrm.ErrNotFound)
	assert.EqualError(t, err, "not found: No subarea with the name 'Leads' exists inside of 'Customers'")
}

func TestNavigationSteps_SeeChecks(t *testing.T) {
	f := newFixture()
	f.driver.AddElements("//*[@id='areaSwitcherContainer']", &mocks.MockElement{TextValue: "Sales area"})
	f.driver.AddElements("//h3[@data-id='sitemap-sitemapAreaGroup-MyWork']", &mocks.MockElement{TextValue: "My Work"})
	f.driver.AddElements("//img[@title='Accounts']", &mocks.MockElement{})
	n := &NavigationSteps{StepDefiner{logger: zap.NewNop()}}

	assert.NoError(t, n.iSeeTheArea(f.ctx, "Sales"))
	assert.Error(t, n.iSeeTheArea(f.ctx, "Service"))
	assert.NoError(t, n.iSeeTheGroup(f.ctx, "My Work"))
	assert.NoError(t, n.iSeeTheSubArea(f.ctx, "Accounts"))
	assert.ErrorIs(t, n.iSeeTheSubArea(f.ctx, "Leads"), xrm.ErrNotFound)
}

func TestQuickCreateSteps_Values(t *testing.T) {
	f := newFixture()
	f.app.SetFieldValue("name", "Contoso")
	f.app.SetBooleanValue("donotcall", true)
	q := &QuickCreateSteps{StepDefiner{logger: zap.NewNop()}}

	assert.NoError(t, q.iCanSeeAValueInTheQuickCreateField(f.ctx, "Contoso", "name"))
	err := q.iCanSeeAValueInTheQuickCreateField(f.ctx, "Fabrikam", "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value of 'name'")

	assert.NoError(t, q.iCanSeeAValueInTheQuickCreateBooleanField(f.ctx, "true", "donotcall"))
	assert.Error(t, q.iCanSeeAValueInTheQuickCreateBooleanField(f.ctx, "false", "donotcall"))
}

func TestQuickCreateSteps_EnterTemplatedValue(t *testing.T) {
	f := newFixture()
	q := &QuickCreateSteps{StepDefiner{logger: zap.NewNop()}}

	require.NoError(t, q.iEnterInTheQuickCreateField(f.ctx, "{{ today | addDays 1 }}", "duedate", "datetime"))

	calls := f.app.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "QuickCreate.SetDateTime", calls[0].Method)
	dt := calls[0].Args[0].(fields.DateTimeControl)
	assert.Equal(t, "duedate", dt.Name)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), dt.Value, 25*time.Hour)
}

func TestQuickCreateSteps_InvalidBoolean(t *testing.T) {
	f := newFixture()
	q := &QuickCreateSteps{StepDefiner{logger: zap.NewNop()}}

	err := q.iEnterInTheQuickCreateField(f.ctx, "yes", "donotcall", "boolean")
	assert.Error(t, err)
	assert.Empty(t, f.app.Methods())
}

func TestQuickCreateSteps_Clear(t *testing.T) {
	f := newFixture()
	q := &QuickCreateSteps{StepDefiner{logger: zap.NewNop()}}

	require.NoError(t, q.iClearTheQuickCreateField(f.ctx, "name"))
	require.NoError(t, q.iClearTheQuickCreateOptionSetField(f.ctx, "statuscode"))
	require.NoError(t, q.iClearTheQuickCreateLookupField(f.ctx, "parentaccountid"))

	assert.Equal(t, []string{"QuickCreate.ClearValue", "QuickCreate.ClearOptionSet", "QuickCreate.ClearLookup"}, f.app.Methods())
	assert.Equal(t, []interface{}{fields.OptionSet{Name: "statuscode"}}, f.app.Calls()[1].Args)
}

func TestLoginSteps_UnknownUser(t *testing.T) {
	f := newFixture()
	l := &LoginSteps{StepDefiner: StepDefiner{logger: zap.NewNop()}, users: fakeUsers{}}

	err := l.iAmLoggedInToTheAppAs(f.ctx, "Sales Hub", "nobody")
	assert.EqualError(t, err, "no user configured with the alias 'nobody'")
	assert.Empty(t, f.app.Methods())
}

func TestLoginSteps_LoginFailure(t *testing.T) {
	f := newFixture()
	f.app.SetError("Login", errors.New("bad password"))
	l := &LoginSteps{StepDefiner: StepDefiner{logger: zap.NewNop()}, users: fakeUsers{"admin": {Username: "a"}}}

	err := l.iAmLoggedInToTheAppAs(f.ctx, "Sales Hub", "admin")
	assert.EqualError(t, err, "failed to log in as 'admin': bad password")
	assert.Equal(t, []string{"Login"}, f.app.Methods())
}

func TestTableRows(t *testing.T) {
	_, err := tableRows(nil)
	assert.Error(t, err)

	_, err = tableRows(table())
	assert.EqualError(t, err, "data table has no header row")

	_, err = tableRows(table([]string{"Field", "Value"}))
	assert.EqualError(t, err, "table is missing the 'Type' column")

	rows, err := tableRows(table([]string{"Type", "Field", "Value"}, []string{"text", "name", "Contoso"}))
	require.NoError(t, err)
	assert.Equal(t, []fields.Row{{Field: "name", Value: "Contoso", Type: fields.TypeText}}, rows)
}
