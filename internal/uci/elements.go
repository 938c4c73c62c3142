package uci

import (
	"fmt"

	"github.com/copyleftdev/xrmsteps/internal/xrm"
)

// XPath selectors for the Unified Interface shell. Templates take their
// arguments through xrm.Literal, never raw.
const (
	// Login
	loginUsername       = "//input[@type='email']"
	loginPassword       = "//input[@type='password']"
	loginSubmit         = "//input[@type='submit']"
	loginOneTimeCode    = "//input[@name='otc']"
	loginStaySignedInNo = "//input[@id='idBtn_Back']"
	appShellReady       = "//*[@data-id='topBar']"

	// Dialogs
	confirmDialogConfirm   = "//button[@data-id='confirmButton']"
	confirmDialogCancel    = "//button[@data-id='cancelButton']"
	assignDialogToggle     = "//div[contains(@data-id,'rdoMe_id.fieldControl-checkbox-container')]"
	assignDialogUserLookup = "//input[contains(@data-id,'systemuserview_id.fieldControl-LookupResultsDropdown')]"
	assignDialogTeamToggle = "//button[contains(@data-id,'systemuserview_id.fieldControl-LookupResultsDropdown_systemuserview_id_entityselector')]"
	assignDialogTeamOption = "//li[contains(@data-id,'entityselector') and contains(@aria-label,'Team')]"
	assignDialogResult     = "//ul[contains(@data-id,'systemuserview_id.fieldControl-LookupResultsDropdown')]//li[.//*[contains(text(),%s)]]"
	assignDialogOK         = "//button[contains(@data-id,'ok_id')]"
	closeOpportunityOK     = "//button[@data-id='ok_id']"
	closeOpportunityCancel = "//button[@data-id='cancel_id']"
	warningDialogClose     = "//button[@data-id='dialogCloseIconButton']"
	publishDialogConfirm   = "//button[@data-id='ok_id']"
	publishDialogCancel    = "//button[@data-id='cancel_id']"
	setStateDialogOK       = "//button[@data-id='ok_id']"
	setStateDialogCancel   = "//button[@data-id='cancel_id']"

	// Navigation
	areaSwitcherButton    = "//button[@id='areaSwitcherId']"
	areaSwitcherItem      = "//li[@role='menuitemradio' and .//*[text()=%s]]"
	siteMapLauncherButton = "//button[@data-lp-id='sitemap-launcher']"
	siteMapGroupItem      = "//ul[@role='group' and @aria-label=%s]//li[@role='treeitem' and @data-text=%s]"
	siteMapAreaItem       = "//li[@role='treeitem' and @data-text=%s]"
	globalSearchButton    = "//button[@data-id='search-launch-button']"
	quickCreateLauncher   = "//button[@data-id='quickCreateLauncher']"
	quickCreateMenuItem   = "//button[@role='menuitem' and .//span[text()=%s]]"
	accountManagerButton  = "//button[@id='mectrl_main_trigger']"
	signOutButton         = "//*[@id='mectrl_body_signOut']"

	// Quick create panel
	quickCreateRoot   = "//section[@data-id='quickCreateRoot']"
	quickCreateSave   = "//button[@data-id='quickCreateSaveAndCloseBtn']"
	quickCreateCancel = "//button[@data-id='quickCreateCancelBtn']"

	// Field controls, relative to a scope. %[1]s is the quoted field name
	// prefix, e.g. 'name.fieldControl'.
	fieldTextInput       = "//*[self::input or self::textarea][starts-with(@data-id,%[1]s)]"
	fieldOptionSetSelect = "//select[starts-with(@data-id,%[1]s)]"
	fieldBooleanToggle   = "//*[starts-with(@data-id,%[1]s)][@role='switch' or @role='checkbox' or @type='checkbox']"
	fieldDateInput       = "//input[starts-with(@data-id,%[1]s) and contains(@data-id,'date-time-input')]"
	fieldTimeInput       = "//input[starts-with(@data-id,%[1]s) and contains(@data-id,'timecontrol')]"
	fieldLookupInput     = "//input[starts-with(@data-id,%[1]s) and contains(@data-id,'textInputBox')]"
	fieldLookupResult    = "//ul[starts-with(@data-id,%[1]s)]//li[.//*[contains(text(),%[2]s)]]"
	fieldLookupSelected  = "//div[starts-with(@data-id,%[1]s) and contains(@data-id,'selected_tag_text')]"
	fieldLookupDelete    = "//button[starts-with(@data-id,%[1]s) and contains(@data-id,'selected_tag_delete')]"
	fieldMultiInput      = "//input[starts-with(@data-id,%[1]s) and contains(@data-id,'MultiSelectPicklistControl')]"
	fieldMultiOption     = "//li[starts-with(@data-id,%[1]s) and @aria-label=%[2]s]"
	fieldMultiRemove     = "//button[starts-with(@data-id,%[1]s) and contains(@data-id,'selected-item-remove')]"
)

const (
	appModulesPath = "/api/data/v9.2/appmodules"
	// %s is the JSON-quoted request URL.
	appLookupScript = `fetch(%s, {headers: {Accept: 'application/json'}})
		.then(r => r.ok ? r.json() : {value: []})
		.then(j => j.value.length ? j.value[0].uniquename : '')`
)

func areaItem(area string) string {
	return fmt.Sprintf(areaSwitcherItem, xrm.Literal(area))
}

func groupSubAreaItem(group, subArea string) string {
	return fmt.Sprintf(siteMapGroupItem, xrm.Literal(group), xrm.Literal(subArea))
}

func subAreaItem(subArea string) string {
	return fmt.Sprintf(siteMapAreaItem, xrm.Literal(subArea))
}

func quickCreateItem(entity string) string {
	return fmt.Sprintf(quickCreateMenuItem, xrm.Literal(entity))
}

func assignResult(name string) string {
	return fmt.Sprintf(assignDialogResult, xrm.Literal(name))
}

// field builds a field-control selector under scope.
func field(scope, tmpl, name string, args ...string) string {
	params := []interface{}{fieldControl(name)}
	for _, a := range args {
		params = append(params, xrm.Literal(a))
	}
	return scope + fmt.Sprintf(tmpl, params...)
}

// fieldControl is the data-id prefix shared by every control of a field.
func fieldControl(name string) string {
	return xrm.Literal(name + ".fieldControl")
}
