package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const (
	siteMapLauncherButton = "//button[@data-lp-id='sitemap-launcher']"
	siteMapMenuGroup      = "//ul[@role='group']"
	siteMapMenuItems      = ".//li[@role='treeitem']"
)

// NavigationSteps covers the site map, global search, quick create launcher
// and sign out.
type NavigationSteps struct {
	StepDefiner
}

func (n *NavigationSteps) Register(sc ScenarioContext) {
	sc.Step(`^I open the sub area '(.*)' under the '(.*)' area$`, n.iOpenTheSubAreaUnderTheArea)
	sc.Step(`^I open global search$`, n.iOpenGlobalSearch)
	sc.Step(`^I open the '(.*)' area$`, n.iOpenTheArea)
	sc.Step(`^I open the '(.*)' sub area of the '(.*)' group$`, n.iOpenTheSubAreaOfTheGroup)
	sc.Step(`^I open the '(.*)' sub area under the '(.*)' group$`, n.iOpenTheSubAreaOfTheGroupManually)
	sc.Step(`^I open a quick create for the '(.*)' entity$`, n.iOpenAQuickCreateForTheEntity)
	sc.Step(`^I sign out$`, n.iSignOut)
	sc.Step(`^I see the '(.*)' area$`, n.iSeeTheArea)
	sc.Step(`^I see the '(.*)' subarea$`, n.iSeeTheSubArea)
	sc.Step(`^I see the '(.*)' group$`, n.iSeeTheGroup)
}

func (n *NavigationSteps) iOpenTheSubAreaUnderTheArea(ctx context.Context, subArea, area string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().OpenSubArea(ctx, area, subArea)
}

func (n *NavigationSteps) iOpenGlobalSearch(ctx context.Context) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().OpenGlobalSearch(ctx)
}

func (n *NavigationSteps) iOpenTheArea(ctx context.Context, area string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().OpenArea(ctx, area)
}

func (n *NavigationSteps) iOpenTheSubAreaOfTheGroup(ctx context.Context, subArea, group string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().OpenGroupSubArea(ctx, group, subArea)
}

// iOpenTheSubAreaOfTheGroupManually walks the site map itself, matching group
// and sub area names case-insensitively.
func (n *NavigationSteps) iOpenTheSubAreaOfTheGroupManually(ctx context.Context, subArea, group string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}

	launcher := xrm.XPath(siteMapLauncherButton)
	hasLauncher, err := s.Driver.HasElement(ctx, launcher)
	if err != nil {
		return err
	}
	if hasLauncher {
		el, err := s.Driver.FindElement(ctx, launcher)
		if err != nil {
			return err
		}
		if el.Attribute("aria-expanded") != "true" {
			if err := s.Driver.ClickWhenAvailable(ctx, launcher); err != nil {
				return err
			}
		}
	}

	groups, err := s.Driver.FindElements(ctx, xrm.XPath(siteMapMenuGroup))
	if err != nil {
		return err
	}
	groupList := firstWithAttribute(groups, "aria-label", group)
	if groupList == nil {
		return xrm.NotFoundf("No group with the name '%s' exists", group)
	}

	items, err := groupList.FindElements(ctx, xrm.XPath(siteMapMenuItems))
	if err != nil {
		return err
	}
	item := firstWithAttribute(items, "data-text", subArea)
	if item == nil {
		return xrm.NotFoundf("No subarea with the name '%s' exists inside of '%s'", subArea, group)
	}

	n.logger.Debug("Opening sub area", zap.String("group", group), zap.String("subArea", subArea))
	if err := item.Click(ctx); err != nil {
		return err
	}
	if err := s.Driver.WaitForPageToLoad(ctx); err != nil {
		return err
	}
	return s.Driver.WaitForTransaction(ctx)
}

func firstWithAttribute(els []xrm.Element, attr, want string) xrm.Element {
	for _, el := range els {
		if strings.EqualFold(el.Attribute(attr), want) {
			return el
		}
	}
	return nil
}

func (n *NavigationSteps) iOpenAQuickCreateForTheEntity(ctx context.Context, entity string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().QuickCreate(ctx, entity)
}

func (n *NavigationSteps) iSignOut(ctx context.Context) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	return s.App.Navigation().SignOut(ctx)
}

func (n *NavigationSteps) iSeeTheArea(ctx context.Context, area string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	el, err := s.Driver.WaitUntilAvailable(ctx, xrm.ID("areaSwitcherContainer"))
	if err != nil {
		return err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Contains, text, area, "area switcher does not show '%s'", area)
}

func (n *NavigationSteps) iSeeTheSubArea(ctx context.Context, subArea string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	_, err = s.Driver.WaitUntilAvailable(ctx, xrm.XPath(fmt.Sprintf("//img[@title=%s]", xrm.Literal(subArea))))
	return err
}

func (n *NavigationSteps) iSeeTheGroup(ctx context.Context, group string) error {
	s, err := n.scenario(ctx)
	if err != nil {
		return err
	}
	id := "sitemap-sitemapAreaGroup-" + strings.ReplaceAll(group, " ", "")
	el, err := s.Driver.WaitUntilAvailable(ctx, xrm.XPath(fmt.Sprintf("//h3[@data-id=%s]", xrm.Literal(id))))
	if err != nil {
		return err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	return assertExpectedAndActual(assert.Contains, text, group, "group heading does not show '%s'", group)
}
