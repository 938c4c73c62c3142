package uci

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/copyleftdev/xrmsteps/internal/dom"
	"github.com/copyleftdev/xrmsteps/internal/xrm"
	"go.uber.org/zap"
)

type navigation struct {
	a *App
}

// settle waits for a navigation to finish loading and for the app to go idle.
func (n *navigation) settle(ctx context.Context) error {
	if err := n.a.s.WaitForPageToLoad(ctx); err != nil {
		return err
	}
	return n.a.s.WaitForTransaction(ctx)
}

// OpenApp opens an app by display name or unique name. Display names are
// resolved to the app module's unique name through the Web API; a name with
// no matching app module is used as the unique name itself.
func (n *navigation) OpenApp(ctx context.Context, appName string) error {
	uniqueName, err := n.resolveApp(ctx, appName)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("failed to open app '%s': %w", appName, err)
		}
		n.a.logger.Debug("App lookup failed, using name as is", zap.String("app", appName), zap.Error(err))
	}
	if uniqueName == "" {
		uniqueName = appName
	}

	target := n.a.baseURL + "/main.aspx?appname=" + url.QueryEscape(uniqueName)
	n.a.logger.Info("Opening app", zap.String("app", appName), zap.String("uniqueName", uniqueName))

	if err := n.a.s.Navigate(ctx, target); err != nil {
		return fmt.Errorf("failed to open app '%s': %w", appName, err)
	}
	if err := n.settle(ctx); err != nil {
		return err
	}
	if _, err := n.a.s.WaitUntilAvailable(ctx, xrm.XPath(appShellReady)); err != nil {
		return fmt.Errorf("app '%s' did not load: %w", appName, err)
	}
	return nil
}

// resolveApp looks up the unique name of the app module displayed as name.
// It returns "" when there is none.
func (n *navigation) resolveApp(ctx context.Context, name string) (string, error) {
	filter := fmt.Sprintf("name eq '%s'", strings.ReplaceAll(name, "'", "''"))
	query := appModulesPath + "?$select=uniquename&$filter=" + strings.ReplaceAll(url.QueryEscape(filter), "+", "%20")
	quoted, err := json.Marshal(n.a.baseURL + query)
	if err != nil {
		return "", err
	}

	script := fmt.Sprintf(appLookupScript, quoted)
	var uniqueName string
	if err := n.a.s.Evaluate(ctx, script, &uniqueName); err != nil {
		return "", err
	}
	return uniqueName, nil
}

func (n *navigation) OpenArea(ctx context.Context, area string) error {
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(areaSwitcherButton)); err != nil {
		return err
	}
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(areaItem(area))); err != nil {
		return fmt.Errorf("no area named '%s': %w", area, err)
	}
	return n.settle(ctx)
}

func (n *navigation) OpenSubArea(ctx context.Context, area, subArea string) error {
	if err := n.OpenArea(ctx, area); err != nil {
		return err
	}
	if err := n.expandSiteMap(ctx); err != nil {
		return err
	}
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(subAreaItem(subArea))); err != nil {
		return fmt.Errorf("no sub area named '%s' in area '%s': %w", subArea, area, err)
	}
	return n.settle(ctx)
}

func (n *navigation) OpenGroupSubArea(ctx context.Context, group, subArea string) error {
	if err := n.expandSiteMap(ctx); err != nil {
		return err
	}
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(groupSubAreaItem(group, subArea))); err != nil {
		return fmt.Errorf("no sub area named '%s' in group '%s': %w", subArea, group, err)
	}
	return n.settle(ctx)
}

// expandSiteMap opens the collapsed site map. Wide layouts have no launcher.
func (n *navigation) expandSiteMap(ctx context.Context) error {
	var expanded string
	var ok bool

	present, err := n.a.s.HasElement(ctx, xrm.XPath(siteMapLauncherButton))
	if err != nil || !present {
		return err
	}
	if err := n.a.s.Run(ctx, dom.AttributeAction(siteMapLauncherButton, "aria-expanded", &expanded, &ok)); err != nil {
		return err
	}
	if ok && expanded == "true" {
		return nil
	}
	return n.a.s.ClickWhenAvailable(ctx, xrm.XPath(siteMapLauncherButton))
}

func (n *navigation) OpenGlobalSearch(ctx context.Context) error {
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(globalSearchButton)); err != nil {
		return err
	}
	return n.settle(ctx)
}

func (n *navigation) QuickCreate(ctx context.Context, entity string) error {
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(quickCreateLauncher)); err != nil {
		return err
	}
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(quickCreateItem(entity))); err != nil {
		return fmt.Errorf("no quick create for '%s': %w", entity, err)
	}
	if _, err := n.a.s.WaitUntilAvailable(ctx, xrm.XPath(quickCreateRoot)); err != nil {
		return err
	}
	return n.a.s.WaitForTransaction(ctx)
}

func (n *navigation) SignOut(ctx context.Context) error {
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(accountManagerButton)); err != nil {
		return err
	}
	if err := n.a.s.ClickWhenAvailable(ctx, xrm.XPath(signOutButton)); err != nil {
		return err
	}
	return n.a.s.WaitForPageToLoad(ctx)
}
