package ui

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
)

func (a *App) layoutLogin(maxX, maxY int) error {
	a.clearMainViews("login-endpoints", "login-token")

	listH := len(a.endpoints) + 3
	if listH > maxY-10 {
		listH = maxY - 10
	}
	if listH < 4 {
		listH = 4
	}
	top := 3

	v, err := a.g.SetView("login-endpoints", 0, top, maxX-1, top+listH)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Highlight = true
		v.SelBgColor = gocui.ColorBlue
		v.SelFgColor = gocui.ColorWhite
	}
	v.Title = " API endpoint "
	a.renderEndpoints(v)

	tv, err := a.g.SetView("login-token", 0, top+listH+1, maxX-1, top+listH+3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}
	tv.Title = " API token "
	if a.tokenFocus {
		tv.Title = " API token (typing) "
	}
	tv.Clear()
	fmt.Fprint(tv, strings.Repeat("*", len([]rune(a.loginToken))))

	if a.edit != editNone {
		return nil
	}
	focus := "login-endpoints"
	if a.tokenFocus {
		focus = "login-token"
	}
	_, err = a.g.SetCurrentView(focus)
	return err
}

func (a *App) renderEndpoints(v *gocui.View) {
	v.Clear()
	for i, e := range a.endpoints {
		mark := "  "
		if i == a.epSel {
			mark = "* "
		}
		fmt.Fprintln(v, mark+e)
	}
	fmt.Fprintln(v, "  "+colorDim+customEndpointLabel+colorReset)
	row := a.epSel
	if a.onCustom {
		row = len(a.endpoints)
	}
	v.SetCursor(0, row)
}

func (a *App) bindLoginKeys() error {
	g := a.g
	if err := g.SetKeybinding("login-endpoints", gocui.KeyArrowUp, gocui.ModNone, a.endpointUp); err != nil {
		return err
	}
	if err := g.SetKeybinding("login-endpoints", gocui.KeyArrowDown, gocui.ModNone, a.endpointDown); err != nil {
		return err
	}
	if err := g.SetKeybinding("login-endpoints", gocui.KeyEnter, gocui.ModNone, a.endpointEnter); err != nil {
		return err
	}
	for _, n := range []string{"login-endpoints", "login-token"} {
		if err := g.SetKeybinding(n, gocui.KeyTab, gocui.ModNone, a.toggleTokenFocus); err != nil {
			return err
		}
	}

	for r := rune(33); r <= rune(126); r++ {
		if err := g.SetKeybinding("login-token", r, gocui.ModNone, a.tokenTypeRune(r)); err != nil {
			return err
		}
	}
	if err := g.SetKeybinding("login-token", gocui.KeySpace, gocui.ModNone, a.tokenTypeRune(' ')); err != nil {
		return err
	}
	if err := g.SetKeybinding("login-token", gocui.KeyBackspace, gocui.ModNone, a.tokenBackspace); err != nil {
		return err
	}
	if err := g.SetKeybinding("login-token", gocui.KeyBackspace2, gocui.ModNone, a.tokenBackspace); err != nil {
		return err
	}
	return g.SetKeybinding("login-token", gocui.KeyEnter, gocui.ModNone, a.submitLogin)
}

func (a *App) openLogin(*gocui.Gui, *gocui.View) error {
	if a.busy || a.edit != editNone {
		return nil
	}
	a.scr = screenLogin
	a.tokenFocus = false
	a.loginToken = ""
	a.errorMsg = ""
	return nil
}

func (a *App) toggleTokenFocus(*gocui.Gui, *gocui.View) error {
	a.tokenFocus = !a.tokenFocus
	return nil
}

func (a *App) endpointUp(*gocui.Gui, *gocui.View) error {
	if a.onCustom {
		a.onCustom = false
		return nil
	}
	if a.epSel > 0 {
		a.selectEndpoint(a.epSel - 1)
	}
	return nil
}

func (a *App) endpointDown(*gocui.Gui, *gocui.View) error {
	if a.epSel < len(a.endpoints)-1 {
		a.selectEndpoint(a.epSel + 1)
		return nil
	}
	// past the last endpoint is the custom entry
	a.onCustom = true
	return nil
}

// endpointEnter moves on to the token field, or opens the custom endpoint
// editor from the custom entry.
func (a *App) endpointEnter(*gocui.Gui, *gocui.View) error {
	if a.onCustom {
		a.openEdit(editEndpoint, "Custom endpoint", "")
		return nil
	}
	a.tokenFocus = true
	return nil
}

// selectEndpoint persists the choice immediately, so the next start and
// the header both use it.
func (a *App) selectEndpoint(i int) {
	a.epSel = i
	if err := a.store.SetEndpoint(a.selectedEndpoint()); err != nil {
		a.log.Error().Err(err).Msg("save endpoint")
		a.errorMsg = "Could not save endpoint: " + err.Error()
	}
}

func (a *App) addCustomEndpoint(ep string) {
	ep = strings.TrimRight(ep, "/")
	if ep == "" {
		return
	}
	a.onCustom = false
	a.selectEndpoint(a.indexOfEndpoint(ep))
	a.tokenFocus = true
}

func (a *App) tokenTypeRune(r rune) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		a.loginToken += string(r)
		return nil
	}
}

func (a *App) tokenBackspace(*gocui.Gui, *gocui.View) error {
	rs := []rune(a.loginToken)
	if len(rs) > 0 {
		a.loginToken = string(rs[:len(rs)-1])
	}
	return nil
}

// submitLogin saves the pair as entered. An empty token is saved too and
// later sent as an empty bearer.
func (a *App) submitLogin(*gocui.Gui, *gocui.View) error {
	endpoint := a.selectedEndpoint()
	if err := a.store.Save(endpoint, a.loginToken); err != nil {
		a.log.Error().Err(err).Msg("save credentials")
		a.errorMsg = "Could not save credentials: " + err.Error()
		return nil
	}
	a.log.Info().Str("endpoint", endpoint).Msg("credentials saved")
	a.loginToken = ""
	a.tokenFocus = false
	a.infoMsg = "Credentials saved"
	a.scr = screenMenu
	return nil
}
