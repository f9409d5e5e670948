package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/jroimartin/gocui"

	"devconsole/internal/render"
)

func (a *App) layoutResult(maxX, maxY int) error {
	p := a.panels
	if p.IsError() {
		a.clearMainViews("error")
		v, err := a.g.SetView("error", 0, 3, maxX-1, maxY-3)
		if err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Wrap = true
			v.FgColor = gocui.ColorRed
		}
		v.Title = " Error " + a.resultTitle()
		v.Clear()
		fmt.Fprintln(v, p.Error)
		return a.focusResult("error")
	}

	a.clearMainViews("status", "headers", "body")

	sv, err := a.g.SetView("status", 0, 3, maxX-1, 6)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}
	sv.Title = a.resultTitle()
	sv.Clear()
	fmt.Fprintln(sv, colorizeStatus(p.Status))

	hLines := strings.Count(p.Headers, "\n") + 1
	hBottom := 7 + hLines + 1
	if limit := (maxY-3)/2 + 3; hBottom > limit {
		hBottom = limit
	}
	hv, err := a.g.SetView("headers", 0, 7, maxX-1, hBottom)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}
	hv.Title = " Headers "
	hv.Clear()
	fmt.Fprint(hv, p.Headers)

	bv, err := a.g.SetView("body", 0, hBottom+1, maxX-1, maxY-3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		bv.Wrap = true
	}
	bv.Title = " Body "
	bv.Clear()
	fmt.Fprint(bv, render.Colorize(p))
	bv.SetOrigin(0, a.resultOrigin)
	return a.focusResult("body")
}

func (a *App) focusResult(name string) error {
	if a.edit != editNone {
		return nil
	}
	_, err := a.g.SetCurrentView(name)
	return err
}

// resultTitle is the method and URL of the call, or the action name when
// the call was refused before a URL existed.
func (a *App) resultTitle() string {
	d := a.lastDesc
	if d.URL != "" {
		return " " + d.Method + " " + d.URL + " "
	}
	if a.lastCall != nil {
		return " " + a.lastCall.Action.Label + " "
	}
	return ""
}

func colorizeStatus(status string) string {
	lines := strings.SplitN(status, "\n", 2)
	code := strings.TrimSpace(strings.TrimPrefix(lines[0], "Status Code:"))
	color := colorReset
	switch {
	case strings.HasPrefix(code, "2"):
		color = colorGreen
	case strings.HasPrefix(code, "3"):
		color = colorCyan
	case strings.HasPrefix(code, "4"):
		color = colorYellow
	case strings.HasPrefix(code, "5"):
		color = colorRed
	}
	lines[0] = color + lines[0] + colorReset
	return strings.Join(lines, "\n")
}

func (a *App) bindResultKeys() error {
	g := a.g
	for _, n := range []string{"body", "error"} {
		if err := g.SetKeybinding(n, gocui.KeyArrowUp, gocui.ModNone, a.scrollResult(-1)); err != nil {
			return err
		}
		if err := g.SetKeybinding(n, gocui.KeyArrowDown, gocui.ModNone, a.scrollResult(1)); err != nil {
			return err
		}
		if err := g.SetKeybinding(n, gocui.KeyPgup, gocui.ModNone, a.scrollResult(-10)); err != nil {
			return err
		}
		if err := g.SetKeybinding(n, gocui.KeyPgdn, gocui.ModNone, a.scrollResult(10)); err != nil {
			return err
		}
		if err := g.SetKeybinding(n, gocui.KeyEnter, gocui.ModNone, a.back); err != nil {
			return err
		}
		if err := g.SetKeybinding(n, 'r', gocui.ModNone, a.rerun); err != nil {
			return err
		}
	}
	return g.SetKeybinding("body", 'y', gocui.ModNone, a.copyBody)
}

func (a *App) scrollResult(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(_ *gocui.Gui, v *gocui.View) error {
		n := a.resultOrigin + delta
		if last := len(viewLines(v)) - 1; n > last {
			n = last
		}
		if n < 0 {
			n = 0
		}
		a.resultOrigin = n
		return nil
	}
}

// viewLines returns the lines of the buffer without the trailing empty one.
func viewLines(v *gocui.View) []string {
	lines := strings.Split(v.Buffer(), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// rerun sends the last call again with the same form and answers, and the
// credentials as they are now.
func (a *App) rerun(*gocui.Gui, *gocui.View) error {
	if a.lastCall == nil || a.busy {
		return nil
	}
	call := *a.lastCall
	call.Creds = a.store.Load(a.selectedEndpoint())
	a.errorMsg = ""
	a.infoMsg = ""
	a.dispatch(call)
	return nil
}

func (a *App) copyBody(*gocui.Gui, *gocui.View) error {
	if err := clipboard.WriteAll(a.panels.Body); err != nil {
		a.errorMsg = "Copy failed: " + err.Error()
		return nil
	}
	a.infoMsg = "Body copied"
	return nil
}
