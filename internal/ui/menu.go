package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/jroimartin/gocui"

	"devconsole/internal/actions"
	"devconsole/internal/httpclient"
	"devconsole/internal/model"
	"devconsole/internal/render"
)

var formRows = []struct {
	field model.FormField
	label string
}{
	{model.FieldSerial, "Serial number"},
	{model.FieldState, "State"},
	{model.FieldCode, "Code"},
}

func (a *App) layoutMenu(maxX, maxY int) error {
	a.clearMainViews("form", "filter", "actions")

	formH := len(formRows) + 1
	fv, err := a.g.SetView("form", 0, 3, maxX-1, 3+formH)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		fv.SelBgColor = gocui.ColorBlue
		fv.SelFgColor = gocui.ColorWhite
	}
	fv.Title = " Device "
	fv.Highlight = a.pane == paneForm
	a.renderForm(fv)

	top := 3 + formH + 1
	filv, err := a.g.SetView("filter", 0, top, maxX-1, top+2)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}
	filv.Title = " Filter "
	filv.Clear()
	fmt.Fprint(filv, a.filter)

	av, err := a.g.SetView("actions", 0, top+3, maxX-1, maxY-3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		av.SelBgColor = gocui.ColorBlue
		av.SelFgColor = gocui.ColorWhite
	}
	av.Title = fmt.Sprintf(" Actions (%d) ", len(a.filtered))
	av.Highlight = a.pane == paneActions
	a.renderActions(av)

	if a.edit != editNone {
		return nil
	}
	focus := "actions"
	if a.pane == paneForm {
		focus = "form"
	}
	_, err = a.g.SetCurrentView(focus)
	return err
}

// renderForm marks with '*' the fields the selected action reads.
func (a *App) renderForm(v *gocui.View) {
	v.Clear()
	act, hasAct := a.selectedAction()
	for _, r := range formRows {
		mark := " "
		if hasAct && act.NeedsField(r.field) {
			mark = colorYellow + "*" + colorReset
		}
		val := a.form.Value(r.field)
		if val == "" {
			val = colorDim + "(empty)" + colorReset
		}
		fmt.Fprintf(v, "%s %s %s\n", mark, padRight(r.label, 14), val)
	}
	v.SetCursor(0, a.formRow)
}

func (a *App) renderActions(v *gocui.View) {
	v.Clear()
	for _, i := range a.filtered {
		act := a.acts[i]
		fmt.Fprintf(v, "%s %s %s\n", colorizeMethod(act.Method), padRight(act.Label, 20), highlightPathParams(act.Path))
	}
	if len(a.filtered) == 0 {
		fmt.Fprintln(v, colorDim+"no matching action"+colorReset)
	}
	v.SetCursor(0, 0)
	v.SetOrigin(0, 0)
	if a.selected >= 0 {
		_, h := v.Size()
		if h > 0 && a.selected >= h {
			v.SetOrigin(0, a.selected-h+1)
			v.SetCursor(0, h-1)
		} else {
			v.SetCursor(0, a.selected)
		}
	}
}

// highlightPathParams colors the {param} segments of a route.
func highlightPathParams(path string) string {
	var out []rune
	in := false
	for _, r := range path {
		switch {
		case r == '{':
			in = true
			out = append(out, []rune(colorYellow+"{")...)
		case r == '}' && in:
			in = false
			out = append(out, []rune("}"+colorReset)...)
		default:
			out = append(out, r)
		}
	}
	if in {
		out = append(out, []rune(colorReset)...)
	}
	return string(out)
}

func (a *App) recomputeFilter() {
	a.filtered = filterActions(a.acts, a.filter)
	a.selected = 0
	if len(a.filtered) == 0 {
		a.selected = -1
	}
}

func (a *App) selectedAction() (actions.Action, bool) {
	if a.selected < 0 || a.selected >= len(a.filtered) {
		return actions.Action{}, false
	}
	return a.acts[a.filtered[a.selected]], true
}

func (a *App) bindMenuKeys() error {
	g := a.g
	for _, n := range []string{"actions", "form"} {
		if err := g.SetKeybinding(n, gocui.KeyTab, gocui.ModNone, a.togglePane); err != nil {
			return err
		}
	}

	if err := g.SetKeybinding("actions", gocui.KeyArrowUp, gocui.ModNone, a.moveSel(-1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("actions", gocui.KeyArrowDown, gocui.ModNone, a.moveSel(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("actions", gocui.KeyEnter, gocui.ModNone, a.runSelected); err != nil {
		return err
	}
	if err := g.SetKeybinding("actions", gocui.KeyBackspace, gocui.ModNone, a.filterBackspace); err != nil {
		return err
	}
	if err := g.SetKeybinding("actions", gocui.KeyBackspace2, gocui.ModNone, a.filterBackspace); err != nil {
		return err
	}
	for r := rune(33); r <= rune(126); r++ {
		if err := g.SetKeybinding("actions", r, gocui.ModNone, a.appendFilterRune(r)); err != nil {
			return err
		}
	}
	if err := g.SetKeybinding("actions", gocui.KeySpace, gocui.ModNone, a.appendFilterRune(' ')); err != nil {
		return err
	}

	if err := g.SetKeybinding("form", gocui.KeyArrowUp, gocui.ModNone, a.moveFormRow(-1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("form", gocui.KeyArrowDown, gocui.ModNone, a.moveFormRow(1)); err != nil {
		return err
	}
	if err := g.SetKeybinding("form", 'd', gocui.ModNone, a.clearFormField); err != nil {
		return err
	}
	return g.SetKeybinding("form", gocui.KeyEnter, gocui.ModNone, a.editFormField)
}

func (a *App) togglePane(*gocui.Gui, *gocui.View) error {
	if a.pane == paneActions {
		a.pane = paneForm
	} else {
		a.pane = paneActions
	}
	return nil
}

func (a *App) moveSel(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if len(a.filtered) == 0 {
			return nil
		}
		n := a.selected + delta
		if n < 0 {
			n = 0
		}
		if n >= len(a.filtered) {
			n = len(a.filtered) - 1
		}
		a.selected = n
		return nil
	}
}

func (a *App) moveFormRow(delta int) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		n := a.formRow + delta
		if n >= 0 && n < len(formRows) {
			a.formRow = n
		}
		return nil
	}
}

func (a *App) appendFilterRune(r rune) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		a.filter += string(r)
		a.recomputeFilter()
		return nil
	}
}

func (a *App) filterBackspace(*gocui.Gui, *gocui.View) error {
	rs := []rune(a.filter)
	if len(rs) == 0 {
		return nil
	}
	a.filter = string(rs[:len(rs)-1])
	a.recomputeFilter()
	return nil
}

func (a *App) editFormField(*gocui.Gui, *gocui.View) error {
	r := formRows[a.formRow]
	a.editField = r.field
	a.openEdit(editField, r.label, a.form.Value(r.field))
	return nil
}

func (a *App) clearFormField(*gocui.Gui, *gocui.View) error {
	a.form.Set(formRows[a.formRow].field, "")
	return nil
}

func (a *App) runSelected(*gocui.Gui, *gocui.View) error {
	act, ok := a.selectedAction()
	if !ok || a.busy {
		return nil
	}
	a.startAction(act)
	return nil
}

// startAction snapshots the form and walks the action's prompts before
// dispatching it.
func (a *App) startAction(act actions.Action) {
	a.errorMsg = ""
	a.infoMsg = ""
	a.flow = newWorkflow(act, a.form)
	a.nextPrompt()
}

func (a *App) nextPrompt() {
	p, ok := a.flow.pending()
	if !ok {
		a.dispatch(a.flow.call(a.creds()))
		return
	}
	i, n := a.flow.step()
	title := p.Label
	if n > 1 {
		title = fmt.Sprintf("%s (%d/%d)", p.Label, i, n)
	}
	a.openEdit(editPrompt, title, "")
}

func (a *App) answerPrompt(v string) {
	if a.flow == nil {
		return
	}
	a.flow.answer(v)
	a.nextPrompt()
}

// cancelPrompts still dispatches; the builder then reports the missing
// inputs like any other validation failure.
func (a *App) cancelPrompts() {
	if a.flow == nil {
		return
	}
	a.flow.cancel()
	a.nextPrompt()
}

// dispatch runs the call off the UI goroutine. Validation failures come
// back before any I/O, so they render the same way as transport errors.
func (a *App) dispatch(call httpclient.Call) {
	ctx, cancel := context.WithCancel(context.Background())
	a.busy = true
	a.cancel = cancel
	a.lastCall = &call

	if a.g == nil {
		d, res, err := httpclient.Dispatch(ctx, a.client, a.log, call)
		a.finish(d, res, err)
		cancel()
		return
	}
	go func() {
		defer cancel()
		d, res, err := httpclient.Dispatch(ctx, a.client, a.log, call)
		a.g.Update(func(*gocui.Gui) error {
			a.finish(d, res, err)
			return nil
		})
	}()
}

func (a *App) finish(d model.Descriptor, res httpclient.Result, err error) {
	a.busy = false
	a.cancel = nil
	a.lastDesc = d
	a.resultOrigin = 0
	if err != nil {
		a.panels = render.Error(err)
		if errors.Is(err, httpclient.ErrNoToken) {
			a.errorMsg = "Log in first (ctrl+l)"
		}
	} else {
		a.panels = render.Response(res)
	}
	a.scr = screenResult
}
