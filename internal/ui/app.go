package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/rs/zerolog"

	"devconsole/internal/actions"
	"devconsole/internal/auth"
	"devconsole/internal/httpclient"
	"devconsole/internal/model"
	"devconsole/internal/render"
	"devconsole/internal/store"
)

type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenResult
)

type menuPane int

const (
	paneActions menuPane = iota
	paneForm
)

type editKind int

const (
	editNone editKind = iota
	editField
	editPrompt
	editEndpoint
)

const customEndpointLabel = "(custom endpoint...)"

// Options are the dependencies of the console.
type Options struct {
	Store     *store.Store
	Client    *httpclient.Client
	Logger    zerolog.Logger
	Endpoints []string
	// Selected is used when no endpoint was saved.
	Selected string
}

type App struct {
	g *gocui.Gui

	store  *store.Store
	client *httpclient.Client
	log    zerolog.Logger
	now    func() time.Time

	scr screen

	// login
	endpoints  []string
	epSel      int
	onCustom   bool
	loginToken string
	tokenFocus bool

	// menu
	form     model.FormState
	formRow  int
	pane     menuPane
	acts     []actions.Action
	filter   string
	filtered []int
	selected int

	// edit modal
	edit      editKind
	editField model.FormField
	editTitle string
	editSeed  string

	// running action
	flow     *workflow
	busy     bool
	cancel   context.CancelFunc
	lastCall *httpclient.Call
	lastDesc model.Descriptor
	panels   render.Panels

	resultOrigin int

	errorMsg string
	infoMsg  string
}

func NewApp(opts Options) *App {
	a := &App{
		store:     opts.Store,
		client:    opts.Client,
		log:       opts.Logger,
		now:       time.Now,
		endpoints: append([]string(nil), opts.Endpoints...),
		acts:      actions.All(),
	}

	creds := a.store.Load(opts.Selected)
	a.epSel = a.indexOfEndpoint(creds.Endpoint)
	if creds.HasToken {
		a.scr = screenMenu
	}
	a.recomputeFilter()
	return a
}

// indexOfEndpoint returns the position of ep, adding it when unknown.
func (a *App) indexOfEndpoint(ep string) int {
	for i, e := range a.endpoints {
		if e == ep {
			return i
		}
	}
	if ep == "" {
		return 0
	}
	a.endpoints = append(a.endpoints, ep)
	return len(a.endpoints) - 1
}

func (a *App) selectedEndpoint() string {
	if a.epSel < 0 || a.epSel >= len(a.endpoints) {
		return ""
	}
	return a.endpoints[a.epSel]
}

func (a *App) creds() model.Credentials {
	return a.store.Load(a.selectedEndpoint())
}

// singleLineEditor is an editor that doesn't consume Enter (lets keybinding handle it)
type singleLineEditor struct{}

func (e singleLineEditor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	case key == gocui.KeyDelete:
		v.EditDelete(false)
	case key == gocui.KeyArrowLeft:
		v.MoveCursor(-1, 0, false)
	case key == gocui.KeyArrowRight:
		v.MoveCursor(1, 0, false)
	case key == gocui.KeyHome || key == gocui.KeyCtrlA:
		v.SetCursor(0, 0)
	case key == gocui.KeyEnd || key == gocui.KeyCtrlE:
		line := v.Buffer()
		v.SetCursor(len(line)-1, 0)
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case key == gocui.KeyEnter:
		// don't handle - let keybinding process it
	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	}
}

func (a *App) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()
	a.g = g

	g.BgColor = gocui.ColorBlack
	g.FgColor = gocui.ColorWhite
	g.Cursor = true
	g.InputEsc = true
	g.SetManagerFunc(a.layout)

	if err := a.bindKeys(); err != nil {
		return err
	}

	err = g.MainLoop()
	if a.cancel != nil {
		a.cancel()
	}
	if err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (a *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("header", 0, 0, maxX-1, 2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorBlack
		v.FgColor = gocui.ColorWhite
	}
	a.renderHeader()

	if v, err := g.SetView("footer", 0, maxY-2, maxX-1, maxY); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorBlack
		v.FgColor = gocui.ColorWhite
	}
	a.renderFooter()

	var err error
	switch a.scr {
	case screenLogin:
		err = a.layoutLogin(maxX, maxY)
	case screenMenu:
		err = a.layoutMenu(maxX, maxY)
	case screenResult:
		err = a.layoutResult(maxX, maxY)
	}
	if err != nil {
		return err
	}
	return a.layoutEdit(maxX, maxY)
}

// clearMainViews removes every screen view not listed in keep.
func (a *App) clearMainViews(keep ...string) {
	keepSet := map[string]bool{"header": true, "footer": true, "edit": true}
	for _, k := range keep {
		keepSet[k] = true
	}

	for _, n := range []string{
		"login-endpoints", "login-token",
		"form", "filter", "actions",
		"status", "headers", "body", "error",
	} {
		if keepSet[n] {
			continue
		}
		if v, err := a.g.View(n); err == nil {
			v.Clear()
			a.g.DeleteView(n)
		}
	}
}

// layoutEdit draws the centered single-line modal used for form fields,
// prompts and custom endpoints.
func (a *App) layoutEdit(maxX, maxY int) error {
	if a.edit == editNone {
		if _, err := a.g.View("edit"); err == nil {
			a.g.DeleteView("edit")
		}
		return nil
	}

	width := 70
	if width > maxX-4 {
		width = maxX - 4
	}
	x0 := (maxX - width) / 2
	y0 := (maxY - 3) / 2

	v, err := a.g.SetView("edit", x0, y0, x0+width, y0+2)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Editable = true
		v.Editor = singleLineEditor{}
		v.BgColor = gocui.ColorBlack
		v.FgColor = gocui.ColorWhite
		fmt.Fprint(v, a.editSeed)
		v.SetCursor(len(a.editSeed), 0)
	}
	v.Title = " " + a.editTitle + " (enter=ok, esc=cancel) "
	if _, err := a.g.SetViewOnTop("edit"); err != nil {
		return err
	}
	_, err = a.g.SetCurrentView("edit")
	return err
}

func (a *App) openEdit(kind editKind, title, seed string) {
	if a.g != nil {
		a.g.DeleteView("edit")
	}
	a.edit = kind
	a.editTitle = title
	a.editSeed = seed
}

func (a *App) closeEdit() {
	a.edit = editNone
	a.editTitle = ""
	a.editSeed = ""
	if a.g != nil {
		if v, err := a.g.View("edit"); err == nil {
			v.Clear()
			a.g.DeleteView("edit")
		}
	}
}

func (a *App) confirmEdit(g *gocui.Gui, v *gocui.View) error {
	if a.edit == editNone {
		return nil
	}
	val := viewText(v)
	kind := a.edit
	a.closeEdit()

	switch kind {
	case editField:
		a.form.Set(a.editField, strings.TrimSpace(val))
	case editEndpoint:
		a.addCustomEndpoint(strings.TrimSpace(val))
	case editPrompt:
		// prompt answers are taken as typed
		a.answerPrompt(val)
	}
	return nil
}

func (a *App) bindKeys() error {
	g := a.g
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, a.quit); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyEsc, gocui.ModNone, a.back); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlL, gocui.ModNone, a.openLogin); err != nil {
		return err
	}
	if err := g.SetKeybinding("edit", gocui.KeyEnter, gocui.ModNone, a.confirmEdit); err != nil {
		return err
	}
	if err := a.bindLoginKeys(); err != nil {
		return err
	}
	if err := a.bindMenuKeys(); err != nil {
		return err
	}
	return a.bindResultKeys()
}

func (a *App) quit(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }

func (a *App) back(*gocui.Gui, *gocui.View) error {
	a.errorMsg = ""
	if a.busy {
		if a.cancel != nil {
			a.cancel()
		}
		return nil
	}
	if a.edit != editNone {
		kind := a.edit
		a.closeEdit()
		if kind == editPrompt {
			a.cancelPrompts()
		}
		return nil
	}
	switch a.scr {
	case screenResult:
		a.scr = screenMenu
	case screenLogin:
		if a.creds().HasToken {
			a.scr = screenMenu
		}
	case screenMenu:
		if a.filter != "" {
			a.filter = ""
			a.recomputeFilter()
		}
	}
	return nil
}

func (a *App) renderHeader() {
	v, err := a.g.View("header")
	if err != nil {
		return
	}
	v.Clear()
	c := a.creds()
	fmt.Fprintf(v, "%sdevconsole%s  -  %s  -  %s\n", colorGreen, colorReset, c.Endpoint, auth.Describe(c.Token, c.HasToken, a.now()))
}

func (a *App) renderFooter() {
	v, err := a.g.View("footer")
	if err != nil {
		return
	}
	v.Clear()
	if a.errorMsg != "" {
		fmt.Fprint(v, colorRed+a.errorMsg+colorReset)
		return
	}
	if a.infoMsg != "" {
		fmt.Fprint(v, colorCyan+a.infoMsg+colorReset)
		return
	}

	var msg string
	switch {
	case a.busy:
		msg = "running " + string(a.flowID()) + "...   esc: cancel"
	case a.edit != editNone:
		msg = "enter: ok   esc: cancel"
	case a.scr == screenLogin:
		msg = "up/down: endpoint   tab: token   enter: log in   esc: back   ctrl+c: quit"
	case a.scr == screenMenu:
		msg = "type: filter   enter: run   tab: form   ctrl+l: login   ctrl+c: quit"
		if a.pane == paneForm {
			msg = "up/down: field   enter: edit   d: clear   tab: actions   ctrl+c: quit"
		}
	case a.scr == screenResult:
		msg = "up/down: scroll   r: rerun   y: copy body   enter/esc: back   ctrl+c: quit"
	}
	fmt.Fprint(v, msg)
}

func (a *App) flowID() model.ActionID {
	if a.flow == nil {
		return ""
	}
	return a.flow.action.ID
}

// ansi colors
const (
	colorDim     = "\033[90m"
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

func viewText(v *gocui.View) string {
	b := v.Buffer()
	// gocui includes a trailing newline
	return strings.TrimSuffix(b, "\n")
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func colorizeMethod(method string) string {
	var color string
	switch strings.ToUpper(method) {
	case "GET":
		color = colorBlue
	case "POST":
		color = colorGreen
	case "PUT":
		color = colorYellow
	case "DELETE":
		color = colorRed
	case "PATCH":
		color = colorCyan
	case "HEAD":
		color = colorMagenta
	default:
		color = colorReset
	}
	return color + padRight(method, 6) + colorReset
}
