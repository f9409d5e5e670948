package ui

import (
	"devconsole/internal/actions"
	"devconsole/internal/httpclient"
	"devconsole/internal/model"
)

// workflow is an action waiting for its prompted inputs. The form is
// captured when the action starts so later edits do not leak into it.
type workflow struct {
	action actions.Action
	form   model.FormState
	inputs model.Inputs
	next   int
}

func newWorkflow(a actions.Action, form model.FormState) *workflow {
	return &workflow{action: a, form: form, inputs: model.Inputs{}}
}

// pending returns the prompt awaiting an answer, if any.
func (w *workflow) pending() (actions.Prompt, bool) {
	if w.next >= len(w.action.Prompts) {
		return actions.Prompt{}, false
	}
	return w.action.Prompts[w.next], true
}

func (w *workflow) answer(v string) {
	p, ok := w.pending()
	if !ok {
		return
	}
	w.inputs[p.Key] = v
	w.next++
}

// cancel skips every remaining prompt. Their values stay absent, so the
// builder reports them as missing.
func (w *workflow) cancel() {
	w.next = len(w.action.Prompts)
}

// step is "2/5" style progress for the prompt title.
func (w *workflow) step() (int, int) {
	return w.next + 1, len(w.action.Prompts)
}

func (w *workflow) call(creds model.Credentials) httpclient.Call {
	return httpclient.Call{Action: w.action, Creds: creds, Form: w.form, Inputs: w.inputs}
}
