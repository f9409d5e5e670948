package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"devconsole/internal/actions"
	"devconsole/internal/httpclient"
	"devconsole/internal/model"
	"devconsole/internal/openapi"
	"devconsole/internal/render"
)

func newLoginCmd(o *options) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the API endpoint and token",
		Long: `Save the API endpoint and bearer token used by every action.

The token is read from stdin when --token is not given. An empty token is
saved as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if !cmd.Flags().Changed("token") {
				p := newPrompter(o.in, o.errOut)
				v, ok, err := p.ask("Enter API token:")
				if err != nil {
					return err
				}
				if ok {
					token = v
				}
			}
			if err := e.store.Save(e.cfg.Endpoint, token); err != nil {
				return err
			}
			e.log.Info().Str("endpoint", e.cfg.Endpoint).Msg("credentials saved")
			fmt.Fprintf(o.out, "Saved credentials for %s\n", e.cfg.Endpoint)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "API token")
	return cmd
}

func newActionsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the available actions",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tMETHOD\tPATH\tFIELDS\tINPUTS")
			for _, a := range actions.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Method, a.Path, fieldList(a), promptKeys(a))
			}
			return tw.Flush()
		},
	}
}

func fieldList(a actions.Action) string {
	if len(a.Fields) == 0 {
		return "-"
	}
	out := make([]string, len(a.Fields))
	for i, f := range a.Fields {
		out[i] = string(f)
	}
	return strings.Join(out, ",")
}

func promptKeys(a actions.Action) string {
	if len(a.Prompts) == 0 {
		return "-"
	}
	out := make([]string, len(a.Prompts))
	for i, p := range a.Prompts {
		out[i] = p.Key
	}
	return strings.Join(out, ",")
}

type runFlags struct {
	form     model.FormState
	inputs   []string
	format   string
	query    string
	noPrompt bool
}

func newRunCmd(o *options) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run <action>",
		Short: "Run one action and print the result",
		Long: `Run one action against the saved endpoint and print the result.

Inputs the action prompts for can be given with -i key=value. Missing ones
are asked on stdin unless --no-prompt is set; an input left out fails the
action the same way a cancelled prompt does in the console.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.format != "text" && f.format != "html" {
				return fmt.Errorf("unknown format %q (text or html)", f.format)
			}
			act, ok := actions.Lookup(model.ActionID(args[0]))
			if !ok {
				return fmt.Errorf("unknown action %q, see 'devconsole actions'", args[0])
			}
			inputs, err := parseInputs(act, f.inputs)
			if err != nil {
				return err
			}

			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if !f.noPrompt {
				if err := newPrompter(o.in, o.errOut).collect(act, inputs); err != nil {
					return err
				}
			}

			creds := e.store.Load(e.cfg.Endpoint)
			if cmd.Flags().Changed("endpoint") {
				creds.Endpoint = e.cfg.Endpoint
			}
			call := httpclient.Call{Action: act, Creds: creds, Form: f.form, Inputs: inputs}
			d, res, err := httpclient.Dispatch(cmd.Context(), e.client, e.log, call)

			var p render.Panels
			var qerr error
			if err != nil {
				p = render.Error(err)
			} else {
				p = render.Response(res)
				if f.query != "" {
					// a failed query still prints the whole response
					p, qerr = render.Query(p, f.query)
				}
			}
			if err := o.write(p, d, f.format); err != nil {
				return err
			}
			if qerr != nil {
				return qerr
			}
			if p.IsError() {
				return errReported
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.form.Serial, "serial", "", "Device serial number")
	fl.StringVar(&f.form.State, "state", "", "Device state")
	fl.StringVar(&f.form.Code, "code", "", "Integration code")
	fl.StringArrayVarP(&f.inputs, "input", "i", nil, "Prompted input as key=value, can be repeated")
	fl.StringVarP(&f.format, "format", "f", "text", "Output format (text/html)")
	fl.StringVarP(&f.query, "query", "q", "", "JMESPath expression applied to a JSON body")
	fl.BoolVar(&f.noPrompt, "no-prompt", false, "Never ask for missing inputs")
	return cmd
}

// parseInputs reads key=value pairs. Keys must be inputs the action asks for.
func parseInputs(act actions.Action, pairs []string) (model.Inputs, error) {
	known := map[string]bool{}
	for _, p := range act.Prompts {
		known[p.Key] = true
	}
	in := model.Inputs{}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid input %q, expected key=value", kv)
		}
		if !known[k] {
			return nil, fmt.Errorf("%s has no input %q (inputs: %s)", act.ID, k, promptKeys(act))
		}
		in[k] = v
	}
	return in, nil
}

func (o *options) write(p render.Panels, d model.Descriptor, format string) error {
	if format == "html" {
		return render.WriteHTML(o.out, p)
	}
	if d.URL != "" {
		fmt.Fprintf(o.errOut, "%s %s\n", d.Method, d.URL)
	}
	if o.color != nil && o.color() && !p.IsError() {
		p.Body = render.Colorize(p)
	}
	return render.WriteText(o.out, p)
}

func newOpenAPICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the backend calls",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			b, err := openapi.Document(actions.All()).MarshalJSON()
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, b, "", "  "); err != nil {
				return err
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(o.out)
			return err
		},
	}
}

func newCheckCmd(o *options) *cobra.Command {
	var specURL, specFile string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a backend OpenAPI document against the actions",
		Long: `Load the backend's OpenAPI document and report every action whose
method and path it does not declare. Falls back to DEVCONSOLE_SPEC_FILE and
DEVCONSOLE_SPEC_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := specSource(specURL, specFile, os.Getenv)
			if src == "" {
				return fmt.Errorf("one of --spec-url or --spec-file is required")
			}

			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			doc, err := openapi.Load(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("load spec: %w", err)
			}
			matches := openapi.Coverage(actions.All(), openapi.ExtractEndpoints(doc))

			tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
			missing := 0
			for _, m := range matches {
				mark := "ok"
				if !m.Found {
					mark = "missing"
					missing++
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, m.Action, m.Method, m.Path)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			e.log.Info().Str("spec", src).Int("missing", missing).Msg("coverage checked")
			if missing > 0 {
				fmt.Fprintf(o.out, "%d of %d actions not declared\n", missing, len(matches))
				return errReported
			}
			fmt.Fprintf(o.out, "all %d actions declared\n", len(matches))
			return nil
		},
	}
	cmd.Flags().StringVar(&specURL, "spec-url", "", "OpenAPI document URL (http/https)")
	cmd.Flags().StringVar(&specFile, "spec-file", "", "Path to a local OpenAPI document")
	return cmd
}

// specSource picks the document to load: flags before environment, URL
// before file. Files are marked with a leading "@".
func specSource(specURL, specFile string, getenv func(string) string) string {
	if s := strings.TrimSpace(specURL); s != "" {
		return s
	}
	file := strings.TrimSpace(specFile)
	if file == "" {
		file = strings.TrimSpace(getenv("DEVCONSOLE_SPEC_FILE"))
	}
	if file != "" {
		if abs, err := filepath.Abs(file); err == nil {
			file = abs
		}
		return "@" + file
	}
	return strings.TrimSpace(getenv("DEVCONSOLE_SPEC_URL"))
}
