package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
)

// flagLine splits a pflag usage line into indent, flag names, and
// description. Names and description are separated by at least two spaces.
var flagLine = regexp.MustCompile(`^(\s*)(-\S.*?)\s{2,}(\S.*)$`)

// HelpFormatter renders Cobra help with the CLI's output styles.
type HelpFormatter struct {
	command lipgloss.Style
	heading lipgloss.Style
	sub     lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for writer honoring colorMode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		command: styles.Heading,
		heading: styles.Warning,
		sub:     styles.Success,
		flag:    styles.Info.UnsetBold(),
		dim:     styles.Dim,
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ sub (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":   h.command.Render,
		"heading":   h.heading.Render,
		"sub":       h.sub.Render,
		"dim":       h.dim.Render,
		"flags":     h.flagUsages,
		"join":      strings.Join,
		"rpad":      rpad,
		"trimRight": trimTrailingWhitespaces,
	}
}

// flagUsages styles the flag names of every usage line.
func (h *HelpFormatter) flagUsages(fs *pflag.FlagSet) string {
	lines := strings.Split(strings.TrimRight(fs.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = m[1] + h.styleFlagNames(m[2]) + "   " + m[3]
	}
	return strings.Join(lines, "\n")
}

// styleFlagNames colors "-f, --flag" and dims the value type after it.
func (h *HelpFormatter) styleFlagNames(names string) string {
	tokens := strings.Fields(names)
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "-") {
			tokens[i] = h.dim.Render(tok)
			continue
		}
		name, comma := strings.CutSuffix(tok, ",")
		tokens[i] = h.flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// execute renders tmpl for c with h's styles.
func (h *HelpFormatter) execute(w io.Writer, name, tmpl string, c *cobra.Command) error {
	t := template.Must(template.New(name).Funcs(h.funcs()).Parse(tmpl))
	if err := t.Execute(w, c); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// ApplyHelp installs the styled templates on cmd; subcommands inherit them.
// Styles are chosen when help is printed, after *colorMode has been parsed
// and for the writer the command actually uses.
func ApplyHelp(cmd *cobra.Command, colorMode *string) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		out := c.OutOrStderr()
		return NewHelpFormatter(*colorMode, out).execute(out, "usage", usageTemplate, c)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		out := c.OutOrStdout()
		if err := NewHelpFormatter(*colorMode, out).execute(out, "help", helpTemplate, c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
