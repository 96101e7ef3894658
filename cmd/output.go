package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mod-manifest-resolver/moddef"
	"mod-manifest-resolver/resolver"
	"mod-manifest-resolver/ui"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseOutputFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", formatText:
		return formatText, nil
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// writeValue encodes v as JSON or YAML.
func writeValue(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("cannot encode as %s", format)
	}
}

// writeManifest prints a parsed manifest. YAML output goes through the JSON
// form so keys and the raw Settings object read the same in both formats.
func writeManifest(w io.Writer, mod *moddef.ModDef, format string) error {
	if format != formatYAML {
		return writeValue(w, mod, format)
	}
	data, err := json.Marshal(mod)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	return writeValue(w, &doc, formatYAML)
}

// blockStyle clears the flow and quoting styles a JSON document parses with.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// writePlan renders plan in the given format.
func writePlan(w io.Writer, plan *resolver.Plan, format string) error {
	if format != formatText {
		return writeValue(w, plan, format)
	}

	accepted, rejected, failed := plan.Counts()
	fmt.Fprintf(w, "Pass %s (host %s): %d accepted, %d rejected, %d failed\n",
		plan.PassID, hostLabel(plan.Host.Version), accepted, rejected, failed)

	for _, o := range plan.Outcomes {
		fmt.Fprintln(w, outcomeLine(o))
		for _, warning := range o.Warnings {
			fmt.Fprintf(w, "      %s\n", ui.Colorize("warning: "+warning, ui.ColorRejected))
		}
	}

	if len(plan.Accepted) > 0 {
		fmt.Fprintf(w, "\nLoad order: %s\n", strings.Join(plan.Accepted, ", "))
	}
	fmt.Fprintf(w, "Records: %d  Removals: %d  Extracts: %d\n",
		len(plan.Records), len(plan.Removals), len(plan.Extracts))
	return nil
}

func hostLabel(version string) string {
	if version == "" {
		return "unknown"
	}
	return version
}

// outcomeLine formats one outcome as "  <symbol> <name> <status>[: reason]".
func outcomeLine(o resolver.Outcome) string {
	symbol := "✓"
	switch o.Status {
	case resolver.StatusRejected:
		symbol = "✗"
		if o.Quiet {
			symbol = "-"
		}
	case resolver.StatusFailed:
		symbol = "!"
	}

	name := o.Name
	if name == "" {
		name = o.Directory
	}
	status := string(o.Status)
	if o.Reason != "" {
		status += ": " + o.Reason
	}
	color := ui.StatusColor(string(o.Status), o.Quiet)
	return fmt.Sprintf("  %s %-30s %s", ui.Colorize(symbol, color), truncate(name, 30), ui.Colorize(status, color))
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
