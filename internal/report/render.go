package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// renderText writes one path per line. On a terminal the directory part is dimmed.
func renderText(w io.Writer, r *Report) error {
	dim := color.New(color.FgHiBlack)
	colored := isColorTerminal(w)

	for _, file := range r.Files() {
		line := file
		if colored {
			if i := strings.LastIndex(file, "/"); i >= 0 {
				line = dim.Sprint(file[:i+1]) + file[i+1:]
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func renderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

func renderYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	return enc.Close()
}

func renderMarkdown(w io.Writer, r *Report) error {
	_, err := io.WriteString(w, markdown(r))
	return err
}

func renderHTML(w io.Writer, r *Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown(r)), &body); err != nil {
		return fmt.Errorf("convert markdown report: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>filematch report</title>\n</head>\n<body>\n%s</body>\n</html>\n", body.String())
	return err
}

// markdown renders the report as a Markdown document; the HTML renderer converts it
func markdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# filematch report\n\n")
	fmt.Fprintf(&b, "- **Root:** %s\n", code(displayRoot(r.Root)))
	if r.Source != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", r.Source)
	}
	fmt.Fprintf(&b, "- **Case sensitive:** %s\n", yesNo(r.CaseSensitive))
	fmt.Fprintf(&b, "- **Files:** %d\n", r.Total)
	if len(r.Extensions) > 0 {
		fmt.Fprintf(&b, "- **Extensions:** %s\n", joinCode(r.Extensions))
	}
	if len(r.BasePaths) > 0 {
		displayed := make([]string, len(r.BasePaths))
		for i, p := range r.BasePaths {
			displayed[i] = displayRoot(p)
		}
		fmt.Fprintf(&b, "- **Base paths:** %s\n", joinCode(displayed))
	}

	if len(r.Includes) > 0 || len(r.Excludes) > 0 {
		b.WriteString("\n## Specs\n\n")
		b.WriteString("| Kind | # | Spec | Status |\n")
		b.WriteString("|------|---|------|--------|\n")
		reasons := make(map[string]string)
		for _, spec := range r.Invalid {
			reasons[fmt.Sprintf("%s/%d", spec.Kind, spec.Index)] = spec.Reason
		}
		writeSpecRows(&b, "include", r.Includes, reasons)
		writeSpecRows(&b, "exclude", r.Excludes, reasons)
	}

	b.WriteString("\n## Files\n")
	for _, bucket := range r.Buckets {
		title := "All files"
		if bucket.Include != "" {
			title = code(bucket.Include)
		}
		fmt.Fprintf(&b, "\n### %s (%d)\n\n", title, len(bucket.Files))
		if len(bucket.Files) == 0 {
			b.WriteString("_no files_\n")
			continue
		}
		for _, file := range bucket.Files {
			fmt.Fprintf(&b, "- %s\n", code(file))
		}
	}

	return b.String()
}

func writeSpecRows(b *strings.Builder, kind string, specs []string, reasons map[string]string) {
	for i, spec := range specs {
		status := "ok"
		if reason, ok := reasons[fmt.Sprintf("%s/%d", kind, i)]; ok {
			status = "invalid: " + escapeCell(reason)
		}
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", kind, i, escapeCell(code(spec)), status)
	}
}

// code wraps s in a code span, widening the fence when s contains backticks
func code(s string) string {
	if s == "" {
		return "(empty)"
	}
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

func joinCode(values []string) string {
	coded := make([]string, len(values))
	for i, v := range values {
		coded[i] = code(v)
	}
	return strings.Join(coded, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func displayRoot(root string) string {
	if root == "" {
		return "."
	}
	return root
}
