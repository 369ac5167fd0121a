// Package report renders elaboration reports for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/iancoleman/strcase"

	"github.com/vito/unify/pkg/elab"
	"github.com/vito/unify/pkg/term"
)

// Mode selects how Write renders.
type Mode int

const (
	Styled Mode = iota
	Plain
)

var (
	sourceStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	acceptedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	rejectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	unresolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	nameStyle       = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Faint(true)
)

func statusMark(s elab.Status) string {
	switch s {
	case elab.Accepted:
		return acceptedStyle.Render("✓")
	case elab.Rejected:
		return rejectedStyle.Render("✗")
	default:
		return unresolvedStyle.Render("?")
	}
}

// Write renders reports as text, one block per report followed by a
// summary line. A heading is written whenever the source changes.
func Write(w io.Writer, reports []elab.Report, mode Mode) error {
	var b strings.Builder
	source := ""
	for _, r := range reports {
		if r.Source != source {
			source = r.Source
			fmt.Fprintln(&b, sourceStyle.Render(source))
		}
		writeReport(&b, r)
	}
	b.WriteString(Summary(reports))
	b.WriteString("\n")

	out := b.String()
	if mode == Plain {
		out = ansi.Strip(out)
	}
	_, err := io.WriteString(w, out)
	return err
}

func writeReport(b *strings.Builder, r elab.Report) {
	fmt.Fprintf(b, "%s %s %s", statusMark(r.Status()), dimStyle.Render(r.Kind.String()), nameStyle.Render(r.Name))
	if r.Type != nil {
		fmt.Fprintf(b, " : %s", r.Type)
	}
	b.WriteString("\n")
	if r.Value != nil {
		fmt.Fprintf(b, "    = %s\n", r.Value)
	}
	for _, s := range r.Solutions {
		fmt.Fprintf(b, "    %s := %s\n", dimStyle.Render(s.Name), s.Value)
	}
	if r.Err != nil {
		style := rejectedStyle.UnsetBold()
		if r.Status() == elab.Unresolved {
			style = unresolvedStyle.UnsetBold()
		}
		for line := range strings.SplitSeq(r.Err.Error(), "\n") {
			fmt.Fprintf(b, "    %s\n", style.Render(line))
		}
	}
}

// Summary counts reports by status.
func Summary(reports []elab.Report) string {
	counts := map[elab.Status]int{}
	for _, r := range reports {
		counts[r.Status()]++
	}
	return fmt.Sprintf("%s, %s, %s",
		acceptedStyle.Render(fmt.Sprintf("%d accepted", counts[elab.Accepted])),
		rejectedStyle.Render(fmt.Sprintf("%d rejected", counts[elab.Rejected])),
		unresolvedStyle.Render(fmt.Sprintf("%d unresolved", counts[elab.Unresolved])),
	)
}

// JSONReport is the machine-readable form of a report.
type JSONReport struct {
	Kind       string         `json:"kind"`
	Name       string         `json:"name"`
	Source     string         `json:"source,omitempty"`
	Status     string         `json:"status"`
	Type       string         `json:"type,omitempty"`
	Value      string         `json:"value,omitempty"`
	Solutions  []JSONSolution `json:"solutions,omitempty"`
	Error      string         `json:"error,omitempty"`
	Failure    *JSONFailure   `json:"failure,omitempty"`
	Unresolved []JSONMeta     `json:"unresolved,omitempty"`
}

type JSONSolution struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type JSONFailure struct {
	Reason    string `json:"reason"`
	LHS       string `json:"lhs"`
	RHS       string `json:"rhs"`
	LeftHead  string `json:"left_head,omitempty"`
	RightHead string `json:"right_head,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

type JSONMeta struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// JSON converts a report to its machine-readable form.
func JSON(r elab.Report) JSONReport {
	out := JSONReport{
		Kind:   strcase.ToKebab(r.Kind.String()),
		Name:   r.Name,
		Source: r.Source,
		Status: strcase.ToKebab(r.Status().String()),
	}
	if r.Type != nil {
		out.Type = r.Type.String()
	}
	if r.Value != nil {
		out.Value = r.Value.String()
	}
	for _, s := range r.Solutions {
		out.Solutions = append(out.Solutions, JSONSolution{Name: s.Name, Value: s.Value.String()})
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	if f := r.Failure(); f != nil {
		out.Failure = &JSONFailure{
			Reason:    strcase.ToKebab(f.Reason.String()),
			LHS:       term.Named(f.Context, f.LHS).String(),
			RHS:       term.Named(f.Context, f.RHS).String(),
			LeftHead:  f.LeftHead,
			RightHead: f.RightHead,
			Detail:    f.Detail,
			Origin:    f.Origin,
		}
	}
	for _, m := range r.Unresolved() {
		jm := JSONMeta{ID: m.ID.String(), Origin: m.Origin}
		if m.Type != nil {
			jm.Type = term.Named(m.Context, m.Type).String()
		}
		out.Unresolved = append(out.Unresolved, jm)
	}
	return out
}

// WriteJSON writes reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []elab.Report) error {
	out := make([]JSONReport, len(reports))
	for i, r := range reports {
		out[i] = JSON(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
