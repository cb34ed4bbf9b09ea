// Package renderer turns computation results into markdown reports.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"

	"github.com/etnz/taxreform"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

// RenderResult renders a before/after comparison as markdown.
func RenderResult(r *taxreform.Result) string {
	partials := map[string]string{
		"result_regime": "result_regime.md",
		"result_rates":  "result_rates.md",
	}
	return renderTemplate("result", "result.md", partials, r)
}

// RenderEstimate renders a simplified estimation as markdown.
func RenderEstimate(e *taxreform.Estimation) string {
	return renderTemplate("estimate", "estimate.md", nil, e)
}

// RenderTables renders reference tables as markdown.
func RenderTables(t taxreform.Tables) string {
	return renderTemplate("tables", "tables.md", nil, newTablesView(t))
}

// HTML converts a markdown report into an HTML fragment.
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("cannot convert markdown: %w", err)
	}
	return buf.String(), nil
}

var funcs = template.FuncMap{
	"verb":   verb,
	"regime": newRegimeView,
}

// verb describes the effect of the reform in a sentence.
func verb(c taxreform.Classification) string {
	switch c {
	case taxreform.Increase:
		return "increases"
	case taxreform.Decrease:
		return "decreases"
	default:
		return "does not change"
	}
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// regimeView is the data of the result_regime partial.
type regimeView struct {
	Title    string
	Entries  []taxreform.TaxEntry
	Exits    []taxreform.TaxExit
	TotalDue taxreform.Amount
}

func newRegimeView(title string, entries []taxreform.TaxEntry, exits []taxreform.TaxExit, total taxreform.Amount) regimeView {
	return regimeView{Title: title, Entries: entries, Exits: exits, TotalDue: total}
}

// tablesView flattens the reference tables maps into sorted rows.
type tablesView struct {
	Reform          taxreform.ReformTables
	Activities      []taxreform.Activity
	Rows            []segmentRow
	CostBands       []costBandRow
	DefaultCostBand taxreform.Percent
}

type segmentRow struct {
	Segment   taxreform.Segment
	Current   []taxreform.Percent
	IBS       taxreform.Percent
	CBS       taxreform.Percent
	Reduction taxreform.Percent
}

type costBandRow struct {
	Band    taxreform.CostBand
	Percent taxreform.Percent
}

func newTablesView(t taxreform.Tables) tablesView {
	s := t.Simplified
	v := tablesView{Reform: t.Reform, DefaultCostBand: s.DefaultCostBand}

	seen := make(map[taxreform.Activity]bool)
	var segments []taxreform.Segment
	for seg, row := range s.Current {
		segments = append(segments, seg)
		for act := range row {
			if !seen[act] {
				seen[act] = true
				v.Activities = append(v.Activities, act)
			}
		}
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i] < segments[j] })
	sort.Slice(v.Activities, func(i, j int) bool { return v.Activities[i] < v.Activities[j] })

	for _, seg := range segments {
		rates := s.Rates(seg, s.DefaultActivity)
		row := segmentRow{Segment: seg, IBS: rates.IBS, CBS: rates.CBS, Reduction: rates.SectorReduction}
		for _, act := range v.Activities {
			row.Current = append(row.Current, s.Rates(seg, act).Current)
		}
		v.Rows = append(v.Rows, row)
	}

	for band, p := range s.CostBands {
		v.CostBands = append(v.CostBands, costBandRow{Band: band, Percent: p})
	}
	sort.Slice(v.CostBands, func(i, j int) bool { return v.CostBands[i].Band < v.CostBands[j].Band })
	return v
}
