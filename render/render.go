// Package render turns generator results into display text: wrapped plain
// text and score bars for the terminal, HTML for the web page.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/yuin/goldmark"

	"ai_creative_builder/generator"
)

// DisplayWidth is the column limit for wrapped text blocks.
const DisplayWidth = 80

const barWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	captionStyle = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	scoreLabel   = lipgloss.NewStyle().Width(16)
)

// Wrap wraps each paragraph to width columns and keeps blank lines.
func Wrap(s string, width int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, p := range lines {
		if strings.TrimSpace(p) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, wordwrap.String(strings.TrimRight(p, " \t"), width))
	}
	return strings.Join(out, "\n")
}

// OrDash shows an em dash for empty text.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return generator.UnknownMarker
	}
	return s
}

// DisplayID shows "?" for a variation without an id.
func DisplayID(id string) string {
	if id == "" {
		return "?"
	}
	return id
}

// MarkdownHTML converts markdown to HTML.
func MarkdownHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ScoreRow renders "label  [bar]  7/10".
func ScoreRow(label string, s generator.Score) string {
	bar := progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage(), progress.WithDefaultGradient())
	return fmt.Sprintf("%s %s  %s", scoreLabel.Render(label), bar.ViewAs(float64(s.Percent())/100), s.String())
}

// Terminal renders a result for the CLI.
func Terminal(res generator.Result, model string) string {
	var b strings.Builder
	switch {
	case res.Err != nil:
		b.WriteString(errorStyle.Render("I had trouble parsing the AI response as JSON. Showing raw output instead."))
		b.WriteString("\n")
		b.WriteString(captionStyle.Render(res.Err.Error()))
		b.WriteString("\n\n")
		b.WriteString(res.Raw)
		b.WriteString("\n")
	case res.Mode == generator.ModeFreeform:
		b.WriteString(titleStyle.Render("AI-generated creative"))
		b.WriteString("\n\n")
		b.WriteString(Wrap(res.Text, DisplayWidth))
		b.WriteString("\n")
	case res.Empty():
		b.WriteString(warnStyle.Render("No variations came back from the model."))
		b.WriteString("\n")
	default:
		b.WriteString(titleStyle.Render("AI-generated creatives"))
		b.WriteString("\n")
		for _, v := range res.Variations {
			writeVariation(&b, v)
		}
	}
	if model != "" {
		b.WriteString("\n")
		b.WriteString(captionStyle.Render("Model: " + model))
		b.WriteString("\n")
	}
	return b.String()
}

func writeVariation(b *strings.Builder, v generator.Variation) {
	fmt.Fprintf(b, "\n%s\n\n", titleStyle.Render("Variation "+DisplayID(v.ID)))
	section := func(label, text string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(OrDash(Wrap(text, DisplayWidth)))
		b.WriteString("\n\n")
	}
	section("Headline", v.Headline)
	section("Primary Text", v.PrimaryText)
	section("Image Concept", v.ImageConcept)
	section("DALL·E Prompt", v.ImagePrompt)
	b.WriteString(labelStyle.Render("Creative Scores (1–10)"))
	b.WriteString("\n")
	for _, f := range generator.ScoreFields {
		b.WriteString(ScoreRow(f.Label, v.Scores.Get(f.Key)))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", 40))
	b.WriteString("\n")
}
