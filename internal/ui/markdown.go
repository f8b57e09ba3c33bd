package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/joshiujjwal/lab37hw/internal/api"
)

// RecipeMarkdown formats a recipe as a markdown document.
func RecipeMarkdown(r api.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(r.Title))
	fmt.Fprintf(&b, "**Yield:** %s\n\n", escapeMarkdown(r.YieldAmount))
	if ts := r.UpdatedTime(); !ts.IsZero() {
		fmt.Fprintf(&b, "_Updated %s_\n\n", ts.Local().Format("2006-01-02 15:04"))
	}

	b.WriteString("## Ingredients\n\n")
	if len(r.Ingredients) == 0 {
		b.WriteString("_None listed._\n\n")
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s %s %s\n",
			escapeMarkdown(ing.Quantity.String()), escapeMarkdown(ing.Unit), escapeMarkdown(ing.Name))
	}

	b.WriteString("\n## Instructions\n\n")
	b.WriteString(hardBreaks(r.Instructions))
	b.WriteString("\n")
	return b.String()
}

// hardBreaks keeps the author's line breaks, which markdown would otherwise
// fold into one paragraph.
func hardBreaks(text string) string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeMarkdown(strings.TrimRight(line, " \t"))
	}
	return strings.Join(lines, "  \n")
}

var (
	inlineEscaper = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
		"<", `\<`, ">", `\>`, "|", `\|`, "~", `\~`, "#", `\#`,
	)
	orderedMarker = regexp.MustCompile(`^(\s*\d+)([.)])(\s|$)`)
)

// escapeMarkdown makes user text render literally, including text that would
// otherwise start a list or heading.
func escapeMarkdown(text string) string {
	text = inlineEscaper.Replace(text)
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed != "" && strings.ContainsRune("-+=", rune(trimmed[0])) {
		indent := text[:len(text)-len(trimmed)]
		return indent + `\` + trimmed
	}
	return orderedMarker.ReplaceAllString(text, `$1\$2$3`)
}

// RenderRecipe renders r for a terminal of the given width. An empty style
// lets glamour detect the terminal background. The raw markdown is returned
// if rendering fails.
func RenderRecipe(r api.Recipe, width int, style string) string {
	md := RecipeMarkdown(r)

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(maxInt(width, 20))}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
