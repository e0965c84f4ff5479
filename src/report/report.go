// Package report prints the computed insights as titled text blocks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shoppingtrends/src/analyzer"
)

var titleColor = color.New(color.FgCyan, color.Bold)

// Title derives the display title of an insight key: underscores become
// spaces and each word is title cased.
func Title(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// Write prints one block per insight in computation order: the derived title
// followed by the insight's textual rendering.
func Write(w io.Writer, insights *analyzer.Insights) {
	for _, e := range insights.Entries() {
		fmt.Fprintf(w, "\n%s:\n", titleColor.Sprint(Title(e.Key)))
		fmt.Fprintln(w, strings.TrimRight(e.Value.String(), "\n"))
	}
}
