// Package htmltable recovers HTML tables in model output as Markdown pipe
// tables, which the markdown_table parser then reads.
package htmltable

import (
	stderrors "errors"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/nishanthkj/llmkit/internal/detector"
)

// ErrNoTable is returned when the converted document holds no pipe table.
var ErrNoTable = stderrors.New("no table in HTML input")

var tableTag = regexp.MustCompile(`(?i)<table[\s>]`)

// The converter guards its state with a mutex and is shared by every call.
var conv = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(
			table.WithHeaderPromotion(true),
			table.WithSkipEmptyRows(true),
		),
	),
)

// Looks reports whether text is an HTML fragment that contains a table.
func Looks(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") && tableTag.MatchString(t)
}

// ToMarkdown converts an HTML fragment to Markdown. A table without <th>
// cells has its first row promoted to the header. The result is rejected
// with ErrNoTable unless it contains a header and separator line.
func ToMarkdown(html string) (string, error) {
	md, err := conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	if !detector.IsMarkdownTable(md) {
		return "", ErrNoTable
	}
	return md, nil
}
