// Package feed renders answers as an RSS 2.0 channel.
package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/lysyi3m/moodlehack/app/markdown"
	"github.com/lysyi3m/moodlehack/app/model"
)

type Channel struct {
	Title       string
	Description string
	Language    string
}

type Generator struct {
	baseURL  string
	version  string
	renderer *markdown.Renderer
	printer  *message.Printer
}

func NewGenerator(baseURL, version string, renderer *markdown.Renderer, printer *message.Printer) *Generator {
	return &Generator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		version:  version,
		renderer: renderer,
		printer:  printer,
	}
}

// Run renders answers, most recently updated first, as an RSS document.
func (g *Generator) Run(ctx context.Context, channel Channel, answers []model.Answer) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", g.baseURL+"/", 4)
	g.writeElement(&buf, "description", channel.Description, 4)

	selfLink := g.baseURL + "/api/v1/feed.xml"
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now()
	if len(answers) > 0 {
		lastBuildDate = answers[0].Updated
		for _, answer := range answers[1:] {
			if answer.Updated.After(lastBuildDate) {
				lastBuildDate = answer.Updated
			}
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("moodlehack/%s", g.version), 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	for i := range answers {
		g.writeItem(ctx, &buf, &answers[i])
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(ctx context.Context, buf *bytes.Buffer, answer *model.Answer) {
	link := fmt.Sprintf("%s/answers/%d", g.baseURL, answer.ID)

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"true\">")
	xml.EscapeText(buf, []byte(link))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", answer.Question, 6)
	g.writeElement(buf, "link", link, 6)

	description := fmt.Sprintf("%s · %s", answer.PeriodDisplay(g.printer), answer.StatusDisplay(g.printer))
	g.writeElement(buf, "description", description, 6)

	if content := g.renderer.Render(ctx, answer.Answer); content != "" {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(string(content), "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", answer.Updated.Format(time.RFC1123Z), 6)

	if answer.Category != nil {
		g.writeElement(buf, "category", answer.Category.Name, 6)
	}
	g.writeElement(buf, "category", answer.Tag, 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
