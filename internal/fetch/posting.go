package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is the job posting read from a page.
type Posting struct {
	Title       string
	Company     string
	Description string
}

// ExtractPosting reads the posting from page HTML. An embedded schema.org
// JobPosting wins; otherwise the board's selectors pick the description,
// then the generic ones, then <body>.
func ExtractPosting(page string, board Board) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Title and company often sit in the header that noise removal drops.
	title, company := pageTitle(doc, board), pageCompany(doc, board)

	if p, ok := structuredPosting(doc); ok {
		if p.Title == "" {
			p.Title = title
		}
		if p.Company == "" {
			p.Company = company
		}
		return p, nil
	}

	doc.Find(strings.Join(append(slices.Clone(pageNoise), board.Noise...), ", ")).Remove()

	content := firstMatch(doc.Selection, append(slices.Clone(board.Description), genericDescription...))
	if content == nil {
		content = doc.Find("body")
	}
	return &Posting{Title: title, Company: company, Description: blockText(content)}, nil
}

func pageTitle(doc *goquery.Document, board Board) string {
	if sel := firstMatch(doc.Selection, board.Title); sel != nil {
		return oneLine(sel.Text())
	}
	if og := doc.Find(`meta[property="og:title"]`).AttrOr("content", ""); og != "" {
		return oneLine(og)
	}
	return oneLine(doc.Find("title").First().Text())
}

func pageCompany(doc *goquery.Document, board Board) string {
	if sel := firstMatch(doc.Selection, board.Company); sel != nil {
		return oneLine(sel.Text())
	}
	return oneLine(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", ""))
}

// firstMatch returns the first selector match that carries text.
func firstMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, s := range selectors {
		sel := root.Find(s).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			return sel
		}
	}
	return nil
}

const blockElements = "br, p, li, h1, h2, h3, h4, h5, h6, div, section, tr, ul, ol"

// blockText flattens a selection to text with one line per block element.
func blockText(sel *goquery.Selection) string {
	sel.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		if line = oneLine(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ldJobPosting is the part of a schema.org JobPosting SkillMatch reads.
type ldJobPosting struct {
	Type               json.RawMessage `json:"@type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	HiringOrganization ldOrganization  `json:"hiringOrganization"`
}

func (p ldJobPosting) isJobPosting() bool {
	var one string
	if json.Unmarshal(p.Type, &one) == nil {
		return one == "JobPosting"
	}
	var many []string
	if json.Unmarshal(p.Type, &many) == nil {
		return slices.Contains(many, "JobPosting")
	}
	return false
}

// ldOrganization accepts {"name": "..."} as well as a bare string.
type ldOrganization struct {
	Name string
}

func (o *ldOrganization) UnmarshalJSON(data []byte) error {
	var name string
	if json.Unmarshal(data, &name) == nil {
		o.Name = name
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &obj) == nil {
		o.Name = obj.Name
	}
	return nil
}

// structuredPosting reads the first JSON-LD JobPosting with a description.
func structuredPosting(doc *goquery.Document) (*Posting, bool) {
	var found *Posting
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, node := range ldNodes([]byte(s.Text())) {
			var lp ldJobPosting
			if json.Unmarshal(node, &lp) != nil || !lp.isJobPosting() {
				continue
			}
			desc := markupText(lp.Description)
			if desc == "" {
				continue
			}
			found = &Posting{
				Title:       oneLine(lp.Title),
				Company:     oneLine(lp.HiringOrganization.Name),
				Description: desc,
			}
			return false
		}
		return true
	})
	return found, found != nil
}

// ldNodes flattens a JSON-LD block: one node, an array of nodes or a @graph.
func ldNodes(data []byte) []json.RawMessage {
	data = bytes.TrimSpace(data)
	var list []json.RawMessage
	if json.Unmarshal(data, &list) == nil {
		return list
	}
	var graph struct {
		Graph []json.RawMessage `json:"@graph"`
	}
	if json.Unmarshal(data, &graph) == nil && len(graph.Graph) > 0 {
		return graph.Graph
	}
	return []json.RawMessage{data}
}

// markupText turns a JSON-LD description, which boards fill with HTML and
// sometimes with entity-escaped HTML, into plain lines.
func markupText(s string) string {
	if strings.Contains(s, "&lt;") {
		s = html.UnescapeString(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return oneLine(s)
	}
	return blockText(doc.Find("body"))
}
