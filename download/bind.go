package download

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/source"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
)

// part is the set of chapters bound into one file.
type part struct {
	Name     string
	Volume   *source.Volume
	Contents []*Content
}

func parts(job *Job, contents []*Content) []*part {
	if !job.PackByVolume {
		return []*part{{Contents: contents}}
	}

	byVolume := lo.GroupBy(contents, func(c *Content) int { return c.Volume })
	var out []*part
	for _, id := range lo.Uniq(lo.Map(contents, func(c *Content, _ int) int { return c.Volume })) {
		volume, ok := job.Novel.VolumeOf(byVolume[id][0].Chapter)
		if !ok {
			volume = &source.Volume{ID: id}
		}
		out = append(out, &part{
			Name:     fmt.Sprintf("v%d", id),
			Volume:   volume,
			Contents: byVolume[id],
		})
	}
	return out
}

func bind(job *Job, contents []*Content) ([]string, error) {
	var files []string
	for _, p := range parts(job, contents) {
		for _, f := range job.Formats {
			data, err := render(f, job.Novel, p)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", f, err)
			}

			path := job.outputPath(f, p.Name)
			if err := filesystem.API().MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}
			if err := filesystem.API().WriteFile(path, data, 0o644); err != nil {
				return nil, err
			}
			files = append(files, path)
		}
	}
	return files, nil
}

func render(f Format, novel *source.Novel, p *part) ([]byte, error) {
	switch f {
	case JSON:
		return renderJSON(novel, p)
	case Text:
		return renderText(novel, p)
	case HTML:
		return renderHTML(novel, p)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

func renderJSON(novel *source.Novel, p *part) ([]byte, error) {
	return json.MarshalIndent(struct {
		Title    string         `json:"title"`
		URL      string         `json:"url"`
		Author   string         `json:"author,omitempty"`
		Volume   *source.Volume `json:"volume,omitempty"`
		Chapters []*Content     `json:"chapters"`
	}{novel.Title, novel.URL, novel.Author, p.Volume, p.Contents}, "", "  ")
}

const textWidth = 80

// plain extracts paragraphs from an HTML chapter body.
func plain(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	var paragraphs []string
	blocks := doc.Find("p, h1, h2, h3, h4, li, blockquote")
	if blocks.Length() == 0 {
		blocks = doc.Find("body")
	}
	blocks.Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			paragraphs = append(paragraphs, wordwrap.String(text, textWidth))
		}
	})
	return strings.Join(paragraphs, "\n\n"), nil
}

func renderText(novel *source.Novel, p *part) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(novel.Title + "\n")
	if novel.Author != "" {
		buf.WriteString("by " + novel.Author + "\n")
	}
	if p.Volume != nil {
		buf.WriteString(p.Volume.String() + "\n")
	}

	for _, c := range p.Contents {
		text, err := plain(c.Body)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", c.ID, err)
		}
		fmt.Fprintf(&buf, "\n\n%s\n%s\n\n%s\n", c.Chapter, strings.Repeat("=", len([]rune(c.Chapter.String()))), text)
	}
	return buf.Bytes(), nil
}

var page = template.Must(template.New("novel").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Novel.Title}}{{with .Part.Volume}} - {{.}}{{end}}</title>
</head>
<body>
<h1>{{.Novel.Title}}</h1>
{{with .Novel.Author}}<p class="author">{{.}}</p>{{end}}
{{with .Part.Volume}}<h2>{{.}}</h2>{{end}}
{{range .Part.Contents}}<section id="chapter-{{.ID}}">
<h3>{{.Chapter}}</h3>
{{.Safe}}
</section>
{{end}}</body>
</html>
`))

// Safe returns the body as trusted markup.
func (c *Content) Safe() template.HTML {
	return template.HTML(c.Body)
}

func renderHTML(novel *source.Novel, p *part) ([]byte, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Novel *source.Novel
		Part  *part
	}{novel, p})
	return buf.Bytes(), err
}
