package export

import (
	"bytes"
	"html/template"
)

var htmlTemplate = template.Must(template.New("export").Funcs(template.FuncMap{
	"blocks": parseBlocks,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; line-height: 1.55; }
header { border-bottom: 1px solid #d0d7de; margin-bottom: 2rem; }
.meta { color: #656d76; font-size: .85rem; }
dl.profile dt { font-weight: 600; margin-top: .6rem; }
dl.profile dd { margin-left: 0; }
section.output { border-top: 1px solid #d0d7de; padding-top: 1rem; margin-top: 2rem; }
pre { background: #f6f8fa; padding: .75rem; overflow-x: auto; }
nav ol { padding-left: 1.2rem; }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
{{with .Project}}{{if .WebsiteURL}}<p class="meta">Source: <a href="{{.WebsiteURL}}">{{.WebsiteURL}}</a></p>{{end}}{{end}}
<p class="meta">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
</header>
{{if .Outputs}}<nav><ol>{{range .Outputs}}<li><a href="#{{.ID}}">{{.Title}}</a></li>{{end}}</ol></nav>{{end}}
{{if .Profile}}<section class="profile">
<h2>Business profile</h2>
<dl class="profile">{{range .Profile}}
<dt>{{.Label}}</dt><dd>{{.Value}}</dd>{{end}}
</dl>
</section>{{end}}
{{range .Outputs}}<section class="output" id="{{.ID}}">
<h2>{{.Title}}</h2>
<p class="meta">{{.Type}} &middot; {{.Language}} &middot; {{.CreatedAt.Format "2006-01-02"}}</p>
{{range blocks .Content}}{{if .IsHeading}}{{if le .Level 1}}<h3>{{.Text}}</h3>{{else if eq .Level 2}}<h4>{{.Text}}</h4>{{else}}<h5>{{.Text}}</h5>{{end}}
{{else if .IsBullet}}<p>&bull; {{.Text}}</p>
{{else if .IsCode}}<pre>{{.Text}}</pre>
{{else if .IsBlank}}{{else}}<p>{{.Text}}</p>
{{end}}{{end}}</section>
{{end}}
</body>
</html>
`))

// HTMLRenderer renders a self-contained HTML page.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Extension() string { return ".html" }

// Render executes the page template.
func (r *HTMLRenderer) Render(b *Bundle) ([]byte, error) {
	data := struct {
		*Bundle
		Title   string
		Profile []profileRow
	}{Bundle: b, Title: b.title(), Profile: profileRows(b.Profile)}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
