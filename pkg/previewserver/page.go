package previewserver

import (
	"github.com/cbroglie/mustache"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>pgmview{{#source}} - {{source}}{{/source}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
img { image-rendering: pixelated; border: 1px solid #ccc; max-width: 90vw; }
dt { font-weight: bold; }
</style>
</head>
<body>
<h1>pgmview</h1>
{{#image}}
<dl>
<dt>Source</dt><dd>{{source}}</dd>
<dt>Format</dt><dd>{{format}} ({{name}})</dd>
<dt>Size</dt><dd>{{width}} x {{height}}</dd>
<dt>Max value</dt><dd>{{maxValue}}</dd>
</dl>
<p><img src="image.png" alt="{{source}}"></p>
<p><a href="image.png">PNG</a> | <a href="image.txt">text</a></p>
{{/image}}
{{^image}}
<p>No image loaded.</p>
{{/image}}
<h2>Render a file</h2>
<form action="render?as=png" method="post" enctype="multipart/form-data">
<input type="file" name="file" accept=".pgm,.pnm">
<button type="submit">Render</button>
</form>
</body>
</html>
`

type page struct {
	tmpl *mustache.Template
}

func newPage() (*page, error) {
	tmpl, err := mustache.ParseString(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &page{tmpl: tmpl}, nil
}

func (p *page) render(s *server) (string, error) {
	data := map[string]any{}
	if s.image != nil {
		data["source"] = s.source
		data["image"] = map[string]any{
			"format":   s.image.Format.String(),
			"name":     s.image.Format.Name(),
			"width":    s.image.Width,
			"height":   s.image.Height,
			"maxValue": s.image.MaxValue,
		}
	}
	return p.tmpl.Render(data)
}
