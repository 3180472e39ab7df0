package docs

// defaultTemplate is materialized into the template directory on first use
// so operators can edit it without rebuilding.
const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>{{.Name}} — API Documentation</title>
  <style>
    body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2430; }
    h1 { border-bottom: 2px solid #e4e7ee; padding-bottom: .4rem; }
    .meta { color: #6a7184; }
    .endpoint, .node, .workflow { border: 1px solid #e4e7ee; border-radius: 6px; padding: .8rem 1rem; margin: .8rem 0; }
    .method { display: inline-block; min-width: 4rem; text-align: center; font-weight: 700; border-radius: 4px; padding: .1rem .5rem; background: #eef2ff; }
    code { background: #f4f5f9; padding: .1rem .3rem; border-radius: 3px; }
    .empty { color: #6a7184; font-style: italic; }
    table { border-collapse: collapse; width: 100%; margin-top: .5rem; }
    th, td { text-align: left; border-bottom: 1px solid #e4e7ee; padding: .3rem .5rem; }
  </style>
</head>
<body>
  <h1>{{.Name}}</h1>
  <p class="meta">Version {{.Version}}{{if .Description}} — {{.Description}}{{end}}</p>

  <h2>Endpoints</h2>
  {{if .Endpoints}}{{range .Endpoints}}
  <div class="endpoint">
    <span class="method">{{.Method}}</span> <code>{{.Path}}</code>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Parameters}}
    <table>
      <tr><th>Parameter</th><th>In</th><th>Type</th><th>Required</th><th>Description</th></tr>
      {{range .Parameters}}<tr><td>{{.Name}}</td><td>{{.In}}</td><td>{{.Type}}</td><td>{{if .Required}}yes{{else}}no{{end}}</td><td>{{.Description}}</td></tr>{{end}}
    </table>
    {{end}}
  </div>
  {{end}}{{else}}<p class="empty">No endpoints defined.</p>{{end}}

  <h2>Nodes</h2>
  {{if .Nodes}}{{range .Nodes}}
  <div class="node">
    <strong>{{.Name}}</strong> <code>{{.Type}}</code>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Inputs}}<p>Inputs: {{range .Inputs}}<code>{{.Name}}:{{.Type}}</code> {{end}}</p>{{end}}
    {{if .Outputs}}<p>Outputs: {{range .Outputs}}<code>{{.Name}}:{{.Type}}</code> {{end}}</p>{{end}}
  </div>
  {{end}}{{else}}<p class="empty">No nodes defined.</p>{{end}}

  <h2>Workflows</h2>
  {{if .Workflows}}{{range .Workflows}}
  <div class="workflow">
    <strong>{{.Name}}</strong>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Nodes}}<p>Execution order: {{range $i, $n := .Nodes}}{{if $i}} → {{end}}<code>{{$n}}</code>{{end}}</p>{{end}}
  </div>
  {{end}}{{else}}<p class="empty">No workflows defined.</p>{{end}}
</body>
</html>
`

// errorPage is returned when rendering fails; the serving layer always
// receives a renderable body.
const errorPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8" /><title>Documentation unavailable</title></head>
<body>
  <h1>Documentation unavailable</h1>
  <p>The documentation could not be rendered:</p>
  <pre>%s</pre>
</body>
</html>
`
