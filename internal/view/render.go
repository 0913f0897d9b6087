package view

import (
	"html/template"
	"io"

	"booklog/internal/models"
)

var funcs = template.FuncMap{"glyph": Glyph}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><title>Dashboard</title></head>
<body>
<main class="dashboard">
  <section class="stats-grid">
  {{- range .Cards }}
    <div class="stat-card">
      <span class="stat-icon" data-stat-icon="{{ .Icon }}">{{ glyph .Icon }}</span>
      <p class="stat-label">{{ .Label }}</p>
      <p class="stat-value">{{ .Value }}</p>
    </div>
  {{- end }}
  </section>
</main>
</body>
</html>
`))

var timelineTmpl = template.Must(template.New("timeline").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><title>{{ .Book.Title }}</title></head>
<body>
<main class="book-timeline">
  <h1>{{ .Book.Title }}</h1>
  <ol class="timeline">
  {{- range .Milestones }}
    <li class="timeline-entry" data-milestone="{{ .Label }}">
      <span class="milestone-icon" data-icon="{{ .Icon }}">{{ glyph .Icon }}</span>
      <p class="milestone-label">{{ .Label }}</p>
      <time class="milestone-date">{{ .DateText }}</time>
    </li>
  {{- end }}
  </ol>
</main>
</body>
</html>
`))

// RenderDashboard writes the stat-card grid for a summary.
func RenderDashboard(w io.Writer, s models.Summary) error {
	return dashboardTmpl.Execute(w, struct{ Cards []StatCard }{Cards(s)})
}

// RenderTimeline writes the lifecycle timeline for one book.
func RenderTimeline(w io.Writer, b models.Book) error {
	return timelineTmpl.Execute(w, struct {
		Book       models.Book
		Milestones []Milestone
	}{b, Milestones(b)})
}
