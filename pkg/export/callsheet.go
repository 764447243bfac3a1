package export

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// CrewLine is one resolved crew row on a call sheet.
type CrewLine struct {
	Role   model.CrewRole
	Name   string
	Status model.AssignmentStatus
}

// CallSheetEntry is one production with its resolved crew.
type CallSheetEntry struct {
	Production model.Production
	Crew       []CrewLine
}

var callSheetTemplate = template.Must(template.New("callsheet").Funcs(template.FuncMap{
	"date": func(t interface{ Format(string) string }) string { return t.Format("Monday 2 January 2006") },
	"clock": func(t interface {
		Format(string) string
		IsZero() bool
	}) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("15:04")
	},
	"statusLabel": func(s model.AssignmentStatus) string { return model.AssignmentDisplayFor(s).Label },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 32px; color: #111; }
h1 { font-size: 22px; border-bottom: 2px solid #111; padding-bottom: 8px; }
h2 { font-size: 17px; margin-bottom: 2px; }
.meta { color: #555; font-size: 13px; margin-bottom: 8px; }
table { border-collapse: collapse; width: 100%; margin-bottom: 28px; }
th, td { border: 1px solid #ccc; padding: 6px 10px; font-size: 13px; text-align: left; }
th { background: #f3f4f6; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Entries}}
<h2>{{.Production.Name}}</h2>
<div class="meta">
{{date .Production.Date}} &middot; call {{clock .Production.CallTime}} &middot;
{{clock .Production.StartTime}}&ndash;{{clock .Production.EndTime}} &middot; {{.Production.Venue}}
{{- if .Production.LocationDetails}} ({{.Production.LocationDetails}}){{end}}
</div>
{{if .Crew}}
<table>
<tr><th>Role</th><th>Operator</th><th>Status</th></tr>
{{range .Crew}}<tr><td>{{.Role}}</td><td>{{.Name}}</td><td>{{statusLabel .Status}}</td></tr>
{{end}}
</table>
{{else}}<p class="meta">No crew assigned.</p>{{end}}
{{end}}
</body>
</html>
`))

type callSheetData struct {
	Title   string
	Entries []CallSheetEntry
}

// RenderCallSheet writes the call sheet HTML for the given productions.
func RenderCallSheet(w io.Writer, title string, entries []CallSheetEntry) error {
	if err := callSheetTemplate.Execute(w, callSheetData{Title: title, Entries: entries}); err != nil {
		return fmt.Errorf("failed to render call sheet: %w", err)
	}
	return nil
}

// WriteCallSheetFile renders the call sheet to a file at path.
func WriteCallSheetFile(path, title string, entries []CallSheetEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create call sheet file: %w", err)
	}
	defer file.Close()

	return RenderCallSheet(file, title, entries)
}
