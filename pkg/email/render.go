package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Content is a rendered notification.
type Content struct {
	Subject string
	HTML    string
}

// Link points at an uploaded attachment.
type Link struct {
	Name string
	URL  string
}

// ContactEmail holds sanitized contact request fields.
type ContactEmail struct {
	Company     string
	Name        string
	Email       string
	Phone       string
	RequestType string
	Urgency     string
	Details     string
	File        *Link
}

// JobEmail holds sanitized job application fields.
type JobEmail struct {
	FullName     string
	Email        string
	Phone        string
	Status       string
	Position     string
	Skills       string
	Software     string
	Experience   string
	Availability string
	Message      string
	CV           *Link
}

var funcs = template.FuncMap{
	"nl2br": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
}

var contactTemplate = template.Must(template.New("contact").Funcs(funcs).Parse(`
<h2>Nouvelle demande de contact</h2>
<p><strong>Entreprise:</strong> {{.Company}}</p>
<p><strong>Contact:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Téléphone:</strong> {{.Phone}}</p>
<p><strong>Type de demande:</strong> {{.RequestType}}</p>
<p><strong>Urgence:</strong> {{.Urgency}}</p>
<p><strong>Détails:</strong></p>
<p>{{nl2br .Details}}</p>
{{with .File}}<p><strong>Fichier joint:</strong> <a href="{{.URL}}">{{.Name}}</a></p>{{end}}
`))

var jobTemplate = template.Must(template.New("job").Funcs(funcs).Parse(`
<h2>Nouvelle candidature</h2>
<p><strong>Nom:</strong> {{.FullName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Téléphone:</strong> {{.Phone}}</p>
<p><strong>Statut:</strong> {{.Status}}</p>
<p><strong>Poste souhaité:</strong> {{.Position}}</p>
<p><strong>Compétences:</strong> {{.Skills}}</p>
<p><strong>Logiciels:</strong> {{.Software}}</p>
<p><strong>Expérience:</strong> {{.Experience}}</p>
<p><strong>Disponibilité:</strong> {{.Availability}}</p>
{{if .Message}}<p><strong>Message:</strong></p><p>{{nl2br .Message}}</p>{{end}}
{{with .CV}}<p><strong>CV:</strong> <a href="{{.URL}}">{{.Name}}</a></p>{{end}}
`))

// bodyPolicy keeps the handful of tags the templates emit; links must be http(s).
var bodyPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h2", "p", "strong", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(false)
	return p
}()

// RenderContact builds the contact request notification.
func RenderContact(data ContactEmail) (Content, error) {
	html, err := render(contactTemplate, data)
	if err != nil {
		return Content{}, err
	}
	return Content{
		Subject: "[MecaHUB Pro] Nouvelle demande de contact - " + data.Company,
		HTML:    html,
	}, nil
}

// RenderJob builds the job application notification.
func RenderJob(data JobEmail) (Content, error) {
	html, err := render(jobTemplate, data)
	if err != nil {
		return Content{}, err
	}
	return Content{
		Subject: "[MecaHUB Pro] Nouvelle candidature - " + data.Position,
		HTML:    html,
	}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return strings.TrimSpace(bodyPolicy.Sanitize(body.String())), nil
}
