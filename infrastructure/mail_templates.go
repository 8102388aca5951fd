package infrastructure

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"nrro-site/domain"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!doctype html><html><body style="font-family:Helvetica,Arial,sans-serif;color:#1a1a1a">{{template "content" .}}<p style="color:#777;font-size:12px">NRRO · Navarro Tax Legal</p></body></html>`

func mustTemplate(content string) *template.Template {
	t := template.Must(template.New("layout").Option("missingkey=zero").Parse(layout))
	template.Must(t.New("content").Parse(content))
	return t
}

// Staff alerts are internal and only exist in Spanish.
var mailTemplates = map[string]map[domain.Locale]mailTemplate{
	domain.TemplateLeadConfirmation: {
		domain.LocaleES: {"Hemos recibido tu solicitud", mustTemplate(`<p>Hola {{.name}},</p><p>Gracias por contactar con NRRO. Un asesor revisará tu solicitud y te responderá en menos de 24 horas laborables.</p><p>Referencia: <strong>{{.reference}}</strong></p>`)},
		domain.LocaleCA: {"Hem rebut la teva sol·licitud", mustTemplate(`<p>Hola {{.name}},</p><p>Gràcies per contactar amb NRRO. Un assessor revisarà la teva sol·licitud i et respondrà en menys de 24 hores laborables.</p><p>Referència: <strong>{{.reference}}</strong></p>`)},
		domain.LocaleEN: {"We have received your request", mustTemplate(`<p>Hi {{.name}},</p><p>Thank you for contacting NRRO. An advisor will review your request and reply within one business day.</p><p>Reference: <strong>{{.reference}}</strong></p>`)},
	},
	domain.TemplateLeadStaffAlert: {
		domain.LocaleES: {"[{{.priority}}] Nuevo lead {{.kind}}: {{.name}}", mustTemplate(`<h2>Nuevo lead ({{.kind}})</h2><table>
<tr><td>Nombre</td><td>{{.name}}</td></tr>
<tr><td>Email</td><td>{{.email}}</td></tr>
<tr><td>Teléfono</td><td>{{.phone}}</td></tr>
<tr><td>Empresa</td><td>{{.company}}</td></tr>
<tr><td>Puntuación</td><td>{{.score}} ({{.priority}})</td></tr>
<tr><td>Mensaje</td><td>{{.message}}</td></tr>
<tr><td>Referencia</td><td>{{.reference}}</td></tr>
</table>`)},
	},
	domain.TemplateCandidateConfirmation: {
		domain.LocaleES: {"Candidatura recibida: {{.position}}", mustTemplate(`<p>Hola {{.name}},</p><p>Hemos recibido tu candidatura para <strong>{{.position}}</strong>. Nuestro equipo de personas la revisará y te contactará si tu perfil encaja.</p>`)},
		domain.LocaleCA: {"Candidatura rebuda: {{.position}}", mustTemplate(`<p>Hola {{.name}},</p><p>Hem rebut la teva candidatura per a <strong>{{.position}}</strong>. El nostre equip de persones la revisarà i et contactarà si el teu perfil encaixa.</p>`)},
		domain.LocaleEN: {"Application received: {{.position}}", mustTemplate(`<p>Hi {{.name}},</p><p>We have received your application for <strong>{{.position}}</strong>. Our people team will review it and get in touch if your profile is a fit.</p>`)},
	},
	domain.TemplateCandidateStaffAlert: {
		domain.LocaleES: {"Nueva candidatura: {{.position}} - {{.name}}", mustTemplate(`<h2>Nueva candidatura</h2><table>
<tr><td>Nombre</td><td>{{.name}}</td></tr>
<tr><td>Email</td><td>{{.email}}</td></tr>
<tr><td>Puesto</td><td>{{.position}}</td></tr>
<tr><td>LinkedIn</td><td>{{.linkedin}}</td></tr>
<tr><td>CV</td><td>{{.resume}}</td></tr>
</table>`)},
	},
}

// RenderNotification falls back to Spanish when a template has no version in
// the requested locale.
func RenderNotification(n domain.Notification) (subject, html string, err error) {
	byLocale, ok := mailTemplates[n.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", n.Template)
	}
	tpl, ok := byLocale[n.Locale]
	if !ok {
		tpl = byLocale[domain.LocaleES]
	}

	subj, err := texttemplate.New("subject").Option("missingkey=zero").Parse(tpl.subject)
	if err != nil {
		return "", "", err
	}
	var sb bytes.Buffer
	if err := subj.Execute(&sb, n.Data); err != nil {
		return "", "", fmt.Errorf("render subject %s: %w", n.Template, err)
	}

	var hb bytes.Buffer
	if err := tpl.body.Execute(&hb, n.Data); err != nil {
		return "", "", fmt.Errorf("render body %s: %w", n.Template, err)
	}
	return sb.String(), hb.String(), nil
}
