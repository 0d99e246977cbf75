package notify

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/smtp"
	texttemplate "text/template"
)

// The five flows share one table layout; the template name only selects the
// lead-in line, so a single pair of templates serves all of them.
const htmlBody = `<html><body>
<h3>{{.Title}}</h3>
{{if .TableTitle}}<p>{{.TableTitle}}{{if .Owner}} (owner: {{.Owner}}){{end}}{{if .Reviewer}} (reviewer: {{.Reviewer}}){{end}}</p>{{end}}
{{if .ChangedBy}}<p>Changed by: {{.ChangedBy}} (reviewed: {{.IsReviewed}})</p>{{end}}
<table border="1">
<tr><th>Field</th><th>Previous</th><th>Current</th></tr>
{{range .Rows}}<tr{{if .IsChanged}} style="font-weight:bold"{{end}}><td>{{.Name}}</td><td>{{if .IsChanged}}{{.Pre}}{{end}}</td><td>{{.Post}}</td></tr>
{{end}}</table>
</body></html>`

const textBody = `{{.Title}}
{{if .TableTitle}}{{.TableTitle}}{{if .Owner}} (owner: {{.Owner}}){{end}}{{if .Reviewer}} (reviewer: {{.Reviewer}}){{end}}{{end}}{{if .ChangedBy}}Changed by: {{.ChangedBy}} (reviewed: {{.IsReviewed}}){{end}}

{{range .Rows}}{{.Name}}: {{if .IsChanged}}{{.Pre}} -> {{end}}{{.Post}}
{{end}}`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("mail").Parse(htmlBody))
	textTmpl = texttemplate.Must(texttemplate.New("mail").Parse(textBody))
)

// SMTP delivers messages through a plain SMTP relay as multipart/alternative
// mails with a text and an HTML part.
type SMTP struct {
	addr string
	from string
}

func NewSMTP(addr, from string) *SMTP {
	return &SMTP{addr: addr, from: from}
}

// render executes both template variants for a message context.
func render(msgCtx Context) (html, text string, err error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, msgCtx); err != nil {
		return "", "", fmt.Errorf("render html mail: %w", err)
	}
	if err := textTmpl.Execute(&textBuf, msgCtx); err != nil {
		return "", "", fmt.Errorf("render text mail: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

func (s *SMTP) Send(_ context.Context, msg Message) error {
	html, text, err := render(msg.Context)
	if err != nil {
		return err
	}

	const boundary = "ordr-mail-boundary"
	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", s.from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&body, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, text)
	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, html)
	fmt.Fprintf(&body, "--%s--\r\n", boundary)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{msg.Recipient}, body.Bytes()); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.Recipient, err)
	}
	return nil
}
