package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type noticeData struct {
	Content     template.HTML
	CompanyName string
}

// RenderNotice wraps plain notification text in the branded HTML shell.
// Line breaks in the content become <br> tags; everything else is escaped.
func RenderNotice(content, companyName string) (string, error) {
	escaped := template.HTMLEscapeString(strings.TrimSpace(content))
	body := strings.ReplaceAll(escaped, "\n", "<br>")

	tmpl, err := template.ParseFS(templateFS, "templates/claim_notice.html")
	if err != nil {
		return "", fmt.Errorf("parse notice template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, noticeData{
		Content:     template.HTML(body),
		CompanyName: companyName,
	}); err != nil {
		return "", fmt.Errorf("execute notice template: %w", err)
	}
	return buf.String(), nil
}
