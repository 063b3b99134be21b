package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log"
	"path"
	"strings"
	texttemplate "text/template"

	"surat_pernyataan_go/config"
	"surat_pernyataan_go/models"
	"surat_pernyataan_go/services/i18n"

	"github.com/resend/resend-go/v2"
)

//go:embed emails/*
var emailTemplates embed.FS

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []EmailAttachment
}

// EmailAttachment is a file sent along with an email
type EmailAttachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// loadTemplate renders emails/<name>_<lang>.html and .txt, falling back to
// emails/<name>.html and .txt (Indonesian) when no localized file exists
func loadTemplate(templateName string, lang string, data interface{}) (html string, text string, err error) {
	read := func(ext string) (string, []byte, error) {
		p := path.Join("emails", fmt.Sprintf("%s_%s%s", templateName, lang, ext))
		content, err := emailTemplates.ReadFile(p)
		if err != nil {
			p = path.Join("emails", templateName+ext)
			content, err = emailTemplates.ReadFile(p)
			if err != nil {
				return "", nil, fmt.Errorf("failed to read template %s: %v", p, err)
			}
		}
		return p, content, nil
	}

	p, content, err := read(".html")
	if err != nil {
		return "", "", err
	}
	htmlTmpl, err := htmltemplate.New(path.Base(p)).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", p, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", p, err)
	}

	p, content, err = read(".txt")
	if err != nil {
		return "", "", err
	}
	textTmpl, err := texttemplate.New(path.Base(p)).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %v", p, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %v", p, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("[INFO] Email logged successfully (test mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	for _, a := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:     a.Content,
			Filename:    a.FileName,
			ContentType: a.ContentType,
		})
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("[INFO] Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	for _, a := range email.Attachments {
		log.Printf("Attachment: %s (%s, %d bytes)", a.FileName, a.ContentType, len(a.Content))
	}
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// StatementEmailData contains data for the statement email template
type StatementEmailData struct {
	Title    string
	Nama     string
	Nomor    string
	Pages    int
	FileName string
	AppName  string
}

// BuildStatementEmail builds the email that delivers an exported letter
func BuildStatementEmail(ctx context.Context, toEmail string, letter models.LetterData, pdf []byte) (*Email, error) {
	lang := i18n.GetLocale(ctx)
	nama := letter.Nama
	if nama == "" {
		nama = DefaultHistoryName
	}

	data := StatementEmailData{
		Title:    letter.Title(),
		Nama:     nama,
		Nomor:    letter.NomorSurat,
		Pages:    BuildDocument(letter).PageCount(),
		FileName: letter.FileName() + ".pdf",
		AppName:  i18n.T(ctx, "app.title"),
	}

	htmlBody, textBody, err := loadTemplate("statement", lang, data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To: []string{toEmail},
		Subject: i18n.T(ctx, "email.subject", map[string]interface{}{
			"title": data.Title,
			"nama":  nama,
		}),
		HTMLBody: htmlBody,
		TextBody: textBody,
		Attachments: []EmailAttachment{{
			FileName:    data.FileName,
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}, nil
}
