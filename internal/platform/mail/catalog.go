package mail

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"gopkg.in/yaml.v3"
)

// Template names in templates.yaml.
const (
	TemplateActivation    = "activation"
	TemplatePasswordReset = "password_reset"
	TemplateTaskReminder  = "task_reminder"
)

//go:embed templates.yaml
var defaultTemplates []byte

type templateSource struct {
	Subject string `yaml:"subject"`
	Text    string `yaml:"text"`
	HTML    string `yaml:"html"`
}

type catalogFile struct {
	Templates map[string]templateSource `yaml:"templates"`
}

type compiledTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// Catalog holds the parsed email templates.
type Catalog struct {
	templates map[string]compiledTemplate
}

// DefaultCatalog parses the embedded templates.yaml.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultTemplates)
}

// ParseCatalog parses a YAML template catalog. Every template needs a
// subject and a text body; the html body is optional.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	c := &Catalog{templates: make(map[string]compiledTemplate, len(file.Templates))}
	for name, src := range file.Templates {
		if src.Subject == "" || src.Text == "" {
			return nil, fmt.Errorf("template %q needs a subject and a text body", name)
		}

		var (
			ct  compiledTemplate
			err error
		)
		if ct.subject, err = texttemplate.New(name + ".subject").Option("missingkey=error").Parse(src.Subject); err != nil {
			return nil, fmt.Errorf("template %q subject: %w", name, err)
		}
		if ct.text, err = texttemplate.New(name + ".text").Option("missingkey=error").Parse(src.Text); err != nil {
			return nil, fmt.Errorf("template %q text: %w", name, err)
		}
		if src.HTML != "" {
			if ct.html, err = htmltemplate.New(name + ".html").Option("missingkey=error").Parse(src.HTML); err != nil {
				return nil, fmt.Errorf("template %q html: %w", name, err)
			}
		}
		c.templates[name] = ct
	}
	return c, nil
}

// Render executes the named template for recipient to.
func (c *Catalog) Render(name, to string, data any) (Message, error) {
	ct, ok := c.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	msg := Message{To: to}
	var buf bytes.Buffer

	if err := ct.subject.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	msg.Subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := ct.text.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	msg.Text = buf.String()

	if ct.html != nil {
		buf.Reset()
		if err := ct.html.Execute(&buf, data); err != nil {
			return Message{}, fmt.Errorf("render %s html: %w", name, err)
		}
		msg.HTML = buf.String()
	}
	return msg, nil
}
