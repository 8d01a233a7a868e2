package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/four2theizz0/gearz/internal/domain"
)

const holdPolicyStatement = "We will hold this item for you for 48 hours from the time of your request, unless another time is requested."

// Sender is the minimal email surface the dispatcher needs.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// DispatchError reports hold-notification failures per recipient so the
// caller can retry just the failed leg.
type DispatchError struct {
	AdminErr    error
	CustomerErr error
}

func (e *DispatchError) Error() string {
	parts := make([]string, 0, 2)
	if e.AdminErr != nil {
		parts = append(parts, fmt.Sprintf("admin alert: %v", e.AdminErr))
	}
	if e.CustomerErr != nil {
		parts = append(parts, fmt.Sprintf("customer confirmation: %v", e.CustomerErr))
	}
	return strings.Join(parts, "; ")
}

// Dispatcher builds and sends the lifecycle notification emails.
type Dispatcher struct {
	sender     Sender
	fromEmail  string
	adminEmail string
}

func NewDispatcher(sender Sender, fromEmail, adminEmail string) (*Dispatcher, error) {
	if fromEmail == "" || adminEmail == "" {
		return nil, ErrMissingConfig
	}
	return &Dispatcher{
		sender:     sender,
		fromEmail:  fromEmail,
		adminEmail: adminEmail,
	}, nil
}

type holdEmailData struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductLines  []string
	TotalPrice    string
	PickupDisplay string
	Notes         string
	HoldPolicy    string
}

var adminHoldTemplate = template.Must(template.New("adminHold").Parse(`
<h2>New Local Pickup Request</h2>
{{range .ProductLines}}<p><b>Product:</b> {{.}}</p>
{{end}}<p><b>Total Price:</b> ${{.TotalPrice}}</p>
<p><b>Name:</b> {{.CustomerName}}<br/>
<b>Email:</b> {{.CustomerEmail}}<br/>
<b>Phone:</b> {{.CustomerPhone}}</p>
<p><b>Preferred Pickup Day:</b> {{.PickupDisplay}}</p>
{{if .Notes}}<p><b>Notes:</b> {{.Notes}}</p>
{{end}}<p style="color:#888;">{{.HoldPolicy}}</p>
<hr/>
<small>This is an automated notification from your gear site.</small>
`))

var customerHoldTemplate = template.Must(template.New("customerHold").Parse(`
<h2>Thank you for your purchase request!</h2>
{{range .ProductLines}}<p>We received your request for <b>{{.}}</b>.</p>
{{end}}<p><b>Your Info:</b><br/>
Name: {{.CustomerName}}<br/>
Email: {{.CustomerEmail}}<br/>
Phone: {{.CustomerPhone}}<br/>
Preferred Pickup Day: {{.PickupDisplay}}<br/>
{{if .Notes}}Notes: {{.Notes}}<br/>
{{end}}</p>
<p>{{.HoldPolicy}}</p>
<p>We will contact you shortly to confirm a pickup time.</p>
`))

// NotifyHoldCreated sends the admin alert and the customer confirmation as
// two independent calls. Either leg can fail without affecting the other;
// partial failure comes back as a *DispatchError naming the failed leg(s).
func (d *Dispatcher) NotifyHoldCreated(ctx context.Context, hold domain.Hold, products []domain.Product) error {
	data := buildHoldEmailData(hold, products)

	subjectName := "your item"
	if len(products) > 0 {
		subjectName = products[0].Name
	}

	dispatchErr := &DispatchError{}

	if html, err := renderTemplate(adminHoldTemplate, data); err != nil {
		dispatchErr.AdminErr = err
	} else {
		dispatchErr.AdminErr = d.sender.Send(ctx, Email{
			From:    d.fromEmail,
			To:      d.adminEmail,
			Subject: "New Local Pickup Request: " + subjectName,
			HTML:    html,
		})
	}

	if html, err := renderTemplate(customerHoldTemplate, data); err != nil {
		dispatchErr.CustomerErr = err
	} else {
		dispatchErr.CustomerErr = d.sender.Send(ctx, Email{
			From:    d.fromEmail,
			To:      hold.CustomerEmail,
			Subject: "Your Pickup Request: " + subjectName,
			HTML:    html,
		})
	}

	if dispatchErr.AdminErr == nil && dispatchErr.CustomerErr == nil {
		return nil
	}
	return dispatchErr
}

var questionTemplate = template.Must(template.New("question").Parse(`
<h2>New Question from the Storefront</h2>
<p><b>Name:</b> {{.Name}}<br/>
<b>Email:</b> {{.Email}}</p>
<p>{{.Message}}</p>
`))

// NotifyQuestion forwards a contact-form question to the admin.
func (d *Dispatcher) NotifyQuestion(ctx context.Context, name, email, message string) error {
	html, err := renderTemplate(questionTemplate, struct {
		Name    string
		Email   string
		Message string
	}{name, email, message})
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, Email{
		From:    d.fromEmail,
		To:      d.adminEmail,
		Subject: "New question from " + name,
		HTML:    html,
	})
}

func buildHoldEmailData(hold domain.Hold, products []domain.Product) holdEmailData {
	lines := make([]string, 0, len(products))
	total := ""
	for i, p := range products {
		lines = append(lines, fmt.Sprintf("%s (ID: %s) at $%s", p.Name, p.ID, p.Price.StringFixed(2)))
		if i == 0 {
			total = p.Price.StringFixed(2)
		}
	}
	if len(products) > 1 {
		sum := products[0].Price
		for _, p := range products[1:] {
			sum = sum.Add(p.Price)
		}
		total = sum.StringFixed(2)
	}

	return holdEmailData{
		CustomerName:  hold.CustomerName,
		CustomerEmail: hold.CustomerEmail,
		CustomerPhone: hold.CustomerPhone,
		ProductLines:  lines,
		TotalPrice:    total,
		PickupDisplay: domain.FormatPickupDay(hold.PickupDay, hold.PickupCustom),
		Notes:         hold.Notes,
		HoldPolicy:    holdPolicyStatement,
	}
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
