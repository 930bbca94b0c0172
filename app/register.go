package main

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/onemove/affiliate-portal/internal/validate"
)

// Fallback registration link code. Deployments override it through the
// handler environment.
const defaultLinkCode = "ADMIN-SECURE-LINK-2024"

func registrationLinkCode() string {
	if v := app.Getenv("LINK_CODE"); v != "" {
		return v
	}
	return defaultLinkCode
}

// validateRegistration returns field name -> message for everything that
// blocks submission. An empty map means the form may go out.
func validateRegistration(form registrationForm, agreedToTerms bool) map[string]string {
	errs := map[string]string{}
	if err := validate.Password(form.Password); err != nil {
		errs["password"] = err.Error()
	}
	if err := validate.URL(form.OnemoveLink); err != nil {
		errs["onemove_link"] = err.Error()
	}
	if err := validate.URL(form.PuprimeLink); err != nil {
		errs["puprime_link"] = err.Error()
	}
	if !agreedToTerms {
		errs["terms"] = "You must agree to the terms of service"
	}
	return errs
}

type RegistrationPage struct {
	app.Compo

	form          registrationForm
	showPassword  bool
	agreedToTerms bool
	submitting    bool
	success       bool
	fieldErrs     map[string]string
	submitErr     string
}

func (p *RegistrationPage) OnInit() {
	p.fieldErrs = map[string]string{}
}

func (p *RegistrationPage) setField(field string, set func(string)) func(app.Context, app.Event) {
	return func(ctx app.Context, e app.Event) {
		set(ctx.JSSrc().Get("value").String())
		// Typing clears the field's error, like the original form.
		delete(p.fieldErrs, field)
	}
}

func (p *RegistrationPage) submit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	p.submitErr = ""

	errs := validateRegistration(p.form, p.agreedToTerms)
	if len(errs) > 0 {
		p.fieldErrs = errs
		return
	}

	p.submitting = true
	form := p.form

	ctx.Async(func() {
		body, _ := json.Marshal(form)
		resp, err := apiRequest("register/"+registrationLinkCode(), requestOptions{
			Method: http.MethodPost,
			Body:   bytes.NewReader(body),
		})
		if err != nil {
			ctx.Dispatch(func(ctx app.Context) {
				p.submitting = false
				p.submitErr = "Network error occurred. Please check your connection and try again."
			})
			return
		}
		defer resp.Body.Close()

		if isSuccess(resp.StatusCode) {
			ctx.Dispatch(func(ctx app.Context) {
				p.submitting = false
				p.success = true
			})
			return
		}

		var msg apiMessage
		json.NewDecoder(resp.Body).Decode(&msg)
		ctx.Dispatch(func(ctx app.Context) {
			p.submitting = false
			if m := msg.text(); m != "" {
				p.submitErr = m
			} else {
				p.submitErr = "Failed to submit form. Please try again."
			}
		})
	})
}

func (p *RegistrationPage) reset(ctx app.Context) {
	p.form = registrationForm{}
	p.agreedToTerms = false
	p.success = false
	p.fieldErrs = map[string]string{}
	p.submitErr = ""
}

func (p *RegistrationPage) Render() app.UI {
	if p.success {
		return p.renderSuccess()
	}

	return app.Div().Class("page page-center").Body(
		app.Div().Class("wordmark").Text("1MOVE"),
		app.Div().Class("card card-narrow").Body(
			app.Div().Class("card-heading").Body(
				app.H1().Text("Fill up the form to be a 1Move Affiliate"),
				app.P().Class("subtitle").Text("Start your journey with us today"),
			),
			app.If(p.submitErr != "", func() app.UI {
				return app.Div().Class("banner banner-error").Text(p.submitErr)
			}),
			app.Form().OnSubmit(p.submit).Body(
				p.textField("name", "Full Name", "Enter your full name", p.form.Name,
					func(v string) { p.form.Name = v }),
				p.emailField(),
				p.passwordField(),
				p.textField("location", "Location", "Enter your location", p.form.Location,
					func(v string) { p.form.Location = v }),
				p.textField("language", "Language", "Enter your preferred language", p.form.Language,
					func(v string) { p.form.Language = v }),
				p.urlField("onemove_link", "1Move Link", p.form.OnemoveLink,
					func(v string) { p.form.OnemoveLink = v }),
				p.urlField("puprime_link", "PU Prime Link", p.form.PuprimeLink,
					func(v string) { p.form.PuprimeLink = v }),
				p.termsField(),
				app.Button().
					Type("submit").
					Class("btn btn-primary").
					Disabled(p.submitting).
					Text(submitButtonLabel(p.submitting)),
			),
			app.P().Class("card-footer").Body(
				app.Text("Already have an account? "),
				app.A().Href("/login/admin").Class("link").Text("Login here.."),
			),
		),
	)
}

func (p *RegistrationPage) textField(id, label, placeholder, value string, set func(string)) app.UI {
	return app.Div().Class("field").Body(
		app.Label().For(id).Text(label),
		app.Input().
			ID(id).
			Type("text").
			Placeholder(placeholder).
			Required(true).
			Value(value).
			OnInput(p.setField(id, set)),
	)
}

func (p *RegistrationPage) emailField() app.UI {
	return app.Div().Class("field").Body(
		app.Label().For("email").Text("Email address"),
		app.Input().
			ID("email").
			Type("email").
			Placeholder("Enter your email").
			Required(true).
			Value(p.form.Email).
			OnInput(p.setField("email", func(v string) { p.form.Email = v })),
	)
}

func (p *RegistrationPage) passwordField() app.UI {
	cls := ""
	if p.fieldErrs["password"] != "" {
		cls = "invalid"
	}
	return app.Div().Class("field").Body(
		app.Label().For("password").Text("Password"),
		app.Div().Class("password-wrap").Body(
			app.Input().
				ID("password").
				Class(cls).
				Type(passwordInputType(p.showPassword)).
				Placeholder("Enter your password").
				Required(true).
				Value(p.form.Password).
				OnInput(p.setField("password", func(v string) { p.form.Password = v })),
			app.Button().
				Type("button").
				Class("toggle-visibility").
				Aria("label", "Toggle password visibility").
				Text(visibilityGlyph(p.showPassword)).
				OnClick(func(ctx app.Context, e app.Event) {
					p.showPassword = !p.showPassword
				}),
		),
		app.If(p.fieldErrs["password"] != "", func() app.UI {
			return app.Span().Class("field-error").Text(p.fieldErrs["password"])
		}),
		app.P().Class("field-hint").Text("Must contain uppercase, lowercase, number, and symbol"),
	)
}

func (p *RegistrationPage) urlField(id, label, value string, set func(string)) app.UI {
	cls := ""
	if p.fieldErrs[id] != "" {
		cls = "invalid"
	}
	return app.Div().Class("field").Body(
		app.Label().For(id).Text(label),
		app.Input().
			ID(id).
			Class(cls).
			Type("url").
			Placeholder("https://example.com/your-link").
			Required(true).
			Value(value).
			OnInput(p.setField(id, set)),
		app.If(p.fieldErrs[id] != "", func() app.UI {
			return app.Span().Class("field-error").Text(p.fieldErrs[id])
		}),
	)
}

func (p *RegistrationPage) termsField() app.UI {
	return app.Div().Class("field").Body(
		app.Label().Class("checkbox terms").Body(
			app.Input().
				Type("checkbox").
				Checked(p.agreedToTerms).
				OnChange(func(ctx app.Context, e app.Event) {
					p.agreedToTerms = ctx.JSSrc().Get("checked").Bool()
					delete(p.fieldErrs, "terms")
				}),
			app.Span().Body(
				app.Text("I agree to the "),
				app.A().Href("https://1move.circle.so/terms").Target("_blank").Class("link").Text("terms of service"),
				app.Text(" and have read the "),
				app.A().Href("https://1move.circle.so/privacy").Target("_blank").Class("link").Text("privacy policy"),
			),
		),
		app.If(p.fieldErrs["terms"] != "", func() app.UI {
			return app.Span().Class("field-error").Text(p.fieldErrs["terms"])
		}),
	)
}

func (p *RegistrationPage) renderSuccess() app.UI {
	return app.Div().Class("page page-center").Body(
		app.Div().Class("card card-narrow success-card").Body(
			app.Div().Class("success-mark").Text("✓"),
			app.H1().Text("Congratulations!"),
			app.P().Text("Your request has been sent successfully. You will receive an email shortly with further instructions."),
			app.P().Class("subtitle").Text("Please check your inbox and spam folder for our email."),
			app.Button().
				Class("btn btn-primary").
				Text("Submit Another Application").
				OnClick(func(ctx app.Context, e app.Event) {
					p.reset(ctx)
				}),
		),
	)
}

func submitButtonLabel(submitting bool) string {
	if submitting {
		return "Submitting..."
	}
	return "Send Request"
}
