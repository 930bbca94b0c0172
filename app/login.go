package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

var loginRoles = []struct {
	id    string
	label string
}{
	{roleAdmin, "Admin"},
	{roleAffiliate, "Affiliate"},
	{roleUser, "User"},
}

type LoginPage struct {
	app.Compo

	role         string
	email        string
	password     string
	showPassword bool
	rememberMe   bool
	loading      bool
	errMsg       string
	notice       string
}

func (p *LoginPage) OnMount(ctx app.Context) {
	p.loadRole(ctx)
}

func (p *LoginPage) OnNav(ctx app.Context) {
	p.loadRole(ctx)
}

func (p *LoginPage) loadRole(ctx app.Context) {
	path := ctx.Page().URL().Path
	if path == "/login" || path == "/login/" {
		ctx.Navigate("/login/" + roleAdmin)
		return
	}
	role := strings.TrimPrefix(path, "/login/")
	switch role {
	case roleAdmin, roleAffiliate, roleUser:
		p.role = role
	default:
		p.role = roleAdmin
	}
}

func (p *LoginPage) selectRole(ctx app.Context, role string) {
	p.notice = ""
	p.errMsg = ""
	ctx.Navigate("/login/" + role)
}

func (p *LoginPage) submit(ctx app.Context, e app.Event) {
	e.PreventDefault()
	p.errMsg = ""
	p.notice = ""

	if p.role == roleUser {
		p.notice = "User login will be available soon."
		return
	}

	p.loading = true
	email, password, role := p.email, p.password, p.role

	ctx.Async(func() {
		body, _ := json.Marshal(map[string]string{
			"email":    email,
			"password": password,
		})
		resp, err := apiRequest("login", requestOptions{
			Method: http.MethodPost,
			Body:   bytes.NewReader(body),
		})
		if err != nil {
			ctx.Dispatch(func(ctx app.Context) {
				p.loading = false
				p.errMsg = "Login failed. Please try again."
			})
			return
		}
		defer resp.Body.Close()

		var data loginResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&data)

		ctx.Dispatch(func(ctx app.Context) {
			p.loading = false
			if !isSuccess(resp.StatusCode) {
				if data.Detail != "" {
					p.errMsg = data.Detail
				} else {
					p.errMsg = "Invalid email or password"
				}
				return
			}
			if decodeErr != nil {
				p.errMsg = "Login failed. Please try again."
				return
			}

			newSessionStore(ctx.LocalStorage()).set(data.AccessToken, data.TokenType, email, role)
			if role == roleAffiliate {
				ctx.Navigate("/affiliate/profile")
			} else {
				ctx.Navigate("/admin/dashboard")
			}
		})
	})
}

func (p *LoginPage) Render() app.UI {
	return app.Div().Class("page page-center").Body(
		app.Div().Class("wordmark").Text("1MOVE"),
		app.Div().Class("card card-narrow").Body(
			p.renderRoleBar(),
			app.Div().Class("card-heading").Body(
				app.H1().Text("Welcome Back"),
				app.P().Class("subtitle").Text("Login as "+capitalize(p.role)),
			),
			app.If(p.errMsg != "", func() app.UI {
				return app.Div().Class("banner banner-error").Text(p.errMsg)
			}),
			app.If(p.notice != "", func() app.UI {
				return app.Div().Class("banner banner-info").Text(p.notice)
			}),
			app.Form().OnSubmit(p.submit).Body(
				app.Div().Class("field").Body(
					app.Label().For("email").Text("Email address"),
					app.Input().
						ID("email").
						Type("email").
						Placeholder("Enter your email").
						Required(true).
						Value(p.email).
						OnInput(func(ctx app.Context, e app.Event) {
							p.email = ctx.JSSrc().Get("value").String()
						}),
				),
				app.Div().Class("field").Body(
					app.Label().For("password").Text("Password"),
					app.Div().Class("password-wrap").Body(
						app.Input().
							ID("password").
							Type(passwordInputType(p.showPassword)).
							Placeholder("Enter your password").
							Required(true).
							Value(p.password).
							OnInput(func(ctx app.Context, e app.Event) {
								p.password = ctx.JSSrc().Get("value").String()
							}),
						app.Button().
							Type("button").
							Class("toggle-visibility").
							Aria("label", "Toggle password visibility").
							Text(visibilityGlyph(p.showPassword)).
							OnClick(func(ctx app.Context, e app.Event) {
								p.showPassword = !p.showPassword
							}),
					),
				),
				app.Div().Class("field field-row").Body(
					app.Label().Class("checkbox").Body(
						app.Input().
							Type("checkbox").
							Checked(p.rememberMe).
							OnChange(func(ctx app.Context, e app.Event) {
								p.rememberMe = ctx.JSSrc().Get("checked").Bool()
							}),
						app.Span().Text("Remember me"),
					),
					app.A().Href("#").Class("link").Text("Forgot password?"),
				),
				app.Button().
					Type("submit").
					Class("btn btn-primary").
					Disabled(p.loading).
					Text(loginButtonLabel(p.loading)),
			),
			app.P().Class("card-footer").Body(
				app.Text("Want to become an affiliate? "),
				app.A().Href("/").Class("link").Text("Register here.."),
			),
		),
	)
}

func (p *LoginPage) renderRoleBar() app.UI {
	return app.Div().Class("role-bar").Body(
		app.Range(loginRoles).Slice(func(i int) app.UI {
			role := loginRoles[i]
			cls := "role-btn"
			if p.role == role.id {
				cls += " active"
			}
			return app.Button().
				Type("button").
				Class(cls).
				Text(role.label).
				OnClick(func(ctx app.Context, e app.Event) {
					p.selectRole(ctx, role.id)
				})
		}),
	)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func passwordInputType(visible bool) string {
	if visible {
		return "text"
	}
	return "password"
}

func visibilityGlyph(visible bool) string {
	if visible {
		return "◉"
	}
	return "◎"
}

func loginButtonLabel(loading bool) string {
	if loading {
		return "Logging in..."
	}
	return "Login"
}
