package main

import (
	"unicode"
	"unicode/utf8"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Shared chrome for the two authenticated pages: collapsible sidebar,
// loading spinner, empty states.

type sidebarItem struct {
	label   string
	active  bool
	onClick func(app.Context)
}

type sidebarProps struct {
	open      bool
	onToggle  func()
	items     []sidebarItem
	userEmail string
	userLabel string
	onLogout  func(app.Context)
}

func renderSidebar(props sidebarProps) app.UI {
	cls := "sidebar"
	if !props.open {
		cls += " collapsed"
	}
	return app.Aside().Class(cls).Body(
		app.Div().Class("sidebar-top").Body(
			app.If(props.open, func() app.UI {
				return app.Div().Class("wordmark wordmark-small").Text("1MOVE")
			}),
			app.Button().
				Class("sidebar-toggle").
				Text(sidebarToggleGlyph(props.open)).
				OnClick(func(ctx app.Context, e app.Event) {
					props.onToggle()
				}),
		),
		app.Nav().Class("sidebar-nav").Body(
			app.Range(props.items).Slice(func(i int) app.UI {
				item := props.items[i]
				cls := "nav-btn"
				if item.active {
					cls += " active"
				}
				return app.Button().
					Class(cls).
					Text(item.label).
					OnClick(func(ctx app.Context, e app.Event) {
						item.onClick(ctx)
					})
			}),
		),
		app.Div().Class("sidebar-user").Body(
			app.Div().Class("avatar").Text(initialOf(props.userEmail)),
			app.If(props.open, func() app.UI {
				return app.Div().Class("user-meta").Body(
					app.P().Class("user-email").Text(props.userEmail),
					app.P().Class("user-label").Text(props.userLabel),
				)
			}),
			app.If(props.open, func() app.UI {
				return app.Button().
					Class("btn btn-logout").
					Text("Logout").
					OnClick(func(ctx app.Context, e app.Event) {
						props.onLogout(ctx)
					})
			}),
		),
	)
}

func renderSpinner(label string) app.UI {
	return app.Div().Class("loading").Body(
		app.Div().Class("loading-spinner"),
		app.P().Class("subtitle").Text(label),
	)
}

func renderEmpty(title, hint string) app.UI {
	return app.Div().Class("empty-state").Body(
		app.H3().Text(title),
		app.P().Class("subtitle").Text(hint),
	)
}

func initialOf(email string) string {
	r, size := utf8.DecodeRuneInString(email)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func sidebarToggleGlyph(open bool) string {
	if open {
		return "«"
	}
	return "»"
}
