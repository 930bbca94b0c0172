package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

const (
	tabProfile  = "profile"
	tabLinks    = "links"
	tabLeads    = "leads"
	tabSettings = "settings"
)

func writeClipboard(value string) error {
	clip := app.Window().Get("navigator").Get("clipboard")
	if !clip.Truthy() {
		return errors.New("clipboard unavailable")
	}
	clip.Call("writeText", value)
	return nil
}

type AffiliateProfile struct {
	app.Compo

	activeTab   string
	profile     *Affiliate
	referrals   []Referral
	status      *AccountStatus
	state       viewState
	errMsg      string
	sidebarOpen bool
	userEmail   string

	fetchSeq   fetchEpoch
	loggingOut logoutLatch

	copiedLink  string
	deleteModal bool
	deleting    bool
}

func (p *AffiliateProfile) OnInit() {
	p.activeTab = tabProfile
	p.sidebarOpen = true
}

func (p *AffiliateProfile) OnMount(ctx app.Context) {
	sess := newSessionStore(ctx.LocalStorage()).get()
	if sess.Token == "" || sess.Role != roleAffiliate {
		ctx.Navigate("/login/affiliate")
		return
	}
	p.userEmail = sess.Email
	p.fetchTab(ctx)
}

func (p *AffiliateProfile) setTab(ctx app.Context, tab string) {
	if p.activeTab == tab {
		return
	}
	p.activeTab = tab
	p.errMsg = ""
	p.fetchTab(ctx)
}

func (p *AffiliateProfile) fetchTab(ctx app.Context) {
	switch p.activeTab {
	case tabLeads:
		p.fetchReferrals(ctx)
	case tabSettings:
		p.fetchProfile(ctx)
		p.fetchStatus(ctx)
	default:
		p.fetchProfile(ctx)
	}
}

func (p *AffiliateProfile) fetchProfile(ctx app.Context) {
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/affiliate")
		return
	}
	p.state = stateLoading
	p.errMsg = ""
	seq := p.fetchSeq.next()

	ctx.Async(func() {
		var profile Affiliate
		err := fetchJSON("affiliate/profile", token,
			"Access denied. You do not have permission to view this profile.",
			"fetch profile", &profile)
		ctx.Dispatch(func(ctx app.Context) {
			if p.fetchSeq.stale(seq) {
				return
			}
			if err != nil {
				p.fail(ctx, err)
				return
			}
			p.profile = &profile
			p.state = stateSuccess
		})
	})
}

func (p *AffiliateProfile) fetchReferrals(ctx app.Context) {
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/affiliate")
		return
	}
	p.state = stateLoading
	p.errMsg = ""
	seq := p.fetchSeq.next()

	ctx.Async(func() {
		var refs []Referral
		err := fetchJSON("affiliate/referrals", token,
			"Access denied. You do not have permission to view referrals.",
			"fetch referrals", &refs)
		ctx.Dispatch(func(ctx app.Context) {
			if p.fetchSeq.stale(seq) {
				return
			}
			if err != nil {
				p.fail(ctx, err)
				return
			}
			p.referrals = refs
			p.state = stateSuccess
		})
	})
}

// fetchStatus failures never surface in the UI; the settings tab just
// renders without the status card.
func (p *AffiliateProfile) fetchStatus(ctx app.Context) {
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		return
	}
	seq := p.fetchSeq

	ctx.Async(func() {
		var status AccountStatus
		err := fetchJSON("affiliate/status", token, "Access denied.", "fetch status", &status)
		if err != nil {
			app.Log("fetch status failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			if p.fetchSeq.stale(seq) {
				return
			}
			p.status = &status
		})
	})
}

func (p *AffiliateProfile) fail(ctx app.Context, err error) {
	p.state = stateError
	p.errMsg = err.Error()
	if errors.Is(err, errSessionExpired) {
		p.scheduleLogout(ctx)
	}
}

func (p *AffiliateProfile) scheduleLogout(ctx app.Context) {
	if !p.loggingOut.arm() {
		return
	}
	ctx.After(logoutDelay, func(ctx app.Context) {
		p.logout(ctx)
	})
}

func (p *AffiliateProfile) logout(ctx app.Context) {
	newSessionStore(ctx.LocalStorage()).clear()
	ctx.Navigate("/login/affiliate")
}

func (p *AffiliateProfile) copyLink(ctx app.Context, link string) {
	if err := writeClipboard(link); err != nil {
		app.Log("copy link failed:", err)
		return
	}
	p.copiedLink = link
	ctx.After(copiedReset, func(ctx app.Context) {
		if p.copiedLink == link {
			p.copiedLink = ""
		}
	})
}

func (p *AffiliateProfile) deleteProfile(ctx app.Context) {
	if p.deleting {
		return
	}
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/affiliate")
		return
	}
	p.deleting = true
	p.errMsg = ""

	ctx.Async(func() {
		resp, err := apiRequest("affiliate/profile", requestOptions{
			Method:  http.MethodDelete,
			Headers: map[string]string{"Authorization": authHeader(token)},
		})
		var deleteErr error
		if err != nil {
			deleteErr = errors.New("Failed to delete profile: network error")
		} else {
			defer resp.Body.Close()
			if !isSuccess(resp.StatusCode) {
				var msg apiMessage
				json.NewDecoder(resp.Body).Decode(&msg)
				if resp.StatusCode == http.StatusUnauthorized {
					deleteErr = errSessionExpired
				} else if m := msg.text(); m != "" {
					deleteErr = errors.New(m)
				} else {
					deleteErr = fmt.Errorf("Failed to delete profile (Status: %d)", resp.StatusCode)
				}
			}
		}

		ctx.Dispatch(func(ctx app.Context) {
			p.deleting = false
			if deleteErr != nil {
				p.deleteModal = false
				p.errMsg = deleteErr.Error()
				if errors.Is(deleteErr, errSessionExpired) {
					p.scheduleLogout(ctx)
				}
				return
			}
			p.logout(ctx)
		})
	})
}

// Rendering.

func (p *AffiliateProfile) Render() app.UI {
	return app.Div().Class("layout").Body(
		p.renderSidebar(),
		app.Main().Class("content").Body(
			p.renderHeader(),
			app.Div().Class("content-body").Body(
				app.If(p.errMsg != "", func() app.UI {
					return app.Div().Class("banner banner-error").Text(p.errMsg)
				}),
				app.If(p.state == stateLoading, func() app.UI {
					return renderSpinner("Loading profile...")
				}).ElseIf(p.state == stateSuccess, func() app.UI {
					return p.renderTab()
				}),
			),
		),
		app.If(p.deleteModal, func() app.UI {
			return p.renderDeleteModal()
		}),
	)
}

func (p *AffiliateProfile) renderSidebar() app.UI {
	return renderSidebar(sidebarProps{
		open:     p.sidebarOpen,
		onToggle: func() { p.sidebarOpen = !p.sidebarOpen },
		items: []sidebarItem{
			{label: "My Profile", active: p.activeTab == tabProfile, onClick: func(ctx app.Context) { p.setTab(ctx, tabProfile) }},
			{label: "My Links", active: p.activeTab == tabLinks, onClick: func(ctx app.Context) { p.setTab(ctx, tabLinks) }},
			{label: "My Leads", active: p.activeTab == tabLeads, onClick: func(ctx app.Context) { p.setTab(ctx, tabLeads) }},
			{label: "Settings", active: p.activeTab == tabSettings, onClick: func(ctx app.Context) { p.setTab(ctx, tabSettings) }},
		},
		userEmail: p.userEmail,
		userLabel: "Affiliate",
		onLogout:  p.logout,
	})
}

func (p *AffiliateProfile) renderHeader() app.UI {
	var title, subtitle string
	switch p.activeTab {
	case tabLinks:
		title, subtitle = "My Referral Links", "Access your unique referral links"
	case tabLeads:
		title, subtitle = "My Leads", "View all your referrals and leads"
	case tabSettings:
		title, subtitle = "Account Settings", "Manage your account preferences"
	default:
		title, subtitle = "My Profile", "View and manage your affiliate profile"
	}
	return app.Header().Class("content-header").Body(
		app.Div().Body(
			app.H1().Text(title),
			app.P().Class("subtitle").Text(subtitle),
		),
		app.Button().
			Class("btn btn-ghost").
			Text("Refresh").
			OnClick(func(ctx app.Context, e app.Event) {
				p.fetchTab(ctx)
			}),
	)
}

func (p *AffiliateProfile) renderTab() app.UI {
	switch p.activeTab {
	case tabLinks:
		return p.renderLinks()
	case tabLeads:
		return p.renderLeads()
	case tabSettings:
		return p.renderSettings()
	default:
		return p.renderProfile()
	}
}

func (p *AffiliateProfile) renderProfile() app.UI {
	if p.profile == nil {
		return app.Div()
	}
	return app.Div().Class("profile-card card").Body(
		app.Div().Class("profile-head").Body(
			app.Div().Class("avatar avatar-large").Text(initialOf(p.profile.Name)),
			app.Div().Body(
				app.H2().Text(p.profile.Name),
				app.P().Class("subtitle").Text(p.profile.Email),
				app.Span().Class("pill pill-green").Text("Active"),
			),
		),
		app.Div().Class("detail-grid").Body(
			renderDetail("Location", p.profile.Location),
			renderDetail("Language", p.profile.Language),
			renderDetail("Member Since", p.profile.CreatedAt),
		),
	)
}

func (p *AffiliateProfile) renderLinks() app.UI {
	if p.profile == nil {
		return app.Div()
	}
	return app.Div().Class("link-list").Body(
		p.renderLinkRow("Unique Referral Link", p.profile.UniqueLink),
		p.renderLinkRow("1Move Link", p.profile.OnemoveLink),
		p.renderLinkRow("PU Prime Link", p.profile.PuprimeLink),
	)
}

func (p *AffiliateProfile) renderLinkRow(label, link string) app.UI {
	copyLabel := "Copy"
	copyCls := "btn btn-small btn-ghost"
	if p.copiedLink == link {
		copyLabel = "Copied"
		copyCls = "btn btn-small btn-copied"
	}
	return app.Div().Class("link-row card").Body(
		app.H4().Text(label),
		app.Div().Class("link-value-row").Body(
			app.Div().Class("link-value").Text(link),
			app.Button().
				Class(copyCls).
				Title("Copy link").
				Text(copyLabel).
				OnClick(func(ctx app.Context, e app.Event) {
					p.copyLink(ctx, link)
				}),
		),
	)
}

func (p *AffiliateProfile) renderLeads() app.UI {
	if len(p.referrals) == 0 {
		return renderEmpty("No leads yet", "Share your referral links to start generating leads.")
	}
	return app.Div().Class("table-wrap").Body(
		app.Table().Body(
			app.THead().Body(
				app.Tr().Body(
					app.Th().Text("Name"),
					app.Th().Text("Email"),
					app.Th().Text("Location"),
					app.Th().Text("Timezone"),
					app.Th().Text("Date"),
				),
			),
			app.TBody().Body(
				app.Range(p.referrals).Slice(func(i int) app.UI {
					ref := p.referrals[i]
					return app.Tr().Body(
						app.Td().Body(
							app.Div().Text(ref.FullName),
							app.If(ref.Headline != "", func() app.UI {
								return app.Div().Class("muted").Text(ref.Headline)
							}),
						),
						app.Td().Text(ref.Email),
						app.Td().Text(ref.Location),
						app.Td().Text(ref.Timezone),
						app.Td().Text(ref.CreatedAt),
					)
				}),
			),
		),
	)
}

func (p *AffiliateProfile) renderSettings() app.UI {
	if p.profile == nil {
		return app.Div()
	}
	return app.Div().Class("settings").Body(
		app.Div().Class("card").Body(
			app.H3().Text("Account Information"),
			app.Div().Class("detail-grid").Body(
				renderDetail("Name", p.profile.Name),
				renderDetail("Email", p.profile.Email),
				renderDetail("Location", p.profile.Location),
				renderDetail("Language", p.profile.Language),
			),
			app.P().Class("field-hint").Text("To update your account information, please contact support."),
		),
		app.If(p.status != nil, func() app.UI {
			return p.renderStatusCard()
		}),
		app.Div().Class("card danger-zone").Body(
			app.H3().Text("Danger Zone"),
			app.P().Class("subtitle").Text("Once you delete your profile, there is no going back. All your affiliate data and links will be permanently deleted."),
			app.Button().
				Class("btn btn-danger").
				Text("Delete My Profile").
				OnClick(func(ctx app.Context, e app.Event) {
					p.deleteModal = true
				}),
		),
	)
}

func (p *AffiliateProfile) renderStatusCard() app.UI {
	s := p.status
	return app.Div().Class("card").Body(
		app.H3().Text("Account Status"),
		app.Div().Class("status-list").Body(
			renderDetail("Status", capitalize(s.Status)),
			renderDetail("Total Referrals", fmt.Sprintf("%d", s.TotalReferrals)),
			renderDetail("Total Earnings", fmt.Sprintf("$%.2f", s.Earnings)),
			renderDetail("Commission Rate", fmt.Sprintf("%g%%", s.CommissionRate)),
			renderDetail("Joined", s.JoinedAt),
		),
	)
}

func (p *AffiliateProfile) renderDeleteModal() app.UI {
	return app.Div().Class("modal-overlay").Body(
		app.Div().Class("modal").Body(
			app.H3().Text("Delete Profile"),
			app.P().Class("subtitle").Text("Are you sure you want to delete your profile? This action cannot be undone and you will lose access to all your affiliate links and data."),
			app.Div().Class("banner banner-error").Text("Warning: This is permanent!"),
			app.Div().Class("modal-actions").Body(
				app.Button().
					Class("btn btn-ghost").
					Text("Cancel").
					Disabled(p.deleting).
					OnClick(func(ctx app.Context, e app.Event) {
						p.deleteModal = false
					}),
				app.Button().
					Class("btn btn-danger").
					Text(deleteButtonLabel(p.deleting)).
					Disabled(p.deleting).
					OnClick(func(ctx app.Context, e app.Event) {
						p.deleteProfile(ctx)
					}),
			),
		),
	)
}

func renderDetail(label, value string) app.UI {
	return app.Div().Class("detail").Body(
		app.P().Class("detail-label").Text(label),
		app.P().Class("detail-value").Text(value),
	)
}

func deleteButtonLabel(deleting bool) string {
	if deleting {
		return "Deleting..."
	}
	return "Delete Forever"
}
