package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

const (
	tabAffiliates = "affiliates"
	tabRequests   = "requests"
)

// reviewDraft is the modal's working copy of a decision. It exists from the
// moment the admin picks Approve/Reject until submit or cancel.
type reviewDraft struct {
	RequestID int64
	Name      string
	Approve   bool
	Reason    string
}

// canSubmitReview: a rejection needs a trimmed non-empty reason, an
// approval never does.
func canSubmitReview(d reviewDraft) bool {
	return d.Approve || strings.TrimSpace(d.Reason) != ""
}

// reviewReason substitutes the default wording when the reason was left
// blank (only reachable for approvals, submission is gated otherwise).
func reviewReason(d reviewDraft) string {
	if reason := strings.TrimSpace(d.Reason); reason != "" {
		return reason
	}
	if d.Approve {
		return "Approved"
	}
	return "Rejected"
}

type AdminDashboard struct {
	app.Compo

	activeTab   string
	affiliates  []Affiliate
	pending     []PendingRequest
	state       viewState
	errMsg      string
	sidebarOpen bool
	userEmail   string

	fetchSeq   fetchEpoch
	loggingOut logoutLatch

	review     *reviewDraft
	submitting bool
}

func (d *AdminDashboard) OnInit() {
	d.activeTab = tabAffiliates
	d.sidebarOpen = true
}

func (d *AdminDashboard) OnMount(ctx app.Context) {
	sess := newSessionStore(ctx.LocalStorage()).get()
	if sess.Token == "" {
		ctx.Navigate("/login/admin")
		return
	}
	d.userEmail = sess.Email
	d.fetchTab(ctx)
}

func (d *AdminDashboard) setTab(ctx app.Context, tab string) {
	if d.activeTab == tab {
		return
	}
	d.activeTab = tab
	d.errMsg = ""
	d.fetchTab(ctx)
}

func (d *AdminDashboard) fetchTab(ctx app.Context) {
	if d.activeTab == tabRequests {
		d.fetchPending(ctx)
		return
	}
	d.fetchAffiliates(ctx)
}

func (d *AdminDashboard) fetchAffiliates(ctx app.Context) {
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/admin")
		return
	}
	d.state = stateLoading
	d.errMsg = ""
	seq := d.fetchSeq.next()

	ctx.Async(func() {
		var list []Affiliate
		err := fetchJSON("admin/affiliates", token,
			"Access denied. You do not have permission to view affiliates.",
			"fetch affiliates", &list)
		ctx.Dispatch(func(ctx app.Context) {
			if d.fetchSeq.stale(seq) {
				return
			}
			if err != nil {
				d.fail(ctx, err)
				return
			}
			d.affiliates = list
			d.state = stateSuccess
		})
	})
}

func (d *AdminDashboard) fetchPending(ctx app.Context) {
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/admin")
		return
	}
	d.state = stateLoading
	d.errMsg = ""
	seq := d.fetchSeq.next()

	ctx.Async(func() {
		var list []PendingRequest
		err := fetchJSON("admin/pending-requests", token,
			"Access denied. You do not have permission to view pending requests.",
			"fetch pending requests", &list)
		ctx.Dispatch(func(ctx app.Context) {
			if d.fetchSeq.stale(seq) {
				return
			}
			if err != nil {
				d.fail(ctx, err)
				return
			}
			d.pending = list
			d.state = stateSuccess
		})
	})
}

func (d *AdminDashboard) fail(ctx app.Context, err error) {
	d.state = stateError
	d.errMsg = err.Error()
	if errors.Is(err, errSessionExpired) {
		d.scheduleLogout(ctx)
	}
}

func (d *AdminDashboard) scheduleLogout(ctx app.Context) {
	if !d.loggingOut.arm() {
		return
	}
	ctx.After(logoutDelay, func(ctx app.Context) {
		d.logout(ctx)
	})
}

func (d *AdminDashboard) logout(ctx app.Context) {
	newSessionStore(ctx.LocalStorage()).clear()
	ctx.Navigate("/login/admin")
}

// Review workflow.

func (d *AdminDashboard) openReview(req PendingRequest, approve bool) {
	d.review = &reviewDraft{RequestID: req.ID, Name: req.Name, Approve: approve}
}

func (d *AdminDashboard) cancelReview() {
	if d.submitting {
		return
	}
	d.review = nil
}

func (d *AdminDashboard) submitReview(ctx app.Context) {
	if d.review == nil || d.submitting || !canSubmitReview(*d.review) {
		return
	}
	token := newSessionStore(ctx.LocalStorage()).token()
	if token == "" {
		ctx.Navigate("/login/admin")
		return
	}

	d.submitting = true
	decision := reviewDecision{
		RequestID: d.review.RequestID,
		Approve:   d.review.Approve,
		Reason:    reviewReason(*d.review),
	}

	ctx.Async(func() {
		body, _ := json.Marshal(decision)
		resp, err := apiRequest("admin/review-request", requestOptions{
			Method:  http.MethodPost,
			Headers: map[string]string{"Authorization": authHeader(token)},
			Body:    bytes.NewReader(body),
		})
		var submitErr error
		if err != nil {
			submitErr = errors.New("Failed to submit review: network error")
		} else {
			resp.Body.Close()
			if !isSuccess(resp.StatusCode) {
				submitErr = responseError(resp.StatusCode,
					"Access denied. You do not have permission to review requests.",
					"submit review")
			}
		}

		ctx.Dispatch(func(ctx app.Context) {
			d.submitting = false
			if submitErr != nil {
				// Modal stays open; the error shows in the dashboard's
				// banner region, not inside the modal.
				d.errMsg = submitErr.Error()
				if errors.Is(submitErr, errSessionExpired) {
					d.scheduleLogout(ctx)
				}
				return
			}
			d.review = nil
			// Refresh whichever tab is on screen; the admin may have
			// switched away while the submit was in flight.
			d.fetchTab(ctx)
		})
	})
}

// Rendering.

func (d *AdminDashboard) Render() app.UI {
	return app.Div().Class("layout").Body(
		d.renderSidebar(),
		app.Main().Class("content").Body(
			d.renderHeader(),
			app.Div().Class("content-body").Body(
				app.If(d.errMsg != "", func() app.UI {
					return app.Div().Class("banner banner-error").Text(d.errMsg)
				}),
				app.If(d.state == stateLoading, func() app.UI {
					return renderSpinner("Loading...")
				}).ElseIf(d.state == stateSuccess, func() app.UI {
					if d.activeTab == tabRequests {
						return d.renderPending()
					}
					return d.renderAffiliates()
				}),
			),
		),
		app.If(d.review != nil, func() app.UI {
			return d.renderReviewModal()
		}),
	)
}

func (d *AdminDashboard) renderSidebar() app.UI {
	return renderSidebar(sidebarProps{
		open:     d.sidebarOpen,
		onToggle: func() { d.sidebarOpen = !d.sidebarOpen },
		items: []sidebarItem{
			{label: "Affiliates", active: d.activeTab == tabAffiliates, onClick: func(ctx app.Context) { d.setTab(ctx, tabAffiliates) }},
			{label: "Requests", active: d.activeTab == tabRequests, onClick: func(ctx app.Context) { d.setTab(ctx, tabRequests) }},
		},
		userEmail: d.userEmail,
		userLabel: "Administrator",
		onLogout:  d.logout,
	})
}

func (d *AdminDashboard) renderHeader() app.UI {
	title := "Approved Affiliates"
	subtitle := "Manage and view all approved affiliates"
	if d.activeTab == tabRequests {
		title = "Pending Requests"
		subtitle = "Review affiliate applications"
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
				d.fetchTab(ctx)
			}),
	)
}

func (d *AdminDashboard) renderAffiliates() app.UI {
	if len(d.affiliates) == 0 {
		return renderEmpty("No affiliates found", "There are no approved affiliates yet.")
	}
	return app.Div().Class("table-wrap").Body(
		app.Table().Body(
			app.THead().Body(
				app.Tr().Body(
					app.Th().Text("Name"),
					app.Th().Text("Email"),
					app.Th().Text("Location"),
					app.Th().Text("Language"),
					app.Th().Text("Status"),
				),
			),
			app.TBody().Body(
				app.Range(d.affiliates).Slice(func(i int) app.UI {
					a := d.affiliates[i]
					return app.Tr().Body(
						app.Td().Text(a.Name),
						app.Td().Text(a.Email),
						app.Td().Text(a.Location),
						app.Td().Text(a.Language),
						app.Td().Body(app.Span().Class("pill pill-green").Text("Approved")),
					)
				}),
			),
		),
	)
}

func (d *AdminDashboard) renderPending() app.UI {
	if len(d.pending) == 0 {
		return renderEmpty("No pending requests", "New affiliate applications will show up here.")
	}
	return app.Div().Class("table-wrap").Body(
		app.Table().Body(
			app.THead().Body(
				app.Tr().Body(
					app.Th().Text("Name"),
					app.Th().Text("Email"),
					app.Th().Text("Location"),
					app.Th().Text("Language"),
					app.Th().Text("Actions"),
				),
			),
			app.TBody().Body(
				app.Range(d.pending).Slice(func(i int) app.UI {
					req := d.pending[i]
					return app.Tr().Body(
						app.Td().Text(req.Name),
						app.Td().Text(req.Email),
						app.Td().Text(req.Location),
						app.Td().Text(req.Language),
						app.Td().Class("actions").Body(
							app.Button().
								Class("btn btn-small btn-approve").
								Text("Approve").
								OnClick(func(ctx app.Context, e app.Event) {
									d.openReview(req, true)
								}),
							app.Button().
								Class("btn btn-small btn-reject").
								Text("Reject").
								OnClick(func(ctx app.Context, e app.Event) {
									d.openReview(req, false)
								}),
						),
					)
				}),
			),
		),
	)
}

func (d *AdminDashboard) renderReviewModal() app.UI {
	draft := *d.review
	verb := "Reject"
	if draft.Approve {
		verb = "Approve"
	}
	reasonLabel := "Reason (required)"
	if draft.Approve {
		reasonLabel = "Reason (optional)"
	}

	return app.Div().Class("modal-overlay").Body(
		app.Div().Class("modal").Body(
			app.H3().Text(verb+" Request"),
			app.P().Class("subtitle").Text(verb+" the application from "+draft.Name+"?"),
			app.Div().Class("field").Body(
				app.Label().For("review-reason").Text(reasonLabel),
				app.Textarea().
					ID("review-reason").
					Placeholder("Add a note for this decision").
					Text(draft.Reason).
					Disabled(d.submitting).
					OnInput(func(ctx app.Context, e app.Event) {
						d.review.Reason = ctx.JSSrc().Get("value").String()
					}),
			),
			app.Div().Class("modal-actions").Body(
				app.Button().
					Class("btn btn-ghost").
					Text("Cancel").
					Disabled(d.submitting).
					OnClick(func(ctx app.Context, e app.Event) {
						d.cancelReview()
					}),
				app.Button().
					Class("btn btn-primary").
					Text(confirmButtonLabel(d.submitting, verb)).
					Disabled(d.submitting || !canSubmitReview(draft)).
					OnClick(func(ctx app.Context, e app.Event) {
						d.submitReview(ctx)
					}),
			),
		),
	)
}

func confirmButtonLabel(submitting bool, verb string) string {
	if submitting {
		return "Submitting..."
	}
	return "Confirm " + verb
}
