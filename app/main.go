package main

import "github.com/maxence-charriere/go-app/v10/pkg/app"

func main() {
	app.Route("/", func() app.Composer { return &RegistrationPage{} })
	app.Route("/login", func() app.Composer { return &LoginPage{} })
	app.RouteWithRegexp(`^/login/.+$`, func() app.Composer { return &LoginPage{} })
	app.Route("/admin/dashboard", func() app.Composer { return &AdminDashboard{} })
	app.Route("/affiliate/profile", func() app.Composer { return &AffiliateProfile{} })
	app.RunWhenOnBrowser()
}
