// Package vgnav is client-side navigation for Vugu single-page applications.
//
// A RouteTable maps paths to view identifiers, a History wraps the browser's
// address bar and history stack, and a Router keeps the two in step:
//
//	table := vgnav.MustNewRouteTable(
//		vgnav.RouteEntry{Path: "/", Redirect: "/home"},
//		vgnav.RouteEntry{Path: "/home", View: "home"},
//		vgnav.RouteEntry{Path: "/login", View: "login"},
//	)
//	h, err := vgnav.NewBrowserHistory()
//	if err != nil {
//		panic(err) // not in a browser
//	}
//	r, err := vgnav.New(table, h, vgnav.WithNotFound("notfound"), vgnav.WithEventEnv(env))
//	...
//	r.OnChange(func(st vgnav.NavigationState) { root.View = st.View })
//	r.Start(ctx)
//
// Navigate pushes a history entry (or replaces the current one with NavReplace).
// Back and forward in the browser re-resolve the path without touching the
// history again.  A path with no route is not an error; it shows the view set
// with WithNotFound.
//
// BrowserHistory uses clean URLs, so the server must answer deep links with the
// application's entry page.  The devserver package does that for development.
package vgnav
