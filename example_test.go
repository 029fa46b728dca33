package vgnav_test

import (
	"context"
	"fmt"

	"github.com/vugu/vgnav"
)

// Example shows a router over an in-memory history following the
// browser's back button.
func Example() {
	table := vgnav.MustNewRouteTable(
		vgnav.RouteEntry{Path: "/home", View: "home"},
		vgnav.RouteEntry{Path: "/login", View: "login"},
	)

	h := vgnav.NewMemoryHistory("/login")
	r, err := vgnav.New(table, h, vgnav.WithNotFound("notfound"))
	if err != nil {
		panic(err)
	}

	r.OnChange(func(st vgnav.NavigationState) {
		fmt.Printf("%s -> %s\n", st.Path, st.View)
	})

	if err := r.Start(context.Background()); err != nil {
		panic(err)
	}
	r.MustNavigate("/home")
	r.MustNavigate("/missing")
	h.Back()

	// Output:
	// /login -> login
	// /home -> home
	// /missing -> notfound
	// /home -> home
}

// Example_redirect shows "/" being corrected to "/home" without leaving
// "/" in the history.
func Example_redirect() {
	rc := vgnav.DefaultRoutes()

	h := vgnav.NewMemoryHistory("/")
	r, err := rc.NewRouter(h)
	if err != nil {
		panic(err)
	}
	if err := r.Start(context.Background()); err != nil {
		panic(err)
	}

	fmt.Println(r.Current(), h.CurrentPath(), h.Len())

	// Output:
	// home /home 1
}
