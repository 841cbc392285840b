// Package guard gates access to protected views based on the session
// state. It holds no state of its own.
package guard

import (
	"net/http"
	"net/url"

	"quill/app/auth"
)

// Access is the capability a destination demands.
type Access int

const (
	Public Access = iota
	RequireAuthenticated
	RequireAdmin
)

// Where redirects land.
const (
	LoginPath = "/admin/login"
	HomePath  = "/"
)

// Action is what the caller should do with the request.
type Action int

const (
	// ShowLoading: the session is still resolving; render a placeholder
	// and decide nothing yet.
	ShowLoading Action = iota
	// Allow: render the protected content.
	Allow
	// Redirect: send the user to To. ReturnTo, when set, carries the
	// originally requested location so a later sign-in can resume it.
	Redirect
)

type Decision struct {
	Action   Action
	To       string
	ReturnTo string
}

// Decide evaluates an access level against a session snapshot for a
// requested location. Anonymous users go to the login destination with
// the requested location carried along; authenticated users lacking
// the admin capability go to the public home, not to login.
func Decide(access Access, state auth.State, requested string) Decision {
	if state.Phase == auth.Resolving {
		return Decision{Action: ShowLoading}
	}
	if access == Public {
		return Decision{Action: Allow}
	}
	if state.Phase == auth.Anonymous {
		return Decision{Action: Redirect, To: LoginPath, ReturnTo: requested}
	}
	if access == RequireAdmin && !state.IsAdmin {
		return Decision{Action: Redirect, To: HomePath}
	}
	return Decision{Action: Allow}
}

// StateFunc resolves the session state for a request.
type StateFunc func(*http.Request) auth.State

// Middleware applies Decide to every request before the protected
// handler runs. Redirect targets carry the original location in a
// "return" query parameter.
func Middleware(access Access, state StateFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Decide(access, state(r), r.URL.RequestURI())
			switch decision.Action {
			case ShowLoading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Loading...", http.StatusServiceUnavailable)
			case Redirect:
				to := decision.To
				if decision.ReturnTo != "" {
					to += "?" + url.Values{"return": {decision.ReturnTo}}.Encode()
				}
				http.Redirect(w, r, to, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
