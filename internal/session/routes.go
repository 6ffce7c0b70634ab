package session

import (
	"strings"

	"omonat/internal/api"
)

const (
	authPrefix = "/authentication"
	LogoutPath = authPrefix + "/logout"
)

// Logout stays reachable with or without a token.
var ungated = []string{"/healthz", "/readyz", "/static/", LogoutPath}

// Gated reports whether path goes through the route policy at all.
func Gated(path string) bool {
	for _, p := range ungated {
		if path == p || strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// IsAuthRoute reports the login and registration pages.
func IsAuthRoute(path string) bool {
	return path == authPrefix || strings.HasPrefix(path, authPrefix+"/")
}

// AccessFor is the access level of a gateway path.
func AccessFor(path string) Access {
	switch {
	case !Gated(path), IsAuthRoute(path):
		return Public
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return AdminOnly
	default:
		return Protected
	}
}

// HasToken reports a usable session token. The logout marker counts as
// no token.
func HasToken(token string) bool {
	return token != "" && token != api.LoggedOut
}

// RoutePolicy is the navigation interceptor run before any page. It only
// looks at the token: a visitor holding one is sent away from the auth
// pages, a visitor without one is sent to login.
func RoutePolicy(path, token string) Outcome {
	if !Gated(path) {
		return Outcome{}
	}
	has := HasToken(token)
	switch {
	case IsAuthRoute(path) && has:
		return Outcome{RedirectTo: HomePath}
	case IsAuthRoute(path):
		return Outcome{}
	case !has:
		return Outcome{RedirectTo: LoginPath}
	default:
		return Outcome{}
	}
}
