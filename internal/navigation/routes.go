// Package navigation maps view paths to views and keeps the per-session
// history. Handoff payloads live on history entries only.
package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// View identifies a workflow view
type View string

const (
	ViewHome       View = "home"
	ViewScan       View = "scan"
	ViewDashboard  View = "dashboard"
	ViewIssue      View = "issue"
	ViewSecureFix  View = "secure_fix"
	ViewAttackSim  View = "attack_sim"
	ViewCompliance View = "compliance"
	ViewEducation  View = "education"
	ViewSettings   View = "settings"
)

// Route path parameters
const (
	ParamScanID  = "scanId"
	ParamIssueID = "issueId"
	ParamVulnID  = "vulnId"
)

// ErrUnknownRoute is returned for a path no view is registered for
var ErrUnknownRoute = errors.New("unknown route")

var routeTable = []struct {
	view    View
	pattern string
}{
	{ViewHome, "/"},
	{ViewScan, "/scan"},
	{ViewDashboard, "/dashboard/{" + ParamScanID + "}"},
	{ViewIssue, "/issue/{" + ParamIssueID + "}"},
	{ViewSecureFix, "/secure-fix/{" + ParamVulnID + "}"},
	{ViewAttackSim, "/attack-sim/{" + ParamScanID + "}"},
	{ViewCompliance, "/compliance/{" + ParamScanID + "}"},
	{ViewEducation, "/education"},
	{ViewSettings, "/settings"},
}

// Route is a matched path
type Route struct {
	View    View
	Pattern string
	Params  map[string]string
}

// Param returns a path parameter, or "" when absent
func (r Route) Param(key string) string {
	return r.Params[key]
}

// Router matches paths against the view route table
type Router struct {
	mux   *chi.Mux
	views map[string]View
}

// NewRouter builds the router for all workflow views
func NewRouter() *Router {
	r := &Router{
		mux:   chi.NewRouter(),
		views: make(map[string]View, len(routeTable)),
	}
	for _, rt := range routeTable {
		r.views[rt.pattern] = rt.view
		r.mux.Get(rt.pattern, func(http.ResponseWriter, *http.Request) {})
	}
	return r
}

// Match resolves path to a route
func (r *Router) Match(path string) (Route, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}

	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	pattern := rctx.RoutePattern()
	view, ok := r.views[pattern]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		value, err := url.PathUnescape(rctx.URLParams.Values[i])
		if err != nil {
			value = rctx.URLParams.Values[i]
		}
		params[key] = value
	}

	return Route{View: view, Pattern: pattern, Params: params}, nil
}

// DashboardPath returns the dashboard path of a scan
func DashboardPath(scanID string) string {
	return "/dashboard/" + url.PathEscape(scanID)
}

// IssuePath returns the detail path of a finding
func IssuePath(issueID string) string {
	return "/issue/" + url.PathEscape(issueID)
}

// SecureFixPath returns the fix path of a finding
func SecureFixPath(vulnID string) string {
	return "/secure-fix/" + url.PathEscape(vulnID)
}

// AttackSimPath returns the simulation path of a scan
func AttackSimPath(scanID string) string {
	return "/attack-sim/" + url.PathEscape(scanID)
}

// CompliancePath returns the compliance path of a scan
func CompliancePath(scanID string) string {
	return "/compliance/" + url.PathEscape(scanID)
}
