package views

import "sync"

// Route names.
const (
	RouteLogin              = "login"
	RouteRegister           = "register"
	RouteDashboard          = "dashboard"
	RouteAssessments        = "assessments"
	RouteAssessmentNew      = "assessment-new"
	RouteAssessment         = "assessment"
	RouteAssessmentTake     = "assessment-take"
	RouteAssessmentFeedback = "assessment-feedback"
	RouteMentors            = "mentors"
	RouteMentor             = "mentor"
	RouteBookings           = "bookings"
	RouteProgress           = "progress"
)

// public routes render without a signed-in identity.
var public = map[string]bool{
	RouteLogin:    true,
	RouteRegister: true,
}

// Route is a screen and its parameters.
type Route struct {
	Name   string
	Params map[string]string
}

// Param returns the named parameter or "".
func (r Route) Param(name string) string {
	return r.Params[name]
}

// Router tracks the current route. Every Navigate bumps a sequence number so
// the render loop can tell whether a view moved on.
type Router struct {
	mu      sync.Mutex
	current Route
	seq     uint64
}

// NewRouter starts at initial.
func NewRouter(initial Route) *Router {
	return &Router{current: initial}
}

// Navigate switches to name with params given as key, value pairs.
func (r *Router) Navigate(name string, params ...string) {
	p := make(map[string]string, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		p[params[i]] = params[i+1]
	}

	r.NavigateTo(Route{Name: name, Params: p})
}

// NavigateTo switches to route.
func (r *Router) NavigateTo(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.seq++
}

// Current returns the current route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Seq returns the number of navigations so far.
func (r *Router) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}
