package flow

import "sync"

// Route is a view path.
type Route string

const (
	RouteHome    Route = "/"
	RouteLogin   Route = "/login"
	RouteUpload  Route = "/upload"
	RoutePreview Route = "/edit"
	RouteSuccess Route = "/success"
)

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(to Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(to Route) { f(to) }

// History is a Navigator that only records where it was sent. Front ends
// without real views (CLI, MCP) read Current to report the next step.
type History struct {
	mu     sync.Mutex
	routes []Route
}

func (h *History) Navigate(to Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, to)
}

// Current returns the last route navigated to, or RouteHome.
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return RouteHome
	}
	return h.routes[len(h.routes)-1]
}

// Routes returns every navigation in order.
func (h *History) Routes() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Route(nil), h.routes...)
}

func navigatorOrNop(n Navigator) Navigator {
	if n == nil {
		return NavigatorFunc(func(Route) {})
	}
	return n
}
