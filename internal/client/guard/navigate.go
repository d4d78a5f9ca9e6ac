package guard

import "errors"

const maxHops = 4

// ErrTooManyRedirects means the route table redirects in a loop.
var ErrTooManyRedirects = errors.New("too many redirects")

// Navigation is the outcome of Navigate.
type Navigation struct {
	// Route is the route to render.
	Route Route
	// Decision is the first non-Allow guard decision on the way, or Allow
	// if the requested section was entered directly.
	Decision Decision
	// Hops lists every path visited, starting with the requested one.
	Hops []string
}

// Navigate resolves path to the route the console should render. Aliases
// are followed and every protected route on the way is guarded again, the
// way a router re-renders a protected element after a redirect.
func Navigate(path string, store PrincipalStore) (Navigation, error) {
	nav := Navigation{Decision: Decision{Outcome: Allow}}
	decided := false

	for i := 0; i <= maxHops; i++ {
		r, err := Lookup(path)
		if err != nil {
			return nav, err
		}
		nav.Hops = append(nav.Hops, r.Path)

		if !r.Public {
			d := Authorize(r.Roles, store)
			if d.Outcome != Allow {
				if !decided {
					nav.Decision = d
					decided = true
				}
				path = d.Target()
				continue
			}
		}

		if r.RedirectTo != "" {
			path = r.RedirectTo
			continue
		}

		nav.Route = r
		return nav, nil
	}

	return nav, ErrTooManyRedirects
}
