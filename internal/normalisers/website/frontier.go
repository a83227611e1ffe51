package website

import (
	"net/url"
)

// Frontier is the traversal state of a single crawl: a FIFO queue of
// URLs still to visit and the set of URLs already visited.
// A Frontier belongs to one Crawl call and must not be shared.
type Frontier struct {
	scheme  string
	host    string
	budget  int
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
}

// NewFrontier creates a frontier seeded with seed. The origin is the
// seed's scheme and host; budget caps the number of visited URLs.
func NewFrontier(seed *url.URL, budget int) *Frontier {
	f := &Frontier{
		scheme:  seed.Scheme,
		host:    seed.Host,
		budget:  budget,
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
	f.push(normaliseURL(seed))
	return f
}

// Next dequeues the next URL that has not been visited.
// It returns false once the queue is drained or the budget is spent.
func (f *Frontier) Next() (string, bool) {
	for len(f.queue) > 0 && len(f.visited) < f.budget {
		next := f.queue[0]
		f.queue = f.queue[1:]
		if _, seen := f.visited[next]; seen {
			continue
		}
		return next, true
	}
	return "", false
}

// MarkVisited records u as visited.
func (f *Frontier) MarkVisited(u string) {
	if len(f.visited) >= f.budget {
		return
	}
	f.visited[u] = struct{}{}
}

// IsVisited reports whether u has been visited.
func (f *Frontier) IsVisited(u string) bool {
	_, ok := f.visited[u]
	return ok
}

// Enqueue adds every same-origin link that is neither visited nor already queued.
// It returns the number of links added.
func (f *Frontier) Enqueue(links []string) int {
	added := 0
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil || !f.SameOrigin(u) {
			continue
		}
		if f.push(normaliseURL(u)) {
			added++
		}
	}
	return added
}

// SameOrigin reports whether u has exactly the seed's scheme and host.
// Subdomains are different origins.
func (f *Frontier) SameOrigin(u *url.URL) bool {
	return u.Scheme == f.scheme && u.Host == f.host
}

// Visited returns the number of visited URLs.
func (f *Frontier) Visited() int {
	return len(f.visited)
}

// Pending returns the number of queued URLs.
func (f *Frontier) Pending() int {
	return len(f.queue)
}

func (f *Frontier) push(u string) bool {
	if _, seen := f.visited[u]; seen {
		return false
	}
	if _, seen := f.queued[u]; seen {
		return false
	}
	f.queued[u] = struct{}{}
	f.queue = append(f.queue, u)
	return true
}

// normaliseURL drops the fragment and maps an empty path to "/", so
// "https://host" and "https://host/#top" name the same page as "https://host/".
func normaliseURL(u *url.URL) string {
	clean := *u
	clean.Fragment = ""
	clean.RawFragment = ""
	if clean.Path == "" {
		clean.Path = "/"
		clean.RawPath = ""
	}
	return clean.String()
}
