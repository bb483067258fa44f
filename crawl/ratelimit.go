package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/dkowalski/docrag"
	"golang.org/x/time/rate"
)

var _ docrag.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter paces requests with one token bucket per domain, so a slow
// crawl of one site never throttles another. Buckets are created lazily on
// first use and allow no bursting.
type DomainLimiter struct {
	limit rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each domain.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limit:   rate.Limit(rps),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the domain's bucket permits a request, or the context
// is canceled. Domains are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.bucket(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(domain string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[domain]
	if !ok {
		b = rate.NewLimiter(d.limit, 1)
		d.buckets[domain] = b
	}
	return b
}
