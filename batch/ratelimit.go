package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/tablex"
	"golang.org/x/time/rate"
)

var _ tablex.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond is the per-host fetch rate used when none is
// configured.
const DefaultRequestsPerSecond = 2.0

// DomainLimiter spaces out fetches to the same host. Hosts are compared
// case-insensitively with any leading "www." removed, so report.example.com
// and www.report.example.com share one bucket.
type DomainLimiter struct {
	every rate.Limit
	hosts sync.Map // host -> *rate.Limiter
}

func NewDomainLimiter(rps float64) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &DomainLimiter{every: rate.Limit(rps)}
}

// Wait blocks until the host's bucket has a token or ctx ends.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := strings.TrimPrefix(strings.ToLower(domain), "www.")
	l, ok := d.hosts.Load(key)
	if !ok {
		l, _ = d.hosts.LoadOrStore(key, rate.NewLimiter(d.every, 1))
	}
	return l.(*rate.Limiter).Wait(ctx)
}
