// Package research looks up external context for extracted incidents: an
// encyclopedia summary from Wikipedia and community answers from Stack
// Overflow (through the Tavily search API).
package research

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/autolog/logagent/internal/config"
	"github.com/autolog/logagent/internal/logger"
	"github.com/autolog/logagent/internal/models"
)

// MaxStackOverflowHits is how many community results are kept per incident.
const MaxStackOverflowHits = 3

const defaultHTTPTimeout = 30 * time.Second

// Researcher runs both lookups for one incident. Failures are folded into
// the result rather than returned.
type Researcher struct {
	wiki *Wikipedia
	so   *StackOverflow
}

// NewLimiter converts a per-minute budget into a token bucket shared by
// the research clients.
func NewLimiter(perMinute float64) *rate.Limiter {
	burst := int(perMinute / 10)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perMinute/60.0), burst)
}

// New builds a Researcher from configuration with one shared limiter.
func New(cfg config.ResearchConfig) *Researcher {
	limiter := NewLimiter(cfg.RatePerMinute)
	client := &http.Client{Timeout: defaultHTTPTimeout}
	return &Researcher{
		wiki: NewWikipedia(cfg.WikipediaURL, client, limiter),
		so:   NewStackOverflow(cfg.TavilyURL, cfg.TavilyAPIKey, client, limiter),
	}
}

// NewResearcher assembles a Researcher from explicit clients.
func NewResearcher(wiki *Wikipedia, so *StackOverflow) *Researcher {
	return &Researcher{wiki: wiki, so: so}
}

// Research looks query up in both sources.
func (r *Researcher) Research(ctx context.Context, incident models.Incident, query string) models.ResearchResult {
	result := models.ResearchResult{
		Incident:  incident,
		Query:     query,
		Wikipedia: r.wiki.Lookup(ctx, query),
	}

	hits, err := r.so.Search(ctx, query)
	if err != nil {
		logger.Warn("Stack Overflow search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		hits = nil
	}
	if len(hits) > MaxStackOverflowHits {
		hits = hits[:MaxStackOverflowHits]
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}
	result.StackOverflow = hits
	return result
}
