package importer

import (
	"context"
	"sort"
	"strings"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

// RefCache holds the reference-data snapshots one import run resolves against.
// It is built once per request and passed through the pipeline stages; nothing
// here is shared between requests.
type RefCache struct {
	MemberByName map[string]int64
	EventByDate  map[string]int64
	TypeByLabel  map[string]int64
	TypeByFolded map[string]int64
	Labels       []string // sorted, for "invalid status" messages
}

func loadRefCache(ctx context.Context, repo *roster.Repository) (*RefCache, error) {
	members, err := repo.MemberNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	events, err := repo.EventDateIndex(ctx)
	if err != nil {
		return nil, err
	}
	types, err := repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	cache := &RefCache{
		MemberByName: members,
		EventByDate:  events,
		TypeByLabel:  make(map[string]int64, len(types)),
		TypeByFolded: make(map[string]int64, len(types)),
	}
	for _, t := range types {
		cache.TypeByLabel[t.Descripcion] = t.ID
		cache.TypeByFolded[foldLabel(t.Descripcion)] = t.ID
		cache.Labels = append(cache.Labels, t.Descripcion)
	}
	sort.Strings(cache.Labels)
	return cache, nil
}

// ResolveType matches a status label exactly first, then case-folded.
func (c *RefCache) ResolveType(label string) (int64, bool) {
	if id, ok := c.TypeByLabel[label]; ok {
		return id, true
	}
	id, ok := c.TypeByFolded[foldLabel(label)]
	return id, ok
}

func foldLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
