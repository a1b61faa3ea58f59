package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"pawpals/internal/domain"
)

// NearbyCache absorbs bursts of near-identical proximity queries during live
// updates. Entries expire after the TTL passed to Set; there is no
// invalidation on position writes, so results may be stale for up to that
// TTL. Implementations are best-effort: a failing cache degrades to querying
// the store, never to an error.
type NearbyCache interface {
	Get(ctx context.Context, key string) ([]domain.NearbyEntry, bool)
	Set(ctx context.Context, key string, entries []domain.NearbyEntry, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

// Key builds the deterministic signature of a proximity query:
// nearby:<lat>:<lng>:<radius>:<filters-json>. Coordinates keep full float
// precision so repeated identical queries hit and distinct queries never
// collide; the filter JSON serializes in fixed struct-field order.
func Key(lat, lng, radiusMeters float64, f domain.NearbyFilters) string {
	filters, _ := json.Marshal(f)
	var b strings.Builder
	b.WriteString("nearby:")
	b.WriteString(strconv.FormatFloat(lat, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(lng, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(radiusMeters, 'g', -1, 64))
	b.WriteByte(':')
	b.Write(filters)
	return b.String()
}
