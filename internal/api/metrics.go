package api

import (
	"net/http"

	"github.com/heysubinoy/solardb/internal/store"
)

// MetricsHandler returns current store metrics as JSON.
// Only works if the server was initialized with an InstrumentedStore.
func MetricsHandler(instrumentedStore *store.InstrumentedStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		m := instrumentedStore.GetMetrics()
		ops := map[string]store.OpSnapshot{
			"hset":     m.HSet,
			"hgetall":  m.HGetAll,
			"sadd":     m.SAdd,
			"smembers": m.SMembers,
			"exec":     m.Exec,
		}

		counts := make(map[string]uint64, len(ops))
		errs := make(map[string]uint64, len(ops))
		latency := make(map[string]string, len(ops))
		for name, op := range ops {
			counts[name] = op.Count
			errs[name] = op.Errors
			latency[name] = op.AvgLatency.String()
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"operations":  counts,
			"errors":      errs,
			"avg_latency": latency,
		})
	}
}
