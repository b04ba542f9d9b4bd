package httpapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/poiesic/scholarseek/university"
)

type universityStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// handleUniversities reports researcher counts per normalized university
// name. When the warehouse cannot be scanned a static snapshot is served
// with status "fallback" so the dashboard filter still populates.
func (s *Server) handleUniversities(w http.ResponseWriter, r *http.Request) {
	stats, err := s.liveUniversityStats(r)
	status := "success"
	if err != nil {
		s.logger.Warn("university stats unavailable, serving fallback", "err", err)
		status = "fallback"
		stats = make([]universityStat, 0, len(university.FallbackStats))
		for _, stat := range university.FallbackStats {
			stats = append(stats, universityStat{Name: stat.Name, Count: stat.Count})
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":             status,
		"total_universities": len(stats),
		"universities":       stats,
	})
}

func (s *Server) liveUniversityStats(r *http.Request) ([]universityStat, error) {
	records, err := s.warehouse.Scan(r.Context(), nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, record := range records {
		name := university.NormalizeName(record.AffiliationJA)
		if name == "" || !strings.HasSuffix(name, "大学") {
			continue
		}
		counts[name]++
	}

	stats := make([]universityStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, universityStat{Name: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}
