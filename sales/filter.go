package sales

import (
	"strconv"
	"strings"

	"partsdemand/models"
	"partsdemand/utils"
)

// Filter applies the filter page widgets to the table.
//
// The branches are evaluated in order and only the first match applies: both
// multiselects populated combine with AND, exactly one populated combines with
// OR (so it degenerates to that single condition), then the free-text search,
// then the date, otherwise every row is returned.
func Filter(t *Table, p models.FilterParams) []models.SalesRecord {
	records := t.Records()

	parts := make(map[string]bool, len(p.PartsIDs))
	for _, id := range p.PartsIDs {
		parts[id] = true
	}
	volumes := make(map[int]bool, len(p.Volumes))
	for _, v := range p.Volumes {
		volumes[v] = true
	}

	switch {
	case len(parts) > 0 && len(volumes) > 0:
		return keep(records, func(r models.SalesRecord) bool {
			return parts[r.PartsID] && volumes[r.Volume]
		})
	case len(parts) > 0 || len(volumes) > 0:
		return keep(records, func(r models.SalesRecord) bool {
			return parts[r.PartsID] || volumes[r.Volume]
		})
	case p.Search != "":
		if n, err := strconv.Atoi(strings.TrimSpace(p.Search)); err == nil {
			return keep(records, func(r models.SalesRecord) bool {
				return r.Volume == n
			})
		}
		needle := strings.ToLower(p.Search)
		return keep(records, func(r models.SalesRecord) bool {
			return strings.Contains(strings.ToLower(strconv.Itoa(r.Volume)), needle)
		})
	case p.Date != nil:
		return keep(records, func(r models.SalesRecord) bool {
			return utils.SameDay(r.Date, *p.Date)
		})
	default:
		if records == nil {
			return []models.SalesRecord{}
		}
		return records
	}
}

func keep(records []models.SalesRecord, pred func(models.SalesRecord) bool) []models.SalesRecord {
	out := make([]models.SalesRecord, 0)
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
