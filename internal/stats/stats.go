package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/wjt/sms-query/internal/logger"
	"github.com/wjt/sms-query/internal/storage"
)

// RemoteStats represents per-correspondent totals
type RemoteStats struct {
	RemoteUID string `json:"remote_uid"`
	Count     int    `json:"count"`
	Incoming  int    `json:"incoming"`
	Outgoing  int    `json:"outgoing"`
}

// Result represents aggregate statistics over the filtered event set
type Result struct {
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	Incoming      int            `json:"incoming"`
	Outgoing      int            `json:"outgoing"`
	UniqueRemotes int            `json:"unique_remotes"`
	TopRemotes    []RemoteStats  `json:"top_remotes"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// maxTopRemotes caps the per-correspondent listing
const maxTopRemotes = 10

// Calculate aggregates event counts from the store, restricted by the
// same filters the report uses
func Calculate(store *storage.Store, filters []storage.Predicater) (*Result, error) {
	log := logger.GetLogger().Stats()

	counts, err := store.QueryEventCounts(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate events: %w", err)
	}

	result := &Result{
		ByType:      make(map[string]int),
		GeneratedAt: time.Now(),
	}

	perRemote := make(map[string]*RemoteStats)
	for _, ec := range counts {
		result.Total += ec.Count
		result.ByType[ec.TypeName] += ec.Count
		if ec.Outgoing {
			result.Outgoing += ec.Count
		} else {
			result.Incoming += ec.Count
		}

		rs, ok := perRemote[ec.RemoteUID]
		if !ok {
			rs = &RemoteStats{RemoteUID: ec.RemoteUID}
			perRemote[ec.RemoteUID] = rs
		}
		rs.Count += ec.Count
		if ec.Outgoing {
			rs.Outgoing += ec.Count
		} else {
			rs.Incoming += ec.Count
		}
	}

	result.UniqueRemotes = len(perRemote)
	for _, rs := range perRemote {
		result.TopRemotes = append(result.TopRemotes, *rs)
	}
	sort.Slice(result.TopRemotes, func(i, j int) bool {
		if result.TopRemotes[i].Count != result.TopRemotes[j].Count {
			return result.TopRemotes[i].Count > result.TopRemotes[j].Count
		}
		return result.TopRemotes[i].RemoteUID < result.TopRemotes[j].RemoteUID
	})
	if len(result.TopRemotes) > maxTopRemotes {
		result.TopRemotes = result.TopRemotes[:maxTopRemotes]
	}

	log.Debug().
		Int("total", result.Total).
		Int("unique_remotes", result.UniqueRemotes).
		Msg("Statistics calculated")

	return result, nil
}

// displayType maps event type names to short display labels
func displayType(typeName string) string {
	switch typeName {
	case storage.EventTypeCall:
		return "voice calls"
	case storage.EventTypeCallMissed:
		return "missed calls"
	case storage.EventTypeSMS:
		return "SMS messages"
	default:
		return typeName
	}
}

// FormatText writes a human-readable summary of the result
func FormatText(w io.Writer, result *Result, filterDescs []string) {
	if len(filterDescs) > 0 {
		fmt.Fprintf(w, "* Voice/SMS statistics filtered by %s:\n", strings.Join(filterDescs, ", "))
	} else {
		fmt.Fprintln(w, "* Voice/SMS statistics:")
	}

	fmt.Fprintf(w, "Total events:     %d\n", result.Total)

	types := make([]string, 0, len(result.ByType))
	for typeName := range result.ByType {
		types = append(types, typeName)
	}
	sort.Strings(types)
	for _, typeName := range types {
		fmt.Fprintf(w, "  %-15s %d\n", displayType(typeName)+":", result.ByType[typeName])
	}

	fmt.Fprintf(w, "Incoming:         %d\n", result.Incoming)
	fmt.Fprintf(w, "Outgoing:         %d\n", result.Outgoing)
	fmt.Fprintf(w, "Correspondents:   %d\n", result.UniqueRemotes)

	if len(result.TopRemotes) > 0 {
		fmt.Fprintln(w, "Most active:")
		for _, rs := range result.TopRemotes {
			fmt.Fprintf(w, "  %12s  %4d events (%d in, %d out)\n",
				rs.RemoteUID, rs.Count, rs.Incoming, rs.Outgoing)
		}
	}
}
