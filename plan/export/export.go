// Package export renders finished schedules into the two interchange
// shapes consumed by external tooling: a flat tabular form (CSV) and a
// hierarchical form (JSON). Both are byte-for-byte deterministic for
// identical schedules — groups already keep their members sorted
// ascending.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/seatplan/seatplan/plan"
)

// Row is one seat assignment in the tabular form.
type Row struct {
	Round int
	Group int
	Agent int
}

// Tabular flattens the schedule into (round, group, agent) rows, ordered
// by round, then group, then agent id.
func Tabular(s *plan.Schedule) []Row {
	var rows []Row
	for _, r := range s.Rounds {
		for gi, g := range r.Groups {
			for _, a := range g {
				rows = append(rows, Row{Round: r.Index, Group: gi, Agent: a})
			}
		}
	}
	return rows
}

// WriteCSV writes the tabular form with a round_id,group_id,agent_id
// header.
func WriteCSV(w io.Writer, s *plan.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"round_id", "group_id", "agent_id"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range Tabular(s) {
		record := []string{
			strconv.Itoa(row.Round),
			strconv.Itoa(row.Group),
			strconv.Itoa(row.Agent),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Document is the hierarchical form: rounds holding groups holding sorted
// agent ids, plus the config needed to recompute metrics from the file
// alone.
type Document struct {
	Config ConfigDoc  `json:"config"`
	Rounds []RoundDoc `json:"rounds"`
}

// ConfigDoc mirrors plan.EventConfig in the interchange shape.
type ConfigDoc struct {
	Agents        int `json:"agents"`
	Groups        int `json:"groups"`
	GroupCapacity int `json:"group_capacity"`
	Rounds        int `json:"rounds"`
}

// RoundDoc is one round of the hierarchical form.
type RoundDoc struct {
	RoundIndex int        `json:"round_index"`
	Groups     []GroupDoc `json:"groups"`
}

// GroupDoc is one group of the hierarchical form; agent ids ascending.
type GroupDoc struct {
	GroupIndex int   `json:"group_index"`
	AgentIDs   []int `json:"agent_ids"`
}

// Hierarchical builds the nested document for the schedule.
func Hierarchical(s *plan.Schedule) Document {
	doc := Document{
		Config: ConfigDoc{
			Agents:        s.Config.Agents,
			Groups:        s.Config.Groups,
			GroupCapacity: s.Config.GroupCapacity,
			Rounds:        s.Config.Rounds,
		},
		Rounds: make([]RoundDoc, len(s.Rounds)),
	}
	for ri, r := range s.Rounds {
		groups := make([]GroupDoc, len(r.Groups))
		for gi, g := range r.Groups {
			ids := make([]int, len(g))
			copy(ids, g)
			groups[gi] = GroupDoc{GroupIndex: gi, AgentIDs: ids}
		}
		doc.Rounds[ri] = RoundDoc{RoundIndex: r.Index, Groups: groups}
	}
	return doc
}

// WriteJSON writes the hierarchical form, indented for readability.
func WriteJSON(w io.Writer, s *plan.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Hierarchical(s)); err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	return nil
}

// ReadJSON parses a hierarchical document back into a Schedule, so
// external consumers can hand a previously exported file to the metrics
// entry point.
func ReadJSON(r io.Reader) (*plan.Schedule, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument rebuilds the in-memory schedule from its hierarchical form.
func FromDocument(doc Document) (*plan.Schedule, error) {
	cfg := plan.EventConfig{
		Agents:        doc.Config.Agents,
		Groups:        doc.Config.Groups,
		GroupCapacity: doc.Config.GroupCapacity,
		Rounds:        doc.Config.Rounds,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(doc.Rounds) != cfg.Rounds {
		return nil, fmt.Errorf("document holds %d rounds, config says %d", len(doc.Rounds), cfg.Rounds)
	}
	s := &plan.Schedule{
		Rounds: make([]plan.Round, len(doc.Rounds)),
		Config: cfg,
	}
	for ri, rd := range doc.Rounds {
		groups := make([]plan.Group, len(rd.Groups))
		for gi, gd := range rd.Groups {
			ids := make(plan.Group, len(gd.AgentIDs))
			copy(ids, gd.AgentIDs)
			sort.Ints(ids)
			groups[gi] = ids
		}
		s.Rounds[ri] = plan.Round{Index: rd.RoundIndex, Groups: groups}
	}
	if err := s.CheckCoverage(); err != nil {
		return nil, fmt.Errorf("invalid schedule document: %w", err)
	}
	return s, nil
}
