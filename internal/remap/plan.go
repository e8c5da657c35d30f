package remap

// Plan describes what Apply would do to a header, without touching rows.
type Plan struct {
	Header  []string
	Renamed []string
	Kept    []string
	Dropped []string
	Missing []string
	Mode    Mode
}

// OK reports whether Apply would succeed for this header.
func (p Plan) OK() bool { return p.Mode == Tolerant || len(p.Missing) == 0 }

// PlanFor computes the Plan for header under s.
func PlanFor(header []string, s Spec) Plan {
	lookup := s.Match.index(s.Rename)
	after := make([]string, len(header))
	p := Plan{Header: header, Mode: s.Mode}
	for i, c := range header {
		if to, ok := lookup[s.Match.key(c)]; ok && to != c {
			after[i] = to
			p.Renamed = append(p.Renamed, c+" -> "+to)
			continue
		}
		after[i] = c
	}
	present := make(map[string]struct{}, len(after))
	for _, c := range after {
		present[c] = struct{}{}
	}
	for _, c := range s.Columns {
		if _, ok := present[c]; ok {
			p.Kept = append(p.Kept, c)
		} else {
			p.Missing = append(p.Missing, c)
		}
	}
	p.Dropped = dropped(after, s.Columns)
	return p
}
