package hazard

// Predicate selects records.
type Predicate func(Record) bool

// And combines predicates with logical AND. Order does not affect the result.
func And(preds ...Predicate) Predicate {
	return func(r Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

func WithRiskLevel(level RiskLevel) Predicate {
	return func(r Record) bool { return r.RiskLevel == level }
}

func WithCategory(c Category) Predicate {
	return func(r Record) bool { return r.Category == c }
}

func WithMinRating(min int) Predicate {
	return func(r Record) bool { return r.ConsequenceRating >= min }
}

// Filter is the query shape shared by both API surfaces. Zero fields do not filter.
type Filter struct {
	RiskLevel RiskLevel
	Category  Category
	// MinRating is ignored when nil.
	MinRating *int
}

func (f Filter) Predicate() Predicate {
	var preds []Predicate
	if f.RiskLevel != "" {
		preds = append(preds, WithRiskLevel(f.RiskLevel))
	}
	if f.Category != "" {
		preds = append(preds, WithCategory(f.Category))
	}
	if f.MinRating != nil {
		preds = append(preds, WithMinRating(*f.MinRating))
	}
	return And(preds...)
}

// Apply returns the records matching p, preserving order.
func Apply(records []Record, p Predicate) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if p(r) {
			out = append(out, r)
		}
	}
	return out
}

type RiskLevelCount struct {
	RiskLevel RiskLevel `json:"riskLevel"`
	Count     int       `json:"count"`
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Stats aggregates the registry. ByRiskLevel and ByCategory always list every value, zeros included.
type Stats struct {
	TotalCount     int              `json:"totalCount"`
	ByRiskLevel    []RiskLevelCount `json:"byRiskLevel"`
	ByCategory     []CategoryCount  `json:"byCategory"`
	CriticalLevels int              `json:"criticalLevels"`
}

func ComputeStats(records []Record) Stats {
	byRisk := make(map[RiskLevel]int, len(RiskLevels))
	byCat := make(map[Category]int, len(Categories))
	out := Stats{TotalCount: len(records)}
	for _, r := range records {
		byRisk[r.RiskLevel]++
		byCat[r.Category]++
		if r.RiskLevel.Critical() {
			out.CriticalLevels++
		}
	}

	out.ByRiskLevel = make([]RiskLevelCount, 0, len(RiskLevels))
	for _, l := range RiskLevels {
		out.ByRiskLevel = append(out.ByRiskLevel, RiskLevelCount{RiskLevel: l, Count: byRisk[l]})
	}
	out.ByCategory = make([]CategoryCount, 0, len(Categories))
	for _, c := range Categories {
		out.ByCategory = append(out.ByCategory, CategoryCount{Category: c, Count: byCat[c]})
	}
	return out
}
