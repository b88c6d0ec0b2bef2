package cleaning

// Observation is a cleaned output row: a single region and a present value.
type Observation struct {
	Unit   string
	Sex    string
	Age    string
	Region string
	Year   int
	Value  float64
}

// Filter keeps the records whose Region equals region exactly and whose
// Value is present. The result is never nil.
func Filter(records []Record, region string) []Observation {
	out := make([]Observation, 0)
	for _, r := range records {
		if r.Region != region || !r.Value.Valid {
			continue
		}
		out = append(out, Observation{
			Unit:   r.Unit,
			Sex:    r.Sex,
			Age:    r.Age,
			Region: r.Region,
			Year:   r.Year,
			Value:  r.Value.Float64,
		})
	}
	return out
}

// Regions returns the distinct region codes in records in first-seen order.
func Regions(records []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	return out
}
