package cleaning

import (
	"fmt"
	"log/slog"

	"lifeexp/internal/logging"
	"lifeexp/internal/region"
	"lifeexp/internal/table"
)

// jsonColumns maps the long JSON layout onto LongColumns.
var jsonColumns = map[string]string{
	"country":         "region",
	"life_expectancy": "value",
}

// Stats counts rows at each stage of a Clean call.
type Stats struct {
	Loaded      int // rows in the input table
	Reshaped    int // long rows after melt (or input rows for long layouts)
	Kept        int // observations returned
	DroppedNull int // rows of the requested region with no value
}

// Result is the outcome of Clean.
type Result struct {
	Observations []Observation
	Stats        Stats
}

// Cleaner runs the cleaning stages for one region.
type Cleaner struct {
	Logger *slog.Logger

	// Regions is the whitelist checked in strict mode. Nil means
	// region.European.
	Regions *region.Set

	// Strict rejects unknown regions and empty results with an error.
	// Otherwise both are logged and an empty result is returned.
	Strict bool
}

// New returns a strict Cleaner over the European whitelist.
func New(logger *slog.Logger) *Cleaner {
	return &Cleaner{Logger: logger, Strict: true}
}

// Clean turns t into the observations for code. t is not modified.
//
// Wide tables (with CompositeColumn) are decomposed, melted and coerced.
// Long JSON tables are renamed and coerced. A table with no columns at all
// is treated as having no records.
func (c *Cleaner) Clean(t *table.Table, code string) (*Result, error) {
	log := logging.OrDefault(c.Logger).With("region", code)
	res := &Result{Observations: []Observation{}}
	res.Stats.Loaded = t.Len()

	records, err := c.records(t, &res.Stats)
	if err != nil {
		return res, err
	}

	if c.Strict {
		set := c.Regions
		if set == nil {
			set = region.European
		}
		if !set.Contains(code) {
			avail := set.Present(Regions(records))
			if len(avail) == 0 {
				avail = set.Codes()
			}
			err := &RegionError{Region: code, Available: avail}
			log.Error("Region not recognized", "available", avail)
			return res, err
		}
	}

	for _, r := range records {
		if r.Region == code && !r.Value.Valid {
			res.Stats.DroppedNull++
		}
	}
	res.Observations = Filter(records, code)
	res.Stats.Kept = len(res.Observations)

	if len(res.Observations) == 0 {
		if c.Strict {
			log.Error("No data found for region")
			return res, fmt.Errorf("%w %s", ErrEmptyResult, code)
		}
		log.Warn("No data found for region")
		return res, nil
	}

	log.Info("Successfully cleaned data",
		"rows", res.Stats.Kept,
		"dropped_null", res.Stats.DroppedNull)
	return res, nil
}

func (c *Cleaner) records(t *table.Table, st *Stats) ([]Record, error) {
	if t == nil {
		return nil, nil
	}
	var long *table.Table
	switch {
	case t.Has(CompositeColumn):
		wide, err := Decompose(t)
		if err != nil {
			return nil, err
		}
		long, err = Melt(wide, IdentityColumns, "year", "value")
		if err != nil {
			return nil, err
		}
	case t.Has("country", "life_expectancy"):
		long = t.Rename(jsonColumns)
	case t.Has(LongColumns...):
		long = t
	case len(t.Columns) == 0:
		return nil, nil
	default:
		return nil, fmt.Errorf("clean: %w: need %q or %v", ErrMissingColumn, CompositeColumn, LongColumns)
	}
	st.Reshaped = long.Len()
	return Coerce(long)
}
