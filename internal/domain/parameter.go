package domain

import "fmt"

// Period is a temporal aggregation resolution.
type Period string

// Supported aggregation periods.
const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodMonthly, PeriodAnnual:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: invalid temporal resolution %q (expected daily, monthly or annual)", ErrConfig, s)
}

// Parameter describes a requestable variable family: which dataset
// variables it selects, whether the family carries a depth axis, and
// whether a derived quantity must be computed from components.
type Parameter struct {
	// Name is the request key, e.g. "currents".
	Name string

	// Variable is the canonical name the rendered field is published under.
	Variable string

	// Components lists the constituent variables to fetch. For scalar
	// parameters this is just {Variable}; for derived vector parameters it
	// holds the orthogonal components (e.g. uo, vo).
	Components []string

	// HasDepth reports whether the family carries a depth axis. Depth
	// selection is skipped, with a notice, for depth-less families.
	HasDepth bool

	// Derived reports whether Variable must be computed from Components
	// rather than fetched directly.
	Derived bool

	// HighFrequency marks families published at sub-daily cadence that
	// must be aggregated to the requested period before merging. The
	// catalog row for such families is keyed by CatalogTemporal.
	HighFrequency   bool
	CatalogTemporal string
}

// parameters is the closed set of known variable families. Variables use
// the upstream archive's native names.
var parameters = []Parameter{
	{Name: "currents", Variable: "sea_water_velocity", Components: []string{"uo", "vo"}, HasDepth: true, Derived: true},
	{Name: "temperature", Variable: "thetao", Components: []string{"thetao"}, HasDepth: true},
	{Name: "salinity", Variable: "so", Components: []string{"so"}, HasDepth: true},
	{Name: "chlorophyll", Variable: "chl", Components: []string{"chl"}, HasDepth: true},
	{Name: "ph", Variable: "ph", Components: []string{"ph"}, HasDepth: true},
	{Name: "waves", Variable: "VHM0", Components: []string{"VHM0"}, HighFrequency: true, CatalogTemporal: "3-hourly"},
	{Name: "clarity", Variable: "ZSD", Components: []string{"ZSD"}},
}

// ParameterByName looks up a variable family by request key.
func ParameterByName(name string) (Parameter, error) {
	for _, p := range parameters {
		if p.Name == name {
			return p, nil
		}
	}
	return Parameter{}, fmt.Errorf("%w: %q is not a valid parameter (options: %s)", ErrConfig, name, parameterNames())
}

// Parameters returns the known variable families in declaration order.
func Parameters() []Parameter {
	out := make([]Parameter, len(parameters))
	copy(out, parameters)
	return out
}

func parameterNames() string {
	s := ""
	for i, p := range parameters {
		if i > 0 {
			s += ", "
		}
		s += p.Name
	}
	return s
}
