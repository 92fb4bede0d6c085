package exovel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Column names from the archive's planetary systems tables that the builder
// accepts. Identifiers outside this set are rejected rather than escaped:
// ADQL has no portable identifier quoting and the archive schema is fixed.
var knownColumns = map[string]bool{
	"pl_name":         true,
	"hostname":        true,
	"pl_rade":         true,
	"pl_radj":         true,
	"pl_bmasse":       true,
	"pl_bmassj":       true,
	"pl_orbper":       true,
	"pl_eqt":          true,
	"pl_ntranspec":    true,
	"st_teff":         true,
	"st_rad":          true,
	"st_mass":         true,
	"sy_dist":         true,
	"sy_pnum":         true,
	"sy_snum":         true,
	"disc_year":       true,
	"discoverymethod": true,
	"default_flag":    true,
}

var knownTables = map[string]bool{
	"ps":         true, // planetary systems, one row per reference
	"pscomppars": true, // composite parameters, one row per planet
}

// QuerySpec describes one ADQL SELECT against an archive table.
type QuerySpec struct {
	// Table is the archive table name, e.g. "pscomppars".
	Table string

	// Columns is the ordered list of columns to select. Must be non-empty.
	Columns []string

	// Where holds equality constraints, joined with AND. Values that parse
	// as numbers are emitted bare, anything else as a quoted literal.
	Where map[string]string

	// Top limits the query to the first n rows when > 0.
	Top int
}

// BuildADQL renders the spec as an ADQL SELECT statement. Table, column,
// and constraint identifiers are validated against the archive allow-list;
// violations return *ConfigurationError.
//
// The same spec always renders the same string: WHERE constraints are
// emitted in sorted key order.
func (s QuerySpec) BuildADQL() (string, error) {
	if !knownTables[s.Table] {
		return "", &ConfigurationError{Field: "table", Detail: fmt.Sprintf("unrecognized archive table %q", s.Table)}
	}
	if len(s.Columns) == 0 {
		return "", &ConfigurationError{Field: "columns", Detail: "column list is empty"}
	}
	if s.Top < 0 {
		return "", &ConfigurationError{Field: "top", Detail: fmt.Sprintf("row limit must not be negative, got %d", s.Top)}
	}
	for _, col := range s.Columns {
		if !knownColumns[col] {
			return "", &ConfigurationError{Field: "columns", Detail: fmt.Sprintf("unrecognized column %q", col)}
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if s.Top > 0 {
		fmt.Fprintf(&sb, "TOP %d ", s.Top)
	}
	sb.WriteString(strings.Join(s.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.Table)

	if len(s.Where) > 0 {
		keys := make([]string, 0, len(s.Where))
		for k := range s.Where {
			if !knownColumns[k] {
				return "", &ConfigurationError{Field: "where", Detail: fmt.Sprintf("unrecognized column %q", k)}
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" WHERE ")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, adqlLiteral(s.Where[k]))
		}
	}

	query := sb.String()
	LogDebugf("built query: %s", query)
	return query, nil
}

// HasVelocityColumns reports whether the column list carries the mass and
// radius pair the escape-velocity calculator reads for the given unit
// system. UnitSI has no archive columns of its own and is only reachable
// through pre-converted data, so it accepts either pair.
func (s QuerySpec) HasVelocityColumns(units UnitSystem) bool {
	has := make(map[string]bool, len(s.Columns))
	for _, col := range s.Columns {
		has[col] = true
	}
	earth := has["pl_bmasse"] && has["pl_rade"]
	jupiter := has["pl_bmassj"] && has["pl_radj"]

	switch units {
	case UnitEarth:
		return earth
	case UnitJupiter:
		return jupiter
	default:
		return earth || jupiter
	}
}

// adqlLiteral renders a constraint value: bare for numbers, single-quoted
// with doubled embedded quotes otherwise.
func adqlLiteral(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
