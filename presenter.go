package exovel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// WriteTable renders the records as an aligned text table. Invalid records
// show their reason in place of a velocity.
func WriteTable(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLANET\tMASS (kg)\tRADIUS (m)\tV_ESC (m/s)\tV_ESC (km/s)\tVALID")
	for _, r := range records {
		if r.Valid {
			fmt.Fprintf(tw, "%s\t%.4e\t%.4e\t%.1f\t%.2f\ttrue\n",
				r.Name, r.MassKg, r.RadiusM, r.VelocityMS, r.VelocityMS/1000)
		} else {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tfalse (%s)\n", r.Name, r.Reason)
		}
	}
	return tw.Flush()
}

// WriteCSV renders the records as RFC 4180 CSV with a header row. Fields of
// invalid records are left empty apart from name, validity and reason.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	header := []string{"pl_name", "mass_kg", "radius_m", "escape_velocity_ms", "valid", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{r.Name, "", "", "", strconv.FormatBool(r.Valid), r.Reason}
		if r.Valid {
			row[1] = strconv.FormatFloat(r.MassKg, 'e', -1, 64)
			row[2] = strconv.FormatFloat(r.RadiusM, 'e', -1, 64)
			row[3] = strconv.FormatFloat(r.VelocityMS, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
