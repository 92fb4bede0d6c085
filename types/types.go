package types

// The metadata and rows that comprise a TAP query result set. The metadata
// describes the column structure and VOTable data types. Produced by the
// tap client from a /sync response body.
type ResultSet struct {
	// The metadata that describes the column structure and data types of a
	// table of query results.
	ResultSetMetadata *ResultSetMetadata

	// The rows in the table.
	Rows []Row
}

// The metadata that describes the column structure and data types of a table
// of query results.
type ResultSetMetadata struct {

	// Information about the columns returned in a query result metadata.
	ColumnInfo []ColumnInfo
}

// Information about a column in a query result, as declared by the service:
// a VOTable FIELD element, or inferred from the first row of a JSON response.
type ColumnInfo struct {

	// The name of the column.
	//
	// This member is required.
	Name *string

	// The VOTable data type of the column, e.g. "double", "long", "char".
	//
	// This member is required.
	Type *string

	// The unit the archive reports for the column, e.g. "Rjup" or "Mearth".
	// Informational only.
	Unit *string

	// A UCD (unified content descriptor) label, when the service provides one.
	UCD *string
}

// The rows that comprise a query result table.
type Row struct {
	// The data that populates a row in a query result table.
	Data []Datum
}

// A piece of data (a cell in the table). Nil Value means the archive
// reported no measurement for this cell.
type Datum struct {
	// The text serialization of the cell value.
	Value *string
}
