package tap

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/exo-archive/exovel/types"
	"github.com/exo-archive/exovel/util"
)

// Minimal VOTable document model: one RESOURCE of type "results" holding one
// TABLE of FIELD declarations and TABLEDATA rows. Everything else in the
// format (PARAM, GROUP, BINARY serialization) is out of scope for a sync
// query response from the archive.
type voTableDocument struct {
	XMLName   xml.Name     `xml:"VOTABLE"`
	Resources []voResource `xml:"RESOURCE"`
}

type voResource struct {
	Type   string    `xml:"type,attr"`
	Infos  []voInfo  `xml:"INFO"`
	Tables []voTable `xml:"TABLE"`
}

type voInfo struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type voTable struct {
	Fields []voField `xml:"FIELD"`
	Rows   []voRow   `xml:"DATA>TABLEDATA>TR"`
}

type voField struct {
	Name     string `xml:"name,attr"`
	Datatype string `xml:"datatype,attr"`
	Unit     string `xml:"unit,attr"`
	UCD      string `xml:"ucd,attr"`
}

type voRow struct {
	Cells []string `xml:"TD"`
}

// parseVOTable converts a VOTable response body into a ResultSet. A
// QUERY_STATUS=ERROR info element means the service rejected the query and
// is surfaced as an error carrying the service message.
func parseVOTable(body []byte) (*types.ResultSet, error) {
	var doc voTableDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed votable: %w", err)
	}
	if len(doc.Resources) == 0 {
		return nil, fmt.Errorf("votable has no RESOURCE element")
	}

	resource := doc.Resources[0]
	for _, r := range doc.Resources {
		if r.Type == "results" {
			resource = r
			break
		}
	}

	for _, info := range resource.Infos {
		if info.Name == "QUERY_STATUS" && info.Value == "ERROR" {
			msg := strings.TrimSpace(info.Text)
			if msg == "" {
				msg = "no detail provided"
			}
			return nil, fmt.Errorf("service reported query error: %s", msg)
		}
	}

	if len(resource.Tables) == 0 {
		return nil, fmt.Errorf("votable resource has no TABLE element")
	}
	table := resource.Tables[0]
	if len(table.Fields) == 0 {
		return nil, fmt.Errorf("votable table declares no FIELD elements")
	}

	metadata := &types.ResultSetMetadata{
		ColumnInfo: make([]types.ColumnInfo, 0, len(table.Fields)),
	}
	for _, field := range table.Fields {
		columnInfo := types.ColumnInfo{
			Name: util.RefString(field.Name),
			Type: util.RefString(field.Datatype),
		}
		if field.Unit != "" {
			columnInfo.Unit = util.RefString(field.Unit)
		}
		if field.UCD != "" {
			columnInfo.UCD = util.RefString(field.UCD)
		}
		metadata.ColumnInfo = append(metadata.ColumnInfo, columnInfo)
	}

	resultSet := &types.ResultSet{
		ResultSetMetadata: metadata,
		Rows:              make([]types.Row, 0, len(table.Rows)),
	}
	for rowIndex, row := range table.Rows {
		if len(row.Cells) != len(table.Fields) {
			return nil, fmt.Errorf("row %d has %d cell(s), table declares %d field(s)", rowIndex, len(row.Cells), len(table.Fields))
		}

		data := make([]types.Datum, 0, len(row.Cells))
		for cellIndex, cell := range row.Cells {
			// empty cell on a non-char column is an archive null
			if cell == "" && !isCharField(table.Fields[cellIndex].Datatype) {
				data = append(data, types.Datum{})
				continue
			}
			data = append(data, types.Datum{Value: util.RefString(cell)})
		}
		resultSet.Rows = append(resultSet.Rows, types.Row{Data: data})
	}

	return resultSet, nil
}

func isCharField(datatype string) bool {
	return datatype == "char" || datatype == "unicodeChar"
}
