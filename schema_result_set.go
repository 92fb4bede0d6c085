package exovel

import (
	"context"
	"fmt"

	"github.com/exo-archive/exovel/types"
	"github.com/exo-archive/exovel/util"
)

// resultSetDefinitionMap is a map of column name to each column returned by
// TAP queries
type resultSetDefinitionMap map[string]resultSetColInfo

// resultSetColInfo as retrieved from the ResultSetMetadata parsed out of a
// TAP response
type resultSetColInfo struct {
	index          int
	columnDataType string
}

// newResultSetDefinitionMap reads the schema definition from result set metadata
func newResultSetDefinitionMap(ctx context.Context, resultSetMetadataSchema *types.ResultSetMetadata) (resultSetDefinitionMap, error) {
	if resultSetMetadataSchema == nil || len(resultSetMetadataSchema.ColumnInfo) <= 0 {
		err := fmt.Errorf("at least one column should be returned by the data set")
		return nil, err
	}

	schema := make(map[string]resultSetColInfo)
	for index, columnInfo := range resultSetMetadataSchema.ColumnInfo {
		columnName := util.SafeString(columnInfo.Name)
		if columnName == "" {
			err := fmt.Errorf("column name from result set is empty, index: %d, columnInfo: %+v", index, columnInfo)
			return nil, err
		}

		columnType := util.SafeString(columnInfo.Type)
		if columnType == "" {
			err := fmt.Errorf("column type from result set is empty, index: %d, name: %s, columnInfo: %+v", index, columnName, columnInfo)
			return nil, err
		}

		if _, ok := schema[columnName]; !ok {
			schema[columnName] = resultSetColInfo{
				index:          index,
				columnDataType: columnType,
			}
		} else {
			err := fmt.Errorf("duplicate column name from result set, index: %d, name: %s, columnInfo: %+v", index, columnName, columnInfo)
			return nil, err
		}
	}
	return schema, nil
}

// validateResultSetSchema checks that every model column exists in the result
// set. The result set may carry extra columns: queries often select context
// columns the model does not read, and those are simply ignored.
func validateResultSetSchema(ctx context.Context, resultSetSchema resultSetDefinitionMap, modelDefSchema modelDefinitionMap) error {
	for key := range modelDefSchema {
		if _, ok := resultSetSchema[key]; !ok {
			err := fmt.Errorf("column '%s' is defined in model schema but not found in result set", key)
			return err
		}
	}

	if extra := len(resultSetSchema) - len(modelDefSchema); extra > 0 {
		LogDebugf("result set carries %d column(s) not present in the model schema, ignoring", extra)
	}

	return nil
}
