package exovel

import (
	"context"
	"reflect"

	"github.com/exo-archive/exovel/types"
)

type dataMapper struct {
	modelType             reflect.Type
	modelDefinitionSchema modelDefinitionMap
}

// DataMapper provides abstraction to convert a TAP ResultSet object to an
// arbitrary user-defined struct
type DataMapper interface {
	FromResultSet(ctx context.Context, input *types.ResultSet) ([]interface{}, error)
}

// NewMapperFor creates new DataMapper for given reflect.Type
// reflect.Type should be of struct value type, not pointer to struct.
//
// Example:
//
// mapper, err := exovel.NewMapperFor(reflect.TypeOf(MyStruct{}))
func NewMapperFor(modelType reflect.Type) (DataMapper, error) {
	modelDefinitionSchema, err := newModelDefinitionMap(modelType)
	if err != nil {
		return nil, err
	}

	mapper := &dataMapper{
		modelType:             modelType,
		modelDefinitionSchema: modelDefinitionSchema,
	}
	return mapper, nil
}

// FromResultSet converts a ResultSet parsed from a TAP response into a
// strongly-typed array[mapper.modelType].
// Returns error if the result set metadata does not match the mapper
// definition, or if a non-null cell cannot be cast to the model field type.
// Archive nulls are mapped to nil on pointer fields and never error.
func (m *dataMapper) FromResultSet(ctx context.Context, resultSet *types.ResultSet) ([]interface{}, error) {
	resultSetSchema, err := newResultSetDefinitionMap(ctx, resultSet.ResultSetMetadata)
	if err != nil {
		return nil, err
	}

	err = validateResultSetSchema(ctx, resultSetSchema, m.modelDefinitionSchema)
	if err != nil {
		return nil, err
	}

	result := make([]interface{}, 0)
	for _, row := range resultSet.Rows {
		model := reflect.New(m.modelType)
		for columnName, modelDefColInfo := range m.modelDefinitionSchema {
			mappedColumnInfo := resultSetSchema[columnName]
			fieldName := modelDefColInfo.fieldName
			field := model.Elem().FieldByName(fieldName)

			colData, err := castRowData(ctx, row.Data[mappedColumnInfo.index], mappedColumnInfo.columnDataType, field.Kind())
			if err != nil {
				return nil, err
			}
			if colData != nil {
				field.Set(reflect.ValueOf(colData))
			}
		}

		result = append(result, model.Interface())
	}

	return result, nil
}
