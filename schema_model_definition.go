package exovel

import (
	"fmt"
	"reflect"
)

// modelDefinitionMap is a map of archive column name to each field/column
// defined in struct tags
type modelDefinitionMap map[string]modelDefinitionColInfo

// modelDefinitionColInfo as defined in the user-defined struct field tags
type modelDefinitionColInfo struct {
	fieldName string
}

func newModelDefinitionMap(modelType reflect.Type) (modelDefinitionMap, error) {
	if modelType == nil || modelType.Kind() != reflect.Struct {
		err := fmt.Errorf("model type should be a struct value type, got: %v", modelType)
		return nil, err
	}
	if modelType.NumField() <= 0 {
		err := fmt.Errorf("at least one field should be defined for struct of type: %s", modelType.String())
		return nil, err
	}

	schema := make(map[string]modelDefinitionColInfo)
	// generate schema from struct tags:
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		fieldName := field.Name
		columnName := field.Tag.Get("exovel")
		if columnName == "" {
			err := fmt.Errorf("missing exovel column tag for fieldName: %s", fieldName)
			return nil, err
		}

		if _, ok := schema[columnName]; !ok {
			schema[columnName] = modelDefinitionColInfo{
				fieldName: fieldName,
			}
		} else {
			err := fmt.Errorf("duplicate exovel column tag found: %s", columnName)
			return nil, err
		}
	}

	return schema, nil
}
