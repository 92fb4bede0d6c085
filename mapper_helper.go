package exovel

import (
	"context"
	"fmt"
	"reflect"

	"github.com/exo-archive/exovel/types"
)

// ConvertResultSet converts a ResultSet parsed from a TAP response into dest,
// which must be a pointer to a slice of a tagged model struct.
// Useful for one-time conversion. For repeated use, consider creating DataMapper.
//
// Example:
// 	var dest []MyModel
// 	err := exovel.ConvertResultSet(ctx, &dest, resultSet)
func ConvertResultSet(ctx context.Context, dest interface{}, src *types.ResultSet) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest should be a pointer to a slice of model structs, got: %T", dest)
	}

	mapper, err := NewMapperFor(destValue.Elem().Type().Elem())
	if err != nil {
		return err
	}

	mapped, err := mapper.FromResultSet(ctx, src)
	if err != nil {
		return err
	}

	slice := destValue.Elem()
	for _, item := range mapped {
		slice = reflect.Append(slice, reflect.ValueOf(item).Elem())
	}
	destValue.Elem().Set(slice)
	return nil
}
