package exovel

import (
	"context"
	"reflect"
	"strconv"

	"github.com/exo-archive/exovel/types"
	"github.com/exo-archive/exovel/util"
)

// castRowData converts one result cell to the Go value for the destination
// field, based on the VOTable datatype declared by the service. A nil or
// empty cell on a non-char column maps to nil so that pointer fields stay
// nil for archive nulls.
func castRowData(ctx context.Context, rowData types.Datum, columnType string, destKind reflect.Kind) (interface{}, error) {
	data := util.SafeString(rowData.Value)
	if !isCharType(columnType) && data == "" && destKind == reflect.Ptr {
		return nil, nil
	}

	// for the datatype vocabulary, see the VOTable FIELD element spec
	switch columnType {
	case "boolean":
		v, err := strconv.ParseBool(data)
		if destKind == reflect.Ptr {
			return &v, err
		}
		return v, err
	case "short", "int":
		v, err := strconv.Atoi(data)
		if destKind == reflect.Ptr {
			return &v, err
		}
		return v, err
	case "long":
		v, err := strconv.ParseInt(data, 10, 64)
		if destKind == reflect.Ptr {
			return &v, err
		}
		return v, err
	case "float", "double":
		v, err := strconv.ParseFloat(data, 64)
		if destKind == reflect.Ptr {
			return &v, err
		}
		return v, err
	default:
		if !isCharType(columnType) {
			LogWarnf("column datatype '%s' not supported, defaulting to string: if this is intended consider doing conversion in ADQL to be explicit", columnType)
		}

		v := rowData.Value
		if destKind == reflect.Ptr {
			return v, nil
		}
		return util.SafeString(v), nil
	}
}

func isCharType(columnType string) bool {
	return columnType == "char" || columnType == "unicodeChar"
}
