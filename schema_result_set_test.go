package exovel

import (
	"context"
	"reflect"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/exo-archive/exovel/types"
	"github.com/exo-archive/exovel/util"
)

var _ = Describe("Schema: result set", func() {
	var ctx context.Context
	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("newResultSetDefinitionMap", func() {
		When("result set metadata is valid", func() {
			It("should return expected column definition", func() {
				metadata := types.ResultSetMetadata{
					ColumnInfo: []types.ColumnInfo{
						{Name: util.RefString("pl_name"), Type: util.RefString("char")},
						{Name: util.RefString("pl_rade"), Type: util.RefString("double")},
					},
				}
				def, err := newResultSetDefinitionMap(ctx, &metadata)
				Expect(err).ToNot(HaveOccurred())
				Expect(len(def)).To(Equal(2))

				Expect(def["pl_name"].index).To(Equal(0))
				Expect(def["pl_name"].columnDataType).To(Equal("char"))
				Expect(def["pl_rade"].index).To(Equal(1))
				Expect(def["pl_rade"].columnDataType).To(Equal("double"))
			})
		})

		When("result set metadata is not valid", func() {
			It("should return error on missing column name", func() {
				metadata := types.ResultSetMetadata{
					ColumnInfo: []types.ColumnInfo{
						{Type: util.RefString("double")},
					},
				}
				_, err := newResultSetDefinitionMap(ctx, &metadata)
				Expect(err).To(HaveOccurred())
			})

			It("should return error on missing column type", func() {
				metadata := types.ResultSetMetadata{
					ColumnInfo: []types.ColumnInfo{
						{Name: util.RefString("pl_rade")},
					},
				}
				_, err := newResultSetDefinitionMap(ctx, &metadata)
				Expect(err).To(HaveOccurred())
			})

			It("should return error on duplicate column name", func() {
				metadata := types.ResultSetMetadata{
					ColumnInfo: []types.ColumnInfo{
						{Name: util.RefString("pl_rade"), Type: util.RefString("double")},
						{Name: util.RefString("pl_rade"), Type: util.RefString("double")},
					},
				}
				_, err := newResultSetDefinitionMap(ctx, &metadata)
				Expect(err).To(HaveOccurred())
			})

			It("should return error on empty metadata", func() {
				metadata := types.ResultSetMetadata{}
				_, err := newResultSetDefinitionMap(ctx, &metadata)
				Expect(err).To(HaveOccurred())
			})

			It("should return error on nil metadata", func() {
				_, err := newResultSetDefinitionMap(ctx, nil)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Context("validateResultSetSchema", func() {
		type model struct {
			Name   string   `exovel:"pl_name"`
			Radius *float64 `exovel:"pl_rade"`
		}
		var modelSchema modelDefinitionMap

		BeforeEach(func() {
			var err error
			modelSchema, err = newModelDefinitionMap(reflect.TypeOf(model{}))
			Expect(err).ToNot(HaveOccurred())
		})

		It("should accept a result set matching the model exactly", func() {
			resultSchema := resultSetDefinitionMap{
				"pl_name": {index: 0, columnDataType: "char"},
				"pl_rade": {index: 1, columnDataType: "double"},
			}
			err := validateResultSetSchema(ctx, resultSchema, modelSchema)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should accept extra result set columns the model does not read", func() {
			resultSchema := resultSetDefinitionMap{
				"pl_name":   {index: 0, columnDataType: "char"},
				"pl_rade":   {index: 1, columnDataType: "double"},
				"disc_year": {index: 2, columnDataType: "int"},
			}
			err := validateResultSetSchema(ctx, resultSchema, modelSchema)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should return error when a model column is missing from the result set", func() {
			resultSchema := resultSetDefinitionMap{
				"pl_name": {index: 0, columnDataType: "char"},
			}
			err := validateResultSetSchema(ctx, resultSchema, modelSchema)
			Expect(err).To(HaveOccurred())
		})
	})
})
