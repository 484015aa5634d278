package schema

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

var ErrSchemaDrift = errors.New("database schema differs from models")

// TableDrift lists what a live table lacks compared to its model.
type TableDrift struct {
	Table              string
	MissingTable       bool
	MissingColumns     []string
	MissingIndexes     []string
	MissingConstraints []string
}

// IsEmpty checks if the table matches its model
func (d *TableDrift) IsEmpty() bool {
	return !d.MissingTable &&
		len(d.MissingColumns) == 0 &&
		len(d.MissingIndexes) == 0 &&
		len(d.MissingConstraints) == 0
}

// SchemaComparer checks a live database against the model definitions
type SchemaComparer struct {
	db *gorm.DB
}

func NewSchemaComparer(db *gorm.DB) *SchemaComparer {
	return &SchemaComparer{db: db}
}

// Compare returns one entry per model whose table, columns, indexes,
// foreign keys or check constraints are absent from the database. Extra
// objects in the database are not reported.
func (c *SchemaComparer) Compare(models ...interface{}) ([]TableDrift, error) {
	migrator := c.db.Migrator()

	var drifts []TableDrift
	for _, model := range models {
		table, err := CreateTableFromModel(model)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		drift := TableDrift{Table: table.TableName()}
		if !migrator.HasTable(model) {
			drift.MissingTable = true
			drifts = append(drifts, drift)
			continue
		}

		for _, col := range table.TableColumns() {
			if !migrator.HasColumn(model, col.ColumnName()) {
				drift.MissingColumns = append(drift.MissingColumns, col.ColumnName())
			}
		}

		for _, idx := range table.ParseIndexes() {
			if !migrator.HasIndex(model, idx.Name) {
				drift.MissingIndexes = append(drift.MissingIndexes, idx.Name)
			}
		}

		for _, rel := range table.Relationships.Relations {
			constraint := rel.ParseConstraint()
			if constraint == nil || constraint.Schema != table.Schema {
				continue
			}
			if !migrator.HasConstraint(model, constraint.Name) {
				drift.MissingConstraints = append(drift.MissingConstraints, constraint.Name)
			}
		}

		for _, chk := range table.ParseCheckConstraints() {
			if !migrator.HasConstraint(model, chk.Name) {
				drift.MissingConstraints = append(drift.MissingConstraints, chk.Name)
			}
		}

		sort.Strings(drift.MissingIndexes)
		sort.Strings(drift.MissingConstraints)

		if !drift.IsEmpty() {
			drifts = append(drifts, drift)
		}
	}
	return drifts, nil
}
