package schema

import (
	"fmt"
	"sync"

	GORMSchema "gorm.io/gorm/schema"
)

var cacheStore = &sync.Map{}

// Table represents a gorm model
type Table struct {
	*GORMSchema.Schema
	Columns []*Column
}

func (t *Table) TableName() string {
	return t.Table
}

func (t *Table) TableColumns() []*Column {
	return t.Columns
}

// ForeignKeys lists "column -> table.column" for every belongs-to relation.
func (t *Table) ForeignKeys() []string {
	var fks []string
	for _, rel := range t.Relationships.BelongsTo {
		for _, ref := range rel.References {
			fks = append(fks, fmt.Sprintf("%s -> %s.%s", ref.ForeignKey.DBName, ref.PrimaryKey.Schema.Table, ref.PrimaryKey.DBName))
		}
	}
	return fks
}

func CreateTableFromModel(model interface{}) (*Table, error) {
	modelSchema, err := GORMSchema.Parse(model, cacheStore, GORMSchema.NamingStrategy{})
	if err != nil {
		return nil, err
	}

	columns := make([]*Column, 0)

	for _, field := range modelSchema.Fields {
		// association fields have no column of their own
		if field.DBName == "" {
			continue
		}
		columns = append(columns, &Column{Field: field})
	}

	return &Table{Schema: modelSchema, Columns: columns}, nil
}

// CreateTablesFromModels parses every model, keeping input order.
func CreateTablesFromModels(models []interface{}) ([]*Table, error) {
	tables := make([]*Table, 0, len(models))
	for _, model := range models {
		table, err := CreateTableFromModel(model)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}
