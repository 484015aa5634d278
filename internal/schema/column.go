package schema

import (
	GORMSchema "gorm.io/gorm/schema"
)

// Column represents a persisted gorm field
type Column struct {
	*GORMSchema.Field
}

// ColumnName is the database column name.
func (c *Column) ColumnName() string {
	return c.DBName
}

// SQLType prefers the explicit type tag and falls back to the gorm data type.
func (c *Column) SQLType() string {
	if t, ok := c.TagSettings["TYPE"]; ok && t != "" {
		return t
	}
	return string(c.DataType)
}

func (c *Column) Nullable() bool {
	return !c.NotNull && !c.PrimaryKey
}

func (c *Column) IsPrimaryKey() bool {
	return c.PrimaryKey
}
