package models

// ModelTypeRegistry lists the schema models in foreign-key order:
// referenced tables come before the tables that reference them.
var ModelTypeRegistry = []interface{}{
	&Vehicle{},
	&Location{},
	&Rental{},
}
