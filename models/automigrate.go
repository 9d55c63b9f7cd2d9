package models

// AllTables returns a slice of all tables in the journal database.
func AllTables() []interface{} {
	return []interface{}{
		&ActivityRecord{},
		&EdgeRecord{},
	}
}
