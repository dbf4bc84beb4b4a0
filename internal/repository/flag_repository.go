package repository

import (
	"fmt"
)

// FlagTables is the closed set of tables an admin may flag or unflag.
// Table names are interpolated into SQL, so membership here is mandatory.
var FlagTables = map[string]bool{
	"influencers": true,
	"sponsors":    true,
	"campaigns":   true,
}

// FlagRepository toggles the is_flagged marker on accounts and campaigns
type FlagRepository struct {
}

// NewFlagRepository creates a new flag repository
func NewFlagRepository() *FlagRepository {
	return &FlagRepository{}
}

// Exists reports whether a row with the given id exists in table. The
// table must come from FlagTables.
func (r *FlagRepository) Exists(db DBExecutor, table string, id int64) (bool, error) {
	if !FlagTables[table] {
		return false, fmt.Errorf("table %q is not flaggable", table)
	}
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE id = $1`, table)
	if err := db.Get(&count, query, id); err != nil {
		return false, fmt.Errorf("failed to check %s row: %w", table, err)
	}
	return count > 0, nil
}

// SetFlag sets or clears is_flagged for a row. The table must come from
// FlagTables.
func (r *FlagRepository) SetFlag(db DBExecutor, table string, id int64, flagged bool) error {
	if !FlagTables[table] {
		return fmt.Errorf("table %q is not flaggable", table)
	}
	query := fmt.Sprintf(`UPDATE %s SET is_flagged = $1 WHERE id = $2`, table)
	if _, err := db.Exec(query, flagged, id); err != nil {
		return fmt.Errorf("failed to update %s flag: %w", table, err)
	}
	return nil
}
