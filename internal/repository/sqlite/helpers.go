package sqlite

import (
	"database/sql"
	"encoding/json"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalAttributes decodes a nullable JSON attribute column. NULL yields
// an empty map so callers never see nil.
func unmarshalAttributes(ns sql.NullString) (map[string]string, error) {
	attrs := make(map[string]string)
	if !ns.Valid || ns.String == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(ns.String), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// marshalAttributes encodes attributes as nullable JSON. Empty maps are
// stored as NULL rather than "{}".
func marshalAttributes(attrs map[string]string) (sql.NullString, error) {
	if len(attrs) == 0 {
		return sql.NullString{}, nil
	}

	data, err := json.Marshal(attrs)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Schema Notes
// ============================================================================
//
// Every record table carries a seq column holding the record's position in
// the imported document. Loads ORDER BY seq so fibre cables come back in
// document order, which expansion depends on. Labels are not unique: the
// document may repeat them and the graph builder keeps the first.
