package repository

import (
	"database/sql"

	"github.com/creator-copilot/ledger-backend/internal/ledger/mapper"
)

// scanRecords reads every row into a column-keyed record and closes rows.
func scanRecords(rows *sql.Rows) ([]mapper.Record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]mapper.Record, 0, 16)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(mapper.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanOne reads a single-row result. No row is reported as sql.ErrNoRows.
func scanOne(rows *sql.Rows) (mapper.Record, error) {
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, sql.ErrNoRows
	}
	return recs[0], nil
}
