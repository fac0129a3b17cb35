package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/qobj/internal/canonical"
	"github.com/roach88/qobj/internal/qobj"
)

// ErrNotFound is returned by Get when no payload has the requested ID.
var ErrNotFound = errors.New("payload not found")

// Record is one archived payload.
type Record struct {
	ID            string // content ID of Payload
	Seq           int64  // assigned by Put
	QobjID        string
	Kind          qobj.Kind
	SchemaVersion string
	Payload       []byte // canonical JSON
}

// NewRecord captures q in canonical form. Seq is left zero.
func NewRecord(q qobj.Qobj) (Record, error) {
	dict, err := q.ToDict()
	if err != nil {
		return Record{}, fmt.Errorf("new record: %w", err)
	}
	payload, err := canonical.Marshal(dict)
	if err != nil {
		return Record{}, fmt.Errorf("new record: %w", err)
	}
	version, _ := dict["schema_version"].(string)
	return Record{
		ID:            canonical.HashWithDomain(canonical.DomainPayload, payload),
		QobjID:        q.ID(),
		Kind:          q.Kind(),
		SchemaVersion: version,
		Payload:       payload,
	}, nil
}

// Decode parses the stored payload.
func (r Record) Decode() (qobj.Qobj, error) {
	return qobj.Decode(r.Payload)
}

// Put inserts rec with the next sequence number. Uses ON CONFLICT(id) DO
// NOTHING, so a payload already archived is left untouched. Reports
// whether a row was written.
func (a *Archive) Put(ctx context.Context, rec Record) (bool, error) {
	if rec.ID == "" {
		return false, fmt.Errorf("put: empty record id")
	}

	// WHERE true disambiguates INSERT ... SELECT from the upsert clause.
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO payloads (id, seq, qobj_id, kind, schema_version, payload)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?
		FROM payloads WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.QobjID,
		string(rec.Kind),
		rec.SchemaVersion,
		string(rec.Payload),
	)
	if err != nil {
		return false, fmt.Errorf("put: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put: %w", err)
	}
	return n > 0, nil
}

// Get returns the payload with the given content ID.
func (a *Archive) Get(ctx context.Context, id string) (Record, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, seq, qobj_id, kind, schema_version, payload
		FROM payloads
		WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

// List returns every archived payload ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) for an empty archive.
func (a *Archive) List(ctx context.Context) ([]Record, error) {
	return a.query(ctx, `
		SELECT id, seq, qobj_id, kind, schema_version, payload
		FROM payloads
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ListByQobjID returns the payloads sharing a qobj_id, in archive order.
func (a *Archive) ListByQobjID(ctx context.Context, qobjID string) ([]Record, error) {
	return a.query(ctx, `
		SELECT id, seq, qobj_id, kind, schema_version, payload
		FROM payloads
		WHERE qobj_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, qobjID)
}

func (a *Archive) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := a.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payloads: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec     Record
		kind    string
		payload string
	)
	if err := s.Scan(&rec.ID, &rec.Seq, &rec.QobjID, &kind, &rec.SchemaVersion, &payload); err != nil {
		return Record{}, err
	}
	rec.Kind = qobj.Kind(kind)
	rec.Payload = []byte(payload)
	return rec, nil
}
