package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/desertthunder/abx/internal/shared"
)

const personFilter = `ZUNIQUEID LIKE '%:ABPerson'`

// scalarColumns maps scalar properties stored on ZABCDRECORD to their columns.
var scalarColumns = map[Property]string{
	UID:          "ZUNIQUEID",
	FirstName:    "ZFIRSTNAME",
	LastName:     "ZLASTNAME",
	Nickname:     "ZNICKNAME",
	Organization: "ZORGANIZATION",
	JobTitle:     "ZJOBTITLE",
}

// labeledQueries select (identifier, label, value, is_primary) for an owner, in display order.
var labeledQueries = map[Property]string{
	Phone: `SELECT COALESCE(ZUNIQUEID, CAST(Z_PK AS TEXT)), ZLABEL, ZFULLNUMBER, COALESCE(ZISPRIMARY, 0)
		FROM ZABCDPHONENUMBER WHERE ZOWNER = ? ORDER BY ZORDERINGINDEX, Z_PK`,
	Email: `SELECT COALESCE(ZUNIQUEID, CAST(Z_PK AS TEXT)), ZLABEL, ZADDRESS, COALESCE(ZISPRIMARY, 0)
		FROM ZABCDEMAILADDRESS WHERE ZOWNER = ? ORDER BY ZORDERINGINDEX, Z_PK`,
}

const addressQuery = `SELECT COALESCE(ZUNIQUEID, CAST(Z_PK AS TEXT)), ZLABEL, ZSTREET, ZCITY, ZSTATE, ZZIPCODE, ZCOUNTRYNAME, COALESCE(ZISPRIMARY, 0)
	FROM ZABCDPOSTALADDRESS WHERE ZOWNER = ? ORDER BY ZORDERINGINDEX, Z_PK`

// SQLiteSource reads the macOS AddressBook Core Data store.
//
// Only rows of ZABCDRECORD whose unique ID ends in ":ABPerson" are contacts; groups and other entities are skipped.
// Records are addressed by ascending Z_PK. Count takes a snapshot of the person keys and Record indexes into
// it, so rows added or deleted afterwards do not shift the indices of a running enumeration.
type SQLiteSource struct {
	db      *sql.DB
	ownerID string

	mu  sync.Mutex
	pks []int64
}

var (
	_ Source      = (*SQLiteSource)(nil)
	_ OwnerSource = (*SQLiteSource)(nil)
)

// OpenSQLite opens the store at path read-only.
func OpenSQLite(ctx context.Context, path, ownerID string) (*SQLiteSource, error) {
	db, err := shared.NewReadOnlyDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	return NewSQLiteSource(db, ownerID), nil
}

// NewSQLiteSource wraps an already opened database. The source takes ownership of db.
func NewSQLiteSource(db *sql.DB, ownerID string) *SQLiteSource {
	return &SQLiteSource{db: db, ownerID: ownerID}
}

// Count snapshots the person keys and returns how many there are.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	pks, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(pks), nil
}

// Record returns the person record at index in the most recent snapshot, taking one if Count was never called.
func (s *SQLiteSource) Record(ctx context.Context, index int) (Record, error) {
	s.mu.Lock()
	pks := s.pks
	s.mu.Unlock()

	if pks == nil {
		var err error
		if pks, err = s.snapshot(ctx); err != nil {
			return nil, err
		}
	}
	if err := checkIndex(index, len(pks)); err != nil {
		return nil, err
	}
	return &sqliteRecord{ctx: ctx, db: s.db, pk: pks[index]}, nil
}

func (s *SQLiteSource) snapshot(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT Z_PK FROM ZABCDRECORD WHERE `+personFilter+` ORDER BY Z_PK`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %v", shared.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	pks := []int64{}
	for rows.Next() {
		var pk int64
		if err := rows.Scan(&pk); err != nil {
			return nil, fmt.Errorf("%w: failed to list records: %v", shared.ErrSourceUnavailable, err)
		}
		pks = append(pks, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %v", shared.ErrSourceUnavailable, err)
	}

	s.mu.Lock()
	s.pks = pks
	s.mu.Unlock()
	return pks, nil
}

// Me returns the record whose unique ID matches the configured owner ID.
func (s *SQLiteSource) Me(ctx context.Context) (Record, error) {
	if s.ownerID == "" {
		return nil, shared.ErrNoOwner
	}

	var pk int64
	err := s.db.QueryRowContext(ctx, `SELECT Z_PK FROM ZABCDRECORD WHERE ZUNIQUEID = ?`, s.ownerID).Scan(&pk)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoOwner, s.ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load owner: %v", shared.ErrSourceUnavailable, err)
	}
	return &sqliteRecord{ctx: ctx, db: s.db, pk: pk}, nil
}

// Close closes the underlying database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// sqliteRecord resolves each lookup with its own query; every row set is closed before the lookup returns.
type sqliteRecord struct {
	ctx context.Context
	db  *sql.DB
	pk  int64
}

func (r *sqliteRecord) Value(p Property) (any, error) {
	var v sql.NullString
	var err error

	if p == Note {
		err = r.db.QueryRowContext(r.ctx, `SELECT ZTEXT FROM ZABCDNOTE WHERE ZCONTACT = ?`, r.pk).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
	} else {
		col, ok := scalarColumns[p]
		if !ok {
			return nil, nil
		}
		err = r.db.QueryRowContext(r.ctx, `SELECT `+col+` FROM ZABCDRECORD WHERE Z_PK = ?`, r.pk).Scan(&v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, p, err)
	}
	if !v.Valid {
		return nil, nil
	}
	return v.String, nil
}

func (r *sqliteRecord) MultiValue(p Property) (*MultiValue, error) {
	if p == Address {
		return r.addresses()
	}
	query, ok := labeledQueries[p]
	if !ok {
		return nil, nil
	}

	rows, err := r.db.QueryContext(r.ctx, query, r.pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, p, err)
	}
	defer rows.Close()

	mv := &MultiValue{}
	for rows.Next() {
		var id string
		var label, value sql.NullString
		var primary int
		if err := rows.Scan(&id, &label, &value, &primary); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, p, err)
		}
		e := Entry{Identifier: id, Label: label.String}
		if value.Valid {
			e.Value = value.String
		}
		mv.add(e, primary != 0)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, p, err)
	}
	if mv.Len() == 0 {
		return nil, nil
	}
	return mv, nil
}

func (r *sqliteRecord) addresses() (*MultiValue, error) {
	rows, err := r.db.QueryContext(r.ctx, addressQuery, r.pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, Address, err)
	}
	defer rows.Close()

	mv := &MultiValue{}
	for rows.Next() {
		var id string
		var label, street, city, state, zip, country sql.NullString
		var primary int
		if err := rows.Scan(&id, &label, &street, &city, &state, &zip, &country, &primary); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, Address, err)
		}

		dict := map[string]any{}
		for key, col := range map[string]sql.NullString{
			AddressStreet:  street,
			AddressCity:    city,
			AddressState:   state,
			AddressZIP:     zip,
			AddressCountry: country,
		} {
			if col.Valid {
				dict[key] = col.String
			}
		}
		mv.add(Entry{Identifier: id, Label: label.String, Value: dict}, primary != 0)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrFieldUnreadable, Address, err)
	}
	if mv.Len() == 0 {
		return nil, nil
	}
	return mv, nil
}

func (r *sqliteRecord) ImageData() ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(r.ctx, `SELECT ZIMAGEDATA FROM ZABCDRECORD WHERE Z_PK = ?`, r.pk).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", shared.ErrFieldUnreadable, err)
	}
	return data, nil
}

func (r *sqliteRecord) Close() error { return nil }

// String identifies the record in log output.
func (r *sqliteRecord) String() string {
	return "abcddb:" + strconv.FormatInt(r.pk, 10)
}

// add appends e; the first primary entry becomes the container's primary identifier.
func (m *MultiValue) add(e Entry, primary bool) {
	if primary && m.PrimaryIdentifier == "" {
		m.PrimaryIdentifier = e.Identifier
	}
	m.Entries = append(m.Entries, e)
}
