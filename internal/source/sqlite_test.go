package source

import (
	"context"
	_ "embed"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/abx/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/abcddb_schema.sql
var abcddbSchema string

const abcddbFixture = `
INSERT INTO ZABCDRECORD (Z_PK, ZUNIQUEID, ZFIRSTNAME, ZLASTNAME, ZNICKNAME, ZORGANIZATION, ZJOBTITLE, ZIMAGEDATA)
VALUES
	(1, 'A1:ABPerson', 'Ada', 'Lovelace', 'Countess', 'Analytical Engines', 'Programmer', X'4D616E'),
	(2, 'G1:ABGroup', NULL, NULL, NULL, NULL, NULL, NULL),
	(3, 'B2:ABPerson', 'Grace', 'Hopper', NULL, NULL, NULL, NULL),
	(5, 'C3:ABPerson', NULL, NULL, NULL, 'Acme', NULL, X'');

INSERT INTO ZABCDPHONENUMBER (Z_PK, ZOWNER, ZORDERINGINDEX, ZISPRIMARY, ZUNIQUEID, ZLABEL, ZFULLNUMBER)
VALUES
	(10, 1, 1, 0, 'P2', '_$!<Work>!$_', '555-0102'),
	(11, 1, 0, 1, 'P1', '_$!<Mobile>!$_', '555-0101'),
	(12, 3, 0, 0, NULL, NULL, NULL);

INSERT INTO ZABCDEMAILADDRESS (Z_PK, ZOWNER, ZORDERINGINDEX, ZISPRIMARY, ZUNIQUEID, ZLABEL, ZADDRESS)
VALUES (20, 1, 0, 1, 'E1', '_$!<Home>!$_', 'ada@example.com');

INSERT INTO ZABCDPOSTALADDRESS (Z_PK, ZOWNER, ZORDERINGINDEX, ZISPRIMARY, ZUNIQUEID, ZLABEL, ZSTREET, ZCITY, ZSTATE, ZZIPCODE, ZCOUNTRYNAME)
VALUES
	(30, 1, 0, 0, 'AD1', 'home', '1 Home St', 'London', NULL, 'N1', 'UK'),
	(31, 1, 1, 1, 'AD2', 'work', '2 Work Rd', 'Cambridge', 'Cambs', 'CB1', 'UK');

INSERT INTO ZABCDNOTE (Z_PK, ZCONTACT, ZTEXT) VALUES (40, 1, 'First programmer');
`

// setupAddressBook writes a fixture store to a temp file and opens it read-only.
func setupAddressBook(t *testing.T, ownerID string) *SQLiteSource {
	t.Helper()

	src, err := OpenSQLite(context.Background(), writeAddressBook(t), ownerID)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func writeAddressBook(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "AddressBook-v22.abcddb")
	db, err := shared.NewDatabase(path)
	require.NoError(t, err)
	_, err = db.Exec(abcddbSchema)
	require.NoError(t, err)
	_, err = db.Exec(abcddbFixture)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return path
}

func TestSQLiteSource(t *testing.T) {
	ctx := context.Background()
	src := setupAddressBook(t, "B2:ABPerson")

	t.Run("Count skips non-person records", func(t *testing.T) {
		n, err := src.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Record orders by primary key", func(t *testing.T) {
		want := []string{"A1:ABPerson", "B2:ABPerson", "C3:ABPerson"}
		for i, uid := range want {
			rec, err := src.Record(ctx, i)
			require.NoError(t, err)
			v, err := rec.Value(UID)
			require.NoError(t, err)
			assert.Equal(t, uid, v)
			assert.NoError(t, rec.Close())
		}
	})

	t.Run("Record out of range", func(t *testing.T) {
		for _, idx := range []int{-1, 3} {
			_, err := src.Record(ctx, idx)
			assert.True(t, errors.Is(err, shared.ErrOutOfRange), "index %d", idx)
		}
	})

	t.Run("scalars", func(t *testing.T) {
		rec, err := src.Record(ctx, 0)
		require.NoError(t, err)

		for p, want := range map[Property]any{
			FirstName:    "Ada",
			LastName:     "Lovelace",
			Nickname:     "Countess",
			Organization: "Analytical Engines",
			JobTitle:     "Programmer",
			Note:         "First programmer",
		} {
			got, err := rec.Value(p)
			require.NoError(t, err)
			assert.Equal(t, want, got, string(p))
		}

		rec, err = src.Record(ctx, 1)
		require.NoError(t, err)
		got, err := rec.Value(Nickname)
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = rec.Value(Note)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("phones ordered by ordering index", func(t *testing.T) {
		rec, err := src.Record(ctx, 0)
		require.NoError(t, err)

		mv, err := rec.MultiValue(Phone)
		require.NoError(t, err)
		require.Equal(t, 2, mv.Len())
		assert.Equal(t, "P1", mv.PrimaryIdentifier)
		assert.Equal(t, Entry{Identifier: "P1", Label: "_$!<Mobile>!$_", Value: "555-0101"}, mv.Entries[0])
		assert.Equal(t, "555-0102", mv.Entries[1].Value)
	})

	t.Run("null phone entry is kept", func(t *testing.T) {
		rec, err := src.Record(ctx, 1)
		require.NoError(t, err)

		mv, err := rec.MultiValue(Phone)
		require.NoError(t, err)
		require.Equal(t, 1, mv.Len())
		assert.Equal(t, Entry{Identifier: "12"}, mv.Entries[0])
	})

	t.Run("absent containers", func(t *testing.T) {
		rec, err := src.Record(ctx, 2)
		require.NoError(t, err)

		for _, p := range []Property{Phone, Email, Address} {
			mv, err := rec.MultiValue(p)
			require.NoError(t, err)
			assert.Nil(t, mv, string(p))
		}
	})

	t.Run("addresses", func(t *testing.T) {
		rec, err := src.Record(ctx, 0)
		require.NoError(t, err)

		mv, err := rec.MultiValue(Address)
		require.NoError(t, err)
		require.Equal(t, 2, mv.Len())
		assert.Equal(t, "AD2", mv.PrimaryIdentifier)
		assert.Equal(t, map[string]any{
			AddressStreet:  "1 Home St",
			AddressCity:    "London",
			AddressZIP:     "N1",
			AddressCountry: "UK",
		}, mv.Entries[0].Value)
	})

	t.Run("image", func(t *testing.T) {
		rec, err := src.Record(ctx, 0)
		require.NoError(t, err)
		b, err := rec.ImageData()
		require.NoError(t, err)
		assert.Equal(t, []byte("Man"), b)

		rec, err = src.Record(ctx, 1)
		require.NoError(t, err)
		b, err = rec.ImageData()
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("Me", func(t *testing.T) {
		me, err := src.Me(ctx)
		require.NoError(t, err)
		v, _ := me.Value(FirstName)
		assert.Equal(t, "Grace", v)

		_, err = setupAddressBook(t, "").Me(ctx)
		assert.True(t, errors.Is(err, shared.ErrNoOwner))

		_, err = setupAddressBook(t, "nobody").Me(ctx)
		assert.True(t, errors.Is(err, shared.ErrNoOwner))
	})

	t.Run("closed source", func(t *testing.T) {
		closed := setupAddressBook(t, "")
		require.NoError(t, closed.Close())

		_, err := closed.Count(ctx)
		assert.True(t, errors.Is(err, shared.ErrSourceUnavailable))
	})

	t.Run("read only", func(t *testing.T) {
		_, err := src.db.Exec(`DELETE FROM ZABCDNOTE`)
		assert.Error(t, err)
	})
}

func TestSQLiteSource_Snapshot(t *testing.T) {
	ctx := context.Background()
	path := writeAddressBook(t)

	src, err := OpenSQLite(ctx, path, "")
	require.NoError(t, err)
	defer src.Close()

	n, err := src.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	rec, err := src.Record(ctx, 0)
	require.NoError(t, err)
	uid, err := rec.Value(UID)
	require.NoError(t, err)
	assert.Equal(t, "A1:ABPerson", uid)

	writer, err := shared.NewDatabase(path)
	require.NoError(t, err)
	_, err = writer.Exec(`DELETE FROM ZABCDRECORD WHERE Z_PK = 3`)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	t.Run("deleted row keeps its index", func(t *testing.T) {
		rec, err := src.Record(ctx, 1)
		require.NoError(t, err)
		_, err = rec.Value(UID)
		assert.True(t, errors.Is(err, shared.ErrFieldUnreadable))
	})

	t.Run("later rows do not shift", func(t *testing.T) {
		rec, err := src.Record(ctx, 2)
		require.NoError(t, err)
		uid, err := rec.Value(UID)
		require.NoError(t, err)
		assert.Equal(t, "C3:ABPerson", uid)
	})

	t.Run("next Count refreshes", func(t *testing.T) {
		n, err := src.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = src.Record(ctx, 2)
		assert.True(t, errors.Is(err, shared.ErrOutOfRange))
	})
}
