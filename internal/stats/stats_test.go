package stats

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjt/sms-query/internal/config"
	"github.com/wjt/sms-query/internal/storage"
)

type stubPredicate struct {
	clause string
	args   []any
}

func (s stubPredicate) Predicate() (string, []any, error) {
	return s.clause, s.args, nil
}

func TestCalculate(t *testing.T) {
	store := openFixture(t)
	defer store.Close()

	result, err := Calculate(store, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.ByType[storage.EventTypeSMS])
	assert.Equal(t, 1, result.ByType[storage.EventTypeCall])
	assert.Equal(t, 1, result.ByType[storage.EventTypeCallMissed])
	assert.Equal(t, 2, result.Incoming)
	assert.Equal(t, 2, result.Outgoing)
	assert.Equal(t, 2, result.UniqueRemotes)

	require.Len(t, result.TopRemotes, 2)
	// Ties break on the number so ordering stays deterministic
	assert.Equal(t, "+4712345678", result.TopRemotes[0].RemoteUID)
	assert.Equal(t, 2, result.TopRemotes[0].Count)
}

func TestCalculate_Filtered(t *testing.T) {
	store := openFixture(t)
	defer store.Close()

	result, err := Calculate(store, []storage.Predicater{
		stubPredicate{clause: "Events.outgoing = ?", args: []any{1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 0, result.Incoming)
	assert.Equal(t, 2, result.Outgoing)
}

func TestFormatText(t *testing.T) {
	store := openFixture(t)
	defer store.Close()

	result, err := Calculate(store, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	FormatText(&buf, result, []string{"sms or call"})

	out := buf.String()
	assert.Contains(t, out, "* Voice/SMS statistics filtered by sms or call:")
	assert.Contains(t, out, "Total events:     4")
	assert.Contains(t, out, "SMS messages:")
	assert.Contains(t, out, "Most active:")
}

func openFixture(t *testing.T) *storage.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "el-v1.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE Events (
			id INTEGER PRIMARY KEY, service_id INTEGER, event_type_id INTEGER,
			storage_time INTEGER, start_time INTEGER, local_uid TEXT,
			remote_uid TEXT, free_text TEXT, outgoing BOOL DEFAULT 0
		)`,
		`CREATE TABLE EventTypes (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE Remotes (local_uid TEXT, remote_uid TEXT, remote_name TEXT)`,
		`INSERT INTO EventTypes (id, name) VALUES
			(1, 'RTCOM_EL_EVENTTYPE_CALL'),
			(3, 'RTCOM_EL_EVENTTYPE_CALL_MISSED'),
			(7, 'RTCOM_EL_EVENTTYPE_SMS_MESSAGE')`,
		`INSERT INTO Remotes VALUES
			('ring/tel/ring', '+4712345678', 'Alice'),
			('ring/tel/ring', '99887766', 'Bob')`,
		`INSERT INTO Events VALUES
			(1, 3, 7, 1300000000, 1300000000, 'ring/tel/ring', '+4712345678', 'Hello there', 0),
			(2, 1, 1, 1300000600, 1300000600, 'ring/tel/ring', '+4712345678', NULL, 1),
			(3, 1, 3, 1300001200, 1300001200, 'ring/tel/ring', '99887766', NULL, 0),
			(4, 3, 7, 1300001800, 1300001800, 'ring/tel/ring', '99887766', 'On my way', 1)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	cfg := config.DefaultConfig()
	cfg.Database.Path = dbPath

	store, err := storage.NewStore(cfg, nil)
	require.NoError(t, err)
	return store
}
