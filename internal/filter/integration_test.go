package filter

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjt/sms-query/internal/config"
	"github.com/wjt/sms-query/internal/storage"
)

// queryEvents runs the classify -> compose -> query pipeline against a
// fixture database
func queryEvents(t *testing.T, dbPath string, tokens []string) []storage.Event {
	t.Helper()

	c := NewClassifier(testPrefix)
	require.NoError(t, c.Classify(tokens))

	cfg := config.DefaultConfig()
	cfg.Database.Path = dbPath

	store, err := storage.NewStore(cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	var preds []storage.Predicater
	for _, f := range c.Active() {
		preds = append(preds, f)
	}

	cursor, err := store.QueryEvents(preds)
	require.NoError(t, err)
	defer cursor.Close()

	var events []storage.Event
	for cursor.Next() {
		events = append(events, cursor.Event())
	}
	require.NoError(t, cursor.Err())
	return events
}

func TestEndToEnd_KindAndPhoneNumber(t *testing.T) {
	dbPath := createEventDB(t)

	events := queryEvents(t, dbPath, []string{"sms", "+4712345678"})

	require.Len(t, events, 1)
	assert.Equal(t, storage.EventTypeSMS, events[0].TypeName)
	assert.Equal(t, "+4712345678", events[0].RemoteUID)

	// The bare form matches the same rows
	bare := queryEvents(t, dbPath, []string{"sms", "12345678"})
	assert.Equal(t, events, bare)
}

func TestEndToEnd_MissedOutgoingIsEmptyNotAnError(t *testing.T) {
	dbPath := createEventDB(t)

	// Missed calls are definitionally incoming; the combination is a
	// valid query with an empty result, not a rejected input
	events := queryEvents(t, dbPath, []string{"missed", "out"})
	assert.Empty(t, events)
}

func TestEndToEnd_NameTermsDeduplicate(t *testing.T) {
	dbPath := createEventDB(t)

	events := queryEvents(t, dbPath, []string{"Alice", "alice"})

	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "Alice", ev.Name())
	}
}

func TestEndToEnd_NoTokensReturnsWholeLog(t *testing.T) {
	dbPath := createEventDB(t)

	events := queryEvents(t, dbPath, nil)
	assert.Len(t, events, 4)
}

// createEventDB builds a minimal rtcom-eventlogger fixture
func createEventDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "el-v1.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	statements := []string{
		`CREATE TABLE Events (
			id             INTEGER PRIMARY KEY,
			service_id     INTEGER NOT NULL,
			event_type_id  INTEGER NOT NULL,
			storage_time   INTEGER NOT NULL,
			start_time     INTEGER NOT NULL,
			local_uid      TEXT,
			remote_uid     TEXT,
			free_text      TEXT,
			outgoing       BOOL DEFAULT 0
		)`,
		`CREATE TABLE EventTypes (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE Remotes (local_uid TEXT, remote_uid TEXT, remote_name TEXT)`,

		`INSERT INTO EventTypes (id, name) VALUES
			(1, 'RTCOM_EL_EVENTTYPE_CALL'),
			(3, 'RTCOM_EL_EVENTTYPE_CALL_MISSED'),
			(7, 'RTCOM_EL_EVENTTYPE_SMS_MESSAGE')`,

		`INSERT INTO Remotes (local_uid, remote_uid, remote_name) VALUES
			('ring/tel/ring', '+4712345678', 'Alice'),
			('ring/tel/ring', '99887766', 'Bob')`,

		`INSERT INTO Events
			(id, service_id, event_type_id, storage_time, start_time, local_uid, remote_uid, free_text, outgoing)
		VALUES
			(1, 3, 7, 1300000000, 1300000000, 'ring/tel/ring', '+4712345678', 'Hello there', 0),
			(2, 1, 1, 1300000600, 1300000600, 'ring/tel/ring', '+4712345678', NULL, 1),
			(3, 1, 3, 1300001200, 1300001200, 'ring/tel/ring', '99887766', NULL, 0),
			(4, 3, 7, 1300001800, 1300001800, 'ring/tel/ring', '99887766', 'On my way', 1)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return dbPath
}
