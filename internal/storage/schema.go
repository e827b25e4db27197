package storage

import "database/sql"

// Event type names used in the rtcom-eventlogger EventTypes lookup table.
// Only these three occur for voice/SMS history; anything else is rendered
// as an unknown event.
const (
	EventTypeCall       = "RTCOM_EL_EVENTTYPE_CALL"
	EventTypeCallMissed = "RTCOM_EL_EVENTTYPE_CALL_MISSED"
	EventTypeSMS        = "RTCOM_EL_EVENTTYPE_SMS_MESSAGE"
)

// Event represents one row of the joined event query.
//
// The rtcom-eventlogger Events table keeps storage_time, start_time and
// end_time; storage_time is the only one consistent with the ordering of
// the id column, so it is the one surfaced here.
type Event struct {
	// Event type name resolved through the EventTypes table
	TypeName string

	// Storage timestamp, Unix seconds in UTC
	StorageTime int64

	// False for incoming events, true for outgoing
	Outgoing bool

	// Phone number of the remote end, with or without country prefix
	RemoteUID string

	// Display name resolved through the Remotes table, if any
	RemoteName sql.NullString

	// SMS message contents; empty for voice calls
	FreeText sql.NullString
}

// Name returns the resolved display name, falling back to the remote
// phone number when no contact entry exists.
func (e Event) Name() string {
	if e.RemoteName.Valid && e.RemoteName.String != "" {
		return e.RemoteName.String
	}
	return e.RemoteUID
}

// Text returns the free-text contents, empty when NULL.
func (e Event) Text() string {
	if e.FreeText.Valid {
		return e.FreeText.String
	}
	return ""
}

// baseEventQuery joins the three relations of the eventlogger schema.
// Filter clauses are appended as additional AND conditions.
const baseEventQuery = `SELECT EventTypes.name,
	Events.storage_time,
	Events.outgoing,
	Events.remote_uid,
	Remotes.remote_name,
	Events.free_text
FROM EventTypes, Remotes, Events
WHERE Events.event_type_id = EventTypes.id
  AND Events.local_uid = Remotes.local_uid
  AND Events.remote_uid = Remotes.remote_uid`

// eventOrderClause orders by the internal event id. storage_time is
// consistent with id order, but timestamps alone are not guaranteed
// monotonic with true event order, so the id is authoritative.
const eventOrderClause = `
ORDER BY Events.id`

// baseCountQuery aggregates the same joined relations for statistics.
const baseCountQuery = `SELECT EventTypes.name,
	Events.outgoing,
	Events.remote_uid,
	COUNT(*)
FROM EventTypes, Remotes, Events
WHERE Events.event_type_id = EventTypes.id
  AND Events.local_uid = Remotes.local_uid
  AND Events.remote_uid = Remotes.remote_uid`

// countGroupClause groups the count query by type, direction and remote.
const countGroupClause = `
GROUP BY EventTypes.name, Events.outgoing, Events.remote_uid`

// EventCount is one aggregate bucket of the count query.
type EventCount struct {
	TypeName  string
	Outgoing  bool
	RemoteUID string
	Count     int
}
