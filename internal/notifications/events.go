// Package notifications provides real-time delivery of forum events over
// websockets, fanned out between instances through Redis pub/sub.
package notifications

import "encoding/json"

// Event types pushed to connected dashboard clients.
const (
	EventPostCreated     = "post_created"
	EventPostReacted     = "post_reacted"
	EventPostModerated   = "post_moderated"
	EventCommentCreated  = "comment_created"
	EventRecordsImported = "records_imported"
)

// Event is the wire format for a forum update.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode marshals the event for publishing. A marshal failure returns an
// empty string; callers treat that as "nothing to send".
func (e Event) Encode() string {
	data, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(data)
}
