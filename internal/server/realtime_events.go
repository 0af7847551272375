package server

import (
	"context"
	"log"

	"openeyes/internal/notifications"
)

// publishBroadcastEvent fans a forum event out to every connected client.
// Local hub delivery covers this instance; the Redis notifier covers peers.
func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := notifications.Event{
		Type:    eventType,
		Payload: payload,
	}
	message := event.Encode()
	if message == "" {
		log.Printf("failed to encode %s event", eventType)
		return
	}
	if s.notifier != nil {
		if err := s.notifier.PublishEvent(context.Background(), event); err != nil {
			log.Printf("failed to publish %s broadcast event: %v", eventType, err)
		}
		// Redis round-trips the message back to this instance's hub.
		return
	}
	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
}

// publishUserEvent delivers an event to a single user's open connections.
func (s *Server) publishUserEvent(userID uint, eventType string, payload map[string]interface{}) {
	event := notifications.Event{
		Type:    eventType,
		Payload: payload,
	}
	message := event.Encode()
	if message == "" {
		log.Printf("failed to encode %s event", eventType)
		return
	}
	if s.notifier != nil {
		if err := s.notifier.PublishUser(context.Background(), userID, message); err != nil {
			log.Printf("failed to publish %s event to user %d: %v", eventType, userID, err)
		}
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, message)
	}
}
