package service

import (
	"context"
	"time"
)

type ProfileEventType string

const (
	EventProfileUpdated   ProfileEventType = "profile.updated"
	EventEducationAdded   ProfileEventType = "education.added"
	EventEducationDeleted ProfileEventType = "education.deleted"
	EventProjectAdded     ProfileEventType = "project.added"
	EventProjectDeleted   ProfileEventType = "project.deleted"
	EventSkillAdded       ProfileEventType = "skill.added"
	EventSkillUpdated     ProfileEventType = "skill.updated"
	EventSkillDeleted     ProfileEventType = "skill.deleted"
	EventPictureUploaded  ProfileEventType = "picture.uploaded"
	EventPictureDeleted   ProfileEventType = "picture.deleted"
)

type ProfileEventPayload struct {
	EventType  ProfileEventType `json:"eventType"`
	ProfileKey string           `json:"profileKey"`
	EntryID    string           `json:"entryId,omitempty"`
	Filename   string           `json:"filename,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, payload ProfileEventPayload) error
}
