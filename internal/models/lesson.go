package models

import (
	"time"

	"training-service/internal/apperr"
)

type ContentType string

const (
	ContentText  ContentType = "Text"
	ContentVideo ContentType = "Video"
	ContentBoth  ContentType = "Both"
)

type Lesson struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	ContentType ContentType `bson:"contentType" json:"contentType"`
	TextContent string      `bson:"textContent,omitempty" json:"textContent,omitempty"`
	VideoURL    string      `bson:"videoURL,omitempty" json:"videoURL,omitempty"`
	CreatedBy   string      `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time  `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Validate checks that the payload fields are consistent with the content
// type: a Text lesson needs text, a Video lesson needs a video reference,
// Both needs both.
func (l *Lesson) Validate() error {
	if l.Title == "" {
		return apperr.InvalidState("lesson title is required")
	}
	switch l.ContentType {
	case ContentText:
		if l.TextContent == "" {
			return apperr.InvalidState("text lesson requires textContent")
		}
	case ContentVideo:
		if l.VideoURL == "" {
			return apperr.InvalidState("video lesson requires videoURL")
		}
	case ContentBoth:
		if l.TextContent == "" || l.VideoURL == "" {
			return apperr.InvalidState("lesson with both content types requires textContent and videoURL")
		}
	default:
		return apperr.InvalidState("contentType must be Text, Video or Both")
	}
	return nil
}

// LessonDetail is the read model for a single lesson: the lesson plus its
// ordered question sequence.
type LessonDetail struct {
	Lesson
	Questions []Question `json:"questions"`
}
