package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ActivityType is the kind of an Activity.
type ActivityType string

const (
	Create   ActivityType = "CREATE"
	Announce ActivityType = "ANNOUNCE"
	Like     ActivityType = "LIKE"
	Follow   ActivityType = "FOLLOW"
	Unfollow ActivityType = "UNFOLLOW"
)

// ActivityTypes lists every valid ActivityType.
var ActivityTypes = []ActivityType{Create, Announce, Like, Follow, Unfollow}

// ParseActivityType returns the ActivityType named s, ignoring case.
func ParseActivityType(s string) (ActivityType, error) {
	for _, t := range ActivityTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

func (t ActivityType) String() string {
	return string(t)
}

func (ActivityType) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql", "postgres":
		return "enum('CREATE', 'ANNOUNCE', 'LIKE', 'FOLLOW', 'UNFOLLOW')"
	case "sqlite":
		return "TEXT"
	default:
		return ""
	}
}

// An Activity is an event authored by an actor. Activities are never
// modified after creation; the same *Activity is shared by the author's
// outbox and every inbox it is delivered to.
type Activity struct {
	id        string
	typ       ActivityType
	actor     string
	content   string
	published time.Time
}

// NewActivity returns a new Activity with a fresh, globally unique id.
func NewActivity(typ ActivityType, actor, content string, published time.Time) *Activity {
	return &Activity{
		id:        uuid.NewString(),
		typ:       typ,
		actor:     actor,
		content:   content,
		published: published,
	}
}

// ID returns the activity's unique id.
func (a *Activity) ID() string { return a.id }

// Type returns the kind of activity.
func (a *Activity) Type() ActivityType { return a.typ }

// Actor returns the full identifier of the activity's author.
func (a *Activity) Actor() string { return a.actor }

// Content returns the activity's text.
func (a *Activity) Content() string { return a.content }

// Published returns the time the activity was created.
func (a *Activity) Published() time.Time { return a.published }
