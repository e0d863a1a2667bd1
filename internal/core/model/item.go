package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a user-owned record (task, note, event, ...). The identifier is
// immutable once assigned and UpdatedAt never precedes CreatedAt.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Fields      map[string]any `json:"fields"`
	ListName    string         `json:"listName"`
	ListIcon    string         `json:"listIcon"`
	ObjectType  string         `json:"objectType"`
	ObjectIcon  string         `json:"objectIcon"`
	IsNote      bool           `json:"isNote"`
	IsTask      bool           `json:"isTask"`
	Icon        string         `json:"icon"`
	Tags        []string       `json:"tags"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// ItemDraft is a partial item as requested by the model or an API caller.
// Materialize fills the remaining attributes.
type ItemDraft struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ListName    string         `json:"listName"`
	ListIcon    string         `json:"listIcon"`
	ObjectType  string         `json:"objectType"`
	ObjectIcon  string         `json:"objectIcon"`
	IsNote      bool           `json:"isNote"`
	IsTask      bool           `json:"isTask"`
	Icon        string         `json:"icon"`
	Tags        []string       `json:"tags"`
	Fields      map[string]any `json:"fields"`
}

const (
	DefaultListIcon   = "📋"
	DefaultObjectIcon = "📄"
	DefaultItemIcon   = "📄"
)

// Timestamp renders t in the ISO-8601 form items carry on the wire.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Materialize turns a draft into a full Item: fresh identifier, icon/flag
// defaults, both timestamps stamped with now.
func Materialize(d ItemDraft, now time.Time) Item {
	item := Item{
		ID:          uuid.New().String(),
		Name:        d.Name,
		Description: d.Description,
		ListName:    d.ListName,
		ListIcon:    d.ListIcon,
		ObjectType:  d.ObjectType,
		ObjectIcon:  d.ObjectIcon,
		IsNote:      d.IsNote,
		IsTask:      d.IsTask,
		Icon:        d.Icon,
		Tags:        d.Tags,
		Fields:      d.Fields,
		CreatedAt:   Timestamp(now),
		UpdatedAt:   Timestamp(now),
	}

	if item.ListIcon == "" {
		item.ListIcon = DefaultListIcon
	}
	if item.ObjectIcon == "" {
		item.ObjectIcon = DefaultObjectIcon
	}
	if item.Icon == "" {
		item.Icon = DefaultItemIcon
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Fields == nil {
		item.Fields = map[string]any{}
	}

	return item
}

// ApplyPatch merges the provided attributes onto item. Only keys present in
// the patch change; the identifier and timestamps are never touched here.
func ApplyPatch(item Item, patch map[string]any) Item {
	for key, value := range patch {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				item.Name = s
			}
		case "description":
			if s, ok := value.(string); ok {
				item.Description = s
			}
		case "listName":
			if s, ok := value.(string); ok {
				item.ListName = s
			}
		case "listIcon":
			if s, ok := value.(string); ok {
				item.ListIcon = s
			}
		case "objectType":
			if s, ok := value.(string); ok {
				item.ObjectType = s
			}
		case "objectIcon":
			if s, ok := value.(string); ok {
				item.ObjectIcon = s
			}
		case "icon":
			if s, ok := value.(string); ok {
				item.Icon = s
			}
		case "isNote":
			if b, ok := value.(bool); ok {
				item.IsNote = b
			}
		case "isTask":
			if b, ok := value.(bool); ok {
				item.IsTask = b
			}
		case "tags":
			if raw, ok := value.([]any); ok {
				tags := make([]string, 0, len(raw))
				for _, t := range raw {
					if s, ok := t.(string); ok {
						tags = append(tags, s)
					}
				}
				item.Tags = tags
			}
		case "fields":
			if m, ok := value.(map[string]any); ok {
				item.Fields = m
			}
		}
	}
	return item
}
