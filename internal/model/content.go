package model

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// ContentItem is one stored note or document. JSON field names are the
// persisted names and must stay stable.
type ContentItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category,omitempty"`
	Tags         Tags      `json:"tags,omitempty"`
	Status       string    `json:"status,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ExternalLink string    `json:"externalLink,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	ModifiedAt   time.Time `json:"modifiedAt,omitzero"`
}

// Clone returns a copy that shares no mutable state with it.
func (c ContentItem) Clone() ContentItem {
	c.Tags = slices.Clone(c.Tags)
	return c
}

// DisplayTime is the timestamp shown on dashboard cards.
func (c ContentItem) DisplayTime() time.Time {
	if c.ModifiedAt.IsZero() {
		return c.CreatedAt
	}
	return c.ModifiedAt
}

// ContentFields is a create or update payload. A nil field is absent and
// leaves the target untouched. Callers can never set the id or modifiedAt.
type ContentFields struct {
	Title        *string    `json:"title,omitempty"`
	Content      *string    `json:"content,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Tags         *Tags      `json:"tags,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	ExternalLink *string    `json:"externalLink,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Apply shallow-merges f onto item and returns the result.
func (f ContentFields) Apply(item ContentItem) ContentItem {
	setString(&item.Title, f.Title)
	setString(&item.Content, f.Content)
	setString(&item.Category, f.Category)
	setString(&item.Status, f.Status)
	setString(&item.Priority, f.Priority)
	setString(&item.ImageURL, f.ImageURL)
	setString(&item.ExternalLink, f.ExternalLink)
	if f.Tags != nil {
		item.Tags = nil
		if len(*f.Tags) > 0 {
			item.Tags = slices.Clone(*f.Tags)
		}
	}
	if f.CreatedAt != nil {
		item.CreatedAt = *f.CreatedAt
	}
	return item
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Tags is a list of labels. It decodes from either a JSON list or the
// comma-separated text the editor form produces, and always encodes as a list.
type Tags []string

// SplitTags splits comma-separated text, trimming blanks and dropping
// empties. It returns nil when no tag remains.
func SplitTags(text string) Tags {
	var tags Tags
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// String joins the tags the way the editor form displays them.
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = SplitTags(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		*t = nil
		return nil
	}
	*t = Tags(list)
	return nil
}
