package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"contentapi/internal/model"
)

// Defaults the editor applies to a new item.
const (
	defaultCategory = "document"
	defaultStatus   = "draft"
	defaultPriority = "low"
)

var errTitleRequired = errors.New("title is required")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// createContentRequest is the editor's save payload for a new item.
type createContentRequest struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Category     string     `json:"category" validate:"max=64"`
	Tags         model.Tags `json:"tags" validate:"omitempty,dive,max=64"`
	Status       string     `json:"status" validate:"max=32"`
	Priority     string     `json:"priority" validate:"max=32"`
	ImageURL     string     `json:"imageUrl" validate:"omitempty,url"`
	ExternalLink string     `json:"externalLink" validate:"omitempty,url"`
	CreatedAt    *time.Time `json:"createdAt"`
}

// normalize trims the title and fills the editor defaults.
func (r *createContentRequest) normalize() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return errTitleRequired
	}
	if r.Category == "" {
		r.Category = defaultCategory
	}
	if r.Status == "" {
		r.Status = defaultStatus
	}
	if r.Priority == "" {
		r.Priority = defaultPriority
	}
	return validate.Struct(r)
}

func (r createContentRequest) fields() model.ContentFields {
	f := model.ContentFields{
		Title:        &r.Title,
		Content:      &r.Content,
		Category:     &r.Category,
		Status:       &r.Status,
		Priority:     &r.Priority,
		ImageURL:     &r.ImageURL,
		ExternalLink: &r.ExternalLink,
		CreatedAt:    r.CreatedAt,
	}
	if len(r.Tags) > 0 {
		f.Tags = &r.Tags
	}
	return f
}

// updateContentRequest is a partial update. Absent fields are left as they are.
type updateContentRequest struct {
	Title        *string     `json:"title"`
	Content      *string     `json:"content"`
	Category     *string     `json:"category" validate:"omitnil,max=64"`
	Tags         *model.Tags `json:"tags" validate:"omitnil,omitempty,dive,max=64"`
	Status       *string     `json:"status" validate:"omitnil,max=32"`
	Priority     *string     `json:"priority" validate:"omitnil,max=32"`
	ImageURL     *string     `json:"imageUrl" validate:"omitnil,omitempty,url"`
	ExternalLink *string     `json:"externalLink" validate:"omitnil,omitempty,url"`
}

func (r *updateContentRequest) normalize() error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errTitleRequired
		}
		r.Title = &title
	}
	return validate.Struct(r)
}

func (r updateContentRequest) fields() model.ContentFields {
	return model.ContentFields{
		Title:        r.Title,
		Content:      r.Content,
		Category:     r.Category,
		Tags:         r.Tags,
		Status:       r.Status,
		Priority:     r.Priority,
		ImageURL:     r.ImageURL,
		ExternalLink: r.ExternalLink,
	}
}

// validationMessage renders validator errors as "imageUrl must be url; ...".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must be %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must be %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// contentView is an item plus the fields the dashboard and editor derive from it.
type contentView struct {
	model.ContentItem
	Summary     string    `json:"summary"`
	WordCount   int       `json:"wordCount"`
	CharCount   int       `json:"charCount"`
	DisplayTime time.Time `json:"displayTime"`
}

func newContentView(item model.ContentItem) contentView {
	return contentView{
		ContentItem: item,
		Summary:     model.Summary(item.Content, model.SummaryLength),
		WordCount:   model.WordCount(item.Content),
		CharCount:   model.CharCount(item.Content),
		DisplayTime: item.DisplayTime(),
	}
}

type contentListResponse struct {
	Data  []contentView `json:"data"`
	Total int           `json:"total"`
}
