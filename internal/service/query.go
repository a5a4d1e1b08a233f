package service

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"contentapi/internal/model"
)

// Query is the dashboard's combined view: category filter AND search,
// ordered by Sort. Zero fields are ignored.
type Query struct {
	Search   string
	Category string
	Sort     model.SortKey
}

func (r *contentRepository) Search(query string) []model.ContentItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return matchSearch(r.items, query)
}

func (r *contentRepository) FilterByCategory(category string) []model.ContentItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return matchCategory(r.items, category)
}

func (r *contentRepository) Sort(key model.SortKey) []model.ContentItem {
	r.mu.RLock()
	items := cloneAll(r.items)
	r.mu.RUnlock()

	sortItems(items, key)
	return items
}

func (r *contentRepository) Query(q Query) []model.ContentItem {
	r.mu.RLock()
	items := matchSearch(matchCategory(r.items, q.Category), q.Search)
	r.mu.RUnlock()

	sortItems(items, q.Sort)
	return items
}

// matchCategory returns clones of the items in category.
func matchCategory(items []model.ContentItem, category string) []model.ContentItem {
	if category == "" {
		return cloneAll(items)
	}
	out := []model.ContentItem{}
	for _, item := range items {
		if item.Category == category {
			out = append(out, item.Clone())
		}
	}
	return out
}

// matchSearch returns clones of the items whose title, content or any tag
// contains query, ignoring case.
func matchSearch(items []model.ContentItem, query string) []model.ContentItem {
	if query == "" {
		return cloneAll(items)
	}
	q := strings.ToLower(query)
	out := []model.ContentItem{}
	for _, item := range items {
		if matches(item, q) {
			out = append(out, item.Clone())
		}
	}
	return out
}

func matches(item model.ContentItem, lowered string) bool {
	if strings.Contains(strings.ToLower(item.Title), lowered) ||
		strings.Contains(strings.ToLower(item.Content), lowered) {
		return true
	}
	return slices.ContainsFunc(item.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), lowered)
	})
}

// sortItems orders items in place. The sort is stable so ties keep stored
// order; unknown keys leave items untouched.
func sortItems(items []model.ContentItem, key model.SortKey) {
	switch key {
	case model.SortNewest:
		slices.SortStableFunc(items, func(a, b model.ContentItem) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case model.SortOldest:
		slices.SortStableFunc(items, func(a, b model.ContentItem) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case model.SortModified:
		slices.SortStableFunc(items, func(a, b model.ContentItem) int {
			return b.DisplayTime().Compare(a.DisplayTime())
		})
	case model.SortTitle:
		// Collators keep internal buffers and are not safe for concurrent use.
		c := collate.New(language.English)
		slices.SortStableFunc(items, func(a, b model.ContentItem) int {
			return c.CompareString(a.Title, b.Title)
		})
	}
}
