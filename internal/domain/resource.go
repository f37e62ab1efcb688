package domain

import (
	"fmt"
	"strings"
)

type Resource struct {
	ID    string       `json:"id,omitempty"`
	Type  ResourceType `json:"type"`
	Value string       `json:"value"`
	URL   string       `json:"url,omitempty"`
}

// NewResource builds a resource from a title and an optional url.
// A non-empty url makes it a link; otherwise it is plain text.
func NewResource(value, url string) (Resource, error) {
	value = strings.TrimSpace(value)
	url = strings.TrimSpace(url)
	if value == "" {
		return Resource{}, fmt.Errorf("resource title is required: %w", ErrInvalid)
	}
	r := Resource{ID: NewID(), Type: ResourceText, Value: value}
	if url != "" {
		r.Type = ResourceLink
		r.URL = url
	}
	return r, nil
}

// Validate checks that url is present iff the resource is a link.
func (r Resource) Validate() error {
	if r.Value == "" {
		return fmt.Errorf("resource value is required: %w", ErrInvalid)
	}
	switch r.Type {
	case ResourceLink:
		if r.URL == "" {
			return fmt.Errorf("link resource %q has no url: %w", r.Value, ErrInvalid)
		}
	case ResourceText:
		if r.URL != "" {
			return fmt.Errorf("text resource %q carries a url: %w", r.Value, ErrInvalid)
		}
	default:
		return fmt.Errorf("resource type %q: %w", r.Type, ErrInvalid)
	}
	return nil
}

func cloneResources(in []Resource) []Resource {
	if in == nil {
		return nil
	}
	out := make([]Resource, len(in))
	copy(out, in)
	return out
}

func findResource(list []Resource, id string) int {
	for i, r := range list {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// RemoveResource drops the resource with the given id from list.
func RemoveResource(list []Resource, id string) ([]Resource, error) {
	i := findResource(list, id)
	if i < 0 {
		return list, fmt.Errorf("resource %q: %w", id, ErrResourceNotFound)
	}
	return append(list[:i:i], list[i+1:]...), nil
}
