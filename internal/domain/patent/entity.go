// Package patent holds the patent aggregate of the search service: the Patent
// entity, the typed search filter, the keyword tokenizer and the overlap
// ranker.  Everything here is pure; persistence lives behind the Repository
// port.
package patent

import (
	"strings"
	"time"

	"github.com/turtacn/mini-spade/pkg/errors"
)

// Status is the legal status of a patent.  The set is closed.
type Status string

const (
	StatusActive  Status = "Active"
	StatusPending Status = "Pending"
	StatusExpired Status = "Expired"
)

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusExpired:
		return true
	}
	return false
}

// ParseStatus converts a wire value to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errors.New(errors.ErrCodePatentStatusInvalid, "invalid patent status").
			WithDetail("status=" + s + "; expected Active|Pending|Expired")
	}
	return st, nil
}

// Patent is a single patent document.
//
// InventorsText is derived from Inventors and is only ever written by New and
// SetInventors; it backs the inventor substring filter.
type Patent struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Inventors       []string `json:"inventors"`
	InventorsText   string   `json:"inventorsText"`
	PublicationDate Date     `json:"publicationDate"`
	RelevanceScore  float64  `json:"relevanceScore"`
	Assignee        *string  `json:"assignee,omitempty"`
	Status          *Status  `json:"status,omitempty"`
	CPCCodes        []string `json:"cpcCodes,omitempty"`
	Claims          []string `json:"claims,omitempty"`
}

// Option sets an optional attribute on a Patent under construction.
type Option func(*Patent) error

// WithAssignee sets the assignee.  A blank value leaves it unset.
func WithAssignee(assignee string) Option {
	return func(p *Patent) error {
		if strings.TrimSpace(assignee) == "" {
			return nil
		}
		a := assignee
		p.Assignee = &a
		return nil
	}
}

// WithStatus sets the legal status, rejecting values outside the closed set.
// An empty string leaves it unset.
func WithStatus(status string) Option {
	return func(p *Patent) error {
		if status == "" {
			return nil
		}
		st, err := ParseStatus(status)
		if err != nil {
			return err
		}
		p.Status = &st
		return nil
	}
}

// WithCPCCodes sets the CPC classification codes.
func WithCPCCodes(codes ...string) Option {
	return func(p *Patent) error {
		p.CPCCodes = append([]string(nil), codes...)
		return nil
	}
}

// WithClaims sets the claim texts.
func WithClaims(claims ...string) Option {
	return func(p *Patent) error {
		p.Claims = append([]string(nil), claims...)
		return nil
	}
}

// New builds a Patent, normalising the publication date to a UTC calendar
// date and deriving InventorsText.
func New(id, title, abstract string, inventors []string, published time.Time, relevance float64, opts ...Option) (*Patent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.InvalidParam("patent id must not be empty")
	}
	if published.IsZero() {
		return nil, errors.InvalidParam("publication date must not be zero").WithDetail("id=" + id)
	}

	p := &Patent{
		ID:              id,
		Title:           title,
		Abstract:        abstract,
		PublicationDate: NewDate(published),
		RelevanceScore:  relevance,
	}
	p.SetInventors(inventors)

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SetInventors replaces the inventor list and regenerates InventorsText.
func (p *Patent) SetInventors(inventors []string) {
	if inventors == nil {
		inventors = []string{}
	}
	p.Inventors = append([]string{}, inventors...)
	p.InventorsText = InventorsText(p.Inventors)
}

// InventorsText is the lowercase, comma-joined form of inventors stored for
// substring filtering.
func InventorsText(inventors []string) string {
	return strings.ToLower(strings.Join(inventors, ","))
}

//Personal.AI order the ending
