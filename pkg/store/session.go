package store

import (
	"errors"
	"fmt"
	"time"
)

var ErrIllegalTransition = errors.New("illegal state transition")

// Session is the per-user conversation scratch space. Stores hand out copies,
// so mutating a Session never affects another reader until it is put back.
type Session struct {
	UserID   int64    `json:"user_id"`
	ChatID   int64    `json:"chat_id"`
	Workflow Workflow `json:"workflow"`
	State    State    `json:"state"`

	// Record being built by Add or Ingest.
	Draft *Draft `json:"draft,omitempty"`

	// Only set while editing or deleting a chosen record.
	Target *Target `json:"target,omitempty"`

	SelectedTags       Selection `json:"selected_tags,omitempty"`
	SelectedCategories Selection `json:"selected_categories,omitempty"`

	// Parked ingest data, merged into the next Add draft.
	Pending *Draft `json:"pending,omitempty"`

	// Last executed search, kept for result pagination.
	Query *SearchQuery `json:"query,omitempty"`

	// Page of the selection screen the user was last on.
	Page int `json:"page,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Group    string `json:"group,omitempty"`
}

type Draft struct {
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Category    string       `json:"category"`
	Servings    *int         `json:"servings,omitempty"`
	Description string       `json:"description,omitempty"`
	Time        string       `json:"time,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	Link        string       `json:"link,omitempty"`
	Source      string       `json:"source,omitempty"`
}

type Target struct {
	RecipeID string `json:"recipe_id"`
	Title    string `json:"title"`
	Field    string `json:"field,omitempty"`
}

type SearchQuery struct {
	Tags       []string `json:"tags,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

func (q *SearchQuery) Empty() bool {
	return q == nil || (len(q.Tags) == 0 && len(q.Categories) == 0)
}

func NewSession(userID, chatID int64) *Session {
	return &Session{UserID: userID, ChatID: chatID, UpdatedAt: time.Now()}
}

// Key identifies the session of one user in one chat.
func Key(userID, chatID int64) string {
	return fmt.Sprintf("%d:%d", userID, chatID)
}

func (s *Session) Key() string {
	return Key(s.UserID, s.ChatID)
}

func (s *Session) Active() bool {
	return s.Workflow != WorkflowNone
}

// Begin discards the previous workflow and enters the initial state of wf.
// Pending data survives only into the Add workflow.
func (s *Session) Begin(wf Workflow) {
	pending := s.Pending
	s.Clear()
	s.Workflow = wf
	s.State = initialState[wf]
	s.Draft = &Draft{}
	s.Page = 1
	if wf == WorkflowAdd {
		s.Pending = pending
	}
}

// Advance moves to the next state of the active workflow.
func (s *Session) Advance(to State) error {
	if !CanTransition(s.Workflow, s.State, to) {
		return fmt.Errorf("%w: %s %q -> %q", ErrIllegalTransition, s.Workflow, s.State, to)
	}
	s.State = to
	return nil
}

// Clear resets the session to idle, keeping only its identity.
func (s *Session) Clear() {
	*s = Session{UserID: s.UserID, ChatID: s.ChatID, UpdatedAt: s.UpdatedAt}
}

func (s *Session) Selection(key SelectionKey) *Selection {
	if key == SelectionCategories {
		return &s.SelectedCategories
	}
	return &s.SelectedTags
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Draft = s.Draft.Clone()
	c.Pending = s.Pending.Clone()
	if s.Target != nil {
		t := *s.Target
		c.Target = &t
	}
	if s.Query != nil {
		c.Query = &SearchQuery{
			Tags:       append([]string(nil), s.Query.Tags...),
			Categories: append([]string(nil), s.Query.Categories...),
		}
	}
	c.SelectedTags = s.SelectedTags.Clone()
	c.SelectedCategories = s.SelectedCategories.Clone()
	return &c
}

func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	c := *d
	c.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	c.Steps = append([]string(nil), d.Steps...)
	if d.Servings != nil {
		v := *d.Servings
		c.Servings = &v
	}
	return &c
}

// Merge copies every non-empty field of other into d.
func (d *Draft) Merge(other *Draft) {
	if other == nil {
		return
	}
	if other.Title != "" {
		d.Title = other.Title
	}
	if len(other.Ingredients) > 0 {
		d.Ingredients = append([]Ingredient(nil), other.Ingredients...)
	}
	if len(other.Steps) > 0 {
		d.Steps = append([]string(nil), other.Steps...)
	}
	if other.Category != "" {
		d.Category = other.Category
	}
	if other.Servings != nil {
		v := *other.Servings
		d.Servings = &v
	}
	if other.Description != "" {
		d.Description = other.Description
	}
	if other.Time != "" {
		d.Time = other.Time
	}
	if other.Notes != "" {
		d.Notes = other.Notes
	}
	if other.Link != "" {
		d.Link = other.Link
	}
	if other.Source != "" {
		d.Source = other.Source
	}
}
