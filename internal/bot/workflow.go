package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/service"
	"recipebot/pkg/callback"
	"recipebot/pkg/store"
)

// workflow is one guided conversation. start runs right after the session
// entered the workflow's initial state.
type workflow interface {
	start(t *turn, args string) error
	onText(t *turn) error
	// prompt repeats whatever the current state is waiting for.
	prompt(t *turn) error
	routes() []route
}

type deps struct {
	recipes  service.IRecipeService
	engine   *FilterEngine
	pageSize int
	log      logger.ILogger
}

var bulletPrefix = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// splitItems reads one item per line. A single line is split on commas.
func splitItems(text string) []string {
	var raw []string
	if strings.Contains(text, "\n") {
		raw = strings.Split(text, "\n")
	} else {
		raw = strings.Split(text, ",")
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(r), ""))
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

func ingredientsFrom(names []string) []store.Ingredient {
	out := make([]store.Ingredient, len(names))
	for i, n := range names {
		out[i] = store.Ingredient{Name: n, Group: "Main"}
	}
	return out
}

// isKeep reports whether text asks to keep the current value.
func isKeep(text string) bool {
	return strings.TrimSpace(text) == "-"
}

func isSkip(text string) bool {
	v := strings.ToLower(strings.TrimSpace(text))
	return v == "-" || v == "skip"
}

func validLink(raw string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func keepHint(current string) string {
	if current == "" {
		return ""
	}
	return fmt.Sprintf(msgKeepHint, html.EscapeString(truncate(current, 200)))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func ingredientNames(in []store.Ingredient) string {
	names := make([]string, len(in))
	for i, x := range in {
		names[i] = x.Name
	}
	return strings.Join(names, ", ")
}

// draftRecipe turns the session draft and selected tags into a record.
func draftRecipe(s *store.Session, source entity.RecipeSource) *entity.Recipe {
	d := s.Draft
	if d == nil {
		d = &store.Draft{}
	}
	if d.Source != "" {
		source = entity.RecipeSource(d.Source)
	}
	ingredients := make([]entity.Ingredient, len(d.Ingredients))
	for i, in := range d.Ingredients {
		ingredients[i] = entity.Ingredient{Name: in.Name, Quantity: in.Quantity, Unit: in.Unit, Group: in.Group}
	}
	r := &entity.Recipe{
		Title:         d.Title,
		Ingredients:   ingredients,
		Steps:         append([]string(nil), d.Steps...),
		Category:      entity.Category(d.Category),
		Description:   d.Description,
		EstimatedTime: d.Time,
		Notes:         d.Notes,
		Link:          d.Link,
		Source:        source,
		UserId:        s.UserID,
		Tags:          s.SelectedTags.Values(),
	}
	if d.Servings != nil {
		v := *d.Servings
		r.Servings = &v
	}
	return r
}

func missingDetails(d *store.Draft) string {
	if d == nil {
		d = &store.Draft{}
	}
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if len(d.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(d.Steps) == 0 {
		missing = append(missing, "steps")
	}
	if _, ok := entity.ParseCategory(d.Category); !ok {
		missing = append(missing, "category")
	}
	if len(missing) == 0 {
		return "some fields are invalid"
	}
	return strings.Join(missing, ", ")
}

// commitDraft stores the draft as a new recipe and completes the workflow.
// An invalid draft keeps the session where it is.
func (d *deps) commitDraft(t *turn, source entity.RecipeSource) error {
	saved, err := d.recipes.Add(t.ctx, draftRecipe(t.s, source))
	if errors.Is(err, service.ErrInvalidRecipe) {
		d.log.Warn("Bot", "Draft rejected on commit", map[string]interface{}{"user_id": t.owner(), "error": err.Error()})
		return t.send(fmt.Sprintf(msgRecipeInvalid, missingDetails(t.s.Draft)), nil)
	}
	if err != nil {
		return err
	}
	t.s.Clear()
	return t.show(msgRecipeSaved+"\n\n"+renderRecipe(saved), Inline(recipeActions(saved)))
}

// tagStep is the tag picking tail shared by Add and Ingest.
type tagStep struct {
	*deps
	workflow    store.Workflow
	profile     *FilterProfile
	control     string
	tagsState   store.State
	newTagState store.State
	// linkState is optional; text typed there is a source link.
	linkState store.State
	done      func(t *turn) error
}

func newTagStep(d *deps, wf store.Workflow, tagPrefix, pagePrefix, control string, tags, newTag, link store.State) *tagStep {
	ts := &tagStep{
		deps:        d,
		workflow:    wf,
		control:     control,
		tagsState:   tags,
		newTagState: newTag,
		linkState:   link,
	}
	ts.profile = &FilterProfile{
		Noun:       "tags",
		Key:        store.SelectionTags,
		Prefix:     tagPrefix,
		PagePrefix: pagePrefix,
		Items:      ts.items,
		Header:     ts.header,
		Empty:      "No tags yet. Create one with ➕ New tag, or press Done.",
		Extra:      ts.controls,
		Back:       cancelButton(),
	}
	return ts
}

// items are the owner's stored tags plus any picked but not yet stored.
func (ts *tagStep) items(ctx context.Context, s *store.Session) ([]string, error) {
	names, err := ts.recipes.OwnerTags(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	sel := store.Selection(names)
	for _, v := range s.SelectedTags {
		sel.Add(v)
	}
	return sel.Values(), nil
}

func (ts *tagStep) header(s *store.Session) string {
	h := msgAskTags
	if ts.linkState != "" && s.State == ts.linkState {
		h = msgAskLink + "\n\n" + h
	}
	if len(s.SelectedTags) > 0 {
		h += "\nSelected: " + html.EscapeString(strings.Join(s.SelectedTags, ", "))
	}
	return h
}

func (ts *tagStep) controls(s *store.Session) [][]Button {
	var rows [][]Button
	if ts.linkState != "" && s.State == ts.linkState {
		rows = append(rows, Row(Button{Text: "⏭ Skip link", Data: callback.Encode(ts.control, callback.OpSkip, "", s.Page)}))
	}
	rows = append(rows, Row(
		Button{Text: "➕ New tag", Data: callback.Encode(ts.control, callback.OpNew, "", s.Page)},
		Button{Text: "✅ Done", Data: callback.Encode(ts.control, callback.OpDone, "", s.Page)},
	))
	return rows
}

func (ts *tagStep) states() []store.State {
	st := []store.State{ts.tagsState, ts.newTagState}
	if ts.linkState != "" {
		st = append(st, ts.linkState)
	}
	return st
}

// toTags leaves the link or new-tag prompt for the tag screen.
func (ts *tagStep) toTags(t *turn) error {
	if t.s.State == ts.tagsState {
		return nil
	}
	return t.s.Advance(ts.tagsState)
}

func (ts *tagStep) show(t *turn) error {
	return ts.engine.Show(t, ts.profile, t.s.Page)
}

func (ts *tagStep) routes() []route {
	return []route{
		{
			kind: kindPagination, prefix: ts.profile.PagePrefix, workflow: ts.workflow, states: ts.states(),
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if err := ts.toTags(t); err != nil {
					return true, err
				}
				return ts.engine.HandlePagination(t, ts.profile, tok)
			},
		},
		{
			kind: kindToggle, prefix: ts.profile.Prefix, workflow: ts.workflow, states: ts.states(),
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if err := ts.toTags(t); err != nil {
					return true, err
				}
				return ts.engine.HandleSelection(t, ts.profile, tok)
			},
		},
		{
			kind: kindControl, prefix: ts.control, workflow: ts.workflow, states: ts.states(),
			handle: ts.onControl,
		},
	}
}

func (ts *tagStep) onControl(t *turn, tok callback.Token) (bool, error) {
	switch tok.Op {
	case callback.OpSkip, callback.OpBack:
		if err := ts.toTags(t); err != nil {
			return true, err
		}
		return true, ts.show(t)
	case callback.OpNew:
		if err := ts.toTags(t); err != nil {
			return true, err
		}
		if err := t.s.Advance(ts.newTagState); err != nil {
			return true, err
		}
		return true, ts.promptNewTag(t)
	case callback.OpDone:
		return true, ts.done(t)
	}
	return false, nil
}

func (ts *tagStep) promptNewTag(t *turn) error {
	back := Button{Text: "🔙 Back", Data: callback.Encode(ts.control, callback.OpBack, "", t.s.Page)}
	return t.show(msgAskNewTag, Inline(Row(back)))
}

// onText handles a typed tag name in the tags or new-tag state.
func (ts *tagStep) onText(t *turn) error {
	name := service.NormalizeTag(t.text())
	if err := callback.ValidateTarget(name); err != nil {
		return t.send(fmt.Sprintf(msgTagInvalid, callback.MaxTargetLen), nil)
	}
	t.s.SelectedTags.Add(name)
	if err := ts.toTags(t); err != nil {
		return err
	}
	return ts.show(t)
}

func (ts *tagStep) prompt(t *turn) error {
	if t.s.State == ts.newTagState {
		return ts.promptNewTag(t)
	}
	return ts.show(t)
}
