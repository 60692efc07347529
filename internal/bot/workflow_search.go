package bot

import (
	"context"
	"errors"
	"html"
	"strings"

	"recipebot/internal/entity"
	"recipebot/internal/repository/contract"
	"recipebot/internal/service"
	"recipebot/pkg/callback"
	"recipebot/pkg/store"

	"github.com/google/uuid"
)

// Targets of the search mode token.
const (
	modeTags       = "tags"
	modeCategories = "categories"
	modeRun        = "run"
	modeBack       = "back"
)

// searchWorkflow narrows the owner's recipes by any of the selected tags
// within the selected categories.
type searchWorkflow struct {
	*deps
	tagProfile      *FilterProfile
	categoryProfile *FilterProfile
}

func newSearchWorkflow(d *deps) *searchWorkflow {
	w := &searchWorkflow{deps: d}
	w.tagProfile = &FilterProfile{
		Noun:       "tags",
		Key:        store.SelectionTags,
		Prefix:     prefixSearchTag,
		PagePrefix: prefixSearchTagPage,
		Items: func(ctx context.Context, s *store.Session) ([]string, error) {
			return d.recipes.OwnerTags(ctx, s.UserID)
		},
		Header: searchHeader,
		Empty:  msgNoTags,
		Extra:  searchControls,
		Back:   modeButton("🔙 Back", modeBack),
	}
	w.categoryProfile = &FilterProfile{
		Noun:       "categories",
		Key:        store.SelectionCategories,
		Prefix:     prefixSearchCategory,
		PagePrefix: prefixSearchCategoryPage,
		Items: func(context.Context, *store.Session) ([]string, error) {
			cats := entity.Categories()
			out := make([]string, len(cats))
			for i, c := range cats {
				out[i] = string(c)
			}
			return out, nil
		},
		Label: func(item string) string {
			return categoryLabel(entity.Category(item))
		},
		Header: searchHeader,
		Extra:  searchControls,
		Back:   modeButton("🔙 Back", modeBack),
	}
	return w
}

func modeButton(text, mode string) Button {
	return Button{Text: text, Data: callback.Encode(prefixSearchMode, callback.OpGo, mode, 1)}
}

func searchControls(*store.Session) [][]Button {
	return [][]Button{Row(modeButton("🔍 Search", modeRun))}
}

func searchHeader(s *store.Session) string {
	return msgSearchMode + "\n\n" + describeFilters(s.SelectedTags, s.SelectedCategories)
}

func describeFilters(tags, categories []string) string {
	if len(tags) == 0 && len(categories) == 0 {
		return "<i>No filters selected yet.</i>"
	}
	var b strings.Builder
	if len(tags) > 0 {
		b.WriteString("🏷 Tags: " + html.EscapeString(strings.Join(tags, ", ")))
	}
	if len(categories) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		labels := make([]string, len(categories))
		for i, c := range categories {
			labels[i] = categoryLabel(entity.Category(c))
		}
		b.WriteString("📂 Categories: " + strings.Join(labels, ", "))
	}
	return b.String()
}

// start runs the search right away when tags were given with the command.
func (w *searchWorkflow) start(t *turn, args string) error {
	if args = strings.TrimSpace(args); args != "" {
		for _, f := range strings.Fields(args) {
			name := service.NormalizeTag(f)
			if callback.ValidateTarget(name) == nil {
				t.s.SelectedTags.Add(name)
			}
		}
		return w.execute(t)
	}
	return w.showMode(t, "")
}

func (w *searchWorkflow) routes() []route {
	tagState := []store.State{store.StateSearchTagFiltering}
	categoryState := []store.State{store.StateSearchCategoryFiltering}
	resultState := []store.State{store.StateSearchResults}
	return []route{
		{
			kind: kindPagination, prefix: prefixSearchTagPage, workflow: store.WorkflowSearch, states: tagState,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				return w.engine.HandlePagination(t, w.tagProfile, tok)
			},
		},
		{
			kind: kindPagination, prefix: prefixSearchCategoryPage, workflow: store.WorkflowSearch, states: categoryState,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				return w.engine.HandlePagination(t, w.categoryProfile, tok)
			},
		},
		{
			kind: kindPagination, prefix: prefixSearchResultPage, workflow: store.WorkflowSearch, states: resultState,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if tok.Op != callback.OpGo {
					return false, nil
				}
				return true, w.showResults(t, tok.Page, "")
			},
		},
		{
			kind: kindToggle, prefix: prefixSearchTag, workflow: store.WorkflowSearch, states: tagState,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				return w.engine.HandleSelection(t, w.tagProfile, tok)
			},
		},
		{
			kind: kindToggle, prefix: prefixSearchCategory, workflow: store.WorkflowSearch, states: categoryState,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				return w.engine.HandleSelection(t, w.categoryProfile, tok)
			},
		},
		{
			kind: kindSelection, prefix: prefixSearchResult, workflow: store.WorkflowSearch, states: resultState,
			handle: w.onPickResult,
		},
		{
			kind: kindMode, prefix: prefixSearchMode, workflow: store.WorkflowSearch,
			handle: w.onMode,
		},
	}
}

func (w *searchWorkflow) prompt(t *turn) error {
	switch t.s.State {
	case store.StateSearchTagFiltering:
		return w.engine.Show(t, w.tagProfile, t.s.Page)
	case store.StateSearchCategoryFiltering:
		return w.engine.Show(t, w.categoryProfile, t.s.Page)
	case store.StateSearchResults:
		return w.showResults(t, t.s.Page, "")
	default:
		return w.showMode(t, "")
	}
}

func (w *searchWorkflow) onText(t *turn) error {
	return w.prompt(t)
}

func (w *searchWorkflow) showMode(t *turn, notice string) error {
	if err := t.s.Advance(store.StateSearchModeSelection); err != nil {
		return err
	}
	text := searchHeader(t.s)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	kb := Inline(
		Row(modeButton("🏷 By tag", modeTags), modeButton("📂 By category", modeCategories)),
		Row(modeButton("🔍 Search", modeRun)),
		Row(cancelButton()),
	)
	return t.show(text, kb)
}

func (w *searchWorkflow) onMode(t *turn, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpGo {
		return false, nil
	}
	// Results only lead back to mode selection.
	if t.s.State == store.StateSearchResults && tok.Target != modeBack {
		if err := t.s.Advance(store.StateSearchModeSelection); err != nil {
			return true, err
		}
	}

	switch tok.Target {
	case modeTags:
		if err := t.s.Advance(store.StateSearchTagFiltering); err != nil {
			return true, err
		}
		return true, w.engine.Show(t, w.tagProfile, 1)
	case modeCategories:
		if err := t.s.Advance(store.StateSearchCategoryFiltering); err != nil {
			return true, err
		}
		return true, w.engine.Show(t, w.categoryProfile, 1)
	case modeRun:
		return true, w.execute(t)
	case modeBack:
		return true, w.showMode(t, "")
	}
	return true, w.prompt(t)
}

// execute keeps the selections when nothing matches so the user can adjust
// them. A successful search moves them into the stored query.
func (w *searchWorkflow) execute(t *turn) error {
	q := &store.SearchQuery{
		Tags:       t.s.SelectedTags.Values(),
		Categories: t.s.SelectedCategories.Values(),
	}
	if q.Empty() {
		return w.showMode(t, msgSearchNoFilter)
	}
	recipes, err := w.find(t.ctx, t.owner(), q)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		return w.showMode(t, msgSearchNoResults)
	}

	t.s.Query = q
	t.s.SelectedTags = nil
	t.s.SelectedCategories = nil
	if err := t.s.Advance(store.StateSearchResults); err != nil {
		return err
	}
	return w.render(t, recipes, 1, "")
}

func (w *searchWorkflow) find(ctx context.Context, owner int64, q *store.SearchQuery) ([]*entity.Recipe, error) {
	filter := entity.RecipeFilter{UserId: owner, TagNames: q.Tags}
	for _, c := range q.Categories {
		if cat, ok := entity.ParseCategory(c); ok {
			filter.Categories = append(filter.Categories, cat)
		}
	}
	return w.recipes.ListFiltered(ctx, filter)
}

func (w *searchWorkflow) showResults(t *turn, page int, notice string) error {
	if t.s.Query.Empty() {
		t.s.Clear()
		return t.show(msgSearchExpired, nil)
	}
	recipes, err := w.find(t.ctx, t.owner(), t.s.Query)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		t.s.Query = nil
		return w.showMode(t, msgSearchNoResults)
	}
	return w.render(t, recipes, page, notice)
}

func (w *searchWorkflow) render(t *turn, recipes []*entity.Recipe, page int, notice string) error {
	header := notice + msgSearchResults + "\n" + describeFilters(t.s.Query.Tags, t.s.Query.Categories)
	text, kb, p := recipePicker(header, recipes, page, w.pageSize, prefixSearchResult, prefixSearchResultPage,
		Row(modeButton("🔄 New search", modeBack), cancelButton()))
	t.s.Page = p
	return t.show(text, kb)
}

func (w *searchWorkflow) onPickResult(t *turn, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpPick {
		return false, nil
	}
	id, err := uuid.Parse(tok.Target)
	if err != nil {
		return true, w.showResults(t, tok.Page, msgNotFound+"\n\n")
	}
	r, err := w.recipes.Get(t.ctx, t.owner(), id)
	if errors.Is(err, contract.ErrRecipeNotFound) {
		return true, w.showResults(t, tok.Page, msgNotFound+"\n\n")
	}
	if err != nil {
		return true, err
	}
	t.s.Clear()
	return true, t.show(renderRecipe(r), Inline(recipeActions(r)))
}
