package bot

import (
	"fmt"
	"html"
	"strings"

	"recipebot/internal/entity"
	"recipebot/pkg/store"
)

// addWorkflow builds a recipe field by field:
// title, ingredients, steps, category, optional link, tags.
type addWorkflow struct {
	*deps
	tags *tagStep
}

func newAddWorkflow(d *deps) *addWorkflow {
	w := &addWorkflow{deps: d}
	w.tags = newTagStep(d, store.WorkflowAdd, prefixAddTag, prefixAddTagPage, prefixAddControl,
		store.StateAddTags, store.StateAddNewTag, store.StateAddLink)
	w.tags.done = w.commit
	return w
}

// start folds in data parked by an earlier import.
func (w *addWorkflow) start(t *turn, _ string) error {
	if t.s.Pending != nil {
		t.s.Draft.Merge(t.s.Pending)
		t.s.Pending = nil
	}
	return w.prompt(t)
}

func (w *addWorkflow) routes() []route {
	return w.tags.routes()
}

func (w *addWorkflow) prompt(t *turn) error {
	d := t.s.Draft
	switch t.s.State {
	case store.StateAddTitle:
		return t.show(msgAskTitle+keepHint(d.Title), nil)
	case store.StateAddIngredients:
		return t.show(msgAskIngredients+keepHint(ingredientNames(d.Ingredients)), nil)
	case store.StateAddSteps:
		return t.show(msgAskSteps+keepHint(strings.Join(d.Steps, "; ")), nil)
	case store.StateAddCategory:
		return t.send(msgAskCategory, categoryKeyboard())
	default:
		return w.tags.prompt(t)
	}
}

func (w *addWorkflow) onText(t *turn) error {
	d := t.s.Draft
	text := strings.TrimSpace(t.text())

	switch t.s.State {
	case store.StateAddTitle:
		if !(isKeep(text) && d.Title != "") {
			if text == "" {
				return t.send(msgEmptyValue, nil)
			}
			d.Title = text
		}
		return w.next(t, store.StateAddIngredients)

	case store.StateAddIngredients:
		if !(isKeep(text) && len(d.Ingredients) > 0) {
			items := splitItems(text)
			if len(items) == 0 {
				return t.send(msgEmptyValue, nil)
			}
			d.Ingredients = ingredientsFrom(items)
		}
		return w.next(t, store.StateAddSteps)

	case store.StateAddSteps:
		if !(isKeep(text) && len(d.Steps) > 0) {
			items := splitItems(text)
			if len(items) == 0 {
				return t.send(msgEmptyValue, nil)
			}
			d.Steps = items
		}
		return w.next(t, store.StateAddCategory)

	case store.StateAddCategory:
		c, ok := entity.ParseCategory(text)
		if !ok {
			return t.send(msgInvalidCategory, categoryKeyboard())
		}
		d.Category = string(c)
		if err := t.send(fmt.Sprintf(msgCategorySet, html.EscapeString(categoryLabel(c))), RemoveKeyboard()); err != nil {
			return err
		}
		if d.Link != "" {
			return w.next(t, store.StateAddTags)
		}
		return w.next(t, store.StateAddLink)

	case store.StateAddLink:
		if !isSkip(text) {
			if !validLink(text) {
				return t.send(msgInvalidLink, nil)
			}
			d.Link = text
		}
		return w.next(t, store.StateAddTags)

	case store.StateAddTags, store.StateAddNewTag:
		return w.tags.onText(t)
	}
	return w.prompt(t)
}

func (w *addWorkflow) next(t *turn, to store.State) error {
	if err := t.s.Advance(to); err != nil {
		return err
	}
	if to == store.StateAddLink || to == store.StateAddTags {
		t.s.Page = 1
	}
	return w.prompt(t)
}

func (w *addWorkflow) commit(t *turn) error {
	return w.commitDraft(t, entity.SourceManual)
}
