package bot

import (
	"errors"
	"fmt"
	"html"

	"recipebot/internal/repository/contract"
	"recipebot/pkg/callback"
	"recipebot/pkg/store"

	"github.com/google/uuid"
)

type deleteWorkflow struct {
	*deps
}

func newDeleteWorkflow(d *deps) *deleteWorkflow {
	return &deleteWorkflow{deps: d}
}

func (w *deleteWorkflow) start(t *turn, _ string) error {
	return w.showRecipes(t, 1, "")
}

func (w *deleteWorkflow) routes() []route {
	return []route{
		{
			kind: kindPagination, prefix: prefixDeletePage, workflow: store.WorkflowDelete,
			states: []store.State{store.StateDeleteSelectTarget},
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if tok.Op != callback.OpGo {
					return false, nil
				}
				return true, w.showRecipes(t, tok.Page, "")
			},
		},
		{
			kind: kindSelection, prefix: prefixDeletePick, workflow: store.WorkflowDelete, entry: true,
			handle: w.onPick,
		},
		{
			kind: kindConfirmation, prefix: prefixDeleteConfirm, workflow: store.WorkflowDelete,
			states: []store.State{store.StateDeleteConfirm},
			handle: w.onConfirm,
		},
	}
}

func (w *deleteWorkflow) prompt(t *turn) error {
	if t.s.State == store.StateDeleteConfirm && t.s.Target != nil {
		return w.askConfirm(t)
	}
	return w.showRecipes(t, t.s.Page, "")
}

func (w *deleteWorkflow) onText(t *turn) error {
	return w.prompt(t)
}

func (w *deleteWorkflow) showRecipes(t *turn, page int, notice string) error {
	recipes, err := w.recipes.ListByOwner(t.ctx, t.owner())
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		t.s.Clear()
		return t.show(notice+msgNoRecipes, nil)
	}
	text, kb, p := recipePicker(notice+msgPickDelete, recipes, page, w.pageSize, prefixDeletePick, prefixDeletePage, Row(cancelButton()))
	t.s.Page = p
	return t.show(text, kb)
}

// backToList returns to target selection on the page the user came from.
func (w *deleteWorkflow) backToList(t *turn, page int, notice string) error {
	if err := t.s.Advance(store.StateDeleteSelectTarget); err != nil {
		return err
	}
	t.s.Target = nil
	return w.showRecipes(t, page, notice)
}

func (w *deleteWorkflow) onPick(t *turn, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpPick {
		return true, w.prompt(t)
	}
	id, err := uuid.Parse(tok.Target)
	if err != nil {
		return true, w.backToList(t, tok.Page, msgNotFound+"\n\n")
	}
	r, err := w.recipes.Get(t.ctx, t.owner(), id)
	if errors.Is(err, contract.ErrRecipeNotFound) {
		return true, w.backToList(t, tok.Page, msgNotFound+"\n\n")
	}
	if err != nil {
		return true, err
	}

	t.s.Target = &store.Target{RecipeID: r.Id.String(), Title: r.Title}
	t.s.Page = tok.Page
	if err := t.s.Advance(store.StateDeleteConfirm); err != nil {
		return true, err
	}
	return true, w.askConfirm(t)
}

func (w *deleteWorkflow) askConfirm(t *turn) error {
	id := t.s.Target.RecipeID
	kb := Inline(Row(
		Button{Text: "✅ Yes, delete", Data: callback.Encode(prefixDeleteConfirm, callback.OpYes, id, t.s.Page)},
		Button{Text: "❌ No, keep it", Data: callback.Encode(prefixDeleteConfirm, callback.OpNo, id, t.s.Page)},
	))
	return t.show(fmt.Sprintf(msgConfirmDelete, html.EscapeString(t.s.Target.Title)), kb)
}

func (w *deleteWorkflow) onConfirm(t *turn, tok callback.Token) (bool, error) {
	switch tok.Op {
	case callback.OpNo:
		return true, w.backToList(t, tok.Page, "")
	case callback.OpYes:
	default:
		return false, nil
	}

	if t.s.Target == nil {
		return true, w.backToList(t, tok.Page, "")
	}
	// A confirmation for another recipe belongs to an older screen.
	if tok.Target != t.s.Target.RecipeID {
		return true, w.askConfirm(t)
	}
	id, err := uuid.Parse(tok.Target)
	if err != nil {
		return true, w.backToList(t, tok.Page, msgNotFound+"\n\n")
	}

	err = w.recipes.Delete(t.ctx, t.owner(), id)
	if errors.Is(err, contract.ErrRecipeNotFound) {
		return true, w.backToList(t, tok.Page, msgNotFound+"\n\n")
	}
	if err != nil {
		return true, err
	}

	title := t.s.Target.Title
	t.s.Clear()
	return true, t.show(fmt.Sprintf(msgDeleted, html.EscapeString(title)), nil)
}
