package bot

import (
	"errors"

	"recipebot/internal/repository/contract"
	"recipebot/pkg/callback"
	"recipebot/pkg/store"

	"github.com/google/uuid"
)

// recipeList is the stateless browser behind /list. Its buttons carry
// everything they need, so it works whatever workflow is active.
type recipeList struct {
	*deps
}

func (l *recipeList) run(t *turn) error {
	return l.show(t, 1, "")
}

func (l *recipeList) show(t *turn, page int, notice string) error {
	recipes, err := l.recipes.ListByOwner(t.ctx, t.owner())
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		return t.show(notice+msgNoRecipes, nil)
	}
	text, kb, _ := recipePicker(notice+msgYourRecipes, recipes, page, l.pageSize, prefixListPick, prefixListPage)
	return t.show(text, kb)
}

func (l *recipeList) routes() []route {
	return []route{
		{
			kind: kindPagination, prefix: prefixListPage, workflow: store.WorkflowNone,
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if tok.Op != callback.OpGo {
					return false, nil
				}
				return true, l.show(t, tok.Page, "")
			},
		},
		{
			kind: kindSelection, prefix: prefixListPick, workflow: store.WorkflowNone,
			handle: l.onPick,
		},
	}
}

func (l *recipeList) onPick(t *turn, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpPick {
		return false, nil
	}
	id, err := uuid.Parse(tok.Target)
	if err != nil {
		return true, l.show(t, tok.Page, msgNotFound+"\n\n")
	}
	r, err := l.recipes.Get(t.ctx, t.owner(), id)
	if errors.Is(err, contract.ErrRecipeNotFound) {
		return true, l.show(t, tok.Page, msgNotFound+"\n\n")
	}
	if err != nil {
		return true, err
	}
	back := Button{Text: "🔙 Back to list", Data: callback.Encode(prefixListPage, callback.OpGo, "", tok.Page)}
	return true, t.show(renderRecipe(r), Inline(recipeActions(r), Row(back)))
}
