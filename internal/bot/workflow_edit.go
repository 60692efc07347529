package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"recipebot/internal/entity"
	"recipebot/internal/repository/contract"
	"recipebot/internal/service"
	"recipebot/pkg/callback"
	"recipebot/pkg/store"

	"github.com/google/uuid"
)

type editField struct {
	key      string
	label    string
	optional bool
}

var editFields = []editField{
	{key: "title", label: "Title"},
	{key: "ingredients", label: "Ingredients"},
	{key: "steps", label: "Steps"},
	{key: "category", label: "Category"},
	{key: "servings", label: "Servings", optional: true},
	{key: "description", label: "Description", optional: true},
	{key: "time", label: "Time", optional: true},
	{key: "notes", label: "Notes", optional: true},
	{key: "link", label: "Link", optional: true},
}

func lookupField(key string) (editField, bool) {
	for _, f := range editFields {
		if f.key == key {
			return f, true
		}
	}
	return editField{}, false
}

// editWorkflow changes a single field of one owned recipe.
type editWorkflow struct {
	*deps
}

func newEditWorkflow(d *deps) *editWorkflow {
	return &editWorkflow{deps: d}
}

func (w *editWorkflow) start(t *turn, _ string) error {
	return w.showRecipes(t, 1, "")
}

func (w *editWorkflow) routes() []route {
	return []route{
		{
			kind: kindPagination, prefix: prefixEditPage, workflow: store.WorkflowEdit,
			states: []store.State{store.StateEditSelectRecipe},
			handle: func(t *turn, tok callback.Token) (bool, error) {
				if tok.Op != callback.OpGo {
					return false, nil
				}
				return true, w.showRecipes(t, tok.Page, "")
			},
		},
		{
			kind: kindSelection, prefix: prefixEditPick, workflow: store.WorkflowEdit, entry: true,
			handle: w.onPickRecipe,
		},
		{
			kind: kindSelection, prefix: prefixEditField, workflow: store.WorkflowEdit,
			states: []store.State{store.StateEditSelectField},
			handle: w.onPickField,
		},
		{
			kind: kindSelection, prefix: prefixEditCategory, workflow: store.WorkflowEdit,
			states: []store.State{store.StateEditSelectCategory},
			handle: w.onPickCategory,
		},
	}
}

func (w *editWorkflow) prompt(t *turn) error {
	switch t.s.State {
	case store.StateEditSelectField:
		return w.showFields(t)
	case store.StateEditSelectCategory:
		return w.showCategories(t)
	case store.StateEditAwaitingValue:
		f, _ := lookupField(t.s.Target.Field)
		r, err := w.target(t)
		if err != nil {
			return w.lost(t, err)
		}
		return w.askValue(t, f, r)
	default:
		return w.showRecipes(t, t.s.Page, "")
	}
}

func (w *editWorkflow) showRecipes(t *turn, page int, notice string) error {
	recipes, err := w.recipes.ListByOwner(t.ctx, t.owner())
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		t.s.Clear()
		return t.show(notice+msgNoRecipes, nil)
	}
	text, kb, p := recipePicker(notice+msgPickEdit, recipes, page, w.pageSize, prefixEditPick, prefixEditPage, Row(cancelButton()))
	t.s.Page = p
	return t.show(text, kb)
}

// target loads the recipe being edited, scoped to its owner.
func (w *editWorkflow) target(t *turn) (*entity.Recipe, error) {
	if t.s.Target == nil {
		return nil, contract.ErrRecipeNotFound
	}
	id, err := uuid.Parse(t.s.Target.RecipeID)
	if err != nil {
		return nil, contract.ErrRecipeNotFound
	}
	return w.recipes.Get(t.ctx, t.owner(), id)
}

// lost sends the user back to recipe selection when the target is gone.
func (w *editWorkflow) lost(t *turn, err error) error {
	if !errors.Is(err, contract.ErrRecipeNotFound) {
		return err
	}
	if err := t.s.Advance(store.StateEditSelectRecipe); err != nil {
		return err
	}
	t.s.Target = nil
	return w.showRecipes(t, t.s.Page, msgNotFound+"\n\n")
}

func (w *editWorkflow) onPickRecipe(t *turn, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpPick {
		return true, w.prompt(t)
	}
	t.s.Target = &store.Target{RecipeID: tok.Target}
	r, err := w.target(t)
	if err != nil {
		return true, w.lost(t, err)
	}
	t.s.Target.Title = r.Title
	t.s.Page = tok.Page
	if err := t.s.Advance(store.StateEditSelectField); err != nil {
		return true, err
	}
	return true, w.showFields(t)
}

func (w *editWorkflow) showFields(t *turn) error {
	rows := make([][]Button, 0, len(editFields)/2+2)
	for i := 0; i < len(editFields); i += 2 {
		row := Row(w.fieldButton(editFields[i], t.s.Page))
		if i+1 < len(editFields) {
			row = append(row, w.fieldButton(editFields[i+1], t.s.Page))
		}
		rows = append(rows, row)
	}
	rows = append(rows, Row(
		Button{Text: "🔙 Back", Data: callback.Encode(prefixEditField, callback.OpBack, "", t.s.Page)},
		cancelButton(),
	))
	return t.show(fmt.Sprintf(msgPickField, html.EscapeString(t.s.Target.Title)), Inline(rows...))
}

func (w *editWorkflow) fieldButton(f editField, page int) Button {
	return Button{Text: f.label, Data: callback.Encode(prefixEditField, callback.OpPick, f.key, page)}
}

func (w *editWorkflow) onPickField(t *turn, tok callback.Token) (bool, error) {
	switch tok.Op {
	case callback.OpBack:
		if err := t.s.Advance(store.StateEditSelectRecipe); err != nil {
			return true, err
		}
		return true, w.showRecipes(t, t.s.Page, "")
	case callback.OpPick:
	default:
		return false, nil
	}

	f, ok := lookupField(tok.Target)
	if !ok {
		return true, w.showFields(t)
	}
	if f.key == "category" {
		if err := t.s.Advance(store.StateEditSelectCategory); err != nil {
			return true, err
		}
		return true, w.showCategories(t)
	}

	r, err := w.target(t)
	if err != nil {
		return true, w.lost(t, err)
	}
	t.s.Target.Field = f.key
	if err := t.s.Advance(store.StateEditAwaitingValue); err != nil {
		return true, err
	}
	return true, w.askValue(t, f, r)
}

func (w *editWorkflow) askValue(t *turn, f editField, r *entity.Recipe) error {
	hint := ""
	if cur := fieldValue(r, f.key); cur != "" {
		hint = "\n\nCurrent: <i>" + html.EscapeString(truncate(cur, 300)) + "</i>"
	}
	if f.optional {
		hint += msgClearHint
	}
	return t.show(fmt.Sprintf(msgAskValue, strings.ToLower(f.label), hint), Inline(Row(cancelButton())))
}

func (w *editWorkflow) showCategories(t *turn) error {
	var rows [][]Button
	for _, c := range entity.Categories() {
		rows = append(rows, Row(Button{Text: categoryLabel(c), Data: callback.Encode(prefixEditCategory, callback.OpPick, string(c), t.s.Page)}))
	}
	rows = append(rows, Row(
		Button{Text: "🔙 Back", Data: callback.Encode(prefixEditCategory, callback.OpBack, "", t.s.Page)},
		cancelButton(),
	))
	return t.show(msgAskCategory, Inline(rows...))
}

func (w *editWorkflow) onPickCategory(t *turn, tok callback.Token) (bool, error) {
	switch tok.Op {
	case callback.OpBack:
		if err := t.s.Advance(store.StateEditSelectField); err != nil {
			return true, err
		}
		return true, w.showFields(t)
	case callback.OpPick:
	default:
		return false, nil
	}

	c, ok := entity.ParseCategory(tok.Target)
	if !ok {
		return true, w.showCategories(t)
	}
	r, err := w.target(t)
	if err != nil {
		return true, w.lost(t, err)
	}
	r.Category = c
	return true, w.save(t, r, "Category")
}

func (w *editWorkflow) onText(t *turn) error {
	if t.s.State != store.StateEditAwaitingValue {
		return w.prompt(t)
	}
	f, ok := lookupField(t.s.Target.Field)
	if !ok {
		return w.prompt(t)
	}
	r, err := w.target(t)
	if err != nil {
		return w.lost(t, err)
	}
	if warning := applyField(r, f, strings.TrimSpace(t.text())); warning != "" {
		return t.send(warning, nil)
	}
	return w.save(t, r, f.label)
}

func (w *editWorkflow) save(t *turn, r *entity.Recipe, label string) error {
	err := w.recipes.Update(t.ctx, r)
	switch {
	case errors.Is(err, contract.ErrRecipeNotFound):
		return w.lost(t, err)
	case errors.Is(err, service.ErrInvalidRecipe):
		return t.send(msgInvalidValue, nil)
	case err != nil:
		return err
	}
	t.s.Clear()
	return t.show(fmt.Sprintf(msgFieldUpdated, label), nil)
}

// applyField validates text for f and writes it into r. It returns a
// user-facing warning when the value is unacceptable.
func applyField(r *entity.Recipe, f editField, text string) string {
	unset := f.optional && isKeep(text)
	switch f.key {
	case "title":
		if text == "" {
			return msgEmptyValue
		}
		r.Title = text
	case "ingredients":
		items := splitItems(text)
		if len(items) == 0 {
			return msgEmptyValue
		}
		r.Ingredients = r.Ingredients[:0]
		for _, in := range ingredientsFrom(items) {
			r.Ingredients = append(r.Ingredients, entity.Ingredient{Name: in.Name, Group: in.Group})
		}
	case "steps":
		items := splitItems(text)
		if len(items) == 0 {
			return msgEmptyValue
		}
		r.Steps = items
	case "servings":
		if unset {
			r.Servings = nil
			break
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return msgInvalidNumber
		}
		r.Servings = &n
	case "description":
		r.Description = optionalText(text, unset)
	case "time":
		r.EstimatedTime = optionalText(text, unset)
	case "notes":
		r.Notes = optionalText(text, unset)
	case "link":
		if unset {
			r.Link = ""
			break
		}
		if !validLink(text) {
			return msgInvalidLink
		}
		r.Link = text
	default:
		return msgEmptyValue
	}
	return ""
}

func optionalText(text string, unset bool) string {
	if unset {
		return ""
	}
	return text
}

func fieldValue(r *entity.Recipe, key string) string {
	switch key {
	case "title":
		return r.Title
	case "ingredients":
		lines := make([]string, len(r.Ingredients))
		for i, in := range r.Ingredients {
			lines[i] = ingredientLine(in)
		}
		return strings.Join(lines, ", ")
	case "steps":
		return strings.Join(r.Steps, "; ")
	case "category":
		return string(r.Category)
	case "servings":
		if r.Servings == nil {
			return ""
		}
		return strconv.Itoa(*r.Servings)
	case "description":
		return r.Description
	case "time":
		return r.EstimatedTime
	case "notes":
		return r.Notes
	case "link":
		return r.Link
	}
	return ""
}
