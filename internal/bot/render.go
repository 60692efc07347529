package bot

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"recipebot/internal/entity"
	"recipebot/pkg/callback"
	"recipebot/pkg/pagination"
)

const maxLabelLen = 48

var categoryEmoji = map[entity.Category]string{
	entity.CategoryBreakfast: "🍳",
	entity.CategoryLunch:     "🥗",
	entity.CategoryDinner:    "🍝",
	entity.CategoryDessert:   "🍰",
	entity.CategoryCocktail:  "🍸",
}

// categoryLabel renders BREAKFAST as "🍳 Breakfast".
func categoryLabel(c entity.Category) string {
	name := strings.ToLower(string(c))
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if emoji, ok := categoryEmoji[c]; ok {
		return emoji + " " + name
	}
	return name
}

func recipeLabel(r *entity.Recipe) string {
	title := r.Title
	if utf8.RuneCountInString(title) > maxLabelLen {
		title = string([]rune(title)[:maxLabelLen-1]) + "…"
	}
	if emoji, ok := categoryEmoji[r.Category]; ok {
		return emoji + " " + title
	}
	return title
}

func recipeID(r *entity.Recipe) string {
	return r.Id.String()
}

func ingredientLine(in entity.Ingredient) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{in.Quantity, in.Unit, in.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// renderRecipe formats a stored recipe as an HTML message.
func renderRecipe(r *entity.Recipe) string {
	e := html.EscapeString
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s</b>\n", e(r.Title))
	var meta []string
	if r.Category != "" {
		meta = append(meta, categoryLabel(r.Category))
	}
	if r.Servings != nil {
		meta = append(meta, fmt.Sprintf("👥 %d servings", *r.Servings))
	}
	if r.EstimatedTime != "" {
		meta = append(meta, "⏱ "+e(r.EstimatedTime))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n")
	}

	if r.Description != "" {
		fmt.Fprintf(&b, "\n<i>%s</i>\n", e(r.Description))
	}

	b.WriteString("\n<b>Ingredients</b>\n")
	var groups []string
	byGroup := map[string][]entity.Ingredient{}
	for _, in := range r.Ingredients {
		g := in.Group
		if _, seen := byGroup[g]; !seen {
			groups = append(groups, g)
		}
		byGroup[g] = append(byGroup[g], in)
	}
	for _, g := range groups {
		if len(groups) > 1 && g != "" {
			fmt.Fprintf(&b, "<u>%s</u>\n", e(g))
		}
		for _, in := range byGroup[g] {
			fmt.Fprintf(&b, "• %s\n", e(ingredientLine(in)))
		}
	}

	b.WriteString("\n<b>Steps</b>\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e(step))
	}

	if r.Notes != "" {
		fmt.Fprintf(&b, "\n📝 %s\n", e(r.Notes))
	}
	if r.Link != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">Source</a>\n", e(r.Link))
	}
	if len(r.Tags) > 0 {
		tags := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			tags[i] = "#" + e(t)
		}
		fmt.Fprintf(&b, "\n🏷 %s\n", strings.Join(tags, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// navigationRow turns page links into buttons under pagePrefix.
func navigationRow[T any](p pagination.Page[T], pagePrefix string) []Button {
	links := p.Navigation()
	row := make([]Button, 0, len(links))
	for _, l := range links {
		row = append(row, Button{Text: l.Label, Data: callback.Encode(pagePrefix, callback.OpGo, "", l.Page)})
	}
	return row
}

// pickList lays out one page of items as pick buttons followed by navigation.
func pickList[T any](items []T, page, size int, label, id func(T) string, pickPrefix, pagePrefix string) (pagination.Page[T], [][]Button) {
	p := pagination.Paginate(items, page, size)
	rows := make([][]Button, 0, len(p.Items)+1)
	for _, it := range p.Items {
		rows = append(rows, Row(Button{Text: label(it), Data: callback.Encode(pickPrefix, callback.OpPick, id(it), p.Page)}))
	}
	rows = append(rows, navigationRow(p, pagePrefix))
	return p, rows
}

// recipePicker is the shared recipe selection screen of list, edit, delete
// and search results.
func recipePicker(header string, recipes []*entity.Recipe, page, size int, pickPrefix, pagePrefix string, extra ...[]Button) (string, *Keyboard, int) {
	p, rows := pickList(recipes, page, size, recipeLabel, recipeID, pickPrefix, pagePrefix)
	rows = append(rows, extra...)
	return header + "\n\n" + p.InfoText("recipes"), Inline(rows...), p.Page
}

func cancelButton() Button {
	return Button{Text: "❌ Cancel", Data: callback.Encode(prefixCancel, callback.OpCancel, "", 1)}
}

// recipeActions are offered under a displayed recipe.
func recipeActions(r *entity.Recipe) []Button {
	id := r.Id.String()
	return Row(
		Button{Text: "✏️ Edit", Data: callback.Encode(prefixEditPick, callback.OpPick, id, 1)},
		Button{Text: "🗑 Delete", Data: callback.Encode(prefixDeletePick, callback.OpPick, id, 1)},
	)
}

func categoryKeyboard() *Keyboard {
	cats := entity.Categories()
	rows := make([][]Button, 0, (len(cats)+1)/2)
	for i := 0; i < len(cats); i += 2 {
		row := Row(Button{Text: string(cats[i])})
		if i+1 < len(cats) {
			row = append(row, Button{Text: string(cats[i+1])})
		}
		rows = append(rows, row)
	}
	return ReplyKeyboard(true, rows...)
}
