package bot

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"recipebot/internal/entity"
	"recipebot/pkg/callback"
	"recipebot/pkg/extractor"
	"recipebot/pkg/resolver"
	"recipebot/pkg/store"
)

const untitledRecipe = "Untitled recipe"

// ingestWorkflow imports a recipe from a short-video link. When the
// description is too thin it can hand the partial draft over to Add.
type ingestWorkflow struct {
	*deps
	resolver  resolver.Resolver
	extractor extractor.Extractor
	add       *addWorkflow
	tags      *tagStep
}

func newIngestWorkflow(d *deps, res resolver.Resolver, ext extractor.Extractor, add *addWorkflow) *ingestWorkflow {
	w := &ingestWorkflow{deps: d, resolver: res, extractor: ext, add: add}
	w.tags = newTagStep(d, store.WorkflowIngest, prefixIngestTag, prefixIngestTagPage, prefixIngestControl,
		store.StateIngestTags, store.StateIngestNewTag, "")
	w.tags.done = w.commit
	return w
}

// start accepts the link as a command argument too.
func (w *ingestWorkflow) start(t *turn, args string) error {
	if link := strings.TrimSpace(args); link != "" {
		return w.resolve(t, link)
	}
	return w.prompt(t)
}

func (w *ingestWorkflow) routes() []route {
	fallback := route{
		kind:     kindControl,
		prefix:   prefixIngestFallback,
		workflow: store.WorkflowIngest,
		states:   []store.State{store.StateIngestIncomplete},
		handle:   w.onFallback,
	}
	return append(w.tags.routes(), fallback)
}

func (w *ingestWorkflow) prompt(t *turn) error {
	switch t.s.State {
	case store.StateIngestAwaitingURL, store.StateIngestResolving:
		return t.show(msgAskURL, nil)
	case store.StateIngestIncomplete:
		return t.show(msgIncomplete, fallbackKeyboard())
	case store.StateIngestCategory:
		return t.send(msgAskCategory, categoryKeyboard())
	default:
		return w.tags.prompt(t)
	}
}

func (w *ingestWorkflow) onText(t *turn) error {
	switch t.s.State {
	case store.StateIngestAwaitingURL:
		return w.resolve(t, strings.TrimSpace(t.text()))

	case store.StateIngestCategory:
		c, ok := entity.ParseCategory(t.text())
		if !ok {
			return t.send(msgInvalidCategory, categoryKeyboard())
		}
		t.s.Draft.Category = string(c)
		if err := t.send(fmt.Sprintf(msgCategorySet, html.EscapeString(categoryLabel(c))), RemoveKeyboard()); err != nil {
			return err
		}
		if err := t.s.Advance(store.StateIngestTags); err != nil {
			return err
		}
		t.s.Page = 1
		return w.tags.show(t)

	case store.StateIngestTags, store.StateIngestNewTag:
		return w.tags.onText(t)
	}
	return w.prompt(t)
}

// resolve runs the fetch and extraction. Failures put the user back to
// sending a link, they never end the workflow.
func (w *ingestWorkflow) resolve(t *turn, link string) error {
	if err := w.resolver.Validate(link); err != nil {
		return t.send(msgInvalidURL, nil)
	}
	if err := t.s.Advance(store.StateIngestResolving); err != nil {
		return err
	}
	if err := t.send(msgResolving, nil); err != nil {
		return err
	}

	res, err := w.resolver.Resolve(t.ctx, link)
	if err != nil {
		msg := msgNotAccessible
		if errors.Is(err, resolver.ErrDescriptionNotFound) {
			msg = msgNoDescription
		}
		return w.retry(t, msg, err)
	}
	fields, err := w.extractor.Extract(t.ctx, res.Description)
	if err != nil {
		return w.retry(t, msgExtractionFailed, err)
	}

	t.s.Draft = draftFromFields(fields, res.CanonicalURL)
	if len(t.s.Draft.Ingredients) == 0 || len(t.s.Draft.Steps) == 0 {
		if err := t.s.Advance(store.StateIngestIncomplete); err != nil {
			return err
		}
		return t.send(msgIncomplete, fallbackKeyboard())
	}

	if err := t.s.Advance(store.StateIngestCategory); err != nil {
		return err
	}
	preview := renderRecipe(draftRecipe(t.s, entity.SourceTikTokAuto))
	if err := t.send(fmt.Sprintf(msgIngestPreview, preview), nil); err != nil {
		return err
	}
	return t.send(msgAskCategory, categoryKeyboard())
}

func (w *ingestWorkflow) retry(t *turn, msg string, cause error) error {
	w.log.Warn("Bot", "Recipe import failed", map[string]interface{}{"user_id": t.owner(), "error": cause.Error()})
	if err := t.s.Advance(store.StateIngestAwaitingURL); err != nil {
		return err
	}
	return t.send(msg, nil)
}

func (w *ingestWorkflow) onFallback(t *turn, tok callback.Token) (bool, error) {
	switch tok.Op {
	case callback.OpManual:
		pending := t.s.Draft.Clone()
		pending.Source = string(entity.SourceTikTokManual)
		t.s.Begin(store.WorkflowAdd)
		t.s.Pending = pending
		return true, w.add.start(t, "")
	case callback.OpCancel:
		t.s.Clear()
		return true, t.show(msgCancelled, nil)
	}
	return false, nil
}

func (w *ingestWorkflow) commit(t *turn) error {
	return w.commitDraft(t, entity.SourceTikTokAuto)
}

func fallbackKeyboard() *Keyboard {
	return Inline(Row(
		Button{Text: "✍️ Continue manually", Data: callback.Encode(prefixIngestFallback, callback.OpManual, "", 1)},
		Button{Text: "❌ Cancel", Data: callback.Encode(prefixIngestFallback, callback.OpCancel, "", 1)},
	))
}

func draftFromFields(f *extractor.Fields, link string) *store.Draft {
	d := &store.Draft{
		Title:       strings.TrimSpace(f.Title),
		Steps:       append([]string(nil), f.Steps...),
		Description: f.Description,
		Time:        f.Time,
		Notes:       f.Notes,
		Link:        link,
		Source:      string(entity.SourceTikTokAuto),
	}
	if d.Title == "" {
		d.Title = untitledRecipe
	}
	if f.Servings != nil {
		v := *f.Servings
		d.Servings = &v
	}
	for _, in := range f.Ingredients {
		d.Ingredients = append(d.Ingredients, store.Ingredient{
			Name:     in.Name,
			Quantity: in.Quantity,
			Unit:     in.Unit,
			Group:    in.Group,
		})
	}
	return d
}
