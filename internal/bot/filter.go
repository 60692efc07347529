package bot

import (
	"context"

	"recipebot/pkg/callback"
	"recipebot/pkg/pagination"
	"recipebot/pkg/store"
)

// FilterProfile describes one multi-select screen: where its items come
// from, which session selection it toggles and which tokens it owns.
type FilterProfile struct {
	Noun       string
	Key        store.SelectionKey
	Prefix     string
	PagePrefix string

	Items  func(ctx context.Context, s *store.Session) ([]string, error)
	Label  func(item string) string
	Header func(s *store.Session) string
	Empty  string

	// Extra rows go between navigation and Back.
	Extra func(s *store.Session) [][]Button
	Back  Button
}

// FilterEngine runs every FilterProfile the same way.
type FilterEngine struct {
	pageSize int
}

func NewFilterEngine(pageSize int) *FilterEngine {
	if pageSize < 1 {
		pageSize = 1
	}
	return &FilterEngine{pageSize: pageSize}
}

func (e *FilterEngine) Show(t *turn, p *FilterProfile, page int) error {
	text, kb, err := e.render(t.ctx, t.s, p, page)
	if err != nil {
		return err
	}
	return t.show(text, kb)
}

// HandleSelection toggles the token's item. Tokens with other ops are not
// claimed.
func (e *FilterEngine) HandleSelection(t *turn, p *FilterProfile, tok callback.Token) (bool, error) {
	sel := t.s.Selection(p.Key)
	switch tok.Op {
	case callback.OpAdd:
		sel.Add(tok.Target)
	case callback.OpRemove:
		sel.Remove(tok.Target)
	default:
		return false, nil
	}
	return true, e.Show(t, p, tok.Page)
}

func (e *FilterEngine) HandlePagination(t *turn, p *FilterProfile, tok callback.Token) (bool, error) {
	if tok.Op != callback.OpGo {
		return false, nil
	}
	return true, e.Show(t, p, tok.Page)
}

func (e *FilterEngine) render(ctx context.Context, s *store.Session, p *FilterProfile, page int) (string, *Keyboard, error) {
	all, err := p.Items(ctx, s)
	if err != nil {
		return "", nil, err
	}
	items := all[:0:0]
	for _, it := range all {
		// Items that cannot travel in a token are not offered.
		if callback.ValidateTarget(it) == nil {
			items = append(items, it)
		}
	}

	header := p.Header(s)
	var extra [][]Button
	if p.Extra != nil {
		extra = p.Extra(s)
	}
	if len(items) == 0 {
		rows := append(extra, Row(p.Back))
		return header + "\n\n" + p.Empty, Inline(rows...), nil
	}

	pg := pagination.Paginate(items, page, e.pageSize)
	sel := *s.Selection(p.Key)
	rows := make([][]Button, 0, len(pg.Items)+len(extra)+2)
	for _, it := range pg.Items {
		op, mark := callback.OpAdd, "➕"
		if sel.Contains(it) {
			op, mark = callback.OpRemove, "✅"
		}
		label := it
		if p.Label != nil {
			label = p.Label(it)
		}
		rows = append(rows, Row(Button{Text: mark + " " + label, Data: callback.Encode(p.Prefix, op, it, pg.Page)}))
	}
	rows = append(rows, navigationRow(pg, p.PagePrefix))
	rows = append(rows, extra...)
	rows = append(rows, Row(p.Back))

	s.Page = pg.Page
	return header + "\n\n" + pg.InfoText(p.Noun), Inline(rows...), nil
}
