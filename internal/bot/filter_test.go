package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"recipebot/pkg/callback"
	"recipebot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticProfile(items ...string) *FilterProfile {
	return &FilterProfile{
		Noun:       "tags",
		Key:        store.SelectionTags,
		Prefix:     "tt:",
		PagePrefix: "ttp:",
		Items: func(context.Context, *store.Session) ([]string, error) {
			return items, nil
		},
		Header: func(*store.Session) string { return "Pick" },
		Empty:  "Nothing here",
		Back:   Button{Text: "Back", Data: "tb:go____1"},
	}
}

func newTurn(ev Event) (*turn, *recorder) {
	out := &recorder{}
	return &turn{ctx: context.Background(), ev: ev, s: store.NewSession(1, 1), out: out}, out
}

func TestFilterEngine_Show(t *testing.T) {
	var items []string
	for i := 1; i <= 7; i++ {
		items = append(items, fmt.Sprintf("tag%d", i))
	}
	tr, out := newTurn(Event{Type: EventCommand})
	tr.s.SelectedTags = store.Selection{"tag2"}

	require.NoError(t, NewFilterEngine(3).Show(tr, staticProfile(items...), 2))

	msg := out.last()
	assert.False(t, msg.Edited)
	assert.Contains(t, msg.Text, "Page 2/3")
	assert.Equal(t, 2, tr.s.Page)

	rows := msg.Keyboard.Rows
	require.Len(t, rows, 5)
	assert.Equal(t, "➕ tag4", rows[0][0].Text)
	assert.Equal(t, callback.Encode("tt:", callback.OpAdd, "tag4", 2), rows[0][0].Data)
	assert.Equal(t, []Button{
		{Text: "⬅️ Previous", Data: callback.Encode("ttp:", callback.OpGo, "", 1)},
		{Text: "Next ➡️", Data: callback.Encode("ttp:", callback.OpGo, "", 3)},
	}, rows[3])
	assert.Equal(t, "Back", rows[4][0].Text)
}

func TestFilterEngine_SelectedItemsOfferRemoval(t *testing.T) {
	tr, out := newTurn(Event{Type: EventCommand})
	tr.s.SelectedTags = store.Selection{"b"}

	require.NoError(t, NewFilterEngine(5).Show(tr, staticProfile("a", "b"), 1))

	rows := out.last().Keyboard.Rows
	assert.Equal(t, "➕ a", rows[0][0].Text)
	assert.Equal(t, "✅ b", rows[1][0].Text)
	assert.Equal(t, callback.Encode("tt:", callback.OpRemove, "b", 1), rows[1][0].Data)
}

func TestFilterEngine_Empty(t *testing.T) {
	tr, out := newTurn(Event{Type: EventCommand})

	require.NoError(t, NewFilterEngine(5).Show(tr, staticProfile(), 1))

	msg := out.last()
	assert.Equal(t, "Pick\n\nNothing here", msg.Text)
	require.Len(t, msg.Keyboard.Rows, 1)
	assert.Equal(t, "Back", msg.Keyboard.Rows[0][0].Text)
}

func TestFilterEngine_SkipsUnencodableItems(t *testing.T) {
	tr, out := newTurn(Event{Type: EventCommand})

	require.NoError(t, NewFilterEngine(5).Show(tr, staticProfile("ok", "bad__one"), 1))

	assert.Contains(t, out.last().Text, "Total: 1 tags")
}

func TestFilterEngine_HandleSelection(t *testing.T) {
	tests := []struct {
		name     string
		initial  store.Selection
		op       callback.Op
		claimed  bool
		expected store.Selection
	}{
		{name: "add", op: callback.OpAdd, claimed: true, expected: store.Selection{"x"}},
		{name: "add twice is a no-op", initial: store.Selection{"x"}, op: callback.OpAdd, claimed: true, expected: store.Selection{"x"}},
		{name: "remove", initial: store.Selection{"x", "y"}, op: callback.OpRemove, claimed: true, expected: store.Selection{"y"}},
		{name: "other op is declined", initial: store.Selection{"y"}, op: callback.OpPick, expected: store.Selection{"y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, out := newTurn(Event{Type: EventCallback, MessageID: 7})
			tr.s.SelectedTags = tt.initial

			claimed, err := NewFilterEngine(5).HandleSelection(tr, staticProfile("x", "y"), callback.Token{Op: tt.op, Target: "x", Page: 1})

			require.NoError(t, err)
			assert.Equal(t, tt.claimed, claimed)
			assert.Equal(t, tt.expected, tr.s.SelectedTags)
			if tt.claimed {
				assert.True(t, out.last().Edited)
				assert.Equal(t, 7, out.last().MessageID)
			} else {
				assert.Empty(t, out.out)
			}
		})
	}
}

func TestFilterEngine_ItemSourceFailure(t *testing.T) {
	tr, out := newTurn(Event{Type: EventCommand})
	p := staticProfile()
	p.Items = func(context.Context, *store.Session) ([]string, error) {
		return nil, errors.New("boom")
	}

	assert.Error(t, NewFilterEngine(5).Show(tr, p, 1))
	assert.Empty(t, out.out)
}
