package bot

import (
	"slices"

	"recipebot/pkg/callback"
	"recipebot/pkg/store"
)

// Token prefixes. Every prefix ends with ':' so none is a prefix of another.
const (
	prefixCancel = "cx:"

	prefixListPick = "ls:"
	prefixListPage = "lsp:"

	prefixAddTag     = "at:"
	prefixAddTagPage = "atp:"
	prefixAddControl = "ad:"

	prefixIngestTag      = "it:"
	prefixIngestTagPage  = "itp:"
	prefixIngestControl  = "id:"
	prefixIngestFallback = "ic:"

	prefixEditPick     = "ed:"
	prefixEditPage     = "edp:"
	prefixEditField    = "edf:"
	prefixEditCategory = "edc:"

	prefixDeletePick    = "dl:"
	prefixDeletePage    = "dlp:"
	prefixDeleteConfirm = "dlc:"

	prefixSearchMode         = "sm:"
	prefixSearchTag          = "st:"
	prefixSearchTagPage      = "stp:"
	prefixSearchCategory     = "sc:"
	prefixSearchCategoryPage = "scp:"
	prefixSearchResult       = "sr:"
	prefixSearchResultPage   = "srp:"
)

// routeKind orders routes. Within one kind, registration order wins.
type routeKind int

const (
	kindPagination routeKind = iota + 1
	kindToggle
	kindSelection
	kindConfirmation
	kindMode
	kindControl
)

type route struct {
	kind   routeKind
	prefix string

	// WorkflowNone marks a stateless route.
	workflow store.Workflow
	// entry routes may start their workflow.
	entry bool
	// states the route is valid in. Empty means any state of the workflow.
	states []store.State

	handle func(t *turn, tok callback.Token) (bool, error)
}

func (r route) acceptsState(st store.State) bool {
	return len(r.states) == 0 || slices.Contains(r.states, st)
}

func sortRoutes(routes []route) {
	slices.SortStableFunc(routes, func(a, b route) int {
		return int(a.kind) - int(b.kind)
	})
}
