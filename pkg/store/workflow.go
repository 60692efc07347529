package store

type Workflow string

const (
	WorkflowNone   Workflow = ""
	WorkflowAdd    Workflow = "add"
	WorkflowEdit   Workflow = "edit"
	WorkflowDelete Workflow = "delete"
	WorkflowIngest Workflow = "ingest"
	WorkflowSearch Workflow = "search"
)

type State string

const (
	StateIdle State = ""

	// Add Recipe
	StateAddTitle       State = "add.title"
	StateAddIngredients State = "add.ingredients"
	StateAddSteps       State = "add.steps"
	StateAddCategory    State = "add.category"
	StateAddLink        State = "add.link"
	StateAddTags        State = "add.tags"
	StateAddNewTag      State = "add.new_tag"

	// Edit Field
	StateEditSelectRecipe   State = "edit.select_recipe"
	StateEditSelectField    State = "edit.select_field"
	StateEditAwaitingValue  State = "edit.awaiting_value"
	StateEditSelectCategory State = "edit.select_category"

	// Delete Recipe
	StateDeleteSelectTarget State = "delete.select_target"
	StateDeleteConfirm      State = "delete.confirm"

	// Ingest-From-Source
	StateIngestAwaitingURL State = "ingest.awaiting_url"
	StateIngestResolving   State = "ingest.resolving"
	StateIngestIncomplete  State = "ingest.incomplete"
	StateIngestCategory    State = "ingest.category"
	StateIngestTags        State = "ingest.tags"
	StateIngestNewTag      State = "ingest.new_tag"

	// Search
	StateSearchModeSelection     State = "search.mode_selection"
	StateSearchTagFiltering      State = "search.tag_filtering"
	StateSearchCategoryFiltering State = "search.category_filtering"
	StateSearchResults           State = "search.results"
)

var initialState = map[Workflow]State{
	WorkflowAdd:    StateAddTitle,
	WorkflowEdit:   StateEditSelectRecipe,
	WorkflowDelete: StateDeleteSelectTarget,
	WorkflowIngest: StateIngestAwaitingURL,
	WorkflowSearch: StateSearchModeSelection,
}

// transitions lists, per workflow, the states reachable from each state.
// Staying in the same state is always allowed (re-prompt).
var transitions = map[Workflow]map[State][]State{
	WorkflowAdd: {
		StateAddTitle:       {StateAddIngredients},
		StateAddIngredients: {StateAddSteps},
		StateAddSteps:       {StateAddCategory},
		StateAddCategory:    {StateAddLink, StateAddTags},
		StateAddLink:        {StateAddTags},
		StateAddTags:        {StateAddNewTag},
		StateAddNewTag:      {StateAddTags},
	},
	WorkflowEdit: {
		StateEditSelectRecipe:   {StateEditSelectField},
		StateEditSelectField:    {StateEditAwaitingValue, StateEditSelectCategory, StateEditSelectRecipe},
		StateEditAwaitingValue:  {StateEditSelectField, StateEditSelectRecipe},
		StateEditSelectCategory: {StateEditSelectField, StateEditSelectRecipe},
	},
	WorkflowDelete: {
		StateDeleteSelectTarget: {StateDeleteConfirm},
		StateDeleteConfirm:      {StateDeleteSelectTarget},
	},
	WorkflowIngest: {
		StateIngestAwaitingURL: {StateIngestResolving},
		StateIngestResolving:   {StateIngestAwaitingURL, StateIngestIncomplete, StateIngestCategory},
		StateIngestCategory:    {StateIngestTags},
		StateIngestTags:        {StateIngestNewTag},
		StateIngestNewTag:      {StateIngestTags},
	},
	WorkflowSearch: {
		StateSearchModeSelection:     {StateSearchTagFiltering, StateSearchCategoryFiltering, StateSearchResults},
		StateSearchTagFiltering:      {StateSearchModeSelection, StateSearchCategoryFiltering, StateSearchResults},
		StateSearchCategoryFiltering: {StateSearchModeSelection, StateSearchTagFiltering, StateSearchResults},
		StateSearchResults:           {StateSearchModeSelection},
	},
}

func InitialState(wf Workflow) State {
	return initialState[wf]
}

// ValidState reports whether st belongs to the machine of wf.
func ValidState(wf Workflow, st State) bool {
	if wf == WorkflowNone {
		return st == StateIdle
	}
	_, ok := transitions[wf][st]
	return ok
}

func CanTransition(wf Workflow, from, to State) bool {
	if !ValidState(wf, from) || !ValidState(wf, to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[wf][from] {
		if next == to {
			return true
		}
	}
	return false
}
