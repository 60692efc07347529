package bot

const (
	msgWelcome = "👋 <b>Welcome to Recipe Bot!</b>\n\n" +
		"I keep your personal recipe collection: add recipes by hand, import them from TikTok, " +
		"and find them again by tag or category.\n\n" +
		"Send /register to get started, or /help to see what I can do."

	msgHelp = "<b>Commands</b>\n" +
		"/add - add a recipe step by step\n" +
		"/ingest - import a recipe from a TikTok link\n" +
		"/list - browse your recipes\n" +
		"/search - find recipes by tags and categories\n" +
		"/search <i>tag ...</i> - search by tags right away\n" +
		"/edit - change one field of a recipe\n" +
		"/delete - remove a recipe\n" +
		"/cancel - stop what you are doing\n" +
		"/register - register your account"

	msgNotRegistered   = "🔒 You need to be registered to do that. Send /register first."
	msgNotTester       = "🚧 The bot is in closed testing and your account is not on the tester list yet."
	msgRegistered      = "✅ You're registered. Send /add to save your first recipe."
	msgUnknownCommand  = "🤔 I don't know that command. See /help."
	msgNotUnderstood   = "🤔 I didn't understand that. Pick a command from /help."
	msgCancelled       = "❌ Cancelled."
	msgNothingToCancel = "There is nothing to cancel."
	msgExpired         = "⌛ This menu has expired. Please start again from a command."
	msgGenericError    = "⚠️ Something went wrong on my side. Please try again, or /cancel to start over."
	msgNotFound        = "🚫 Recipe not found or access denied."
	msgNoRecipes       = "📭 You don't have any recipes yet. Use /add or /ingest to create one."

	// Add
	msgAskTitle        = "📝 What's the <b>title</b> of the recipe?"
	msgAskIngredients  = "🥕 Send the <b>ingredients</b>, one per line (or comma separated)."
	msgAskSteps        = "👩‍🍳 Send the <b>steps</b>, one per line (or comma separated)."
	msgAskCategory     = "📂 Pick a <b>category</b>."
	msgInvalidCategory = "⚠️ That's not one of the categories. Please use the keyboard."
	msgAskLink         = "🔗 Send the recipe's <b>source link</b>, or skip it."
	msgInvalidLink     = "⚠️ That doesn't look like a link. Send a full http(s) URL, or skip."
	msgAskTags         = "🏷 Pick <b>tags</b> for the recipe, then press Done."
	msgAskNewTag       = "✏️ Send the name of the new tag."
	msgKeepHint        = "\n\nSend <code>-</code> to keep: <i>%s</i>"
	msgEmptyValue      = "⚠️ That was empty. Please try again."
	msgRecipeSaved     = "✅ Recipe saved!"
	msgRecipeInvalid   = "⚠️ The recipe is missing required details: %s"

	// Ingest
	msgAskURL           = "🎬 Send me a TikTok link and I'll import the recipe from its description."
	msgInvalidURL       = "⚠️ That isn't a TikTok video link. Please send a link like https://www.tiktok.com/@user/video/123."
	msgResolving        = "⏳ Reading the video description..."
	msgNotAccessible    = "⚠️ I couldn't open that video. Check the link and send it again, or /cancel."
	msgNoDescription    = "⚠️ That video has no description I could read. Send another link, or /cancel."
	msgExtractionFailed = "⚠️ I couldn't make sense of the description. Send the link again, or /cancel."
	msgIncomplete       = "🤷 I couldn't find a full recipe in that description. Would you like to continue manually? What I found so far will be kept."
	msgIngestPreview    = "Here's what I found:\n\n%s"
	msgTagInvalid       = "⚠️ Tag names must be 1 to %d bytes long (fewer letters in non-Latin scripts) and cannot contain \"__\"."
	msgCategorySet      = "📂 Category: <b>%s</b>"

	// Edit
	msgPickEdit      = "✏️ Select a recipe to edit."
	msgPickField     = "✏️ Editing <b>%s</b>. Which field?"
	msgAskValue      = "Send the new <b>%s</b>.%s"
	msgClearHint     = "\nSend <code>-</code> to clear it."
	msgInvalidValue  = "⚠️ That value isn't valid for this field. Please try again."
	msgInvalidNumber = "⚠️ Servings must be a whole number greater than zero."
	msgFieldUpdated  = "✅ %s updated successfully!"

	// Delete
	msgPickDelete    = "🗑 Select a recipe to delete."
	msgConfirmDelete = "Are you sure you want to delete <b>%s</b>?"
	msgDeleted       = "✅ Recipe <b>%s</b> deleted."

	// Search
	msgSearchMode      = "🔍 <b>Search recipes</b>\nChoose how to filter, then press Search."
	msgSearchNoFilter  = "⚠️ Select at least one tag or category first."
	msgSearchNoResults = "😔 No recipes found matching your filters. Adjust them and try again."
	msgSearchResults   = "🔍 <b>Search results</b>"
	msgSearchExpired   = "⌛ This search has expired. Start a new one with /search."
	msgNoTags          = "You don't have any tags yet. Add some tags to your recipes first!"

	msgYourRecipes = "📖 <b>Your recipes</b>"
)
