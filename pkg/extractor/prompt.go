package extractor

import "recipebot/pkg/llm"

const systemPrompt = `You extract cooking recipes from social media video descriptions.
Always answer in English, translating the source text when needed.
Reply with exactly one JSON object with these keys:
  "title" (string), "ingredients" (array of {"name","qty","unit","group"}),
  "steps" (array of strings), "servings" (integer or null),
  "desc" (string), "time" (string or null), "notes" (string or null).

Ingredient rules:
- One entry per ingredient. Put the numeric amount in "qty" and the unit in "unit" ("pc" for countable items).
- "group" names the component the ingredient belongs to, such as "Sauce", "Batter" or "Marinade".
  Infer the group from context even without an explicit header. Use "Main" otherwise.
- Never invent ingredients that are not mentioned. Return an empty array when none are listed.

Step rules:
- Short imperative sentences in cooking order. Return an empty array when the text has no method.
- Infer "time" and "servings" only when the text mentions them.`

func fewShot() []llm.Message {
	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Garlic noodles 🍜 200g noodles. Sauce: 3 cloves garlic, 2 tbsp soy sauce, 1 tbsp butter. Boil noodles, fry garlic in butter, toss everything. Serves 2, 15 min"},
		{Role: "assistant", Content: `{"title":"Garlic Noodles","ingredients":[{"name":"noodles","qty":"200","unit":"g","group":"Main"},{"name":"garlic","qty":"3","unit":"cloves","group":"Sauce"},{"name":"soy sauce","qty":"2","unit":"tbsp","group":"Sauce"},{"name":"butter","qty":"1","unit":"tbsp","group":"Sauce"}],"steps":["Boil the noodles.","Fry the garlic in butter.","Toss everything together."],"servings":2,"desc":"Quick buttery garlic noodles","time":"15 min","notes":null}`},
	}
}
