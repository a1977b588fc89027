package usecase

import (
	"github.com/sanpixel/ratio.ai/internal/domain"
)

// categoryRule tags a family of keywords with the category it maps to
type categoryRule struct {
	category domain.Category
	family   domain.Family
	keywords []string
}

// categoryRules are evaluated top to bottom and the first match wins
var categoryRules = []categoryRule{
	{domain.CategoryFlour, domain.FamilyFlour, []string{
		"flour", "pasta", "bread", "cornstarch", "starch", "cornmeal", "semolina", "noodles",
	}},
	{domain.CategoryLiquid, domain.FamilyLiquid, []string{
		"water", "milk", "buttermilk", "cream", "stock", "broth", "wine", "beer", "juice",
		"yogurt", "coconut milk",
	}},
	{domain.CategoryEgg, domain.FamilyEgg, []string{
		"egg", "egg yolk", "egg white",
	}},
	{domain.CategoryFat, domain.FamilyFat, []string{
		"butter", "oil", "lard", "shortening", "cheese", "ghee", "margarine",
		"cream cheese", "peanut butter", "olive oil", "coconut oil", "vegetable oil",
	}},
	{domain.CategoryOther, domain.FamilySugar, []string{
		"sugar", "honey", "molasses", "maple syrup", "corn syrup",
	}},
	{domain.CategoryOther, domain.FamilyLeavening, []string{
		"yeast", "baking soda", "baking powder",
	}},
	{domain.CategoryOther, domain.FamilySeasoning, []string{
		"salt", "pepper", "paprika", "garlic", "seasoning", "rosemary", "parsley", "herbs",
		"spice", "vanilla", "cinnamon", "nutmeg", "oregano", "thyme", "basil",
	}},
	{domain.CategoryOther, domain.FamilyProtein, []string{
		"chicken", "beef", "pork", "fish", "shrimp", "salmon", "turkey", "bacon",
	}},
	{domain.CategoryOther, domain.FamilyVegetable, []string{
		"corn", "broccoli", "onion", "carrot", "potato", "tomato", "eggplant", "squash", "spinach",
	}},
	{domain.CategoryOther, domain.FamilyMixIn, []string{
		"chocolate chips", "nuts", "raisins", "walnuts", "pecans", "almonds",
	}},
}

// Classification is a categorizer verdict
type Classification struct {
	Category domain.Category
	Family   domain.Family
	// Fuzzy is set when the match needed typo tolerance
	Fuzzy bool
}

type compiledRule struct {
	category domain.Category
	family   domain.Family
	phrase   keywordPhrase
}

// compiledGroup is one categoryRule with its multi-word phrases split from its
// single words
type compiledGroup struct {
	phrases []compiledRule
	words   []compiledRule
}

// Categorizer assigns ingredient names to ratio categories with ordered keyword rules
type Categorizer struct {
	groups []compiledGroup
	// every multi-word phrase across all rules, used to refine a single-word hit
	// ("cream" in "cream cheese")
	phrases []compiledRule
	fuzzy   bool
}

// NewCategorizer compiles the built-in rules. With fuzzy set, names that match
// nothing exactly get a second pass allowing one typo in long keywords.
func NewCategorizer(fuzzy bool) *Categorizer {
	c := &Categorizer{fuzzy: fuzzy}
	for _, rule := range categoryRules {
		var group compiledGroup
		for _, keyword := range rule.keywords {
			compiled := compiledRule{
				category: rule.category,
				family:   rule.family,
				phrase:   newKeywordPhrase(keyword),
			}
			if len(compiled.phrase.tokens) > 1 {
				group.phrases = append(group.phrases, compiled)
				c.phrases = append(c.phrases, compiled)
			} else {
				group.words = append(group.words, compiled)
			}
		}
		c.groups = append(c.groups, group)
	}
	return c
}

// Classify never alters name; unmatched names are CategoryOther with no family
func (c *Categorizer) Classify(name string) Classification {
	tokens := tokenize(name)
	if len(tokens) == 0 {
		return Classification{Category: domain.CategoryOther}
	}

	if rule, ok := c.match(tokens, false); ok {
		return Classification{Category: rule.category, Family: rule.family}
	}
	if c.fuzzy {
		if rule, ok := c.match(tokens, true); ok {
			return Classification{Category: rule.category, Family: rule.family, Fuzzy: true}
		}
	}
	return Classification{Category: domain.CategoryOther}
}

// match walks the rules in priority order, phrases before words inside each
// rule. A single-word hit gives way to a matching phrase from any rule that
// contains that word, so "cream cheese" is fat while "olive oil bread" stays flour.
func (c *Categorizer) match(tokens []string, fuzzy bool) (compiledRule, bool) {
	for _, group := range c.groups {
		for _, rule := range group.phrases {
			if rule.phrase.matchIn(tokens, fuzzy) {
				return rule, true
			}
		}
		for _, rule := range group.words {
			if rule.phrase.matchIn(tokens, fuzzy) {
				if refined, ok := c.refine(rule, tokens, fuzzy); ok {
					return refined, true
				}
				return rule, true
			}
		}
	}
	return compiledRule{}, false
}

func (c *Categorizer) refine(word compiledRule, tokens []string, fuzzy bool) (compiledRule, bool) {
	for _, rule := range c.phrases {
		if containsToken(rule.phrase.tokens, word.phrase.tokens[0]) && rule.phrase.matchIn(tokens, fuzzy) {
			return rule, true
		}
	}
	return compiledRule{}, false
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
