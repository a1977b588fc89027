package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// EngineConfig tunes the ingredient pipeline
type EngineConfig struct {
	MinGrams            float64
	MaxDigit            int
	Tolerance           float64
	EnableFuzzyMatching bool
}

// Engine runs the full ingredient pipeline: parse, normalize, convert,
// categorize, dedupe and reduce to a ratio. Every call recomputes from its
// inputs; an Engine holds no per-recipe state and is safe for concurrent use.
type Engine struct {
	parser      *IngredientParser
	converter   *GramConverter
	categorizer *Categorizer
	dedup       *Deduplicator
	ratios      *RatioEngine
	logger      *zap.Logger
}

// NewEngine creates an engine over the given density table
func NewEngine(densities domain.DensityTable, cfg EngineConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	converter := NewGramConverter(densities)
	return &Engine{
		parser:      NewIngredientParser(NewNameNormalizer()),
		converter:   converter,
		categorizer: NewCategorizer(cfg.EnableFuzzyMatching),
		dedup:       NewDeduplicator(converter),
		ratios: NewRatioEngine(RatioConfig{
			MinGrams:  cfg.MinGrams,
			MaxDigit:  cfg.MaxDigit,
			Tolerance: cfg.Tolerance,
		}),
		logger: logger.With(zap.String("component", "engine")),
	}
}

// ProcessIngredientLines turns raw lines into the deduplicated ingredient list.
// sectionStarts holds the indexes of lines that open a new recipe section;
// index 0 is implied.
func (e *Engine) ProcessIngredientLines(lines []string, sectionStarts []int) ([]domain.Ingredient, error) {
	return e.ProcessSections(splitSections(lines, sectionStarts))
}

// ProcessSections is ProcessIngredientLines for input that is already grouped.
// A line ending in ":" inside a section is a header and opens a new section.
func (e *Engine) ProcessSections(sections []domain.IngredientSection) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	for _, section := range expandHeaders(sections) {
		for _, line := range dropRepeatedLines(section.Lines) {
			if strings.TrimSpace(line) == "" {
				continue
			}
			ingredients = append(ingredients, e.BuildIngredient(line, section.Title))
		}
	}

	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredient lines", domain.ErrEmptyInput)
	}

	deduped := e.dedup.Dedupe(ingredients)
	if !hasMass(deduped) {
		return nil, fmt.Errorf("%w: no line could be converted to a mass", domain.ErrEmptyInput)
	}

	e.logger.Debug("processed ingredient lines",
		zap.Int("lines", len(ingredients)),
		zap.Int("ingredients", len(deduped)),
	)
	return deduped, nil
}

// BuildIngredient parses one raw line into a fully derived ingredient. It
// never fails; unusable lines come back as quantity 0 pass-throughs.
func (e *Engine) BuildIngredient(line, section string) domain.Ingredient {
	parsed := e.parser.Parse(line)
	if !parsed.Parsed {
		e.logger.Debug("line passed through unparsed", zap.String("line", line))
		ing := domain.Ingredient{
			Name:         line,
			OriginalText: line,
			Section:      section,
		}
		return e.Refresh(ing)
	}

	ing := domain.Ingredient{
		Name:          parsed.Name,
		Quantity:      parsed.Quantity.Value(),
		Unit:          parsed.Unit,
		OriginalText:  line,
		WasNormalized: parsed.WasNormalized,
		Section:       section,
		Unmeasured:    parsed.Quantity.Unmeasured,
	}
	return e.Refresh(ing)
}

// Refresh recomputes the derived fields (grams, category, family) from
// quantity, unit and name. Estimates and fuzzy matches set WasNormalized.
func (e *Engine) Refresh(ing domain.Ingredient) domain.Ingredient {
	unit, renamed := NormalizeUnit(ing.Unit)
	ing.Unit = unit
	if ing.Quantity < 0 {
		ing.Quantity = 0
	}

	var conv Conversion
	if !ing.Unmeasured {
		conv = e.converter.Convert(ing.Name, ing.Quantity, ing.Unit)
	}
	ing.Grams = conv.Grams
	if conv.Estimated {
		e.logger.Debug("gram conversion estimated",
			zap.String("name", ing.Name),
			zap.String("unit", ing.Unit),
			zap.Float64("grams", conv.Grams),
		)
	}

	class := e.categorizer.Classify(ing.Name)
	ing.Category = class.Category
	ing.Family = class.Family
	if class.Fuzzy {
		e.logger.Debug("fuzzy category match",
			zap.String("name", ing.Name),
			zap.String("category", string(class.Category)),
		)
	}

	ing.WasNormalized = ing.WasNormalized || renamed || conv.Estimated || class.Fuzzy
	return ing
}

// ApplyEdit replaces quantity, unit and name in full and recomputes the rest.
// The original text and section are kept.
func (e *Engine) ApplyEdit(ing domain.Ingredient, edit domain.IngredientEdit) domain.Ingredient {
	ing.Name = strings.Join(strings.Fields(edit.Name), " ")
	ing.Quantity = round2(edit.Quantity)
	ing.Unit = edit.Unit
	ing.WasNormalized = false
	ing.Unmeasured = false
	return e.Refresh(ing)
}

// Recalculate refreshes every ingredient and recomputes the ratio. The
// refreshed list is returned even when the ratio is unavailable.
func (e *Engine) Recalculate(ingredients []domain.Ingredient) ([]domain.Ingredient, *domain.RatioResult, error) {
	refreshed := make([]domain.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		refreshed[i] = e.Refresh(ing)
	}
	ratio, err := e.ratios.Compute(refreshed)
	return refreshed, ratio, err
}

// ComputeRatios returns a ratio snapshot for the current ingredient list.
// Derived fields are recomputed first so stale grams never leak in.
func (e *Engine) ComputeRatios(ingredients []domain.Ingredient) (*domain.RatioResult, error) {
	_, ratio, err := e.Recalculate(ingredients)
	return ratio, err
}

func hasMass(ingredients []domain.Ingredient) bool {
	for _, ing := range ingredients {
		if ing.Grams > 0 {
			return true
		}
	}
	return false
}

// splitSections cuts lines at the given start indexes. Out of range and
// repeated indexes are ignored.
func splitSections(lines []string, starts []int) []domain.IngredientSection {
	cuts := make([]int, 0, len(starts)+1)
	cuts = append(cuts, 0)
	sorted := append([]int(nil), starts...)
	sort.Ints(sorted)
	for _, s := range sorted {
		if s > cuts[len(cuts)-1] && s < len(lines) {
			cuts = append(cuts, s)
		}
	}

	sections := make([]domain.IngredientSection, 0, len(cuts))
	for i, start := range cuts {
		end := len(lines)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		sections = append(sections, domain.IngredientSection{Lines: lines[start:end]})
	}
	return sections
}

// expandHeaders splits sections further at "For the topping:" style lines
func expandHeaders(sections []domain.IngredientSection) []domain.IngredientSection {
	var out []domain.IngredientSection
	for _, section := range sections {
		current := domain.IngredientSection{Title: section.Title}
		for _, line := range section.Lines {
			if title, ok := sectionHeader(line); ok {
				if len(current.Lines) > 0 || current.Title != "" {
					out = append(out, current)
				}
				current = domain.IngredientSection{Title: title}
				continue
			}
			current.Lines = append(current.Lines, line)
		}
		if len(current.Lines) > 0 {
			out = append(out, current)
		}
	}
	return out
}

// sectionHeader reports whether line is a header and returns its title
func sectionHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	title := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
	if title == "" || strings.IndexFunc(title, unicode.IsDigit) >= 0 || !hasLetter(title) {
		return "", false
	}
	return title, true
}
