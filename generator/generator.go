package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"

	"github.com/tipote/autocomment/platforms"
)

// Angle is the rhetorical strategy used for one generated comment. Cycling
// through the five angles keeps a batch from sounding repetitive.
type Angle string

const (
	AngleQuestion   Angle = "question"
	AngleAgree      Angle = "agree"
	AngleCongrats   Angle = "congrats"
	AngleDeeper     Angle = "deeper"
	AngleExperience Angle = "experience"
)

// Angles in round-robin order.
var Angles = []Angle{AngleQuestion, AngleAgree, AngleCongrats, AngleDeeper, AngleExperience}

// AngleForIndex cycles the angle list by batch iteration index.
func AngleForIndex(i int) Angle {
	return Angles[i%len(Angles)]
}

var angleInstructions = map[Angle]string{
	AngleQuestion:   "Pose une question pertinente et précise qui relance la discussion.",
	AngleAgree:      "Appuie le point de vue de l'auteur avec un argument complémentaire.",
	AngleCongrats:   "Félicite l'auteur pour un élément concret du post, sans flagornerie.",
	AngleDeeper:     "Creuse un aspect du post en apportant une nuance ou un angle oublié.",
	AngleExperience: "Partage une courte expérience personnelle qui fait écho au post.",
}

// characterLimits is the per-platform hard cap applied to the final comment.
var characterLimits = map[platforms.Platform]int{
	platforms.LinkedIn: 250,
	platforms.Twitter:  240,
	platforms.Threads:  400,
	platforms.Facebook: 300,
	platforms.Reddit:   500,
}

const (
	defaultCharacterLimit = 280
	targetTextLimit       = 1500
	maxTokens             = 300
	temperature           = 0.85
)

// CharacterLimit returns the comment cap for a platform.
func CharacterLimit(p platforms.Platform) int {
	if limit, ok := characterLimits[p]; ok {
		return limit
	}
	return defaultCharacterLimit
}

// hesitationPatterns is a denylist of hedging/meta phrases. A model output
// matching any of them is rejected wholesale: posting "je ne sais pas si ce
// post est lié à ma niche" under a real post would be worse than skipping.
var hesitationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)j['’]?ai du mal à`),
	regexp.MustCompile(`(?i)je ne sais pas si`),
	regexp.MustCompile(`(?i)(aucun|pas de) point de connexion`),
	regexp.MustCompile(`(?i)hors[- ]sujet`),
	regexp.MustCompile(`(?i)(hors|en dehors) de (ma|la) (niche|thématique)`),
	regexp.MustCompile(`(?i)difficile de`),
	regexp.MustCompile(`(?i)(pas|peu) pertinent`),
	regexp.MustCompile(`(?i)n['’]?est pas (lié|liée|en lien|relié|reliée)`),
}

// Request carries everything the generator needs for one comment.
type Request struct {
	TargetPostText string
	Angle          Angle
	StyleTone      string
	Niche          string
	BrandTone      string
	Platform       platforms.Platform
	Language       string
}

type promptFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

// Generator produces vetted, length-bounded comments through the Anthropic
// messages API.
type Generator struct {
	apiKey string
	model  string
	prompt promptFunc
}

// New builds a Generator. The API key is mandatory; the model string comes
// from config (env-overridable).
func New(apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Claude API key")
	}
	g := &Generator{apiKey: apiKey, model: model}
	g.prompt = g.callAnthropic
	return g, nil
}

func (g *Generator) callAnthropic(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	settings := types.RequestSettings{
		Model:       g.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, "", g.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in anthropic response")
	}
	return response.Content[0].Text, nil
}

// Generate returns a comment for the target post, or "" when the safety gate
// rejected the model output. The empty string means "skip this candidate";
// it is not an error. Network failures from the provider propagate.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	limit := CharacterLimit(req.Platform)

	targetText := req.TargetPostText
	if len(targetText) > targetTextLimit {
		targetText = targetText[:targetTextLimit]
	}

	raw, err := g.prompt(ctx, g.systemPrompt(req, limit), g.userPrompt(req, targetText))
	if err != nil {
		return "", err
	}

	comment := strings.TrimSpace(raw)
	comment = strings.Trim(comment, `"'«»“”`)
	comment = strings.TrimSpace(comment)

	for _, pattern := range hesitationPatterns {
		if pattern.MatchString(comment) {
			return "", nil
		}
	}

	if len([]rune(comment)) > limit {
		comment = string([]rune(comment)[:limit])
	}
	return comment, nil
}

func (g *Generator) systemPrompt(req Request, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tu rédiges des commentaires authentiques sur %s pour un entrepreneur dans la niche « %s ».\n", req.Platform, req.Niche)
	if req.BrandTone != "" {
		fmt.Fprintf(&b, "Ton de marque : %s.\n", req.BrandTone)
	}
	if req.StyleTone != "" {
		fmt.Fprintf(&b, "Style : %s.\n", req.StyleTone)
	}
	fmt.Fprintf(&b, "Limite stricte : %d caractères.\n", limit)
	b.WriteString(`Règles impératives :
- Écris TOUJOURS en français, quelle que soit la langue du post cible.
- Jamais de lien, de promotion, ni de hashtag.
- Jamais de platitude générique ("super post !", "très intéressant").
- Réponds UNIQUEMENT par le texte du commentaire, sans guillemets.
- N'exprime JAMAIS d'hésitation ni de méta-commentaire : pas de "je ne sais pas si",
  pas de "hors sujet", pas de "pas de point de connexion". Si le post te semble
  éloigné de la niche, trouve quand même un angle concret et commente-le.`)
	return b.String()
}

func (g *Generator) userPrompt(req Request, targetText string) string {
	instruction := angleInstructions[req.Angle]
	if instruction == "" {
		instruction = angleInstructions[AngleQuestion]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Post cible :\n%s\n\n", targetText)
	if req.Language != "" {
		fmt.Fprintf(&b, "Langue détectée du post : %s.\n", req.Language)
	}
	fmt.Fprintf(&b, "Consigne : %s\n", instruction)
	return b.String()
}
