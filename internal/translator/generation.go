package translator

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"openai2gemini-go/internal/constants"
	"openai2gemini-go/internal/upstream/gemini"
)

// BuildGenerationConfig maps the inbound tuning knobs onto the upstream
// generation config. When nothing is set the config stays nil so the
// upstream applies its own defaults.
func BuildGenerationConfig(req *ChatRequest) *gemini.GenerationConfig {
	cfg := &gemini.GenerationConfig{}
	set := false

	if req.Temperature != nil {
		cfg.Temperature = req.Temperature
		set = true
	}

	if req.ReasoningEffort != "" {
		if budget, ok := constants.ThinkingBudgets[req.ReasoningEffort]; ok {
			b := budget
			cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &b}
			set = true
		} else {
			log.WithField("reasoning_effort", req.ReasoningEffort).
				Warn("unrecognized reasoning_effort; thinking left unconfigured")
		}
	}

	if modalities := filterModalities(req.Modalities); len(modalities) > 0 {
		cfg.ResponseModalities = modalities
		set = true
	}

	if !set {
		return nil
	}
	return cfg
}

// filterModalities uppercases the requested modalities and keeps only the
// recognized ones, preserving request order.
func filterModalities(requested []string) []string {
	var out []string
	for _, m := range requested {
		upper := strings.ToUpper(m)
		if constants.RecognizedModalities[upper] {
			out = append(out, upper)
			continue
		}
		log.WithField("modality", m).Warn("unrecognized modality discarded")
	}
	return out
}
