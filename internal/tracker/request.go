package tracker

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Tier selects the generation mode. It determines the remote model name and
// the default clip length.
type Tier string

const (
	// TierStandard generates with the base model.
	TierStandard Tier = "standard"
	// TierPro generates with the pro model and a longer default clip.
	TierPro Tier = "pro"
)

// Model returns the remote model identifier for the tier.
func (t Tier) Model() string {
	if t == TierPro {
		return "sora-2-pro"
	}
	return "sora-2"
}

// Title returns the human-readable name used in result messages.
func (t Tier) Title() string {
	if t == TierPro {
		return "Sora 2 Pro"
	}
	return "Sora 2"
}

// Defaults holds the tier-dependent request defaults, sourced from
// configuration.
type Defaults struct {
	Size            string
	StandardSeconds string
	ProSeconds      string
}

// GenerationRequest describes one video generation. Immutable once built;
// construct it with NewGenerationRequest so tier defaults are applied.
type GenerationRequest struct {
	Prompt  string `validate:"required,max=4000"`
	Tier    Tier   `validate:"required,oneof=standard pro"`
	Size    string `validate:"required,oneof=1280x720 720x1280 1024x1792 1792x1024"`
	Seconds string `validate:"required,oneof=4 8 12"`
}

// NewGenerationRequest builds a request from user input, filling missing
// size and seconds from the tier-dependent defaults.
func NewGenerationRequest(prompt string, tier Tier, size, seconds string, d Defaults) GenerationRequest {
	if size == "" {
		size = d.Size
	}
	if seconds == "" {
		if tier == TierPro {
			seconds = d.ProSeconds
		} else {
			seconds = d.StandardSeconds
		}
	}
	return GenerationRequest{
		Prompt:  prompt,
		Tier:    tier,
		Size:    size,
		Seconds: seconds,
	}
}

var validate = validator.New()

// Validate checks the request against the supported Sora parameter values.
func (r GenerationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("tracker: invalid request: %w", err)
	}
	return nil
}
