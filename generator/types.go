package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Tone 用户在表单中选择的品牌语气。
type Tone string

const (
	TonePlayful      Tone = "Playful"
	ToneLuxury       Tone = "Luxury"
	ToneProfessional Tone = "Professional"
	ToneEdgy         Tone = "Edgy"
	ToneFriendly     Tone = "Friendly"
	ToneMinimalist   Tone = "Minimalist"
)

// Tones lists the selectable tones in display order.
var Tones = []Tone{TonePlayful, ToneLuxury, ToneProfessional, ToneEdgy, ToneFriendly, ToneMinimalist}

// Channel 投放渠道。
type Channel string

const (
	ChannelFacebook      Channel = "Facebook"
	ChannelInstagram     Channel = "Instagram"
	ChannelTikTok        Channel = "TikTok"
	ChannelGoogleSearch  Channel = "Google Search"
	ChannelLinkedIn      Channel = "LinkedIn"
	ChannelDisplayBanner Channel = "Display Banner"
)

// Channels lists the selectable channels in display order.
var Channels = []Channel{ChannelFacebook, ChannelInstagram, ChannelTikTok, ChannelGoogleSearch, ChannelLinkedIn, ChannelDisplayBanner}

// DefaultVariationCount is used when the caller does not ask for a specific number.
const DefaultVariationCount = 3

var (
	ErrMissingProductName    = errors.New("product name is required")
	ErrUnknownTone           = errors.New("unknown brand tone")
	ErrUnknownChannel        = errors.New("unknown channel")
	ErrInvalidVariationCount = errors.New("variation count must be at least 1")
)

// ParseTone matches case-insensitively against Tones.
func ParseTone(s string) (Tone, error) {
	s = strings.TrimSpace(s)
	for _, t := range Tones {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, s)
}

// ParseChannel matches case-insensitively against Channels.
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(s)
	for _, c := range Channels {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// BrandPreset 一组风格说明，可选地覆盖用户选择的语气。
type BrandPreset struct {
	Name              string `yaml:"name" json:"name"`
	Description       string `yaml:"description" json:"description"`
	VoiceInstructions string `yaml:"voice" json:"voice"`
	ToneOverride      string `yaml:"tone_override,omitempty" json:"tone_override,omitempty"`
}

// CreativeRequest is the validated form input. Build it with NewCreativeRequest
// and pass it by value.
type CreativeRequest struct {
	ProductName    string
	BrandTone      Tone
	Channel        Channel
	ExtraContext   string
	Preset         BrandPreset
	VariationCount int
}

// NewCreativeRequest 校验输入并补全默认值。
func NewCreativeRequest(productName string, tone Tone, channel Channel, extraContext string, preset BrandPreset, variations int) (CreativeRequest, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return CreativeRequest{}, ErrMissingProductName
	}
	tone, err := ParseTone(string(tone))
	if err != nil {
		return CreativeRequest{}, err
	}
	channel, err = ParseChannel(string(channel))
	if err != nil {
		return CreativeRequest{}, err
	}
	if variations < 0 {
		return CreativeRequest{}, fmt.Errorf("%w: got %d", ErrInvalidVariationCount, variations)
	}
	if variations == 0 {
		variations = DefaultVariationCount
	}
	return CreativeRequest{
		ProductName:    productName,
		BrandTone:      tone,
		Channel:        channel,
		ExtraContext:   strings.TrimSpace(extraContext),
		Preset:         preset,
		VariationCount: variations,
	}, nil
}

// EffectiveTone resolves the single tone used in the prompt.
func (r CreativeRequest) EffectiveTone() string {
	if o := strings.TrimSpace(r.Preset.ToneOverride); o != "" {
		return o
	}
	return string(r.BrandTone)
}

// Mode 选择提示词模板与解析方式的组合。
type Mode int

const (
	ModeStructured Mode = iota
	ModeFreeform
)

func (m Mode) String() string {
	if m == ModeFreeform {
		return "freeform"
	}
	return "structured"
}

// ParseMode accepts "structured" or "freeform"; empty means structured.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "structured", "json":
		return ModeStructured, nil
	case "freeform", "markdown", "text":
		return ModeFreeform, nil
	default:
		return ModeStructured, fmt.Errorf("unknown mode %q", s)
	}
}

// Score is one 0..10 subscore. Known is false when the model sent nothing usable.
type Score struct {
	Value int
	Known bool
}

// UnknownMarker is shown for scores the model did not provide as a number.
const UnknownMarker = "—"

func (s Score) String() string {
	if !s.Known {
		return UnknownMarker
	}
	return fmt.Sprintf("%d/10", s.Value)
}

// Percent is the progress bar fill; unknown scores draw an empty bar.
func (s Score) Percent() int {
	if !s.Known {
		return 0
	}
	return s.Value * 10
}

// ScoreSet 五项评分。
type ScoreSet struct {
	Clarity        Score
	BrandFit       Score
	ChannelFit     Score
	ScrollStopping Score
	Overall        Score
}

// ScoreField pairs a wire key with its display label.
type ScoreField struct {
	Key   string
	Label string
}

// ScoreFields is the fixed order used in prompts and rendering.
var ScoreFields = []ScoreField{
	{Key: "clarity", Label: "Clarity"},
	{Key: "brand_fit", Label: "Brand fit"},
	{Key: "channel_fit", Label: "Channel fit"},
	{Key: "scroll_stopping", Label: "Scroll-stopping"},
	{Key: "overall", Label: "Overall"},
}

// Get returns the score stored under a wire key.
func (s ScoreSet) Get(key string) Score {
	switch key {
	case "clarity":
		return s.Clarity
	case "brand_fit":
		return s.BrandFit
	case "channel_fit":
		return s.ChannelFit
	case "scroll_stopping":
		return s.ScrollStopping
	case "overall":
		return s.Overall
	}
	return Score{}
}

func (s *ScoreSet) set(key string, v Score) {
	switch key {
	case "clarity":
		s.Clarity = v
	case "brand_fit":
		s.BrandFit = v
	case "channel_fit":
		s.ChannelFit = v
	case "scroll_stopping":
		s.ScrollStopping = v
	case "overall":
		s.Overall = v
	}
}

// Variation 一条候选创意。
type Variation struct {
	ID           string
	Headline     string
	PrimaryText  string
	ImageConcept string
	ImagePrompt  string
	Scores       ScoreSet
}

// Result is what the interpreter hands to the rendering layer.
//
// Freeform results carry Text. Structured results carry Variations when Err is
// nil; otherwise Err says which step failed. Raw always holds the model output
// exactly as received.
type Result struct {
	Mode       Mode
	Text       string
	Variations []Variation
	Raw        string
	Err        *ParseError
}

// OK reports whether the result can be rendered as text or cards.
func (r Result) OK() bool { return r.Err == nil }

// Empty is the structured "no variations came back" state.
func (r Result) Empty() bool {
	return r.Mode == ModeStructured && r.Err == nil && len(r.Variations) == 0
}
