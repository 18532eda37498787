package usage

import (
	"slices"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

const (
	// AnonymousDailyLimit is the per-client allowance for unauthenticated callers
	AnonymousDailyLimit = 3

	MinChannelVideos     = 1
	MaxChannelVideos     = 500
	DefaultChannelVideos = 10
)

// TierLimits is the static policy of one subscription tier. DailyLimit < 0 means unbounded.
type TierLimits struct {
	Tier              models.SubscriptionTier `json:"tier"`
	DailyLimit        int                     `json:"videosPerDay"`
	ChannelExtraction bool                    `json:"channelExtraction"`
	MaxChannelVideos  int                     `json:"maxChannelVideos"`
	Formats           []transcript.Format     `json:"formats"`
}

// Unlimited reports whether the tier has no daily cap
func (l TierLimits) Unlimited() bool {
	return l.DailyLimit < 0
}

// AllowsFormat reports whether exports in f are part of the tier
func (l TierLimits) AllowsFormat(f transcript.Format) bool {
	return slices.Contains(l.Formats, f)
}

var allFormats = []transcript.Format{transcript.FormatText, transcript.FormatSRT, transcript.FormatJSON}

// Tiers is the tier table
var Tiers = map[models.SubscriptionTier]TierLimits{
	models.TierFree: {
		Tier:              models.TierFree,
		DailyLimit:        3,
		ChannelExtraction: false,
		MaxChannelVideos:  0,
		Formats:           []transcript.Format{transcript.FormatText},
	},
	models.TierPro: {
		Tier:              models.TierPro,
		DailyLimit:        50,
		ChannelExtraction: true,
		MaxChannelVideos:  25,
		Formats:           allFormats,
	},
	models.TierBusiness: {
		Tier:              models.TierBusiness,
		DailyLimit:        -1,
		ChannelExtraction: true,
		MaxChannelVideos:  500,
		Formats:           allFormats,
	},
}

// LimitsFor returns the policy for tier, falling back to free for unknown names
func LimitsFor(tier models.SubscriptionTier) TierLimits {
	if l, ok := Tiers[tier]; ok {
		return l
	}
	return Tiers[models.TierFree]
}

// ChannelLimits bounds the number of videos a channel job may process
type ChannelLimits struct {
	Default int
	Max     int
}

// DefaultChannelLimits uses the package constants
var DefaultChannelLimits = ChannelLimits{Default: DefaultChannelVideos, Max: MaxChannelVideos}

// Effective clamps requested into [MinChannelVideos, min(Max, tier max)].
// requested <= 0 selects the default before clamping.
func (c ChannelLimits) Effective(requested int, tier TierLimits) int {
	if requested <= 0 {
		requested = c.Default
	}
	upper := min(c.Max, tier.MaxChannelVideos)
	if upper < MinChannelVideos {
		upper = MinChannelVideos
	}
	return max(MinChannelVideos, min(requested, upper))
}

// EffectiveChannelLimit applies DefaultChannelLimits
func EffectiveChannelLimit(requested int, tier TierLimits) int {
	return DefaultChannelLimits.Effective(requested, tier)
}
