package reading

// Tier selects the output contract of a palm reading
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ParseTier maps a request mode to a Tier, defaulting to free
func ParseTier(mode string) Tier {
	if mode == string(TierPremium) {
		return TierPremium
	}
	return TierFree
}

// IsPremium reports whether the tier unlocks the full reading
func (t Tier) IsPremium() bool {
	return t == TierPremium
}
