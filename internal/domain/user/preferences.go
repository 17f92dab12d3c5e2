package user

// RoundupFrequency controls how often a sales-roundup subscriber hears
// from us.
type RoundupFrequency string

const (
	FrequencyWeekly   RoundupFrequency = "weekly"
	FrequencyBiWeekly RoundupFrequency = "bi-weekly"
	FrequencyMonthly  RoundupFrequency = "monthly"
)

func (f RoundupFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// ProductType identifies an e-mobility category a subscriber can follow.
type ProductType string

const (
	ProductEScooter   ProductType = "escooter"
	ProductEBike      ProductType = "ebike"
	ProductESkate     ProductType = "eskate"
	ProductEUC        ProductType = "euc"
	ProductHoverboard ProductType = "hoverboard"
)

// AllProductTypes is the default roundup subscription set applied when a
// user has never chosen.
func AllProductTypes() []ProductType {
	return []ProductType{ProductEScooter, ProductEBike, ProductESkate, ProductEUC, ProductHoverboard}
}

func (p ProductType) Valid() bool {
	switch p {
	case ProductEScooter, ProductEBike, ProductESkate, ProductEUC, ProductHoverboard:
		return true
	}
	return false
}

// Preferences holds per-user notification settings. Defaults are applied
// lazily on first read; any write re-marks PreferencesSet.
type Preferences struct {
	UserID           uint
	TrackerEmails    bool
	SalesRoundup     bool
	RoundupFrequency RoundupFrequency
	RoundupTypes     []ProductType
	Newsletter       bool
	PreferencesSet   bool
}

// DefaultPreferences returns the lazily applied defaults: tracker emails
// on, roundup off but pre-filled with every product type at weekly cadence.
func DefaultPreferences(userID uint) *Preferences {
	return &Preferences{
		UserID:           userID,
		TrackerEmails:    true,
		SalesRoundup:     false,
		RoundupFrequency: FrequencyWeekly,
		RoundupTypes:     AllProductTypes(),
		Newsletter:       false,
		PreferencesSet:   false,
	}
}

// PreferencesUpdate carries a batch preference write. Nil fields are left
// untouched; any call marks preferences as explicitly set.
type PreferencesUpdate struct {
	TrackerEmails    *bool
	SalesRoundup     *bool
	RoundupFrequency *RoundupFrequency
	RoundupTypes     *[]ProductType
	Newsletter       *bool
}

// Apply merges the update into p, returning an error on invalid enums.
func (p *Preferences) Apply(update PreferencesUpdate) error {
	if update.TrackerEmails != nil {
		p.TrackerEmails = *update.TrackerEmails
	}
	if update.SalesRoundup != nil {
		p.SalesRoundup = *update.SalesRoundup
	}
	if update.RoundupFrequency != nil {
		if !update.RoundupFrequency.Valid() {
			return ErrInvalidFrequency
		}
		p.RoundupFrequency = *update.RoundupFrequency
	}
	if update.RoundupTypes != nil {
		types := *update.RoundupTypes
		for _, t := range types {
			if !t.Valid() {
				return ErrInvalidProductType
			}
		}
		p.RoundupTypes = types
	}
	if update.Newsletter != nil {
		p.Newsletter = *update.Newsletter
	}
	p.PreferencesSet = true
	return nil
}
