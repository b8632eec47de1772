package cache

// Keyer derives cache keys.
type Keyer interface {
	// PlanKey keys a placement plan by image hash and hints.
	PlanKey(imageHash string, opts PlanKeyOpts) string
	// ImageKey keys downloaded image bytes by URL.
	ImageKey(url string) string
}

// PlanKeyOpts are the inputs besides the image that change a plan.
type PlanKeyOpts struct {
	Format       string `json:"format"`
	Objective    string `json:"objective"`
	Align        string `json:"align"`
	HeadlineBand string `json:"headline_band"`
	AvoidCenter  bool   `json:"avoid_center"`
	Accent       string `json:"accent"`
	// Tuning fingerprints the heuristic constants so retuning invalidates
	// old plans.
	Tuning string `json:"tuning"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(imageHash string, opts PlanKeyOpts) string {
	return hashKey(KindPlan, imageHash, opts)
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(url string) string {
	return hashKey(KindImage, url)
}
