package models

// Option keys in the preference store
const (
	OptionSiteCustomerMap  = "site_customer_map"
	OptionIgnoredSites     = "ignore_sites"
	OptionIgnoredCustomers = "ignore_clients"
	OptionUnlinkedSites    = "unlinked_sites"
	OptionSiteNotes        = "site_notes"
	OptionCustomerNotes    = "client_notes"
	OptionStripeSecretKey  = "stripe_secret_key"
)

// Preferences is the user-maintained overlay state
type Preferences struct {
	ManualMapping    map[string]string `json:"manual_mapping"`
	IgnoredSites     map[string]bool   `json:"ignored_sites"`
	IgnoredCustomers map[string]bool   `json:"ignored_customers"`
	UnlinkedSites    map[string]bool   `json:"unlinked_sites"`
	SiteNotes        map[string]string `json:"site_notes"`
	CustomerNotes    map[string]string `json:"customer_notes"`
}

// NewPreferences returns preferences with every map allocated
func NewPreferences() *Preferences {
	return &Preferences{
		ManualMapping:    map[string]string{},
		IgnoredSites:     map[string]bool{},
		IgnoredCustomers: map[string]bool{},
		UnlinkedSites:    map[string]bool{},
		SiteNotes:        map[string]string{},
		CustomerNotes:    map[string]string{},
	}
}

// Preference actions
const (
	ActionUnlink         = "unlink"
	ActionAllowAutomatch = "allow_automatch"
	ActionIgnoreClient   = "ignore_client"
	ActionUnignoreClient = "unignore_client"
	ActionIgnoreSite     = "ignore_site"
	ActionUnignoreSite   = "unignore_site"
	ActionSaveMapping    = "save_mapping"
)

// ActionRequest is a single user action against the preference overlay
type ActionRequest struct {
	Action     string `json:"action"`
	SiteURL    string `json:"site_url"`
	CustomerID string `json:"customer_id"`
	Note       string `json:"note"`
}

// SaveSecretRequest stores the Stripe secret key
type SaveSecretRequest struct {
	SecretKey string `json:"secret_key"`
}
