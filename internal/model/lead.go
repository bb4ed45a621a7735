package model

import "time"

// SourceType tags where a lead record was harvested from. It drives trust
// weighting in the role classifier and K1 evidence classification.
type SourceType string

const (
	SourceKnownManufacturer SourceType = "known_manufacturer"
	SourceGOTS              SourceType = "gots"
	SourceOekoTex           SourceType = "oekotex"
	SourceFairExhibitor     SourceType = "fair_exhibitor"
	SourceBraveSearch       SourceType = "brave_search"
	SourceWebScrape         SourceType = "web_scrape"
)

// Role is the business role a lead plays relative to us.
type Role string

const (
	RoleCustomer     Role = "CUSTOMER"
	RoleIntermediary Role = "INTERMEDIARY"
	RoleUnknown      Role = "UNKNOWN"
)

// EntityType is the complementary entity classification used for the
// process/skip decision and priority ordering.
type EntityType string

const (
	EntityEndUser      EntityType = "END_USER"
	EntityIntermediary EntityType = "INTERMEDIARY"
	EntityBrand        EntityType = "BRAND"
	EntityAssociation  EntityType = "ASSOCIATION"
	EntityUnknown      EntityType = "UNKNOWN"
)

// Confidence buckets used by the SCE scorer and website resolution.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Validation status values for the deep validator state machine. Website
// failures carry a reason suffix, e.g. "website_inaccessible:connection_refused".
const (
	StatusPending             = "pending"
	StatusValidated           = "validated"
	StatusNoWebsite           = "no_website"
	StatusWebsiteInaccessible = "website_inaccessible"
	StatusHardTimeout         = "hard_timeout"
)

// EvidenceDetail is one audit-trail entry: a matched term with the ~300 char
// context window it was found in and the URL it came from.
type EvidenceDetail struct {
	Type    string `json:"type"` // "oem_brand" or "finishing_keyword"
	Term    string `json:"term"`
	Context string `json:"context"`
	URL     string `json:"url,omitempty"`
}

// SCEScore is the output of the Stenter Customer Evidence scorer.
type SCEScore struct {
	E1         float64    `json:"e1"`
	E2         float64    `json:"e2"`
	E3         float64    `json:"e3"`
	Total      float64    `json:"total"`
	SalesReady bool       `json:"sales_ready"`
	Confidence Confidence `json:"confidence"`
	Negative   bool       `json:"negative_signal"`
}

// Lead is the unit of work. It is created by a harvesting collaborator with
// at minimum a company name, flows once through each classifier (classifiers
// add fields but never remove prior evidence), and is terminal once exported.
type Lead struct {
	Company    string     `json:"company"`
	Country    string     `json:"country,omitempty"`
	Website    string     `json:"website,omitempty"`
	Context    string     `json:"context,omitempty"`
	SourceType SourceType `json:"source_type,omitempty"`

	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`

	// Role classifier output.
	Role            Role     `json:"role,omitempty"`
	RoleConfidence  float64  `json:"role_confidence,omitempty"`
	PositiveSignals []string `json:"positive_signals,omitempty"`
	NegativeSignals []string `json:"negative_signals,omitempty"`

	// Entity validator output.
	EntityType    EntityType `json:"entity_type,omitempty"`
	PriorityScore int        `json:"priority_score,omitempty"`

	// Evidence extraction output.
	FinishingSignals []string         `json:"finishing_signals,omitempty"`
	OEMSignals       []string         `json:"oem_signals,omitempty"`
	EvidenceDetails  []EvidenceDetail `json:"evidence_details,omitempty"`

	// Website resolution bookkeeping. Once Website is populated it is never
	// a blocklisted directory domain; the original value is preserved here.
	DirectoryURLDetected bool   `json:"directory_url_detected,omitempty"`
	OriginalDirectoryURL string `json:"original_directory_url,omitempty"`
	WebsiteSource        string `json:"website_source,omitempty"`
	WebsiteConfidence    Confidence `json:"website_confidence,omitempty"`

	SCE SCEScore `json:"sce"`

	// Deep validator output.
	Tier              int    `json:"tier,omitempty"`
	ValidationStatus  string `json:"validation_status,omitempty"`
	FailReason        string `json:"fail_reason,omitempty"`
	WebsiteAccessible bool   `json:"website_accessible,omitempty"`

	// Dual-evidence classification.
	K1Count  int  `json:"k1_count,omitempty"`
	K2Count  int  `json:"k2_count,omitempty"`
	IsGolden bool `json:"is_golden,omitempty"`

	// Rejection bookkeeping. Rejected records are kept, not discarded.
	RejectionReason  string   `json:"rejection_reason,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// RunStatus represents the state of a batch run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records a single batch execution for checkpointing and audit.
type Run struct {
	ID        string    `json:"id"`
	Status    RunStatus `json:"status"`
	Leads     int       `json:"leads"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
