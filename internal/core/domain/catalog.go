package domain

// CollectorFamily distinguishes the two collector populations the
// orchestrator manages.
type CollectorFamily string

const (
	// FamilyAll selects every collector regardless of family.
	FamilyAll CollectorFamily = ""

	// FamilyStatePages selects the per-region business-registry collectors.
	FamilyStatePages CollectorFamily = "statepages"

	// FamilyEntryPoints selects the non-regional entry-point collectors.
	FamilyEntryPoints CollectorFamily = "entrypoints"
)

// Region describes one state business registry the statepages family scrapes.
type Region struct {
	// Code is the two-letter region code, used as the collector identity.
	Code string

	// Name is the human-readable region name.
	Name string

	// PortalURL is the registry search portal base URL.
	PortalURL string

	// RequestsPerMinute is the pacing this portal tolerates.
	RequestsPerMinute float64
}

// Regions returns the static region catalog in a stable order.
// The slice is freshly allocated on every call so callers can reorder it.
func Regions() []Region {
	return []Region{
		{Code: "CA", Name: "California", PortalURL: "https://bizfileonline.sos.ca.gov/search", RequestsPerMinute: 30},
		{Code: "TX", Name: "Texas", PortalURL: "https://mycpa.cpa.state.tx.us/coa", RequestsPerMinute: 30},
		{Code: "NY", Name: "New York", PortalURL: "https://apps.dos.ny.gov/publicInquiry", RequestsPerMinute: 20},
		{Code: "FL", Name: "Florida", PortalURL: "https://search.sunbiz.org/Inquiry/CorporationSearch", RequestsPerMinute: 40},
		{Code: "IL", Name: "Illinois", PortalURL: "https://apps.ilsos.gov/corporatellc", RequestsPerMinute: 20},
		{Code: "PA", Name: "Pennsylvania", PortalURL: "https://file.dos.pa.gov/search/business", RequestsPerMinute: 20},
		{Code: "OH", Name: "Ohio", PortalURL: "https://businesssearch.ohiosos.gov", RequestsPerMinute: 30},
		{Code: "GA", Name: "Georgia", PortalURL: "https://ecorp.sos.ga.gov/BusinessSearch", RequestsPerMinute: 30},
		{Code: "NC", Name: "North Carolina", PortalURL: "https://www.sosnc.gov/online_services/search", RequestsPerMinute: 20},
		{Code: "WA", Name: "Washington", PortalURL: "https://ccfs.sos.wa.gov/#/BusinessSearch", RequestsPerMinute: 20},
		{Code: "CO", Name: "Colorado", PortalURL: "https://www.sos.state.co.us/biz/BusinessEntityCriteriaExt.do", RequestsPerMinute: 30},
		{Code: "AZ", Name: "Arizona", PortalURL: "https://ecorp.azcc.gov/EntitySearch", RequestsPerMinute: 20},
	}
}

// EntryPointKind is how a non-regional source is reached.
type EntryPointKind string

const (
	// EntryPointAPI is a JSON API source.
	EntryPointAPI EntryPointKind = "api"

	// EntryPointPortal is a web portal source.
	EntryPointPortal EntryPointKind = "portal"

	// EntryPointDatabase is a direct database source.
	EntryPointDatabase EntryPointKind = "database"

	// EntryPointWebhook is a push-delivered source drained from a spool.
	EntryPointWebhook EntryPointKind = "webhook"

	// EntryPointFileFeed is a directory of dropped lead feed files.
	EntryPointFileFeed EntryPointKind = "filefeed"
)

// EntryPoint describes one non-regional source the entrypoints family reads.
type EntryPoint struct {
	// ID is the opaque entry-point identity.
	ID string

	// Name is the human-readable entry-point name.
	Name string

	// Kind is how the source is reached.
	Kind EntryPointKind

	// Endpoint is the URL, DSN, or directory path for the source.
	Endpoint string

	// RequestsPerMinute is the pacing the source tolerates.
	RequestsPerMinute float64
}

// EntryPoints returns the static entry-point catalog in a stable order.
// The slice is freshly allocated on every call so callers can reorder it.
func EntryPoints() []EntryPoint {
	return []EntryPoint{
		{ID: "chamber-directory-api", Name: "Chamber of Commerce Directory", Kind: EntryPointAPI, Endpoint: "https://api.chamber-directory.example.com/v2", RequestsPerMinute: 60},
		{ID: "trade-show-portal", Name: "Trade Show Exhibitor Portal", Kind: EntryPointPortal, Endpoint: "https://exhibitors.tradefair.example.com", RequestsPerMinute: 20},
		{ID: "partner-warehouse", Name: "Partner Lead Warehouse", Kind: EntryPointDatabase, Endpoint: "warehouse.internal:5432/leads", RequestsPerMinute: 120},
		{ID: "webform-spool", Name: "Web Form Submission Spool", Kind: EntryPointWebhook, Endpoint: "spool/webforms", RequestsPerMinute: 240},
		{ID: "broker-filefeed", Name: "List Broker File Feed", Kind: EntryPointFileFeed, Endpoint: "feeds/broker", RequestsPerMinute: 240},
	}
}
