package domain

const (
	DefaultBackendURL                 = "http://localhost:5000"
	DefaultAPIListenAddress           = "127.0.0.1:5000"
	DefaultUIListenAddress            = "127.0.0.1:3000"
	DefaultObservabilityListenAddress = "0.0.0.0:9090"
	DefaultDataPath                   = "agencies.db"
	DefaultRequestTimeoutSeconds      = 0
	DefaultSessionIdleSeconds         = 30 * 60
	DefaultCatalogReloadDebounceMs    = 200
	DefaultLogLevel                   = "info"
)

const (
	ComponentsPath   = "/api/components"
	CreateAgencyPath = "/api/create_agency"
	AgenciesPath     = "/api/agencies"
)

// User-facing messages shown by the composer.
const (
	MessageFetchFailed    = "Error fetching components. Please try again later."
	MessageSubmitFailed   = "Error creating agency. Please try again."
	MessageAgencyCreated  = "Agency created successfully!"
	MessageBackendCreated = "Agency created successfully"
)

var (
	DefaultAgents = []CatalogItemName{"Agent1", "Agent2", "Agent3"}
	DefaultTools  = []CatalogItemName{"Tool1", "Tool2", "Tool3"}
)
