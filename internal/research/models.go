package research

// Status is the lifecycle state of a research session.
type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Phase is the sub-phase a processing session is in. The progress counters
// remain the compatibility surface for pollers; the phase is auxiliary
// metadata.
type Phase string

const (
	PhaseDerivingRequirements Phase = "deriving_requirements"
	PhaseSearching            Phase = "searching"
	PhaseAnalyzing            Phase = "analyzing"
	PhaseSynthesizing         Phase = "synthesizing"
)

// BusinessProfile is the user-supplied input for one research run.
type BusinessProfile struct {
	CompanyName        string `json:"companyName" binding:"required"`
	Industry           string `json:"industry" binding:"required"`
	Region             string `json:"region" binding:"required"`
	SupplyChainConcern string `json:"supplyChainConcern,omitempty"`
	GenerationAPIKey   string `json:"generationApiKey,omitempty"`
	SearchAPIKey       string `json:"searchApiKey,omitempty"`
}

// Session holds all state for one research run. Profile is stored with its
// API keys blanked so snapshots are safe to serialize.
type Session struct {
	ID                  int             `json:"id"`
	Status              Status          `json:"status"`
	Phase               Phase           `json:"phase,omitempty"`
	Profile             BusinessProfile `json:"profile,omitzero"`
	Requirements        string          `json:"requirements,omitempty"`
	ResearchQueries     []string        `json:"researchQueries,omitempty"`
	ResearchProgress    int             `json:"researchProgress"`
	AnalysisProgress    int             `json:"analysisProgress"`
	CompilationProgress int             `json:"compilationProgress"`
	Sources             []string        `json:"sources,omitempty"`
	Results             *Report         `json:"results,omitempty"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
}

// Report is the final risk-assessment payload.
type Report struct {
	OverallRiskScore       int              `json:"overallRiskScore"`
	RiskLevel              string           `json:"riskLevel"`
	TopRisks               []RiskFactor     `json:"topRisks"`
	KeyInsights            []Insight        `json:"keyInsights"`
	RiskCategories         []RiskCategory   `json:"riskCategories"`
	SupplyChainDisruptions DisruptionMetric `json:"supplyChainDisruptions"`
	CostIncrease           CostMetric       `json:"costIncrease"`
	SupplierRisk           SupplierMetric   `json:"supplierRisk"`
}

// Valid reports whether the report carries enough data to display. A
// completed session with an invalid report means "no significant data", not
// a failure.
func (r *Report) Valid() bool {
	return r != nil && len(r.TopRisks) > 0 && len(r.KeyInsights) > 0
}

// RiskFactor is one entry in the top-risks list.
type RiskFactor struct {
	Factor        string  `json:"factor"`
	Score         float64 `json:"score"`
	Source        string  `json:"source"`
	SourceURL     string  `json:"sourceUrl"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Category      string  `json:"category,omitempty"`
}

// Insight is one entry in the key-insights list.
type Insight struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Source        string `json:"source"`
	SourceURL     string `json:"sourceUrl"`
	PublishedDate string `json:"publishedDate,omitempty"`
	Category      string `json:"category,omitempty"`
}

// RiskCategory compares the business against its industry in one category.
type RiskCategory struct {
	Name            string  `json:"name"`
	BusinessScore   float64 `json:"businessScore"`
	IndustryAverage float64 `json:"industryAverage"`
}

// DisruptionMetric summarizes identified supply chain disruptions.
type DisruptionMetric struct {
	Count              int     `json:"count"`
	ChangeFromLastYear float64 `json:"changeFromLastYear"`
	Insight            string  `json:"insight"`
	Source             string  `json:"source"`
	SourceURL          string  `json:"sourceUrl"`
}

// CostMetric summarizes cost increases over a period.
type CostMetric struct {
	Percentage float64 `json:"percentage"`
	Period     string  `json:"period"`
	Insight    string  `json:"insight"`
	Source     string  `json:"source"`
	SourceURL  string  `json:"sourceUrl"`
}

// SupplierMetric summarizes supplier reliability risk.
type SupplierMetric struct {
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	Insight    string  `json:"insight"`
	Source     string  `json:"source"`
	SourceURL  string  `json:"sourceUrl"`
}

// RiskLevelForScore maps a 1-100 overall score onto a risk level per the
// fixed 40/60/80 thresholds.
func RiskLevelForScore(score int) string {
	switch {
	case score < 40:
		return "Low"
	case score < 60:
		return "Medium"
	case score < 80:
		return "High"
	default:
		return "Critical"
	}
}
