package research

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arcscan/arcscan-api/internal/search"
)

// buildRequirementsPrompt produces the phase-1 prompt asking for a
// requirements statement and 7-10 search queries.
func buildRequirementsPrompt(profile BusinessProfile, categories []Category, now time.Time) string {
	year := now.Year()
	month := now.Month().String()
	info, _ := json.MarshalIndent(promptProfile{
		CompanyName:        profile.CompanyName,
		Industry:           profile.Industry,
		Region:             profile.Region,
		SupplyChainConcern: profile.SupplyChainConcern,
	}, "", "  ")

	return fmt.Sprintf(requirementsPromptTemplate,
		month, year, year, categoryFocusList(categories), string(info), year, year, year)
}

// buildAnalysisPrompt produces the phase-4 prompt demanding a factual,
// source-attributed risk assessment over the gathered results.
func buildAnalysisPrompt(results []search.Result, profile BusinessProfile, categories []Category, now time.Time) string {
	year := now.Year()
	month := now.Month().String()

	snippets := make([]sourcedSnippet, 0, len(results))
	for _, r := range results {
		source := r.Source
		if source == "" {
			source = "Unknown source"
		}
		snippets = append(snippets, sourcedSnippet{
			Source:        source,
			URL:           r.Link,
			Snippet:       r.Snippet,
			PublishedDate: r.PublishedDate,
			PublishedTime: r.PublishedTime,
		})
	}

	info, _ := json.MarshalIndent(promptProfile{
		CompanyName:        profile.CompanyName,
		Industry:           profile.Industry,
		Region:             profile.Region,
		SupplyChainConcern: profile.SupplyChainConcern,
	}, "", "  ")
	resultsJSON, _ := json.MarshalIndent(snippets, "", "  ")

	return fmt.Sprintf(analysisPromptTemplate,
		month, year, categoryFocusList(categories), string(info), string(resultsJSON))
}

// categoryFocusList renders the taxonomy as a numbered prompt section.
func categoryFocusList(categories []Category) string {
	var sb strings.Builder
	for i, cat := range categories {
		hints := cat.Keywords
		if len(hints) > 3 {
			hints = hints[:3]
		}
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, cat.Name, strings.Join(hints, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// promptProfile is the business profile as embedded in prompts. API
// credentials never enter prompt text.
type promptProfile struct {
	CompanyName        string `json:"companyName"`
	Industry           string `json:"industry"`
	Region             string `json:"region"`
	SupplyChainConcern string `json:"supplyChainConcern,omitempty"`
}

// sourcedSnippet is one search result as embedded in the analysis prompt.
type sourcedSnippet struct {
	Source        string `json:"source"`
	URL           string `json:"url"`
	Snippet       string `json:"snippet"`
	PublishedDate string `json:"publishedDate"`
	PublishedTime string `json:"publishedTime"`
}

// requirementsResponse is the JSON payload expected inside the first
// generation call's output.
type requirementsResponse struct {
	Requirements  string   `json:"requirements"`
	SearchQueries []string `json:"searchQueries"`
}

const requirementsPromptTemplate = `You are an AI supply chain analysis expert performing real-time research as of %s %d.
Based on the business information provided below, identify key requirements for a comprehensive
supply chain risk assessment and generate 7-10 highly specific search queries that would provide
valuable CURRENT insights into their supply chain risks.

IMPORTANT SEARCH QUERY GUIDELINES:
1. Include the current year (%d) in ALL queries to ensure up-to-date information
2. Include the EXACT industry name and region in most queries for relevance
3. Target specific supply chain components: sourcing, manufacturing, logistics, distribution, inventory
4. Include specific ports, trade routes, or key suppliers relevant to their industry and region
5. Target quantitative data: "percentage increase", "cost impact", "delay statistics", "risk metrics"
6. Include terms like "disruption", "shortage", "bottleneck", "vulnerability", "exposure"
7. Target recent regulatory changes affecting their industry's supply chain
8. Include competitor or industry leader names when relevant
9. Target ESG and sustainability impacts on supply chains in their industry
10. Include specific technology disruptions affecting their industry's supply chain

CRITICAL SUPPLY CHAIN ISSUES TO FOCUS ON:
%s

If they mentioned specific concerns, prioritize those in your queries.

Business Information:
%s

Please respond with valid JSON in the following format:
{
  "requirements": "A detailed statement of what needs to be researched based on their business context, mentioning specific aspects of their supply chain that need investigation",
  "searchQueries": [
    "Highly specific query 1 with %d and industry terms",
    "Highly specific query 2 with geographic focus and %d",
    "Highly specific query 3 about recent disruptions with metrics %d",
    "Additional specific queries..."
  ]
}`

const analysisPromptTemplate = `You are an AI supply chain risk analyst examining CURRENT data as of %s %d.
Based on the following real-time search results and business information, analyze the supply chain risks
and provide a factual assessment that reflects TODAY'S market conditions.

CRITICAL ANALYSIS REQUIREMENTS:
1. Explicitly reference the SOURCE of the information with the EXACT URL
2. Include the PUBLICATION DATE of the source when available
3. Prioritize the MOST RECENT information (within the last 30 days if available)
4. Include SPECIFIC NUMBERS, PERCENTAGES, and TIMEFRAMES whenever possible
5. DO NOT provide recommendations, action plans, or suggestions - focus ONLY on factual risk analysis
6. DO NOT include any "recommended actions" or "next steps" - only present factual findings
7. Compare the company's situation with industry benchmarks and competitors using only factual data
8. Identify emerging trends that could impact their supply chain based solely on the research data
9. Highlight geographic-specific risks relevant to their region with supporting evidence
10. Analyze regulatory and compliance risks specific to their industry and region with citations

CRITICAL SUPPLY CHAIN ISSUES TO IDENTIFY AND ANALYZE:
%s

Business Information:
%s

Search Results (with publication dates):
%s

Please provide a comprehensive risk assessment in valid JSON format:
{
  "overallRiskScore": [a number between 1-100],
  "riskLevel": ["Low", "Medium", "High", or "Critical"],
  "supplyChainDisruptions": {
    "count": [specific number of disruptions identified],
    "changeFromLastYear": [specific increase/decrease from previous year],
    "insight": [specific explanation with data points],
    "source": [exact source name],
    "sourceUrl": [exact URL of the source]
  },
  "costIncrease": {
    "percentage": [specific percentage increase in costs],
    "period": "YOY",
    "insight": [specific explanation with data points],
    "source": [exact source name],
    "sourceUrl": [exact URL of the source]
  },
  "supplierRisk": {
    "percentage": [specific risk percentage for supplier reliability],
    "level": ["Low", "Medium", "High", or "Critical"],
    "insight": [specific explanation with data points],
    "source": [exact source name],
    "sourceUrl": [exact URL of the source]
  },
  "topRisks": [
    {
      "factor": "Specific risk factor with detailed current context",
      "score": [1-10],
      "source": [exact source name],
      "sourceUrl": [exact URL of the source],
      "publishedDate": [publication date if available],
      "category": [one of the supply chain issue categories listed above]
    }
  ],
  "riskCategories": [
    {"name": "Category name", "businessScore": [1-10], "industryAverage": [1-10]}
  ],
  "keyInsights": [
    {
      "title": "Specific insight title",
      "description": "Detailed description with CURRENT data points and SPECIFIC context for their industry and region",
      "source": "Exact source name",
      "sourceUrl": "Exact URL of the source",
      "publishedDate": "Publication date if available",
      "category": [one of the supply chain issue categories listed above]
    }
  ]
}
Include 6-8 topRisks across different categories, at least the Sourcing, Manufacturing,
Logistics, Inventory, Regulatory, Technology and Sustainability riskCategories, and 4-6 keyInsights.`
