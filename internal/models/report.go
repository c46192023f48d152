package models

// StructuredReport is the machine-readable form of the final report,
// extracted from the markdown report by the writer stage.
type StructuredReport struct {
	CompanyName        string             `json:"company_name"`
	ReportDate         string             `json:"report_date"`
	ExecutiveSummary   string             `json:"executive_summary"`
	Overview           string             `json:"overview"`
	KeyDecisionMakers  []KeyDecisionMaker `json:"key_decision_makers"`
	RegionsAndSectors  RegionsAndSectors  `json:"regions_and_sectors"`
	AUMMetrics         AUMMetrics         `json:"aum_metrics"`
	PortfolioCompanies []PortfolioCompany `json:"portfolio_companies"`
	Strategies         []Strategy         `json:"strategies"`
	NewsAnnouncements  []NewsAnnouncement `json:"news_announcements"`
	Conclusion         string             `json:"conclusion"`
	Sources            []string           `json:"sources"`
}

// KeyDecisionMaker is one leader or decision maker named in the findings.
type KeyDecisionMaker struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
}

// PortfolioCompany is one portfolio holding named in the findings.
type PortfolioCompany struct {
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Stage   string `json:"stage"`
	Details string `json:"details,omitempty"`
}

// Strategy is one investment strategy, fund, or program.
type Strategy struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Focus       string `json:"focus,omitempty"`
}

// NewsAnnouncement is one dated news item.
type NewsAnnouncement struct {
	Date        string `json:"date"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// RegionsAndSectors groups geographic and sector coverage.
type RegionsAndSectors struct {
	Regions []string `json:"regions"`
	Sectors []string `json:"sectors"`
}

// AUMMetrics holds disclosed assets-under-management figures.
type AUMMetrics struct {
	TotalAUM string `json:"total_aum,omitempty"`
	Details  string `json:"details,omitempty"`
}
