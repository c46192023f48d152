package extraction

import "regexp"

// SearchPattern is one named content-matching rule. ContextLines is the
// number of lines captured before and after a matching line.
type SearchPattern struct {
	Name         string
	Regex        *regexp.Regexp
	ContextLines int
}

// GapCategory enumerates the kinds of gaps a reflection can flag. Pattern
// selection dispatches over these variants instead of ad hoc string checks
// so the category→pattern mapping stays exhaustive and testable.
type GapCategory int

const (
	GapNewsDates GapCategory = iota
	GapCompanies
	GapPeople
	GapFinancials
	GapGeography
	GapInvestmentTerms
	GapHeadcount
)

// Pattern registry. Sixteen patterns across six groups; window sizes follow
// the match density of each pattern (dates need wide context, titles narrow).
var (
	patternNewsDates = SearchPattern{
		Name:         "news_dates",
		Regex:        regexp.MustCompile(`\d{4}-\d{2}-\d{2}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`),
		ContextLines: 5,
	}
	patternQuarterDates = SearchPattern{
		Name:         "quarter_dates",
		Regex:        regexp.MustCompile(`Q[1-4]\s+\d{4}|(?:first|second|third|fourth)\s+quarter\s+(?:of\s+)?\d{4}`),
		ContextLines: 4,
	}
	patternMonthYearDates = SearchPattern{
		Name:         "month_year_dates",
		Regex:        regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}`),
		ContextLines: 4,
	}
	patternCompanyNames = SearchPattern{
		Name:         "company_names",
		Regex:        regexp.MustCompile(`[A-Z][a-z]+(?:\s[A-Z][a-z]+)*(?:\sInc\.|\sLLC|\sLtd\.|\sCorp\.)?`),
		ContextLines: 3,
	}
	patternPrivateEntities = SearchPattern{
		Name:         "private_entities",
		Regex:        regexp.MustCompile(`[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\s+(?:LP|GP|Holdings?|Partners?|Group|Management|Advisors?)`),
		ContextLines: 3,
	}
	patternSectorKeywords = SearchPattern{
		Name:         "sector_keywords",
		Regex:        regexp.MustCompile(`\b(?:biotech(?:nology)?|fintech|healthtech|climate tech|clean tech|SaaS|enterprise software|consumer|B2B|B2C|healthcare|financial services|real estate|infrastructure)\b`),
		ContextLines: 3,
	}
	patternPeopleWithTitles = SearchPattern{
		Name:         "people_with_titles",
		Regex:        regexp.MustCompile(`[A-Z][a-z]+\s[A-Z][a-z]+,?\s+(?:CEO|CTO|CFO|COO|Partner|Managing Director|Director|Vice President|VP|Head of|Chief)`),
		ContextLines: 2,
	}
	patternAcademicTitles = SearchPattern{
		Name:         "academic_titles",
		Regex:        regexp.MustCompile(`[A-Z][a-z]+\s[A-Z][a-z]+,?\s+(?:PhD|MD|MBA|JD|CFA|M\.D\.|Ph\.D\.)`),
		ContextLines: 2,
	}
	patternBoardRoles = SearchPattern{
		Name:         "board_roles",
		Regex:        regexp.MustCompile(`[A-Z][a-z]+\s[A-Z][a-z]+,?\s+(?:Board Member|Trustee|Advisory Board|Board of Directors|Independent Director|Non-Executive Director)`),
		ContextLines: 2,
	}
	patternSeniorTitles = SearchPattern{
		Name:         "senior_titles",
		Regex:        regexp.MustCompile(`\b(?:Senior|Principal|Executive|General)\s+(?:Partner|Director|Manager|Vice President|Advisor)\b`),
		ContextLines: 2,
	}
	patternDollarAmounts = SearchPattern{
		Name:         "dollar_amounts",
		Regex:        regexp.MustCompile(`\$\d+(?:\.\d+)?(?:M|B|bn|mn|million|billion|\s+million|\s+billion)`),
		ContextLines: 3,
	}
	patternPercentages = SearchPattern{
		Name:         "percentages",
		Regex:        regexp.MustCompile(`\d+(?:\.\d+)?%(?:\s+(?:stake|ownership|equity|interest|return|growth|increase))?`),
		ContextLines: 3,
	}
	patternEmployeeCounts = SearchPattern{
		Name:         "employee_counts",
		Regex:        regexp.MustCompile(`\d+\+?\s+(?:employees?|people|team members?|professionals?)`),
		ContextLines: 2,
	}
	patternGeography = SearchPattern{
		Name:         "geography",
		Regex:        regexp.MustCompile(`\b(?:APAC|EMEA|North America|Europe|Asia|Latin America|Middle East|Africa|US|UK|China|India|San Francisco|New York|Boston|London|Singapore)\b`),
		ContextLines: 2,
	}
	patternInvestmentRounds = SearchPattern{
		Name:         "investment_rounds",
		Regex:        regexp.MustCompile(`\b(?:Seed|Series\s+[A-F]|Pre-seed|Growth\s+(?:round|equity)|Late\s+stage|Early\s+stage)\b`),
		ContextLines: 3,
	}
	patternFundNames = SearchPattern{
		Name:         "fund_names",
		Regex:        regexp.MustCompile(`(?:[A-Z][a-z]+\s)*(?:Fund|Venture|Capital|Growth|Stage|Portfolio|Strategy)`),
		ContextLines: 3,
	}
)

// categoryPatterns maps each gap category to its pattern group.
var categoryPatterns = map[GapCategory][]SearchPattern{
	GapNewsDates:       {patternNewsDates, patternQuarterDates, patternMonthYearDates},
	GapCompanies:       {patternCompanyNames, patternPrivateEntities, patternSectorKeywords},
	GapPeople:          {patternPeopleWithTitles, patternAcademicTitles, patternBoardRoles, patternSeniorTitles},
	GapFinancials:      {patternDollarAmounts, patternPercentages, patternFundNames},
	GapGeography:       {patternGeography},
	GapInvestmentTerms: {patternInvestmentRounds, patternFundNames},
	GapHeadcount:       {patternEmployeeCounts},
}

// defaultPatterns is used when no category matches the gap text. Missing
// news items are the most common gap, so the date patterns lead.
var defaultPatterns = []SearchPattern{patternNewsDates, patternQuarterDates, patternCompanyNames}

// categoryKeywords drives gap classification. A category applies when any of
// its keywords appears in the gap description; categories marked
// matchQuestion also consult the question text.
var categoryKeywords = []struct {
	category      GapCategory
	keywords      []string
	matchQuestion bool
}{
	{GapNewsDates, []string{"news", "announcement", "press release", "date"}, false},
	{GapCompanies, []string{"company", "companies", "portfolio", "investment", "firm"}, true},
	{GapPeople, []string{"team", "leadership", "decision maker", "people", "member", "executive", "board"}, true},
	{GapFinancials, []string{"amount", "aum", "assets", "fund size", "capital", "investment", "valuation", "stake", "ownership"}, false},
	{GapGeography, []string{"region", "geographic", "location", "country", "market"}, true},
	{GapInvestmentTerms, []string{"round", "series", "stage", "strategy", "fund"}, true},
	{GapHeadcount, []string{"employee", "team size", "headcount", "scale"}, false},
}
