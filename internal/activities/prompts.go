package activities

// Prompt templates for the research pipeline. Wording is kept close to the
// production prompts; the pipeline itself only cares that each call returns
// either free text or a JSON object matching the target record.

const clarifyPrompt = `You are an AI research coordinator deciding whether a research request needs clarification before starting.

The user wants a deep research report about a specific company. Research will be restricted to a set of seed URLs and their domains. In most cases, if the request clearly specifies company and focus, no clarification is needed.

User request:
%s

Respond in JSON format:
{
  "need_clarification": false,
  "question": "...",
  "verification": "..."
}`

const briefPrompt = `You are a senior research strategist. Turn the user request into a single, clear research brief that will guide a multi-agent deep research system. The system will read the provided URLs, organize findings, and write a structured report. All research is restricted to the seed URLs and their domains.

Company name: %s

User request:
%s

Assume any follow-up questions have already been resolved. Respond in JSON format:
{
  "research_brief": "..."
}`

const subAgentPrompt = `You are a specialized research sub-agent in a multi-agent research system. You have been assigned ONE specific research question. Extract EVERY relevant detail from the provided content: all names with full titles, all company/fund/program names, all numbers and amounts, all news items WITH EXACT DATES. Do not summarize or condense. Use inline citations [1], [2] for every fact and list the cited URLs at the end.

Your specialized research question:
%s

Company: %s

Complete context from all available sources:
%s`

const refinementAgentPrompt = `You are a specialized research sub-agent performing a targeted second pass. A previous pass answered this question but left gaps. Focus ONLY on closing the gaps described below; extract every relevant detail with exact dates and inline citations [1], [2].

Research question:
%s

Company: %s

Previous findings (truncated):
%s

Gap to address:
%s

Targeted evidence snippets (read these first; fall back to the full context below if they are insufficient):
%s

Full context:
%s`

const reflectionPrompt = `You are a critical reviewer analyzing research findings for completeness. Be honest and critical; better to catch gaps now than in the final report.

Research question:
%s

Findings:
%s

Original context sample:
%s

Assess: is the research complete and thorough? What aspects are missing? What is your confidence level (high/medium/low)? What should be done next?

Respond in JSON format:
{
  "is_complete": true,
  "missing_aspects": ["..."],
  "confidence": "high",
  "next_steps": "..."
}`

const supervisorReviewPrompt = `You are a research supervisor reviewing findings from multiple specialized sub-agents. Review all findings for completeness, identify gaps across them, and decide whether a refinement iteration is needed before report writing.

Company: %s

Research brief:
%s

Sub-agent findings summary:
%s

Sub-agent reflections:
%s

Respond in JSON format:
{
  "overall_completeness": "...",
  "gaps_identified": ["..."],
  "refinement_needed": false,
  "ready_for_writing": true
}`

const reportPrompt = `You are a meticulous professional financial analyst and report writer. Using ONLY the research notes below, write a detailed markdown report with these sections: Executive Summary; Private Investing / Private Markets Overview; Key Decision Makers; Regions and Sectors; Assets Under Management and Platform Metrics; Portfolio Companies or Deal Examples (table); Strategies / Funds / Programs; Recent News & Announcements (table sorted most recent first, most precise dates available); Conclusion; Sources (citation numbers to URLs). Include every name, title, company, fund, date, and amount from the notes. Cite every claim with [1], [2]. If information is missing, state "Not disclosed on the company's website".

Company: %s

Research brief:
%s

Comprehensive research notes:
%s`

const structuredReportPrompt = `You are a data extraction specialist converting a markdown research report into structured JSON. Extract the key information accurately and completely.

Report:
%s

Respond in JSON format:
{
  "company_name": "...",
  "report_date": "...",
  "executive_summary": "...",
  "overview": "...",
  "key_decision_makers": [{"name": "...", "title": "...", "location": "..."}],
  "regions_and_sectors": {"regions": ["..."], "sectors": ["..."]},
  "aum_metrics": {"total_aum": "...", "details": "..."},
  "portfolio_companies": [{"name": "...", "sector": "...", "stage": "...", "details": "..."}],
  "strategies": [{"name": "...", "description": "...", "focus": "..."}],
  "news_announcements": [{"date": "...", "headline": "...", "description": "..."}],
  "conclusion": "...",
  "sources": ["..."]
}`
