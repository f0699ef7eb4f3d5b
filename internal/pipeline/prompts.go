package pipeline

// LLM prompt templates for the generative stages.

const (
	// SOLUTIONS_PROMPT asks for one remediation object per extracted incident.
	// Args: incident count, incidents JSON, research JSON, code analysis.
	SOLUTIONS_PROMPT = `You are an expert DevOps engineer analyzing application logs.

ERRORS FOUND (%d):
%s

EXTERNAL RESEARCH:
%s

CODE ANALYSIS:
%s

For each error, provide:
1. Root cause analysis
2. Step-by-step solution
3. Code fix (if applicable)
4. Prevention strategy
5. Confidence score (1-10)

Return your analysis as a JSON array of solutions.`

	// REPORT_PROMPT asks for the final markdown report.
	// Args: total count, incidents JSON, solutions JSON, repository.
	REPORT_PROMPT = `Create a professional log analysis report in Markdown format.

DATA:
- Total Errors: %d
- Parsed Errors: %s
- Solutions: %s
- Repository: %s

Create a report with these sections:
# Log Analysis Report

## Executive Summary
- Provide key metrics and overview

## Critical Issues
- List errors by severity

## Detailed Analysis
For each error:
- Root cause
- Solution steps
- Code fixes
- External resources

## Priority Matrix
| Priority | Issue | Severity | Effort |
|----------|-------|----------|--------|

## Recommendations
- Prevention strategies
- Next steps

Keep it professional, actionable, and well-formatted.`

	NoRepositoryProvided = "No repository provided"
	RepositoryNotGiven   = "Not provided"
)
