package models

// SearchHit is a single community Q&A result.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ResearchResult holds the external lookups made for one incident.
type ResearchResult struct {
	Incident      Incident    `json:"error"`
	Query         string      `json:"query"`
	Wikipedia     string      `json:"wikipedia"`
	StackOverflow []SearchHit `json:"stackoverflow"`
}

type RelevantFile struct {
	File    string `json:"file"`
	Snippet string `json:"snippet"`
}

// RepoMetadata is filled from the GitHub API when the repository is hosted there.
type RepoMetadata struct {
	FullName      string `json:"fullName"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
	Language      string `json:"language,omitempty"`
	Stars         int    `json:"stars"`
}

// CodeAnalysis summarizes keyword-matching files of a source repository.
// Error is set instead of the other fields when the analysis failed.
type CodeAnalysis struct {
	RepoName      string         `json:"repoName,omitempty"`
	FilesAnalyzed int            `json:"filesAnalyzed"`
	RelevantFiles []RelevantFile `json:"relevantFiles"`
	Metadata      *RepoMetadata  `json:"metadata,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Solution is one remediation object produced by the generative model. Its
// shape is decided by the model; unparseable output is stored as
// {"analysis": <raw text>}.
type Solution map[string]any
