package kaggle

import "time"

// Competition is a summary record from the competitions list endpoint.
type Competition struct {
	Ref            string    `json:"ref"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Category       string    `json:"category"`
	Reward         string    `json:"reward"`
	Deadline       time.Time `json:"deadline"`
	TeamCount      int       `json:"teamCount"`
	UserHasEntered bool      `json:"userHasEntered"`
}

// File describes a remote file belonging to a competition, dataset,
// kernel, or model instance version.
type File struct {
	Name         string `json:"name"`
	TotalBytes   int64  `json:"totalBytes"`
	CreationDate string `json:"creationDate,omitempty"`
}

// FileList is a paginated file listing.
type FileList struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// SubmitResult is the response to a competition submission.
type SubmitResult struct {
	Ref     string `json:"ref"`
	Message string `json:"message"`
}

// Submission is a summary record of a past competition submission.
type Submission struct {
	Ref          string `json:"ref"`
	FileName     string `json:"fileName"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	PublicScore  string `json:"publicScore,omitempty"`
	PrivateScore string `json:"privateScore,omitempty"`
}

// LeaderboardEntry is one row of a competition leaderboard.
type LeaderboardEntry struct {
	TeamID         int    `json:"teamId"`
	TeamName       string `json:"teamName"`
	SubmissionDate string `json:"submissionDate"`
	Score          string `json:"score"`
}

// Dataset is a summary record from the datasets list endpoint.
type Dataset struct {
	Ref           string `json:"ref"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle,omitempty"`
	CreatorName   string `json:"creatorName,omitempty"`
	LicenseName   string `json:"licenseName,omitempty"`
	TotalBytes    int64  `json:"totalBytes"`
	LastUpdated   string `json:"lastUpdated,omitempty"`
	DownloadCount int    `json:"downloadCount"`
	VoteCount     int    `json:"voteCount"`
}

// DatasetsListOptions filters the datasets list endpoint.
// Zero values mean "no filter".
type DatasetsListOptions struct {
	SortBy      string
	FileType    string
	LicenseName string
	TagIDs      string
	Search      string
	User        string
	Mine        bool
	Page        int
	MaxSize     int64
	MinSize     int64
}

// DatasetVersionResult is the response to dataset create/version calls.
type DatasetVersionResult struct {
	Ref    string `json:"ref,omitempty"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Kernel is a summary record from the kernels list endpoint.
type Kernel struct {
	Ref        string `json:"ref"`
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	Language   string `json:"language,omitempty"`
	KernelType string `json:"kernelType,omitempty"`
	LastRunAt  string `json:"lastRunTime,omitempty"`
	TotalVotes int    `json:"totalVotes"`
}

// KernelsListOptions filters the kernels list endpoint.
type KernelsListOptions struct {
	Page        int
	PageSize    int
	Search      string
	Competition string
	Dataset     string
	User        string
	Mine        bool
	SortBy      string
	Language    string
	KernelType  string
	OutputType  string
}

// KernelPushResult is the response to a kernel push.
// Invalid* fields carry server-side validation failures.
type KernelPushResult struct {
	Ref                       string   `json:"ref,omitempty"`
	URL                       string   `json:"url,omitempty"`
	VersionNumber             int      `json:"versionNumber,omitempty"`
	Error                     string   `json:"error,omitempty"`
	InvalidTags               []string `json:"invalidTags,omitempty"`
	InvalidDatasetSources     []string `json:"invalidDatasetSources,omitempty"`
	InvalidCompetitionSources []string `json:"invalidCompetitionSources,omitempty"`
	InvalidKernelSources      []string `json:"invalidKernelSources,omitempty"`
}

// KernelStatusResult is the response from the kernel status endpoint.
type KernelStatusResult struct {
	Status         string `json:"status"`
	FailureMessage string `json:"failureMessage,omitempty"`
}

// Model is a summary record from the models list endpoint.
type Model struct {
	ID       int    `json:"id,omitempty"`
	Ref      string `json:"ref"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Author   string `json:"author,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ModelsListOptions filters the models list endpoint.
type ModelsListOptions struct {
	SortBy    string
	Search    string
	Owner     string
	PageSize  int
	PageToken string
}

// ModelsListPage is one page of model summaries.
type ModelsListPage struct {
	Models        []Model `json:"models"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// ModelResult is the response to model create/update/delete calls.
type ModelResult struct {
	ID    int    `json:"id,omitempty"`
	Ref   string `json:"ref,omitempty"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}
