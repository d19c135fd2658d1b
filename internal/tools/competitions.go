package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

// CompetitionAPI is the slice of the Kaggle client the competitions
// toolset needs.
type CompetitionAPI interface {
	CompetitionsList(ctx context.Context, page int, search string) ([]kaggle.Competition, error)
	CompetitionListFiles(ctx context.Context, competition, pageToken string, pageSize int) (kaggle.FileList, error)
	CompetitionDownloadFile(ctx context.Context, competition, fileName, destDir string, force bool) (string, error)
	CompetitionDownloadFiles(ctx context.Context, competition, destDir string, force bool) (string, error)
	CompetitionSubmit(ctx context.Context, competition, filePath, message string) (kaggle.SubmitResult, error)
	CompetitionSubmissions(ctx context.Context, competition, group, sortBy, pageToken string, pageSize int) ([]kaggle.Submission, error)
	CompetitionLeaderboardView(ctx context.Context, competition string) ([]kaggle.LeaderboardEntry, error)
	CompetitionLeaderboardDownload(ctx context.Context, competition, destDir string) (string, error)
}

// Competitions exposes the competition tools.
type Competitions struct {
	api   CompetitionAPI
	paths *security.Path
}

func NewCompetitions(api CompetitionAPI, paths *security.Path) *Competitions {
	return &Competitions{api: api, paths: paths}
}

func (t *Competitions) Name() string { return "competitions" }

type competitionsListInput struct {
	Page   int    `json:"page,omitempty" jsonschema:"Page number for results paging, starting at 1"`
	Search string `json:"search,omitempty" jsonschema:"Search terms to filter competitions"`
}

type competitionListFilesInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	PageToken   string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
}

type competitionDownloadFileInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	FileName    string `json:"file_name" jsonschema:"Name of the file to download"`
	Path        string `json:"path,omitempty" jsonschema:"Download directory, defaults to the working directory"`
	Force       bool   `json:"force,omitempty" jsonschema:"Overwrite an existing file"`
	Quiet       bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type competitionDownloadFilesInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	Path        string `json:"path,omitempty" jsonschema:"Download directory, defaults to the working directory"`
	Force       bool   `json:"force,omitempty" jsonschema:"Overwrite an existing file"`
	Quiet       bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type competitionSubmitInput struct {
	FileName    string `json:"file_name" jsonschema:"Path of the submission file to upload"`
	Message     string `json:"message" jsonschema:"Submission description"`
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	Quiet       bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type competitionSubmissionsInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	Group       string `json:"group,omitempty" jsonschema:"Submission group filter"`
	Sort        string `json:"sort,omitempty" jsonschema:"Sort order for submissions"`
	PageToken   string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
}

type competitionLeaderboardViewInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
}

type competitionLeaderboardDownloadInput struct {
	Competition string `json:"competition" jsonschema:"Competition URL suffix, e.g. 'titanic'"`
	Path        string `json:"path" jsonschema:"Download directory for the leaderboard archive"`
	Quiet       bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

func (t *Competitions) Tools() []Tool {
	return []Tool{
		NewTool("competitions_list",
			"List available Kaggle competitions, optionally filtered by a search term.",
			t.list),
		NewTool("competition_list_files",
			"List the data files of a competition.",
			t.listFiles),
		NewTool("competition_download_file",
			"Download a single data file of a competition.",
			t.downloadFile),
		NewTool("competition_download_files",
			"Download all data files of a competition as a zip archive.",
			t.downloadFiles),
		NewTool("competition_submit",
			"Upload a file as a submission to a competition.",
			t.submit),
		NewTool("competition_submissions",
			"List your submissions to a competition.",
			t.submissions),
		NewTool("competition_leaderboard_view",
			"View the leaderboard of a competition.",
			t.leaderboardView),
		NewTool("competition_leaderboard_download",
			"Download the full leaderboard of a competition.",
			t.leaderboardDownload),
	}
}

func (t *Competitions) list(ctx context.Context, in competitionsListInput) (*Result, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	comps, err := t.api.CompetitionsList(ctx, in.Page, in.Search)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(comps))
	for _, c := range comps {
		refs = append(refs, c.Ref)
	}
	return Success(fmt.Sprintf("Retrieved %d competitions.", len(comps)), map[string]any{
		"competitions": refs,
	}), nil
}

func (t *Competitions) listFiles(ctx context.Context, in competitionListFilesInput) (*Result, error) {
	if in.PageSize <= 0 {
		in.PageSize = 20
	}
	list, err := t.api.CompetitionListFiles(ctx, in.Competition, in.PageToken, in.PageSize)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"files": list.Files}
	if list.NextPageToken != "" {
		data["next_page_token"] = list.NextPageToken
	}
	return Success(fmt.Sprintf("Retrieved %d files for '%s'.", len(list.Files), in.Competition), data), nil
}

func (t *Competitions) downloadFile(ctx context.Context, in competitionDownloadFileInput) (*Result, error) {
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.CompetitionDownloadFile(ctx, in.Competition, in.FileName, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("File '%s' from '%s' downloaded successfully.", in.FileName, in.Competition), map[string]any{
		"competition": in.Competition,
		"file_name":   in.FileName,
		"saved_path":  saved,
	}), nil
}

func (t *Competitions) downloadFiles(ctx context.Context, in competitionDownloadFilesInput) (*Result, error) {
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.CompetitionDownloadFiles(ctx, in.Competition, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded all files for competition '%s'.", in.Competition), map[string]any{
		"competition": in.Competition,
		"saved_path":  saved,
	}), nil
}

func (t *Competitions) submit(ctx context.Context, in competitionSubmitInput) (*Result, error) {
	if _, err := os.Stat(in.FileName); err != nil {
		if os.IsNotExist(err) {
			return nil, &ValidationError{Reason: fmt.Sprintf("submission file %q does not exist", in.FileName)}
		}
		return nil, &IOError{Op: "stat", Path: in.FileName, Err: err}
	}

	res, err := t.api.CompetitionSubmit(ctx, in.Competition, in.FileName, in.Message)
	if err != nil {
		return nil, err
	}

	message := res.Message
	if message == "" {
		message = fmt.Sprintf("Submitted '%s' to '%s'.", in.FileName, in.Competition)
	}
	return Success(message, map[string]any{
		"competition":    in.Competition,
		"submission_ref": res.Ref,
	}), nil
}

func (t *Competitions) submissions(ctx context.Context, in competitionSubmissionsInput) (*Result, error) {
	if in.PageSize <= 0 {
		in.PageSize = 20
	}
	subs, err := t.api.CompetitionSubmissions(ctx, in.Competition, in.Group, in.Sort, in.PageToken, in.PageSize)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Retrieved %d submissions.", len(subs)), map[string]any{
		"competition": in.Competition,
		"data":        subs,
	}), nil
}

func (t *Competitions) leaderboardView(ctx context.Context, in competitionLeaderboardViewInput) (*Result, error) {
	entries, err := t.api.CompetitionLeaderboardView(ctx, in.Competition)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Retrieved %d leaderboard entries.", len(entries)), map[string]any{
		"competition": in.Competition,
		"data":        entries,
	}), nil
}

func (t *Competitions) leaderboardDownload(ctx context.Context, in competitionLeaderboardDownloadInput) (*Result, error) {
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.CompetitionLeaderboardDownload(ctx, in.Competition, dest)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded leaderboard for competition: %s to path: %s", in.Competition, dest), map[string]any{
		"competition": in.Competition,
		"saved_path":  saved,
	}), nil
}
