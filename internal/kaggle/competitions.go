package kaggle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CompetitionsList returns a page of competitions, optionally filtered by
// a search term. An empty page is a valid result.
func (c *Client) CompetitionsList(ctx context.Context, page int, search string) ([]Competition, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		q.Set("search", search)
	}

	var comps []Competition
	if err := c.do(ctx, http.MethodGet, "/competitions/list", q, nil, &comps); err != nil {
		return nil, fmt.Errorf("listing competitions: %w", err)
	}
	return comps, nil
}

// CompetitionListFiles lists the data files of a competition.
func (c *Client) CompetitionListFiles(ctx context.Context, competition, pageToken string, pageSize int) (FileList, error) {
	var list FileList
	path := "/competitions/data/list/" + url.PathEscape(competition)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(pageToken, pageSize), nil, &list); err != nil {
		return FileList{}, fmt.Errorf("listing files for competition %s: %w", competition, err)
	}
	return list, nil
}

// CompetitionDownloadFile downloads one competition data file into destDir
// and returns the absolute path written.
func (c *Client) CompetitionDownloadFile(ctx context.Context, competition, fileName, destDir string, force bool) (string, error) {
	path := "/competitions/data/download/" + url.PathEscape(competition) + "/" + url.PathEscape(fileName)
	saved, err := c.download(ctx, path, nil, destDir, fileName, force)
	if err != nil {
		return "", fmt.Errorf("downloading %s from competition %s: %w", fileName, competition, err)
	}
	return saved, nil
}

// CompetitionDownloadFiles downloads the full competition data bundle
// (a single zip archive) into destDir.
func (c *Client) CompetitionDownloadFiles(ctx context.Context, competition, destDir string, force bool) (string, error) {
	path := "/competitions/data/download-all/" + url.PathEscape(competition)
	saved, err := c.download(ctx, path, nil, destDir, competition+".zip", force)
	if err != nil {
		return "", fmt.Errorf("downloading files for competition %s: %w", competition, err)
	}
	return saved, nil
}

// competitionSubmitRequest is the final step of a submission.
type competitionSubmitRequest struct {
	BlobFileTokens        string `json:"blobFileTokens"`
	SubmissionDescription string `json:"submissionDescription"`
}

// CompetitionSubmit uploads filePath and submits it to the competition
// with the given description. The upload handshake (slot request, byte
// transfer, submit-by-token) happens entirely inside this call.
func (c *Client) CompetitionSubmit(ctx context.Context, competition, filePath, message string) (SubmitResult, error) {
	slotPath := "/competitions/submissions/url/" + url.PathEscape(competition)
	token, err := c.uploadFile(ctx, slotPath, filePath)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("uploading submission for competition %s: %w", competition, err)
	}

	var res SubmitResult
	path := "/competitions/submissions/submit/" + url.PathEscape(competition)
	req := competitionSubmitRequest{BlobFileTokens: token, SubmissionDescription: message}
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return SubmitResult{}, fmt.Errorf("submitting to competition %s: %w", competition, err)
	}
	return res, nil
}

// CompetitionSubmissions lists the caller's submissions for a competition.
// group and sortBy pass through to the API unchanged; empty means default.
func (c *Client) CompetitionSubmissions(ctx context.Context, competition, group, sortBy, pageToken string, pageSize int) ([]Submission, error) {
	q := pageQuery(pageToken, pageSize)
	if group != "" {
		q.Set("group", group)
	}
	if sortBy != "" {
		q.Set("sortBy", sortBy)
	}

	var subs []Submission
	path := "/competitions/submissions/list/" + url.PathEscape(competition)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &subs); err != nil {
		return nil, fmt.Errorf("listing submissions for competition %s: %w", competition, err)
	}
	return subs, nil
}

// leaderboardResponse wraps the leaderboard view payload.
type leaderboardResponse struct {
	Submissions []LeaderboardEntry `json:"submissions"`
}

// CompetitionLeaderboardView returns the public leaderboard.
func (c *Client) CompetitionLeaderboardView(ctx context.Context, competition string) ([]LeaderboardEntry, error) {
	var res leaderboardResponse
	path := "/competitions/" + url.PathEscape(competition) + "/leaderboard/view"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, fmt.Errorf("viewing leaderboard for competition %s: %w", competition, err)
	}
	return res.Submissions, nil
}

// CompetitionLeaderboardDownload downloads the leaderboard as a zip
// archive into destDir.
func (c *Client) CompetitionLeaderboardDownload(ctx context.Context, competition, destDir string) (string, error) {
	path := "/competitions/" + url.PathEscape(competition) + "/leaderboard/download"
	saved, err := c.download(ctx, path, nil, destDir, competition+"-leaderboard.zip", true)
	if err != nil {
		return "", fmt.Errorf("downloading leaderboard for competition %s: %w", competition, err)
	}
	return saved, nil
}
