package kaggle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// DatasetsList returns a page of datasets matching the given filters.
func (c *Client) DatasetsList(ctx context.Context, opts DatasetsListOptions) ([]Dataset, error) {
	q := url.Values{}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.FileType != "" {
		q.Set("filetype", opts.FileType)
	}
	if opts.LicenseName != "" {
		q.Set("license", opts.LicenseName)
	}
	if opts.TagIDs != "" {
		q.Set("tagids", opts.TagIDs)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.User != "" {
		q.Set("user", opts.User)
	}
	if opts.Mine {
		q.Set("group", "my")
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.MaxSize > 0 {
		q.Set("maxSize", strconv.FormatInt(opts.MaxSize, 10))
	}
	if opts.MinSize > 0 {
		q.Set("minSize", strconv.FormatInt(opts.MinSize, 10))
	}

	var datasets []Dataset
	if err := c.do(ctx, http.MethodGet, "/datasets/list", q, nil, &datasets); err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return datasets, nil
}

// DatasetMetadataDownload fetches a dataset's metadata and writes it to
// dataset-metadata.json in destDir. Returns the absolute path written.
func (c *Client) DatasetMetadataDownload(ctx context.Context, ref Ref, destDir string) (string, error) {
	var raw json.RawMessage
	path := "/datasets/metadata/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return "", fmt.Errorf("fetching metadata for dataset %s/%s: %w", ref.Owner, ref.Slug, err)
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	dest := filepath.Join(destDir, DatasetMetadataFile)
	if err := os.WriteFile(dest, raw, 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}

// DatasetListFiles lists the files of a dataset.
func (c *Client) DatasetListFiles(ctx context.Context, ref Ref, pageToken string, pageSize int) (FileList, error) {
	var list FileList
	path := "/datasets/list/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug)
	if err := c.do(ctx, http.MethodGet, path, pageQuery(pageToken, pageSize), nil, &list); err != nil {
		return FileList{}, fmt.Errorf("listing files for dataset %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return list, nil
}

// DatasetStatus returns the processing status of one of the caller's own
// datasets (e.g. "ready").
func (c *Client) DatasetStatus(ctx context.Context, ref Ref) (string, error) {
	var status string
	path := "/datasets/status/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return "", fmt.Errorf("fetching status for dataset %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return status, nil
}

// DatasetDownloadFile downloads one file of a dataset into destDir.
func (c *Client) DatasetDownloadFile(ctx context.Context, ref Ref, fileName, destDir string, force bool) (string, error) {
	path := "/datasets/download/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug) + "/" + url.PathEscape(fileName)
	saved, err := c.download(ctx, path, nil, destDir, fileName, force)
	if err != nil {
		return "", fmt.Errorf("downloading %s from dataset %s/%s: %w", fileName, ref.Owner, ref.Slug, err)
	}
	return saved, nil
}

// DatasetDownloadFiles downloads the whole dataset (a zip archive) into
// destDir.
func (c *Client) DatasetDownloadFiles(ctx context.Context, ref Ref, destDir string, force bool) (string, error) {
	path := "/datasets/download/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug)
	saved, err := c.download(ctx, path, nil, destDir, ref.Slug+".zip", force)
	if err != nil {
		return "", fmt.Errorf("downloading dataset %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return saved, nil
}

// datasetCreateRequest is the payload for dataset creation.
type datasetCreateRequest struct {
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	OwnerSlug    string           `json:"ownerSlug"`
	Subtitle     string           `json:"subtitle,omitempty"`
	LicenseName  string           `json:"licenseName,omitempty"`
	IsPrivate    bool             `json:"isPrivate"`
	ConvertToCSV bool             `json:"convertToCsv"`
	Files        []datasetUpload  `json:"files"`
}

// datasetVersionRequest is the payload for new dataset versions.
type datasetVersionRequest struct {
	VersionNotes      string          `json:"versionNotes"`
	ConvertToCSV      bool            `json:"convertToCsv"`
	DeleteOldVersions bool            `json:"deleteOldVersions"`
	Files             []datasetUpload `json:"files"`
}

// datasetUpload references an uploaded blob by token.
type datasetUpload struct {
	Token string `json:"token"`
}

const datasetUploadSlotPath = "/datasets/upload/file"

// DatasetCreate uploads every file in folder and creates a new dataset
// from the folder's dataset-metadata.json.
func (c *Client) DatasetCreate(ctx context.Context, folder string, public, convertToCSV bool) (DatasetVersionResult, error) {
	meta, err := ReadDatasetMetadata(folder)
	if err != nil {
		return DatasetVersionResult{}, err
	}
	ref, err := ParseRef(meta.ID)
	if err != nil {
		return DatasetVersionResult{}, fmt.Errorf("dataset metadata id: %w", err)
	}

	tokens, err := c.uploadFolder(ctx, datasetUploadSlotPath, folder, map[string]bool{DatasetMetadataFile: true})
	if err != nil {
		return DatasetVersionResult{}, err
	}

	req := datasetCreateRequest{
		Title:        meta.Title,
		Slug:         ref.Slug,
		OwnerSlug:    ref.Owner,
		Subtitle:     meta.Subtitle,
		IsPrivate:    !public,
		ConvertToCSV: convertToCSV,
		Files:        uploadsFromTokens(tokens),
	}
	if len(meta.Licenses) > 0 {
		req.LicenseName = meta.Licenses[0].Name
	}

	var res DatasetVersionResult
	if err := c.do(ctx, http.MethodPost, "/datasets/create/new", nil, req, &res); err != nil {
		return DatasetVersionResult{}, fmt.Errorf("creating dataset %s: %w", meta.ID, err)
	}
	return res, nil
}

// DatasetCreateVersion uploads every file in folder and creates a new
// version of the dataset named by the folder's metadata.
func (c *Client) DatasetCreateVersion(ctx context.Context, folder, versionNotes string, convertToCSV, deleteOldVersions bool) (DatasetVersionResult, error) {
	meta, err := ReadDatasetMetadata(folder)
	if err != nil {
		return DatasetVersionResult{}, err
	}
	ref, err := ParseRef(meta.ID)
	if err != nil {
		return DatasetVersionResult{}, fmt.Errorf("dataset metadata id: %w", err)
	}

	tokens, err := c.uploadFolder(ctx, datasetUploadSlotPath, folder, map[string]bool{DatasetMetadataFile: true})
	if err != nil {
		return DatasetVersionResult{}, err
	}

	req := datasetVersionRequest{
		VersionNotes:      versionNotes,
		ConvertToCSV:      convertToCSV,
		DeleteOldVersions: deleteOldVersions,
		Files:             uploadsFromTokens(tokens),
	}

	var res DatasetVersionResult
	path := "/datasets/create/version/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Slug)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return DatasetVersionResult{}, fmt.Errorf("creating version of dataset %s: %w", meta.ID, err)
	}
	return res, nil
}

func uploadsFromTokens(tokens []string) []datasetUpload {
	uploads := make([]datasetUpload, 0, len(tokens))
	for _, t := range tokens {
		uploads = append(uploads, datasetUpload{Token: t})
	}
	return uploads
}
