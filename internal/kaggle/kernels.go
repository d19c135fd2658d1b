package kaggle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// KernelsList returns a page of kernels matching the given filters.
func (c *Client) KernelsList(ctx context.Context, opts KernelsListOptions) ([]Kernel, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Competition != "" {
		q.Set("competition", opts.Competition)
	}
	if opts.Dataset != "" {
		q.Set("dataset", opts.Dataset)
	}
	if opts.User != "" {
		q.Set("user", opts.User)
	}
	if opts.Mine {
		q.Set("group", "profile")
	}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	if opts.KernelType != "" {
		q.Set("kernelType", opts.KernelType)
	}
	if opts.OutputType != "" {
		q.Set("outputType", opts.OutputType)
	}

	var kernels []Kernel
	if err := c.do(ctx, http.MethodGet, "/kernels/list", q, nil, &kernels); err != nil {
		return nil, fmt.Errorf("listing kernels: %w", err)
	}
	return kernels, nil
}

// KernelListFiles lists the files attached to a kernel.
func (c *Client) KernelListFiles(ctx context.Context, ref Ref, pageToken string, pageSize int) (FileList, error) {
	q := pageQuery(pageToken, pageSize)
	q.Set("userName", ref.Owner)
	q.Set("kernelSlug", ref.Slug)

	var list FileList
	if err := c.do(ctx, http.MethodGet, "/kernels/files", q, nil, &list); err != nil {
		return FileList{}, fmt.Errorf("listing files for kernel %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return list, nil
}

// kernelPushRequest is the payload for pushing a kernel version.
// Source text is sent inline; kernels have no blob upload step.
type kernelPushRequest struct {
	Slug               string   `json:"slug"`
	NewTitle           string   `json:"newTitle"`
	Text               string   `json:"text"`
	Language           string   `json:"language"`
	KernelType         string   `json:"kernelType"`
	IsPrivate          bool     `json:"isPrivate"`
	EnableGPU          bool     `json:"enableGpu"`
	EnableInternet     bool     `json:"enableInternet"`
	DatasetDataSources []string `json:"datasetDataSources"`
	CompetitionSources []string `json:"competitionDataSources"`
	KernelDataSources  []string `json:"kernelDataSources"`
}

// KernelPush reads kernel-metadata.json and the referenced code file from
// folder and pushes a new kernel version.
func (c *Client) KernelPush(ctx context.Context, folder string) (KernelPushResult, error) {
	meta, err := ReadKernelMetadata(folder)
	if err != nil {
		return KernelPushResult{}, err
	}
	if _, err := ParseRef(meta.ID); err != nil {
		return KernelPushResult{}, fmt.Errorf("kernel metadata id: %w", err)
	}

	source, err := os.ReadFile(filepath.Join(folder, meta.CodeFile)) // #nosec G304 -- folder validated by caller
	if err != nil {
		return KernelPushResult{}, fmt.Errorf("reading code file %s: %w", meta.CodeFile, err)
	}

	req := kernelPushRequest{
		Slug:               meta.ID,
		NewTitle:           meta.Title,
		Text:               string(source),
		Language:           meta.Language,
		KernelType:         meta.KernelType,
		IsPrivate:          meta.IsPrivate,
		EnableGPU:          meta.EnableGPU,
		EnableInternet:     meta.EnableInternet,
		DatasetDataSources: meta.DatasetSources,
		CompetitionSources: meta.CompetitionSources,
		KernelDataSources:  meta.KernelSources,
	}

	var res KernelPushResult
	if err := c.do(ctx, http.MethodPost, "/kernels/push", nil, req, &res); err != nil {
		return KernelPushResult{}, fmt.Errorf("pushing kernel %s: %w", meta.ID, err)
	}
	return res, nil
}

// kernelPullResponse is the payload from the kernel pull endpoint.
type kernelPullResponse struct {
	Blob struct {
		Source     string `json:"source"`
		Slug       string `json:"slug"`
		KernelType string `json:"kernelType"`
		Language   string `json:"language"`
	} `json:"blob"`
	Metadata KernelMetadata `json:"metadata"`
}

// KernelPull downloads a kernel's source into destDir, optionally writing
// kernel-metadata.json alongside it. Returns the absolute path of the
// source file written.
func (c *Client) KernelPull(ctx context.Context, ref Ref, destDir string, withMetadata bool) (string, error) {
	q := url.Values{}
	q.Set("userName", ref.Owner)
	q.Set("kernelSlug", ref.Slug)

	var res kernelPullResponse
	if err := c.do(ctx, http.MethodGet, "/kernels/pull", q, nil, &res); err != nil {
		return "", fmt.Errorf("pulling kernel %s/%s: %w", ref.Owner, ref.Slug, err)
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	fileName := ref.Slug + kernelExtension(res.Blob.Language, res.Blob.KernelType)
	dest := filepath.Join(destDir, fileName)
	if err := os.WriteFile(dest, []byte(res.Blob.Source), 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}

	if withMetadata {
		if err := writeMetadata(destDir, KernelMetadataFile, res.Metadata); err != nil {
			return "", err
		}
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}

// kernelOutputResponse is the payload from the kernel output endpoint.
type kernelOutputResponse struct {
	Files []struct {
		FileName string `json:"fileName"`
		URL      string `json:"url"`
	} `json:"files"`
	Log string `json:"log,omitempty"`
}

// KernelOutput downloads a kernel's execution output files into destDir
// and returns the paths written.
func (c *Client) KernelOutput(ctx context.Context, ref Ref, destDir string, force bool) ([]string, error) {
	q := url.Values{}
	q.Set("userName", ref.Owner)
	q.Set("kernelSlug", ref.Slug)

	var res kernelOutputResponse
	if err := c.do(ctx, http.MethodGet, "/kernels/output", q, nil, &res); err != nil {
		return nil, fmt.Errorf("fetching output for kernel %s/%s: %w", ref.Owner, ref.Slug, err)
	}

	saved := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		path, err := c.downloadURL(ctx, f.URL, destDir, filepath.Base(f.FileName), force)
		if err != nil {
			return nil, fmt.Errorf("downloading output file %s: %w", f.FileName, err)
		}
		saved = append(saved, path)
	}
	return saved, nil
}

// KernelStatus returns the execution status of a kernel's latest version.
func (c *Client) KernelStatus(ctx context.Context, ref Ref) (KernelStatusResult, error) {
	q := url.Values{}
	q.Set("userName", ref.Owner)
	q.Set("kernelSlug", ref.Slug)

	var res KernelStatusResult
	if err := c.do(ctx, http.MethodGet, "/kernels/status", q, nil, &res); err != nil {
		return KernelStatusResult{}, fmt.Errorf("fetching status for kernel %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return res, nil
}

// kernelExtension picks a file extension for pulled kernel source.
func kernelExtension(language, kernelType string) string {
	if kernelType == "notebook" {
		return ".ipynb"
	}
	switch language {
	case "r":
		return ".R"
	case "sqlite":
		return ".sql"
	case "julia":
		return ".jl"
	default:
		return ".py"
	}
}
