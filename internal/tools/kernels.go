package tools

import (
	"context"
	"fmt"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

// KernelAPI is the slice of the Kaggle client the kernels toolset needs.
type KernelAPI interface {
	KernelsList(ctx context.Context, opts kaggle.KernelsListOptions) ([]kaggle.Kernel, error)
	KernelListFiles(ctx context.Context, ref kaggle.Ref, pageToken string, pageSize int) (kaggle.FileList, error)
	KernelPush(ctx context.Context, folder string) (kaggle.KernelPushResult, error)
	KernelPull(ctx context.Context, ref kaggle.Ref, destDir string, withMetadata bool) (string, error)
	KernelOutput(ctx context.Context, ref kaggle.Ref, destDir string, force bool) ([]string, error)
	KernelStatus(ctx context.Context, ref kaggle.Ref) (kaggle.KernelStatusResult, error)
}

// Kernels exposes the kernel (notebook and script) tools.
type Kernels struct {
	api   KernelAPI
	paths *security.Path
}

func NewKernels(api KernelAPI, paths *security.Path) *Kernels {
	return &Kernels{api: api, paths: paths}
}

func (t *Kernels) Name() string { return "kernels" }

type kernelsListInput struct {
	PageSize    int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
	Page        int    `json:"page,omitempty" jsonschema:"Page number for results paging, starting at 1"`
	Search      string `json:"search,omitempty" jsonschema:"Search terms to filter kernels"`
	Competition string `json:"competition,omitempty" jsonschema:"Only kernels attached to this competition"`
	Dataset     string `json:"dataset,omitempty" jsonschema:"Only kernels attached to this dataset"`
	User        string `json:"user,omitempty" jsonschema:"Filter by kernel owner"`
	Mine        bool   `json:"mine,omitempty" jsonschema:"Only list your own kernels"`
	SortBy      string `json:"sort_by,omitempty" jsonschema:"Sort order, e.g. hotness, votes or dateCreated"`
	Language    string `json:"language,omitempty" jsonschema:"Filter by language: all, python, r, sqlite or julia"`
	KernelType  string `json:"kernel_type,omitempty" jsonschema:"Filter by type: all, script or notebook"`
	OutputType  string `json:"output_type,omitempty" jsonschema:"Filter by output: all, visualization or data"`
}

type kernelListFilesInput struct {
	Kernel    string `json:"kernel" jsonschema:"Kernel identifier in 'owner/kernel-slug' form"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
}

type kernelInitializeInput struct {
	Folder string `json:"folder" jsonschema:"Folder to write a kernel-metadata.json template into"`
}

type kernelPushInput struct {
	Folder string `json:"folder" jsonschema:"Folder containing kernel-metadata.json and the code file"`
}

type kernelPullInput struct {
	Kernel   string `json:"kernel" jsonschema:"Kernel identifier in 'owner/kernel-slug' form"`
	Path     string `json:"path" jsonschema:"Directory to write the kernel source into"`
	Metadata bool   `json:"metadata,omitempty" jsonschema:"Also write kernel-metadata.json"`
	Quiet    bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type kernelOutputInput struct {
	Kernel string `json:"kernel" jsonschema:"Kernel identifier in 'owner/kernel-slug' form"`
	Path   string `json:"path" jsonschema:"Directory to write the output files into"`
	Force  bool   `json:"force,omitempty" jsonschema:"Overwrite existing files"`
	Quiet  bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type kernelStatusInput struct {
	Kernel string `json:"kernel" jsonschema:"Kernel identifier in 'owner/kernel-slug' form"`
}

func (t *Kernels) Tools() []Tool {
	return []Tool{
		NewTool("kernels_list",
			"List Kaggle kernels matching the given filters.",
			t.list),
		NewTool("kernel_list_files",
			"List the files attached to a kernel.",
			t.listFiles),
		NewTool("kernel_initialize",
			"Write a kernel-metadata.json template into a folder.",
			t.initialize),
		NewTool("kernel_push",
			"Push a new version of a kernel from a folder containing kernel-metadata.json.",
			t.push),
		NewTool("kernel_pull",
			"Download a kernel's source code, optionally with its metadata.",
			t.pull),
		NewTool("kernel_output",
			"Download the output files of a kernel's latest run.",
			t.output),
		NewTool("kernel_status",
			"Get the execution status of a kernel's latest run.",
			t.status),
	}
}

func (t *Kernels) list(ctx context.Context, in kernelsListInput) (*Result, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = 20
	}

	kernels, err := t.api.KernelsList(ctx, kaggle.KernelsListOptions{
		Page:        in.Page,
		PageSize:    in.PageSize,
		Search:      in.Search,
		Competition: in.Competition,
		Dataset:     in.Dataset,
		User:        in.User,
		Mine:        in.Mine,
		SortBy:      in.SortBy,
		Language:    in.Language,
		KernelType:  in.KernelType,
		OutputType:  in.OutputType,
	})
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(kernels))
	for _, k := range kernels {
		refs = append(refs, k.Ref)
	}
	return Success(fmt.Sprintf("Retrieved %d kernels.", len(kernels)), map[string]any{
		"kernels": refs,
	}), nil
}

func (t *Kernels) listFiles(ctx context.Context, in kernelListFilesInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Kernel)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if in.PageSize <= 0 {
		in.PageSize = 20
	}

	list, err := t.api.KernelListFiles(ctx, ref, in.PageToken, in.PageSize)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"files": list.Files}
	if list.NextPageToken != "" {
		data["next_page_token"] = list.NextPageToken
	}
	return Success(fmt.Sprintf("Retrieved %d files for '%s'.", len(list.Files), in.Kernel), data), nil
}

func (t *Kernels) initialize(_ context.Context, in kernelInitializeInput) (*Result, error) {
	if err := checkFolder(in.Folder); err != nil {
		return nil, err
	}
	if err := kaggle.InitKernelMetadata(in.Folder); err != nil {
		return nil, &IOError{Op: "write", Path: in.Folder, Err: err}
	}
	return Success(fmt.Sprintf("Initialized kernel in folder: %s", in.Folder), map[string]any{
		"folder": in.Folder,
	}), nil
}

func (t *Kernels) push(ctx context.Context, in kernelPushInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.KernelMetadataFile); err != nil {
		return nil, err
	}

	res, err := t.api.KernelPush(ctx, in.Folder)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}

	data := map[string]any{
		"ref": res.Ref,
		"url": res.URL,
	}
	if res.VersionNumber > 0 {
		data["version_number"] = res.VersionNumber
	}
	if len(res.InvalidTags) > 0 {
		data["invalid_tags"] = res.InvalidTags
	}
	if len(res.InvalidDatasetSources) > 0 {
		data["invalid_dataset_sources"] = res.InvalidDatasetSources
	}
	if len(res.InvalidCompetitionSources) > 0 {
		data["invalid_competition_sources"] = res.InvalidCompetitionSources
	}
	if len(res.InvalidKernelSources) > 0 {
		data["invalid_kernel_sources"] = res.InvalidKernelSources
	}
	return Success(fmt.Sprintf("Kernel push successful: %s", res.Ref), data), nil
}

func (t *Kernels) pull(ctx context.Context, in kernelPullInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Kernel)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.KernelPull(ctx, ref, dest, in.Metadata)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Pulled kernel '%s'.", in.Kernel), map[string]any{
		"kernel":     in.Kernel,
		"saved_path": saved,
	}), nil
}

func (t *Kernels) output(ctx context.Context, in kernelOutputInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Kernel)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.KernelOutput(ctx, ref, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded %d output files for kernel '%s'.", len(saved), in.Kernel), map[string]any{
		"kernel":      in.Kernel,
		"saved_paths": saved,
	}), nil
}

func (t *Kernels) status(ctx context.Context, in kernelStatusInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Kernel)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	res, err := t.api.KernelStatus(ctx, ref)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"kernel": in.Kernel,
		"data":   res,
	}
	return Success(fmt.Sprintf("Kernel '%s' status: %s", in.Kernel, res.Status), data), nil
}
