package tools

import (
	"context"
	"fmt"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

// DatasetAPI is the slice of the Kaggle client the datasets toolset needs.
type DatasetAPI interface {
	DatasetsList(ctx context.Context, opts kaggle.DatasetsListOptions) ([]kaggle.Dataset, error)
	DatasetMetadataDownload(ctx context.Context, ref kaggle.Ref, destDir string) (string, error)
	DatasetListFiles(ctx context.Context, ref kaggle.Ref, pageToken string, pageSize int) (kaggle.FileList, error)
	DatasetStatus(ctx context.Context, ref kaggle.Ref) (string, error)
	DatasetDownloadFile(ctx context.Context, ref kaggle.Ref, fileName, destDir string, force bool) (string, error)
	DatasetDownloadFiles(ctx context.Context, ref kaggle.Ref, destDir string, force bool) (string, error)
	DatasetCreate(ctx context.Context, folder string, public, convertToCSV bool) (kaggle.DatasetVersionResult, error)
	DatasetCreateVersion(ctx context.Context, folder, versionNotes string, convertToCSV, deleteOldVersions bool) (kaggle.DatasetVersionResult, error)
}

// Datasets exposes the dataset tools.
type Datasets struct {
	api   DatasetAPI
	paths *security.Path
}

func NewDatasets(api DatasetAPI, paths *security.Path) *Datasets {
	return &Datasets{api: api, paths: paths}
}

func (t *Datasets) Name() string { return "datasets" }

type datasetsListInput struct {
	SortBy      string `json:"sort_by,omitempty" jsonschema:"Sort order: hottest, votes, updated or active"`
	FileType    string `json:"file_type,omitempty" jsonschema:"Filter by file type: csv, sqlite, json or bigQuery"`
	LicenseName string `json:"license_name,omitempty" jsonschema:"Filter by license: all, cc, gpl, odb or other"`
	TagIDs      string `json:"tag_ids,omitempty" jsonschema:"Comma separated list of tag ids"`
	Search      string `json:"search,omitempty" jsonschema:"Search terms to filter datasets"`
	User        string `json:"user,omitempty" jsonschema:"Filter by dataset owner"`
	Mine        bool   `json:"mine,omitempty" jsonschema:"Only list your own datasets"`
	Page        int    `json:"page,omitempty" jsonschema:"Page number for results paging, starting at 1"`
	MaxSize     int64  `json:"max_size,omitempty" jsonschema:"Maximum dataset size in bytes"`
	MinSize     int64  `json:"min_size,omitempty" jsonschema:"Minimum dataset size in bytes"`
}

type datasetMetadataInput struct {
	Dataset string `json:"dataset" jsonschema:"Dataset identifier in 'owner/dataset-slug' form"`
	Path    string `json:"path,omitempty" jsonschema:"Directory to write dataset-metadata.json into"`
}

type datasetListFilesInput struct {
	Dataset   string `json:"dataset" jsonschema:"Dataset identifier in 'owner/dataset-slug' form"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
}

type datasetStatusInput struct {
	Dataset string `json:"dataset" jsonschema:"Dataset identifier in 'owner/dataset-slug' form"`
}

type datasetDownloadFileInput struct {
	Dataset  string `json:"dataset" jsonschema:"Dataset identifier in 'owner/dataset-slug' form"`
	FileName string `json:"file_name" jsonschema:"Name of the file to download"`
	Path     string `json:"path,omitempty" jsonschema:"Download directory, defaults to the working directory"`
	Force    bool   `json:"force,omitempty" jsonschema:"Overwrite an existing file"`
	Quiet    bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type datasetDownloadFilesInput struct {
	Dataset string `json:"dataset" jsonschema:"Dataset identifier in 'owner/dataset-slug' form"`
	Path    string `json:"path,omitempty" jsonschema:"Download directory, defaults to the working directory"`
	Force   bool   `json:"force,omitempty" jsonschema:"Overwrite an existing file"`
	Quiet   bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type datasetCreateInput struct {
	Folder       string `json:"folder" jsonschema:"Folder containing dataset-metadata.json and the data files"`
	Public       bool   `json:"public,omitempty" jsonschema:"Make the dataset public, default private"`
	Quiet        bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
	ConvertToCSV *bool  `json:"convert_to_csv,omitempty" jsonschema:"Convert tabular files to CSV, default true"`
}

type datasetInitializeInput struct {
	Folder string `json:"folder" jsonschema:"Folder to write a dataset-metadata.json template into"`
}

type datasetCreateVersionInput struct {
	Folder            string `json:"folder" jsonschema:"Folder containing dataset-metadata.json and the data files"`
	VersionNotes      string `json:"version_notes" jsonschema:"Notes describing this version"`
	Quiet             bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
	ConvertToCSV      *bool  `json:"convert_to_csv,omitempty" jsonschema:"Convert tabular files to CSV, default true"`
	DeleteOldVersions bool   `json:"delete_old_versions,omitempty" jsonschema:"Delete earlier versions of the dataset"`
}

func (t *Datasets) Tools() []Tool {
	return []Tool{
		NewTool("datasets_list",
			"List Kaggle datasets matching the given filters.",
			t.list),
		NewTool("dataset_metadata",
			"Download the metadata of a dataset, optionally writing dataset-metadata.json to a folder.",
			t.metadata),
		NewTool("dataset_list_files",
			"List the files of a dataset.",
			t.listFiles),
		NewTool("dataset_status",
			"Get the creation status of a dataset.",
			t.status),
		NewTool("dataset_download_file",
			"Download a single file of a dataset.",
			t.downloadFile),
		NewTool("dataset_download_files",
			"Download all files of a dataset as a zip archive.",
			t.downloadFiles),
		NewTool("dataset_create",
			"Create a new dataset from a folder containing dataset-metadata.json.",
			t.create),
		NewTool("dataset_initialize",
			"Write a dataset-metadata.json template into a folder.",
			t.initialize),
		NewTool("dataset_create_version",
			"Create a new version of an existing dataset from a folder.",
			t.createVersion),
	}
}

func (t *Datasets) list(ctx context.Context, in datasetsListInput) (*Result, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	datasets, err := t.api.DatasetsList(ctx, kaggle.DatasetsListOptions{
		SortBy:      in.SortBy,
		FileType:    in.FileType,
		LicenseName: in.LicenseName,
		TagIDs:      in.TagIDs,
		Search:      in.Search,
		User:        in.User,
		Mine:        in.Mine,
		Page:        in.Page,
		MaxSize:     in.MaxSize,
		MinSize:     in.MinSize,
	})
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(datasets))
	for _, d := range datasets {
		refs = append(refs, d.Ref)
	}
	return Success(fmt.Sprintf("Retrieved %d datasets.", len(datasets)), map[string]any{
		"datasets": refs,
	}), nil
}

func (t *Datasets) metadata(ctx context.Context, in datasetMetadataInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Dataset)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.DatasetMetadataDownload(ctx, ref, dest)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded metadata for dataset '%s'.", in.Dataset), map[string]any{
		"dataset":    in.Dataset,
		"saved_path": saved,
	}), nil
}

func (t *Datasets) listFiles(ctx context.Context, in datasetListFilesInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Dataset)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if in.PageSize <= 0 {
		in.PageSize = 20
	}

	list, err := t.api.DatasetListFiles(ctx, ref, in.PageToken, in.PageSize)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"files": list.Files}
	if list.NextPageToken != "" {
		data["next_page_token"] = list.NextPageToken
	}
	return Success(fmt.Sprintf("Retrieved %d files for '%s'.", len(list.Files), in.Dataset), data), nil
}

func (t *Datasets) status(ctx context.Context, in datasetStatusInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Dataset)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	status, err := t.api.DatasetStatus(ctx, ref)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Dataset '%s' status: %s", in.Dataset, status), map[string]any{
		"dataset": in.Dataset,
		"data":    status,
	}), nil
}

func (t *Datasets) downloadFile(ctx context.Context, in datasetDownloadFileInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Dataset)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.DatasetDownloadFile(ctx, ref, in.FileName, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("File '%s' from '%s' downloaded successfully.", in.FileName, in.Dataset), map[string]any{
		"dataset":    in.Dataset,
		"file_name":  in.FileName,
		"saved_path": saved,
	}), nil
}

func (t *Datasets) downloadFiles(ctx context.Context, in datasetDownloadFilesInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Dataset)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.DatasetDownloadFiles(ctx, ref, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded all files for dataset '%s'.", in.Dataset), map[string]any{
		"dataset":    in.Dataset,
		"saved_path": saved,
	}), nil
}

func (t *Datasets) create(ctx context.Context, in datasetCreateInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.DatasetMetadataFile); err != nil {
		return nil, err
	}
	convertToCSV := true
	if in.ConvertToCSV != nil {
		convertToCSV = *in.ConvertToCSV
	}

	res, err := t.api.DatasetCreate(ctx, in.Folder, in.Public, convertToCSV)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Dataset created: %s", res.Ref), map[string]any{
		"ref": res.Ref,
		"url": res.URL,
	}), nil
}

func (t *Datasets) initialize(_ context.Context, in datasetInitializeInput) (*Result, error) {
	if err := checkFolder(in.Folder); err != nil {
		return nil, err
	}
	if err := kaggle.InitDatasetMetadata(in.Folder); err != nil {
		return nil, &IOError{Op: "write", Path: in.Folder, Err: err}
	}
	return Success(fmt.Sprintf("Initialized dataset in folder: %s", in.Folder), map[string]any{
		"folder": in.Folder,
	}), nil
}

func (t *Datasets) createVersion(ctx context.Context, in datasetCreateVersionInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.DatasetMetadataFile); err != nil {
		return nil, err
	}
	convertToCSV := true
	if in.ConvertToCSV != nil {
		convertToCSV = *in.ConvertToCSV
	}

	res, err := t.api.DatasetCreateVersion(ctx, in.Folder, in.VersionNotes, convertToCSV, in.DeleteOldVersions)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Dataset version created: %s", res.Ref), map[string]any{
		"ref":    res.Ref,
		"url":    res.URL,
		"status": res.Status,
	}), nil
}
