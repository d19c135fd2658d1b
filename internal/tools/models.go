package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

// ModelAPI is the slice of the Kaggle client the models toolset needs.
type ModelAPI interface {
	ModelsList(ctx context.Context, opts kaggle.ModelsListOptions) (kaggle.ModelsListPage, error)
	ModelGet(ctx context.Context, ref kaggle.Ref) (kaggle.Model, error)
	ModelCreate(ctx context.Context, folder string) (kaggle.ModelResult, error)
	ModelUpdate(ctx context.Context, folder string) (kaggle.ModelResult, error)
	ModelDelete(ctx context.Context, ref kaggle.Ref) (kaggle.ModelResult, error)
	ModelInstanceGet(ctx context.Context, ref kaggle.InstanceRef) (kaggle.ModelInstance, error)
	ModelInstanceCreate(ctx context.Context, folder string) (kaggle.ModelResult, error)
	ModelInstanceUpdate(ctx context.Context, folder string) (kaggle.ModelResult, error)
	ModelInstanceDelete(ctx context.Context, ref kaggle.InstanceRef) (kaggle.ModelResult, error)
	ModelInstanceVersionCreate(ctx context.Context, ref kaggle.InstanceRef, folder, versionNotes string) (kaggle.ModelResult, error)
	ModelInstanceVersionDownload(ctx context.Context, ref kaggle.InstanceVersionRef, destDir string, force bool) (string, error)
	ModelInstanceVersionFiles(ctx context.Context, ref kaggle.InstanceVersionRef, pageToken string, pageSize int) (kaggle.FileList, error)
	ModelInstanceVersionDelete(ctx context.Context, ref kaggle.InstanceVersionRef) (kaggle.ModelResult, error)
}

// Models exposes the model, model instance and instance version tools.
type Models struct {
	api   ModelAPI
	paths *security.Path
}

func NewModels(api ModelAPI, paths *security.Path) *Models {
	return &Models{api: api, paths: paths}
}

func (t *Models) Name() string { return "models" }

type modelsListInput struct {
	SortBy    string `json:"sort_by,omitempty" jsonschema:"Sort order: hotness, downloadCount, voteCount, notebookCount or createTime"`
	Search    string `json:"search,omitempty" jsonschema:"Search terms to filter models"`
	Owner     string `json:"owner,omitempty" jsonschema:"Filter by model owner"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
}

type modelGetInput struct {
	Model string `json:"model" jsonschema:"Model identifier in 'owner/model-slug' form"`
	Path  string `json:"path,omitempty" jsonschema:"Directory to write model-metadata.json into, defaults to the working directory"`
}

type modelInitializeInput struct {
	Folder string `json:"folder" jsonschema:"Folder to write a model-metadata.json template into"`
}

type modelFolderInput struct {
	Folder string `json:"folder" jsonschema:"Folder containing model-metadata.json"`
}

type modelDeleteInput struct {
	Model        string `json:"model" jsonschema:"Model identifier in 'owner/model-slug' form"`
	Confirmation bool   `json:"confirmation" jsonschema:"Must be true to confirm the deletion"`
}

type modelInstanceGetInput struct {
	ModelInstance string `json:"model_instance" jsonschema:"Instance identifier in 'owner/model/framework/instance-slug' form"`
	Path          string `json:"path,omitempty" jsonschema:"Directory to write model-instance-metadata.json into, defaults to the working directory"`
}

type modelInstanceInitializeInput struct {
	Folder string `json:"folder" jsonschema:"Folder to write a model-instance-metadata.json template into"`
}

type modelInstanceCreateInput struct {
	Folder string `json:"folder" jsonschema:"Folder containing model-instance-metadata.json and the model files"`
	Quiet  bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type modelInstanceUpdateInput struct {
	Folder string `json:"folder" jsonschema:"Folder containing model-instance-metadata.json"`
}

type modelInstanceDeleteInput struct {
	ModelInstance string `json:"model_instance" jsonschema:"Instance identifier in 'owner/model/framework/instance-slug' form"`
	Confirmation  bool   `json:"confirmation" jsonschema:"Must be true to confirm the deletion"`
}

type modelInstanceVersionCreateInput struct {
	ModelInstance string `json:"model_instance" jsonschema:"Instance identifier in 'owner/model/framework/instance-slug' form"`
	Folder        string `json:"folder" jsonschema:"Folder containing the files of the new version"`
	VersionNotes  string `json:"version_notes,omitempty" jsonschema:"Notes describing this version"`
	Quiet         bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type modelInstanceVersionDownloadInput struct {
	ModelInstanceVersion string `json:"model_instance_version" jsonschema:"Version identifier in 'owner/model/framework/instance-slug/version' form"`
	Path                 string `json:"path,omitempty" jsonschema:"Download directory, defaults to the working directory"`
	Force                bool   `json:"force,omitempty" jsonschema:"Overwrite an existing file"`
	Quiet                bool   `json:"quiet,omitempty" jsonschema:"Suppress progress output"`
}

type modelInstanceVersionFilesInput struct {
	ModelInstanceVersion string `json:"model_instance_version" jsonschema:"Version identifier in 'owner/model/framework/instance-slug/version' form"`
	PageToken            string `json:"page_token,omitempty" jsonschema:"Token for pagination"`
	PageSize             int    `json:"page_size,omitempty" jsonschema:"Number of items per page, default 20"`
}

type modelInstanceVersionDeleteInput struct {
	ModelInstanceVersion string `json:"model_instance_version" jsonschema:"Version identifier in 'owner/model/framework/instance-slug/version' form"`
	Confirmation         bool   `json:"confirmation" jsonschema:"Must be true to confirm the deletion"`
}

func (t *Models) Tools() []Tool {
	return []Tool{
		NewTool("models_list",
			"List Kaggle models matching the given filters.",
			t.list),
		NewTool("model_get",
			"Fetch a model's metadata, optionally writing model-metadata.json to a folder.",
			t.get),
		NewTool("model_initialize",
			"Write a model-metadata.json template into a folder.",
			t.initialize),
		NewTool("model_create",
			"Register a new model from a folder containing model-metadata.json.",
			t.create),
		NewTool("model_update",
			"Update a model from a folder containing model-metadata.json.",
			t.update),
		NewTool("model_delete",
			"Delete a model. Requires confirmation.",
			t.delete),
		NewTool("model_instance_get",
			"Fetch a model instance, optionally writing model-instance-metadata.json to a folder.",
			t.instanceGet),
		NewTool("model_instance_initialize",
			"Write a model-instance-metadata.json template into a folder.",
			t.instanceInitialize),
		NewTool("model_instance_create",
			"Create a model instance from a folder containing model-instance-metadata.json and the model files.",
			t.instanceCreate),
		NewTool("model_instance_update",
			"Update a model instance from a folder containing model-instance-metadata.json.",
			t.instanceUpdate),
		NewTool("model_instance_delete",
			"Delete a model instance and all of its versions. Requires confirmation.",
			t.instanceDelete),
		NewTool("model_instance_version_create",
			"Upload the files in a folder as a new version of a model instance.",
			t.instanceVersionCreate),
		NewTool("model_instance_version_download",
			"Download all files of a model instance version as a zip archive.",
			t.instanceVersionDownload),
		NewTool("model_instance_version_files",
			"List the files of a model instance version.",
			t.instanceVersionFiles),
		NewTool("model_instance_version_delete",
			"Delete one version of a model instance. Requires confirmation.",
			t.instanceVersionDelete),
	}
}

func (t *Models) list(ctx context.Context, in modelsListInput) (*Result, error) {
	if in.PageSize <= 0 {
		in.PageSize = 20
	}
	page, err := t.api.ModelsList(ctx, kaggle.ModelsListOptions{
		SortBy:    in.SortBy,
		Search:    in.Search,
		Owner:     in.Owner,
		PageSize:  in.PageSize,
		PageToken: in.PageToken,
	})
	if err != nil {
		return nil, err
	}

	data := map[string]any{"models": page.Models}
	if page.NextPageToken != "" {
		data["next_page_token"] = page.NextPageToken
	}
	return Success(fmt.Sprintf("Retrieved %d models.", len(page.Models)), data), nil
}

func (t *Models) get(ctx context.Context, in modelGetInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Model)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	model, err := t.api.ModelGet(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Metadata is always persisted; an empty path means the working
	// directory.
	saved, err := t.saveJSON(in.Path, kaggle.ModelMetadataFile, model)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"model":     in.Model,
		"data":      model,
		"file_path": saved,
	}
	return Success(fmt.Sprintf("Model '%s' metadata retrieved successfully.", in.Model), data), nil
}

func (t *Models) initialize(_ context.Context, in modelInitializeInput) (*Result, error) {
	if err := checkFolder(in.Folder); err != nil {
		return nil, err
	}
	if err := kaggle.InitModelMetadata(in.Folder); err != nil {
		return nil, &IOError{Op: "write", Path: in.Folder, Err: err}
	}
	return Success(fmt.Sprintf("Initialized model in folder: %s", in.Folder), map[string]any{
		"folder": in.Folder,
	}), nil
}

func (t *Models) create(ctx context.Context, in modelFolderInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.ModelMetadataFile); err != nil {
		return nil, err
	}

	res, err := t.api.ModelCreate(ctx, in.Folder)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model created: %s", res.Ref), resultData(res)), nil
}

func (t *Models) update(ctx context.Context, in modelFolderInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.ModelMetadataFile); err != nil {
		return nil, err
	}

	res, err := t.api.ModelUpdate(ctx, in.Folder)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model updated: %s", res.Ref), resultData(res)), nil
}

func (t *Models) delete(ctx context.Context, in modelDeleteInput) (*Result, error) {
	ref, err := kaggle.ParseRef(in.Model)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if !in.Confirmation {
		return nil, &ValidationError{Reason: "deletion not confirmed, set confirmation to true to delete"}
	}

	res, err := t.api.ModelDelete(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model '%s' deleted successfully.", in.Model), map[string]any{
		"model": in.Model,
	}), nil
}

func (t *Models) instanceGet(ctx context.Context, in modelInstanceGetInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceRef(in.ModelInstance)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	instance, err := t.api.ModelInstanceGet(ctx, ref)
	if err != nil {
		return nil, err
	}

	saved, err := t.saveJSON(in.Path, kaggle.ModelInstanceMetadataFile, instance)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"model_instance": in.ModelInstance,
		"data":           instance,
		"file_path":      saved,
	}
	return Success(fmt.Sprintf("Model instance '%s' retrieved successfully.", in.ModelInstance), data), nil
}

func (t *Models) instanceInitialize(_ context.Context, in modelInstanceInitializeInput) (*Result, error) {
	if err := checkFolder(in.Folder); err != nil {
		return nil, err
	}
	if err := kaggle.InitModelInstanceMetadata(in.Folder); err != nil {
		return nil, &IOError{Op: "write", Path: in.Folder, Err: err}
	}
	return Success(fmt.Sprintf("Initialized model instance in folder: %s", in.Folder), map[string]any{
		"folder": in.Folder,
	}), nil
}

func (t *Models) instanceCreate(ctx context.Context, in modelInstanceCreateInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.ModelInstanceMetadataFile); err != nil {
		return nil, err
	}

	res, err := t.api.ModelInstanceCreate(ctx, in.Folder)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model instance created: %s", res.Ref), resultData(res)), nil
}

func (t *Models) instanceUpdate(ctx context.Context, in modelInstanceUpdateInput) (*Result, error) {
	if err := checkMetadataFile(in.Folder, kaggle.ModelInstanceMetadataFile); err != nil {
		return nil, err
	}

	res, err := t.api.ModelInstanceUpdate(ctx, in.Folder)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model instance updated: %s", res.Ref), resultData(res)), nil
}

func (t *Models) instanceDelete(ctx context.Context, in modelInstanceDeleteInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceRef(in.ModelInstance)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if !in.Confirmation {
		return nil, &ValidationError{Reason: "deletion not confirmed, set confirmation to true to delete"}
	}

	res, err := t.api.ModelInstanceDelete(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model instance '%s' deleted successfully.", in.ModelInstance), map[string]any{
		"model_instance": in.ModelInstance,
	}), nil
}

func (t *Models) instanceVersionCreate(ctx context.Context, in modelInstanceVersionCreateInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceRef(in.ModelInstance)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if err := checkFolder(in.Folder); err != nil {
		return nil, err
	}

	res, err := t.api.ModelInstanceVersionCreate(ctx, ref, in.Folder, in.VersionNotes)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model instance version created for '%s'.", in.ModelInstance), resultData(res)), nil
}

func (t *Models) instanceVersionDownload(ctx context.Context, in modelInstanceVersionDownloadInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceVersionRef(in.ModelInstanceVersion)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	dest, err := resolveDest(t.paths, in.Path)
	if err != nil {
		return nil, err
	}

	saved, err := t.api.ModelInstanceVersionDownload(ctx, ref, dest, in.Force)
	if err != nil {
		return nil, err
	}
	return Success(fmt.Sprintf("Downloaded model instance version '%s'.", in.ModelInstanceVersion), map[string]any{
		"model_instance_version": in.ModelInstanceVersion,
		"saved_path":             saved,
	}), nil
}

func (t *Models) instanceVersionFiles(ctx context.Context, in modelInstanceVersionFilesInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceVersionRef(in.ModelInstanceVersion)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if in.PageSize <= 0 {
		in.PageSize = 20
	}

	list, err := t.api.ModelInstanceVersionFiles(ctx, ref, in.PageToken, in.PageSize)
	if err != nil {
		return nil, err
	}

	data := map[string]any{"files": list.Files}
	if list.NextPageToken != "" {
		data["next_page_token"] = list.NextPageToken
	}
	return Success(fmt.Sprintf("Retrieved %d files for '%s'.", len(list.Files), in.ModelInstanceVersion), data), nil
}

func (t *Models) instanceVersionDelete(ctx context.Context, in modelInstanceVersionDeleteInput) (*Result, error) {
	ref, err := kaggle.ParseInstanceVersionRef(in.ModelInstanceVersion)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if !in.Confirmation {
		return nil, &ValidationError{Reason: "deletion not confirmed, set confirmation to true to delete"}
	}

	res, err := t.api.ModelInstanceVersionDelete(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, &ValidationError{Reason: res.Error}
	}
	return Success(fmt.Sprintf("Model instance version '%s' deleted successfully.", in.ModelInstanceVersion), map[string]any{
		"model_instance_version": in.ModelInstanceVersion,
	}), nil
}

// saveJSON writes v as indented JSON into dir under name, creating dir
// if needed, and returns the absolute path written.
func (t *Models) saveJSON(dir, name string, v any) (string, error) {
	dest, err := resolveDest(t.paths, dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return "", &IOError{Op: "mkdir", Path: dest, Err: err}
	}

	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dest, name)
	if err := os.WriteFile(path, raw, 0o640); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

func resultData(res kaggle.ModelResult) map[string]any {
	data := map[string]any{}
	if res.ID != 0 {
		data["id"] = res.ID
	}
	if res.Ref != "" {
		data["ref"] = res.Ref
	}
	if res.URL != "" {
		data["url"] = res.URL
	}
	return data
}
