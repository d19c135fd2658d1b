package kaggle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const modelUploadSlotPath = "/models/upload/file"

// ModelsList returns one page of models matching the given filters.
func (c *Client) ModelsList(ctx context.Context, opts ModelsListOptions) (ModelsListPage, error) {
	q := url.Values{}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Owner != "" {
		q.Set("owner", opts.Owner)
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.PageToken != "" {
		q.Set("pageToken", opts.PageToken)
	}

	var page ModelsListPage
	if err := c.do(ctx, http.MethodGet, "/models/list", q, nil, &page); err != nil {
		return ModelsListPage{}, fmt.Errorf("listing models: %w", err)
	}
	return page, nil
}

// ModelGet fetches a single model's metadata.
func (c *Client) ModelGet(ctx context.Context, ref Ref) (Model, error) {
	var model Model
	path := fmt.Sprintf("/models/%s/%s/get", ref.Owner, ref.Slug)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &model); err != nil {
		return Model{}, fmt.Errorf("fetching model %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return model, nil
}

// ModelCreate reads model-metadata.json from folder and registers a new model.
func (c *Client) ModelCreate(ctx context.Context, folder string) (ModelResult, error) {
	meta, err := ReadModelMetadata(folder)
	if err != nil {
		return ModelResult{}, err
	}

	var res ModelResult
	if err := c.do(ctx, http.MethodPost, "/models/create/new", nil, meta, &res); err != nil {
		return ModelResult{}, fmt.Errorf("creating model %s/%s: %w", meta.OwnerSlug, meta.Slug, err)
	}
	return res, nil
}

// ModelUpdate reads model-metadata.json from folder and updates the model
// it identifies.
func (c *Client) ModelUpdate(ctx context.Context, folder string) (ModelResult, error) {
	meta, err := ReadModelMetadata(folder)
	if err != nil {
		return ModelResult{}, err
	}

	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/update", meta.OwnerSlug, meta.Slug)
	if err := c.do(ctx, http.MethodPost, path, nil, meta, &res); err != nil {
		return ModelResult{}, fmt.Errorf("updating model %s/%s: %w", meta.OwnerSlug, meta.Slug, err)
	}
	return res, nil
}

// ModelDelete removes a model and everything under it.
func (c *Client) ModelDelete(ctx context.Context, ref Ref) (ModelResult, error) {
	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/delete", ref.Owner, ref.Slug)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &res); err != nil {
		return ModelResult{}, fmt.Errorf("deleting model %s/%s: %w", ref.Owner, ref.Slug, err)
	}
	return res, nil
}

// ModelInstance describes one framework variation of a model.
type ModelInstance struct {
	ID          int    `json:"id,omitempty"`
	URL         string `json:"url,omitempty"`
	Framework   string `json:"framework,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Overview    string `json:"overview,omitempty"`
	Usage       string `json:"usage,omitempty"`
	LicenseName string `json:"licenseName,omitempty"`
	FineTunable bool   `json:"fineTunable,omitempty"`
	VersionID   int    `json:"versionId,omitempty"`
}

// ModelInstanceGet fetches a single model instance.
func (c *Client) ModelInstanceGet(ctx context.Context, ref InstanceRef) (ModelInstance, error) {
	var instance ModelInstance
	path := fmt.Sprintf("/models/%s/%s/%s/%s/get", ref.Owner, ref.Model, ref.Framework, ref.Slug)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &instance); err != nil {
		return ModelInstance{}, fmt.Errorf("fetching model instance %s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, err)
	}
	return instance, nil
}

// modelInstanceRequest is the payload for instance create and update calls.
type modelInstanceRequest struct {
	InstanceSlug string        `json:"instanceSlug"`
	Framework    string        `json:"framework"`
	Overview     string        `json:"overview,omitempty"`
	Usage        string        `json:"usage,omitempty"`
	LicenseName  string        `json:"licenseName"`
	FineTunable  bool          `json:"fineTunable"`
	Files        []modelUpload `json:"files,omitempty"`
}

type modelUpload struct {
	Token string `json:"token"`
}

// ModelInstanceCreate reads model-instance-metadata.json from folder,
// uploads the folder's files and creates the instance under its model.
func (c *Client) ModelInstanceCreate(ctx context.Context, folder string) (ModelResult, error) {
	meta, err := ReadModelInstanceMetadata(folder)
	if err != nil {
		return ModelResult{}, err
	}

	tokens, err := c.uploadFolder(ctx, modelUploadSlotPath, folder, map[string]bool{ModelInstanceMetadataFile: true})
	if err != nil {
		return ModelResult{}, err
	}

	req := modelInstanceRequest{
		InstanceSlug: meta.InstanceSlug,
		Framework:    meta.Framework,
		Overview:     meta.Overview,
		Usage:        meta.Usage,
		LicenseName:  meta.LicenseName,
		FineTunable:  meta.FineTunable,
		Files:        modelUploadsFromTokens(tokens),
	}

	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/create/instance", meta.OwnerSlug, meta.ModelSlug)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return ModelResult{}, fmt.Errorf("creating model instance %s/%s/%s/%s: %w",
			meta.OwnerSlug, meta.ModelSlug, meta.Framework, meta.InstanceSlug, err)
	}
	return res, nil
}

// ModelInstanceUpdate reads model-instance-metadata.json from folder and
// updates the instance it identifies.
func (c *Client) ModelInstanceUpdate(ctx context.Context, folder string) (ModelResult, error) {
	meta, err := ReadModelInstanceMetadata(folder)
	if err != nil {
		return ModelResult{}, err
	}

	req := modelInstanceRequest{
		InstanceSlug: meta.InstanceSlug,
		Framework:    meta.Framework,
		Overview:     meta.Overview,
		Usage:        meta.Usage,
		LicenseName:  meta.LicenseName,
		FineTunable:  meta.FineTunable,
	}

	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/%s/%s/update",
		meta.OwnerSlug, meta.ModelSlug, meta.Framework, meta.InstanceSlug)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return ModelResult{}, fmt.Errorf("updating model instance %s/%s/%s/%s: %w",
			meta.OwnerSlug, meta.ModelSlug, meta.Framework, meta.InstanceSlug, err)
	}
	return res, nil
}

// ModelInstanceDelete removes a model instance and all of its versions.
func (c *Client) ModelInstanceDelete(ctx context.Context, ref InstanceRef) (ModelResult, error) {
	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/%s/%s/delete", ref.Owner, ref.Model, ref.Framework, ref.Slug)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &res); err != nil {
		return ModelResult{}, fmt.Errorf("deleting model instance %s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, err)
	}
	return res, nil
}

// modelVersionRequest is the payload for creating an instance version.
type modelVersionRequest struct {
	VersionNotes string        `json:"versionNotes,omitempty"`
	Files        []modelUpload `json:"files"`
}

// ModelInstanceVersionCreate uploads the files in folder as a new version
// of an existing model instance.
func (c *Client) ModelInstanceVersionCreate(ctx context.Context, ref InstanceRef, folder, versionNotes string) (ModelResult, error) {
	tokens, err := c.uploadFolder(ctx, modelUploadSlotPath, folder, map[string]bool{ModelInstanceMetadataFile: true})
	if err != nil {
		return ModelResult{}, err
	}

	req := modelVersionRequest{
		VersionNotes: versionNotes,
		Files:        modelUploadsFromTokens(tokens),
	}

	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/%s/%s/create/version",
		ref.Owner, ref.Model, ref.Framework, ref.Slug)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return ModelResult{}, fmt.Errorf("creating version for model instance %s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, err)
	}
	return res, nil
}

// ModelInstanceVersionDownload fetches all files of an instance version as
// a single zip archive and returns the path written.
func (c *Client) ModelInstanceVersionDownload(ctx context.Context, ref InstanceVersionRef, destDir string, force bool) (string, error) {
	path := fmt.Sprintf("/models/%s/%s/%s/%s/%s/download",
		ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version)
	saved, err := c.download(ctx, path, nil, destDir, ref.Slug+".zip", force)
	if err != nil {
		return "", fmt.Errorf("downloading model instance version %s/%s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version, err)
	}
	return saved, nil
}

// ModelInstanceVersionFiles lists the files of an instance version.
func (c *Client) ModelInstanceVersionFiles(ctx context.Context, ref InstanceVersionRef, pageToken string, pageSize int) (FileList, error) {
	q := pageQuery(pageToken, pageSize)

	var list FileList
	path := fmt.Sprintf("/models/%s/%s/%s/%s/%s/files",
		ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &list); err != nil {
		return FileList{}, fmt.Errorf("listing files for model instance version %s/%s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version, err)
	}
	return list, nil
}

// ModelInstanceVersionDelete removes one version of a model instance.
func (c *Client) ModelInstanceVersionDelete(ctx context.Context, ref InstanceVersionRef) (ModelResult, error) {
	var res ModelResult
	path := fmt.Sprintf("/models/%s/%s/%s/%s/%s/delete",
		ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &res); err != nil {
		return ModelResult{}, fmt.Errorf("deleting model instance version %s/%s/%s/%s/%s: %w",
			ref.Owner, ref.Model, ref.Framework, ref.Slug, ref.Version, err)
	}
	return res, nil
}

func modelUploadsFromTokens(tokens []string) []modelUpload {
	uploads := make([]modelUpload, 0, len(tokens))
	for _, t := range tokens {
		uploads = append(uploads, modelUpload{Token: t})
	}
	return uploads
}
