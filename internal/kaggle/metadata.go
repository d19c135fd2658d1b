package kaggle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Metadata file names, matching the official Kaggle CLI conventions.
const (
	DatasetMetadataFile       = "dataset-metadata.json"
	KernelMetadataFile        = "kernel-metadata.json"
	ModelMetadataFile         = "model-metadata.json"
	ModelInstanceMetadataFile = "model-instance-metadata.json"
)

// DatasetMetadata is the dataset-metadata.json payload.
type DatasetMetadata struct {
	Title    string           `json:"title"`
	ID       string           `json:"id"`
	Subtitle string           `json:"subtitle,omitempty"`
	Licenses []DatasetLicense `json:"licenses"`
}

// DatasetLicense names one accepted license.
type DatasetLicense struct {
	Name string `json:"name"`
}

// KernelMetadata is the kernel-metadata.json payload.
type KernelMetadata struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	CodeFile           string   `json:"code_file"`
	Language           string   `json:"language"`
	KernelType         string   `json:"kernel_type"`
	IsPrivate          bool     `json:"is_private"`
	EnableGPU          bool     `json:"enable_gpu"`
	EnableInternet     bool     `json:"enable_internet"`
	DatasetSources     []string `json:"dataset_sources"`
	CompetitionSources []string `json:"competition_sources"`
	KernelSources      []string `json:"kernel_sources"`
}

// ModelMetadata is the model-metadata.json payload.
type ModelMetadata struct {
	OwnerSlug   string `json:"ownerSlug"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	IsPrivate   bool   `json:"isPrivate"`
	Description string `json:"description,omitempty"`
}

// ModelInstanceMetadata is the model-instance-metadata.json payload.
type ModelInstanceMetadata struct {
	OwnerSlug    string `json:"ownerSlug"`
	ModelSlug    string `json:"modelSlug"`
	InstanceSlug string `json:"instanceSlug"`
	Framework    string `json:"framework"`
	Overview     string `json:"overview,omitempty"`
	Usage        string `json:"usage,omitempty"`
	LicenseName  string `json:"licenseName"`
	FineTunable  bool   `json:"fineTunable"`
}

// InitDatasetMetadata writes a default dataset-metadata.json template
// into folder for the user to fill in.
func InitDatasetMetadata(folder string) error {
	meta := DatasetMetadata{
		Title:    "INSERT_TITLE_HERE",
		ID:       "INSERT_OWNER_SLUG_HERE/INSERT_DATASET_SLUG_HERE",
		Licenses: []DatasetLicense{{Name: "CC0-1.0"}},
	}
	return writeMetadata(folder, DatasetMetadataFile, meta)
}

// InitKernelMetadata writes a default kernel-metadata.json template.
func InitKernelMetadata(folder string) error {
	meta := KernelMetadata{
		ID:                 "INSERT_OWNER_SLUG_HERE/INSERT_KERNEL_SLUG_HERE",
		Title:              "INSERT_TITLE_HERE",
		CodeFile:           "INSERT_CODE_FILE_PATH_HERE",
		Language:           "python",
		KernelType:         "script",
		IsPrivate:          true,
		DatasetSources:     []string{},
		CompetitionSources: []string{},
		KernelSources:      []string{},
	}
	return writeMetadata(folder, KernelMetadataFile, meta)
}

// InitModelMetadata writes a default model-metadata.json template.
func InitModelMetadata(folder string) error {
	meta := ModelMetadata{
		OwnerSlug: "INSERT_OWNER_SLUG_HERE",
		Slug:      "INSERT_MODEL_SLUG_HERE",
		Title:     "INSERT_TITLE_HERE",
		IsPrivate: true,
	}
	return writeMetadata(folder, ModelMetadataFile, meta)
}

// InitModelInstanceMetadata writes a default model-instance-metadata.json
// template.
func InitModelInstanceMetadata(folder string) error {
	meta := ModelInstanceMetadata{
		OwnerSlug:    "INSERT_OWNER_SLUG_HERE",
		ModelSlug:    "INSERT_MODEL_SLUG_HERE",
		InstanceSlug: "INSERT_INSTANCE_SLUG_HERE",
		Framework:    "INSERT_FRAMEWORK_HERE",
		LicenseName:  "Apache 2.0",
	}
	return writeMetadata(folder, ModelInstanceMetadataFile, meta)
}

// ReadDatasetMetadata loads dataset-metadata.json from folder.
func ReadDatasetMetadata(folder string) (DatasetMetadata, error) {
	var meta DatasetMetadata
	if err := readMetadata(folder, DatasetMetadataFile, &meta); err != nil {
		return DatasetMetadata{}, err
	}
	return meta, nil
}

// ReadKernelMetadata loads kernel-metadata.json from folder.
func ReadKernelMetadata(folder string) (KernelMetadata, error) {
	var meta KernelMetadata
	if err := readMetadata(folder, KernelMetadataFile, &meta); err != nil {
		return KernelMetadata{}, err
	}
	return meta, nil
}

// ReadModelMetadata loads model-metadata.json from folder.
func ReadModelMetadata(folder string) (ModelMetadata, error) {
	var meta ModelMetadata
	if err := readMetadata(folder, ModelMetadataFile, &meta); err != nil {
		return ModelMetadata{}, err
	}
	return meta, nil
}

// ReadModelInstanceMetadata loads model-instance-metadata.json from folder.
func ReadModelInstanceMetadata(folder string) (ModelInstanceMetadata, error) {
	var meta ModelInstanceMetadata
	if err := readMetadata(folder, ModelInstanceMetadataFile, &meta); err != nil {
		return ModelInstanceMetadata{}, err
	}
	return meta, nil
}

func writeMetadata(folder, name string, meta any) error {
	if err := os.MkdirAll(folder, 0o750); err != nil {
		return fmt.Errorf("creating folder %s: %w", folder, err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(folder, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o640); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readMetadata(folder, name string, meta any) error {
	path := filepath.Join(folder, name)
	data, err := os.ReadFile(path) // #nosec G304 -- folder validated by caller
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, meta); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
