package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
)

type fakeDatasetAPI struct {
	statusFn        func(ctx context.Context, ref kaggle.Ref) (string, error)
	createFn        func(ctx context.Context, folder string, public, convertToCSV bool) (kaggle.DatasetVersionResult, error)
	createVersionFn func(ctx context.Context, folder, versionNotes string, convertToCSV, deleteOldVersions bool) (kaggle.DatasetVersionResult, error)
}

func (f *fakeDatasetAPI) DatasetsList(context.Context, kaggle.DatasetsListOptions) ([]kaggle.Dataset, error) {
	return nil, nil
}

func (f *fakeDatasetAPI) DatasetMetadataDownload(context.Context, kaggle.Ref, string) (string, error) {
	return "", nil
}

func (f *fakeDatasetAPI) DatasetListFiles(context.Context, kaggle.Ref, string, int) (kaggle.FileList, error) {
	return kaggle.FileList{}, nil
}

func (f *fakeDatasetAPI) DatasetStatus(ctx context.Context, ref kaggle.Ref) (string, error) {
	return f.statusFn(ctx, ref)
}

func (f *fakeDatasetAPI) DatasetDownloadFile(context.Context, kaggle.Ref, string, string, bool) (string, error) {
	return "", nil
}

func (f *fakeDatasetAPI) DatasetDownloadFiles(context.Context, kaggle.Ref, string, bool) (string, error) {
	return "", nil
}

func (f *fakeDatasetAPI) DatasetCreate(ctx context.Context, folder string, public, convertToCSV bool) (kaggle.DatasetVersionResult, error) {
	return f.createFn(ctx, folder, public, convertToCSV)
}

func (f *fakeDatasetAPI) DatasetCreateVersion(ctx context.Context, folder, versionNotes string, convertToCSV, deleteOldVersions bool) (kaggle.DatasetVersionResult, error) {
	return f.createVersionFn(ctx, folder, versionNotes, convertToCSV, deleteOldVersions)
}

func TestDatasetStatusRejectsBadRef(t *testing.T) {
	ts := NewDatasets(&fakeDatasetAPI{}, testPaths(t))
	_, err := ts.status(context.Background(), datasetStatusInput{Dataset: "no-slash"})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestDatasetDownloadFilesDeniedPathIsIOError(t *testing.T) {
	ts := NewDatasets(&fakeDatasetAPI{}, testPaths(t))

	_, err := ts.downloadFiles(context.Background(), datasetDownloadFilesInput{
		Dataset: "heptapod/titanic",
		Path:    string(os.PathSeparator) + "root" + string(os.PathSeparator) + "forbidden",
	})

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *IOError", err)
	}
	if code := Failure(err).Error.Code; code != ErrCodeIO {
		t.Errorf("error code = %q, want %q", code, ErrCodeIO)
	}
}

func TestDatasetInitializeWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	ts := NewDatasets(&fakeDatasetAPI{}, testPaths(t, dir))

	res, err := ts.initialize(context.Background(), datasetInitializeInput{Folder: dir})
	if err != nil {
		t.Fatalf("initialize() error = %v", err)
	}
	if res.Status != StatusSuccess {
		t.Errorf("Status = %s, want success", res.Status)
	}
	if _, err := os.Stat(filepath.Join(dir, kaggle.DatasetMetadataFile)); err != nil {
		t.Errorf("metadata template not written: %v", err)
	}
}

func TestDatasetCreateRequiresMetadataFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeDatasetAPI{
		createFn: func(context.Context, string, bool, bool) (kaggle.DatasetVersionResult, error) {
			t.Error("client must not be called without a metadata file")
			return kaggle.DatasetVersionResult{}, nil
		},
	}
	ts := NewDatasets(api, testPaths(t, dir))

	_, err := ts.create(context.Background(), datasetCreateInput{Folder: dir})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestDatasetCreateVersionDefaultsConvertToCSV(t *testing.T) {
	dir := t.TempDir()
	if err := kaggle.InitDatasetMetadata(dir); err != nil {
		t.Fatal(err)
	}

	var gotConvert bool
	api := &fakeDatasetAPI{
		createVersionFn: func(_ context.Context, _, _ string, convertToCSV, _ bool) (kaggle.DatasetVersionResult, error) {
			gotConvert = convertToCSV
			return kaggle.DatasetVersionResult{Ref: "tester/data"}, nil
		},
	}
	ts := NewDatasets(api, testPaths(t, dir))

	if _, err := ts.createVersion(context.Background(), datasetCreateVersionInput{
		Folder:       dir,
		VersionNotes: "v2",
	}); err != nil {
		t.Fatalf("createVersion() error = %v", err)
	}
	if !gotConvert {
		t.Error("convert_to_csv should default to true")
	}
}

func TestDatasetCreateSurfacesServerError(t *testing.T) {
	dir := t.TempDir()
	if err := kaggle.InitDatasetMetadata(dir); err != nil {
		t.Fatal(err)
	}

	api := &fakeDatasetAPI{
		createFn: func(context.Context, string, bool, bool) (kaggle.DatasetVersionResult, error) {
			return kaggle.DatasetVersionResult{Error: "slug already in use"}, nil
		},
	}
	ts := NewDatasets(api, testPaths(t, dir))

	_, err := ts.create(context.Background(), datasetCreateInput{Folder: dir})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}
