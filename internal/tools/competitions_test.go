package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

type fakeCompetitionAPI struct {
	listFn         func(ctx context.Context, page int, search string) ([]kaggle.Competition, error)
	downloadFileFn func(ctx context.Context, competition, fileName, destDir string, force bool) (string, error)
	submitFn       func(ctx context.Context, competition, filePath, message string) (kaggle.SubmitResult, error)
}

func (f *fakeCompetitionAPI) CompetitionsList(ctx context.Context, page int, search string) ([]kaggle.Competition, error) {
	return f.listFn(ctx, page, search)
}

func (f *fakeCompetitionAPI) CompetitionListFiles(context.Context, string, string, int) (kaggle.FileList, error) {
	return kaggle.FileList{}, nil
}

func (f *fakeCompetitionAPI) CompetitionDownloadFile(ctx context.Context, competition, fileName, destDir string, force bool) (string, error) {
	return f.downloadFileFn(ctx, competition, fileName, destDir, force)
}

func (f *fakeCompetitionAPI) CompetitionDownloadFiles(context.Context, string, string, bool) (string, error) {
	return "", nil
}

func (f *fakeCompetitionAPI) CompetitionSubmit(ctx context.Context, competition, filePath, message string) (kaggle.SubmitResult, error) {
	return f.submitFn(ctx, competition, filePath, message)
}

func (f *fakeCompetitionAPI) CompetitionSubmissions(context.Context, string, string, string, string, int) ([]kaggle.Submission, error) {
	return nil, nil
}

func (f *fakeCompetitionAPI) CompetitionLeaderboardView(context.Context, string) ([]kaggle.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeCompetitionAPI) CompetitionLeaderboardDownload(context.Context, string, string) (string, error) {
	return "", nil
}

func testPaths(t *testing.T, allowed ...string) *security.Path {
	t.Helper()
	paths, err := security.NewPath(allowed)
	if err != nil {
		t.Fatalf("NewPath() error = %v", err)
	}
	return paths
}

func TestCompetitionsListDefaultsPage(t *testing.T) {
	var gotPage int
	api := &fakeCompetitionAPI{
		listFn: func(_ context.Context, page int, _ string) ([]kaggle.Competition, error) {
			gotPage = page
			return []kaggle.Competition{{Ref: "titanic"}, {Ref: "digit-recognizer"}}, nil
		},
	}
	ts := NewCompetitions(api, testPaths(t))

	res, err := ts.list(context.Background(), competitionsListInput{})
	if err != nil {
		t.Fatalf("list() error = %v", err)
	}
	if gotPage != 1 {
		t.Errorf("page = %d, want default 1", gotPage)
	}
	refs, ok := res.Data["competitions"].([]string)
	if !ok || len(refs) != 2 || refs[0] != "titanic" {
		t.Errorf("competitions = %v", res.Data["competitions"])
	}
}

func TestCompetitionDownloadFileRejectsOutsidePath(t *testing.T) {
	api := &fakeCompetitionAPI{
		downloadFileFn: func(context.Context, string, string, string, bool) (string, error) {
			t.Error("client must not be called for a denied destination")
			return "", nil
		},
	}
	ts := NewCompetitions(api, testPaths(t))

	_, err := ts.downloadFile(context.Background(), competitionDownloadFileInput{
		Competition: "titanic",
		FileName:    "train.csv",
		Path:        string(os.PathSeparator) + "etc",
	})
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *IOError", err)
	}
	if code := Failure(err).Error.Code; code != ErrCodeIO {
		t.Errorf("error code = %q, want %q", code, ErrCodeIO)
	}
}

func TestCompetitionDownloadFileAllowedDir(t *testing.T) {
	dir := t.TempDir()
	api := &fakeCompetitionAPI{
		downloadFileFn: func(_ context.Context, _, _, destDir string, _ bool) (string, error) {
			return filepath.Join(destDir, "train.csv"), nil
		},
	}
	ts := NewCompetitions(api, testPaths(t, dir))

	res, err := ts.downloadFile(context.Background(), competitionDownloadFileInput{
		Competition: "titanic",
		FileName:    "train.csv",
		Path:        dir,
	})
	if err != nil {
		t.Fatalf("downloadFile() error = %v", err)
	}
	if res.Data["saved_path"] == "" {
		t.Error("saved_path missing from result data")
	}
}

func TestCompetitionSubmitMissingFile(t *testing.T) {
	api := &fakeCompetitionAPI{
		submitFn: func(context.Context, string, string, string) (kaggle.SubmitResult, error) {
			t.Error("client must not be called when the file is missing")
			return kaggle.SubmitResult{}, nil
		},
	}
	ts := NewCompetitions(api, testPaths(t))

	_, err := ts.submit(context.Background(), competitionSubmitInput{
		FileName:    filepath.Join(t.TempDir(), "missing.csv"),
		Message:     "run",
		Competition: "titanic",
	})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestCompetitionSubmitUsesServerMessage(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sub.csv")
	if err := os.WriteFile(file, []byte("id\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	api := &fakeCompetitionAPI{
		submitFn: func(context.Context, string, string, string) (kaggle.SubmitResult, error) {
			return kaggle.SubmitResult{Ref: "sub-1", Message: "Successfully submitted"}, nil
		},
	}
	ts := NewCompetitions(api, testPaths(t, dir))

	res, err := ts.submit(context.Background(), competitionSubmitInput{
		FileName:    file,
		Message:     "run",
		Competition: "titanic",
	})
	if err != nil {
		t.Fatalf("submit() error = %v", err)
	}
	if res.Message != "Successfully submitted" {
		t.Errorf("Message = %q, want server message", res.Message)
	}
	if res.Data["submission_ref"] != "sub-1" {
		t.Errorf("submission_ref = %v", res.Data["submission_ref"])
	}
}
