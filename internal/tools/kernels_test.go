package tools

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
)

type fakeKernelAPI struct {
	listFn   func(ctx context.Context, opts kaggle.KernelsListOptions) ([]kaggle.Kernel, error)
	pushFn   func(ctx context.Context, folder string) (kaggle.KernelPushResult, error)
	statusFn func(ctx context.Context, ref kaggle.Ref) (kaggle.KernelStatusResult, error)
	outputFn func(ctx context.Context, ref kaggle.Ref, destDir string, force bool) ([]string, error)
}

func (f *fakeKernelAPI) KernelsList(ctx context.Context, opts kaggle.KernelsListOptions) ([]kaggle.Kernel, error) {
	return f.listFn(ctx, opts)
}

func (f *fakeKernelAPI) KernelListFiles(context.Context, kaggle.Ref, string, int) (kaggle.FileList, error) {
	return kaggle.FileList{}, nil
}

func (f *fakeKernelAPI) KernelPush(ctx context.Context, folder string) (kaggle.KernelPushResult, error) {
	return f.pushFn(ctx, folder)
}

func (f *fakeKernelAPI) KernelPull(context.Context, kaggle.Ref, string, bool) (string, error) {
	return "", nil
}

func (f *fakeKernelAPI) KernelOutput(ctx context.Context, ref kaggle.Ref, destDir string, force bool) ([]string, error) {
	return f.outputFn(ctx, ref, destDir, force)
}

func (f *fakeKernelAPI) KernelStatus(ctx context.Context, ref kaggle.Ref) (kaggle.KernelStatusResult, error) {
	return f.statusFn(ctx, ref)
}

func TestKernelsListDefaultsPaging(t *testing.T) {
	var got kaggle.KernelsListOptions
	api := &fakeKernelAPI{
		listFn: func(_ context.Context, opts kaggle.KernelsListOptions) ([]kaggle.Kernel, error) {
			got = opts
			return []kaggle.Kernel{{Ref: "alice/eda"}, {Ref: "bob/baseline"}}, nil
		},
	}
	ts := NewKernels(api, testPaths(t))

	res, err := ts.list(context.Background(), kernelsListInput{})
	if err != nil {
		t.Fatalf("list() error = %v", err)
	}
	if got.Page != 1 || got.PageSize != 20 {
		t.Errorf("page = %d, pageSize = %d, want 1 and 20", got.Page, got.PageSize)
	}
	if res.Message != "Retrieved 2 kernels." {
		t.Errorf("message = %q", res.Message)
	}
}

func TestKernelPushRequiresMetadataFile(t *testing.T) {
	api := &fakeKernelAPI{
		pushFn: func(context.Context, string) (kaggle.KernelPushResult, error) {
			t.Error("client must not be called without a metadata file")
			return kaggle.KernelPushResult{}, nil
		},
	}
	ts := NewKernels(api, testPaths(t))

	_, err := ts.push(context.Background(), kernelPushInput{Folder: t.TempDir()})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestKernelPushSurfacesServerError(t *testing.T) {
	dir := t.TempDir()
	if err := kaggle.InitKernelMetadata(dir); err != nil {
		t.Fatalf("InitKernelMetadata() error = %v", err)
	}
	api := &fakeKernelAPI{
		pushFn: func(context.Context, string) (kaggle.KernelPushResult, error) {
			return kaggle.KernelPushResult{Error: "title too short"}, nil
		},
	}
	ts := NewKernels(api, testPaths(t, dir))

	_, err := ts.push(context.Background(), kernelPushInput{Folder: dir})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if valErr.Reason != "title too short" {
		t.Errorf("reason = %q", valErr.Reason)
	}
}

func TestKernelStatusRejectsBadRef(t *testing.T) {
	ts := NewKernels(&fakeKernelAPI{}, testPaths(t))

	_, err := ts.status(context.Background(), kernelStatusInput{Kernel: "not-a-ref"})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestKernelStatusReportsState(t *testing.T) {
	api := &fakeKernelAPI{
		statusFn: func(_ context.Context, ref kaggle.Ref) (kaggle.KernelStatusResult, error) {
			if ref.Owner != "alice" || ref.Slug != "eda" {
				t.Errorf("ref = %+v", ref)
			}
			return kaggle.KernelStatusResult{Status: "complete"}, nil
		},
	}
	ts := NewKernels(api, testPaths(t))

	res, err := ts.status(context.Background(), kernelStatusInput{Kernel: "alice/eda"})
	if err != nil {
		t.Fatalf("status() error = %v", err)
	}
	if res.Message != "Kernel 'alice/eda' status: complete" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestKernelOutputRejectsOutsidePath(t *testing.T) {
	api := &fakeKernelAPI{
		outputFn: func(context.Context, kaggle.Ref, string, bool) ([]string, error) {
			t.Error("client must not be called for a denied destination")
			return nil, nil
		},
	}
	ts := NewKernels(api, testPaths(t, t.TempDir()))

	_, err := ts.output(context.Background(), kernelOutputInput{
		Kernel: "alice/eda",
		Path:   string(os.PathSeparator) + "etc",
	})

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error = %v, want *IOError", err)
	}
}
