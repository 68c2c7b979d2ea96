package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"bilingo/internal/services"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	local := filepath.Join(t.TempDir(), "lesson_slideshow.mp4")
	if err := os.WriteFile(local, []byte("video-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	putter := &fakePutter{}
	pub, err := New(putter, "media", "/slideshows/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loc, err := pub.Upload(context.Background(), "run-42", local)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if loc.Key != "slideshows/run-42/lesson_slideshow.mp4" || loc.Size != 11 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.URL() != "s3://media/slideshows/run-42/lesson_slideshow.mp4" {
		t.Fatalf("URL = %q", loc.URL())
	}
	if aws.ToString(putter.input.Bucket) != "media" || aws.ToString(putter.input.ContentType) != "video/mp4" {
		t.Fatalf("unexpected input %+v", putter.input)
	}
	if aws.ToInt64(putter.input.ContentLength) != 11 || string(putter.body) != "video-bytes" {
		t.Fatalf("unexpected body %q", putter.body)
	}
}

func TestKeyWithoutPrefix(t *testing.T) {
	pub, err := New(&fakePutter{}, "b", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := pub.Key("", "/tmp/out.mp4"); got != "out.mp4" {
		t.Fatalf("Key = %q", got)
	}
}

func TestUploadErrors(t *testing.T) {
	if _, err := New(nil, "b", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	pub, err := New(&fakePutter{err: errors.New("access denied")}, "b", "p")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pub.Upload(context.Background(), "r", filepath.Join(t.TempDir(), "missing.mp4")); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
	local := filepath.Join(t.TempDir(), "x.mp4")
	if err := os.WriteFile(local, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := pub.Upload(context.Background(), "r", local); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
