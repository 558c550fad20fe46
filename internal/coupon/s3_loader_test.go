package coupon

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"

	"checkout-wizard/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) (Set, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) (Set, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

// fakeObjectGetter serves gzipped objects from memory.
type fakeObjectGetter struct {
	objects map[string][]byte
	err     error
	gotKeys []string
}

func (f *fakeObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKeys = append(f.gotKeys, aws.ToString(params.Key))
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func setOf(coupons ...model.Coupon) Set {
	set := NewMapSet(len(coupons)).(*mapSet)
	for _, c := range coupons {
		set.Add(c)
	}
	return set
}

func TestS3Loader_Load(t *testing.T) {
	getter := &fakeObjectGetter{objects: map[string][]byte{
		"coupons/base.gz": gzipBytes(t, "WELCOME10,percentage,10\nSAVE50,fixed,50,200\n"),
	}}
	loader := newS3Loader(getter, "bucket", zerolog.Nop())

	set, err := loader.Load(context.Background(), "coupons/base.gz")

	require.NoError(t, err)
	assert.Equal(t, 2, set.Size())
	assert.Equal(t, []string{"coupons/base.gz"}, getter.gotKeys)
}

func TestS3Loader_Load_Errors(t *testing.T) {
	t.Run("get object fails", func(t *testing.T) {
		loader := newS3Loader(&fakeObjectGetter{err: errors.New("access denied")}, "bucket", zerolog.Nop())
		set, err := loader.Load(context.Background(), "x.gz")
		assert.Nil(t, set)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("object is not gzipped", func(t *testing.T) {
		getter := &fakeObjectGetter{objects: map[string][]byte{"x.gz": []byte("plain")}}
		loader := newS3Loader(getter, "bucket", zerolog.Nop())
		set, err := loader.Load(context.Background(), "x.gz")
		assert.Nil(t, set)
		assert.Error(t, err)
	})
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Set, error) {
			assert.Equal(t, "coupons/test.gz", filePath, "S3 key should have prefix")
			return setOf(model.Coupon{Code: "S3CODE"}), nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Set, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "coupons/", true, zerolog.Nop())

	set, err := fallback.Load(context.Background(), "test.gz")
	require.NoError(t, err)
	_, ok := set.Get("S3CODE")
	assert.True(t, ok)
}

func TestFallbackLoader_FallsBackToLocal(t *testing.T) {
	tests := []struct {
		name      string
		s3Loader  Loader
		s3Enabled bool
	}{
		{
			name: "S3 fails",
			s3Loader: &mockLoader{loadFunc: func(ctx context.Context, filePath string) (Set, error) {
				return nil, errors.New("S3 connection failed")
			}},
			s3Enabled: true,
		},
		{
			name: "S3 disabled",
			s3Loader: &mockLoader{loadFunc: func(ctx context.Context, filePath string) (Set, error) {
				return nil, errors.New("S3 loader should not be called")
			}},
			s3Enabled: false,
		},
		{
			name:      "S3 loader nil",
			s3Loader:  nil,
			s3Enabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileLoader := &mockLoader{
				loadFunc: func(ctx context.Context, filePath string) (Set, error) {
					assert.Equal(t, "test.gz", filePath, "local file path should not have prefix")
					return setOf(model.Coupon{Code: "LOCALCODE"}), nil
				},
			}

			fallback := NewFallbackLoader(tt.s3Loader, fileLoader, "coupons/", tt.s3Enabled, zerolog.Nop())

			set, err := fallback.Load(context.Background(), "test.gz")
			require.NoError(t, err)
			_, ok := set.Get("LOCALCODE")
			assert.True(t, ok)
		})
	}
}

func TestFallbackLoader_BothFail(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Set, error) {
			return nil, errors.New("S3 error")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Set, error) {
			return nil, errors.New("file not found")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "coupons/", true, zerolog.Nop())

	set, err := fallback.Load(context.Background(), "test.gz")
	assert.Error(t, err)
	assert.Nil(t, set)
	assert.Contains(t, err.Error(), "file not found")
}

func TestFallbackLoader_PrefixHandling(t *testing.T) {
	tests := []struct {
		name       string
		s3Prefix   string
		filePath   string
		expectedS3 string
	}{
		{name: "prefix with trailing slash", s3Prefix: "coupons/", filePath: "file.gz", expectedS3: "coupons/file.gz"},
		{name: "prefix without trailing slash", s3Prefix: "coupons", filePath: "file.gz", expectedS3: "couponsfile.gz"},
		{name: "empty prefix", s3Prefix: "", filePath: "file.gz", expectedS3: "file.gz"},
		{name: "nested prefix", s3Prefix: "data/coupons/prod/", filePath: "file.gz", expectedS3: "data/coupons/prod/file.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := &fakeObjectGetter{objects: map[string][]byte{
				tt.expectedS3: gzipBytes(t, "CODE,fixed,1\n"),
			}}
			loader := newS3Loader(getter, "bucket", zerolog.Nop())

			fallback := NewFallbackLoader(loader, &mockLoader{}, tt.s3Prefix, true, zerolog.Nop())
			_, err := fallback.Load(context.Background(), tt.filePath)
			assert.NoError(t, err)
			assert.Equal(t, []string{tt.expectedS3}, getter.gotKeys)
		})
	}
}
