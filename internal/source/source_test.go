package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[k] = b
	f.types[k] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestParse(t *testing.T) {
	loc, err := Parse("s3://reports/2024/ads.csv")
	require.NoError(t, err)
	assert.True(t, loc.IsS3())
	assert.Equal(t, "reports", loc.Bucket)
	assert.Equal(t, "2024/ads.csv", loc.Key)
	assert.Equal(t, "ads.csv", loc.Name())
	assert.Equal(t, "s3://reports/2024/ads.csv", loc.String())

	loc, err = Parse("data/crm.xlsx")
	require.NoError(t, err)
	assert.False(t, loc.IsS3())
	assert.Equal(t, "crm.xlsx", loc.Name())

	_, err = Parse("s3://bucket-only")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestReadTableFromS3(t *testing.T) {
	fake := newFakeS3()
	fake.objects["in/ads.csv"] = []byte("ID,Leads,Spent\n1,10,100\n")
	s := NewWithClient(fake)

	tb, err := s.ReadTable(context.Background(), "s3://in/ads.csv", parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Leads", "Spent"}, tb.Columns)
	assert.Equal(t, 1, tb.Len())

	_, err = s.ReadTable(context.Background(), "s3://in/missing.csv", parser.Options{})
	assert.ErrorContains(t, err, "NoSuchKey")

	_, err = s.ReadTable(context.Background(), "s3://in/notes.pdf", parser.Options{})
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
}

func TestReadTableLocal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "crm.csv")
	require.NoError(t, os.WriteFile(p, []byte("Client;ID\nann;1\n"), 0o644))
	tb, err := New("", "").ReadTable(context.Background(), p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Client", "ID"}, tb.Columns)
}

func TestPut(t *testing.T) {
	fake := newFakeS3()
	s := NewWithClient(fake)
	loc, err := s.Put(context.Background(), "s3://out/r/report.json", []byte("{}"), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "out", loc.Bucket)
	assert.Equal(t, []byte("{}"), fake.objects["out/r/report.json"])
	assert.Equal(t, "application/json", fake.types["out/r/report.json"])

	p := filepath.Join(t.TempDir(), "nested", "report.md")
	_, err = s.Put(context.Background(), p, []byte("# r"), "")
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "# r", string(b))
}

func TestS3ClientSurvivesCancelledFirstCaller(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")

	s := New("us-east-1", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, err := s.s3Client(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)

	again, err := s.s3Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, again)
}
