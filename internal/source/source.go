// Package source opens input tables from local paths or s3:// URIs and
// stores rendered reports the same way.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/KaramelBytes/adlens-cli/internal/table"
	"github.com/KaramelBytes/adlens-cli/internal/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a parsed input or output address.
type Location struct {
	Bucket string
	Key    string
	Path   string
}

// IsS3 reports whether the location points at an S3 object.
func (l Location) IsS3() bool { return l.Bucket != "" }

// Name is the base file name, used to pick a reader.
func (l Location) Name() string {
	if l.IsS3() {
		return path.Base(l.Key)
	}
	return filepath.Base(l.Path)
}

func (l Location) String() string {
	if l.IsS3() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// Parse accepts "s3://bucket/key" or a local path.
func Parse(uri string) (Location, error) {
	if uri == "" {
		return Location{}, errors.New("empty location")
	}
	if !strings.HasPrefix(strings.ToLower(uri), "s3://") {
		p, err := utils.ExpandHome(uri)
		if err != nil {
			return Location{}, err
		}
		return Location{Path: p}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("parse %s: %w", uri, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("s3 location %q needs a bucket and a key", uri)
	}
	return Location{Bucket: u.Host, Key: key}, nil
}

// Store reads and writes locations. The S3 client is created on first use so
// purely local runs never touch AWS configuration.
type Store struct {
	region  string
	profile string

	once   sync.Once
	client ObjectAPI
	err    error
}

// New returns a store that builds its S3 client from the default AWS chain,
// optionally pinned to a region and shared-config profile.
func New(region, profile string) *Store {
	return &Store{region: region, profile: profile}
}

// NewWithClient returns a store backed by the given S3 client.
func NewWithClient(c ObjectAPI) *Store {
	s := &Store{client: c}
	s.once.Do(func() {})
	return s
}

// s3Client builds the client once. The build ignores ctx cancellation so a
// cancelled first caller cannot poison later ones.
func (s *Store) s3Client(ctx context.Context) (ObjectAPI, error) {
	s.once.Do(func() {
		ctx := context.WithoutCancel(ctx)
		var opts []func(*config.LoadOptions) error
		if s.region != "" {
			opts = append(opts, config.WithRegion(s.region))
		}
		if s.profile != "" {
			opts = append(opts, config.WithSharedConfigProfile(s.profile))
		}
		cfg, err := config.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			s.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		s.client = s3.NewFromConfig(cfg)
	})
	return s.client, s.err
}

// Open returns a reader for the location.
func (s *Store) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if !loc.IsS3() {
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc.Path, err)
		}
		return f, nil
	}
	c, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	return res.Body, nil
}

// ReadTable opens uri and decodes it with the reader matching its name.
func (s *Store) ReadTable(ctx context.Context, uri string, opt parser.Options) (*table.Table, error) {
	loc, err := Parse(uri)
	if err != nil {
		return nil, err
	}
	if !parser.Supported(loc.Name()) && !strings.HasSuffix(strings.ToLower(loc.Name()), ".xls") {
		return nil, fmt.Errorf("%s: %w", loc.Name(), parser.ErrUnsupported)
	}
	rc, err := s.Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parser.Read(loc.Name(), rc, opt)
}

// Put writes body to uri: an atomic file write for local paths, PutObject
// for S3.
func (s *Store) Put(ctx context.Context, uri string, body []byte, contentType string) (Location, error) {
	loc, err := Parse(uri)
	if err != nil {
		return Location{}, err
	}
	if !loc.IsS3() {
		if dir := filepath.Dir(loc.Path); dir != "" {
			if err := utils.EnsureDir(dir); err != nil {
				return Location{}, err
			}
		}
		return loc, utils.SafeWriteFile(loc.Path, body)
	}
	c, err := s.s3Client(ctx)
	if err != nil {
		return Location{}, err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := c.PutObject(ctx, in); err != nil {
		return Location{}, fmt.Errorf("put %s: %w", loc, err)
	}
	return loc, nil
}
