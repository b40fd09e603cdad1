package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
)

// Location is a parsed storage URI. Supported schemes are s3 (bucket + key),
// file (absolute path) and http/https (read-only, Key holds the full URL).
type Location struct {
	Scheme string
	Bucket string
	Key    string
}

func ParseLocation(uri string) (Location, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("invalid storage location %q: %w", uri, wrapIO(err))
	}

	switch u.Scheme {
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 location %q, expected s3://bucket/key: %w", uri, ErrIO)
		}
		return Location{Scheme: "s3", Bucket: u.Host, Key: key}, nil
	case "file":
		p := u.Path
		if u.Host != "" { // file://relative/path parses the first segment as host
			p = path.Join(u.Host, u.Path)
		}
		if p == "" {
			return Location{}, fmt.Errorf("invalid file location %q: %w", uri, ErrIO)
		}
		return Location{Scheme: "file", Key: p}, nil
	case "http", "https":
		return Location{Scheme: u.Scheme, Key: uri}, nil
	case "":
		// Bare paths are treated as local files, matching CLI usage.
		return Location{Scheme: "file", Key: uri}, nil
	default:
		return Location{}, fmt.Errorf("unsupported storage scheme %q in %q: %w", u.Scheme, uri, ErrIO)
	}
}

func (l Location) String() string {
	switch l.Scheme {
	case "s3":
		return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
	case "file":
		return "file://" + l.Key
	default:
		return l.Key
	}
}

// Resolver routes location URIs to the matching backend: S3 buckets, the
// local filesystem, or HTTP endpoints. S3 stores are cached per bucket.
type Resolver struct {
	s3cfg S3ClientConfig
	http  *resty.Client

	mu      sync.Mutex
	buckets map[string]*S3ObjectStore
	local   *LocalObjectStore
}

func NewResolver(cfg S3ClientConfig) *Resolver {
	return &Resolver{
		s3cfg:   cfg,
		http:    resty.New(),
		buckets: make(map[string]*S3ObjectStore),
	}
}

func (r *Resolver) bucketStore(bucket string) (*S3ObjectStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.buckets[bucket]; ok {
		return store, nil
	}
	store, err := NewS3ObjectStore(bucket, r.s3cfg)
	if err != nil {
		return nil, err
	}
	r.buckets[bucket] = store
	return store, nil
}

func (r *Resolver) localStore() (*LocalObjectStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.local == nil {
		store, err := NewLocalObjectStore("/")
		if err != nil {
			return nil, err
		}
		r.local = store
	}
	return r.local, nil
}

// Open returns a reader for the object at uri.
func (r *Resolver) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case "s3":
		store, err := r.bucketStore(loc.Bucket)
		if err != nil {
			return nil, err
		}
		return store.GetObject(ctx, loc.Key)
	case "file":
		store, err := r.localStore()
		if err != nil {
			return nil, err
		}
		return store.GetObject(ctx, strings.TrimPrefix(loc.Key, "/"))
	default:
		resp, err := r.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(loc.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", loc.Key, wrapIO(err))
		}
		if resp.StatusCode() >= 300 {
			resp.RawBody().Close()
			return nil, fmt.Errorf("failed to fetch %s: status %d: %w", loc.Key, resp.StatusCode(), ErrIO)
		}
		return resp.RawBody(), nil
	}
}

// Put writes a single object to uri. HTTP locations are read-only.
func (r *Resolver) Put(ctx context.Context, uri string, data io.Reader) error {
	loc, err := ParseLocation(uri)
	if err != nil {
		return err
	}

	switch loc.Scheme {
	case "s3":
		store, err := r.bucketStore(loc.Bucket)
		if err != nil {
			return err
		}
		return store.PutObject(ctx, loc.Key, data)
	case "file":
		store, err := r.localStore()
		if err != nil {
			return err
		}
		return store.PutObject(ctx, strings.TrimPrefix(loc.Key, "/"), data)
	default:
		return fmt.Errorf("cannot write to read-only location %s: %w", uri, ErrIO)
	}
}
