package s3backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/hengadev/errsx"
	"github.com/hengadev/persistx"
	"github.com/hengadev/persistx/internal/monitoring"
	"github.com/hengadev/persistx/internal/reliability"
)

// API is the subset of the S3 client used by Backup.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// snapshotTimeLayout sorts lexically in time order.
const snapshotTimeLayout = "20060102T150405Z"

// Metadata keys set on every uploaded record.
const (
	metadataSerializer = "persistx-serializer"
	metadataRecord     = "persistx-record"
)

// Snapshot describes one pushed copy of a service's records.
type Snapshot struct {
	ID      string
	Records []string
}

// Backup copies the raw record files of a persistx.Service to S3 and back.
// Records are uploaded as stored, so encrypted records stay encrypted in
// the bucket.
//
// Each snapshot lives under {prefix}/{snapshot}/{name}.{extension}.
type Backup struct {
	client API
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
	retry  reliability.RetryPolicy
}

// Option configures a Backup.
type Option func(b *Backup)

// WithLogger sets the logger used for upload and restore diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backup) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides the time source used to name snapshots.
func WithClock(now func() time.Time) Option {
	return func(b *Backup) {
		if now != nil {
			b.now = now
		}
	}
}

// WithRetryPolicy sets how object uploads and downloads are retried. The
// default is three attempts with exponential backoff.
func WithRetryPolicy(policy reliability.RetryPolicy) Option {
	return func(b *Backup) {
		if policy != nil {
			b.retry = policy
		}
	}
}

// New creates a Backup writing to bucket under prefix.
func New(client API, bucket, prefix string, opts ...Option) (*Backup, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: S3 client cannot be nil", persistx.ErrInvalidConfiguration)
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("%w: bucket cannot be empty", persistx.ErrInvalidConfiguration)
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = persistx.DefaultAppName
	}

	b := &Backup{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: monitoring.DiscardLogger(),
		now:    time.Now,
		retry:  reliability.NewExponentialBackoffPolicy(reliability.DefaultRetryConfig()),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewFromConfig loads the default AWS configuration (environment, shared
// config files, instance role) and creates a Backup with an S3 client built
// from it.
func NewFromConfig(ctx context.Context, bucket, prefix string, opts ...Option) (*Backup, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS config: %w", persistx.ErrInvalidConfiguration, err)
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix, opts...)
}

// Bucket returns the target bucket.
func (b *Backup) Bucket() string { return b.bucket }

// Prefix returns the key prefix snapshots are stored under.
func (b *Backup) Prefix() string { return b.prefix }

func (b *Backup) newSnapshotID() string {
	return b.now().UTC().Format(snapshotTimeLayout) + "-" + uuid.NewString()
}

func (b *Backup) snapshotPrefix(id string) string {
	return fmt.Sprintf(persistx.BackupObjectPrefixTemplate, b.prefix, id)
}

// Push uploads every record of svc as a new snapshot.
//
// All records are attempted. If some uploads fail, the returned snapshot
// lists the records that made it and the error wraps
// persistx.ErrBackupFailed around an errsx.Map keyed by record name.
func (b *Backup) Push(ctx context.Context, svc *persistx.Service) (Snapshot, error) {
	names, err := svc.List()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", persistx.ErrBackupFailed, err)
	}

	snap := Snapshot{ID: b.newSnapshotID()}
	prefix := b.snapshotPrefix(snap.ID)
	errs := errsx.Map{}

	for _, name := range names {
		data, err := svc.ReadRaw(name)
		if err != nil {
			errs.Set(name, err)
			continue
		}

		key := prefix + name + "." + svc.Extension()
		err = b.withRetry(ctx, key, func(ctx context.Context) error {
			_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(b.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(data),
				ContentType: aws.String(contentType(svc.Kind())),
				Metadata: map[string]string{
					metadataSerializer: svc.Kind().String(),
					metadataRecord:     name,
				},
			})
			return classify(err)
		})
		if err != nil {
			errs.Set(name, fmt.Errorf("failed to upload to S3: %w", err))
			continue
		}
		snap.Records = append(snap.Records, name)
	}

	if !errs.IsEmpty() {
		b.logger.Warn("snapshot incomplete", "snapshot", snap.ID, "uploaded", len(snap.Records), "failed", len(errs))
		return snap, fmt.Errorf("%w: %w", persistx.ErrBackupFailed, errs.AsError())
	}

	b.logger.Info("snapshot uploaded", "bucket", b.bucket, "snapshot", snap.ID, "records", len(snap.Records))
	return snap, nil
}

// Snapshots returns the IDs of all snapshots under the prefix, oldest
// first.
func (b *Backup) Snapshots(ctx context.Context) ([]string, error) {
	root := b.prefix + "/"
	seen := make(map[string]struct{})

	err := b.walk(ctx, root, func(key string) error {
		rest := strings.TrimPrefix(key, root)
		if id, _, ok := strings.Cut(rest, "/"); ok && id != "" {
			seen[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Latest returns the ID of the newest snapshot.
func (b *Backup) Latest(ctx context.Context) (string, error) {
	ids, err := b.Snapshots(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: no snapshots under s3://%s/%s", persistx.ErrNotFound, b.bucket, b.prefix)
	}
	return ids[len(ids)-1], nil
}

// Restore downloads snapshot id into svc. Objects whose extension does not
// match the service's are skipped. With overwrite false, records that
// already exist locally are reported as persistx.ErrAlreadyExists in the
// aggregate error and left untouched.
//
// Returns the names of the restored records.
func (b *Backup) Restore(ctx context.Context, svc *persistx.Service, id string, overwrite bool) ([]string, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: invalid snapshot id %q", persistx.ErrInvalidConfiguration, id)
	}
	prefix := b.snapshotPrefix(id)
	suffix := "." + svc.Extension()

	var restored []string
	found := false
	errs := errsx.Map{}

	err := b.walk(ctx, prefix, func(key string) error {
		found = true
		file := path.Base(key)
		if !strings.HasSuffix(file, suffix) {
			return nil
		}
		name := strings.TrimSuffix(file, suffix)

		data, err := b.download(ctx, key)
		if err != nil {
			errs.Set(name, err)
			return nil
		}
		if err := svc.WriteRaw(name, data, overwrite); err != nil {
			errs.Set(name, err)
			return nil
		}
		restored = append(restored, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: snapshot %s not found in s3://%s/%s", persistx.ErrNotFound, id, b.bucket, b.prefix)
	}

	if !errs.IsEmpty() {
		b.logger.Warn("snapshot partially restored", "snapshot", id, "restored", len(restored), "failed", len(errs))
		return restored, fmt.Errorf("%w: %w", persistx.ErrBackupFailed, errs.AsError())
	}

	b.logger.Info("snapshot restored", "snapshot", id, "records", len(restored), "directory", svc.Directory())
	return restored, nil
}

func (b *Backup) download(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.withRetry(ctx, key, func(ctx context.Context) error {
		out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to download from S3: %w", classify(err))
		}
		defer out.Body.Close()

		data, err = io.ReadAll(out.Body)
		if err != nil {
			return fmt.Errorf("failed to read S3 object body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Backup) withRetry(ctx context.Context, key string, op func(context.Context) error) error {
	executor := reliability.NewRetryExecutor(b.retry)
	executor.SetOnRetryCallback(func(attempt int, delay time.Duration, err error) {
		b.logger.Debug("retrying S3 request", "key", key, "attempt", attempt, "delay", delay, "error", err)
	})
	return executor.Execute(ctx, op)
}

// classify marks S3 errors that another attempt cannot fix. Known error
// codes are permanent, as is any HTTP error status outside the retryable set.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "NoSuchBucket", "NoSuchKey", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return reliability.Permanent(err)
		}
	}
	var respErr interface{ HTTPStatusCode() int }
	if errors.As(err, &respErr) {
		if code := respErr.HTTPStatusCode(); code >= 400 && !reliability.IsRetryableStatusCode(code) {
			return reliability.Permanent(err)
		}
	}
	return err
}

// walk calls fn for every object key under prefix, following continuation
// tokens.
func (b *Backup) walk(ctx context.Context, prefix string, fn func(key string) error) error {
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("%w: failed to list s3://%s/%s: %w", persistx.ErrBackupFailed, b.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			if err := fn(key); err != nil {
				return err
			}
		}
	}
	return nil
}

func contentType(kind persistx.SerializerKind) string {
	if kind == persistx.EncryptedText {
		return "text/plain"
	}
	return "application/json"
}

// IsPartial reports whether err came from a Push or Restore that handled
// some records but not all, and returns the per-record failures.
func IsPartial(err error) (errsx.Map, bool) {
	var errs errsx.Map
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}
