// Package file provides keyed blob storage with local filesystem and S3
// backends. It holds CRM records, OAuth tokens and downloaded onboarding
// emails.
//
// # Architecture
//
// The Storage interface is deliberately small:
//   - Put writes an object, optionally under a precondition
//   - Get opens an object and returns its metadata
//   - Delete removes an object
//   - List returns the objects under a key prefix, sorted by key
//   - URL returns the public URL of a key
//
// Objects are addressed by slash-separated keys ("customers/42.json",
// "exports/Acme_Onboarding_Email.html"). Keys are cleaned before use; empty
// keys and keys containing ".." fail with ErrInvalidPath.
//
// Two implementations are provided:
//   - LocalStorage: files under a base directory. Writes go to a temporary
//     file that is renamed into place, so readers never see partial content.
//     A mutex serializes writers so preconditions are checked and applied
//     atomically within the process. The ETag is the hex SHA-256 of the
//     content.
//   - S3Storage: Amazon S3 and S3-compatible services (MinIO, Wasabi, R2)
//     through aws-sdk-go-v2. Preconditions map onto S3 conditional writes
//     (If-Match, If-None-Match: *), and the ETag is the one S3 returns.
//
// # Optimistic Concurrency
//
// Every stored object carries an ETag. Put accepts IfNotExists for creates
// and IfMatch for updates:
//
//	obj, err := store.Put(ctx, "customers/42.json", r, file.IfNotExists())
//	if err != nil {
//		return err
//	}
//
//	// later, after reading obj.ETag back
//	_, err = store.Put(ctx, "customers/42.json", r, file.IfMatch(obj.ETag))
//	if errors.Is(err, file.ErrPreconditionFailed) {
//		// someone else wrote the record first; reload and retry
//	}
//
// ETags are compared without quotes or the W/ prefix, so values taken
// straight from an HTTP If-Match header work.
//
// ReadAll is a helper for the common read-everything case:
//
//	data, obj, err := file.ReadAll(ctx, store, "customers/42.json")
//
// # Configuration
//
// New picks the backend from Config, which loads with pkg/config:
//
//	STORAGE_DRIVER=local|s3               (default local)
//	STORAGE_LOCAL_DIR=./data              LocalStorage base directory
//	STORAGE_BASE_URL=/files/              LocalStorage public URL prefix
//	STORAGE_S3_BUCKET, STORAGE_S3_REGION, STORAGE_S3_ACCESS_KEY_ID,
//	STORAGE_S3_SECRET_KEY, STORAGE_S3_ENDPOINT, STORAGE_S3_BASE_URL,
//	STORAGE_S3_FORCE_PATH_STYLE
//
//	cfg, err := config.Load[file.Config]()
//	if err != nil {
//		return err
//	}
//	store, err := file.New(ctx, cfg)
//
// Without S3 credentials the default AWS credential chain is used.
// S3Storage accepts options for tests and tuning: WithS3Client injects a
// fake client, WithPaginatorFactory a fake List paginator, and
// WithS3UploadTimeout bounds each Put.
//
// # Error Handling
//
// Backend failures are mapped onto the sentinel errors in errors.go and can
// be matched with errors.Is:
//   - ErrNotFound: the key does not exist
//   - ErrPreconditionFailed: IfMatch or IfNotExists did not hold
//   - ErrInvalidPath: the key was rejected
//   - ErrAccessDenied, ErrBucketNotFound, ErrServiceUnavailable: S3 errors
//   - ErrOperationTimeout, ErrOperationCanceled: the context ended
//
// Retrying transient S3 errors is left to the caller.
package file
