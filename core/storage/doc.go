// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the voucher extractor needs: reading source CSV objects and
// uploading finished reports. This abstraction supports both AWS S3 and
// self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap (see EnsureBucket).
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - StatObject: Checks object presence without downloading it.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	if err := storage.EnsureBucket(ctx, client, config.Bucket, config.Region); err != nil {
//	    return err
//	}
package storage
