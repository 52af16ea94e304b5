package port

import "context"

// FileStore keeps generated files: report workbooks and outbox e-mails
type FileStore interface {
	// Put stores content under key and returns its location (path or URL)
	Put(ctx context.Context, key string, content []byte) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}
