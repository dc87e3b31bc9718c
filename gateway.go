package flowpress

import (
	"errors"
	"fmt"
)

// ErrorCode classifies Gateway failures so callers can tell recoverable
// schema problems apart from transient transport errors.
type ErrorCode string

const (
	// CodeSchemaMissing means a table the engine expects does not exist on
	// the remote source. The affected collection degrades to its local
	// snapshot; the other collections keep working.
	CodeSchemaMissing ErrorCode = "schema_missing"
	// CodeConflict means a unique constraint was violated.
	CodeConflict ErrorCode = "conflict"
	// CodeNotFound means the addressed row does not exist.
	CodeNotFound ErrorCode = "not_found"
	// CodePermissionDenied means the storage bucket rejected the upload.
	CodePermissionDenied ErrorCode = "permission_denied"
	// CodeBucketNotFound means the storage bucket does not exist.
	CodeBucketNotFound ErrorCode = "bucket_not_found"
	// CodeUnavailable covers transient transport and auth failures.
	CodeUnavailable ErrorCode = "unavailable"
)

// GatewayError is a failure reported by the remote data source, carrying a
// human-readable message and a machine code.
type GatewayError struct {
	Code ErrorCode
	Op   string
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func gwErr(code ErrorCode, op string, err error) *GatewayError {
	return &GatewayError{Code: code, Op: op, Err: err}
}

// CodeOf extracts the ErrorCode from err, or CodeUnavailable when err is not
// a GatewayError.
func CodeOf(err error) ErrorCode {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeUnavailable
}

// IsSchemaMissing reports whether err is a table-not-found / stale-schema
// failure, the one category the engine recovers from by degrading.
func IsSchemaMissing(err error) bool {
	return CodeOf(err) == CodeSchemaMissing
}

// ErrIncrementUnsupported is returned by gateways that have no server-side
// atomic increment. The Store falls back to read-modify-write.
var ErrIncrementUnsupported = errors.New("gateway: atomic increment not supported")

// ErrInvalidCredentials is returned by SignIn when the email/password pair
// does not match a stored administrator.
var ErrInvalidCredentials = errors.New("gateway: invalid credentials")

// Gateway is the remote data source behind the Store: table CRUD for the
// four managed collections, credential sign-in, and file upload. Every call
// may fail; the Store treats none of them as guaranteed. Implementations
// must be safe for concurrent use.
type Gateway interface {
	// Posts, ordered newest-first by creation time.
	ListPosts() ([]Post, error)
	InsertPost(p Post) error
	UpdatePost(p Post) error
	DeletePost(id string) error
	// IncrementPostViews atomically bumps a post's view counter server-side.
	// Returns ErrIncrementUnsupported when the backend has no such operation.
	IncrementPostViews(id string) error

	// Categories, ordered by name.
	ListCategories() ([]Category, error)
	InsertCategory(c Category) error
	UpdateCategory(c Category) error
	DeleteCategory(id string) error

	// The settings singleton, keyed by SettingsID.
	GetSettings() (SiteSettings, error)
	UpsertSettings(s SiteSettings) error

	// Subscribers, ordered newest-first.
	ListSubscribers() ([]Subscriber, error)
	InsertSubscriber(s Subscriber) error
	DeleteSubscriber(id string) error

	// SignIn validates administrator credentials.
	SignIn(email, password string) error

	// UploadFile stores data under the named bucket and returns a public URL.
	UploadFile(bucket, filename string, data []byte) (string, error)

	Close() error
}
