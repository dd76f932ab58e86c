package localstorage

import "context"

// Repo is the durable key/value side of the token store. Values are grouped by
// namespace, one namespace per browser device.
type Repo interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace string, values map[string]string) error
	Delete(ctx context.Context, namespace string, keys ...string) error
}
