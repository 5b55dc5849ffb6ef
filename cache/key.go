package cache

import (
	"strings"

	"github.com/pkg/errors"
)

const keySeparator = ":"

// Key identifies a cache entry by the resource it holds plus every parameter
// that affects the fetched result. Two reads with equal keys observe the same
// entry.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + keySeparator + strings.Join(k.Params, keySeparator)
}

func (k Key) validate() error {
	if k.Resource == "" {
		return errors.Errorf("Cache key must have a resource name")
	}
	for _, p := range k.Params {
		if strings.Contains(p, keySeparator) {
			return errors.Errorf("Cache key param must not contain %q: %s", keySeparator, p)
		}
	}
	return nil
}
