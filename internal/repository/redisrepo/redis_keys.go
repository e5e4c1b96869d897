package redisrepo

import "fmt"

const PREFIXED_KEY = "%s:%s" // <prefix>:<slug>

// PostKey is the cache key for a serialized post; prefix comes from the
// posts table config.
func PostKey(prefix string, slug string) string {
	return fmt.Sprintf(PREFIXED_KEY, prefix, slug)
}

// ViewsKey is the cache key for a post's view counter; prefix comes from the
// views table config.
func ViewsKey(prefix string, slug string) string {
	return fmt.Sprintf(PREFIXED_KEY, prefix, slug)
}
